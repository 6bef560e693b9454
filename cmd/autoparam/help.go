package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: autoparam <command> [flags] [dir]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  rewrite    Add query params to external links in HTML files")
	fmt.Fprintln(w, "  check      Report links still missing configured params")
	fmt.Fprintln(w, "  serve      Serve a directory, rewriting HTML responses")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'autoparam help <command>' for details on a specific command.")
}

// printParamUsage prints the flags shared by every command.
func printParamUsage(w io.Writer) {
	fmt.Fprintln(w, "Params:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -p, --param <k=v>         Query param to add (repeatable)")
	fmt.Fprintln(w, "  -m, --mode <s>            Merge mode: preserve, override, replace")
	fmt.Fprintln(w, "      --exempt-attr <s>     Attribute that exempts a tag (repeatable)")
	fmt.Fprintln(w, "      --exempt-domain <s>   Host never rewritten, subdomains included (repeatable)")
	fmt.Fprintln(w)
}

// printOutputUsage prints output control flags.
func printOutputUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file counts and timing")
}

// printRewriteUsage prints usage for the rewrite command.
func printRewriteUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: autoparam rewrite [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add query params to external links in HTML files, in place.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  dir    Build output directory or HTML file (optional if config has input.dir)")
	fmt.Fprintln(w)
	printParamUsage(w)
	fmt.Fprintln(w, "Files:")
	fmt.Fprintln(w, "      --ext <s>             File extensions to process (default .html)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -n, --dry-run             Report changes without writing files")
	fmt.Fprintln(w, "      --watch               Keep running and rewrite files as they change")
	fmt.Fprintln(w, "      --metrics-addr <a>    With --watch, serve /metrics on this address")
	fmt.Fprintln(w, "      --log-format <s>      Watch log format: text, json")
	fmt.Fprintln(w)
	printOutputUsage(w)
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: autoparam check [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Report links a rewrite would still change. Exits 4 if any are found.")
	fmt.Fprintln(w)
	printParamUsage(w)
	fmt.Fprintln(w, "Files:")
	fmt.Fprintln(w, "      --ext <s>             File extensions to process (default .html)")
	fmt.Fprintln(w)
	printOutputUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: autoparam serve [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve a directory, rewriting links in HTML responses.")
	fmt.Fprintln(w)
	printParamUsage(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <addr>         Listen address (default :8080)")
	fmt.Fprintln(w, "      --metrics             Expose Prometheus metrics on /metrics")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
	fmt.Fprintln(w)
	printOutputUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "rewrite":
		printRewriteUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: autoparam version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: autoparam help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
