package main

import (
	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// paramFlags holds flags that shape the rewrite config.
type paramFlags struct {
	params        []string // key=value, repeatable
	mode          string
	exemptAttrs   []string
	exemptDomains []string
}

// inputFlags holds file selection flags.
type inputFlags struct {
	extensions []string
	workers    int
}

// rewriteFlags holds all flags for the rewrite command.
type rewriteFlags struct {
	common    commonFlags
	params    paramFlags
	input     inputFlags
	dryRun      bool
	watch       bool
	metricsAddr string
	logFormat   string
}

// checkFlags holds all flags for the check command.
type checkFlags struct {
	common commonFlags
	params paramFlags
	input  inputFlags
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common    commonFlags
	params    paramFlags
	addr      string
	metrics   bool
	logFormat string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file counts and timing")
}

// addParamFlags adds rewrite config flags to a FlagSet.
func addParamFlags(fs *flag.FlagSet, f *paramFlags) {
	fs.StringArrayVarP(&f.params, "param", "p", nil, "query param as key=value (repeatable)")
	fs.StringVarP(&f.mode, "mode", "m", "", "param mode: preserve, override, replace")
	fs.StringSliceVar(&f.exemptAttrs, "exempt-attr", nil, "attribute that exempts a tag (repeatable)")
	fs.StringSliceVar(&f.exemptDomains, "exempt-domain", nil, "host never rewritten, subdomains included (repeatable)")
}

// addInputFlags adds file selection flags to a FlagSet.
func addInputFlags(fs *flag.FlagSet, f *inputFlags) {
	fs.StringSliceVar(&f.extensions, "ext", nil, "file extensions to process (default .html)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
}

// addLogFlags adds structured logging flags to a FlagSet.
func addLogFlags(fs *flag.FlagSet, format *string) {
	fs.StringVar(format, "log-format", "text", "log format: text, json")
}

// parseRewriteFlags parses rewrite command flags and returns positional args.
func parseRewriteFlags(args []string) (*rewriteFlags, []string, error) {
	fs := flag.NewFlagSet("rewrite", flag.ContinueOnError)
	fs.Usage = func() {}
	f := &rewriteFlags{}

	addCommonFlags(fs, &f.common)
	addParamFlags(fs, &f.params)
	addInputFlags(fs, &f.input)
	addLogFlags(fs, &f.logFormat)
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "report changes without writing files")
	fs.BoolVar(&f.watch, "watch", false, "keep running and rewrite files as they change")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "with --watch, serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string) (*checkFlags, []string, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.Usage = func() {}
	f := &checkFlags{}

	addCommonFlags(fs, &f.common)
	addParamFlags(fs, &f.params)
	addInputFlags(fs, &f.input)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.Usage = func() {}
	f := &serveFlags{}

	addCommonFlags(fs, &f.common)
	addParamFlags(fs, &f.params)
	addLogFlags(fs, &f.logFormat)
	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	fs.BoolVar(&f.metrics, "metrics", false, "expose Prometheus metrics on /metrics")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
