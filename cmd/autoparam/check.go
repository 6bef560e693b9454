package main

import (
	"context"
	"fmt"

	autoparam "github.com/newgentdigital/go-autoparam"
	"github.com/newgentdigital/go-autoparam/internal/linkaudit"
)

// runCheck reports links that a rewrite would still change, without writing.
// Returns ErrPendingLinks when any are found.
func runCheck(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCheckFlags(args)
	if err != nil {
		help, usageErr := parseError(err)
		if help {
			printCheckUsage(env.Stdout)
			return nil
		}
		return usageErr
	}

	cfg, err := loadConfig(&flags.common, &flags.params, env)
	if err != nil {
		return err
	}
	if err := mergeInputFlags(&flags.input, cfg); err != nil {
		return err
	}

	dir, err := resolveInputDir(positional, cfg)
	if err != nil {
		return err
	}
	rc, err := rewriteConfig(cfg)
	if err != nil {
		return err
	}

	files, err := autoparam.ListFiles(dir, extensions(cfg))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	found, err := linkaudit.AuditFiles(files, rc)
	if err != nil {
		return err
	}

	for _, f := range found {
		for _, finding := range f.Findings {
			fmt.Fprintf(env.Stdout, "%s:%d: %s\n", f.Path, finding.Line, finding.Href)
			if flags.common.verbose {
				fmt.Fprintf(env.Stdout, "    want %s\n", finding.Want)
			}
		}
	}

	if n := linkaudit.Count(found); n > 0 {
		return fmt.Errorf("%w: %d link(s) in %d of %d HTML file(s)", ErrPendingLinks, n, len(found), len(files))
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "All links in %d HTML file(s) carry the configured params.\n", len(files))
	}
	return nil
}
