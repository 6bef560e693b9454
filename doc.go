// Package autoparam appends query parameters to the external links of HTML
// documents, typically UTM tracking params on a static site's build output.
//
// # Quick Start
//
// Rewrite a document held in memory:
//
//	res, err := autoparam.Rewrite(html, autoparam.Config{
//	    Params: []autoparam.Param{
//	        autoparam.P("utm_source", "newsletter"),
//	        autoparam.P("utm_medium", "email"),
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err) // invalid config: no params or unknown mode
//	}
//	fmt.Println(res.HTML, res.LinksChanged)
//
// Only the href values of <a> tags change. Every other byte of the document,
// including whitespace, comments, scripts and the other attributes of a
// rewritten tag, is copied through as is.
//
// # Which Links Qualify
//
// An href is rewritten when it is an absolute http or https URL, or a
// protocol-relative one ("//host/path"). Relative paths, fragments, mailto:,
// tel: and other schemes are left alone, as are hosts listed in
// Config.ExemptDomains (subdomains included) and tags carrying one of
// Config.ExemptDataAttributes:
//
//	<a href="https://example.com" data-auto-param-exempt>untouched</a>
//
// # Param Modes
//
// Config.ParamMode decides how configured params meet an existing query:
//
//   - ParamModePreserve (default): add only keys the link does not have
//   - ParamModeOverride: add missing keys and overwrite present ones
//   - ParamModeReplace: drop the existing query, then add every param
//
// Pairs the merge does not touch keep their original encoding. Hrefs written
// with &amp; come back with &amp;. Rewriting an already rewritten document
// changes nothing.
//
// # Build Output
//
// RewriteDir walks a directory and rewrites matching files in place using a
// bounded worker pool:
//
//	stats, results, err := autoparam.RewriteDir(ctx, "dist", cfg,
//	    autoparam.WithWorkers(4),
//	    autoparam.WithDryRun(false),
//	)
//	fmt.Println(stats.Summary("dist"))
//
// Files are written back only when their content changes, through a temp
// file renamed over the original. Per-file failures are reported in results
// without stopping the batch.
//
// # HTTP
//
// Middleware rewrites text/html responses on the fly:
//
//	mw, err := autoparam.Middleware(cfg)
//	http.Handle("/", mw(http.FileServer(http.Dir("dist"))))
//
// Compressed and non-HTML responses stream through unbuffered.
package autoparam
