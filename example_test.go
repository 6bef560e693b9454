package autoparam_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	autoparam "github.com/newgentdigital/go-autoparam"
)

// Example tags every external link in a page with a campaign source.
func Example() {
	cfg := autoparam.Config{
		Params: []autoparam.Param{{Key: "utm_source", Value: "newsletter"}},
	}

	res, err := autoparam.Rewrite(`<a href="https://example.com/pricing">Pricing</a> <a href="#faq">FAQ</a>`, cfg)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.HTML)
	fmt.Printf("%d/%d links changed\n", res.LinksChanged, res.LinksScanned)
	// Output:
	// <a href="https://example.com/pricing?utm_source=newsletter">Pricing</a> <a href="#faq">FAQ</a>
	// 1/2 links changed
}

// ExampleRewriteHref shows override mode replacing an existing value.
func ExampleRewriteHref() {
	cfg := autoparam.Config{
		Params:    []autoparam.Param{autoparam.P("ref", "blog"), autoparam.P("v", 2)},
		ParamMode: autoparam.ParamModeOverride,
	}

	href, changed := autoparam.RewriteHref("https://shop.example/?ref=old", cfg)
	fmt.Println(href, changed)
	// Output:
	// https://shop.example/?ref=blog&v=2 true
}

// ExampleRewriteHref_exemptDomain leaves first-party links alone.
func ExampleRewriteHref_exemptDomain() {
	cfg := autoparam.Config{
		Params:        []autoparam.Param{{Key: "utm_source", Value: "site"}},
		ExemptDomains: []string{"*.example.com"},
	}

	for _, href := range []string{"https://docs.example.com/start", "https://partner.test/"} {
		out, changed := autoparam.RewriteHref(href, cfg)
		fmt.Println(out, changed)
	}
	// Output:
	// https://docs.example.com/start false
	// https://partner.test/?utm_source=site true
}

// ExampleAnchorTags lists the opening tags a rewrite would visit.
func ExampleAnchorTags() {
	doc := `<p><a title="a > b" href="/one">1</a> <abbr>x</abbr> <A HREF=/two>2</A></p>`
	for span := range autoparam.AnchorTags(doc) {
		fmt.Println(span.Start, span.Text)
	}
	// Output:
	// 3 <a title="a > b" href="/one">
	// 53 <A HREF=/two>
}

// ExampleMiddleware rewrites pages served by any handler.
func ExampleMiddleware() {
	cfg := autoparam.Config{
		Params: []autoparam.Param{{Key: "utm_medium", Value: "web"}},
	}
	mw, err := autoparam.Middleware(cfg)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	page := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<a href="https://partner.test/deal">deal</a>`)
	})

	rec := httptest.NewRecorder()
	mw(page).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	fmt.Println(rec.Body.String())
	// Output:
	// <a href="https://partner.test/deal?utm_medium=web">deal</a>
}
