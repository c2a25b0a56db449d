// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rattler

import (
	"net/http"
	"testing"
	"time"
)

const extractFixture = `<!DOCTYPE html>
<html lang="en-US">
<head>
<title>  Fixture   Page Title  </title>
<meta name="description" content="A description of the fixture page.">
<meta name="robots" content="noindex, nofollow">
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="canonical" href="/canonical-page">
<link rel="alternate" hreflang="en" href="/en/page">
<link rel="alternate" hreflang="de" href="https://example.com/de/seite">
<meta property="og:title" content="OG Fixture">
<meta property="og:description" content="OG description">
<meta name="twitter:card" content="summary">
<link rel="stylesheet" href="/css/main.css">
<script src="/js/app.js"></script>
<script src="/js/vendor.js"></script>
<script type="application/ld+json">
{"@context": "https://schema.org", "@type": "Organization", "name": "Fixture"}
</script>
<script type="application/ld+json">
[{"@type": "WebSite"}, {"@type": "BreadcrumbList"}]
</script>
<script type="application/ld+json">not valid json</script>
</head>
<body>
<h1>Main Heading</h1>
<h2>Sub One</h2>
<h2>Sub Two</h2>
<h3>Detail</h3>
<p>Some visible body text for the word counter to find here.</p>
<a href="/internal">Internal link</a>
<a href="/internal">Internal link</a>
<a href="https://other.com/ext" rel="nofollow">External nofollow</a>
<a href="mailto:x@example.com">Mail</a>
<img src="/img/a.png" alt="A picture" width="100" height="50">
<img src="/img/b.png">
<script>document.write("invisible to the word counter");</script>
</body>
</html>`

func extractFixturePage(t *testing.T) *PageRecord {
	t.Helper()
	headers := http.Header{}
	headers.Set("Content-Type", "text/html; charset=utf-8")
	headers.Set("Cache-Control", "max-age=600")
	return Extract("https://example.com/page", 200, headers, []byte(extractFixture), time.Now())
}

func TestExtractHead(t *testing.T) {
	rec := extractFixturePage(t)

	if rec.Title != "Fixture Page Title" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.MetaDescription != "A description of the fixture page." {
		t.Errorf("MetaDescription = %q", rec.MetaDescription)
	}
	if !rec.Noindex || !rec.Nofollow {
		t.Errorf("robots directives not derived: noindex=%v nofollow=%v", rec.Noindex, rec.Nofollow)
	}
	if rec.CanonicalURL != "https://example.com/canonical-page" {
		t.Errorf("CanonicalURL = %q", rec.CanonicalURL)
	}
	if rec.HTMLLang != "en-US" {
		t.Errorf("HTMLLang = %q", rec.HTMLLang)
	}
	if rec.ViewportContent == "" {
		t.Error("viewport content missing")
	}
}

func TestExtractHeadings(t *testing.T) {
	rec := extractFixturePage(t)
	if len(rec.H1) != 1 || rec.H1[0] != "Main Heading" {
		t.Errorf("H1 = %v", rec.H1)
	}
	if len(rec.H2) != 2 || len(rec.H3) != 1 {
		t.Errorf("H2 = %v, H3 = %v", rec.H2, rec.H3)
	}
}

func TestExtractLinks(t *testing.T) {
	rec := extractFixturePage(t)

	// The duplicate internal anchor collapses, the mailto link is dropped.
	if len(rec.InternalLinks) != 1 {
		t.Fatalf("InternalLinks = %v", rec.InternalLinks)
	}
	link := rec.InternalLinks[0]
	if link.URL != "https://example.com/internal" || link.AnchorText != "Internal link" || link.NoFollow {
		t.Errorf("internal link = %+v", link)
	}

	if len(rec.ExternalLinks) != 1 {
		t.Fatalf("ExternalLinks = %v", rec.ExternalLinks)
	}
	if !rec.ExternalLinks[0].NoFollow {
		t.Error("rel=nofollow not honored on the external link")
	}
}

func TestExtractImages(t *testing.T) {
	rec := extractFixturePage(t)
	if len(rec.Images) != 2 {
		t.Fatalf("Images = %v", rec.Images)
	}
	if rec.Images[0].Alt != "A picture" || rec.Images[0].Width != "100" {
		t.Errorf("first image = %+v", rec.Images[0])
	}
	if rec.Images[1].Alt != "" {
		t.Errorf("second image alt = %q, want empty", rec.Images[1].Alt)
	}
}

func TestExtractStructuredAndSocial(t *testing.T) {
	rec := extractFixturePage(t)

	// One object block plus a two-element array; the invalid block is skipped.
	if len(rec.StructuredData) != 3 {
		t.Fatalf("StructuredData = %d blocks", len(rec.StructuredData))
	}
	if rec.StructuredData[0]["@type"] != "Organization" {
		t.Errorf("first block @type = %v", rec.StructuredData[0]["@type"])
	}

	if rec.OpenGraph["og:title"] != "OG Fixture" {
		t.Errorf("og:title = %q", rec.OpenGraph["og:title"])
	}
	if rec.TwitterCards["twitter:card"] != "summary" {
		t.Errorf("twitter:card = %q", rec.TwitterCards["twitter:card"])
	}

	if len(rec.Hreflang) != 2 {
		t.Fatalf("Hreflang = %v", rec.Hreflang)
	}
	if rec.Hreflang[0].Lang != "en" || rec.Hreflang[0].URL != "https://example.com/en/page" {
		t.Errorf("first hreflang = %+v", rec.Hreflang[0])
	}
}

func TestExtractCountsAndHash(t *testing.T) {
	rec := extractFixturePage(t)

	if rec.ScriptsCount != 2 {
		t.Errorf("ScriptsCount = %d, want 2 (src scripts only)", rec.ScriptsCount)
	}
	if rec.StylesheetsCount != 1 {
		t.Errorf("StylesheetsCount = %d", rec.StylesheetsCount)
	}
	if rec.WordCount == 0 {
		t.Error("WordCount = 0")
	}
	if rec.HTMLSize != len(extractFixture) {
		t.Errorf("HTMLSize = %d, want %d", rec.HTMLSize, len(extractFixture))
	}
	if len(rec.TextContentHash) != 16 {
		t.Errorf("TextContentHash = %q", rec.TextContentHash)
	}

	// Extracting the same body twice yields the same hash.
	again := extractFixturePage(t)
	if again.TextContentHash != rec.TextContentHash {
		t.Error("content hash not deterministic")
	}
	if again.WordCount != rec.WordCount {
		t.Error("word count not deterministic")
	}
}

func TestExtractBaseHref(t *testing.T) {
	body := []byte(`<html><head><base href="https://cdn.example.com/assets/"></head>
<body><a href="page.html">Rel</a></body></html>`)
	headers := http.Header{}
	headers.Set("Content-Type", "text/html")
	rec := Extract("https://example.com/dir/index.html", 200, headers, body, time.Now())

	// Links resolve against <base href>, and cdn.example.com is a subdomain
	// of the page host so the link counts as internal.
	if len(rec.InternalLinks) != 1 || rec.InternalLinks[0].URL != "https://cdn.example.com/assets/page.html" {
		t.Errorf("base href not honored: %+v %+v", rec.InternalLinks, rec.ExternalLinks)
	}
}

func TestExtractNonHTMLBody(t *testing.T) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/pdf")
	rec := Extract("https://example.com/doc.pdf", 200, headers, []byte("%PDF-1.4"), time.Now())
	if rec.IsHTML() {
		t.Error("PDF reported as HTML")
	}
	if rec.StatusCode != 200 || rec.HTMLSize == 0 {
		t.Errorf("basic fields not populated: %+v", rec)
	}
}

func TestPageRecordPredicates(t *testing.T) {
	p := &PageRecord{StatusCode: 204, ContentType: "Text/HTML; charset=utf-8"}
	if !p.IsHTML() || !p.IsSuccess() {
		t.Errorf("IsHTML=%v IsSuccess=%v", p.IsHTML(), p.IsSuccess())
	}
	p = &PageRecord{StatusCode: 301, ContentType: "application/json"}
	if p.IsHTML() || p.IsSuccess() {
		t.Errorf("IsHTML=%v IsSuccess=%v", p.IsHTML(), p.IsSuccess())
	}
}
