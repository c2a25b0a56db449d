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

// Package testutil provides a fixture website served over httptest for
// crawler tests. The site has a known shape: a homepage linking into a small
// blog, one redirect, one broken link, an orphan page reachable only through
// the sitemap and a robots-disallowed section.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
)

// Page is one fixture page served by the site server.
type Page struct {
	Status      int
	ContentType string
	Body        string
	RedirectTo  string
}

// htmlPage renders a complete, well-formed page so the fixture site scores
// cleanly on head-level checks unless a test overrides it.
func htmlPage(title, desc, h1, body, links string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<meta name="description" content="%s">
<meta property="og:title" content="%s">
<meta property="og:description" content="%s">
<meta property="og:image" content="/img/cover.png">
<meta name="twitter:card" content="summary_large_image">
</head>
<body>
<h1>%s</h1>
%s
%s
</body>
</html>`, title, desc, title, desc, h1, body, links)
}

// paragraphs produces enough filler text to clear thin-content thresholds.
func paragraphs(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("<p>Field notes on crawling, indexing and ranking behavior ")
		b.WriteString("collected from production sites over several quarters of ")
		b.WriteString("measurement, with concrete remediation steps for each finding ")
		b.WriteString("and the observed impact on organic traffic after rollout.</p>\n")
	}
	return b.String()
}

// DefaultSite returns the fixture page set keyed by path.
func DefaultSite() map[string]Page {
	longTitle := func(s string) string { return s + " | Rattler Fixture Site Blog" }
	desc := "A fixture page with a meta description long enough to satisfy the length checks run by the audit engine in tests."

	return map[string]Page{
		"/": {Body: htmlPage(
			longTitle("Home"), desc, "Welcome to the fixture site", paragraphs(8),
			`<a href="/about">About us</a>
<a href="/blog/first-post">Read the first post</a>
<a href="/blog/second-post">Read the second post</a>
<a href="/old-about">Legacy about page</a>
<a href="/missing">A link that broke</a>`)},
		"/about": {Body: htmlPage(
			longTitle("About"), desc, "About the team", paragraphs(8),
			`<a href="/">Back home</a>`)},
		"/blog/first-post": {Body: htmlPage(
			longTitle("First Post"), desc, "The first post", paragraphs(10),
			`<a href="/">Back home</a>
<a href="/blog/second-post">Next post</a>`)},
		"/blog/second-post": {Body: htmlPage(
			longTitle("Second Post"), desc, "The second post", paragraphs(10),
			`<a href="/">Back home</a>
<a href="/blog/first-post">Previous post</a>`)},
		"/orphan": {Body: htmlPage(
			longTitle("Orphan"), desc, "Nothing links here", paragraphs(8),
			`<a href="/">Back home</a>`)},
		"/old-about": {Status: http.StatusMovedPermanently, RedirectTo: "/about"},
		"/missing":   {Status: http.StatusNotFound, Body: "not found"},
		"/private/internal": {Body: htmlPage(
			longTitle("Private"), desc, "Robots should not see this", paragraphs(4), "")},
	}
}

// RobotsBody is the fixture robots.txt. {base} is replaced with the server
// URL when served.
const RobotsBody = `User-agent: *
Disallow: /private/

Sitemap: {base}/sitemap.xml
`

// sitemapPaths are the paths advertised in the fixture sitemap. /orphan is
// only discoverable here.
var sitemapPaths = []string{"/", "/about", "/blog/first-post", "/orphan"}

// NewSiteServer starts an httptest server for the given page set, or for
// DefaultSite when pages is nil. The server also answers /robots.txt and
// /sitemap.xml.
func NewSiteServer(pages map[string]Page) *httptest.Server {
	if pages == nil {
		pages = DefaultSite()
	}

	var ts *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, strings.ReplaceAll(RobotsBody, "{base}", ts.URL))
	})

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>`+"\n<urlset>\n")
		for _, p := range sitemapPaths {
			fmt.Fprintf(w, "<url><loc>%s%s</loc></url>\n", ts.URL, p)
		}
		fmt.Fprint(w, "</urlset>\n")
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if page.RedirectTo != "" {
			http.Redirect(w, r, page.RedirectTo, page.Status)
			return
		}
		ct := page.ContentType
		if ct == "" {
			ct = "text/html; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
		if page.Status != 0 {
			w.WriteHeader(page.Status)
		}
		fmt.Fprint(w, page.Body)
	})

	ts = httptest.NewServer(mux)
	return ts
}
