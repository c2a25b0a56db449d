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
	"strings"
	"time"
)

// Link is a single outbound link discovered on a page.
type Link struct {
	// URL is the normalized absolute target URL
	URL string `json:"url"`
	// AnchorText is the visible anchor text, trimmed
	AnchorText string `json:"anchorText"`
	// NoFollow is true if the rel attribute contains nofollow, sponsored or ugc
	NoFollow bool `json:"noFollow"`
}

// Image is an <img> reference discovered on a page.
type Image struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// HreflangEntry is one <link rel="alternate" hreflang=…> declaration.
type HreflangEntry struct {
	Lang string `json:"lang"`
	URL  string `json:"url"`
}

// PageRecord contains everything extracted from a single crawled URL.
// Records are constructed once by Extract (or by the JS re-render pass,
// which replaces the earlier record wholesale) and never mutated after
// being appended to a CrawlArtifact.
type PageRecord struct {
	// Identity
	URL         string        `json:"url"`
	FinalURL    string        `json:"finalUrl"`
	StatusCode  int           `json:"statusCode"`
	ContentType string        `json:"contentType"`
	LoadTime    time.Duration `json:"loadTime"`
	CrawledAt   time.Time     `json:"crawledAt"`
	Depth       int           `json:"depth"`

	// Parsed head
	Title           string `json:"title"`
	MetaDescription string `json:"metaDescription"`
	MetaRobots      string `json:"metaRobots"`
	CanonicalURL    string `json:"canonicalUrl"`

	// Parsed body
	H1            []string `json:"h1"`
	H2            []string `json:"h2"`
	H3            []string `json:"h3"`
	InternalLinks []Link   `json:"internalLinks"`
	ExternalLinks []Link   `json:"externalLinks"`
	Images        []Image  `json:"images"`
	WordCount     int      `json:"wordCount"`
	// TextContentHash is a 16-hex-char xxhash of the normalized visible text,
	// used for exact duplicate-content grouping.
	TextContentHash string `json:"textContentHash"`

	StructuredData  []map[string]interface{} `json:"structuredData,omitempty"`
	OpenGraph       map[string]string        `json:"openGraph,omitempty"`
	TwitterCards    map[string]string        `json:"twitterCards,omitempty"`
	Hreflang        []HreflangEntry          `json:"hreflang,omitempty"`
	HTMLLang        string                   `json:"htmlLang"`
	ViewportContent string                   `json:"viewportContent"`

	// Derived from MetaRobots (case-insensitive substring match)
	Noindex  bool `json:"noindex"`
	Nofollow bool `json:"nofollow"`

	ScriptsCount     int               `json:"scriptsCount"`
	StylesheetsCount int               `json:"stylesheetsCount"`
	ResponseHeaders  map[string]string `json:"responseHeaders,omitempty"`
	HTMLSize         int               `json:"htmlSize"`

	// JS rendering
	JSRendered        bool          `json:"jsRendered"`
	JSRenderTime      time.Duration `json:"jsRenderTime,omitempty"`
	SPADetected       bool          `json:"spaDetected"`
	FrameworkDetected string        `json:"frameworkDetected,omitempty"`

	// RawHTMLKey is the blob key under which the raw HTML was stored,
	// empty unless StoreHTML was enabled.
	RawHTMLKey string `json:"rawHtmlKey,omitempty"`

	// Error is set when the fetch failed; StatusCode is 0 in that case.
	Error string `json:"error,omitempty"`
}

// IsHTML reports whether the page carried an HTML content type.
func (p *PageRecord) IsHTML() bool {
	return containsFold(p.ContentType, "text/html") || containsFold(p.ContentType, "application/xhtml")
}

// IsSuccess reports a 2xx status.
func (p *PageRecord) IsSuccess() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// CrawlArtifact is the sealed output of a crawl. It is append-only while
// the worker pool runs and read-only afterwards, so the audit engine can
// share it across rule evaluations without locking.
type CrawlArtifact struct {
	BaseURL        string        `json:"baseUrl"`
	Pages          []*PageRecord `json:"pages"`
	Robots         *RobotsPolicy `json:"robots"`
	SitemapPresent bool          `json:"sitemapPresent"`
	SitemapURLs    []string      `json:"sitemapUrls,omitempty"`
	StartedAt      time.Time     `json:"startedAt"`
	FinishedAt     time.Time     `json:"finishedAt"`
}

// PageByURL returns the page record for a normalized URL, or nil.
func (a *CrawlArtifact) PageByURL(u string) *PageRecord {
	for _, p := range a.Pages {
		if p.URL == u || p.FinalURL == u {
			return p
		}
	}
	return nil
}

// Homepage returns the record for the base URL (trailing-slash-insensitive),
// or nil if it was never crawled.
func (a *CrawlArtifact) Homepage() *PageRecord {
	for _, p := range a.Pages {
		if SameURLIgnoringSlash(p.URL, a.BaseURL) || SameURLIgnoringSlash(p.FinalURL, a.BaseURL) {
			return p
		}
	}
	return nil
}

// CrawledSet returns the set of URLs present in the artifact, keyed by both
// requested and final URL.
func (a *CrawlArtifact) CrawledSet() map[string]*PageRecord {
	set := make(map[string]*PageRecord, len(a.Pages)*2)
	for _, p := range a.Pages {
		set[p.URL] = p
		if p.FinalURL != "" {
			set[p.FinalURL] = p
		}
	}
	return set
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
