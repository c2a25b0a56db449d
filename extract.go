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
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Per-page caps keep record sizes bounded on link farms.
const (
	maxInternalLinks = 200
	maxExternalLinks = 100
	maxImages        = 100
)

// Extract parses one HTML document into a PageRecord. It is a pure function
// of its inputs: extracting the same body twice yields equal records apart
// from CrawledAt, which the caller supplies.
func Extract(finalURL string, statusCode int, headers http.Header, body []byte, crawledAt time.Time) *PageRecord {
	rec := &PageRecord{
		URL:             finalURL,
		FinalURL:        finalURL,
		StatusCode:      statusCode,
		ContentType:     headers.Get("Content-Type"),
		CrawledAt:       crawledAt,
		HTMLSize:        len(body),
		ResponseHeaders: flattenHeaders(headers),
		OpenGraph:       map[string]string{},
		TwitterCards:    map[string]string{},
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return rec
	}

	baseURL := resolveBaseHref(finalURL, body)

	rec.Title = normalizeWhitespace(doc.Find("title").First().Text())
	rec.MetaDescription = metaContent(doc, "description")
	rec.MetaRobots = metaContent(doc, "robots")
	rec.Noindex = containsFold(rec.MetaRobots, "noindex")
	rec.Nofollow = containsFold(rec.MetaRobots, "nofollow")

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		rec.CanonicalURL = ResolveURL(baseURL, href)
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		rec.H1 = append(rec.H1, normalizeWhitespace(s.Text()))
	})
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		rec.H2 = append(rec.H2, normalizeWhitespace(s.Text()))
	})
	doc.Find("h3").Each(func(_ int, s *goquery.Selection) {
		rec.H3 = append(rec.H3, normalizeWhitespace(s.Text()))
	})

	extractLinks(doc, rec, baseURL)
	extractImages(doc, rec, baseURL)
	extractStructuredData(doc, rec)
	extractSocialMeta(doc, rec)
	extractHreflang(doc, rec, baseURL)

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		rec.HTMLLang = strings.TrimSpace(lang)
	}
	rec.ViewportContent = metaContent(doc, "viewport")

	rec.ScriptsCount = doc.Find("script[src]").Length()
	rec.StylesheetsCount = doc.Find(`link[rel="stylesheet"]`).Length()

	text := extractVisibleText(doc)
	rec.WordCount = countWords(text)
	rec.TextContentHash = ContentHash(normalizedContentText(doc))

	return rec
}

// resolveBaseHref returns the effective base URL for relative references:
// the document's <base href> when present, the final URL otherwise.
func resolveBaseHref(finalURL string, body []byte) string {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return finalURL
	}
	node := htmlquery.FindOne(doc, "//base")
	if node == nil {
		return finalURL
	}
	href := strings.TrimSpace(htmlquery.SelectAttr(node, "href"))
	if href == "" {
		return finalURL
	}
	if resolved := ResolveURL(finalURL, href); resolved != "" {
		return resolved
	}
	return finalURL
}

func extractLinks(doc *goquery.Document, rec *PageRecord, baseURL string) {
	baseHost := URLHost(rec.FinalURL)
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		target := ResolveURL(baseURL, href)
		if target == "" {
			return
		}
		rel, _ := s.Attr("rel")
		link := Link{
			URL:        target,
			AnchorText: normalizeWhitespace(s.Text()),
			NoFollow:   relNoFollow(rel),
		}
		key := target + "|" + link.AnchorText
		if seen[key] {
			return
		}
		seen[key] = true
		if IsInternalHost(URLHost(target), baseHost) {
			if len(rec.InternalLinks) < maxInternalLinks {
				rec.InternalLinks = append(rec.InternalLinks, link)
			}
		} else if len(rec.ExternalLinks) < maxExternalLinks {
			rec.ExternalLinks = append(rec.ExternalLinks, link)
		}
	})
}

func extractImages(doc *goquery.Document, rec *PageRecord, baseURL string) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if len(rec.Images) >= maxImages {
			return
		}
		src, _ := s.Attr("src")
		target := ResolveURL(baseURL, src)
		if target == "" {
			return
		}
		alt, _ := s.Attr("alt")
		width, _ := s.Attr("width")
		height, _ := s.Attr("height")
		rec.Images = append(rec.Images, Image{URL: target, Alt: alt, Width: width, Height: height})
	})
}

// extractStructuredData parses every JSON-LD block, silently skipping
// invalid JSON and flattening top-level arrays.
func extractStructuredData(doc *goquery.Document, rec *PageRecord) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var parsed interface{}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return
		}
		switch v := parsed.(type) {
		case map[string]interface{}:
			rec.StructuredData = append(rec.StructuredData, v)
		case []interface{}:
			for _, item := range v {
				if m, ok := item.(map[string]interface{}); ok {
					rec.StructuredData = append(rec.StructuredData, m)
				}
			}
		}
	})
}

func extractSocialMeta(doc *goquery.Document, rec *PageRecord) {
	doc.Find("meta[property], meta[name]").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		key, _ := s.Attr("property")
		if key == "" {
			key, _ = s.Attr("name")
		}
		key = strings.ToLower(strings.TrimSpace(key))
		switch {
		case strings.HasPrefix(key, "og:"):
			rec.OpenGraph[key] = content
		case strings.HasPrefix(key, "twitter:"):
			rec.TwitterCards[key] = content
		}
	})
}

func extractHreflang(doc *goquery.Document, rec *PageRecord, baseURL string) {
	doc.Find(`link[rel="alternate"][hreflang]`).Each(func(_ int, s *goquery.Selection) {
		lang, _ := s.Attr("hreflang")
		href, _ := s.Attr("href")
		target := ResolveURL(baseURL, href)
		if lang == "" || target == "" {
			return
		}
		rec.Hreflang = append(rec.Hreflang, HreflangEntry{Lang: lang, URL: target})
	})
}

func metaContent(doc *goquery.Document, name string) string {
	content, _ := doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

func relNoFollow(rel string) bool {
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		if token == "nofollow" || token == "sponsored" || token == "ugc" {
			return true
		}
	}
	return false
}

func flattenHeaders(headers http.Header) map[string]string {
	flat := make(map[string]string, len(headers))
	for k, v := range headers {
		if len(v) > 0 {
			flat[k] = v[0]
		}
	}
	return flat
}
