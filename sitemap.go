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
	"context"
	"strings"

	"github.com/antchfx/xmlquery"
)

// SitemapResult carries the seed URLs discovered from sitemaps.
type SitemapResult struct {
	Present bool
	URLs    []string
}

// LoadSitemaps tries /sitemap.xml plus any sitemaps declared in robots.txt
// and returns the deduplicated URL list, capped at cfg.MaxSitemapURLs.
// Malformed sitemaps degrade to an empty seed list. Sitemap indexes are
// followed one level deep.
func LoadSitemaps(ctx context.Context, fetcher *Fetcher, baseURL string, robots *RobotsPolicy, maxURLs int) *SitemapResult {
	candidates := []string{ResolveURL(baseURL, "/sitemap.xml")}
	candidates = append(candidates, robots.SitemapURLs(baseURL)...)

	result := &SitemapResult{}
	seen := make(map[string]bool)
	fetched := make(map[string]bool)

	var load func(sitemapURL string, depth int)
	load = func(sitemapURL string, depth int) {
		if sitemapURL == "" || fetched[sitemapURL] || len(result.URLs) >= maxURLs {
			return
		}
		fetched[sitemapURL] = true

		res, err := fetcher.Fetch(ctx, sitemapURL)
		if err != nil || res.StatusCode < 200 || res.StatusCode >= 300 {
			return
		}
		doc, err := xmlquery.Parse(bytes.NewReader(res.Body))
		if err != nil {
			return
		}
		result.Present = true

		// <urlset> entries
		for _, node := range xmlquery.Find(doc, "//urlset/url/loc") {
			if len(result.URLs) >= maxURLs {
				return
			}
			loc := strings.TrimSpace(node.InnerText())
			normalized, err := NormalizeURL(loc)
			if err != nil || seen[normalized] {
				continue
			}
			seen[normalized] = true
			result.URLs = append(result.URLs, normalized)
		}

		// <sitemapindex> entries, one level deep
		if depth == 0 {
			for _, node := range xmlquery.Find(doc, "//sitemapindex/sitemap/loc") {
				load(strings.TrimSpace(node.InnerText()), depth+1)
			}
		}
	}

	for _, candidate := range candidates {
		load(candidate, 0)
	}
	return result
}
