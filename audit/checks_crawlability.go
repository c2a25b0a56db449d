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

package audit

import (
	"fmt"
	"strings"

	"github.com/agentberlin/rattler"
)

// noindexExemptMarkers exclude utility URLs from the "noindex on important
// pages" check.
var noindexExemptMarkers = []string{"/tag/", "/author/", "/page/", "?", "/search"}

func crawlabilityChecks() []check {
	return []check{
		{
			id: 1, category: CategoryCrawlability, name: "robots.txt present",
			severity:       SeverityLow,
			recommendation: "Add a robots.txt at the site root so crawlers know what to index.",
			eval: func(art *rattler.CrawlArtifact) finding {
				if art.Robots != nil && art.Robots.Present {
					return pass()
				}
				return siteIssue(art.BaseURL)
			},
		},
		{
			id: 2, category: CategoryCrawlability, name: "robots.txt allows crawling",
			severity:       SeverityCritical,
			recommendation: "Remove the Disallow rules that block search engines from the whole site.",
			eval: func(art *rattler.CrawlArtifact) finding {
				if art.Robots == nil || !art.Robots.Present {
					return pass()
				}
				if art.Robots.Allowed(art.BaseURL, "Googlebot") {
					return pass()
				}
				return siteIssue(art.BaseURL)
			},
		},
		{
			id: 3, category: CategoryCrawlability, name: "XML sitemap present",
			severity:       SeverityMedium,
			recommendation: "Publish an XML sitemap and declare it in robots.txt.",
			eval: func(art *rattler.CrawlArtifact) finding {
				if art.SitemapPresent {
					return pass()
				}
				return siteIssue(art.BaseURL)
			},
		},
		{
			id: 4, category: CategoryCrawlability, name: "sitemap URLs resolve",
			severity:       SeverityLow,
			recommendation: "Remove or fix sitemap entries that no longer resolve to live pages.",
			eval: func(art *rattler.CrawlArtifact) finding {
				if !art.SitemapPresent {
					return pass()
				}
				crawled := crawledStatus(art)
				var bad []string
				for _, u := range art.SitemapURLs {
					p, ok := crawled[slashKey(u)]
					if ok && (p.StatusCode >= 400 || p.StatusCode == 0) {
						bad = append(bad, u)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 5, category: CategoryCrawlability, name: "client and server error pages",
			severity:       SeverityHigh,
			recommendation: "Fix or redirect pages returning 4xx/5xx; update the links pointing at them.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				details := make(map[string]interface{})
				for _, p := range art.Pages {
					if p.StatusCode >= 400 {
						bad = append(bad, p.URL)
						details[p.URL] = p.StatusCode
					}
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 6, category: CategoryCrawlability, name: "redirecting pages",
			severity:       SeverityMedium,
			recommendation: "Point internal links directly at the redirect targets.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range art.Pages {
					if p.StatusCode >= 300 && p.StatusCode < 400 {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 7, category: CategoryCrawlability, name: "deeply nested pages",
			severity:       SeverityMedium,
			recommendation: "Surface important pages within four clicks of the homepage.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range htmlPages(art) {
					if p.Depth > 4 {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 8, category: CategoryCrawlability, name: "noindex on important pages",
			severity:       SeverityCritical,
			recommendation: "Remove the noindex directive from pages that should rank.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range htmlPages(art) {
					if !p.Noindex || noindexExempt(p.URL) {
						continue
					}
					bad = append(bad, p.URL)
				}
				return affected(bad)
			},
		},
		{
			id: 9, category: CategoryCrawlability, name: "orphan pages",
			severity:       SeverityMedium,
			recommendation: "Link orphaned pages from related content or navigation.",
			eval: func(art *rattler.CrawlArtifact) finding {
				inbound := inboundCounts(art)
				base := slashKey(art.BaseURL)
				var bad []string
				for _, p := range art.Pages {
					if !p.IsSuccess() {
						continue
					}
					key := slashKey(p.URL)
					if key == base || slashKey(p.FinalURL) == base {
						continue
					}
					if inbound[key] == 0 && inbound[slashKey(p.FinalURL)] == 0 {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 10, category: CategoryCrawlability, name: "canonical URL declared",
			severity:       SeverityMedium,
			recommendation: "Declare a rel=canonical link on every indexable page.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				details := make(map[string]interface{})
				for _, p := range htmlPages(art) {
					if p.Noindex {
						continue
					}
					if p.CanonicalURL == "" {
						bad = append(bad, p.URL)
						continue
					}
					// A canonical pointing elsewhere is fine; a malformed one is not.
					if !strings.HasPrefix(p.CanonicalURL, "http://") && !strings.HasPrefix(p.CanonicalURL, "https://") {
						bad = append(bad, p.URL)
						details[p.URL] = fmt.Sprintf("malformed canonical %q", p.CanonicalURL)
					}
				}
				return affectedWith(bad, details)
			},
		},
	}
}

func noindexExempt(u string) bool {
	for _, marker := range noindexExemptMarkers {
		if strings.Contains(u, marker) {
			return true
		}
	}
	return false
}
