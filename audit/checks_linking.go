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

	"github.com/agentberlin/rattler"
)

const maxOnPageInternalLinks = 200

// genericAnchors is anchor text that tells search engines nothing about the
// target.
var genericAnchors = map[string]bool{
	"click here": true,
	"here":       true,
	"read more":  true,
	"more":       true,
	"learn more": true,
	"link":       true,
	"this":       true,
	"continue":   true,
}

func linkingChecks() []check {
	return []check{
		{
			id: 41, category: CategoryLinking, name: "broken internal links",
			severity:       SeverityCritical,
			recommendation: "Fix or remove internal links pointing at missing or erroring pages.",
			eval: func(art *rattler.CrawlArtifact) finding {
				crawled := crawledStatus(art)
				var bad []string
				details := make(map[string]interface{})
				for _, p := range htmlPages(art) {
					var broken []string
					for _, l := range p.InternalLinks {
						target, ok := crawled[slashKey(l.URL)]
						switch {
						case !ok:
							broken = append(broken, l.URL)
						case target.StatusCode >= 400 || target.StatusCode == 0:
							broken = append(broken, l.URL)
						}
					}
					if len(broken) > 0 {
						bad = append(bad, p.URL)
						details[p.URL] = broken
					}
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 42, category: CategoryLinking, name: "weakly linked pages",
			severity:       SeverityLow,
			recommendation: "Add contextual links to pages reachable from only one place.",
			eval: func(art *rattler.CrawlArtifact) finding {
				inbound := inboundCounts(art)
				base := slashKey(art.BaseURL)
				var bad []string
				for _, p := range htmlPages(art) {
					key := slashKey(p.URL)
					if key == base || p.Depth <= 1 {
						continue
					}
					if inbound[key] == 1 {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 43, category: CategoryLinking, name: "on-page link count",
			severity:       SeverityLow,
			recommendation: "Trim pages carrying more than 200 internal links; link equity dilutes.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return len(p.InternalLinks) > maxOnPageInternalLinks
			}),
		},
		{
			id: 44, category: CategoryLinking, name: "nofollow on internal links",
			severity:       SeverityMedium,
			recommendation: "Remove rel=nofollow from internal links; it blocks link equity flow.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				details := make(map[string]interface{})
				for _, p := range htmlPages(art) {
					count := 0
					for _, l := range p.InternalLinks {
						if l.NoFollow {
							count++
						}
					}
					if count > 0 {
						bad = append(bad, p.URL)
						details[p.URL] = fmt.Sprintf("%d nofollow internal links", count)
					}
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 45, category: CategoryLinking, name: "descriptive anchor text",
			severity:       SeverityLow,
			recommendation: "Replace generic anchors like \"click here\" with text describing the target.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range htmlPages(art) {
					for _, l := range p.InternalLinks {
						if genericAnchors[groupKey(l.AnchorText)] {
							bad = append(bad, p.URL)
							break
						}
					}
				}
				return affected(bad)
			},
		},
		{
			id: 46, category: CategoryLinking, name: "anchor text present",
			severity:       SeverityLow,
			recommendation: "Give text (or alt text on linked images) to empty anchors.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range htmlPages(art) {
					for _, l := range p.InternalLinks {
						if groupKey(l.AnchorText) == "" {
							bad = append(bad, p.URL)
							break
						}
					}
				}
				return affected(bad)
			},
		},
		{
			id: 47, category: CategoryLinking, name: "external links resolve",
			severity:       SeverityMedium,
			recommendation: "Update external links whose targets are known to return errors.",
			eval: func(art *rattler.CrawlArtifact) finding {
				// Only targets that happen to be in the crawled set can be judged.
				crawled := crawledStatus(art)
				var bad []string
				for _, p := range htmlPages(art) {
					for _, l := range p.ExternalLinks {
						if target, ok := crawled[slashKey(l.URL)]; ok && target.StatusCode >= 400 {
							bad = append(bad, p.URL)
							break
						}
					}
				}
				return affected(bad)
			},
		},
		{
			id: 48, category: CategoryLinking, name: "links to redirects",
			severity:       SeverityLow,
			recommendation: "Point internal links at final URLs instead of redirect hops.",
			eval: func(art *rattler.CrawlArtifact) finding {
				crawled := crawledStatus(art)
				var bad []string
				for _, p := range htmlPages(art) {
					for _, l := range p.InternalLinks {
						if target, ok := crawled[slashKey(l.URL)]; ok &&
							target.StatusCode >= 300 && target.StatusCode < 400 {
							bad = append(bad, p.URL)
							break
						}
					}
				}
				return affected(bad)
			},
		},
		{
			id: 49, category: CategoryLinking, name: "links point at canonical URLs",
			severity:       SeverityLow,
			recommendation: "Link to the canonical form of each page rather than a variant.",
			eval: func(art *rattler.CrawlArtifact) finding {
				crawled := crawledStatus(art)
				var bad []string
				for _, p := range htmlPages(art) {
					for _, l := range p.InternalLinks {
						target, ok := crawled[slashKey(l.URL)]
						if !ok || target.CanonicalURL == "" {
							continue
						}
						if !rattler.SameURLIgnoringSlash(l.URL, target.CanonicalURL) &&
							!rattler.SameURLIgnoringSlash(target.URL, target.CanonicalURL) {
							// The target itself declares a different canonical.
							bad = append(bad, p.URL)
							break
						}
					}
				}
				return affected(bad)
			},
		},
		{
			id: 50, category: CategoryLinking, name: "homepage links out",
			severity:       SeverityHigh,
			recommendation: "Link key sections from the homepage; it is the crawl's entry point.",
			eval: func(art *rattler.CrawlArtifact) finding {
				home := art.Homepage()
				if home == nil || !home.IsSuccess() {
					return pass() // covered by the error checks
				}
				if len(home.InternalLinks) == 0 {
					return siteIssue(home.URL)
				}
				return pass()
			},
		},
	}
}
