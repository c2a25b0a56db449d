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

const (
	thinContentWords = 300
	minAvgWordCount  = 200
	minContentRatio  = 0.10
	minRatioHTMLSize = 10 << 10
	avgBytesPerWord  = 6
)

var placeholderMarkers = []string{"lorem ipsum", "dolor sit amet", "placeholder text", "your text here"}

func contentChecks() []check {
	return []check{
		{
			id: 51, category: CategoryContent, name: "thin content",
			severity:       SeverityHigh,
			recommendation: "Expand indexable pages below 300 words or consolidate them.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return !p.Noindex && p.WordCount < thinContentWords
			}),
		},
		{
			id: 52, category: CategoryContent, name: "duplicate body content",
			severity:       SeverityHigh,
			recommendation: "Rewrite or canonicalize pages sharing identical body text.",
			eval: func(art *rattler.CrawlArtifact) finding {
				return duplicateGroups(art, func(p *rattler.PageRecord) string {
					if p.WordCount < 50 {
						return ""
					}
					return p.TextContentHash
				}, "content hash")
			},
		},
		{
			id: 53, category: CategoryContent, name: "near-duplicate content",
			severity:       SeverityMedium,
			recommendation: "Differentiate pages whose content overlaps substantially.",
			// Reserved id: similarity scoring is not computed from the crawl
			// artifact, so the check always passes.
			eval: func(art *rattler.CrawlArtifact) finding { return pass() },
		},
		{
			id: 54, category: CategoryContent, name: "site-wide content depth",
			severity:       SeverityLow,
			recommendation: "Raise the average page length; most pages on the site are very short.",
			eval: func(art *rattler.CrawlArtifact) finding {
				total, n := 0, 0
				for _, p := range htmlPages(art) {
					if p.Noindex {
						continue
					}
					total += p.WordCount
					n++
				}
				if n == 0 || total/n >= minAvgWordCount {
					return pass()
				}
				return siteIssueWith(art.BaseURL, map[string]interface{}{
					"averageWordCount": total / n,
					"pagesMeasured":    n,
				})
			},
		},
		{
			id: 55, category: CategoryContent, name: "placeholder text",
			severity:       SeverityMedium,
			recommendation: "Replace lorem-ipsum and template placeholder text with real copy.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				haystack := strings.ToLower(strings.Join(append(append([]string{p.Title, p.MetaDescription}, p.H1...), p.H2...), " "))
				for _, marker := range placeholderMarkers {
					if strings.Contains(haystack, marker) {
						return true
					}
				}
				return false
			}),
		},
		{
			id: 56, category: CategoryContent, name: "consistent content language",
			severity:       SeverityLow,
			recommendation: "Align the html lang attribute across the site; mixed declarations confuse indexing.",
			eval: func(art *rattler.CrawlArtifact) finding {
				counts := make(map[string]int)
				for _, p := range htmlPages(art) {
					if lang := primaryLang(p.HTMLLang); lang != "" {
						counts[lang]++
					}
				}
				majority, best := "", 0
				for lang, n := range counts {
					if n > best || (n == best && lang < majority) {
						majority, best = lang, n
					}
				}
				if majority == "" {
					return pass() // absence is the accessibility check's concern
				}
				var bad []string
				for _, p := range htmlPages(art) {
					if lang := primaryLang(p.HTMLLang); lang != "" && lang != majority {
						bad = append(bad, p.URL)
					}
				}
				return affectedWith(bad, map[string]interface{}{"siteLanguage": majority})
			},
		},
		{
			id: 57, category: CategoryContent, name: "noindex and canonical conflicts",
			severity:       SeverityMedium,
			recommendation: "Do not combine noindex with a canonical link; the signals contradict.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.Noindex && p.CanonicalURL != "" &&
					!rattler.SameURLIgnoringSlash(p.CanonicalURL, p.URL)
			}),
		},
		{
			id: 58, category: CategoryContent, name: "title and H1 differentiated",
			severity:       SeverityLow,
			recommendation: "Vary the H1 from the title to cover an extra phrasing of the topic.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				if len(p.H1) == 0 {
					return false
				}
				t := groupKey(p.Title)
				return t != "" && t == groupKey(p.H1[0])
			}),
		},
		{
			id: 59, category: CategoryContent, name: "content-to-code ratio",
			severity:       SeverityLow,
			recommendation: "Increase visible text relative to markup on pages dominated by code.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				details := make(map[string]interface{})
				for _, p := range htmlPages(art) {
					if p.HTMLSize < minRatioHTMLSize {
						continue
					}
					ratio := float64(p.WordCount*avgBytesPerWord) / float64(p.HTMLSize)
					if ratio < minContentRatio {
						bad = append(bad, p.URL)
						details[p.URL] = fmt.Sprintf("%.1f%% text", ratio*100)
					}
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 60, category: CategoryContent, name: "paginated pages noindexed",
			severity:       SeverityInfo,
			recommendation: "Consider noindexing paginated archives past page one.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return isPaginated(p.URL) && !p.Noindex
			}),
		},
	}
}

func primaryLang(lang string) string {
	lang = groupKey(lang)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

func isPaginated(u string) bool {
	lower := strings.ToLower(u)
	return strings.Contains(lower, "/page/") ||
		strings.Contains(lower, "?page=") ||
		strings.Contains(lower, "&page=")
}
