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

const (
	titleMinLen = 30
	titleMaxLen = 60
	metaDescMin = 70
	metaDescMax = 160
)

func onPageChecks() []check {
	return []check{
		{
			id: 11, category: CategoryOnPage, name: "title tag present",
			severity:       SeverityCritical,
			recommendation: "Write a unique, descriptive <title> for every page.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return groupKey(p.Title) == ""
			}),
		},
		{
			id: 12, category: CategoryOnPage, name: "title length sufficient",
			severity:       SeverityMedium,
			recommendation: "Expand titles to at least 30 characters so they fill the SERP snippet.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				t := groupKey(p.Title)
				return t != "" && len(t) < titleMinLen
			}),
		},
		{
			id: 13, category: CategoryOnPage, name: "title length within limit",
			severity:       SeverityLow,
			recommendation: "Shorten titles above 60 characters; search engines truncate them.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return len(groupKey(p.Title)) > titleMaxLen
			}),
		},
		{
			id: 14, category: CategoryOnPage, name: "unique titles",
			severity:       SeverityHigh,
			recommendation: "Differentiate duplicate titles; every page should target its own topic.",
			eval: func(art *rattler.CrawlArtifact) finding {
				return duplicateGroups(art, func(p *rattler.PageRecord) string {
					return groupKey(p.Title)
				}, "title")
			},
		},
		{
			id: 15, category: CategoryOnPage, name: "meta description present",
			severity:       SeverityHigh,
			recommendation: "Add a meta description summarizing each page in one or two sentences.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return groupKey(p.MetaDescription) == ""
			}),
		},
		{
			id: 16, category: CategoryOnPage, name: "meta description length",
			severity:       SeverityLow,
			recommendation: "Keep meta descriptions between 70 and 160 characters.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				d := groupKey(p.MetaDescription)
				return d != "" && (len(d) < metaDescMin || len(d) > metaDescMax)
			}),
		},
		{
			id: 17, category: CategoryOnPage, name: "H1 present",
			severity:       SeverityHigh,
			recommendation: "Add a single H1 naming the page's main topic.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return len(p.H1) == 0
			}),
		},
		{
			id: 18, category: CategoryOnPage, name: "single H1",
			severity:       SeverityMedium,
			recommendation: "Demote extra H1s to H2; keep one H1 per page.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return len(p.H1) > 1
			}),
		},
		{
			id: 19, category: CategoryOnPage, name: "heading hierarchy",
			severity:       SeverityLow,
			recommendation: "Do not use H2/H3 headings on pages that lack an H1.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return len(p.H1) == 0 && (len(p.H2) > 0 || len(p.H3) > 0)
			}),
		},
		{
			id: 20, category: CategoryOnPage, name: "image alt text",
			severity:       SeverityMedium,
			recommendation: "Describe every content image with alt text.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				details := make(map[string]interface{})
				for _, p := range htmlPages(art) {
					missing := 0
					for _, img := range p.Images {
						if groupKey(img.Alt) == "" {
							missing++
						}
					}
					if missing > 0 {
						bad = append(bad, p.URL)
						details[p.URL] = fmt.Sprintf("%d of %d images missing alt", missing, len(p.Images))
					}
				}
				return affectedWith(bad, details)
			},
		},
	}
}

// perPage lifts a single-page predicate over all successful HTML pages;
// pages matching the predicate fail the check.
func perPage(bad func(*rattler.PageRecord) bool) func(*rattler.CrawlArtifact) finding {
	return func(art *rattler.CrawlArtifact) finding {
		var urls []string
		for _, p := range htmlPages(art) {
			if bad(p) {
				urls = append(urls, p.URL)
			}
		}
		return affected(urls)
	}
}

// duplicateGroups flags pages sharing a non-empty key; details carry up to
// maxDetailEntries groups keyed by the duplicated value.
func duplicateGroups(art *rattler.CrawlArtifact, keyOf func(*rattler.PageRecord) string, label string) finding {
	groups := make(map[string][]string)
	for _, p := range htmlPages(art) {
		k := keyOf(p)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], p.URL)
	}
	var urls []string
	details := make(map[string]interface{})
	for _, p := range htmlPages(art) { // artifact order keeps output deterministic
		k := keyOf(p)
		if k == "" || len(groups[k]) < 2 {
			continue
		}
		urls = append(urls, p.URL)
		details[fmt.Sprintf("%s: %.80s", label, k)] = groups[k]
	}
	return affectedWith(urls, details)
}
