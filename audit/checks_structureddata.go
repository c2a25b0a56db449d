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
	"regexp"
	"strings"

	"github.com/agentberlin/rattler"
)

// hreflangPattern accepts "en", "en-US", "pt-br" and the x-default marker.
var hreflangPattern = regexp.MustCompile(`^(?i)(x-default|[a-z]{2,3}(-[a-z0-9]{2,8})?)$`)

func structuredDataChecks() []check {
	return []check{
		{
			id: 61, category: CategoryStructuredData, name: "JSON-LD on homepage",
			severity:       SeverityMedium,
			recommendation: "Add JSON-LD structured data to the homepage.",
			eval: func(art *rattler.CrawlArtifact) finding {
				home := art.Homepage()
				if home == nil || !home.IsSuccess() {
					return pass()
				}
				if len(home.StructuredData) == 0 {
					return siteIssue(home.URL)
				}
				return pass()
			},
		},
		{
			id: 62, category: CategoryStructuredData, name: "schema blocks declare a type",
			severity:       SeverityLow,
			recommendation: "Give every JSON-LD block an @type; untyped blocks are ignored.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range htmlPages(art) {
					for _, block := range p.StructuredData {
						if schemaType(block) == "" {
							bad = append(bad, p.URL)
							break
						}
					}
				}
				return affected(bad)
			},
		},
		{
			id: 63, category: CategoryStructuredData, name: "Organization or WebSite schema",
			severity:       SeverityLow,
			recommendation: "Declare Organization and WebSite schema on the homepage.",
			eval: func(art *rattler.CrawlArtifact) finding {
				home := art.Homepage()
				if home == nil || !home.IsSuccess() || len(home.StructuredData) == 0 {
					return pass() // the presence check already covers absence
				}
				for _, block := range home.StructuredData {
					t := schemaType(block)
					if strings.EqualFold(t, "Organization") || strings.EqualFold(t, "WebSite") {
						return pass()
					}
				}
				return siteIssue(home.URL)
			},
		},
		{
			id: 64, category: CategoryStructuredData, name: "Open Graph title and description",
			severity:       SeverityMedium,
			recommendation: "Add og:title and og:description so shares render correctly.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.OpenGraph["og:title"] == "" || p.OpenGraph["og:description"] == ""
			}),
		},
		{
			id: 65, category: CategoryStructuredData, name: "Open Graph image",
			severity:       SeverityLow,
			recommendation: "Add an og:image; link previews without one get ignored.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.OpenGraph["og:image"] == ""
			}),
		},
		{
			id: 66, category: CategoryStructuredData, name: "Twitter card",
			severity:       SeverityLow,
			recommendation: "Declare a twitter:card meta tag.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.TwitterCards["twitter:card"] == ""
			}),
		},
		{
			id: 67, category: CategoryStructuredData, name: "schema type diversity",
			severity:       SeverityInfo,
			recommendation: "Mark up more content types (Article, Product, FAQ) beyond the basics.",
			eval: func(art *rattler.CrawlArtifact) finding {
				types := make(map[string]bool)
				anySchema := false
				for _, p := range htmlPages(art) {
					for _, block := range p.StructuredData {
						anySchema = true
						if t := schemaType(block); t != "" {
							types[strings.ToLower(t)] = true
						}
					}
				}
				if !anySchema || len(types) >= 2 {
					return pass()
				}
				return siteIssue(art.BaseURL)
			},
		},
		{
			id: 68, category: CategoryStructuredData, name: "breadcrumbs on deep pages",
			severity:       SeverityLow,
			recommendation: "Add BreadcrumbList schema to pages more than two levels deep.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range htmlPages(art) {
					if p.Depth <= 2 {
						continue
					}
					found := false
					for _, block := range p.StructuredData {
						if strings.EqualFold(schemaType(block), "BreadcrumbList") {
							found = true
							break
						}
					}
					if !found {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 69, category: CategoryStructuredData, name: "hreflang validity",
			severity:       SeverityMedium,
			recommendation: "Fix hreflang entries with invalid language codes or missing URLs.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range htmlPages(art) {
					for _, h := range p.Hreflang {
						if h.URL == "" || !hreflangPattern.MatchString(h.Lang) {
							bad = append(bad, p.URL)
							break
						}
					}
				}
				return affected(bad)
			},
		},
		{
			id: 70, category: CategoryStructuredData, name: "hreflang x-default",
			severity:       SeverityLow,
			recommendation: "Declare an x-default hreflang alongside the language alternates.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range htmlPages(art) {
					if len(p.Hreflang) < 2 {
						continue
					}
					hasDefault := false
					for _, h := range p.Hreflang {
						if strings.EqualFold(h.Lang, "x-default") {
							hasDefault = true
							break
						}
					}
					if !hasDefault {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
	}
}

// schemaType extracts the @type of a JSON-LD block; arrays yield the first
// string element.
func schemaType(block map[string]interface{}) string {
	switch t := block["@type"].(type) {
	case string:
		return t
	case []interface{}:
		for _, v := range t {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
