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
	"regexp"
	"strings"

	"github.com/agentberlin/rattler"
)

const (
	minImageDimensionShare = 0.50
	minMobileTextChars     = 300
	avgCharsPerWord        = 6
)

// maxScalePattern matches maximum-scale values below 1 in a viewport string.
var maxScalePattern = regexp.MustCompile(`maximum-scale\s*=\s*0(\.\d+)?`)

func mobileChecks() []check {
	return []check{
		{
			id: 81, category: CategoryMobile, name: "viewport meta present",
			severity:       SeverityCritical,
			recommendation: "Add <meta name=\"viewport\"> so pages render correctly on phones.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return groupKey(p.ViewportContent) == ""
			}),
		},
		{
			id: 82, category: CategoryMobile, name: "responsive viewport",
			severity:       SeverityHigh,
			recommendation: "Set the viewport to width=device-width.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				v := groupKey(p.ViewportContent)
				return v != "" && !strings.Contains(v, "width=device-width")
			}),
		},
		{
			id: 83, category: CategoryMobile, name: "zoom not disabled",
			severity:       SeverityMedium,
			recommendation: "Remove user-scalable=no; it blocks pinch zoom and hurts accessibility.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return strings.Contains(groupKey(p.ViewportContent), "user-scalable=no")
			}),
		},
		{
			id: 84, category: CategoryMobile, name: "zoom scale not capped",
			severity:       SeverityLow,
			recommendation: "Do not cap maximum-scale below 1.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return maxScalePattern.MatchString(groupKey(p.ViewportContent))
			}),
		},
		{
			id: 85, category: CategoryMobile, name: "image dimensions declared",
			severity:       SeverityLow,
			recommendation: "Declare width and height on images to avoid mobile layout shift.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				details := make(map[string]interface{})
				for _, p := range htmlPages(art) {
					if len(p.Images) == 0 {
						continue
					}
					sized := 0
					for _, img := range p.Images {
						if img.Width != "" && img.Height != "" {
							sized++
						}
					}
					share := float64(sized) / float64(len(p.Images))
					if share < minImageDimensionShare {
						bad = append(bad, p.URL)
						details[p.URL] = fmt.Sprintf("%d of %d images sized", sized, len(p.Images))
					}
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 86, category: CategoryMobile, name: "AMP alternate",
			severity:       SeverityInfo,
			recommendation: "AMP is optional; note that no AMP alternates were found.",
			eval: func(art *rattler.CrawlArtifact) finding {
				// Informational only; AMP absence never fails the audit.
				return pass()
			},
		},
		{
			id: 87, category: CategoryMobile, name: "no legacy plugin embeds",
			severity:       SeverityMedium,
			recommendation: "Remove Flash and other plugin embeds; mobile browsers cannot run them.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range htmlPages(art) {
					for _, img := range p.Images {
						if strings.HasSuffix(strings.ToLower(img.URL), ".swf") {
							bad = append(bad, p.URL)
							break
						}
					}
				}
				return affected(bad)
			},
		},
		{
			id: 88, category: CategoryMobile, name: "no fixed-width layout markers",
			severity:       SeverityLow,
			recommendation: "Replace fixed pixel widths with responsive units on mobile templates.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				// Desktop-era pages: no viewport and a table-heavy fixed layout
				// cannot be detected post-extraction, so fall back to the
				// viewport signal combined with page age markers.
				return groupKey(p.ViewportContent) == "" && p.HTMLSize > 0 && len(p.Images) > 20
			}),
		},
		{
			id: 89, category: CategoryMobile, name: "mobile framework markers",
			severity:       SeverityInfo,
			recommendation: "Informational: framework detection result for mobile rendering.",
			eval: func(art *rattler.CrawlArtifact) finding {
				return pass() // recorded per page in FrameworkDetected
			},
		},
		{
			id: 90, category: CategoryMobile, name: "sufficient mobile text",
			severity:       SeverityLow,
			recommendation: "Ensure mobile templates render at least a paragraph of text.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return !p.Noindex && p.WordCount*avgCharsPerWord < minMobileTextChars
			}),
		},
	}
}
