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

const minAltCoverage = 0.80

func securityChecks() []check {
	return []check{
		{
			id: 71, category: CategorySecurity, name: "HTTPS",
			severity:       SeverityCritical,
			recommendation: "Serve the site over HTTPS and redirect all HTTP traffic.",
			eval: func(art *rattler.CrawlArtifact) finding {
				if strings.HasPrefix(art.BaseURL, "https://") {
					return pass()
				}
				return siteIssue(art.BaseURL)
			},
		},
		{
			id: 72, category: CategorySecurity, name: "no mixed content",
			severity:       SeverityHigh,
			recommendation: "Load all images and subresources over HTTPS on secure pages.",
			eval: func(art *rattler.CrawlArtifact) finding {
				if !strings.HasPrefix(art.BaseURL, "https://") {
					return pass()
				}
				var bad []string
				details := make(map[string]interface{})
				for _, p := range htmlPages(art) {
					var insecure []string
					for _, img := range p.Images {
						if strings.HasPrefix(img.URL, "http://") {
							insecure = append(insecure, img.URL)
						}
					}
					if len(insecure) > 0 {
						bad = append(bad, p.URL)
						details[p.URL] = insecure
					}
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 73, category: CategorySecurity, name: "HSTS header",
			severity:       SeverityMedium,
			recommendation: "Send Strict-Transport-Security on HTTPS responses.",
			eval: func(art *rattler.CrawlArtifact) finding {
				if !strings.HasPrefix(art.BaseURL, "https://") {
					return pass() // moot until the site is on HTTPS
				}
				var bad []string
				for _, p := range htmlPages(art) {
					if header(p, "Strict-Transport-Security") == "" {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 74, category: CategorySecurity, name: "X-Content-Type-Options",
			severity:       SeverityLow,
			recommendation: "Send X-Content-Type-Options: nosniff.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return header(p, "X-Content-Type-Options") == ""
			}),
		},
		{
			id: 75, category: CategorySecurity, name: "clickjacking protection",
			severity:       SeverityLow,
			recommendation: "Send X-Frame-Options or a CSP frame-ancestors directive.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				if header(p, "X-Frame-Options") != "" {
					return false
				}
				return !strings.Contains(strings.ToLower(header(p, "Content-Security-Policy")), "frame-ancestors")
			}),
		},
		{
			id: 76, category: CategorySecurity, name: "html lang attribute",
			severity:       SeverityMedium,
			recommendation: "Declare a lang attribute on <html> for screen readers and indexing.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return groupKey(p.HTMLLang) == ""
			}),
		},
		{
			id: 77, category: CategorySecurity, name: "image alt coverage",
			severity:       SeverityMedium,
			recommendation: "Bring alt-text coverage above 80% of images on each page.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				details := make(map[string]interface{})
				for _, p := range htmlPages(art) {
					if len(p.Images) == 0 {
						continue
					}
					withAlt := 0
					for _, img := range p.Images {
						if groupKey(img.Alt) != "" {
							withAlt++
						}
					}
					coverage := float64(withAlt) / float64(len(p.Images))
					if coverage < minAltCoverage {
						bad = append(bad, p.URL)
						details[p.URL] = fmt.Sprintf("%.0f%% of %d images", coverage*100, len(p.Images))
					}
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 78, category: CategorySecurity, name: "Content-Security-Policy",
			severity:       SeverityLow,
			recommendation: "Define a Content-Security-Policy header.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return header(p, "Content-Security-Policy") == "" &&
					header(p, "Content-Security-Policy-Report-Only") == ""
			}),
		},
		{
			id: 79, category: CategorySecurity, name: "Referrer-Policy",
			severity:       SeverityLow,
			recommendation: "Send a Referrer-Policy header.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return header(p, "Referrer-Policy") == ""
			}),
		},
		{
			id: 80, category: CategorySecurity, name: "no insecure internal links",
			severity:       SeverityHigh,
			recommendation: "Update internal links still using http:// on the HTTPS site.",
			eval: func(art *rattler.CrawlArtifact) finding {
				if !strings.HasPrefix(art.BaseURL, "https://") {
					return pass()
				}
				var bad []string
				for _, p := range htmlPages(art) {
					for _, l := range p.InternalLinks {
						if strings.HasPrefix(l.URL, "http://") {
							bad = append(bad, p.URL)
							break
						}
					}
				}
				return affected(bad)
			},
		},
	}
}
