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
	"time"

	"github.com/agentberlin/rattler"
)

const (
	maxPageSize      = 2 << 20 // 2 MiB
	maxLoadTime      = 3 * time.Second
	slowestLoadTime  = 8 * time.Second
	maxScripts       = 30
	maxStylesheets   = 15
	inlineHeavyBytes = 100 << 10
	inlineHeavyWords = 500
	maxImagesPerPage = 100
	maxJSRenderTime  = 10 * time.Second
)

func performanceChecks() []check {
	return []check{
		{
			id: 21, category: CategoryPerformance, name: "page size within limit",
			severity:       SeverityMedium,
			recommendation: "Reduce HTML payloads above 2 MiB; defer non-critical markup.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.HTMLSize > maxPageSize
			}),
		},
		{
			id: 22, category: CategoryPerformance, name: "load time under 3s",
			severity:       SeverityHigh,
			recommendation: "Bring page load time under three seconds; slow pages lose rankings and visitors.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.LoadTime > maxLoadTime
			}),
		},
		{
			id: 23, category: CategoryPerformance, name: "script count",
			severity:       SeverityLow,
			recommendation: "Bundle or remove scripts; more than 30 per page slows rendering.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.ScriptsCount > maxScripts
			}),
		},
		{
			id: 24, category: CategoryPerformance, name: "stylesheet count",
			severity:       SeverityLow,
			recommendation: "Consolidate stylesheets; more than 15 per page adds request overhead.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.StylesheetsCount > maxStylesheets
			}),
		},
		{
			id: 25, category: CategoryPerformance, name: "inline-heavy pages",
			severity:       SeverityLow,
			recommendation: "Move large inline scripts and styles into cacheable external files.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.HTMLSize >= inlineHeavyBytes && p.WordCount < inlineHeavyWords
			}),
		},
		{
			id: 26, category: CategoryPerformance, name: "image count per page",
			severity:       SeverityLow,
			recommendation: "Lazy-load or paginate pages embedding more than 100 images.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return len(p.Images) >= maxImagesPerPage
			}),
		},
		{
			id: 27, category: CategoryPerformance, name: "response compression",
			severity:       SeverityMedium,
			recommendation: "Enable gzip or brotli compression for HTML responses.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return header(p, "Content-Encoding") == ""
			}),
		},
		{
			id: 28, category: CategoryPerformance, name: "caching headers",
			severity:       SeverityLow,
			recommendation: "Send Cache-Control (or Expires/ETag) headers so browsers can cache pages.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return header(p, "Cache-Control") == "" &&
					header(p, "Expires") == "" &&
					header(p, "ETag") == ""
			}),
		},
		{
			id: 29, category: CategoryPerformance, name: "no extremely slow pages",
			severity:       SeverityHigh,
			recommendation: "Investigate pages taking over eight seconds; check server load and payload size.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.LoadTime > slowestLoadTime
			}),
		},
		{
			id: 30, category: CategoryPerformance, name: "JS render time",
			severity:       SeverityMedium,
			recommendation: "Reduce client-side work on pages that take over ten seconds to render.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return p.JSRendered && p.JSRenderTime > maxJSRenderTime
			}),
		},
	}
}
