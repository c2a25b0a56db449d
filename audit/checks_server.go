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
	"time"

	"github.com/agentberlin/rattler"
)

const maxAvgLoadTime = 2 * time.Second

// versionPattern matches version numbers in Server/X-Powered-By headers,
// e.g. "nginx/1.18.0" or "PHP/8.1".
var versionPattern = regexp.MustCompile(`/\d+(\.\d+)*`)

func serverChecks() []check {
	return []check{
		{
			id: 91, category: CategoryServer, name: "no server errors",
			severity:       SeverityCritical,
			recommendation: "Fix pages returning 5xx; server errors drop pages from the index.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				details := make(map[string]interface{})
				for _, p := range art.Pages {
					if p.StatusCode >= 500 {
						bad = append(bad, p.URL)
						details[p.URL] = p.StatusCode
					}
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 92, category: CategoryServer, name: "Server header hygiene",
			severity:       SeverityLow,
			recommendation: "Strip version numbers from the Server header.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return versionPattern.MatchString(header(p, "Server"))
			}),
		},
		{
			id: 93, category: CategoryServer, name: "no X-Powered-By leakage",
			severity:       SeverityLow,
			recommendation: "Remove the X-Powered-By header; it advertises the stack to attackers.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return header(p, "X-Powered-By") != ""
			}),
		},
		{
			id: 94, category: CategoryServer, name: "charset declared",
			severity:       SeverityMedium,
			recommendation: "Declare the charset in the Content-Type header.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return !strings.Contains(strings.ToLower(p.ContentType), "charset=")
			}),
		},
		{
			id: 95, category: CategoryServer, name: "Content-Type header present",
			severity:       SeverityMedium,
			recommendation: "Send a Content-Type header on every response.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				for _, p := range art.Pages {
					if p.Error == "" && p.StatusCode > 0 && p.ContentType == "" {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 96, category: CategoryServer, name: "404 handling",
			severity:       SeverityMedium,
			recommendation: "Return a real 404 status for missing pages instead of a soft 200.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				// Soft-404 heuristic: a 200 page whose title announces an error.
				t := groupKey(p.Title)
				return strings.Contains(t, "404") ||
					strings.Contains(t, "page not found") ||
					strings.Contains(t, "not found |")
			}),
		},
		{
			id: 97, category: CategoryServer, name: "www consistency",
			severity:       SeverityMedium,
			recommendation: "Redirect the www or non-www variant so only one host serves content.",
			eval: func(art *rattler.CrawlArtifact) finding {
				hosts := make(map[string][]string)
				for _, p := range htmlPages(art) {
					host := strings.ToLower(rattler.URLHost(p.FinalURL))
					if host == "" {
						host = strings.ToLower(rattler.URLHost(p.URL))
					}
					hosts[host] = append(hosts[host], p.URL)
				}
				seen := make(map[string]bool)
				for host := range hosts {
					seen[strings.TrimPrefix(host, "www.")] = true
				}
				if len(hosts) <= len(seen) {
					return pass()
				}
				// Both www and bare variants serve 200s.
				var bad []string
				details := make(map[string]interface{})
				for host, urls := range hosts {
					details[host] = len(urls)
					bad = append(bad, urls...)
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 98, category: CategoryServer, name: "trailing slash redirects",
			severity:       SeverityLow,
			recommendation: "Redirect one trailing-slash variant to the other instead of serving both.",
			eval: func(art *rattler.CrawlArtifact) finding {
				okByKey := make(map[string]int)
				for _, p := range htmlPages(art) {
					if rattler.URLPath(p.URL) == "/" || rattler.URLPath(p.URL) == "" {
						continue
					}
					okByKey[slashKey(p.URL)]++
				}
				var bad []string
				for _, p := range htmlPages(art) {
					if okByKey[slashKey(p.URL)] > 1 {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 99, category: CategoryServer, name: "average response time",
			severity:       SeverityMedium,
			recommendation: "Bring the average response time under two seconds.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var total time.Duration
				n := 0
				for _, p := range art.Pages {
					if p.Error == "" && p.StatusCode > 0 && !p.JSRendered {
						total += p.LoadTime
						n++
					}
				}
				if n == 0 {
					return pass()
				}
				avg := total / time.Duration(n)
				if avg <= maxAvgLoadTime {
					return pass()
				}
				return siteIssueWith(art.BaseURL, map[string]interface{}{
					"averageLoadTime": avg.String(),
					"pagesMeasured":   n,
				})
			},
		},
		{
			id: 100, category: CategoryServer, name: "response status known",
			severity:       SeverityHigh,
			recommendation: "Investigate URLs that never returned a response; check DNS and timeouts.",
			eval: func(art *rattler.CrawlArtifact) finding {
				var bad []string
				details := make(map[string]interface{})
				for _, p := range art.Pages {
					if p.StatusCode == 0 {
						bad = append(bad, p.URL)
						if p.Error != "" {
							details[p.URL] = p.Error
						}
					}
				}
				return affectedWith(bad, details)
			},
		},
	}
}
