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
	"net/url"
	"strings"
	"unicode"

	"github.com/agentberlin/rattler"
)

const (
	maxURLLength   = 115
	maxQueryParams = 3
	maxURLDepth    = 6
)

// sessionIDParams are query keys that mark session-tracking URLs.
var sessionIDParams = []string{"sessionid", "session_id", "sid", "phpsessid", "jsessionid", "aspsessionid"}

func urlStructureChecks() []check {
	return []check{
		{
			id: 31, category: CategoryURLStructure, name: "URL length",
			severity:       SeverityLow,
			recommendation: "Keep URLs under 115 characters.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return len(p.URL) > maxURLLength
			}),
		},
		{
			id: 32, category: CategoryURLStructure, name: "no underscores in path",
			severity:       SeverityLow,
			recommendation: "Use hyphens instead of underscores as word separators in URLs.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return strings.Contains(rattler.URLPath(p.URL), "_")
			}),
		},
		{
			id: 33, category: CategoryURLStructure, name: "lowercase URLs",
			severity:       SeverityLow,
			recommendation: "Serve URLs in lowercase and redirect uppercase variants.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				path := rattler.URLPath(p.URL)
				return path != strings.ToLower(path)
			}),
		},
		{
			id: 34, category: CategoryURLStructure, name: "query parameter count",
			severity:       SeverityMedium,
			recommendation: "Rewrite URLs carrying more than three query parameters to clean paths.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				u, err := url.Parse(p.URL)
				if err != nil {
					return false
				}
				return len(u.Query()) > maxQueryParams
			}),
		},
		{
			id: 35, category: CategoryURLStructure, name: "URL depth",
			severity:       SeverityLow,
			recommendation: "Flatten URL hierarchies deeper than six path segments.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				return pathSegments(p.URL) > maxURLDepth
			}),
		},
		{
			id: 36, category: CategoryURLStructure, name: "ASCII URLs",
			severity:       SeverityLow,
			recommendation: "Transliterate non-ASCII characters in URLs; encoded forms are hard to share.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				for _, r := range p.URL {
					if r > unicode.MaxASCII {
						return true
					}
				}
				return false
			}),
		},
		{
			id: 37, category: CategoryURLStructure, name: "no session IDs in URLs",
			severity:       SeverityHigh,
			recommendation: "Move session identifiers out of URLs and into cookies.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				u, err := url.Parse(p.URL)
				if err != nil {
					return false
				}
				for key := range u.Query() {
					for _, marker := range sessionIDParams {
						if strings.EqualFold(key, marker) {
							return true
						}
					}
				}
				return false
			}),
		},
		{
			id: 38, category: CategoryURLStructure, name: "one URL per content",
			severity:       SeverityHigh,
			recommendation: "Canonicalize or redirect URL variants serving the same content.",
			eval: func(art *rattler.CrawlArtifact) finding {
				// Variant URLs (query-string or slash differences) serving the
				// same text; general duplication is a separate content check.
				groups := make(map[string][]string)
				for _, p := range htmlPages(art) {
					if p.WordCount < 50 {
						continue // boilerplate-only pages collide trivially
					}
					groups[p.TextContentHash+"|"+stripQuery(p.URL)] = append(
						groups[p.TextContentHash+"|"+stripQuery(p.URL)], p.URL)
				}
				var bad []string
				details := make(map[string]interface{})
				for _, p := range htmlPages(art) {
					key := p.TextContentHash + "|" + stripQuery(p.URL)
					if len(groups[key]) > 1 {
						bad = append(bad, p.URL)
						details[stripQuery(p.URL)] = groups[key]
					}
				}
				return affectedWith(bad, details)
			},
		},
		{
			id: 39, category: CategoryURLStructure, name: "trailing slash consistency",
			severity:       SeverityLow,
			recommendation: "Pick one trailing-slash convention and redirect the other.",
			eval: func(art *rattler.CrawlArtifact) finding {
				byKey := make(map[string][]string)
				for _, p := range htmlPages(art) {
					if rattler.URLPath(p.URL) == "/" || rattler.URLPath(p.URL) == "" {
						continue
					}
					byKey[slashKey(p.URL)] = append(byKey[slashKey(p.URL)], p.URL)
				}
				var bad []string
				for _, p := range htmlPages(art) {
					if len(byKey[slashKey(p.URL)]) > 1 {
						bad = append(bad, p.URL)
					}
				}
				return affected(bad)
			},
		},
		{
			id: 40, category: CategoryURLStructure, name: "hyphenated slugs",
			severity:       SeverityInfo,
			recommendation: "Separate words in slugs with hyphens for readability.",
			eval: perPage(func(p *rattler.PageRecord) bool {
				slug := lastSegment(p.URL)
				// A long, letters-only slug is likely several words run together.
				return len(slug) > 25 && !strings.ContainsAny(slug, "-_.") && isAlpha(slug)
			}),
		},
	}
}

// stripQuery drops the query string and trailing slash, leaving the URL's
// stable identity.
func stripQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	return slashKey(u)
}

func pathSegments(u string) int {
	path := strings.Trim(rattler.URLPath(u), "/")
	if path == "" {
		return 0
	}
	return len(strings.Split(path, "/"))
}

func lastSegment(u string) string {
	path := strings.Trim(rattler.URLPath(u), "/")
	if path == "" {
		return ""
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
