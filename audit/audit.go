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

// Package audit evaluates a sealed crawl artifact against a fixed catalogue
// of one hundred rule-based SEO checks and scores the result. Check ids are
// stable across releases; every run emits exactly one result per id.
package audit

import (
	"strings"
	"time"

	"github.com/agentberlin/rattler"
)

// Severity classifies how much a failed check hurts the site.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// maxAffectedURLs bounds the URL sample carried on a result; the full count
// is preserved in AffectedCount.
const maxAffectedURLs = 50

// maxDetailEntries bounds grouped detail maps (duplicate groups etc).
const maxDetailEntries = 20

// CheckResult is the immutable outcome of one check over one artifact.
type CheckResult struct {
	CheckID        int                    `json:"checkId"`
	Category       string                 `json:"category"`
	Name           string                 `json:"name"`
	Passed         bool                   `json:"passed"`
	Severity       Severity               `json:"severity"`
	AffectedCount  int                    `json:"affectedCount"`
	AffectedURLs   []string               `json:"affectedUrls,omitempty"`
	Details        map[string]interface{} `json:"details,omitempty"`
	Recommendation string                 `json:"recommendation"`
}

// CategoryTally is the per-category slice of the summary.
type CategoryTally struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Score  int `json:"score"`
}

// Summary aggregates results by outcome, severity and category.
type Summary struct {
	Passed     int                      `json:"passed"`
	Failed     int                      `json:"failed"`
	BySeverity map[string]int           `json:"bySeverity"`
	ByCategory map[string]CategoryTally `json:"byCategory"`
}

// Output is the full audit verdict: exactly one result per catalogue id,
// ordered by id.
type Output struct {
	Score       int            `json:"score"`
	Grade       string         `json:"grade"`
	Results     []*CheckResult `json:"results"`
	Summary     Summary        `json:"summary"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// FailedResults returns the failing subset, preserving id order.
func (o *Output) FailedResults() []*CheckResult {
	var failed []*CheckResult
	for _, r := range o.Results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// finding is the raw outcome a check predicate reports before it is shaped
// into a CheckResult.
type finding struct {
	failed   bool
	affected []string
	details  map[string]interface{}
}

func pass() finding { return finding{} }

// affected fails the check when at least one URL is listed.
func affected(urls []string) finding {
	return finding{failed: len(urls) > 0, affected: urls}
}

func affectedWith(urls []string, details map[string]interface{}) finding {
	return finding{failed: len(urls) > 0, affected: urls, details: details}
}

// siteIssue fails a site-level check, attributing it to the base URL so the
// scorer counts it once.
func siteIssue(baseURL string) finding {
	return finding{failed: true, affected: []string{baseURL}}
}

func siteIssueWith(baseURL string, details map[string]interface{}) finding {
	return finding{failed: true, affected: []string{baseURL}, details: details}
}

// check is one catalogue entry: fixed id, category, severity and
// recommendation plus a deterministic predicate over the artifact.
type check struct {
	id             int
	category       string
	name           string
	severity       Severity
	recommendation string
	eval           func(*rattler.CrawlArtifact) finding
}

// Category names, shared with reports.
const (
	CategoryCrawlability   = "Crawlability"
	CategoryOnPage         = "On-Page SEO"
	CategoryPerformance    = "Performance"
	CategoryURLStructure   = "URL Structure"
	CategoryLinking        = "Internal Linking"
	CategoryContent        = "Content"
	CategoryStructuredData = "Structured Data"
	CategorySecurity       = "Security & Accessibility"
	CategoryMobile         = "Mobile"
	CategoryServer         = "Server"
)

// htmlPages returns the successfully fetched HTML pages of the crawl.
func htmlPages(art *rattler.CrawlArtifact) []*rattler.PageRecord {
	var pages []*rattler.PageRecord
	for _, p := range art.Pages {
		if p.Error == "" && p.IsSuccess() && p.IsHTML() {
			pages = append(pages, p)
		}
	}
	return pages
}

// slashKey normalizes a URL for trailing-slash-insensitive comparisons.
func slashKey(u string) string {
	return strings.TrimSuffix(u, "/")
}

// groupKey folds a string for duplicate groupings: trimmed, lowercased.
func groupKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// header performs a case-insensitive response-header lookup.
func header(p *rattler.PageRecord, name string) string {
	for k, v := range p.ResponseHeaders {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// inboundCounts maps each crawled URL (trailing-slash-insensitive) to the
// number of distinct pages linking to it.
func inboundCounts(art *rattler.CrawlArtifact) map[string]int {
	counts := make(map[string]int)
	for _, p := range art.Pages {
		sources := make(map[string]bool)
		for _, l := range p.InternalLinks {
			sources[slashKey(l.URL)] = true
		}
		for target := range sources {
			if slashKey(p.URL) == target {
				continue // self links do not make a page non-orphan
			}
			counts[target]++
		}
	}
	return counts
}

// crawledStatus maps every requested and final URL (slash-insensitive) to
// its page record.
func crawledStatus(art *rattler.CrawlArtifact) map[string]*rattler.PageRecord {
	set := make(map[string]*rattler.PageRecord, len(art.Pages)*2)
	for _, p := range art.Pages {
		set[slashKey(p.URL)] = p
		if p.FinalURL != "" {
			set[slashKey(p.FinalURL)] = p
		}
	}
	return set
}
