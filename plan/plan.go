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

// Package plan turns failed audit checks, template groupings and keyword
// research into an ordered, phased action plan.
package plan

import (
	"fmt"
	"sort"

	"github.com/agentberlin/rattler/audit"
)

// Phase names the three plan phases.
type Phase string

const (
	PhaseQuickWins Phase = "quick-wins"
	PhaseTechnical Phase = "technical"
	PhaseContent   Phase = "content"
)

const (
	maxQuickWins        = 5
	maxTechnicalItems   = 5
	maxPerTemplate      = 2
	defaultPlanWeeks    = 12
	maxPlanWeeks        = 52
	contentItemsPerWeek = 1
)

// Keyword is one researched keyword with its metrics.
type Keyword struct {
	Text       string  `json:"text"`
	Volume     int     `json:"volume"`
	Difficulty float64 `json:"difficulty"`
	Intent     string  `json:"intent"` // transactional, commercial, navigational, informational
}

// score ranks keywords by opportunity.
func (k Keyword) score() float64 {
	d := k.Difficulty
	if d < 1 {
		d = 1
	}
	return float64(k.Volume) / d
}

// ContentType maps keyword intent to the page type a brief should produce.
func (k Keyword) ContentType() string {
	switch k.Intent {
	case "transactional":
		return "landing"
	case "commercial":
		return "comparison"
	case "navigational":
		return "service"
	default:
		return "blog"
	}
}

// Item is one scheduled unit of work.
type Item struct {
	Phase       Phase    `json:"phase"`
	Week        int      `json:"week"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CheckID     int      `json:"checkId,omitempty"`
	Severity    string   `json:"severity,omitempty"`
	TemplateID  string   `json:"templateId,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
	Keyword     string   `json:"keyword,omitempty"`
	PageURLs    []string `json:"pageUrls,omitempty"`
}

// Input carries everything the synthesizer consumes. Templates and keywords
// are optional; the plan degrades gracefully without them.
type Input struct {
	Failed       []*audit.CheckResult
	Templates    map[string][]string // template id -> page URLs
	Keywords     []Keyword
	SeedKeywords []string
	Weeks        int // plan horizon in weeks; defaults to 12, capped at 52
}

// Synthesize builds the ordered plan: quick wins (weeks 1-2), technical
// fixes (weeks 2-4), then content items week by week until the horizon.
// It is pure: same input, same plan.
func Synthesize(in Input) []Item {
	weeks := in.Weeks
	if weeks <= 0 {
		weeks = defaultPlanWeeks
	}
	if weeks > maxPlanWeeks {
		weeks = maxPlanWeeks
	}

	var items []Item
	items = append(items, quickWins(in.Failed)...)
	items = append(items, technical(in.Failed, in.Templates)...)
	items = append(items, content(in, weeks)...)
	return items
}

// Calendar returns the content-phase subset ordered by week.
func Calendar(items []Item) []Item {
	var cal []Item
	for _, it := range items {
		if it.Phase == PhaseContent {
			cal = append(cal, it)
		}
	}
	sort.SliceStable(cal, func(i, j int) bool { return cal[i].Week < cal[j].Week })
	return cal
}

// quickWins picks up to five low-effort failures (low/medium severity),
// worst first.
func quickWins(failed []*audit.CheckResult) []Item {
	var candidates []*audit.CheckResult
	for _, r := range failed {
		if r.Severity == audit.SeverityLow || r.Severity == audit.SeverityMedium {
			candidates = append(candidates, r)
		}
	}
	sortByImpact(candidates)
	var items []Item
	for i, r := range candidates {
		if i >= maxQuickWins {
			break
		}
		items = append(items, Item{
			Phase:       PhaseQuickWins,
			Week:        1 + i%2,
			Title:       fmt.Sprintf("Fix: %s", r.Name),
			Description: r.Recommendation,
			CheckID:     r.CheckID,
			Severity:    string(r.Severity),
			PageURLs:    sampleURLs(r),
		})
	}
	return items
}

// technical picks up to five high/critical failures plus at most two
// template-scoped recommendations per template.
func technical(failed []*audit.CheckResult, templates map[string][]string) []Item {
	var candidates []*audit.CheckResult
	for _, r := range failed {
		if r.Severity == audit.SeverityHigh || r.Severity == audit.SeverityCritical {
			candidates = append(candidates, r)
		}
	}
	sortByImpact(candidates)

	var items []Item
	for i, r := range candidates {
		if i >= maxTechnicalItems {
			break
		}
		items = append(items, Item{
			Phase:       PhaseTechnical,
			Week:        2 + i%3,
			Title:       fmt.Sprintf("Resolve: %s", r.Name),
			Description: r.Recommendation,
			CheckID:     r.CheckID,
			Severity:    string(r.Severity),
			PageURLs:    sampleURLs(r),
		})
	}

	// Template-scoped work rides along in the same phase.
	templateIDs := make([]string, 0, len(templates))
	for id := range templates {
		templateIDs = append(templateIDs, id)
	}
	sort.Strings(templateIDs)
	for _, id := range templateIDs {
		pages := templates[id]
		scoped := templateItems(id, pages, candidates)
		if len(scoped) > maxPerTemplate {
			scoped = scoped[:maxPerTemplate]
		}
		items = append(items, scoped...)
	}
	return items
}

// templateItems scopes site-wide failures down to one template's pages.
func templateItems(templateID string, pages []string, failed []*audit.CheckResult) []Item {
	pageSet := make(map[string]bool, len(pages))
	for _, p := range pages {
		pageSet[p] = true
	}
	var items []Item
	for _, r := range failed {
		var hits []string
		for _, u := range r.AffectedURLs {
			if pageSet[u] {
				hits = append(hits, u)
			}
		}
		if len(hits) == 0 {
			continue
		}
		items = append(items, Item{
			Phase:       PhaseTechnical,
			Week:        3,
			Title:       fmt.Sprintf("%s template: %s", templateID, r.Name),
			Description: r.Recommendation,
			CheckID:     r.CheckID,
			Severity:    string(r.Severity),
			TemplateID:  templateID,
			PageURLs:    hits,
		})
	}
	return items
}

// content emits one item per top keyword from week 4 to the horizon,
// falling back to seed keywords when research is unavailable.
func content(in Input, weeks int) []Item {
	slots := weeks - 3
	if slots <= 0 {
		return nil
	}

	keywords := append([]Keyword(nil), in.Keywords...)
	if len(keywords) == 0 {
		for _, seed := range in.SeedKeywords {
			keywords = append(keywords, Keyword{Text: seed, Intent: "informational"})
		}
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		if keywords[i].score() != keywords[j].score() {
			return keywords[i].score() > keywords[j].score()
		}
		return keywords[i].Text < keywords[j].Text
	})

	var items []Item
	for i, kw := range keywords {
		if i >= slots*contentItemsPerWeek {
			break
		}
		week := 4 + i/contentItemsPerWeek
		items = append(items, Item{
			Phase:       PhaseContent,
			Week:        week,
			Title:       fmt.Sprintf("Publish %s content: %s", kw.ContentType(), kw.Text),
			Description: fmt.Sprintf("Create a %s page targeting %q.", kw.ContentType(), kw.Text),
			ContentType: kw.ContentType(),
			Keyword:     kw.Text,
		})
	}
	return items
}

// sortByImpact orders results by severity weight then affected count, with
// check id as the stable tie-break.
func sortByImpact(results []*audit.CheckResult) {
	weight := map[audit.Severity]int{
		audit.SeverityCritical: 4,
		audit.SeverityHigh:     3,
		audit.SeverityMedium:   2,
		audit.SeverityLow:      1,
	}
	sort.SliceStable(results, func(i, j int) bool {
		if weight[results[i].Severity] != weight[results[j].Severity] {
			return weight[results[i].Severity] > weight[results[j].Severity]
		}
		if results[i].AffectedCount != results[j].AffectedCount {
			return results[i].AffectedCount > results[j].AffectedCount
		}
		return results[i].CheckID < results[j].CheckID
	})
}

func sampleURLs(r *audit.CheckResult) []string {
	if len(r.AffectedURLs) <= 5 {
		return r.AffectedURLs
	}
	return r.AffectedURLs[:5]
}
