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

// Package report renders the audit outcome into four markdown documents:
// executive summary, technical audit, action plan and content briefs. The
// renderers are pure; substituting templates changes the layout without
// code changes.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/agentberlin/rattler/audit"
	"github.com/agentberlin/rattler/plan"
	"github.com/kennygrant/sanitize"
)

// maxTrafficImpact caps the uplift estimate; anything higher would not be
// credible in front of a client.
const maxTrafficImpact = 60.0

// Input is everything the renderers need, assembled by the pipeline.
type Input struct {
	Site       string
	Date       time.Time
	Audit      *audit.Output
	Plan       []plan.Item
	Briefs     []Brief
	PagesCount int
	CrawlTime  time.Duration
}

// Brief is one content brief for a planned content item.
type Brief struct {
	Keyword          string   `json:"keyword"`
	ContentType      string   `json:"contentType"`
	TitleSuggestions []string `json:"titleSuggestions"`
	MetaDescription  string   `json:"metaDescription"`
	Outline          []string `json:"outline"`
	KeywordsToUse    []string `json:"keywordsToUse"`
}

// Slug returns a filesystem and URL safe name for the brief.
func (b Brief) Slug() string {
	return sanitize.Path(strings.ToLower(b.Keyword))
}

// TrafficImpact estimates the percentage traffic uplift from fixing the
// failed checks: critical*5 + high*2 + medium*0.5, capped.
func TrafficImpact(summary audit.Summary) float64 {
	impact := float64(summary.BySeverity[string(audit.SeverityCritical)])*5 +
		float64(summary.BySeverity[string(audit.SeverityHigh)])*2 +
		float64(summary.BySeverity[string(audit.SeverityMedium)])*0.5
	if impact > maxTrafficImpact {
		return maxTrafficImpact
	}
	return impact
}

// Renderer holds the four templates. The zero value is unusable; call
// NewRenderer, then override any template field before rendering if a
// custom layout is needed.
type Renderer struct {
	ExecutiveTemplate string
	TechnicalTemplate string
	ActionTemplate    string
	PageFixesTemplate string
	BriefTemplate     string
	BriefDocTemplate  string
}

// NewRenderer returns a renderer with the default templates.
func NewRenderer() *Renderer {
	return &Renderer{
		ExecutiveTemplate: executiveTemplate,
		TechnicalTemplate: technicalTemplate,
		ActionTemplate:    actionTemplate,
		PageFixesTemplate: pageFixesTemplate,
		BriefTemplate:     briefTemplate,
		BriefDocTemplate:  briefDocTemplate,
	}
}

// Executive renders the executive summary.
func (r *Renderer) Executive(in Input) (string, error) {
	return render("executive", r.ExecutiveTemplate, newView(in))
}

// Technical renders the full per-check technical audit.
func (r *Renderer) Technical(in Input) (string, error) {
	return render("technical", r.TechnicalTemplate, newView(in))
}

// Action renders the phased action plan with the content calendar.
func (r *Renderer) Action(in Input) (string, error) {
	return render("action", r.ActionTemplate, newView(in))
}

// PageFixes renders the per-page fix list: every affected page with the
// checks that failed on it.
func (r *Renderer) PageFixes(in Input) (string, error) {
	return render("page-fixes", r.PageFixesTemplate, newView(in))
}

// Briefs renders all content briefs into one document.
func (r *Renderer) Briefs(in Input) (string, error) {
	return render("briefs", r.BriefTemplate, newView(in))
}

// BriefDoc renders one content brief as a standalone document, the form
// stored under briefs/ in the report bundle.
func (r *Renderer) BriefDoc(in Input, b Brief) (string, error) {
	return render("brief", r.BriefDocTemplate, briefDocView{Site: in.Site, Date: in.Date, Brief: b})
}

type briefDocView struct {
	Site  string
	Date  time.Time
	Brief Brief
}

func render(name, text string, view interface{}) (string, error) {
	tpl, err := template.New(name).Funcs(templateFuncs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("report: parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("report: render %s: %w", name, err)
	}
	return buf.String(), nil
}

var templateFuncs = template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"status": func(passed bool) string {
		if passed {
			return "PASS"
		}
		return "FAIL"
	},
}

// view is the template data model shared by all four documents.
type view struct {
	Input
	Grade         string
	TrafficImpact float64
	TopIssues     []*audit.CheckResult
	Categories    []categoryRow
	FailedResults []*audit.CheckResult
	PageGroups    []pageGroup
	Phases        []phaseView
	Calendar      []plan.Item
}

// pageGroup is the page-fixes view of a single URL: every failed check whose
// affected sample names the page.
type pageGroup struct {
	URL    string
	Issues []*audit.CheckResult
}

type categoryRow struct {
	Name   string
	Passed int
	Failed int
	Score  int
}

type phaseView struct {
	Name  string
	Items []plan.Item
}

func newView(in Input) *view {
	v := &view{
		Input:         in,
		Grade:         audit.Grade(in.Audit.Score),
		TrafficImpact: TrafficImpact(in.Audit.Summary),
		FailedResults: in.Audit.FailedResults(),
		Calendar:      plan.Calendar(in.Plan),
	}
	v.TopIssues = topIssues(v.FailedResults, 5)
	v.Categories = categoryRows(in.Audit.Summary)
	v.PageGroups = pageGroups(v.FailedResults)
	v.Phases = phases(in.Plan)
	return v
}

// pageGroups inverts the failed checks into a per-page fix list, ordered by
// issue count descending so the worst pages lead.
func pageGroups(failed []*audit.CheckResult) []pageGroup {
	byURL := make(map[string][]*audit.CheckResult)
	for _, r := range failed {
		for _, u := range r.AffectedURLs {
			byURL[u] = append(byURL[u], r)
		}
	}
	groups := make([]pageGroup, 0, len(byURL))
	for u, issues := range byURL {
		groups = append(groups, pageGroup{URL: u, Issues: issues})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Issues) != len(groups[j].Issues) {
			return len(groups[i].Issues) > len(groups[j].Issues)
		}
		return groups[i].URL < groups[j].URL
	})
	return groups
}

// topIssues sorts failures worst-first and keeps n.
func topIssues(failed []*audit.CheckResult, n int) []*audit.CheckResult {
	weight := map[audit.Severity]int{
		audit.SeverityCritical: 4,
		audit.SeverityHigh:     3,
		audit.SeverityMedium:   2,
		audit.SeverityLow:      1,
	}
	sorted := append([]*audit.CheckResult(nil), failed...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if weight[sorted[i].Severity] != weight[sorted[j].Severity] {
			return weight[sorted[i].Severity] > weight[sorted[j].Severity]
		}
		return sorted[i].AffectedCount > sorted[j].AffectedCount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func categoryRows(s audit.Summary) []categoryRow {
	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([]categoryRow, 0, len(names))
	for _, name := range names {
		t := s.ByCategory[name]
		rows = append(rows, categoryRow{Name: name, Passed: t.Passed, Failed: t.Failed, Score: t.Score})
	}
	return rows
}

func phases(items []plan.Item) []phaseView {
	order := []plan.Phase{plan.PhaseQuickWins, plan.PhaseTechnical, plan.PhaseContent}
	titles := map[plan.Phase]string{
		plan.PhaseQuickWins: "Phase 1: Quick Wins (weeks 1-2)",
		plan.PhaseTechnical: "Phase 2: Technical Fixes (weeks 2-4)",
		plan.PhaseContent:   "Phase 3: Content (week 4 onward)",
	}
	var views []phaseView
	for _, phase := range order {
		var phaseItems []plan.Item
		for _, it := range items {
			if it.Phase == phase {
				phaseItems = append(phaseItems, it)
			}
		}
		if len(phaseItems) > 0 {
			views = append(views, phaseView{Name: titles[phase], Items: phaseItems})
		}
	}
	return views
}
