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

// Package pipeline sequences crawl, audit, plan and report generation into
// one run, degrading gracefully when optional collaborators fail.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/agentberlin/rattler"
	"github.com/agentberlin/rattler/audit"
	"github.com/agentberlin/rattler/blob"
	"github.com/agentberlin/rattler/internal/store"
	"github.com/agentberlin/rattler/plan"
	"github.com/agentberlin/rattler/report"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// presignTTL is how long shared report links stay valid.
const presignTTL = 7 * 24 * time.Hour

// defaultPageSpeedTopN bounds external performance calls per template.
const defaultPageSpeedTopN = 3

// Options tune one pipeline run.
type Options struct {
	CrawlConfig    *rattler.CrawlConfig
	PlanWeeks      int
	SeedKeywords   []string
	Country        string
	Language       string
	GenerateBriefs bool
	SkipTemplates  bool
	PageSpeedTopN  int
}

// RunResult is the terminal record of a pipeline run.
type RunResult struct {
	ReportID     string                   `json:"reportId"`
	Status       string                   `json:"status"` // completed, failed
	Score        int                      `json:"score"`
	Grade        string                   `json:"grade"`
	PagesCrawled int                      `json:"pagesCrawled"`
	ChecksRun    int                      `json:"checksRun"`
	IssuesCount  int                      `json:"issuesCount"`
	Duration     time.Duration            `json:"duration"`
	FileURLs     map[string]string        `json:"fileUrls"`
	Summary      audit.Summary            `json:"summary"`
	Warnings     []string                 `json:"warnings,omitempty"`
	StageTimings map[string]time.Duration `json:"stageTimings"`
	Error        string                   `json:"error,omitempty"`
}

// Orchestrator wires the pipeline's collaborators. Zero-value optional
// fields degrade: nil providers skip their stages, a nil sink skips uploads.
type Orchestrator struct {
	Store     *store.Store
	Sink      blob.Sink
	Keywords  KeywordProvider
	PageSpeed PageSpeedProvider
	LLM       LLM
	Reports   *report.Renderer
	Log       *logrus.Logger
	Tenant    string

	// Crawl overrides the crawl stage; tests substitute a canned artifact.
	Crawl func(ctx context.Context, rawURL string, cfg *rattler.CrawlConfig) (*rattler.CrawlArtifact, error)
}

// Run executes the ten pipeline stages in order. Crawl, audit, plan and
// persist failures are fatal; everything else degrades to a warning. The
// orchestrator is not idempotent: a retry needs a fresh run.
func (o *Orchestrator) Run(ctx context.Context, rawURL string, opts Options) *RunResult {
	started := time.Now()
	res := &RunResult{
		ReportID:     uuid.NewString(),
		Status:       "failed",
		FileURLs:     make(map[string]string),
		StageTimings: make(map[string]time.Duration),
	}
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if o.Reports == nil {
		o.Reports = report.NewRenderer()
	}
	cfg := opts.CrawlConfig
	if cfg == nil {
		cfg = &rattler.CrawlConfig{}
	}

	fail := func(stage string, err error) *RunResult {
		res.Duration = time.Since(started)
		res.Error = fmt.Sprintf("%s: %v", stage, err)
		log.WithField("stage", stage).WithError(err).Error("pipeline failed")
		o.persistFailure(rawURL, res)
		return res
	}
	warn := func(stage string, err error) {
		if errors.Is(err, ErrProviderDisabled) {
			return
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", stage, err))
		log.WithField("stage", stage).WithError(err).Warn("pipeline stage degraded")
	}
	timed := func(stage string, fn func() error) error {
		stageStart := time.Now()
		err := fn()
		res.StageTimings[stage] = time.Since(stageStart)
		return err
	}

	// Invalid input fails fast, before anything is created or persisted.
	if opts.PlanWeeks != 0 && (opts.PlanWeeks < 4 || opts.PlanWeeks > 52) {
		res.Duration = time.Since(started)
		res.Error = fmt.Sprintf("validate: plan weeks %d outside 4..52", opts.PlanWeeks)
		return res
	}
	baseURL, err := rattler.NormalizeURL(rawURL)
	if err != nil {
		res.Duration = time.Since(started)
		res.Error = fmt.Sprintf("validate: %v", err)
		return res
	}

	// 1. Resolve or create the site.
	domain := rattler.URLHost(baseURL)
	var site *store.Site
	if o.Store != nil {
		if err := timed("resolve-site", func() error {
			site, err = o.Store.FindOrCreateSite(o.Tenant, domain, baseURL)
			return err
		}); err != nil {
			return fail("resolve-site", err)
		}
	}

	// 2. Crawl.
	var artifact *rattler.CrawlArtifact
	if err := timed("crawl", func() error {
		artifact, err = o.runCrawl(ctx, baseURL, cfg, res.ReportID, domain)
		return err
	}); err != nil {
		return fail("crawl", err)
	}
	res.PagesCrawled = len(artifact.Pages)

	// 3. Template classification (optional).
	var templates map[string][]string
	_ = timed("templates", func() error {
		if opts.SkipTemplates {
			return nil
		}
		templates = ClassifyTemplates(artifact.Pages)
		if o.LLM != nil {
			templates = refineTemplateNames(ctx, o.LLM, templates)
		}
		return nil
	})

	// 4. PageSpeed analysis (optional).
	var speed []*PageSpeedResult
	if err := timed("pagespeed", func() error {
		var err error
		speed, err = o.runPageSpeed(ctx, templates, opts)
		return err
	}); err != nil {
		warn("pagespeed", err)
	}

	// 5. Keyword research (optional).
	var keywords []plan.Keyword
	if err := timed("keywords", func() error {
		if o.Keywords == nil {
			return nil
		}
		var err error
		keywords, err = o.Keywords.KeywordsForSite(ctx, domain, opts.Country, opts.Language, 50)
		if err != nil && len(opts.SeedKeywords) > 0 {
			if related, rerr := o.Keywords.RelatedKeywords(ctx, opts.SeedKeywords, 50); rerr == nil {
				keywords = related
				return nil
			}
		}
		return err
	}); err != nil {
		warn("keywords", err)
	}

	// 6. Audit.
	var out *audit.Output
	if err := timed("audit", func() error {
		engine, err := audit.NewEngine(log)
		if err != nil {
			return err
		}
		out = engine.Run(artifact)
		return nil
	}); err != nil {
		return fail("audit", err)
	}
	res.Score = out.Score
	res.Grade = out.Grade
	res.ChecksRun = len(out.Results)
	res.Summary = out.Summary

	// 7. LLM issue refinement (optional).
	if err := timed("refine-issues", func() error {
		return o.refineIssues(ctx, out)
	}); err != nil {
		warn("refine-issues", err)
	}

	// 8. Plan synthesis.
	var items []plan.Item
	_ = timed("plan", func() error {
		items = plan.Synthesize(plan.Input{
			Failed:       out.FailedResults(),
			Templates:    templates,
			Keywords:     keywords,
			SeedKeywords: opts.SeedKeywords,
			Weeks:        opts.PlanWeeks,
		})
		return nil
	})

	// 9. Brief generation (optional).
	var briefs []report.Brief
	_ = timed("briefs", func() error {
		if opts.GenerateBriefs {
			briefs = buildBriefs(ctx, o.LLM, items, domain)
		}
		return nil
	})

	// 10. Render, upload, persist. The upload happens before the repository
	// transaction so a committed run always references existing files.
	issues := deriveIssues(out)
	res.IssuesCount = len(issues)
	if err := timed("persist", func() error {
		if err := o.uploadReports(ctx, res, report.Input{
			Site:       domain,
			Date:       time.Now().UTC(),
			Audit:      out,
			Plan:       items,
			Briefs:     briefs,
			PagesCount: len(artifact.Pages),
			CrawlTime:  artifact.FinishedAt.Sub(artifact.StartedAt),
		}, speed, templates); err != nil {
			return err
		}
		return o.persistRun(site, res, out, issues, time.Since(started))
	}); err != nil {
		return fail("persist", err)
	}

	res.Status = "completed"
	res.Duration = time.Since(started)
	log.WithFields(logrus.Fields{
		"reportId": res.ReportID,
		"score":    res.Score,
		"pages":    res.PagesCrawled,
		"issues":   res.IssuesCount,
		"duration": res.Duration.String(),
	}).Info("pipeline complete")
	return res
}

func (o *Orchestrator) runCrawl(ctx context.Context, baseURL string, cfg *rattler.CrawlConfig, reportID, domain string) (*rattler.CrawlArtifact, error) {
	if o.Crawl != nil {
		return o.Crawl(ctx, baseURL, cfg)
	}
	crawler, err := rattler.NewCrawler(baseURL, cfg, o.Log)
	if err != nil {
		return nil, err
	}
	if o.Sink != nil && cfg.StoreHTML {
		tenant := o.Tenant
		crawler.SetBlobSink(o.Sink, func(pageURL string) string {
			return blob.PageHTMLKey(tenant, domain, reportID, rattler.URLHash(pageURL))
		})
	}
	return crawler.Run(ctx)
}

// runPageSpeed measures the top N pages of each template.
func (o *Orchestrator) runPageSpeed(ctx context.Context, templates map[string][]string, opts Options) ([]*PageSpeedResult, error) {
	if o.PageSpeed == nil || len(templates) == 0 {
		return nil, nil
	}
	topN := opts.PageSpeedTopN
	if topN <= 0 {
		topN = defaultPageSpeedTopN
	}

	var results []*PageSpeedResult
	var firstErr error
	for _, pages := range templates {
		for i, u := range pages {
			if i >= topN {
				break
			}
			r, err := o.PageSpeed.Analyze(ctx, u)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			results = append(results, r)
		}
	}
	if len(results) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// refineIssues asks the LLM for sharper recommendations on the worst
// failures. The catalogue text stays when anything goes wrong.
func (o *Orchestrator) refineIssues(ctx context.Context, out *audit.Output) error {
	if o.LLM == nil {
		return nil
	}
	failed := out.FailedResults()
	if len(failed) == 0 {
		return nil
	}
	if len(failed) > 5 {
		failed = failed[:5]
	}
	for _, r := range failed {
		prompt := fmt.Sprintf(
			"SEO issue: %s (severity %s, %d pages affected). Current advice: %s\nRewrite the advice in at most two sentences, specific and actionable. Reply with the advice only.",
			r.Name, r.Severity, r.AffectedCount, r.Recommendation)
		refined, err := o.LLM.Complete(ctx, "You are a technical SEO consultant.", prompt)
		if err != nil {
			return err
		}
		if refined != "" && len(refined) < 600 {
			r.Recommendation = refined
		}
	}
	return nil
}

// uploadReports renders the four documents plus metadata.json and uploads
// them under the report's key prefix.
func (o *Orchestrator) uploadReports(ctx context.Context, res *RunResult, in report.Input, speed []*PageSpeedResult, templates map[string][]string) error {
	if o.Sink == nil {
		return nil
	}

	docs := []struct {
		name   string
		render func(report.Input) (string, error)
	}{
		{"audit-report.md", o.Reports.Technical},
		{"executive-summary.md", o.Reports.Executive},
		{"seo-plan.md", o.Reports.Action},
		{"page-fixes.md", o.Reports.PageFixes},
	}

	upload := func(name, body string) error {
		key := blob.ReportKey(o.Tenant, in.Site, res.ReportID, name)
		if err := o.Sink.Put(ctx, key, []byte(body), "text/markdown; charset=utf-8", nil); err != nil {
			return err
		}
		if url, err := o.Sink.PresignedGet(ctx, key, presignTTL); err == nil {
			res.FileURLs[name] = url
		} else {
			res.FileURLs[name] = key
		}
		return nil
	}

	for _, doc := range docs {
		body, err := doc.render(in)
		if err != nil {
			return err
		}
		if err := upload(doc.name, body); err != nil {
			return err
		}
	}

	for i, b := range in.Briefs {
		body, err := o.Reports.BriefDoc(in, b)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("briefs/article-%02d-%s.md", i+1, b.Slug())
		if err := upload(name, body); err != nil {
			return err
		}
	}

	files := make([]string, 0, len(res.FileURLs))
	for name := range res.FileURLs {
		files = append(files, name)
	}
	sort.Strings(files)

	meta := map[string]interface{}{
		"reportId":     res.ReportID,
		"files":        files,
		"site":         in.Site,
		"generatedAt":  in.Date,
		"score":        in.Audit.Score,
		"grade":        audit.Grade(in.Audit.Score),
		"pagesCrawled": in.PagesCount,
		"crawlTime":    in.CrawlTime.String(),
		"summary":      in.Audit.Summary,
	}
	if len(speed) > 0 {
		meta["pageSpeed"] = speed
	}
	if len(templates) > 0 {
		meta["templates"] = templates
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	key := blob.ReportKey(o.Tenant, in.Site, res.ReportID, "metadata.json")
	return o.Sink.Put(ctx, key, data, "application/json", nil)
}

// persistRun writes the run, its check records and issues in one
// transaction.
func (o *Orchestrator) persistRun(site *store.Site, res *RunResult, out *audit.Output, issues []store.SeoIssue, duration time.Duration) error {
	if o.Store == nil || site == nil {
		return nil
	}
	run := &store.AuditRun{
		SiteID:       site.ID,
		ReportID:     res.ReportID,
		State:        store.AuditStateCompleted,
		Score:        out.Score,
		Grade:        out.Grade,
		PagesCrawled: res.PagesCrawled,
		ChecksRun:    len(out.Results),
		IssuesCount:  len(issues),
		DurationMs:   duration.Milliseconds(),
	}
	if err := run.SetSummary(out.Summary); err != nil {
		return err
	}

	checks := make([]store.CheckRecord, 0, len(out.Results))
	for _, r := range out.Results {
		rec := store.CheckRecord{
			CheckID:        r.CheckID,
			Category:       r.Category,
			Name:           r.Name,
			Passed:         r.Passed,
			Severity:       string(r.Severity),
			AffectedCount:  r.AffectedCount,
			Recommendation: r.Recommendation,
		}
		if err := rec.SetAffectedURLs(r.AffectedURLs); err != nil {
			return err
		}
		if len(r.Details) > 0 {
			if data, err := json.Marshal(r.Details); err == nil {
				rec.Details = string(data)
			}
		}
		checks = append(checks, rec)
	}

	return o.Store.WriteAuditResults(run, checks, issues)
}

// persistFailure best-effort records a failed run for the site.
func (o *Orchestrator) persistFailure(rawURL string, res *RunResult) {
	if o.Store == nil {
		return
	}
	baseURL, err := rattler.NormalizeURL(rawURL)
	if err != nil {
		return
	}
	site, err := o.Store.FindOrCreateSite(o.Tenant, rattler.URLHost(baseURL), baseURL)
	if err != nil {
		return
	}
	run := &store.AuditRun{
		SiteID:     site.ID,
		ReportID:   res.ReportID,
		State:      store.AuditStateFailed,
		DurationMs: res.Duration.Milliseconds(),
		Error:      res.Error,
	}
	_ = o.Store.WriteAuditResults(run, nil, nil)
}

// deriveIssues flattens failed checks into one row per (check, page),
// deduplicated.
func deriveIssues(out *audit.Output) []store.SeoIssue {
	seen := make(map[string]bool)
	var issues []store.SeoIssue
	for _, r := range out.Results {
		if r.Passed {
			continue
		}
		urls := r.AffectedURLs
		if len(urls) == 0 {
			urls = []string{""}
		}
		for _, u := range urls {
			key := fmt.Sprintf("%d|%s", r.CheckID, u)
			if seen[key] {
				continue
			}
			seen[key] = true
			issues = append(issues, store.SeoIssue{
				CheckID:        r.CheckID,
				PageURL:        u,
				Severity:       string(r.Severity),
				Title:          r.Name,
				Recommendation: r.Recommendation,
			})
		}
	}
	return issues
}
