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

package report

const executiveTemplate = `# SEO Audit: {{.Site}}

**Date:** {{.Date.Format "2006-01-02"}}
**Pages analyzed:** {{.PagesCount}}

## Score

**{{.Audit.Score}}/100 ({{.Grade}})**

| Severity | Failed checks |
|----------|---------------|
| Critical | {{index .Audit.Summary.BySeverity "critical"}} |
| High | {{index .Audit.Summary.BySeverity "high"}} |
| Medium | {{index .Audit.Summary.BySeverity "medium"}} |
| Low | {{index .Audit.Summary.BySeverity "low"}} |

## Top issues
{{range .TopIssues}}
- **{{.Name}}** ({{.Severity}}, {{.AffectedCount}} pages): {{.Recommendation}}
{{- end}}

## Expected impact

Fixing the issues above is estimated to lift organic traffic by up to {{pct .TrafficImpact}}.
`

const technicalTemplate = `# Technical SEO Audit: {{.Site}}

**Date:** {{.Date.Format "2006-01-02"}}
**Score:** {{.Audit.Score}}/100 ({{.Grade}})
**Checks:** {{.Audit.Summary.Passed}} passed, {{.Audit.Summary.Failed}} failed

## Category overview

| Category | Passed | Failed | Score |
|----------|--------|--------|-------|
{{- range .Categories}}
| {{.Name}} | {{.Passed}} | {{.Failed}} | {{.Score}} |
{{- end}}

## All checks

| # | Check | Status | Severity | Recommendation |
|---|-------|--------|----------|----------------|
{{- range .Audit.Results}}
| {{.CheckID}} | {{.Name}} | {{status .Passed}} | {{.Severity}} | {{if not .Passed}}{{.Recommendation}}{{end}} |
{{- end}}

## Failed checks in detail
{{range .FailedResults}}
### {{.CheckID}}. {{.Name}} ({{.Severity}})

{{.Recommendation}}

Affected pages ({{.AffectedCount}}):
{{range .AffectedURLs}}- {{.}}
{{end}}
{{- end}}
`

const actionTemplate = `# SEO Action Plan: {{.Site}}

**Date:** {{.Date.Format "2006-01-02"}}
**Current score:** {{.Audit.Score}}/100 ({{.Grade}})

## Plan overview

{{len .Plan}} tasks across {{len .Phases}} phases.
{{range .Phases}}
## {{.Name}}

| Week | Task | Severity |
|------|------|----------|
{{- range .Items}}
| {{.Week}} | {{.Title}} | {{.Severity}} |
{{- end}}
{{range .Items}}
- **{{.Title}}**: {{.Description}}
{{- end}}
{{end}}
## Content calendar

| Week | Content | Type | Keyword |
|------|---------|------|---------|
{{- range .Calendar}}
| {{.Week}} | {{.Title}} | {{.ContentType}} | {{.Keyword}} |
{{- end}}
`

const pageFixesTemplate = `# Page Fixes: {{.Site}}

**Date:** {{.Date.Format "2006-01-02"}}
**Pages needing work:** {{len .PageGroups}}
{{range .PageGroups}}
## {{.URL}}
{{range .Issues}}
- **{{.Name}}** ({{.Severity}}): {{.Recommendation}}
{{- end}}
{{end}}`

const briefTemplate = `# Content Briefs: {{.Site}}
{{range .Briefs}}
## {{.Keyword}} ({{.ContentType}})

**Suggested titles:**
{{range .TitleSuggestions}}- {{.}}
{{end}}
**Meta description:** {{.MetaDescription}}

**Outline:**
{{range .Outline}}1. {{.}}
{{end}}
**Keywords to include:** {{range $i, $k := .KeywordsToUse}}{{if $i}}, {{end}}{{$k}}{{end}}
{{end}}
`

const briefDocTemplate = `# Content Brief: {{.Brief.Keyword}}

**Site:** {{.Site}}
**Date:** {{.Date.Format "2006-01-02"}}
**Content type:** {{.Brief.ContentType}}

## Title suggestions
{{range .Brief.TitleSuggestions}}
- {{.}}
{{- end}}

## Meta description

{{.Brief.MetaDescription}}

## Outline
{{range .Brief.Outline}}
1. {{.}}
{{- end}}

## Keywords to include
{{range .Brief.KeywordsToUse}}
- {{.}}
{{- end}}
`
