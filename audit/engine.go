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
	"sort"
	"time"

	"github.com/agentberlin/rattler"
	"github.com/sirupsen/logrus"
)

// Engine holds the ordered check catalogue. Construct it once and reuse it;
// checks are stateless.
type Engine struct {
	checks []check
	log    *logrus.Logger
}

// NewEngine assembles the full catalogue, sorted by id.
func NewEngine(log *logrus.Logger) (*Engine, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	var checks []check
	checks = append(checks, crawlabilityChecks()...)
	checks = append(checks, onPageChecks()...)
	checks = append(checks, performanceChecks()...)
	checks = append(checks, urlStructureChecks()...)
	checks = append(checks, linkingChecks()...)
	checks = append(checks, contentChecks()...)
	checks = append(checks, structuredDataChecks()...)
	checks = append(checks, securityChecks()...)
	checks = append(checks, mobileChecks()...)
	checks = append(checks, serverChecks()...)

	sort.Slice(checks, func(i, j int) bool { return checks[i].id < checks[j].id })
	seen := make(map[int]bool, len(checks))
	for _, c := range checks {
		if c.id < 1 || c.id > 100 || seen[c.id] {
			return nil, fmt.Errorf("audit: invalid or duplicate check id %d (%s)", c.id, c.name)
		}
		seen[c.id] = true
	}
	if len(checks) != 100 {
		return nil, fmt.Errorf("audit: catalogue has %d checks, want 100", len(checks))
	}
	return &Engine{checks: checks, log: log}, nil
}

// Run evaluates every check against the artifact. A panicking check is
// recorded as passed and logged; one bad rule never sinks the audit.
func (e *Engine) Run(art *rattler.CrawlArtifact) *Output {
	results := make([]*CheckResult, 0, len(e.checks))
	for i := range e.checks {
		results = append(results, e.runOne(&e.checks[i], art))
	}
	out := &Output{
		Results:     results,
		Score:       Score(results),
		Summary:     Summarize(results),
		GeneratedAt: time.Now().UTC(),
	}
	out.Grade = Grade(out.Score)
	return out
}

func (e *Engine) runOne(c *check, art *rattler.CrawlArtifact) (result *CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(logrus.Fields{
				"check": c.id,
				"name":  c.name,
				"panic": r,
			}).Warn("check panicked, recording as passed")
			result = &CheckResult{
				CheckID:        c.id,
				Category:       c.category,
				Name:           c.name,
				Passed:         true,
				Severity:       c.severity,
				Recommendation: c.recommendation,
			}
		}
	}()

	f := c.eval(art)
	result = &CheckResult{
		CheckID:        c.id,
		Category:       c.category,
		Name:           c.name,
		Passed:         !f.failed,
		Severity:       c.severity,
		AffectedCount:  len(f.affected),
		Recommendation: c.recommendation,
	}
	if len(f.affected) > 0 {
		urls := f.affected
		if len(urls) > maxAffectedURLs {
			urls = urls[:maxAffectedURLs]
		}
		result.AffectedURLs = append([]string(nil), urls...)
	}
	if len(f.details) > 0 {
		details := f.details
		if len(details) > maxDetailEntries {
			details = truncateDetails(details)
		}
		result.Details = details
	}
	return result
}

// truncateDetails keeps the first maxDetailEntries keys in sorted order so
// truncation is deterministic.
func truncateDetails(details map[string]interface{}) map[string]interface{} {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]interface{}, maxDetailEntries)
	for _, k := range keys[:maxDetailEntries] {
		out[k] = details[k]
	}
	return out
}
