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

// severityWeights drive the penalty per failed check. Informational checks
// carry no weight; an unknown severity is scored as low.
var severityWeights = map[Severity]int{
	SeverityCritical: 10,
	SeverityHigh:     5,
	SeverityMedium:   2,
	SeverityLow:      1,
	SeverityInfo:     0,
}

// maxPenaltyPages caps how many affected pages a single check can charge.
const maxPenaltyPages = 10

func weightOf(sev Severity) int {
	w, ok := severityWeights[sev]
	if !ok {
		return severityWeights[SeverityLow]
	}
	return w
}

// Score computes the 0..100 site score: each failed check subtracts its
// severity weight times the affected page count, the count capped at 10.
func Score(results []*CheckResult) int {
	penalty := 0
	for _, r := range results {
		if r.Passed {
			continue
		}
		count := r.AffectedCount
		if count > maxPenaltyPages {
			count = maxPenaltyPages
		}
		penalty += weightOf(r.Severity) * count
	}
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	return score
}

// Grade maps a score to the letter grade used in reports.
func Grade(score int) string {
	switch {
	case score >= 97:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "B+"
	case score >= 80:
		return "B"
	case score >= 75:
		return "C+"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// Summarize builds the pass/fail histograms and per-category scores.
func Summarize(results []*CheckResult) Summary {
	s := Summary{
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]CategoryTally),
	}
	byCategory := make(map[string][]*CheckResult)
	for _, r := range results {
		byCategory[r.Category] = append(byCategory[r.Category], r)
		if r.Passed {
			s.Passed++
			continue
		}
		s.Failed++
		sev := r.Severity
		if _, ok := severityWeights[sev]; !ok {
			sev = SeverityLow
		}
		s.BySeverity[string(sev)]++
	}
	for cat, rs := range byCategory {
		tally := CategoryTally{Score: Score(rs)}
		for _, r := range rs {
			if r.Passed {
				tally.Passed++
			} else {
				tally.Failed++
			}
		}
		s.ByCategory[cat] = tally
	}
	return s
}
