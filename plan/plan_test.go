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

package plan

import (
	"fmt"
	"testing"

	"github.com/agentberlin/rattler/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedCheck(id int, sev audit.Severity, name string, urls ...string) *audit.CheckResult {
	return &audit.CheckResult{
		CheckID:        id,
		Name:           name,
		Severity:       sev,
		AffectedCount:  len(urls),
		AffectedURLs:   urls,
		Recommendation: "Fix " + name + ".",
	}
}

func itemsByPhase(items []Item, phase Phase) []Item {
	var out []Item
	for _, it := range items {
		if it.Phase == phase {
			out = append(out, it)
		}
	}
	return out
}

func TestSynthesizeQuickWinsCapAndOrder(t *testing.T) {
	var failed []*audit.CheckResult
	for i := 0; i < 8; i++ {
		sev := audit.SeverityLow
		if i%2 == 0 {
			sev = audit.SeverityMedium
		}
		urls := make([]string, i+1)
		for j := range urls {
			urls[j] = fmt.Sprintf("https://example.com/p%d-%d", i, j)
		}
		failed = append(failed, failedCheck(i+1, sev, fmt.Sprintf("issue %d", i+1), urls...))
	}

	wins := itemsByPhase(Synthesize(Input{Failed: failed}), PhaseQuickWins)
	require.Len(t, wins, 5)

	// Medium outranks low, then larger affected counts first.
	assert.Equal(t, "medium", wins[0].Severity)
	assert.Equal(t, 7, wins[0].CheckID, "medium with most affected pages leads")
	for _, it := range wins {
		assert.GreaterOrEqual(t, it.Week, 1)
		assert.LessOrEqual(t, it.Week, 2)
	}
}

func TestSynthesizeQuickWinsExcludeSevereFailures(t *testing.T) {
	failed := []*audit.CheckResult{
		failedCheck(11, audit.SeverityCritical, "missing titles", "https://example.com/"),
		failedCheck(13, audit.SeverityLow, "long titles", "https://example.com/a"),
	}
	items := Synthesize(Input{Failed: failed})

	wins := itemsByPhase(items, PhaseQuickWins)
	require.Len(t, wins, 1)
	assert.Equal(t, 13, wins[0].CheckID)

	tech := itemsByPhase(items, PhaseTechnical)
	require.Len(t, tech, 1)
	assert.Equal(t, 11, tech[0].CheckID)
}

func TestSynthesizeTechnicalTemplateScoping(t *testing.T) {
	failed := []*audit.CheckResult{
		failedCheck(17, audit.SeverityHigh, "missing H1",
			"https://example.com/blog/a", "https://example.com/blog/b", "https://example.com/pricing"),
		failedCheck(22, audit.SeverityHigh, "slow pages",
			"https://example.com/blog/a"),
		failedCheck(41, audit.SeverityCritical, "broken links",
			"https://example.com/blog/b"),
	}
	templates := map[string][]string{
		"blog": {"https://example.com/blog/a", "https://example.com/blog/b"},
	}

	tech := itemsByPhase(Synthesize(Input{Failed: failed, Templates: templates}), PhaseTechnical)

	var scoped []Item
	for _, it := range tech {
		if it.TemplateID != "" {
			scoped = append(scoped, it)
		}
	}
	require.Len(t, scoped, 2, "at most two items per template")
	for _, it := range scoped {
		assert.Equal(t, "blog", it.TemplateID)
		for _, u := range it.PageURLs {
			assert.Contains(t, templates["blog"], u, "scoped item lists only template pages")
		}
	}
}

func TestSynthesizeContentRanksKeywords(t *testing.T) {
	in := Input{
		Keywords: []Keyword{
			{Text: "cheap widgets", Volume: 1000, Difficulty: 50, Intent: "transactional"},
			{Text: "widget reviews", Volume: 900, Difficulty: 10, Intent: "commercial"},
			{Text: "what is a widget", Volume: 300, Difficulty: 5, Intent: "informational"},
			{Text: "acme widgets login", Volume: 50, Difficulty: 0, Intent: "navigational"},
		},
		Weeks: 12,
	}

	content := itemsByPhase(Synthesize(in), PhaseContent)
	require.Len(t, content, 4)

	// volume/difficulty: 90, 60, 50, 20.
	assert.Equal(t, "widget reviews", content[0].Keyword)
	assert.Equal(t, "what is a widget", content[1].Keyword)
	assert.Equal(t, "acme widgets login", content[2].Keyword)
	assert.Equal(t, "cheap widgets", content[3].Keyword)

	assert.Equal(t, "comparison", content[0].ContentType)
	assert.Equal(t, "blog", content[1].ContentType)
	assert.Equal(t, "service", content[2].ContentType)
	assert.Equal(t, "landing", content[3].ContentType)

	for i, it := range content {
		assert.Equal(t, 4+i, it.Week, "one content item per week from week 4")
	}
}

func TestSynthesizeContentFallsBackToSeeds(t *testing.T) {
	in := Input{SeedKeywords: []string{"widgets", "gadgets"}}
	content := itemsByPhase(Synthesize(in), PhaseContent)
	require.Len(t, content, 2)
	assert.Equal(t, "blog", content[0].ContentType, "seeds default to informational")
}

func TestSynthesizeContentHonorsHorizon(t *testing.T) {
	var kws []Keyword
	for i := 0; i < 20; i++ {
		kws = append(kws, Keyword{Text: fmt.Sprintf("kw %02d", i), Volume: 100 - i, Difficulty: 1})
	}

	content := itemsByPhase(Synthesize(Input{Keywords: kws, Weeks: 6}), PhaseContent)
	assert.Len(t, content, 3, "weeks 4..6 leave three slots")

	none := itemsByPhase(Synthesize(Input{Keywords: kws, Weeks: 2}), PhaseContent)
	assert.Empty(t, none, "horizon shorter than the content phase start")
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	in := Input{
		Failed: []*audit.CheckResult{
			failedCheck(15, audit.SeverityHigh, "a", "https://example.com/x"),
			failedCheck(16, audit.SeverityLow, "b", "https://example.com/y"),
		},
		Templates: map[string][]string{
			"blog":    {"https://example.com/x"},
			"landing": {"https://example.com/y"},
		},
		Keywords: []Keyword{{Text: "k1", Volume: 10, Difficulty: 2}, {Text: "k2", Volume: 10, Difficulty: 2}},
	}
	assert.Equal(t, Synthesize(in), Synthesize(in))
}

func TestCalendar(t *testing.T) {
	items := []Item{
		{Phase: PhaseContent, Week: 6, Keyword: "later"},
		{Phase: PhaseTechnical, Week: 2},
		{Phase: PhaseContent, Week: 4, Keyword: "sooner"},
	}
	cal := Calendar(items)
	require.Len(t, cal, 2)
	assert.Equal(t, "sooner", cal[0].Keyword)
	assert.Equal(t, "later", cal[1].Keyword)
}

func TestSampleURLsTruncates(t *testing.T) {
	urls := make([]string, 9)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.com/%d", i)
	}
	items := Synthesize(Input{Failed: []*audit.CheckResult{
		failedCheck(20, audit.SeverityMedium, "alt text", urls...),
	}})
	require.NotEmpty(t, items)
	assert.Len(t, items[0].PageURLs, 5)
}
