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

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agentberlin/rattler/plan"
	"github.com/agentberlin/rattler/report"
)

// maxBriefs bounds the brief document size.
const maxBriefs = 10

// buildBriefs produces a content brief per planned content item. The
// deterministic skeleton is always produced; the LLM, when available, only
// rewrites the meta description.
func buildBriefs(ctx context.Context, llm LLM, items []plan.Item, site string) []report.Brief {
	var briefs []report.Brief
	for _, it := range items {
		if it.Phase != plan.PhaseContent || it.Keyword == "" {
			continue
		}
		if len(briefs) >= maxBriefs {
			break
		}
		briefs = append(briefs, newBrief(ctx, llm, it, site))
	}
	return briefs
}

func newBrief(ctx context.Context, llm LLM, it plan.Item, site string) report.Brief {
	kw := it.Keyword
	title := titleCase(kw)

	b := report.Brief{
		Keyword:     kw,
		ContentType: it.ContentType,
		TitleSuggestions: []string{
			fmt.Sprintf("%s: The Complete Guide", title),
			fmt.Sprintf("%s — What You Need to Know", title),
			fmt.Sprintf("How to Choose %s in %d", title, time.Now().Year()),
		},
		MetaDescription: fmt.Sprintf("Everything about %s: practical guidance, comparisons and recommendations from %s.", kw, site),
		Outline: []string{
			fmt.Sprintf("What is %s", kw),
			fmt.Sprintf("Why %s matters", kw),
			"Key considerations",
			"Comparison of options",
			"Recommendations",
			"FAQ",
		},
		KeywordsToUse: []string{kw, "best " + kw, kw + " guide"},
	}

	if llm == nil {
		return b
	}
	prompt := fmt.Sprintf("Write one meta description (max 155 characters) for a %s page about %q on %s. Reply with the description only.", it.ContentType, kw, site)
	if desc, err := llm.Complete(ctx, "You write concise SEO meta descriptions.", prompt); err == nil {
		desc = strings.TrimSpace(desc)
		if desc != "" && len(desc) <= 200 {
			b.MetaDescription = desc
		}
	}
	return b
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] -= 'a' - 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
