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
	"sort"
	"strings"

	"github.com/agentberlin/rattler"
)

// ClassifyTemplates groups pages by the structural shape of their URL path:
// numeric segments generalize to ":id", long slug-like segments to ":slug".
// The homepage forms its own group.
func ClassifyTemplates(pages []*rattler.PageRecord) map[string][]string {
	groups := make(map[string][]string)
	for _, p := range pages {
		if !p.IsSuccess() || !p.IsHTML() {
			continue
		}
		sig := templateSignature(p.URL)
		groups[sig] = append(groups[sig], p.URL)
	}
	return groups
}

func templateSignature(u string) string {
	path := strings.Trim(rattler.URLPath(u), "/")
	if path == "" {
		return "home"
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		switch {
		case isNumeric(seg):
			segments[i] = ":id"
		case looksLikeSlug(seg):
			segments[i] = ":slug"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// looksLikeSlug matches hyphenated multi-word segments, the usual shape of
// article and product slugs.
func looksLikeSlug(s string) bool {
	return strings.Count(s, "-") >= 2 && len(s) > 15
}

// refineTemplateNames asks the LLM for human-readable template names. Any
// failure keeps the structural signatures.
func refineTemplateNames(ctx context.Context, llm LLM, groups map[string][]string) map[string][]string {
	if llm == nil || len(groups) == 0 {
		return groups
	}

	sigs := make([]string, 0, len(groups))
	for sig := range groups {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	var sb strings.Builder
	sb.WriteString("Name each URL template in one or two lowercase words (e.g. \"blog post\", \"product page\"). Reply with one line per template, formatted as `signature => name`.\n\n")
	for _, sig := range sigs {
		fmt.Fprintf(&sb, "%s (example: %s)\n", sig, groups[sig][0])
	}

	reply, err := llm.Complete(ctx, "You classify website URL templates for an SEO report.", sb.String())
	if err != nil {
		return groups
	}

	names := make(map[string]string)
	for _, line := range strings.Split(reply, "\n") {
		parts := strings.SplitN(line, "=>", 2)
		if len(parts) != 2 {
			continue
		}
		sig := strings.TrimSpace(strings.Trim(parts[0], "`"))
		name := strings.TrimSpace(strings.Trim(parts[1], "`"))
		if sig != "" && name != "" {
			names[sig] = name
		}
	}

	renamed := make(map[string][]string, len(groups))
	for sig, pages := range groups {
		name, ok := names[sig]
		if !ok {
			name = sig
		}
		// Two signatures may map to one name; merge their pages.
		renamed[name] = append(renamed[name], pages...)
	}
	return renamed
}
