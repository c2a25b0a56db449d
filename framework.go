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

package rattler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Framework identifies the web framework or platform serving a page.
type Framework string

const (
	FrameworkOther     Framework = "other"
	FrameworkNextJS    Framework = "nextjs"
	FrameworkNuxtJS    Framework = "nuxtjs"
	FrameworkGatsby    Framework = "gatsby"
	FrameworkReact     Framework = "react"
	FrameworkVue       Framework = "vue"
	FrameworkAngular   Framework = "angular"
	FrameworkSvelte    Framework = "svelte"
	FrameworkEmber     Framework = "ember"
	FrameworkWordPress Framework = "wordpress"
	FrameworkShopify   Framework = "shopify"
	FrameworkWebflow   Framework = "webflow"
	FrameworkWix       Framework = "wix"
	FrameworkDrupal    Framework = "drupal"
	FrameworkJoomla    Framework = "joomla"
)

// frameworkSignal is one weighted marker for a framework.
type frameworkSignal struct {
	marker string
	weight int
}

// Detection requires a score of at least 3 so that a single weak marker
// (e.g. the word "react" in prose) does not misclassify a page.
const frameworkScoreThreshold = 3

var frameworkSignals = []struct {
	framework Framework
	signals   []frameworkSignal
}{
	{FrameworkNextJS, []frameworkSignal{
		{"/_next/static/", 3},
		{`<div id="__next"`, 2},
		{`<div id='__next'`, 2},
		{"__next_data__", 2},
		{"_rsc=", 2},
	}},
	{FrameworkNuxtJS, []frameworkSignal{
		{"/_nuxt/", 3},
		{`<div id="__nuxt"`, 2},
		{`<div id='__nuxt'`, 2},
		{"window.__nuxt__", 2},
	}},
	{FrameworkGatsby, []frameworkSignal{
		{"/page-data/", 2},
		{"___gatsby", 3},
		{"gatsby-", 1},
	}},
	{FrameworkWordPress, []frameworkSignal{
		{"/wp-content/", 3},
		{"/wp-includes/", 2},
		{`name="generator" content="wordpress`, 2},
	}},
	{FrameworkShopify, []frameworkSignal{
		{"cdn.shopify.com", 3},
		{"shopify.theme", 2},
	}},
	{FrameworkWebflow, []frameworkSignal{
		{"webflow.js", 3},
		{`class="w-`, 2},
	}},
	{FrameworkWix, []frameworkSignal{
		{"static.wixstatic.com", 3},
		{"wix-code", 2},
		{"x-wix-", 2},
	}},
	{FrameworkDrupal, []frameworkSignal{
		{"/sites/default/files/", 3},
		{"drupal.settings", 2},
		{`name="generator" content="drupal`, 3},
	}},
	{FrameworkJoomla, []frameworkSignal{
		{"/media/jui/", 3},
		{`name="generator" content="joomla`, 3},
	}},
	{FrameworkAngular, []frameworkSignal{
		{"ng-version=", 3},
		{"<app-root", 3},
		{"ng-app", 2},
	}},
	{FrameworkSvelte, []frameworkSignal{
		{"svelte-", 2},
		{"__sveltekit", 3},
		{"data-sveltekit", 3},
	}},
	{FrameworkEmber, []frameworkSignal{
		{"ember-application", 3},
		{"/assets/vendor.js", 1},
		{"emberjs", 2},
	}},
	{FrameworkVue, []frameworkSignal{
		{`<div id="app" data-v-`, 3},
		{"data-v-app", 3},
		{"vue.runtime", 2},
		{"__vue__", 2},
	}},
	{FrameworkReact, []frameworkSignal{
		{"data-reactroot", 3},
		{"react-dom", 2},
		{`<div id="root"></div>`, 2},
		{"__react", 1},
	}},
}

// DetectFramework inspects static HTML plus any URLs observed on the
// network for well-known framework markers. Order matters: meta-frameworks
// (Next, Nuxt, Gatsby) and platforms are checked before their underlying
// libraries so a Next.js site is not reported as plain React.
func DetectFramework(html string, networkURLs []string) Framework {
	haystack := strings.ToLower(html)
	if len(networkURLs) > 0 {
		haystack += " " + strings.ToLower(strings.Join(networkURLs, " "))
	}
	for _, candidate := range frameworkSignals {
		score := 0
		for _, sig := range candidate.signals {
			if strings.Contains(haystack, sig.marker) {
				score += sig.weight
			}
		}
		if score >= frameworkScoreThreshold {
			return candidate.framework
		}
	}
	return FrameworkOther
}

// jsFrameworks are the frameworks whose pages routinely render their content
// client-side; detecting one makes a page a re-render candidate.
var jsFrameworks = map[Framework]bool{
	FrameworkNextJS:  true,
	FrameworkNuxtJS:  true,
	FrameworkGatsby:  true,
	FrameworkReact:   true,
	FrameworkVue:     true,
	FrameworkAngular: true,
	FrameworkSvelte:  true,
	FrameworkEmber:   true,
}

// IsJSFramework reports whether a detected framework implies client-side
// rendering.
func IsJSFramework(fw Framework) bool { return jsFrameworks[fw] }

// NeedsJS decides whether a statically fetched page should be re-rendered
// in the browser. It returns the triggering reason for the crawl log.
func NeedsJS(rec *PageRecord, staticHTML []byte, minWordCount int) (bool, string) {
	if !rec.IsHTML() || !rec.IsSuccess() {
		return false, ""
	}

	if rec.WordCount < minWordCount {
		return true, fmt.Sprintf("word count %d below threshold %d", rec.WordCount, minWordCount)
	}

	if fw := DetectFramework(string(staticHTML), nil); IsJSFramework(fw) {
		return true, fmt.Sprintf("%s markers in static HTML", fw)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(staticHTML))
	if err != nil {
		return false, ""
	}

	bodyText := normalizeWhitespace(doc.Find("body").Text())
	if len(bodyText) < 300 && rec.ScriptsCount > 5 {
		return true, "short body with many external scripts"
	}

	for _, sel := range []string{"#root", "#app"} {
		mount := doc.Find(sel).First()
		if mount.Length() > 0 && len(normalizeWhitespace(mount.Text())) <= 100 {
			return true, "near-empty " + sel + " mount point"
		}
	}

	return false, ""
}
