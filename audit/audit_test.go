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
	"testing"
	"time"

	"github.com/agentberlin/rattler"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

// healthyPage builds a record that passes every per-page check.
func healthyPage(url, title string, depth int) *rattler.PageRecord {
	return &rattler.PageRecord{
		URL:             url,
		FinalURL:        url,
		StatusCode:      200,
		ContentType:     "text/html; charset=utf-8",
		LoadTime:        400 * time.Millisecond,
		Depth:           depth,
		Title:           title,
		MetaDescription: "A carefully written summary of this page that lands inside the length window.",
		CanonicalURL:    url,
		H1:              []string{"Heading for " + title},
		H2:              []string{"A supporting subheading"},
		WordCount:       450,
		TextContentHash: rattler.ContentHash(url + title),
		HTMLLang:        "en",
		ViewportContent: "width=device-width, initial-scale=1",
		HTMLSize:        8 << 10,
		OpenGraph: map[string]string{
			"og:title":       title,
			"og:description": "Share summary",
			"og:image":       url + "/cover.png",
		},
		TwitterCards: map[string]string{"twitter:card": "summary_large_image"},
		ResponseHeaders: map[string]string{
			"Content-Type":              "text/html; charset=utf-8",
			"Content-Encoding":          "gzip",
			"Cache-Control":             "max-age=300",
			"Strict-Transport-Security": "max-age=63072000",
			"X-Content-Type-Options":    "nosniff",
			"X-Frame-Options":           "DENY",
			"Content-Security-Policy":   "default-src 'self'",
			"Referrer-Policy":           "no-referrer",
			"Server":                    "nginx",
		},
	}
}

func link(url, anchor string) rattler.Link {
	return rattler.Link{URL: url, AnchorText: anchor}
}

// healthyArtifact is a three-page site that passes all one hundred checks.
func healthyArtifact() *rattler.CrawlArtifact {
	const base = "https://example.com/"
	home := healthyPage(base, "Example Site | Products and Guides", 0)
	features := healthyPage(base+"features", "Feature Overview | Example Site", 1)
	pricing := healthyPage(base+"pricing-guide", "Pricing Guide 2026 | Example Site", 1)

	home.InternalLinks = []rattler.Link{
		link(features.URL, "Feature overview"),
		link(pricing.URL, "Pricing guide"),
	}
	features.InternalLinks = []rattler.Link{
		link(base, "Example Site home"),
		link(pricing.URL, "Pricing guide"),
	}
	pricing.InternalLinks = []rattler.Link{
		link(base, "Example Site home"),
		link(features.URL, "Feature overview"),
	}

	home.StructuredData = []map[string]interface{}{
		{"@type": "Organization", "name": "Example"},
		{"@type": "WebSite", "url": base},
	}

	return &rattler.CrawlArtifact{
		BaseURL:        base,
		Pages:          []*rattler.PageRecord{home, features, pricing},
		Robots:         &rattler.RobotsPolicy{Present: true},
		SitemapPresent: true,
		SitemapURLs:    []string{base, features.URL, pricing.URL},
		StartedAt:      time.Now().Add(-time.Minute),
		FinishedAt:     time.Now(),
	}
}

// barePage is a reachable but completely unoptimized homepage.
func bareArtifact() *rattler.CrawlArtifact {
	const base = "https://bare.example.com/"
	return &rattler.CrawlArtifact{
		BaseURL: base,
		Pages: []*rattler.PageRecord{{
			URL:         base,
			FinalURL:    base,
			StatusCode:  200,
			ContentType: "text/html",
			WordCount:   20,
			HTMLSize:    500,
		}},
		Robots: &rattler.RobotsPolicy{},
	}
}

func runEngine(t *testing.T, art *rattler.CrawlArtifact) *Output {
	t.Helper()
	engine, err := NewEngine(testLogger())
	require.NoError(t, err)
	return engine.Run(art)
}

func TestEngineCatalogue(t *testing.T) {
	engine, err := NewEngine(testLogger())
	require.NoError(t, err)

	out := engine.Run(healthyArtifact())
	require.Len(t, out.Results, 100)

	for i, r := range out.Results {
		assert.Equal(t, i+1, r.CheckID, "results must be ordered by id with no gaps")
		assert.NotEmpty(t, r.Category, "check %d has no category", r.CheckID)
		assert.NotEmpty(t, r.Name, "check %d has no name", r.CheckID)
		assert.NotEmpty(t, r.Recommendation, "check %d has no recommendation", r.CheckID)
		assert.Contains(t, severityWeights, r.Severity, "check %d severity %q unknown", r.CheckID, r.Severity)
	}
}

func TestEngineHealthySiteScoresPerfect(t *testing.T) {
	out := runEngine(t, healthyArtifact())

	for _, r := range out.Results {
		assert.True(t, r.Passed, "check %d (%s) failed: affected=%v details=%v",
			r.CheckID, r.Name, r.AffectedURLs, r.Details)
	}
	assert.Equal(t, 100, out.Score)
	assert.Equal(t, "A+", out.Grade)
	assert.Equal(t, 100, out.Summary.Passed)
	assert.Equal(t, 0, out.Summary.Failed)
}

func TestEngineBareSite(t *testing.T) {
	out := runEngine(t, bareArtifact())

	wantFailed := []int{
		1,  // no robots.txt
		3,  // no sitemap
		10, // no canonical
		11, // no title
		15, // no meta description
		17, // no H1
		27, // no compression
		28, // no caching headers
		50, // homepage has no links
		51, // thin content
		54, // low average word count
		61, // no structured data on the homepage
		64, 65, 66, // no social meta
		73, 74, 75, 76, 78, 79, // missing headers and lang
		81, // no viewport
		90, // too little mobile text
		94, // no charset
	}

	var gotFailed []int
	for _, r := range out.FailedResults() {
		gotFailed = append(gotFailed, r.CheckID)
		assert.Equal(t, 1, r.AffectedCount, "check %d affected count", r.CheckID)
	}
	assert.Equal(t, wantFailed, gotFailed)

	// 2 critical (20) + 4 high (20) + 8 medium (16) + 10 low (10) = 66.
	assert.Equal(t, 34, out.Score)
	assert.Equal(t, "F", out.Grade)
	assert.Equal(t, len(wantFailed), out.Summary.Failed)
}

func TestEngineIsDeterministic(t *testing.T) {
	engine, err := NewEngine(testLogger())
	require.NoError(t, err)

	art := bareArtifact()
	first := engine.Run(art)
	second := engine.Run(art)

	require.Equal(t, first.Score, second.Score)
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Passed, second.Results[i].Passed)
		assert.Equal(t, first.Results[i].AffectedURLs, second.Results[i].AffectedURLs)
		assert.Equal(t, first.Results[i].Details, second.Results[i].Details)
	}
}

func TestEngineSurvivesNilArtifact(t *testing.T) {
	// Every check that dereferences the artifact panics on nil input; the
	// engine must recover each one and record it as passed.
	out := runEngine(t, nil)
	require.Len(t, out.Results, 100)
	for _, r := range out.Results {
		assert.True(t, r.Passed, "check %d not recovered", r.CheckID)
	}
	assert.Equal(t, 100, out.Score)
}

func TestEngineTruncatesAffectedURLs(t *testing.T) {
	const base = "https://example.com/"
	art := &rattler.CrawlArtifact{BaseURL: base, Robots: &rattler.RobotsPolicy{Present: true}, SitemapPresent: true}
	for i := 0; i < 60; i++ {
		p := healthyPage(fmt.Sprintf("%sp%02d", base, i), fmt.Sprintf("Distinct Title Number %02d padded out", i), 1)
		p.WordCount = 40 // thin on every page
		p.TextContentHash = rattler.ContentHash(p.URL)
		art.Pages = append(art.Pages, p)
	}

	out := runEngine(t, art)
	var thin *CheckResult
	for _, r := range out.Results {
		if r.CheckID == 51 {
			thin = r
		}
	}
	require.NotNil(t, thin)
	assert.False(t, thin.Passed)
	assert.Equal(t, 60, thin.AffectedCount, "full count preserved")
	assert.Len(t, thin.AffectedURLs, 50, "sample capped")
}
