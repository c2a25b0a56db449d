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
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

const robotsFixture = `User-agent: *
Disallow: /private/
Crawl-delay: 2

User-agent: rattler
Disallow: /internal/
Crawl-delay: 5

Sitemap: https://example.com/sitemap.xml
Sitemap: /sitemap-news.xml
`

func loadRobotsFixture(t *testing.T, body string, status int) *RobotsPolicy {
	t.Helper()
	mock := NewMockTransport()
	headers := make(http.Header)
	headers.Set("Content-Type", "text/plain")
	mock.Register("https://example.com/robots.txt", &MockResponse{
		StatusCode: status,
		Body:       body,
		Headers:    headers,
	})

	f := testFetcher()
	f.Client.Transport = mock
	return LoadRobots(context.Background(), f, "https://example.com/")
}

func TestRobotsAllowed(t *testing.T) {
	policy := loadRobotsFixture(t, robotsFixture, 200)
	if !policy.Present {
		t.Fatal("policy not marked present")
	}

	tests := []struct {
		url   string
		agent string
		want  bool
	}{
		{"https://example.com/", "Googlebot", true},
		{"https://example.com/private/page", "Googlebot", false},
		{"https://example.com/public", "Googlebot", true},
		{"https://example.com/internal/docs", "rattler", false},
		{"https://example.com/private/page", "rattler", true}, // rattler group overrides *
	}
	for _, tt := range tests {
		if got := policy.Allowed(tt.url, tt.agent); got != tt.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tt.url, tt.agent, got, tt.want)
		}
	}
}

func TestRobotsCrawlDelay(t *testing.T) {
	policy := loadRobotsFixture(t, robotsFixture, 200)

	if got := policy.CrawlDelay("rattler"); got != 5*time.Second {
		t.Errorf("CrawlDelay(rattler) = %v, want 5s", got)
	}
	// Unknown agents take the wildcard value.
	if got := policy.CrawlDelay("Googlebot"); got != 2*time.Second {
		t.Errorf("CrawlDelay(Googlebot) = %v, want 2s", got)
	}
}

func TestRobotsSitemapURLs(t *testing.T) {
	policy := loadRobotsFixture(t, robotsFixture, 200)
	urls := policy.SitemapURLs("https://example.com/")
	if len(urls) != 2 {
		t.Fatalf("SitemapURLs = %v", urls)
	}
	if urls[0] != "https://example.com/sitemap.xml" {
		t.Errorf("first sitemap = %q", urls[0])
	}
	if urls[1] != "https://example.com/sitemap-news.xml" {
		t.Errorf("relative sitemap not resolved: %q", urls[1])
	}
}

func TestRobotsMissingPermitsEverything(t *testing.T) {
	policy := loadRobotsFixture(t, "not found", 404)
	if policy.Present {
		t.Error("404 robots marked present")
	}
	if !policy.Allowed("https://example.com/private/page", "Googlebot") {
		t.Error("absent policy must allow everything")
	}
	if policy.CrawlDelay("Googlebot") != 0 {
		t.Error("absent policy must have no crawl-delay")
	}
}

func TestRobotsFetchFailureDegrades(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterError("https://example.com/robots.txt", errors.New("connection refused"))

	f := testFetcher()
	f.Client.Transport = mock

	policy := LoadRobots(context.Background(), f, "https://example.com/")
	if policy.Present {
		t.Error("unreachable robots marked present")
	}
	if !policy.Allowed("https://example.com/anything", "rattler") {
		t.Error("unreachable robots must allow everything")
	}
}

func TestRobotsNilPolicyIsTotal(t *testing.T) {
	var policy *RobotsPolicy
	if !policy.Allowed("https://example.com/", "x") {
		t.Error("nil policy must allow")
	}
	if policy.CrawlDelay("x") != 0 {
		t.Error("nil policy must have zero delay")
	}
}
