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
	"strings"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsFetchTimeout keeps a slow robots.txt from stalling the crawl start.
const robotsFetchTimeout = 10 * time.Second

// RobotsPolicy is the parsed robots.txt of a site. Immutable once loaded.
// An absent or unreachable robots.txt permits everything.
type RobotsPolicy struct {
	Present bool   `json:"present"`
	Raw     []byte `json:"-"`

	data *robotstxt.RobotsData
}

// LoadRobots fetches and parses {base}/robots.txt once per crawl. Network
// failures and non-2xx responses degrade to "no policy".
func LoadRobots(ctx context.Context, fetcher *Fetcher, baseURL string) *RobotsPolicy {
	robotsURL := ResolveURL(baseURL, "/robots.txt")
	if robotsURL == "" {
		return &RobotsPolicy{}
	}

	ctx, cancel := context.WithTimeout(ctx, robotsFetchTimeout)
	defer cancel()

	res, err := fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		return &RobotsPolicy{}
	}

	data, err := robotstxt.FromStatusAndBytes(res.StatusCode, res.Body)
	if err != nil {
		return &RobotsPolicy{}
	}

	return &RobotsPolicy{
		Present: res.StatusCode >= 200 && res.StatusCode < 300,
		Raw:     res.Body,
		data:    data,
	}
}

// Allowed reports whether the policy permits crawling the URL for the given
// agent. It is total: with no policy loaded everything is allowed.
func (r *RobotsPolicy) Allowed(rawURL, agent string) bool {
	if r == nil || r.data == nil {
		return true
	}
	path := URLPath(rawURL)
	if path == "" {
		path = "/"
	}
	return r.data.TestAgent(path, agent)
}

// CrawlDelay returns the larger of the agent-specific crawl-delay and the
// wildcard value, or zero when neither is declared.
func (r *RobotsPolicy) CrawlDelay(agent string) time.Duration {
	if r == nil || r.data == nil {
		return 0
	}
	var delay time.Duration
	if g := r.data.FindGroup(agent); g != nil && g.CrawlDelay > delay {
		delay = g.CrawlDelay
	}
	if g := r.data.FindGroup("*"); g != nil && g.CrawlDelay > delay {
		delay = g.CrawlDelay
	}
	return delay
}

// SitemapURLs returns the absolute sitemap URLs declared in the robots body.
func (r *RobotsPolicy) SitemapURLs(baseURL string) []string {
	if r == nil || len(r.Raw) == 0 {
		return nil
	}
	var urls []string
	for _, line := range strings.Split(string(r.Raw), "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 8 || !strings.EqualFold(line[:8], "sitemap:") {
			continue
		}
		value := strings.TrimSpace(line[8:])
		if resolved := ResolveURL(baseURL, value); resolved != "" {
			urls = append(urls, resolved)
		}
	}
	return urls
}
