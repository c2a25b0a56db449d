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
	"errors"
	"fmt"
	"time"

	"github.com/gobwas/glob"
)

// JSRenderingMode controls when pages are re-rendered in a headless browser.
type JSRenderingMode string

const (
	// JSOff never starts the renderer pool
	JSOff JSRenderingMode = "off"
	// JSAlways renders every HTML page through the browser
	JSAlways JSRenderingMode = "always"
	// JSAuto statically fetches first and re-renders pages the SPA
	// heuristic flags in a second pass
	JSAuto JSRenderingMode = "auto"
)

// DefaultUserAgent identifies the crawler to origin servers.
const DefaultUserAgent = "rattler/1.0 (+https://agentberlin.ai/rattler)"

// CrawlConfig holds all crawl options. Zero values are filled in by
// Normalize; Validate rejects configurations the crawler cannot honor.
type CrawlConfig struct {
	// MaxPages caps the number of URLs popped from the frontier (>= 1)
	MaxPages int
	// MaxDepth caps link-hop distance from the seed (>= 0)
	MaxDepth int
	// Concurrency is the crawl worker count (>= 1)
	Concurrency int
	// RequestTimeout bounds each fetch
	RequestTimeout time.Duration
	// StoreHTML writes raw HTML to the blob sink and records RawHTMLKey
	StoreHTML bool
	// RespectRobots obeys robots.txt disallow rules and crawl-delay
	RespectRobots bool
	// UserAgent is sent on every request and matched against robots groups
	UserAgent string

	// Adaptive pacing
	AdaptiveDelay     bool
	RequestDelay      time.Duration
	MinDelay          time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64

	// JS rendering
	JSRenderingMode         JSRenderingMode
	JSWaitAfterLoad         time.Duration
	JSTimeout               time.Duration
	JSMinWordCountThreshold int

	// MaxBodySize caps response bodies read into memory
	MaxBodySize int
	// MaxSitemapURLs caps seed URLs taken from sitemaps
	MaxSitemapURLs int

	// IncludeGlobs / ExcludeGlobs restrict which discovered URLs are
	// enqueued. Empty include list means everything matches.
	IncludeGlobs []string
	ExcludeGlobs []string

	// DetectCharset enables charset sniffing for responses without an
	// explicit charset declaration.
	DetectCharset bool

	includeGlobs []glob.Glob
	excludeGlobs []glob.Glob
}

// Normalize fills defaults in place and compiles the URL glob filters.
func (c *CrawlConfig) Normalize() error {
	if c.MaxPages <= 0 {
		c.MaxPages = 100
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 15
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 5
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.RequestDelay <= 0 {
		c.RequestDelay = 500 * time.Millisecond
	}
	if c.MinDelay <= 0 {
		c.MinDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.BackoffMultiplier <= 1 {
		c.BackoffMultiplier = 2
	}
	if c.JSRenderingMode == "" {
		c.JSRenderingMode = JSOff
	}
	if c.JSWaitAfterLoad <= 0 {
		c.JSWaitAfterLoad = 1500 * time.Millisecond
	}
	if c.JSTimeout <= 0 {
		c.JSTimeout = 30 * time.Second
	}
	if c.JSMinWordCountThreshold <= 0 {
		c.JSMinWordCountThreshold = 100
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = 5 * 1024 * 1024
	}
	if c.MaxSitemapURLs <= 0 {
		c.MaxSitemapURLs = 50000
	}
	return c.compileGlobs()
}

// Validate reports configuration errors without mutating the config.
func (c *CrawlConfig) Validate() error {
	switch c.JSRenderingMode {
	case JSOff, JSAlways, JSAuto, "":
	default:
		return fmt.Errorf("invalid js rendering mode %q", c.JSRenderingMode)
	}
	if c.MaxPages < 0 || c.MaxDepth < 0 || c.Concurrency < 0 {
		return errors.New("max_pages, max_depth and concurrency must be non-negative")
	}
	if c.BackoffMultiplier != 0 && c.BackoffMultiplier <= 1 {
		return errors.New("backoff_multiplier must be > 1")
	}
	return nil
}

func (c *CrawlConfig) compileGlobs() error {
	c.includeGlobs = c.includeGlobs[:0]
	c.excludeGlobs = c.excludeGlobs[:0]
	for _, pattern := range c.IncludeGlobs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid include glob %q: %w", pattern, err)
		}
		c.includeGlobs = append(c.includeGlobs, g)
	}
	for _, pattern := range c.ExcludeGlobs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid exclude glob %q: %w", pattern, err)
		}
		c.excludeGlobs = append(c.excludeGlobs, g)
	}
	return nil
}

// urlAllowed applies the include/exclude glob filters to a URL.
func (c *CrawlConfig) urlAllowed(u string) bool {
	for _, g := range c.excludeGlobs {
		if g.Match(u) {
			return false
		}
	}
	if len(c.includeGlobs) == 0 {
		return true
	}
	for _, g := range c.includeGlobs {
		if g.Match(u) {
			return true
		}
	}
	return false
}
