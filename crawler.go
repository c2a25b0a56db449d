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
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// BlobPutter is the subset of the blob sink the crawler needs for raw HTML.
type BlobPutter interface {
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error
}

// KeyFunc maps a normalized page URL to its raw-HTML blob key.
type KeyFunc func(pageURL string) string

// Crawler drains a frontier with a pool of workers, producing a sealed
// CrawlArtifact. A crawler instance runs exactly one crawl.
type Crawler struct {
	cfg      *CrawlConfig
	fetcher  *Fetcher
	renderer *Renderer
	frontier *Frontier
	log      *logrus.Logger

	// Optional raw HTML storage
	blob    BlobPutter
	htmlKey KeyFunc

	baseURL  string
	baseHost string
	robots   *RobotsPolicy
	sitemap  *SitemapResult
	pacer    *Pacer

	mu       sync.Mutex
	pages    map[string]*PageRecord
	order    []string
	deferred map[string][]byte // url -> static HTML, queued for JS re-render

	outstanding int64
}

// NewCrawler validates and normalizes the config and prepares a crawler for
// one run against the given origin URL.
func NewCrawler(rawURL string, cfg *CrawlConfig, log *logrus.Logger) (*Crawler, error) {
	if cfg == nil {
		cfg = &CrawlConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	base, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}

	c := &Crawler{
		cfg:      cfg,
		fetcher:  NewFetcher(cfg),
		frontier: NewFrontier(),
		log:      log,
		baseURL:  base,
		baseHost: URLHost(base),
		pages:    make(map[string]*PageRecord),
		deferred: make(map[string][]byte),
		htmlKey: func(u string) string {
			return fmt.Sprintf("pages/%s.html", URLHash(u))
		},
	}
	if cfg.JSRenderingMode != JSOff {
		c.renderer = NewRenderer(cfg)
	}
	return c, nil
}

// SetBlobSink enables raw HTML storage. keyFn may be nil to keep the
// default "pages/{hash}.html" layout.
func (c *Crawler) SetBlobSink(sink BlobPutter, keyFn KeyFunc) {
	c.blob = sink
	if keyFn != nil {
		c.htmlKey = keyFn
	}
}

// SetHTTPClient replaces the fetcher's HTTP client, e.g. to inject a
// MockTransport in tests. The configured request timeout is preserved when
// the replacement has none.
func (c *Crawler) SetHTTPClient(client *http.Client) {
	if client.Timeout == 0 {
		client.Timeout = c.cfg.RequestTimeout
	}
	c.fetcher.Client = client
}

// Run executes the crawl and returns the sealed artifact. The context
// cancels in-flight work; workers finish their current request and exit.
func (c *Crawler) Run(ctx context.Context) (*CrawlArtifact, error) {
	started := time.Now()

	c.robots = LoadRobots(ctx, c.fetcher, c.baseURL)
	c.sitemap = LoadSitemaps(ctx, c.fetcher, c.baseURL, c.robots, c.cfg.MaxSitemapURLs)
	c.pacer = NewPacer(c.cfg, c.robots.CrawlDelay(c.cfg.UserAgent))

	c.enqueue(c.baseURL, 0)
	for _, u := range c.sitemap.URLs {
		c.enqueue(u, 1)
	}

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx)
		}()
	}
	wg.Wait()

	if c.cfg.JSRenderingMode == JSAuto && len(c.deferred) > 0 && ctx.Err() == nil {
		c.renderDeferred(ctx)
	}
	if c.renderer != nil {
		c.renderer.Close()
	}

	artifact := &CrawlArtifact{
		BaseURL:        c.baseURL,
		Robots:         c.robots,
		SitemapPresent: c.sitemap.Present,
		SitemapURLs:    c.sitemap.URLs,
		StartedAt:      started,
		FinishedAt:     time.Now(),
	}
	c.mu.Lock()
	for _, u := range c.order {
		artifact.Pages = append(artifact.Pages, c.pages[u])
	}
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"baseUrl":    c.baseURL,
		"pages":      len(artifact.Pages),
		"discovered": c.frontier.SeenCount(),
		"duration":   artifact.FinishedAt.Sub(started).String(),
	}).Info("crawl complete")

	if err := ctx.Err(); err != nil {
		return artifact, err
	}
	return artifact, nil
}

// enqueue adds a URL to the frontier, tracking outstanding work so the
// frontier can be closed once the crawl drains.
func (c *Crawler) enqueue(u string, depth int) {
	if !c.cfg.urlAllowed(u) {
		return
	}
	if c.frontier.Enqueue(u, depth) {
		atomic.AddInt64(&c.outstanding, 1)
	}
}

// done marks one popped item fully processed and closes the frontier once
// nothing is queued or in flight.
func (c *Crawler) done() {
	if atomic.AddInt64(&c.outstanding, -1) == 0 {
		c.frontier.Close()
	}
}

func (c *Crawler) worker(ctx context.Context) {
	for {
		item, ok := c.frontier.Pop()
		if !ok {
			return
		}
		if ctx.Err() != nil {
			c.done()
			c.frontier.Close()
			return
		}
		c.process(ctx, item)
		c.done()
	}
}

// process handles one frontier item end to end. Every popped URL is either
// appended to the artifact or discarded with a logged reason.
func (c *Crawler) process(ctx context.Context, item FrontierItem) {
	logger := c.log.WithField("url", item.URL)

	if item.Depth > c.cfg.MaxDepth {
		logger.Debug("discarded: beyond max depth")
		return
	}
	if !c.frontier.TryVisit(item.URL, c.cfg.MaxPages) {
		logger.Debug("discarded: max pages reached")
		c.frontier.Close()
		return
	}

	if c.cfg.RespectRobots && !c.robots.Allowed(item.URL, c.cfg.UserAgent) {
		logger.Debug("discarded: blocked by robots.txt")
		return
	}

	rec := c.fetchPage(ctx, item)
	if rec == nil {
		logger.Debug("discarded: no result from fetch or render")
		return
	}
	c.addPage(rec)

	if rec.Error == "" && rec.IsHTML() {
		for _, link := range rec.InternalLinks {
			c.enqueue(link.URL, item.Depth+1)
		}
	}
	_ = c.pacer.Sleep(ctx)
}

// fetchPage fetches (or renders, in always mode) one URL and extracts a
// record. Transient failures yield a status-0 record with Error set.
func (c *Crawler) fetchPage(ctx context.Context, item FrontierItem) *PageRecord {
	if c.cfg.JSRenderingMode == JSAlways && c.renderer != nil && !c.renderer.Disabled() {
		if rec := c.renderPage(ctx, item.URL, item.Depth); rec != nil {
			return rec
		}
		// fall back to a static fetch when the renderer is struggling
	}

	res, err := c.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) && fetchErr.Transient() {
			c.pacer.RecordFailure()
		} else {
			c.pacer.RecordSuccess()
		}
		c.log.WithField("url", item.URL).WithError(err).Warn("fetch failed")
		return &PageRecord{
			URL:       item.URL,
			FinalURL:  item.URL,
			Depth:     item.Depth,
			CrawledAt: time.Now(),
			Error:     err.Error(),
		}
	}
	c.pacer.RecordStatus(res.StatusCode)

	rec := Extract(res.FinalURL, res.StatusCode, res.Headers, res.Body, time.Now())
	rec.URL = item.URL
	rec.Depth = item.Depth
	rec.LoadTime = res.LoadTime

	if fw := DetectFramework(string(res.Body), nil); fw != FrameworkOther {
		rec.FrameworkDetected = string(fw)
		rec.SPADetected = IsJSFramework(fw)
	}

	if rec.IsHTML() && c.cfg.JSRenderingMode == JSAuto && c.renderer != nil && !c.renderer.Disabled() {
		if need, reason := NeedsJS(rec, res.Body, c.cfg.JSMinWordCountThreshold); need {
			c.log.WithFields(logrus.Fields{"url": item.URL, "reason": reason}).Debug("deferred for JS rendering")
			c.mu.Lock()
			c.deferred[item.URL] = res.Body
			c.mu.Unlock()
		}
	}

	c.storeRawHTML(ctx, rec, res.Body)
	return rec
}

// renderPage fetches a URL through the headless browser (always mode).
func (c *Crawler) renderPage(ctx context.Context, u string, depth int) *PageRecord {
	result, err := c.renderer.Render(ctx, u)
	if err != nil {
		c.log.WithField("url", u).WithError(err).Warn("render failed")
		return nil
	}
	if len(result.Errors) > 0 {
		c.pacer.RecordFailure()
		return &PageRecord{
			URL:       u,
			FinalURL:  result.FinalURL,
			Depth:     depth,
			CrawledAt: time.Now(),
			Error:     result.Errors[0],
		}
	}
	c.pacer.RecordStatus(result.Status)

	rec := c.recordFromRender(u, depth, result)
	c.storeRawHTML(ctx, rec, []byte(result.HTML))
	return rec
}

// renderDeferred is the second crawl phase: pages the SPA heuristic flagged
// are re-rendered and their records replaced by URL.
func (c *Crawler) renderDeferred(ctx context.Context) {
	c.mu.Lock()
	urls := make([]string, 0, len(c.deferred))
	for u := range c.deferred {
		urls = append(urls, u)
	}
	c.mu.Unlock()

	c.log.WithField("count", len(urls)).Info("re-rendering deferred SPA pages")

	var wg sync.WaitGroup
	for _, u := range urls {
		if ctx.Err() != nil || c.renderer.Disabled() {
			break
		}
		wg.Add(1)
		go func(pageURL string) {
			defer wg.Done()
			result, err := c.renderer.Render(ctx, pageURL)
			if err != nil || len(result.Errors) > 0 {
				c.log.WithField("url", pageURL).Warn("deferred render failed, keeping static record")
				return
			}

			c.mu.Lock()
			prev := c.pages[pageURL]
			c.mu.Unlock()
			depth := 0
			if prev != nil {
				depth = prev.Depth
			}

			rec := c.recordFromRender(pageURL, depth, result)
			c.storeRawHTML(ctx, rec, []byte(result.HTML))
			c.replacePage(rec)
		}(u)
	}
	wg.Wait()
}

// recordFromRender extracts a record from rendered HTML and stamps the JS
// rendering fields.
func (c *Crawler) recordFromRender(pageURL string, depth int, result *RenderResult) *PageRecord {
	finalURL := result.FinalURL
	if normalized, err := NormalizeURL(finalURL); err == nil {
		finalURL = normalized
	}
	status := result.Status
	if status == 0 {
		status = 200
	}
	rec := Extract(finalURL, status, nil, []byte(result.HTML), time.Now())
	rec.ContentType = "text/html"
	rec.URL = pageURL
	rec.Depth = depth
	rec.LoadTime = result.LoadTime
	rec.JSRendered = true
	rec.JSRenderTime = result.RenderTime
	rec.SPADetected = result.SPADetected
	if result.FrameworkDetected != FrameworkOther {
		rec.FrameworkDetected = string(result.FrameworkDetected)
	}
	return rec
}

func (c *Crawler) storeRawHTML(ctx context.Context, rec *PageRecord, body []byte) {
	if c.blob == nil || !c.cfg.StoreHTML || len(body) == 0 || !rec.IsHTML() {
		return
	}
	key := c.htmlKey(rec.URL)
	meta := map[string]string{"url": rec.URL, "status": fmt.Sprintf("%d", rec.StatusCode)}
	if err := c.blob.Put(ctx, key, body, "text/html; charset=utf-8", meta); err != nil {
		c.log.WithField("key", key).WithError(err).Warn("raw HTML store failed")
		return
	}
	rec.RawHTMLKey = key
}

func (c *Crawler) addPage(rec *PageRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.pages[rec.URL]; !exists {
		c.order = append(c.order, rec.URL)
	}
	c.pages[rec.URL] = rec
}

// replacePage swaps the record for a URL in place, preserving crawl order.
func (c *Crawler) replacePage(rec *PageRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.pages[rec.URL]; !exists {
		c.order = append(c.order, rec.URL)
	}
	c.pages[rec.URL] = rec
}
