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
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// maxRendererRestarts bounds browser pool recoveries before JS rendering is
// disabled for the rest of the run.
const maxRendererRestarts = 3

// ErrRendererDisabled is returned once the pool has crashed too many times.
var ErrRendererDisabled = errors.New("renderer disabled after repeated crashes")

// RenderResult is the outcome of one headless-browser render.
type RenderResult struct {
	FinalURL          string
	Status            int
	HTML              string
	LoadTime          time.Duration
	RenderTime        time.Duration
	SPADetected       bool
	FrameworkDetected Framework
	NetworkURLs       []string
	Errors            []string
}

// Renderer drives a persistent headless browser with a bounded number of
// concurrent page contexts. It is safe to stop and restart; contexts are
// released on every error path.
type Renderer struct {
	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	restarts    int
	disabled    bool
	started     bool

	slots     chan struct{}
	userAgent string
	waitAfter time.Duration
	timeout   time.Duration
}

// NewRenderer configures a renderer pool for a crawl. The browser process
// is not launched until the first Render call.
func NewRenderer(cfg *CrawlConfig) *Renderer {
	poolSize := cfg.Concurrency
	if poolSize > 3 {
		poolSize = 3
	}
	if poolSize < 1 {
		poolSize = 1
	}
	return &Renderer{
		slots:     make(chan struct{}, poolSize),
		userAgent: cfg.UserAgent,
		waitAfter: cfg.JSWaitAfterLoad,
		timeout:   cfg.JSTimeout,
	}
}

func (r *Renderer) start() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(r.userAgent),
	)
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	r.started = true
}

// acquire reserves a browser slot, launching the allocator lazily.
func (r *Renderer) acquire(ctx context.Context) (context.Context, error) {
	r.mu.Lock()
	if r.disabled {
		r.mu.Unlock()
		return nil, ErrRendererDisabled
	}
	if !r.started {
		r.start()
	}
	alloc := r.allocCtx
	r.mu.Unlock()

	select {
	case r.slots <- struct{}{}:
		return alloc, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Renderer) release() { <-r.slots }

// recordCrash restarts the allocator, disabling the renderer after the
// restart budget is exhausted.
func (r *Renderer) recordCrash() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restarts++
	if r.allocCancel != nil {
		r.allocCancel()
		r.started = false
	}
	if r.restarts >= maxRendererRestarts {
		r.disabled = true
	}
}

// Disabled reports whether the crash budget has been exhausted.
func (r *Renderer) Disabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disabled
}

// Render navigates a fresh browser context to the URL, waits for the page
// to settle plus the configured post-load delay, and dumps the DOM. A
// timeout returns an error result without crashing the pool.
func (r *Renderer) Render(ctx context.Context, rawURL string) (*RenderResult, error) {
	alloc, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.release()

	browserCtx, cancelBrowser := chromedp.NewContext(alloc)
	defer cancelBrowser()
	renderCtx, cancelTimeout := context.WithTimeout(browserCtx, r.timeout)
	defer cancelTimeout()

	var (
		html        string
		finalURL    = rawURL
		status      int
		networkURLs []string
		netMu       sync.Mutex
	)

	chromedp.ListenTarget(renderCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *network.EventRequestWillBeSent:
			if ev.Request.URL != "" && ev.Request.URL != rawURL {
				netMu.Lock()
				networkURLs = append(networkURLs, ev.Request.URL)
				netMu.Unlock()
			}
		case *network.EventResponseReceived:
			if ev.Type == network.ResourceTypeDocument && status == 0 {
				netMu.Lock()
				status = int(ev.Response.Status)
				finalURL = ev.Response.URL
				netMu.Unlock()
			}
		}
	})

	start := time.Now()
	err = chromedp.Run(renderCtx,
		network.Enable(),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.waitAfter),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	renderTime := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &RenderResult{
				FinalURL:   finalURL,
				RenderTime: renderTime,
				Errors:     []string{fmt.Sprintf("render timeout after %s", r.timeout)},
			}, nil
		}
		// Anything else may mean a dead browser process.
		r.recordCrash()
		return nil, fmt.Errorf("render %s: %w", rawURL, err)
	}

	netMu.Lock()
	urls := append([]string(nil), networkURLs...)
	netMu.Unlock()

	fw := DetectFramework(html, urls)
	return &RenderResult{
		FinalURL:          finalURL,
		Status:            status,
		HTML:              html,
		LoadTime:          renderTime,
		RenderTime:        renderTime,
		SPADetected:       IsJSFramework(fw),
		FrameworkDetected: fw,
		NetworkURLs:       urls,
	}, nil
}

// Close tears down the browser allocator and all of its contexts.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.allocCancel != nil {
		r.allocCancel()
		r.allocCancel = nil
		r.started = false
	}
}
