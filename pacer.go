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
	"math"
	"sync"
	"time"
)

// Pacer computes the delay between requests from recent success/failure
// history. Failures back the delay off multiplicatively; successes decay it
// back toward MinDelay. Status 429 and 503 always count as failures. A
// single pacer instance is shared by the whole worker pool.
type Pacer struct {
	mu                sync.Mutex
	currentDelay      time.Duration
	consecutiveErrors int
	// runBase is the delay at the start of the current error run; after K
	// consecutive failures the delay is min(maxDelay, runBase × multiplier^K).
	runBase time.Duration

	minDelay   time.Duration
	maxDelay   time.Duration
	multiplier float64
	robotDelay time.Duration
	adaptive   bool
}

// NewPacer builds a pacer from the crawl config and the robots crawl-delay.
func NewPacer(cfg *CrawlConfig, robotsCrawlDelay time.Duration) *Pacer {
	return &Pacer{
		currentDelay: cfg.RequestDelay,
		runBase:      cfg.RequestDelay,
		minDelay:     cfg.MinDelay,
		maxDelay:     cfg.MaxDelay,
		multiplier:   cfg.BackoffMultiplier,
		robotDelay:   robotsCrawlDelay,
		adaptive:     cfg.AdaptiveDelay,
	}
}

// RecordSuccess decays the delay toward MinDelay and resets the error run.
func (p *Pacer) RecordSuccess() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consecutiveErrors = 0
	if !p.adaptive {
		return
	}
	decayed := time.Duration(float64(p.currentDelay) / p.multiplier)
	if decayed < p.minDelay {
		decayed = p.minDelay
	}
	p.currentDelay = decayed
	p.runBase = decayed
}

// RecordFailure backs the delay off as multiplier^consecutiveErrors, capped
// at MaxDelay.
func (p *Pacer) RecordFailure() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consecutiveErrors++
	if !p.adaptive {
		return
	}
	backoff := time.Duration(float64(p.runBase) * math.Pow(p.multiplier, float64(p.consecutiveErrors)))
	if backoff > p.maxDelay || backoff <= 0 {
		backoff = p.maxDelay
	}
	p.currentDelay = backoff
}

// RecordStatus classifies an HTTP status for pacing: 429, 503 and all other
// 5xx are failures, everything else is a success.
func (p *Pacer) RecordStatus(status int) {
	if status == 429 || status >= 500 {
		p.RecordFailure()
		return
	}
	p.RecordSuccess()
}

// Delay returns the effective per-request delay: the larger of the adaptive
// delay and the robots crawl-delay.
func (p *Pacer) Delay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.robotDelay > p.currentDelay {
		return p.robotDelay
	}
	return p.currentDelay
}

// Sleep blocks for the effective delay or until the context is cancelled.
func (p *Pacer) Sleep(ctx context.Context) error {
	delay := p.Delay()
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
