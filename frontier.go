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
	"sync"
)

// FrontierItem is one unit of crawl work.
type FrontierItem struct {
	URL   string
	Depth int
}

// Frontier is a thread-safe FIFO queue of (url, depth) with a dedupe set.
// Enqueue is a no-op for URLs that were ever enqueued before; Pop blocks
// until an item is available or the frontier is closed and empty, so no URL
// is popped twice within a crawl.
type Frontier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []FrontierItem
	seen    map[string]bool
	visited map[string]bool
	closed  bool
}

// NewFrontier creates an empty frontier.
func NewFrontier() *Frontier {
	f := &Frontier{
		seen:    make(map[string]bool),
		visited: make(map[string]bool),
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Enqueue adds a URL at the given depth unless it has been seen before.
// Returns true if the URL was accepted.
func (f *Frontier) Enqueue(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.seen[url] {
		return false
	}
	f.seen[url] = true
	f.queue = append(f.queue, FrontierItem{URL: url, Depth: depth})
	f.cond.Signal()
	return true
}

// Pop removes the oldest item. The second return is false once the frontier
// is closed and drained.
func (f *Frontier) Pop() (FrontierItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.queue) == 0 && !f.closed {
		f.cond.Wait()
	}
	if len(f.queue) == 0 {
		return FrontierItem{}, false
	}
	item := f.queue[0]
	f.queue = f.queue[1:]
	return item, true
}

// TryVisit marks a popped URL visited unless max URLs are already marked.
// Check and mark happen under one lock, so concurrent workers cannot both
// claim the last slot of the budget. max <= 0 means unlimited.
func (f *Frontier) TryVisit(url string, max int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if max > 0 && len(f.visited) >= max {
		return false
	}
	f.visited[url] = true
	return true
}

// MarkVisited records that a popped URL was processed.
func (f *Frontier) MarkVisited(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited[url] = true
}

// VisitedCount returns how many URLs have been marked visited.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// SeenCount returns how many unique URLs were ever enqueued.
func (f *Frontier) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

// Pending returns the number of queued, not yet popped items.
func (f *Frontier) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Close wakes all blocked Pop calls; subsequent Enqueues are dropped.
// Closing twice is safe.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.cond.Broadcast()
}
