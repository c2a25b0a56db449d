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
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestFrontierFIFOAndDedupe(t *testing.T) {
	f := NewFrontier()

	if !f.Enqueue("https://example.com/a", 0) {
		t.Fatal("first enqueue rejected")
	}
	if !f.Enqueue("https://example.com/b", 1) {
		t.Fatal("second enqueue rejected")
	}
	if f.Enqueue("https://example.com/a", 2) {
		t.Error("duplicate enqueue accepted")
	}
	if f.SeenCount() != 2 {
		t.Errorf("SeenCount = %d, want 2", f.SeenCount())
	}

	first, ok := f.Pop()
	if !ok || first.URL != "https://example.com/a" || first.Depth != 0 {
		t.Errorf("first pop = %+v, %v", first, ok)
	}
	second, ok := f.Pop()
	if !ok || second.URL != "https://example.com/b" || second.Depth != 1 {
		t.Errorf("second pop = %+v, %v", second, ok)
	}
}

func TestFrontierPopBlocksUntilClose(t *testing.T) {
	f := NewFrontier()

	done := make(chan bool)
	go func() {
		_, ok := f.Pop()
		done <- ok
	}()

	select {
	case <-done:
		t.Fatal("Pop returned before close on an empty frontier")
	case <-time.After(20 * time.Millisecond):
	}

	f.Close()
	select {
	case ok := <-done:
		if ok {
			t.Error("Pop on a closed empty frontier reported an item")
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake after Close")
	}
}

func TestFrontierEnqueueAfterClose(t *testing.T) {
	f := NewFrontier()
	f.Close()
	f.Close() // closing twice is safe
	if f.Enqueue("https://example.com/", 0) {
		t.Error("enqueue accepted after close")
	}
}

func TestFrontierDrainsAfterClose(t *testing.T) {
	f := NewFrontier()
	f.Enqueue("https://example.com/a", 0)
	f.Close()
	if _, ok := f.Pop(); !ok {
		t.Error("queued item lost on close")
	}
	if _, ok := f.Pop(); ok {
		t.Error("pop after drain reported an item")
	}
}

func TestFrontierConcurrentWorkers(t *testing.T) {
	f := NewFrontier()
	const items = 200
	for i := 0; i < items; i++ {
		f.Enqueue(fmt.Sprintf("https://example.com/page-%d", i), i)
	}
	queued := f.Pending()
	if queued != items {
		t.Fatalf("Pending = %d, want %d", queued, items)
	}

	var mu sync.Mutex
	popped := 0
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, ok := f.Pop()
				if !ok {
					return
				}
				f.MarkVisited(item.URL)
				mu.Lock()
				popped++
				mu.Unlock()
			}
		}()
	}
	f.Close()
	wg.Wait()

	if popped != queued {
		t.Errorf("popped %d items, want %d", popped, queued)
	}
	if f.VisitedCount() != queued {
		t.Errorf("VisitedCount = %d, want %d", f.VisitedCount(), queued)
	}
}

func TestFrontierTryVisitEnforcesBudget(t *testing.T) {
	const max = 5
	f := NewFrontier()

	var mu sync.Mutex
	granted := 0
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if f.TryVisit(fmt.Sprintf("https://example.com/w%d-p%d", w, i), max) {
					mu.Lock()
					granted++
					mu.Unlock()
				}
			}
		}(w)
	}
	wg.Wait()

	if granted != max {
		t.Errorf("granted %d visits, budget was %d", granted, max)
	}
	if f.VisitedCount() != max {
		t.Errorf("VisitedCount = %d, want %d", f.VisitedCount(), max)
	}
}

func TestFrontierTryVisitUnlimited(t *testing.T) {
	f := NewFrontier()
	for i := 0; i < 10; i++ {
		if !f.TryVisit(fmt.Sprintf("https://example.com/page-%d", i), 0) {
			t.Fatalf("visit %d denied with no budget set", i)
		}
	}
}
