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
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testFetcher() *Fetcher {
	cfg := &CrawlConfig{}
	if err := cfg.Normalize(); err != nil {
		panic(err)
	}
	return NewFetcher(cfg)
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	f := testFetcher()
	if _, err := f.Fetch(context.Background(), ts.URL); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotAgent != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotAgent, DefaultUserAgent)
	}
}

func TestFetchNon2xxIsAResultNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer ts.Close()

	res, err := testFetcher().Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Fetch returned error for 410: %v", err)
	}
	if res.StatusCode != http.StatusGone {
		t.Errorf("StatusCode = %d, want 410", res.StatusCode)
	}
}

func TestFetchFollowsRedirectsToFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	var ts *httptest.Server
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ts.URL+"/middle", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/middle", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ts.URL+"/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("arrived"))
	})
	ts = httptest.NewServer(mux)
	defer ts.Close()

	res, err := testFetcher().Fetch(context.Background(), ts.URL+"/start")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.StatusCode != 200 || string(res.Body) != "arrived" {
		t.Errorf("status=%d body=%q", res.StatusCode, res.Body)
	}
	if !strings.HasSuffix(res.FinalURL, "/end") {
		t.Errorf("FinalURL = %q, want .../end", res.FinalURL)
	}
}

func TestFetchRedirectLimit(t *testing.T) {
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ts.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer ts.Close()

	_, err := testFetcher().Fetch(context.Background(), ts.URL+"/loop")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Kind != FetchTooManyRedirects {
		t.Errorf("err = %v, want FetchTooManyRedirects", err)
	}
}

func TestFetchBodySizeLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer ts.Close()

	f := testFetcher()
	f.MaxBodySize = 1024
	_, err := f.Fetch(context.Background(), ts.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Kind != FetchContentTooLarge {
		t.Errorf("err = %v, want FetchContentTooLarge", err)
	}
}

func TestFetchConnectFailure(t *testing.T) {
	// A closed server refuses connections.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := testFetcher().Fetch(context.Background(), url)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if !fetchErr.Transient() {
		t.Errorf("connect failure should be transient, got kind %s", fetchErr.Kind)
	}
}

func TestFetchTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := testFetcher().Fetch(ctx, ts.URL)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Kind != FetchTimeout {
		t.Errorf("err = %v, want FetchTimeout", err)
	}
}

func TestFetchWithMockTransport(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML("https://example.com/", "<html><title>Mocked</title></html>")
	mock.RegisterError("https://example.com/broken", errors.New("connection reset"))

	f := testFetcher()
	f.Client.Transport = mock

	res, err := f.Fetch(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.StatusCode != 200 || !strings.Contains(string(res.Body), "Mocked") {
		t.Errorf("status=%d body=%q", res.StatusCode, res.Body)
	}

	if _, err := f.Fetch(context.Background(), "https://example.com/broken"); err == nil {
		t.Error("registered transport error not surfaced")
	}

	// Unregistered URLs get the mock's 404.
	res, err = f.Fetch(context.Background(), "https://example.com/unknown")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", res.StatusCode)
	}
}

func TestFixCharset(t *testing.T) {
	// "café" in ISO-8859-1
	latin1 := []byte{'c', 'a', 'f', 0xe9}
	fixed := fixCharset("text/html; charset=iso-8859-1", latin1)
	if string(fixed) != "café" {
		t.Errorf("fixCharset = %q, want café", fixed)
	}

	utf8 := []byte("already utf-8 café")
	if got := fixCharset("text/html; charset=utf-8", utf8); string(got) != string(utf8) {
		t.Errorf("utf-8 body modified: %q", got)
	}
}
