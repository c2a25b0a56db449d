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
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// maxRedirects bounds the redirect chain followed per request.
const maxRedirects = 10

// FetchErrorKind classifies fetch failures. A non-2xx response is not a
// failure; it is a result.
type FetchErrorKind int

const (
	FetchTimeout FetchErrorKind = iota
	FetchConnectFailed
	FetchTooManyRedirects
	FetchInvalidResponse
	FetchContentTooLarge
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchTimeout:
		return "timeout"
	case FetchConnectFailed:
		return "connect_failed"
	case FetchTooManyRedirects:
		return "too_many_redirects"
	case FetchContentTooLarge:
		return "content_too_large"
	default:
		return "invalid_response"
	}
}

// FetchError is a typed fetch failure.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return "fetch " + e.URL + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Transient reports whether the failure should count against the adaptive
// pacer and may succeed on retry.
func (e *FetchError) Transient() bool {
	return e.Kind == FetchTimeout || e.Kind == FetchConnectFailed
}

// FetchResult is the outcome of a single fetch, redirects resolved.
type FetchResult struct {
	StatusCode int
	FinalURL   string
	Headers    http.Header
	Body       []byte
	LoadTime   time.Duration
}

// Fetcher issues single HTTP requests with bounded redirects and body size.
type Fetcher struct {
	Client        *http.Client
	UserAgent     string
	MaxBodySize   int
	DetectCharset bool
}

// NewFetcher builds a fetcher from the crawl config. The client follows up
// to maxRedirects redirects and honors the configured request timeout.
func NewFetcher(cfg *CrawlConfig) *Fetcher {
	return &Fetcher{
		Client: &http.Client{
			Timeout: cfg.RequestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errRedirectLimit
				}
				return nil
			},
		},
		UserAgent:     cfg.UserAgent,
		MaxBodySize:   cfg.MaxBodySize,
		DetectCharset: cfg.DetectCharset,
	}
}

var errRedirectLimit = errors.New("stopped after 10 redirects")

// Fetch issues a GET and reads the body up to MaxBodySize. Non-2xx status
// codes are returned as results, not errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchInvalidResponse, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, f.classify(rawURL, err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, int64(f.MaxBodySize)+1)
	body, err := io.ReadAll(limited)
	loadTime := time.Since(start)
	if err != nil {
		return nil, f.classify(rawURL, err)
	}
	if len(body) > f.MaxBodySize {
		return nil, &FetchError{Kind: FetchContentTooLarge, URL: rawURL, Err: errors.New("response body exceeds limit")}
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		if normalized, nerr := NormalizeURL(resp.Request.URL.String()); nerr == nil {
			finalURL = normalized
		}
	}

	if f.DetectCharset && isHTMLContentType(resp.Header.Get("Content-Type")) {
		body = fixCharset(resp.Header.Get("Content-Type"), body)
	}

	return &FetchResult{
		StatusCode: resp.StatusCode,
		FinalURL:   finalURL,
		Headers:    resp.Header,
		Body:       body,
		LoadTime:   loadTime,
	}, nil
}

func (f *Fetcher) classify(rawURL string, err error) *FetchError {
	kind := FetchConnectFailed
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = FetchTimeout
	case errors.Is(err, errRedirectLimit) || strings.Contains(err.Error(), errRedirectLimit.Error()):
		kind = FetchTooManyRedirects
	default:
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			kind = FetchTimeout
		}
	}
	return &FetchError{Kind: kind, URL: rawURL, Err: err}
}

func isHTMLContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.Contains(strings.ToLower(ct), "html")
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// fixCharset converts non-UTF-8 bodies to UTF-8. If the Content-Type header
// does not declare a charset, the encoding is sniffed with chardet before
// conversion. Undecodable bodies are returned unchanged.
func fixCharset(contentType string, body []byte) []byte {
	label := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		label = params["charset"]
	}
	if label == "" {
		detector := chardet.NewTextDetector()
		if result, err := detector.DetectBest(body); err == nil {
			label = result.Charset
		}
	}
	if label == "" || strings.EqualFold(label, "utf-8") {
		return body
	}
	reader, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return body
	}
	return decoded
}
