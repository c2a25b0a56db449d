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
	"io"
	"net/http"
	"sync"
	"time"
)

// MockResponse is one canned HTTP response served by MockTransport.
type MockResponse struct {
	// StatusCode defaults to 200
	StatusCode int
	Body       string
	Headers    http.Header
	// Delay simulates network latency before the response is returned
	Delay time.Duration
	// Error simulates a transport-level failure instead of a response
	Error error
}

// MockTransport is an http.RoundTripper that serves registered responses by
// exact URL, letting fetcher and crawler tests run a whole fake site without
// a network listener. Unregistered URLs get a plain 404.
type MockTransport struct {
	mu        sync.RWMutex
	responses map[string]*MockResponse
}

// NewMockTransport creates an empty mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{responses: make(map[string]*MockResponse)}
}

// Register adds a canned response for an exact URL.
func (m *MockTransport) Register(url string, response *MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if response.StatusCode == 0 {
		response.StatusCode = 200
	}
	if response.Headers == nil {
		response.Headers = make(http.Header)
	}
	m.responses[url] = response
}

// RegisterHTML registers a 200 text/html response.
func (m *MockTransport) RegisterHTML(url, html string) {
	headers := make(http.Header)
	headers.Set("Content-Type", "text/html; charset=utf-8")
	m.Register(url, &MockResponse{StatusCode: 200, Body: html, Headers: headers})
}

// RegisterError registers a simulated network failure for a URL.
func (m *MockTransport) RegisterError(url string, err error) {
	m.Register(url, &MockResponse{Error: err})
}

// RoundTrip implements http.RoundTripper.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.RLock()
	mock, found := m.responses[req.URL.String()]
	m.mu.RUnlock()

	if !found {
		return &http.Response{
			StatusCode: 404,
			Body:       io.NopCloser(bytes.NewBufferString("Not Found")),
			Header:     make(http.Header),
			Request:    req,
			Proto:      "HTTP/1.1",
			ProtoMajor: 1,
			ProtoMinor: 1,
		}, nil
	}

	if mock.Delay > 0 {
		time.Sleep(mock.Delay)
	}
	if mock.Error != nil {
		return nil, mock.Error
	}

	return &http.Response{
		StatusCode:    mock.StatusCode,
		Body:          io.NopCloser(bytes.NewBufferString(mock.Body)),
		Header:        mock.Headers.Clone(),
		ContentLength: int64(len(mock.Body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}, nil
}
