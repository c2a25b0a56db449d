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
	"testing"
	"time"
)

func TestConfigNormalizeDefaults(t *testing.T) {
	cfg := &CrawlConfig{}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if cfg.MaxPages != 100 {
		t.Errorf("MaxPages = %d", cfg.MaxPages)
	}
	if cfg.MaxDepth != 15 {
		t.Errorf("MaxDepth = %d", cfg.MaxDepth)
	}
	if cfg.Concurrency != 5 {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.BackoffMultiplier != 2 {
		t.Errorf("BackoffMultiplier = %v", cfg.BackoffMultiplier)
	}
	if cfg.JSRenderingMode != JSOff {
		t.Errorf("JSRenderingMode = %q", cfg.JSRenderingMode)
	}
}

func TestConfigNormalizeKeepsExplicitValues(t *testing.T) {
	cfg := &CrawlConfig{MaxPages: 7, Concurrency: 2, UserAgent: "custom/1.0"}
	if err := cfg.Normalize(); err != nil {
		t.Fatal(err)
	}
	if cfg.MaxPages != 7 || cfg.Concurrency != 2 || cfg.UserAgent != "custom/1.0" {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     CrawlConfig
		wantErr bool
	}{
		{"zero config", CrawlConfig{}, false},
		{"valid js mode", CrawlConfig{JSRenderingMode: JSAuto}, false},
		{"invalid js mode", CrawlConfig{JSRenderingMode: "sometimes"}, true},
		{"negative pages", CrawlConfig{MaxPages: -1}, true},
		{"bad multiplier", CrawlConfig{BackoffMultiplier: 0.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigGlobFilters(t *testing.T) {
	cfg := &CrawlConfig{
		IncludeGlobs: []string{"https://example.com/blog/*"},
		ExcludeGlobs: []string{"*?print=*"},
	}
	if err := cfg.Normalize(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/blog/post", true},
		{"https://example.com/about", false},
		{"https://example.com/blog/post?print=1", false},
	}
	for _, tt := range tests {
		if got := cfg.urlAllowed(tt.url); got != tt.want {
			t.Errorf("urlAllowed(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestConfigInvalidGlob(t *testing.T) {
	cfg := &CrawlConfig{IncludeGlobs: []string{"[unclosed"}}
	if err := cfg.Normalize(); err == nil {
		t.Error("invalid glob accepted")
	}
}

func TestConfigEmptyIncludeMatchesEverything(t *testing.T) {
	cfg := &CrawlConfig{}
	if err := cfg.Normalize(); err != nil {
		t.Fatal(err)
	}
	if !cfg.urlAllowed("https://anything.example.com/path") {
		t.Error("empty include list should match everything")
	}
}
