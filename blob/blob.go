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

// Package blob stores crawl and report artifacts under tenant-scoped keys,
// either on the local filesystem (development) or in S3-compatible object
// storage (production).
package blob

import (
	"context"
	"fmt"
	"time"
)

// Sink is the artifact store the pipeline writes reports and raw HTML to.
type Sink interface {
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	// PresignedGet returns a time-limited URL for sharing the object.
	PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ReportKey builds the canonical key for a report document.
func ReportKey(tenant, site, reportID, name string) string {
	return fmt.Sprintf("tenants/%s/sites/%s/reports/%s/%s", tenant, site, reportID, name)
}

// PageHTMLKey builds the canonical key for a stored raw page, addressed by
// the 12-hex URL hash.
func PageHTMLKey(tenant, site, crawlID, urlHash string) string {
	return fmt.Sprintf("tenants/%s/sites/%s/crawls/%s/pages/%s.html", tenant, site, crawlID, urlHash)
}
