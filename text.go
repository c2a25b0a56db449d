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
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
)

// extractVisibleText returns all visible text of a parsed document with
// whitespace normalized. Script, style and noscript content is excluded.
func extractVisibleText(doc *goquery.Document) string {
	clone := goquery.CloneDocument(doc)
	clone.Find("script, style, noscript").Remove()
	return normalizeWhitespace(clone.Text())
}

// normalizedContentText returns the text used for duplicate-content
// grouping: visible text minus navigation chrome, whitespace collapsed.
func normalizedContentText(doc *goquery.Document) string {
	clone := goquery.CloneDocument(doc)
	clone.Find("script, style, noscript, nav, footer").Remove()
	return normalizeWhitespace(clone.Text())
}

// ContentHash computes a 16-hex-char xxhash digest of normalized text.
// Hashing the same text always yields the same digest, so extracting a page
// twice produces byte-equal records.
func ContentHash(text string) string {
	if text == "" {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// countWords tokenizes on whitespace.
func countWords(text string) int {
	return len(strings.Fields(text))
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
