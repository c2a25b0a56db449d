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
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// ErrInvalidURL is returned when a URL cannot be parsed or uses an
// unsupported scheme.
var ErrInvalidURL = errors.New("invalid URL")

// NormalizeURL parses a raw URL and returns its canonical form: lowercased
// scheme and host, percent-encoded reserved characters, fragment stripped.
// Only http and https URLs are accepted. Two URLs are considered the same
// page iff their normalized forms are equal.
func NormalizeURL(raw string) (string, error) {
	u, err := urlParser.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	scheme := u.Scheme()
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: empty host in %q", ErrInvalidURL, raw)
	}
	return u.Href(true), nil
}

// ResolveURL resolves a possibly relative href against a base URL and
// normalizes the result. mailto:, tel:, javascript: and fragment-only
// references resolve to an empty string.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}
	u, err := urlParser.ParseRef(base, href)
	if err != nil {
		return ""
	}
	if s := u.Scheme(); s != "http" && s != "https" {
		return ""
	}
	return u.Href(true)
}

// URLHash returns a stable 12-hex-character digest of the normalized URL,
// used to key raw HTML blobs.
func URLHash(u string) string {
	sum := xxhash.Sum64String(u)
	return fmt.Sprintf("%016x", sum)[:12]
}

// URLHost extracts the hostname of a URL, or "" if unparsable.
func URLHost(u string) string {
	parsed, err := urlParser.Parse(u)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// URLPath extracts the path component of a URL, or "" if unparsable.
func URLPath(u string) string {
	parsed, err := urlParser.Parse(u)
	if err != nil {
		return ""
	}
	return parsed.Pathname()
}

// IsInternalHost reports whether host belongs to the crawled site rooted at
// baseHost. A single leading "www." is stripped from either side before
// comparison, and subdomains of the base host count as internal.
func IsInternalHost(host, baseHost string) bool {
	h := strings.ToLower(strings.TrimPrefix(host, "www."))
	b := strings.ToLower(strings.TrimPrefix(baseHost, "www."))
	if h == "" || b == "" {
		return false
	}
	return h == b || strings.HasSuffix(h, "."+b)
}

// SameURLIgnoringSlash reports whether two URLs are equal modulo a single
// trailing slash. Used by the canonical self-reference and homepage checks.
func SameURLIgnoringSlash(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
