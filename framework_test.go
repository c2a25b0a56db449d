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
	"strings"
	"testing"
)

func TestDetectFramework(t *testing.T) {
	tests := []struct {
		name string
		html string
		want Framework
	}{
		{
			"nextjs",
			`<html><body><div id="__next"></div><script src="/_next/static/chunks/main.js"></script></body></html>`,
			FrameworkNextJS,
		},
		{
			"wordpress",
			`<html><head><link href="/wp-content/themes/x/style.css"><script src="/wp-includes/js/jquery.js"></script></head></html>`,
			FrameworkWordPress,
		},
		{
			"angular",
			`<html><body><app-root ng-version="17.0.1"></app-root></body></html>`,
			FrameworkAngular,
		},
		{
			"shopify",
			`<html><head><script src="https://cdn.shopify.com/s/files/theme.js"></script></head></html>`,
			FrameworkShopify,
		},
		{
			"prose mention does not trigger",
			`<html><body><p>We compared react and vue for this project.</p></body></html>`,
			FrameworkOther,
		},
		{
			"plain html",
			`<html><body><h1>Hello</h1></body></html>`,
			FrameworkOther,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFramework(tt.html, nil); got != tt.want {
				t.Errorf("DetectFramework = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectFrameworkPrefersMetaFramework(t *testing.T) {
	// A Next.js page also carries React markers; it must report Next.js.
	html := `<div id="__next"></div><script src="/_next/static/x.js"></script><script src="react-dom.js"></script><div data-reactroot></div>`
	if got := DetectFramework(html, nil); got != FrameworkNextJS {
		t.Errorf("DetectFramework = %q, want nextjs", got)
	}
}

func TestDetectFrameworkNetworkURLs(t *testing.T) {
	urls := []string{"https://example.com/_nuxt/entry.js", "https://example.com/_nuxt/app.css"}
	if got := DetectFramework("<html></html>", urls); got != FrameworkNuxtJS {
		t.Errorf("DetectFramework with network URLs = %q, want nuxtjs", got)
	}
}

func TestIsJSFramework(t *testing.T) {
	if !IsJSFramework(FrameworkReact) || !IsJSFramework(FrameworkNextJS) {
		t.Error("react/nextjs should imply client-side rendering")
	}
	if IsJSFramework(FrameworkWordPress) || IsJSFramework(FrameworkOther) {
		t.Error("wordpress/other should not imply client-side rendering")
	}
}

func TestNeedsJS(t *testing.T) {
	htmlRec := func(words, scripts int) *PageRecord {
		return &PageRecord{
			StatusCode:   200,
			ContentType:  "text/html",
			WordCount:    words,
			ScriptsCount: scripts,
		}
	}

	t.Run("low word count", func(t *testing.T) {
		need, reason := NeedsJS(htmlRec(10, 0), []byte("<html><body>short</body></html>"), 100)
		if !need || reason == "" {
			t.Errorf("need=%v reason=%q", need, reason)
		}
	})

	t.Run("framework markers", func(t *testing.T) {
		body := []byte(`<div id="__next"></div><script src="/_next/static/a.js"></script>` + strings.Repeat("<p>word </p>", 200))
		need, reason := NeedsJS(htmlRec(200, 1), body, 100)
		if !need || !strings.Contains(reason, "nextjs") {
			t.Errorf("need=%v reason=%q", need, reason)
		}
	})

	t.Run("empty mount point", func(t *testing.T) {
		body := []byte(`<html><body><div id="root"></div>` + strings.Repeat("<span>filler text here </span>", 120) + `</body></html>`)
		need, reason := NeedsJS(htmlRec(360, 0), body, 100)
		if !need || !strings.Contains(reason, "#root") {
			t.Errorf("need=%v reason=%q", need, reason)
		}
	})

	t.Run("static content page", func(t *testing.T) {
		body := []byte(`<html><body>` + strings.Repeat("<p>plenty of static words in this page body </p>", 60) + `</body></html>`)
		if need, reason := NeedsJS(htmlRec(420, 2), body, 100); need {
			t.Errorf("static page flagged for rendering: %s", reason)
		}
	})

	t.Run("non-HTML never rendered", func(t *testing.T) {
		rec := &PageRecord{StatusCode: 200, ContentType: "application/json", WordCount: 1}
		if need, _ := NeedsJS(rec, []byte("{}"), 100); need {
			t.Error("JSON response flagged for rendering")
		}
	})

	t.Run("error page never rendered", func(t *testing.T) {
		rec := &PageRecord{StatusCode: 404, ContentType: "text/html", WordCount: 1}
		if need, _ := NeedsJS(rec, []byte("<html></html>"), 100); need {
			t.Error("404 flagged for rendering")
		}
	})
}
