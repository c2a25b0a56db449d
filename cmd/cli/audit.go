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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/agentberlin/rattler"
	"github.com/agentberlin/rattler/blob"
	"github.com/agentberlin/rattler/internal/store"
	"github.com/agentberlin/rattler/pipeline"
	"github.com/sirupsen/logrus"
)

// auditFlags holds all the flags for the audit command
type auditFlags struct {
	// Crawl options
	maxPages    int
	maxDepth    int
	parallelism int
	userAgent   string
	jsRendering string
	storeHTML   bool

	// Plan options
	briefs    bool
	planWeeks int
	keywords  string

	// Output
	output string
	quiet  bool
}

func runAudit(args []string) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)

	var flags auditFlags

	// Crawl options
	fs.IntVar(&flags.maxPages, "max-pages", 100, "Maximum number of pages to crawl")
	fs.IntVar(&flags.maxDepth, "depth", 15, "Maximum crawl depth")
	fs.IntVar(&flags.parallelism, "parallelism", 5, "Number of concurrent requests")
	fs.IntVar(&flags.parallelism, "p", 5, "Number of concurrent requests (shorthand)")
	fs.StringVar(&flags.userAgent, "user-agent", rattler.DefaultUserAgent, "Custom User-Agent string")
	fs.StringVar(&flags.userAgent, "A", rattler.DefaultUserAgent, "Custom User-Agent string (shorthand)")
	fs.StringVar(&flags.jsRendering, "js-rendering", "auto", "JS rendering mode: off, always, auto")
	fs.BoolVar(&flags.storeHTML, "store-html", false, "Store raw page HTML alongside the reports")

	// Plan options
	fs.BoolVar(&flags.briefs, "briefs", false, "Generate content briefs for the plan's content items")
	fs.IntVar(&flags.planWeeks, "plan-weeks", 12, "Action plan horizon in weeks")
	fs.StringVar(&flags.keywords, "keywords", "", "Comma-separated seed keywords for the content plan")

	// Output
	fs.StringVar(&flags.output, "output", "./reports", "Output directory for report files")
	fs.StringVar(&flags.output, "o", "./reports", "Output directory (shorthand)")
	fs.BoolVar(&flags.quiet, "quiet", false, "Suppress progress output")
	fs.BoolVar(&flags.quiet, "q", false, "Suppress progress output (shorthand)")

	fs.Usage = func() {
		fmt.Println(`Usage: rattler audit <url> [flags]

Crawl the site, run the 100-check audit and write the reports.

Flags:`)
		fs.PrintDefaults()
		fmt.Println(`
Examples:
  # Basic audit
  rattler audit https://example.com

  # Larger crawl with reports in a custom directory
  rattler audit https://example.com --max-pages 500 -o ./out

  # Force JS rendering for every page
  rattler audit https://example.com --js-rendering always

  # Full plan with briefs
  rattler audit https://example.com --briefs --keywords "crm software, sales tools"`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("URL argument is required")
	}

	urlStr := fs.Arg(0)
	if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
		urlStr = "https://" + urlStr
	}

	jsMode, err := parseJSMode(flags.jsRendering)
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if flags.quiet {
		log.SetLevel(logrus.ErrorLevel)
	} else if level, err := logrus.ParseLevel(os.Getenv("RATTLER_LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	orch := &pipeline.Orchestrator{
		Log:    log,
		Tenant: tenantID(),
	}

	if st, err := store.NewStore(); err != nil {
		log.WithError(err).Warn("continuing without the local database")
	} else {
		orch.Store = st
	}

	orch.Sink, err = buildSink(flags.output)
	if err != nil {
		return err
	}

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		llm, err := pipeline.NewAnthropicLLM(apiKey, os.Getenv("ANTHROPIC_MODEL"))
		if err != nil {
			return err
		}
		orch.LLM = llm
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := pipeline.Options{
		CrawlConfig: &rattler.CrawlConfig{
			MaxPages:        flags.maxPages,
			MaxDepth:        flags.maxDepth,
			Concurrency:     flags.parallelism,
			UserAgent:       flags.userAgent,
			JSRenderingMode: jsMode,
			StoreHTML:       flags.storeHTML,
			RespectRobots:   true,
			AdaptiveDelay:   true,
		},
		PlanWeeks:      flags.planWeeks,
		GenerateBriefs: flags.briefs,
		SeedKeywords:   splitKeywords(flags.keywords),
	}

	if !flags.quiet {
		fmt.Printf("Starting audit for %s...\n", urlStr)
	}

	result := orch.Run(ctx, urlStr, opts)
	if result.Status != "completed" {
		return fmt.Errorf("audit failed: %s", result.Error)
	}

	if !flags.quiet {
		fmt.Printf("\nAudit completed in %s\n", result.Duration.Round(10*time.Millisecond))
		fmt.Printf("  Score:  %d/100 (%s)\n", result.Score, result.Grade)
		fmt.Printf("  Pages:  %d crawled\n", result.PagesCrawled)
		fmt.Printf("  Checks: %d run, %d failed\n", result.ChecksRun, result.Summary.Failed)
		fmt.Printf("  Issues: %d\n", result.IssuesCount)

		names := make([]string, 0, len(result.FileURLs))
		for name := range result.FileURLs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %s\n", name, result.FileURLs[name])
		}
		for _, w := range result.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}
	return nil
}

func parseJSMode(s string) (rattler.JSRenderingMode, error) {
	switch s {
	case "off":
		return rattler.JSOff, nil
	case "always":
		return rattler.JSAlways, nil
	case "auto":
		return rattler.JSAuto, nil
	}
	return rattler.JSOff, fmt.Errorf("invalid js-rendering mode: %s (must be off, always, or auto)", s)
}

func splitKeywords(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func tenantID() string {
	if t := os.Getenv("RATTLER_TENANT"); t != "" {
		return t
	}
	return "default"
}

// buildSink selects S3 when a bucket is configured, the local filesystem
// otherwise.
func buildSink(outputDir string) (blob.Sink, error) {
	if bucket := os.Getenv("RATTLER_S3_BUCKET"); bucket != "" {
		return blob.NewS3Sink(context.Background(), blob.S3Config{
			Region:    os.Getenv("AWS_REGION"),
			Bucket:    bucket,
			Endpoint:  os.Getenv("RATTLER_S3_ENDPOINT"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
	}
	return blob.NewFSSink(outputDir)
}
