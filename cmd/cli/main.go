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

// Rattler CLI
//
// Command-line interface for the Rattler SEO audit pipeline. Crawls a site,
// runs the 100-check audit, and writes scored reports plus an action plan.
//
// Usage:
//
//	rattler <command> [flags]
//
// Commands:
//
//	audit     Crawl a site and produce the full audit report
//	list      List audited sites or past audit runs
//	version   Show version information
package main

import (
	"fmt"
	"os"

	"github.com/agentberlin/rattler/internal/version"
	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// .env is optional; deployments configure through the environment.
	_ = godotenv.Load()

	command := os.Args[1]

	switch command {
	case "audit":
		if err := runAudit(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "list":
		if err := runList(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "-v", "--version":
		fmt.Printf("Rattler CLI %s\n", version.CurrentVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Rattler CLI - SEO audit pipeline

Usage:
  rattler <command> [flags]

Commands:
  audit     Crawl a site and produce the full audit report
  list      List audited sites or past audit runs
  version   Show version information
  help      Show this help message

Examples:
  # Audit a website
  rattler audit https://example.com

  # Audit with a page limit and JS rendering always on
  rattler audit https://example.com --max-pages 50 --js-rendering always

  # Generate content briefs from seed keywords
  rattler audit https://example.com --briefs --keywords "crm software, sales tools"

  # List audited sites
  rattler list sites

  # List runs for a site
  rattler list audits --site-id 1

Use "rattler <command> --help" for more information about a command.`)
}
