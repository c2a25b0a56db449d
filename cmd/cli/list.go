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
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/agentberlin/rattler/internal/store"
)

func runList(args []string) error {
	if len(args) < 1 {
		printListUsage()
		return fmt.Errorf("subcommand required: sites or audits")
	}

	subcommand := args[0]

	switch subcommand {
	case "sites":
		return runListSites(args[1:])
	case "audits":
		return runListAudits(args[1:])
	case "help", "-h", "--help":
		printListUsage()
		return nil
	default:
		printListUsage()
		return fmt.Errorf("unknown subcommand: %s", subcommand)
	}
}

func printListUsage() {
	fmt.Println(`Usage: rattler list <subcommand> [flags]

Subcommands:
  sites     List all audited sites
  audits    List audit runs for a site

Examples:
  # List all sites
  rattler list sites

  # List audit runs for a site
  rattler list audits --site-id 1`)
}

func runListSites(args []string) error {
	fs := flag.NewFlagSet("list sites", flag.ExitOnError)

	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := store.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	sites, err := st.GetSitesForTenant(tenantID())
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(sites, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(sites) == 0 {
		fmt.Println("No sites audited yet.")
		return nil
	}

	fmt.Printf("%-6s %-40s %s\n", "ID", "DOMAIN", "LAST COMPLETED AUDIT")
	for _, site := range sites {
		last := "never"
		if run, err := st.GetLatestCompletedAudit(site.ID); err == nil && run != nil {
			last = fmt.Sprintf("%s (score %d)", time.Unix(run.CreatedAt, 0).Format("2006-01-02"), run.Score)
		}
		fmt.Printf("%-6d %-40s %s\n", site.ID, site.Domain, last)
	}
	return nil
}

func runListAudits(args []string) error {
	fs := flag.NewFlagSet("list audits", flag.ExitOnError)

	var siteID uint
	var jsonOutput bool
	fs.UintVar(&siteID, "site-id", 0, "Site ID to list audit runs for")
	fs.BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if siteID == 0 {
		return fmt.Errorf("--site-id is required")
	}

	st, err := store.NewStore()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	var runs []store.AuditRun
	if err := st.DB().Where("site_id = ?", siteID).Order("created_at DESC").Find(&runs).Error; err != nil {
		return fmt.Errorf("failed to list audit runs: %v", err)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(runs) == 0 {
		fmt.Println("No audit runs for this site.")
		return nil
	}

	fmt.Printf("%-38s %-10s %-6s %-6s %-7s %s\n", "REPORT ID", "STATE", "SCORE", "GRADE", "PAGES", "DATE")
	for _, run := range runs {
		fmt.Printf("%-38s %-10s %-6d %-6s %-7d %s\n",
			run.ReportID, run.State, run.Score, run.Grade, run.PagesCrawled,
			time.Unix(run.CreatedAt, 0).Format("2006-01-02 15:04"))
	}
	return nil
}
