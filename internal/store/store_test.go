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

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStoreForTesting(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return s
}

func TestFindOrCreateSite(t *testing.T) {
	s := testStore(t)

	site, err := s.FindOrCreateSite("t1", "example.com", "https://example.com/")
	require.NoError(t, err)
	require.NotZero(t, site.ID)

	again, err := s.FindOrCreateSite("t1", "example.com", "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, site.ID, again.ID, "same tenant and domain resolve to one row")

	other, err := s.FindOrCreateSite("t2", "example.com", "https://example.com/")
	require.NoError(t, err)
	assert.NotEqual(t, site.ID, other.ID, "tenants are isolated")
}

func TestFindOrCreateSiteUpdatesBaseURL(t *testing.T) {
	s := testStore(t)

	_, err := s.FindOrCreateSite("t1", "example.com", "http://example.com/")
	require.NoError(t, err)

	site, err := s.FindOrCreateSite("t1", "example.com", "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", site.BaseURL)
}

func TestWriteAuditResults(t *testing.T) {
	s := testStore(t)
	site, err := s.FindOrCreateSite("t1", "example.com", "https://example.com/")
	require.NoError(t, err)

	run := &AuditRun{
		SiteID:       site.ID,
		ReportID:     "report-1",
		State:        AuditStateCompleted,
		Score:        82,
		Grade:        "B",
		PagesCrawled: 14,
		ChecksRun:    100,
		IssuesCount:  2,
	}
	require.NoError(t, run.SetSummary(map[string]int{"failed": 2}))

	checks := []CheckRecord{
		{CheckID: 11, Category: "On-Page SEO", Name: "titles", Passed: false, Severity: "high", AffectedCount: 2},
		{CheckID: 1, Category: "Crawlability", Name: "robots", Passed: true, Severity: "low"},
	}
	require.NoError(t, checks[0].SetAffectedURLs([]string{"https://example.com/a", "https://example.com/b"}))

	issues := []SeoIssue{
		{CheckID: 11, PageURL: "https://example.com/a", Severity: "high", Title: "titles"},
		{CheckID: 11, PageURL: "https://example.com/b", Severity: "high", Title: "titles"},
	}

	require.NoError(t, s.WriteAuditResults(run, checks, issues))
	require.NotZero(t, run.ID)

	stored, err := s.GetCheckRecords(run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 1, stored[0].CheckID, "ordered by check id")
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, stored[1].GetAffectedURLs())

	storedIssues, err := s.GetIssues(run.ID)
	require.NoError(t, err)
	assert.Len(t, storedIssues, 2)
	for _, issue := range storedIssues {
		assert.Equal(t, run.ID, issue.AuditRunID)
	}
}

func TestWriteAuditResultsRejectsDuplicateReportID(t *testing.T) {
	s := testStore(t)
	site, err := s.FindOrCreateSite("t1", "example.com", "https://example.com/")
	require.NoError(t, err)

	first := &AuditRun{SiteID: site.ID, ReportID: "dup", State: AuditStateCompleted}
	require.NoError(t, s.WriteAuditResults(first, nil, nil))

	second := &AuditRun{SiteID: site.ID, ReportID: "dup", State: AuditStateCompleted}
	checks := []CheckRecord{{CheckID: 1, Category: "Crawlability", Name: "robots", Severity: "low"}}
	err = s.WriteAuditResults(second, checks, nil)
	assert.Error(t, err, "report ids are unique; the transaction rolls back")

	stored, err := s.GetCheckRecords(first.ID)
	require.NoError(t, err)
	assert.Empty(t, stored, "rolled-back checks must not attach to the earlier run")
}

func TestGetLatestCompletedAudit(t *testing.T) {
	s := testStore(t)
	site, err := s.FindOrCreateSite("t1", "example.com", "https://example.com/")
	require.NoError(t, err)

	latest, err := s.GetLatestCompletedAudit(site.ID)
	require.NoError(t, err)
	assert.Nil(t, latest, "no audits yet")

	require.NoError(t, s.WriteAuditResults(&AuditRun{SiteID: site.ID, ReportID: "r1", State: AuditStateCompleted, Score: 60}, nil, nil))
	require.NoError(t, s.WriteAuditResults(&AuditRun{SiteID: site.ID, ReportID: "r2", State: AuditStateFailed}, nil, nil))

	latest, err = s.GetLatestCompletedAudit(site.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "r1", latest.ReportID, "failed runs are skipped")
}

func TestGetSitesForTenant(t *testing.T) {
	s := testStore(t)
	_, err := s.FindOrCreateSite("t1", "beta.example.com", "https://beta.example.com/")
	require.NoError(t, err)
	_, err = s.FindOrCreateSite("t1", "alpha.example.com", "https://alpha.example.com/")
	require.NoError(t, err)
	_, err = s.FindOrCreateSite("t2", "other.example.com", "https://other.example.com/")
	require.NoError(t, err)

	sites, err := s.GetSitesForTenant("t1")
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "alpha.example.com", sites[0].Domain, "ordered by domain")
}
