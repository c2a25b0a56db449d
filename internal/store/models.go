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

import "encoding/json"

// Site represents an audited website, scoped to a tenant
type Site struct {
	ID        uint       `gorm:"primaryKey"`
	TenantID  string     `gorm:"not null;index:idx_sites_tenant"`
	Domain    string     `gorm:"not null"`
	BaseURL   string     `gorm:"type:text;not null"`
	Audits    []AuditRun `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
	CreatedAt int64      `gorm:"autoCreateTime"`
	UpdatedAt int64      `gorm:"autoUpdateTime"`
}

// Audit run state constants
const (
	AuditStateRunning   = "running"
	AuditStateCompleted = "completed"
	AuditStateFailed    = "failed"
)

// AuditRun represents one end-to-end audit of a site
type AuditRun struct {
	ID           uint          `gorm:"primaryKey"`
	SiteID       uint          `gorm:"not null;index"`
	ReportID     string        `gorm:"uniqueIndex;not null"` // UUID shared with blob keys
	State        string        `gorm:"not null;default:'running'"` // running, completed, failed
	Score        int           `gorm:"default:0"`
	Grade        string        `gorm:"type:text"`
	PagesCrawled int           `gorm:"default:0"`
	ChecksRun    int           `gorm:"default:0"`
	IssuesCount  int           `gorm:"default:0"`
	DurationMs   int64         `gorm:"default:0"`
	Error        string        `gorm:"type:text"`
	Summary      string        `gorm:"type:text"` // JSON severity/category histograms
	Checks       []CheckRecord `gorm:"foreignKey:AuditRunID;constraint:OnDelete:CASCADE"`
	Issues       []SeoIssue    `gorm:"foreignKey:AuditRunID;constraint:OnDelete:CASCADE"`
	Site         *Site         `gorm:"foreignKey:SiteID"`
	CreatedAt    int64         `gorm:"autoCreateTime"`
	UpdatedAt    int64         `gorm:"autoUpdateTime"`
}

// SetSummary serializes the severity/category histograms to JSON
func (a *AuditRun) SetSummary(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	a.Summary = string(data)
	return nil
}

// CheckRecord represents one check result within an audit run
type CheckRecord struct {
	ID             uint   `gorm:"primaryKey"`
	AuditRunID     uint   `gorm:"not null;index"`
	CheckID        int    `gorm:"not null;index"`
	Category       string `gorm:"not null"`
	Name           string `gorm:"not null"`
	Passed         bool   `gorm:"not null"`
	Severity       string `gorm:"not null"`
	AffectedCount  int    `gorm:"default:0"`
	AffectedURLs   string `gorm:"type:text"` // JSON array, truncated sample
	Details        string `gorm:"type:text"` // JSON object
	Recommendation string `gorm:"type:text"`
	CreatedAt      int64  `gorm:"autoCreateTime"`
}

// SetAffectedURLs serializes the affected URL sample to JSON
func (c *CheckRecord) SetAffectedURLs(urls []string) error {
	if len(urls) == 0 {
		c.AffectedURLs = ""
		return nil
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	c.AffectedURLs = string(data)
	return nil
}

// GetAffectedURLs deserializes the affected URL sample
func (c *CheckRecord) GetAffectedURLs() []string {
	if c.AffectedURLs == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(c.AffectedURLs), &urls); err != nil {
		return nil
	}
	return urls
}

// SeoIssue is one deduplicated actionable issue surfaced by an audit run.
// Unlike CheckRecord it carries only failures, one row per (check, page).
type SeoIssue struct {
	ID             uint   `gorm:"primaryKey"`
	AuditRunID     uint   `gorm:"not null;index"`
	CheckID        int    `gorm:"not null;index:idx_issue_check_url"`
	PageURL        string `gorm:"type:text;index:idx_issue_check_url"`
	Severity       string `gorm:"not null"`
	Title          string `gorm:"not null"`
	Recommendation string `gorm:"type:text"`
	CreatedAt      int64  `gorm:"autoCreateTime"`
}
