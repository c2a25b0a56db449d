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
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// WriteAuditResults persists the run, all check records and the issue list
// in a single transaction. The caller has already uploaded the report files;
// a failure here must not leave a half-written run behind.
func (s *Store) WriteAuditResults(run *AuditRun, checks []CheckRecord, issues []SeoIssue) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to create audit run: %v", err)
		}
		for i := range checks {
			checks[i].AuditRunID = run.ID
		}
		if len(checks) > 0 {
			if err := tx.CreateInBatches(checks, 100).Error; err != nil {
				return fmt.Errorf("failed to write check records: %v", err)
			}
		}
		for i := range issues {
			issues[i].AuditRunID = run.ID
		}
		if len(issues) > 0 {
			if err := tx.CreateInBatches(issues, 100).Error; err != nil {
				return fmt.Errorf("failed to write issues: %v", err)
			}
		}
		return nil
	})
}

// GetLatestCompletedAudit returns the most recent completed run for a site,
// or nil when the site has never been audited successfully.
func (s *Store) GetLatestCompletedAudit(siteID uint) (*AuditRun, error) {
	var run AuditRun
	err := s.db.Where("site_id = ? AND state = ?", siteID, AuditStateCompleted).
		Order("created_at DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest audit: %v", err)
	}
	return &run, nil
}

// GetAuditRunByReportID returns a run by its report UUID
func (s *Store) GetAuditRunByReportID(reportID string) (*AuditRun, error) {
	var run AuditRun
	if err := s.db.Where("report_id = ?", reportID).First(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit run %s: %v", reportID, err)
	}
	return &run, nil
}

// GetCheckRecords returns all check records of a run ordered by check id
func (s *Store) GetCheckRecords(auditRunID uint) ([]CheckRecord, error) {
	var records []CheckRecord
	if err := s.db.Where("audit_run_id = ?", auditRunID).Order("check_id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get check records: %v", err)
	}
	return records, nil
}

// GetIssues returns the issues of a run, worst severity first
func (s *Store) GetIssues(auditRunID uint) ([]SeoIssue, error) {
	var issues []SeoIssue
	err := s.db.Where("audit_run_id = ?", auditRunID).
		Order("CASE severity WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END, check_id").
		Find(&issues).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get issues: %v", err)
	}
	return issues, nil
}
