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

// FindOrCreateSite gets or creates a site by (tenant, domain)
func (s *Store) FindOrCreateSite(tenantID, domain, baseURL string) (*Site, error) {
	var site Site
	result := s.db.Where("tenant_id = ? AND domain = ?", tenantID, domain).First(&site)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		site = Site{
			TenantID: tenantID,
			Domain:   domain,
			BaseURL:  baseURL,
		}
		if err := s.db.Create(&site).Error; err != nil {
			return nil, fmt.Errorf("failed to create site: %v", err)
		}
		return &site, nil
	}

	if result.Error != nil {
		return nil, fmt.Errorf("failed to get site: %v", result.Error)
	}

	// Keep the stored base URL aligned with the latest normalized form
	if site.BaseURL != baseURL {
		site.BaseURL = baseURL
		s.db.Save(&site)
	}

	return &site, nil
}

// GetSite returns a site by ID
func (s *Store) GetSite(siteID uint) (*Site, error) {
	var site Site
	if err := s.db.First(&site, siteID).Error; err != nil {
		return nil, fmt.Errorf("failed to get site %d: %v", siteID, err)
	}
	return &site, nil
}

// GetSitesForTenant returns all sites belonging to a tenant
func (s *Store) GetSitesForTenant(tenantID string) ([]Site, error) {
	var sites []Site
	if err := s.db.Where("tenant_id = ?", tenantID).Order("domain").Find(&sites).Error; err != nil {
		return nil, fmt.Errorf("failed to list sites: %v", err)
	}
	return sites, nil
}
