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

package pipeline

import (
	"context"
	"errors"

	"github.com/agentberlin/rattler/plan"
)

// ErrProviderDisabled marks an optional collaborator that is not configured.
// Stages treat it as "skip", not as a failure.
var ErrProviderDisabled = errors.New("provider disabled")

// KeywordProvider supplies keyword research for the content plan.
type KeywordProvider interface {
	KeywordsForSite(ctx context.Context, domain, country, language string, limit int) ([]plan.Keyword, error)
	RelatedKeywords(ctx context.Context, seeds []string, limit int) ([]plan.Keyword, error)
}

// PageSpeedResult is one external performance measurement.
type PageSpeedResult struct {
	URL              string  `json:"url"`
	PerformanceScore float64 `json:"performanceScore"`
	LCPMillis        int     `json:"lcpMillis"`
	CLS              float64 `json:"cls"`
	TBTMillis        int     `json:"tbtMillis"`
}

// PageSpeedProvider measures page performance via an external service.
type PageSpeedProvider interface {
	Analyze(ctx context.Context, url string) (*PageSpeedResult, error)
}

// LLM is the language-model collaborator used for template naming, issue
// refinement and brief polish.
type LLM interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// DisabledKeywords is the default keyword provider.
type DisabledKeywords struct{}

func (DisabledKeywords) KeywordsForSite(context.Context, string, string, string, int) ([]plan.Keyword, error) {
	return nil, ErrProviderDisabled
}

func (DisabledKeywords) RelatedKeywords(context.Context, []string, int) ([]plan.Keyword, error) {
	return nil, ErrProviderDisabled
}

// DisabledPageSpeed is the default performance provider.
type DisabledPageSpeed struct{}

func (DisabledPageSpeed) Analyze(context.Context, string) (*PageSpeedResult, error) {
	return nil, ErrProviderDisabled
}

// DisabledLLM is the default language-model collaborator.
type DisabledLLM struct{}

func (DisabledLLM) Complete(context.Context, string, string) (string, error) {
	return "", ErrProviderDisabled
}
