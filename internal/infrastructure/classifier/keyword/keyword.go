// Package keyword is the rule-based classification backend: a category
// wins by matching the most keywords in the text. Rules are compiled in
// but can be replaced from a YAML file.
package keyword

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/docsight/internal/core/domain"
)

type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

func defaultRules() []Rule {
	return []Rule{
		{Category: "Contract", Keywords: []string{"agreement", "contract", "terms", "conditions", "signature"}},
		{Category: "Report", Keywords: []string{"report", "summary", "conclusion", "findings", "analysis"}},
		{Category: "Email", Keywords: []string{"dear", "regards", "sincerely", "best regards", "email"}},
		{Category: "Memo", Keywords: []string{"memo", "memorandum", "internal", "confidential"}},
		{Category: "Proposal", Keywords: []string{"proposal", "offer", "quote", "pricing", "estimate"}},
		{Category: "Invoice", Keywords: []string{"invoice", "bill", "payment", "amount due", "total"}},
		{Category: "Resume", Keywords: []string{"resume", "cv", "experience", "education", "skills"}},
		{Category: "Presentation", Keywords: []string{"slide", "presentation", "agenda", "overview"}},
		{Category: "Manual", Keywords: []string{"manual", "guide", "instructions", "how to", "steps"}},
		{Category: "Policy", Keywords: []string{"policy", "procedure", "guidelines", "rules", "compliance"}},
	}
}

type Backend struct {
	rules []Rule
}

func New() *Backend {
	return &Backend{rules: defaultRules()}
}

// NewFromFile loads rules from a YAML file of the form:
//
//	rules:
//	  - category: Contract
//	    keywords: [agreement, contract]
func NewFromFile(path string) (*Backend, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword rules: %w", err)
	}
	var parsed rulesFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse keyword rules: %w", err)
	}
	if len(parsed.Rules) == 0 {
		return nil, fmt.Errorf("keyword rules file %s defines no rules", path)
	}
	return &Backend{rules: parsed.Rules}, nil
}

func (b *Backend) ClassifyText(_ context.Context, text string) (domain.Classification, error) {
	lowered := strings.ToLower(text)

	best := "Other"
	bestMatches := 0
	for _, rule := range b.rules {
		matches := 0
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				matches++
			}
		}
		if matches > bestMatches {
			bestMatches = matches
			best = rule.Category
		}
	}

	if bestMatches == 0 {
		return domain.Classification{Category: "Other", Confidence: 0.5}, nil
	}
	return domain.Classification{Category: best, Confidence: 0.8}, nil
}
