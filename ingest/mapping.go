package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flanksource/bounty-hunter/models"
)

// SeverityMapping overrides analyzer-reported severities per vulnerability
// category, loaded from an optional YAML file:
//
//	categories:
//	  missing-signer-check: Critical
//	  unchecked-arithmetic: Medium
type SeverityMapping struct {
	Categories map[string]models.Severity `yaml:"categories"`
}

// LoadSeverityMapping reads and validates a severity mapping file.
func LoadSeverityMapping(path string) (*SeverityMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read severity mapping: %w", err)
	}

	var mapping SeverityMapping
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse severity mapping: %w", err)
	}

	for category, sev := range mapping.Categories {
		if err := sev.Validate(); err != nil {
			return nil, fmt.Errorf("severity mapping for %q: %w", category, err)
		}
	}
	return &mapping, nil
}

// Apply returns the overridden severity for a category, or the analyzer's own
// severity when no override exists.
func (m *SeverityMapping) Apply(category string, fallback models.Severity) models.Severity {
	if m == nil {
		return fallback
	}
	if sev, ok := m.Categories[category]; ok {
		return sev
	}
	return fallback
}
