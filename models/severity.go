package models

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Severity is the closed set of impact levels a finding may carry.
type Severity string

const (
	SeverityCritical      Severity = "Critical"
	SeverityHigh          Severity = "High"
	SeverityMedium        Severity = "Medium"
	SeverityLow           Severity = "Low"
	SeverityInformational Severity = "Informational"
)

// Severities lists all valid severities ordered from most to least severe.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInformational,
}

// ParseSeverity matches the input against the closed enumeration,
// case-insensitively. Inputs outside the set are rejected, never coerced.
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range Severities {
		if strings.EqualFold(s, string(sev)) {
			return sev, nil
		}
	}
	return "", fmt.Errorf("invalid severity %q (valid: %s)", s, joinSeverities())
}

func joinSeverities() string {
	parts := make([]string, len(Severities))
	for i, s := range Severities {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// Validate returns an error if the severity is not one of the closed set.
func (s Severity) Validate() error {
	_, err := ParseSeverity(string(s))
	return err
}

// Rank returns the ordering position of the severity, 0 being Critical.
// Unknown severities rank last.
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if s == sev {
			return i
		}
	}
	return len(Severities)
}

// AtLeast reports whether s is at least as severe as min.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() <= min.Rank()
}

// Colored renders the severity with the conventional terminal color.
func (s Severity) Colored() string {
	switch s {
	case SeverityCritical:
		return color.New(color.FgRed, color.Bold).Sprint(string(s))
	case SeverityHigh:
		return color.RedString(string(s))
	case SeverityMedium:
		return color.YellowString(string(s))
	case SeverityLow:
		return color.GreenString(string(s))
	default:
		return color.New(color.FgHiBlack).Sprint(string(s))
	}
}
