package ingest

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/flanksource/bounty-hunter/models"
)

type semgrepJSON struct {
	Results []struct {
		CheckID string `json:"check_id"`
		Path    string `json:"path"`
		Start   struct {
			Line int `json:"line"`
		} `json:"start"`
		Extra struct {
			Message  string `json:"message"`
			Severity string `json:"severity"` // INFO|WARNING|ERROR
			Lines    string `json:"lines"`
			Metadata struct {
				Impact     string `json:"impact"`
				Confidence string `json:"confidence"` // HIGH|MEDIUM|LOW
				Category   string `json:"category"`
			} `json:"metadata"`
		} `json:"extra"`
	} `json:"results"`
}

// ParseSemgrep normalizes semgrep --json output into finding drafts. The
// drafts carry no repository identity or fingerprint yet; the Ingestor fills
// those in.
func ParseSemgrep(b []byte) ([]models.Finding, error) {
	var doc semgrepJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	out := make([]models.Finding, 0, len(doc.Results))
	for _, r := range doc.Results {
		out = append(out, models.Finding{
			Analyzer:    "semgrep",
			Category:    ruleCategory(r.CheckID),
			Title:       ruleTitle(r.CheckID),
			Description: r.Extra.Message,
			Severity:    semgrepSeverity(r.Extra.Severity),
			Impact:      r.Extra.Metadata.Impact,
			FilePath:    filepath.ToSlash(r.Path),
			Line:        safeLine(r.Start.Line),
			Snippet:     truncateSnippet(r.Extra.Lines),
			Confidence:  semgrepConfidence(r.Extra.Metadata.Confidence),
		})
	}
	return out, nil
}

// ruleCategory keeps only the final rule id segment, which is stable across
// rulepack reorganizations (e.g. "rules.solana.missing-signer-check" ->
// "missing-signer-check").
func ruleCategory(checkID string) string {
	if idx := strings.LastIndexAny(checkID, "./"); idx >= 0 {
		return checkID[idx+1:]
	}
	return checkID
}

func ruleTitle(checkID string) string {
	return strings.ReplaceAll(ruleCategory(checkID), "-", " ")
}

func semgrepSeverity(s string) models.Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return models.SeverityHigh
	case "WARNING":
		return models.SeverityMedium
	default:
		return models.SeverityInformational
	}
}

func semgrepConfidence(s string) int {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return 90
	case "MEDIUM":
		return 70
	case "LOW":
		return 50
	default:
		return 60
	}
}

func safeLine(line int) int {
	if line < 0 {
		return 0
	}
	return line
}

func truncateSnippet(s string) string {
	if len(s) > models.MaxSnippetLength {
		return s[:models.MaxSnippetLength]
	}
	return s
}
