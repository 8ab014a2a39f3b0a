package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/flanksource/bounty-hunter/models"
)

type cargoAuditJSON struct {
	Vulnerabilities struct {
		Count int `json:"count"`
		List  []struct {
			Advisory struct {
				ID          string `json:"id"`
				Title       string `json:"title"`
				Description string `json:"description"`
				CVSS        string `json:"cvss"`
			} `json:"advisory"`
			Package struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"package"`
		} `json:"list"`
	} `json:"vulnerabilities"`
}

// ParseCargoAudit normalizes cargo-audit --json output into finding drafts.
// Dependency vulnerabilities are anchored at Cargo.lock with the advisory id
// as the category, so re-auditing an unchanged lockfile dedupes cleanly.
func ParseCargoAudit(b []byte) ([]models.Finding, error) {
	var doc cargoAuditJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	out := make([]models.Finding, 0, len(doc.Vulnerabilities.List))
	for _, v := range doc.Vulnerabilities.List {
		out = append(out, models.Finding{
			Analyzer:    "cargo-audit",
			Category:    v.Advisory.ID,
			Title:       fmt.Sprintf("%s: %s", v.Package.Name, v.Advisory.Title),
			Description: v.Advisory.Description,
			Severity:    cvssSeverity(v.Advisory.CVSS),
			Impact:      fmt.Sprintf("Vulnerable dependency %s %s", v.Package.Name, v.Package.Version),
			FilePath:    "Cargo.lock",
			Line:        0,
			Confidence:  95,
		})
	}
	return out, nil
}

// cvssSeverity maps a CVSS base score to the severity enumeration using the
// standard v3 rating bands. Advisories without a score default to High.
func cvssSeverity(cvss string) models.Severity {
	score, err := strconv.ParseFloat(cvss, 64)
	if err != nil {
		return models.SeverityHigh
	}
	switch {
	case score >= 9.0:
		return models.SeverityCritical
	case score >= 7.0:
		return models.SeverityHigh
	case score >= 4.0:
		return models.SeverityMedium
	case score > 0:
		return models.SeverityLow
	default:
		return models.SeverityInformational
	}
}
