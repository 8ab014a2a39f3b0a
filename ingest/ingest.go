package ingest

import (
	"fmt"
	"time"

	"github.com/flanksource/commons/logger"

	"github.com/flanksource/bounty-hunter/internal/store"
	"github.com/flanksource/bounty-hunter/models"
)

// ScanInput is the raw output of one scan run against one repository
// snapshot, handed over by the external orchestrator.
type ScanInput struct {
	ScanID   string
	RepoName string
	RepoURL  string

	Owner         string
	Stars         int
	Forks         int
	AuditPriority int

	SemgrepOutput    []byte
	CargoAuditOutput []byte

	FilesScanned int
	LinesScanned int
	Duration     time.Duration
}

// ScanResult summarizes what a single ingestion run wrote to the store.
type ScanResult struct {
	ScanID               string `json:"scan_id"`
	Inserted             int    `json:"inserted"`
	Updated              int    `json:"updated"`
	SemgrepFindings      int    `json:"semgrep_findings"`
	CargoVulnerabilities int    `json:"cargo_vulnerabilities"`
}

// Ingestor turns raw analyzer output into deduplicated findings, then
// records the repository and ledger rows for the scan.
type Ingestor struct {
	store   *store.Store
	mapping *SeverityMapping
}

// New creates an Ingestor. The severity mapping may be nil.
func New(s *store.Store, mapping *SeverityMapping) *Ingestor {
	return &Ingestor{store: s, mapping: mapping}
}

// NewScanID derives a readable scan identifier for a run starting now.
func NewScanID(repoName string, now time.Time) string {
	return fmt.Sprintf("SCAN-%s-%s", now.Format("20060102-150405"), repoName)
}

// Run ingests one scan: parse, normalize, fingerprint and upsert every
// analyzer hit, then upsert the repository row and append the scan ledger
// entry. Parse and persistence failures are recorded as a failed scan before
// being returned.
func (i *Ingestor) Run(in ScanInput) (*ScanResult, error) {
	if in.ScanID == "" {
		return nil, fmt.Errorf("missing required field: scan_id")
	}
	if in.RepoName == "" {
		return nil, fmt.Errorf("missing required field: repo_name")
	}
	if in.RepoURL == "" {
		return nil, fmt.Errorf("missing required field: repo_url")
	}

	result := &ScanResult{ScanID: in.ScanID}

	var drafts []models.Finding

	if len(in.SemgrepOutput) > 0 {
		semgrep, err := ParseSemgrep(in.SemgrepOutput)
		if err != nil {
			return result, i.fail(in, result, fmt.Errorf("failed to parse semgrep output: %w", err))
		}
		result.SemgrepFindings = len(semgrep)
		drafts = append(drafts, semgrep...)
	}

	if len(in.CargoAuditOutput) > 0 {
		cargo, err := ParseCargoAudit(in.CargoAuditOutput)
		if err != nil {
			return result, i.fail(in, result, fmt.Errorf("failed to parse cargo-audit output: %w", err))
		}
		result.CargoVulnerabilities = len(cargo)
		drafts = append(drafts, cargo...)
	}

	for idx := range drafts {
		f := &drafts[idx]
		f.RepoName = in.RepoName
		f.RepoURL = in.RepoURL
		f.ScanID = in.ScanID
		f.Severity = i.mapping.Apply(f.Category, f.Severity)
		f.EnsureID()

		res, err := i.store.UpsertFinding(f)
		if err != nil {
			return result, i.fail(in, result, fmt.Errorf("failed to upsert finding %s: %w", f.ID, err))
		}
		if res == store.Inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	err := i.store.UpsertRepository(in.RepoName, in.RepoURL, store.ScanStats{
		ScanID:        in.ScanID,
		Owner:         in.Owner,
		Stars:         in.Stars,
		Forks:         in.Forks,
		AuditPriority: in.AuditPriority,
	})
	if err != nil {
		return result, i.fail(in, result, err)
	}

	if err := i.store.AppendScanHistory(i.record(in, result, models.ScanCompleted, "")); err != nil {
		return result, err
	}

	logger.Infof("Scan %s: %d new, %d updated findings for %s",
		in.ScanID, result.Inserted, result.Updated, in.RepoName)
	return result, nil
}

// fail records the scan as failed in the ledger and returns the cause. The
// ledger write is best-effort on top of an already failing scan; its own
// error is logged, never masking the original.
func (i *Ingestor) fail(in ScanInput, result *ScanResult, cause error) error {
	if err := i.store.AppendScanHistory(i.record(in, result, models.ScanFailed, cause.Error())); err != nil {
		logger.Warnf("Failed to record failed scan %s: %v", in.ScanID, err)
	}
	return cause
}

func (i *Ingestor) record(in ScanInput, result *ScanResult, status models.ScanStatus, errMsg string) *models.ScanHistory {
	return &models.ScanHistory{
		ScanID:               in.ScanID,
		RepoName:             in.RepoName,
		SemgrepFindings:      result.SemgrepFindings,
		CargoVulnerabilities: result.CargoVulnerabilities,
		FilesScanned:         in.FilesScanned,
		LinesScanned:         in.LinesScanned,
		DurationSeconds:      int(in.Duration.Seconds()),
		Status:               status,
		ErrorMessage:         errMsg,
	}
}
