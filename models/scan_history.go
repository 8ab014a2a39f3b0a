package models

import (
	"fmt"
	"time"
)

// ScanStatus is the closed set of terminal states for a scan run.
type ScanStatus string

const (
	ScanRunning   ScanStatus = "running"
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
)

// ScanHistory is an immutable audit log entry for one scan run. Rows are
// append-only: the store exposes no update or delete for this table.
type ScanHistory struct {
	ScanID   string `json:"scan_id" gorm:"column:scan_id;primaryKey"`
	RepoName string `json:"repo_name" gorm:"column:repo_name;not null;index"`

	SemgrepFindings      int `json:"semgrep_findings" gorm:"column:semgrep_findings;default:0"`
	CargoVulnerabilities int `json:"cargo_vulnerabilities" gorm:"column:cargo_vulnerabilities;default:0"`
	LLMFindings          int `json:"llm_findings" gorm:"column:llm_findings;default:0"`
	FilesScanned         int `json:"files_scanned" gorm:"column:files_scanned;default:0"`
	LinesScanned         int `json:"lines_scanned" gorm:"column:lines_scanned;default:0"`

	DurationSeconds int        `json:"duration_seconds,omitempty" gorm:"column:duration_seconds;default:0"`
	Status          ScanStatus `json:"status" gorm:"column:status;not null"`
	ErrorMessage    string     `json:"error_message,omitempty" gorm:"column:error_message"`
	ScanDate        time.Time  `json:"scan_date" gorm:"column:scan_date;index"`
}

// TableName specifies the table name for ScanHistory
func (ScanHistory) TableName() string {
	return "scan_history"
}

// Validate rejects malformed scan records before they reach the ledger.
func (s *ScanHistory) Validate() error {
	if s.ScanID == "" {
		return fmt.Errorf("missing required field: scan_id")
	}
	if s.RepoName == "" {
		return fmt.Errorf("missing required field: repo_name")
	}
	switch s.Status {
	case ScanRunning, ScanCompleted, ScanFailed:
	default:
		return fmt.Errorf("invalid scan status %q (valid: running, completed, failed)", s.Status)
	}
	return nil
}
