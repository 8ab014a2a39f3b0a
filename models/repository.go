package models

import (
	"time"
)

// Repository is a tracked source project, upserted whenever a scan completes.
type Repository struct {
	Name string `json:"name" gorm:"column:name;primaryKey"`
	URL  string `json:"url" gorm:"column:url;not null"`

	Owner         string `json:"owner,omitempty" gorm:"column:owner"`
	Stars         int    `json:"stars,omitempty" gorm:"column:stars;default:0"`
	Forks         int    `json:"forks,omitempty" gorm:"column:forks;default:0"`
	AuditPriority int    `json:"audit_priority,omitempty" gorm:"column:audit_priority;default:0"`

	LastScanID   string     `json:"last_scan_id,omitempty" gorm:"column:last_scan_id"`
	LastScanDate *time.Time `json:"last_scan_date,omitempty" gorm:"column:last_scan_date"`
	ScanCount    int64      `json:"scan_count" gorm:"column:scan_count;default:0"`

	// Aggregate finding counts by severity, refreshed on every scan.
	TotalFindings         int64 `json:"total_findings" gorm:"column:total_findings;default:0"`
	CriticalFindings      int64 `json:"critical_findings" gorm:"column:critical_findings;default:0"`
	HighFindings          int64 `json:"high_findings" gorm:"column:high_findings;default:0"`
	MediumFindings        int64 `json:"medium_findings" gorm:"column:medium_findings;default:0"`
	LowFindings           int64 `json:"low_findings" gorm:"column:low_findings;default:0"`
	InformationalFindings int64 `json:"informational_findings" gorm:"column:informational_findings;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName specifies the table name for Repository
func (Repository) TableName() string {
	return "repositories"
}

// SeverityCount returns the aggregate finding count for a single severity.
func (r Repository) SeverityCount(s Severity) int64 {
	switch s {
	case SeverityCritical:
		return r.CriticalFindings
	case SeverityHigh:
		return r.HighFindings
	case SeverityMedium:
		return r.MediumFindings
	case SeverityLow:
		return r.LowFindings
	case SeverityInformational:
		return r.InformationalFindings
	}
	return 0
}

// SetSeverityCount assigns the aggregate finding count for a single severity.
func (r *Repository) SetSeverityCount(s Severity, n int64) {
	switch s {
	case SeverityCritical:
		r.CriticalFindings = n
	case SeverityHigh:
		r.HighFindings = n
	case SeverityMedium:
		r.MediumFindings = n
	case SeverityLow:
		r.LowFindings = n
	case SeverityInformational:
		r.InformationalFindings = n
	}
}
