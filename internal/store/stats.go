package store

import (
	"time"

	"github.com/samber/lo"

	"github.com/flanksource/bounty-hunter/models"
)

// RepositoryCount pairs a repository with its finding count.
type RepositoryCount struct {
	RepoName string `json:"repo_name" gorm:"column:repo_name"`
	Count    int64  `json:"count" gorm:"column:count"`
}

// Statistics is a read-only aggregate over the findings and scan_history
// tables.
type Statistics struct {
	TotalFindings            int64                          `json:"total_findings"`
	BySeverity               map[models.Severity]int64      `json:"by_severity"`
	ByStatus                 map[models.FindingStatus]int64 `json:"by_status"`
	TotalRepositoriesScanned int64                          `json:"total_repositories_scanned"`
	TotalScans               int64                          `json:"total_scans"`
	Submissions              int64                          `json:"submissions"`
	RecentFindings           int64                          `json:"recent_findings"`
	EstimatedEarnings        float64                        `json:"estimated_earnings"`
	TopRepositories          []RepositoryCount              `json:"top_repositories,omitempty"`
}

// Statistics computes the aggregate snapshot. Pure read; safe to call
// concurrently with any other operation.
func (s *Store) Statistics() (*Statistics, error) {
	stats := &Statistics{}

	if err := s.db.Model(&models.Finding{}).Count(&stats.TotalFindings).Error; err != nil {
		return nil, persistence("statistics", err)
	}

	type severityRow struct {
		Severity models.Severity
		Count    int64
	}
	var bySeverity []severityRow
	err := s.db.Model(&models.Finding{}).
		Select("severity, COUNT(*) as count").
		Group("severity").
		Scan(&bySeverity).Error
	if err != nil {
		return nil, persistence("statistics", err)
	}
	stats.BySeverity = lo.Associate(bySeverity, func(r severityRow) (models.Severity, int64) {
		return r.Severity, r.Count
	})

	type statusRow struct {
		Status models.FindingStatus
		Count  int64
	}
	var byStatus []statusRow
	err = s.db.Model(&models.Finding{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, persistence("statistics", err)
	}
	stats.ByStatus = lo.Associate(byStatus, func(r statusRow) (models.FindingStatus, int64) {
		return r.Status, r.Count
	})

	err = s.db.Model(&models.ScanHistory{}).
		Distinct("repo_name").
		Count(&stats.TotalRepositoriesScanned).Error
	if err != nil {
		return nil, persistence("statistics", err)
	}

	if err := s.db.Model(&models.ScanHistory{}).Count(&stats.TotalScans).Error; err != nil {
		return nil, persistence("statistics", err)
	}

	stats.Submissions = lo.Sum(lo.Map([]models.FindingStatus{
		models.StatusSubmitted, models.StatusPaid,
	}, func(st models.FindingStatus, _ int) int64 {
		return stats.ByStatus[st]
	}))

	err = s.db.Model(&models.Finding{}).
		Where("created_at > ?", time.Now().AddDate(0, 0, -7)).
		Count(&stats.RecentFindings).Error
	if err != nil {
		return nil, persistence("statistics", err)
	}

	err = s.db.Model(&models.Finding{}).
		Where("status = ?", models.StatusPaid).
		Select("COALESCE(SUM(bounty_amount), 0)").
		Scan(&stats.EstimatedEarnings).Error
	if err != nil {
		return nil, persistence("statistics", err)
	}

	err = s.db.Model(&models.Finding{}).
		Select("repo_name, COUNT(*) as count").
		Group("repo_name").
		Order("count DESC").
		Limit(10).
		Scan(&stats.TopRepositories).Error
	if err != nil {
		return nil, persistence("statistics", err)
	}

	return stats, nil
}
