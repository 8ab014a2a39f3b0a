package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/flanksource/bounty-hunter/models"
)

// ScanStats carries per-scan repository metadata applied on upsert.
type ScanStats struct {
	ScanID        string
	ScanDate      time.Time
	Owner         string
	Stars         int
	Forks         int
	AuditPriority int
}

// UpsertRepository creates or refreshes the repository row after a scan:
// last-scanned metadata, the cumulative scan count and the per-severity
// finding aggregates recomputed from the findings table.
func (s *Store) UpsertRepository(name, url string, stats ScanStats) error {
	if name == "" {
		return validation(fmt.Errorf("missing required field: name"))
	}
	if url == "" {
		return validation(fmt.Errorf("missing required field: url"))
	}

	scanDate := stats.ScanDate
	if scanDate.IsZero() {
		scanDate = time.Now()
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var repo models.Repository
		err := tx.Where("name = ?", name).First(&repo).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			repo = models.Repository{Name: name, CreatedAt: time.Now()}
		} else if err != nil {
			return err
		}

		repo.URL = url
		if stats.Owner != "" {
			repo.Owner = stats.Owner
		}
		if stats.Stars > 0 {
			repo.Stars = stats.Stars
		}
		if stats.Forks > 0 {
			repo.Forks = stats.Forks
		}
		if stats.AuditPriority > 0 {
			repo.AuditPriority = stats.AuditPriority
		}
		repo.LastScanID = stats.ScanID
		repo.LastScanDate = &scanDate
		repo.ScanCount++
		repo.UpdatedAt = time.Now()

		if err := refreshSeverityCounts(tx, &repo); err != nil {
			return err
		}

		return tx.Save(&repo).Error
	})
	if err != nil {
		return persistence("upsert repository", err)
	}
	return nil
}

// refreshSeverityCounts recomputes the aggregate finding counts for the repo.
func refreshSeverityCounts(tx *gorm.DB, repo *models.Repository) error {
	type row struct {
		Severity models.Severity
		Count    int64
	}
	var rows []row
	err := tx.Model(&models.Finding{}).
		Select("severity, COUNT(*) as count").
		Where("repo_name = ?", repo.Name).
		Group("severity").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	repo.TotalFindings = 0
	for _, sev := range models.Severities {
		repo.SetSeverityCount(sev, 0)
	}
	for _, r := range rows {
		repo.SetSeverityCount(r.Severity, r.Count)
		repo.TotalFindings += r.Count
	}
	return nil
}

// GetRepository retrieves a tracked repository by name.
func (s *Store) GetRepository(name string) (*models.Repository, error) {
	var repo models.Repository
	if err := s.db.Where("name = ?", name).First(&repo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: "repository", ID: name}
		}
		return nil, persistence("get repository", err)
	}
	return &repo, nil
}

// ListRepositories returns all tracked repositories, highest audit priority
// first.
func (s *Store) ListRepositories() ([]models.Repository, error) {
	var repos []models.Repository
	err := s.db.Model(&models.Repository{}).
		Order("audit_priority DESC, name ASC").
		Find(&repos).Error
	if err != nil {
		return nil, persistence("list repositories", err)
	}
	return repos, nil
}
