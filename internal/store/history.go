package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/flanksource/bounty-hunter/models"
)

// AppendScanHistory appends one immutable ledger entry for a scan run.
// The ledger is append-only: duplicate scan ids are a persistence error and
// no update or delete is exposed for this table.
func (s *Store) AppendScanHistory(rec *models.ScanHistory) error {
	if err := rec.Validate(); err != nil {
		return validation(err)
	}
	if rec.ScanDate.IsZero() {
		rec.ScanDate = time.Now()
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(rec).Error
	})
	if err != nil {
		return persistence("append scan history", err)
	}
	return nil
}

// GetScanHistory retrieves a single ledger entry by scan id.
func (s *Store) GetScanHistory(scanID string) (*models.ScanHistory, error) {
	var rec models.ScanHistory
	if err := s.db.Where("scan_id = ?", scanID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: "scan", ID: scanID}
		}
		return nil, persistence("get scan history", err)
	}
	return &rec, nil
}

// ListScanHistory returns ledger entries newest first, optionally filtered by
// repository name.
func (s *Store) ListScanHistory(repoName string, limit int) ([]models.ScanHistory, error) {
	query := s.db.Model(&models.ScanHistory{}).Order("scan_date DESC, scan_id DESC")
	if repoName != "" {
		query = query.Where("repo_name = ?", repoName)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.ScanHistory
	if err := query.Find(&records).Error; err != nil {
		return nil, persistence("list scan history", err)
	}
	return records, nil
}
