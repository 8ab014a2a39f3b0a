package store

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gorm.io/gorm"

	"github.com/flanksource/bounty-hunter/models"
)

// UpsertResult reports whether an upsert inserted a new row or updated an
// existing one.
type UpsertResult string

const (
	Inserted UpsertResult = "inserted"
	Updated  UpsertResult = "updated"
)

// UpsertFinding inserts the finding with status Pending when its fingerprint
// is new, otherwise updates only the mutable descriptive fields. Status and
// creation timestamp are never touched on update; exactly one row exists per
// identifier at all times.
func (s *Store) UpsertFinding(f *models.Finding) (UpsertResult, error) {
	if err := f.Validate(); err != nil {
		return "", validation(err)
	}
	f.EnsureID()

	result := Updated
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Finding
		err := tx.Where("id = ?", f.ID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			now := time.Now()
			f.Status = models.StatusPending
			f.CreatedAt = now
			f.UpdatedAt = now
			result = Inserted
			return tx.Create(f).Error
		}
		if err != nil {
			return err
		}

		// Only descriptive fields are overwritten on re-ingestion
		updates := map[string]interface{}{
			"title":          f.Title,
			"description":    f.Description,
			"impact":         f.Impact,
			"recommendation": f.Recommendation,
			"snippet":        f.Snippet,
			"confidence":     f.Confidence,
			"analyzer":       f.Analyzer,
			"scan_id":        f.ScanID,
			"updated_at":     time.Now(),
		}
		return tx.Model(&models.Finding{}).Where("id = ?", f.ID).Updates(updates).Error
	})
	if err != nil {
		return "", persistence("upsert finding", err)
	}
	return result, nil
}

// GetFinding retrieves a single finding by its identifier.
func (s *Store) GetFinding(id string) (*models.Finding, error) {
	var f models.Finding
	if err := s.db.Where("id = ?", id).First(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Kind: "finding", ID: id}
		}
		return nil, persistence("get finding", err)
	}
	return &f, nil
}

// FindingFilter narrows ListFindings results. Zero values mean "no filter".
type FindingFilter struct {
	Status        models.FindingStatus
	Severity      models.Severity
	Repo          string // exact name or doublestar glob
	MinConfidence int
	Limit         int
}

// ListFindings returns findings matching the filter, ordered by creation
// timestamp descending. The query is stateless; no cursor is retained.
func (s *Store) ListFindings(filter FindingFilter) ([]models.Finding, error) {
	if filter.Status != "" {
		if err := filter.Status.Validate(); err != nil {
			return nil, validation(err)
		}
	}
	if filter.Severity != "" {
		if err := filter.Severity.Validate(); err != nil {
			return nil, validation(err)
		}
	}

	query := s.db.Model(&models.Finding{}).Order("created_at DESC, id DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.MinConfidence > 0 {
		query = query.Where("confidence >= ?", filter.MinConfidence)
	}

	glob := filter.Repo != "" && strings.ContainsAny(filter.Repo, "*?[{")
	if filter.Repo != "" && !glob {
		query = query.Where("repo_name = ?", filter.Repo)
	}
	if !glob && filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var findings []models.Finding
	if err := query.Find(&findings).Error; err != nil {
		return nil, persistence("list findings", err)
	}

	if glob {
		matched := findings[:0]
		for _, f := range findings {
			if ok, err := doublestar.Match(filter.Repo, f.RepoName); err == nil && ok {
				matched = append(matched, f)
			}
		}
		findings = matched
		if filter.Limit > 0 && len(findings) > filter.Limit {
			findings = findings[:filter.Limit]
		}
	}

	return findings, nil
}

// ListPending returns findings awaiting human review at or above the given
// severity, most severe and most confident first.
func (s *Store) ListPending(minSeverity models.Severity) ([]models.Finding, error) {
	if err := minSeverity.Validate(); err != nil {
		return nil, validation(err)
	}

	var findings []models.Finding
	err := s.db.Model(&models.Finding{}).
		Where("status = ?", models.StatusPending).
		Find(&findings).Error
	if err != nil {
		return nil, persistence("list pending findings", err)
	}

	filtered := findings[:0]
	for _, f := range findings {
		if f.Severity.AtLeast(minSeverity) {
			filtered = append(filtered, f)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Severity.Rank() != filtered[j].Severity.Rank() {
			return filtered[i].Severity.Rank() < filtered[j].Severity.Rank()
		}
		return filtered[i].Confidence > filtered[j].Confidence
	})

	return filtered, nil
}

// DeleteFinding removes a finding. Administrative only; normal lifecycle
// never deletes rows.
func (s *Store) DeleteFinding(id string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Finding{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &NotFoundError{Kind: "finding", ID: id}
		}
		return nil
	})
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return notFound
	}
	if err != nil {
		return persistence("delete finding", err)
	}
	return nil
}
