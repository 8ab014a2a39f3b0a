package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/flanksource/bounty-hunter/models"
)

// Transition moves a finding to the target lifecycle state. Only edges in
// the state machine are permitted; anything else fails with
// InvalidTransitionError and leaves the row unchanged. A valid transition
// updates status and the last-updated timestamp, nothing else (moving to
// Submitted additionally stamps the submission time).
func (s *Store) Transition(id string, target models.FindingStatus) error {
	if err := target.Validate(); err != nil {
		return validation(err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var f models.Finding
		if err := tx.Where("id = ?", id).First(&f).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: "finding", ID: id}
			}
			return err
		}

		if !f.Status.CanTransition(target) {
			return &InvalidTransitionError{ID: id, From: f.Status, To: target}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     target,
			"updated_at": now,
		}
		if target == models.StatusSubmitted {
			updates["submitted_at"] = now
		}
		return tx.Model(&models.Finding{}).Where("id = ?", id).Updates(updates).Error
	})

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return notFound
	}
	var invalid *InvalidTransitionError
	if errors.As(err, &invalid) {
		return invalid
	}
	if err != nil {
		return persistence("transition finding", err)
	}
	return nil
}
