package repository

import (
	"context"
	"time"

	"event-portal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateContestant inserts a contestant
func (r *Repository) CreateContestant(ctx context.Context, contestant *models.Contestant) error {
	return r.db.WithContext(ctx).Create(contestant).Error
}

// ListContestants returns all contestants with their votes
func (r *Repository) ListContestants(ctx context.Context) ([]*models.Contestant, error) {
	var contestants []*models.Contestant
	err := r.db.WithContext(ctx).Preload("Votes").Order("id ASC").Find(&contestants).Error
	return contestants, err
}

// GetContestantByID retrieves a contestant with its votes
func (r *Repository) GetContestantByID(ctx context.Context, id uint) (*models.Contestant, error) {
	var contestant models.Contestant
	err := r.db.WithContext(ctx).Preload("Votes").Where("id = ?", id).First(&contestant).Error
	if err != nil {
		return nil, err
	}
	return &contestant, nil
}

// GetActiveContestant retrieves the contestant currently open for votes
func (r *Repository) GetActiveContestant(ctx context.Context) (*models.Contestant, error) {
	var contestant models.Contestant
	err := r.db.WithContext(ctx).
		Preload("Votes").
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&contestant).Error
	if err != nil {
		return nil, err
	}
	return &contestant, nil
}

// ActivateContestant makes id the only active contestant
func (r *Repository) ActivateContestant(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.Contestant{}).
			Where("is_active = ? AND id <> ?", true, id).
			Updates(map[string]interface{}{"is_active": false, "updated_at": now}).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Contestant{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"is_active": true, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// DeactivateContestants closes voting on every contestant
func (r *Repository) DeactivateContestants(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.Contestant{}).
		Where("is_active = ?", true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}

// UpsertVote records the user's vote, replacing any earlier vote on the same contestant
func (r *Repository) UpsertVote(ctx context.Context, vote *models.ContestantVote) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contestant_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "voted_at"}),
	}).Create(vote).Error
}

// CreatePitch inserts a pitch
func (r *Repository) CreatePitch(ctx context.Context, pitch *models.Pitch) error {
	return r.db.WithContext(ctx).Create(pitch).Error
}

// GetPitchByID retrieves a pitch
func (r *Repository) GetPitchByID(ctx context.Context, id uint) (*models.Pitch, error) {
	var pitch models.Pitch
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pitch).Error
	if err != nil {
		return nil, err
	}
	return &pitch, nil
}

// ListPitches returns pitches in slot order with their ratings
func (r *Repository) ListPitches(ctx context.Context) ([]*models.Pitch, error) {
	var pitches []*models.Pitch
	err := r.db.WithContext(ctx).Preload("Ratings").Order("slot_order ASC, id ASC").Find(&pitches).Error
	return pitches, err
}

// SetPitchStatus updates a pitch's stage status
func (r *Repository) SetPitchStatus(ctx context.Context, id uint, status models.PitchStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Pitch{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertRating records a judge's score, replacing an earlier one for the same pitch
func (r *Repository) UpsertRating(ctx context.Context, rating *models.PitchRating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pitch_id"}, {Name: "judge_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "updated_at"}),
	}).Create(rating).Error
}
