package repository

import (
	"context"
	"time"

	"event-portal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertVerification stores a fresh OTP for an e-mail, resetting any earlier attempt
func (r *Repository) UpsertVerification(ctx context.Context, v *models.EmailVerification) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"otp_hash", "attempts", "expires_at", "verified", "verified_at", "updated_at"}),
	}).Create(v).Error
}

// GetVerification retrieves the verification record for an e-mail
func (r *Repository) GetVerification(ctx context.Context, email string) (*models.EmailVerification, error) {
	var v models.EmailVerification
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// IncrementVerificationAttempts counts a failed OTP attempt
func (r *Repository) IncrementVerificationAttempts(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Model(&models.EmailVerification{}).
		Where("email = ?", email).
		Update("attempts", gorm.Expr("attempts + ?", 1)).Error
}

// MarkVerified flags an e-mail as verified
func (r *Repository) MarkVerified(ctx context.Context, email string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.EmailVerification{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"verified":    true,
			"verified_at": at,
			"updated_at":  at,
		}).Error
}

// DeleteVerification removes the record once registration consumed it
func (r *Repository) DeleteVerification(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&models.EmailVerification{}).Error
}

// PurgeExpiredVerifications removes unverified records past their expiry
func (r *Repository) PurgeExpiredVerifications(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("verified = ? AND expires_at < ?", false, now).
		Delete(&models.EmailVerification{})
	return result.RowsAffected, result.Error
}
