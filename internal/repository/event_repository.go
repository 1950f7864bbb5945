package repository

import (
	"context"
	"time"

	"event-portal/internal/models"

	"gorm.io/gorm"
)

// CreateCategory inserts a category
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// ListCategories returns categories by name
func (r *Repository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// CreateSponsor inserts a sponsor
func (r *Repository) CreateSponsor(ctx context.Context, sponsor *models.Sponsor) error {
	return r.db.WithContext(ctx).Create(sponsor).Error
}

// ListSponsors returns sponsors grouped by tier
func (r *Repository) ListSponsors(ctx context.Context) ([]*models.Sponsor, error) {
	var sponsors []*models.Sponsor
	err := r.db.WithContext(ctx).Order("tier ASC, name ASC").Find(&sponsors).Error
	return sponsors, err
}

// CreateSponsorRequest inserts a sponsorship enquiry
func (r *Repository) CreateSponsorRequest(ctx context.Context, req *models.SponsorRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// ListSponsorRequests returns enquiries, optionally filtered by status
func (r *Repository) ListSponsorRequests(ctx context.Context, status models.SponsorRequestStatus) ([]*models.SponsorRequest, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var requests []*models.SponsorRequest
	err := q.Find(&requests).Error
	return requests, err
}

// ReviewSponsorRequest settles a pending enquiry. It returns false when the
// request was already reviewed.
func (r *Repository) ReviewSponsorRequest(ctx context.Context, id uint, status models.SponsorRequestStatus, reviewerID uint) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.SponsorRequest{}).
		Where("id = ? AND status = ?", id, models.SponsorRequestPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// GetSponsorRequestByID retrieves an enquiry
func (r *Repository) GetSponsorRequestByID(ctx context.Context, id uint) (*models.SponsorRequest, error) {
	var req models.SponsorRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateStall inserts a stall
func (r *Repository) CreateStall(ctx context.Context, stall *models.Stall) error {
	return r.db.WithContext(ctx).Create(stall).Error
}

// ListStalls returns stalls by name
func (r *Repository) ListStalls(ctx context.Context) ([]*models.Stall, error) {
	var stalls []*models.Stall
	err := r.db.WithContext(ctx).Order("name ASC").Find(&stalls).Error
	return stalls, err
}

// GetStallByID retrieves a stall
func (r *Repository) GetStallByID(ctx context.Context, id uint) (*models.Stall, error) {
	var stall models.Stall
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&stall).Error
	if err != nil {
		return nil, err
	}
	return &stall, nil
}

// BookStall moves a stall from Available to Booked for userID. It returns
// false when the stall was not available.
func (r *Repository) BookStall(ctx context.Context, stallID, userID uint) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Stall{}).
		Where("id = ? AND status = ?", stallID, models.StallAvailable).
		Updates(map[string]interface{}{
			"status":            models.StallBooked,
			"booked_by_user_id": userID,
			"booked_at":         now,
			"updated_at":        now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ReleaseStall makes a stall available again
func (r *Repository) ReleaseStall(ctx context.Context, stallID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Stall{}).
		Where("id = ?", stallID).
		Updates(map[string]interface{}{
			"status":            models.StallAvailable,
			"booked_by_user_id": nil,
			"booked_at":         nil,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateAdminLog appends an audit entry
func (r *Repository) CreateAdminLog(ctx context.Context, entry *models.AdminLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListAdminLogs returns the most recent audit entries
func (r *Repository) ListAdminLogs(ctx context.Context, limit int) ([]*models.AdminLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []*models.AdminLog
	err := r.db.WithContext(ctx).Preload("Admin").Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
