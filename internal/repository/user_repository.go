package repository

import (
	"context"
	"time"

	"event-portal/internal/models"

	"gorm.io/gorm"
)

// CreateUser inserts a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by e-mail
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether a user already registered with email
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// SetPaymentStatus updates a user's payment status
func (r *Repository) SetPaymentStatus(ctx context.Context, userID uint, status models.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"payment_status": status,
			"updated_at":     time.Now(),
		}).Error
}

// UserFilter narrows ListUsers
type UserFilter struct {
	Role          models.Role
	PaymentStatus models.PaymentStatus
	Search        string
	Limit         int
	Offset        int
}

// ListUsers returns users matching filter with the total count
func (r *Repository) ListUsers(ctx context.Context, filter UserFilter) ([]*models.User, int64, error) {
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.User{})
		if filter.Role != "" {
			q = q.Where("role = ?", filter.Role)
		}
		if filter.PaymentStatus != "" {
			q = q.Where("payment_status = ?", filter.PaymentStatus)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Where("name LIKE ? OR email LIKE ?", like, like)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var users []*models.User
	err := query().
		Preload("College").
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// CountUsersByPaymentStatus groups users by payment status
func (r *Repository) CountUsersByPaymentStatus(ctx context.Context) (map[models.PaymentStatus]int64, error) {
	var rows []struct {
		PaymentStatus models.PaymentStatus
		Count         int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("payment_status, COUNT(*) AS count").
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.PaymentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.PaymentStatus] = row.Count
	}
	return counts, nil
}

// CountUsersByRole groups users by role
func (r *Repository) CountUsersByRole(ctx context.Context) (map[models.Role]int64, error) {
	var rows []struct {
		Role  models.Role
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
