package repository

import (
	"context"
	"time"

	"event-portal/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetCollegeByCode retrieves a college by its coupon code
func (r *Repository) GetCollegeByCode(ctx context.Context, code string) (*models.College, error) {
	var college models.College
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&college).Error
	if err != nil {
		return nil, err
	}
	return &college, nil
}

// GetCollegeByID retrieves a college by ID
func (r *Repository) GetCollegeByID(ctx context.Context, id uint) (*models.College, error) {
	var college models.College
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&college).Error
	if err != nil {
		return nil, err
	}
	return &college, nil
}

// CreateCollege inserts a college
func (r *Repository) CreateCollege(ctx context.Context, college *models.College) error {
	return r.db.WithContext(ctx).Create(college).Error
}

// ListColleges returns all colleges ordered by name
func (r *Repository) ListColleges(ctx context.Context) ([]*models.College, error) {
	var colleges []*models.College
	err := r.db.WithContext(ctx).Order("name ASC").Find(&colleges).Error
	return colleges, err
}

// CreditCollege atomically adds commission to a college's earnings and counts one registration
func (r *Repository) CreditCollege(ctx context.Context, collegeID uint, commission decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.College{}).
		Where("id = ?", collegeID).
		Updates(map[string]interface{}{
			"earnings":      gorm.Expr("earnings + ?", commission),
			"registrations": gorm.Expr("registrations + ?", 1),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TotalCollegeEarnings sums earnings across all colleges
func (r *Repository) TotalCollegeEarnings(ctx context.Context) (decimal.Decimal, error) {
	var colleges []models.College
	if err := r.db.WithContext(ctx).Select("earnings").Find(&colleges).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range colleges {
		total = total.Add(c.Earnings)
	}
	return total, nil
}

// GetActiveCouponByCode retrieves an active influencer coupon
func (r *Repository) GetActiveCouponByCode(ctx context.Context, code string) (*models.InfluencerCoupon, error) {
	var coupon models.InfluencerCoupon
	err := r.db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// CouponCodeExists reports whether any influencer coupon, active or not, uses code
func (r *Repository) CouponCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InfluencerCoupon{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// GetCouponByID retrieves an influencer coupon by ID
func (r *Repository) GetCouponByID(ctx context.Context, id uint) (*models.InfluencerCoupon, error) {
	var coupon models.InfluencerCoupon
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// CreateCoupon inserts an influencer coupon
func (r *Repository) CreateCoupon(ctx context.Context, coupon *models.InfluencerCoupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// ListCoupons returns all influencer coupons, newest first
func (r *Repository) ListCoupons(ctx context.Context) ([]*models.InfluencerCoupon, error) {
	var coupons []*models.InfluencerCoupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error
	return coupons, err
}

// SetCouponActive toggles a coupon
func (r *Repository) SetCouponActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.InfluencerCoupon{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RedeemCoupon increments used_count only while the coupon stays under its
// usage limit. It returns false when the limit was already reached.
func (r *Repository) RedeemCoupon(ctx context.Context, couponID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InfluencerCoupon{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", couponID).
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + ?", 1),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
