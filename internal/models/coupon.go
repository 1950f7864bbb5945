package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// College is a partner college whose code doubles as a coupon for its students
type College struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Code           string          `gorm:"uniqueIndex;size:50;not null" json:"code"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	// Commission is credited to Earnings for every complimentary seat.
	Commission    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"commission"`
	Earnings      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"earnings"`
	Registrations int             `gorm:"not null;default:0" json:"registrations"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	UsageLimit    *int            `json:"usage_limit,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (College) TableName() string {
	return "colleges"
}

// InfluencerCoupon is a discount code handed out by an influencer
type InfluencerCoupon struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Code           string          `gorm:"uniqueIndex;size:50;not null" json:"code"`
	InfluencerName string          `gorm:"size:255" json:"influencer_name"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	UsageLimit     *int            `json:"usage_limit,omitempty"`
	UsedCount      int             `gorm:"not null;default:0" json:"used_count"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	IsActive       bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (InfluencerCoupon) TableName() string {
	return "influencer_coupons"
}
