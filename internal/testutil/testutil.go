// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"event-portal/internal/database"
	"event-portal/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a migrated SQLite database in a per-test temp dir
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	// One connection keeps SQLite writers from tripping over each other's locks.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// CreateCollege inserts a college with the given code and discount
func CreateCollege(t *testing.T, db *gorm.DB, name, code string, discount int64) *models.College {
	t.Helper()

	college := &models.College{
		Name:           name,
		Code:           code,
		DiscountAmount: decimal.NewFromInt(discount),
	}
	if err := db.Create(college).Error; err != nil {
		t.Fatalf("failed to create college: %v", err)
	}
	return college
}

// CreateCoupon inserts an active influencer coupon
func CreateCoupon(t *testing.T, db *gorm.DB, code string, discount int64, usageLimit *int) *models.InfluencerCoupon {
	t.Helper()

	coupon := &models.InfluencerCoupon{
		Code:           code,
		InfluencerName: "influencer",
		DiscountAmount: decimal.NewFromInt(discount),
		UsageLimit:     usageLimit,
		IsActive:       true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("failed to create coupon: %v", err)
	}
	return coupon
}

// CreateUser inserts a user with the given role
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Name:          email,
		Email:         email,
		Role:          role,
		PaymentStatus: models.PaymentStatusCompleted,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
