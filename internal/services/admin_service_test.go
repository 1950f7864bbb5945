package services

import (
	"context"
	"testing"
	"time"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/repository"

	"github.com/shopspring/decimal"
)

func TestCreateCodesShareNamespace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	college, err := env.admin.CreateCollege(ctx, 1, CollegeInput{
		Name:           "IIT Delhi",
		Code:           " IITD200 ",
		DiscountAmount: decimal.NewFromInt(200),
		Commission:     decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("CreateCollege failed: %v", err)
	}
	if college.Code != "IITD200" {
		t.Errorf("expected trimmed code, got %q", college.Code)
	}

	if _, err := env.admin.CreateCoupon(ctx, 1, CouponInput{Code: "IITD200", InfluencerName: "x", DiscountAmount: decimal.NewFromInt(10)}); apperrors.CodeOf(err) != apperrors.CodeConflict {
		t.Errorf("coupon reusing a college code should conflict, got %v", err)
	}

	coupon, err := env.admin.CreateCoupon(ctx, 1, CouponInput{Code: "RIYA10", InfluencerName: "Riya", DiscountAmount: decimal.NewFromInt(180)})
	if err != nil {
		t.Fatalf("CreateCoupon failed: %v", err)
	}
	if !coupon.IsActive {
		t.Error("new coupons should be active")
	}
	if _, err := env.admin.CreateCollege(ctx, 1, CollegeInput{Name: "Other", Code: "RIYA10"}); apperrors.CodeOf(err) != apperrors.CodeConflict {
		t.Errorf("college reusing a coupon code should conflict, got %v", err)
	}
	if _, err := env.admin.CreateCoupon(ctx, 1, CouponInput{InfluencerName: "x"}); apperrors.CodeOf(err) != apperrors.CodeValidationFailed {
		t.Errorf("expected validation error, got %v", err)
	}

	disabled, err := env.admin.SetCouponActive(ctx, 1, coupon.ID, false)
	if err != nil || disabled.IsActive {
		t.Fatalf("SetCouponActive: %+v (%v)", disabled, err)
	}
	if _, err := env.coupons.Resolve(ctx, "RIYA10", nil); apperrors.CodeOf(err) != apperrors.CodeInvalidCoupon {
		t.Errorf("disabled coupon should be invalid, got %v", err)
	}

	logs, _ := env.admin.ListLogs(ctx, 10)
	if len(logs) != 3 {
		t.Errorf("expected 3 audit entries, got %d", len(logs))
	}
}

func TestDashboardAndPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	college, _ := env.admin.CreateCollege(ctx, 1, CollegeInput{
		Name:           "IIT Delhi",
		Code:           "IITD200",
		DiscountAmount: decimal.NewFromInt(1800),
		Commission:     decimal.NewFromInt(75),
	})

	if _, err := env.registerParticipant(t, "paid@example.com", "IITD200", &college.ID); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := env.registerParticipant(t, "pending@example.com", "", nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	stats, err := env.admin.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if stats.UsersByStatus[models.PaymentStatusCompleted] != 1 || stats.UsersByStatus[models.PaymentStatusPending] != 1 {
		t.Errorf("unexpected status counts: %v", stats.UsersByStatus)
	}
	if stats.UsersByRole[models.RoleParticipant] != 2 {
		t.Errorf("unexpected role counts: %v", stats.UsersByRole)
	}
	if stats.Tickets.Total != 2 {
		t.Errorf("expected 2 tickets, got %+v", stats.Tickets)
	}
	if !stats.TotalCollegeEarnings.Equal(decimal.NewFromInt(75)) {
		t.Errorf("expected earnings 75, got %s", stats.TotalCollegeEarnings)
	}

	pending, err := env.admin.PendingRegistrations(ctx, -time.Minute)
	if err != nil {
		t.Fatalf("PendingRegistrations failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Email != "pending@example.com" {
		t.Errorf("unexpected pending list: %+v", pending)
	}

	users, total, err := env.admin.ListUsers(ctx, repository.UserFilter{PaymentStatus: models.PaymentStatusPending})
	if err != nil || total != 1 || len(users) != 1 {
		t.Errorf("ListUsers: %d users, total %d (%v)", len(users), total, err)
	}
}
