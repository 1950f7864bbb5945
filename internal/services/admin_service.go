package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats is the admin overview
type DashboardStats struct {
	UsersByStatus        map[models.PaymentStatus]int64 `json:"users_by_status"`
	UsersByRole          map[models.Role]int64          `json:"users_by_role"`
	Tickets              *TicketStats                   `json:"tickets"`
	TotalCollegeEarnings decimal.Decimal                `json:"total_college_earnings"`
}

// CollegeInput is the admin form for a partner college
type CollegeInput struct {
	Name           string          `json:"name" validate:"required,max=255"`
	Code           string          `json:"code" validate:"required,max=50"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Commission     decimal.Decimal `json:"commission"`
	ExpiryDate     *time.Time      `json:"expiry_date"`
	UsageLimit     *int            `json:"usage_limit" validate:"omitempty,gte=0"`
}

// CouponInput is the admin form for an influencer coupon
type CouponInput struct {
	Code           string          `json:"code" validate:"required,max=50"`
	InfluencerName string          `json:"influencer_name" validate:"required,max=255"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	UsageLimit     *int            `json:"usage_limit" validate:"omitempty,gte=0"`
	ExpiryDate     *time.Time      `json:"expiry_date"`
}

type AdminService struct {
	repo    *repository.Repository
	tickets *TicketService
	audit   *AuditLogger
}

func NewAdminService(repo *repository.Repository, tickets *TicketService, audit *AuditLogger) *AdminService {
	return &AdminService{repo: repo, tickets: tickets, audit: audit}
}

// Dashboard aggregates registration, ticket and earnings counts
func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.repo.CountUsersByPaymentStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	byRole, err := s.repo.CountUsersByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	tickets, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, err
	}
	earnings, err := s.repo.TotalCollegeEarnings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum earnings: %w", err)
	}

	return &DashboardStats{
		UsersByStatus:        byStatus,
		UsersByRole:          byRole,
		Tickets:              tickets,
		TotalCollegeEarnings: earnings,
	}, nil
}

// ListUsers returns users matching filter
func (s *AdminService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]*models.User, int64, error) {
	return s.repo.ListUsers(ctx, filter)
}

// PendingRegistrations lists registrations still awaiting payment after olderThan
func (s *AdminService) PendingRegistrations(ctx context.Context, olderThan time.Duration) ([]repository.PendingRegistration, error) {
	return s.repo.ListPendingRegistrations(ctx, time.Now().Add(-olderThan))
}

// CreateCollege registers a partner college and its coupon code
func (s *AdminService) CreateCollege(ctx context.Context, adminID uint, in CollegeInput) (*models.College, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	code := NormalizeCode(in.Code)
	if err := s.ensureCodeFree(ctx, code); err != nil {
		return nil, err
	}

	college := &models.College{
		Name:           in.Name,
		Code:           code,
		DiscountAmount: in.DiscountAmount,
		Commission:     in.Commission,
		Earnings:       decimal.Zero,
		ExpiryDate:     in.ExpiryDate,
		UsageLimit:     in.UsageLimit,
	}
	if err := s.repo.CreateCollege(ctx, college); err != nil {
		return nil, fmt.Errorf("failed to create college: %w", err)
	}

	s.audit.LogAdminAction(ctx, adminID, "CREATE_COLLEGE", "COLLEGE", strconv.FormatUint(uint64(college.ID), 10), models.JSONB{"code": code})
	log.Printf("College %s (%s) created by admin %d", college.Name, code, adminID)
	return college, nil
}

func (s *AdminService) ListColleges(ctx context.Context) ([]*models.College, error) {
	return s.repo.ListColleges(ctx)
}

// CreateCoupon issues an active influencer coupon
func (s *AdminService) CreateCoupon(ctx context.Context, adminID uint, in CouponInput) (*models.InfluencerCoupon, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}
	code := NormalizeCode(in.Code)
	if err := s.ensureCodeFree(ctx, code); err != nil {
		return nil, err
	}

	coupon := &models.InfluencerCoupon{
		Code:           code,
		InfluencerName: in.InfluencerName,
		DiscountAmount: in.DiscountAmount,
		UsageLimit:     in.UsageLimit,
		ExpiryDate:     in.ExpiryDate,
		IsActive:       true,
	}
	if err := s.repo.CreateCoupon(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.audit.LogAdminAction(ctx, adminID, "CREATE_COUPON", "COUPON", strconv.FormatUint(uint64(coupon.ID), 10), models.JSONB{"code": code})
	log.Printf("Coupon %s created by admin %d", code, adminID)
	return coupon, nil
}

func (s *AdminService) ListCoupons(ctx context.Context) ([]*models.InfluencerCoupon, error) {
	return s.repo.ListCoupons(ctx)
}

// SetCouponActive enables or disables an influencer coupon
func (s *AdminService) SetCouponActive(ctx context.Context, adminID, couponID uint, active bool) (*models.InfluencerCoupon, error) {
	if err := s.repo.SetCouponActive(ctx, couponID, active); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "coupon not found")
		}
		return nil, err
	}
	s.audit.LogAdminAction(ctx, adminID, "SET_COUPON_ACTIVE", "COUPON", strconv.FormatUint(uint64(couponID), 10), models.JSONB{"active": active})
	return s.repo.GetCouponByID(ctx, couponID)
}

// ListLogs returns recent admin actions
func (s *AdminService) ListLogs(ctx context.Context, limit int) ([]*models.AdminLog, error) {
	return s.repo.ListAdminLogs(ctx, limit)
}

// ensureCodeFree keeps college and influencer codes in one namespace
func (s *AdminService) ensureCodeFree(ctx context.Context, code string) error {
	if _, err := s.repo.GetCollegeByCode(ctx, code); err == nil {
		return apperrors.New(apperrors.CodeConflict, "code is already used by a college")
	} else if !repository.IsNotFound(err) {
		return err
	}

	taken, err := s.repo.CouponCodeExists(ctx, code)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.New(apperrors.CodeConflict, "code is already used by a coupon")
	}
	return nil
}
