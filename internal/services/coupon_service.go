package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/repository"

	"github.com/shopspring/decimal"
)

type CouponKind string

const (
	CouponKindCollege    CouponKind = "college"
	CouponKindInfluencer CouponKind = "influencer"
)

// CouponResolution is a successfully resolved coupon code
type CouponResolution struct {
	Kind       CouponKind      `json:"kind"`
	Code       string          `json:"code"`
	CollegeID  *uint           `json:"college_id,omitempty"`
	CouponID   *uint           `json:"coupon_id,omitempty"`
	Discount   decimal.Decimal `json:"discount"`
	Commission decimal.Decimal `json:"-"`
}

// CouponPreview is what the public "apply coupon" endpoint returns
type CouponPreview struct {
	CouponResolution
	TicketPrice decimal.Decimal `json:"ticket_price"`
	FinalPrice  decimal.Decimal `json:"final_price"`
}

type CouponService struct {
	repo        *repository.Repository
	ticketPrice decimal.Decimal
	now         func() time.Time
}

func NewCouponService(repo *repository.Repository, participantPrice decimal.Decimal) *CouponService {
	return &CouponService{
		repo:        repo,
		ticketPrice: participantPrice,
		now:         time.Now,
	}
}

// TicketPriceFor returns the base price charged to a role
func (s *CouponService) TicketPriceFor(role models.Role) decimal.Decimal {
	if role == models.RoleParticipant {
		return s.ticketPrice
	}
	return decimal.Zero
}

// NormalizeCode trims surrounding whitespace. Codes are case-sensitive.
func NormalizeCode(code string) string {
	return strings.TrimSpace(code)
}

// Resolve looks code up as a college code first, then as an active influencer coupon.
// College codes only apply to students of that college.
func (s *CouponService) Resolve(ctx context.Context, code string, collegeID *uint) (*CouponResolution, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, apperrors.ErrInvalidCoupon
	}

	college, err := s.repo.GetCollegeByCode(ctx, code)
	switch {
	case err == nil:
		if collegeID == nil || *collegeID != college.ID {
			return nil, apperrors.ErrCouponMismatch
		}
		id := college.ID
		return &CouponResolution{
			Kind:       CouponKindCollege,
			Code:       college.Code,
			CollegeID:  &id,
			Discount:   college.DiscountAmount,
			Commission: college.Commission,
		}, nil
	case !repository.IsNotFound(err):
		return nil, fmt.Errorf("failed to look up college code: %w", err)
	}

	coupon, err := s.repo.GetActiveCouponByCode(ctx, code)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrInvalidCoupon
		}
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	if coupon.ExpiryDate != nil && coupon.ExpiryDate.Before(s.now()) {
		return nil, apperrors.ErrCouponExpired
	}
	if coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit {
		return nil, apperrors.ErrCouponExhausted
	}

	id := coupon.ID
	return &CouponResolution{
		Kind:     CouponKindInfluencer,
		Code:     coupon.Code,
		CouponID: &id,
		Discount: coupon.DiscountAmount,
	}, nil
}

// Preview resolves code for role without touching any counters
func (s *CouponService) Preview(ctx context.Context, code string, collegeID *uint, role models.Role) (*CouponPreview, error) {
	res, err := s.Resolve(ctx, code, collegeID)
	if err != nil {
		return nil, err
	}

	price := s.TicketPriceFor(role)
	return &CouponPreview{
		CouponResolution: *res,
		TicketPrice:      price,
		FinalPrice:       price.Sub(res.Discount),
	}, nil
}

// Redeem records a coupon use against repo, which is expected to be bound to
// the registration transaction. Counters only move for complimentary seats
// (finalPrice <= 0); paid registrations leave them untouched.
func (s *CouponService) Redeem(ctx context.Context, repo *repository.Repository, res *CouponResolution, finalPrice decimal.Decimal) error {
	if res == nil || finalPrice.GreaterThan(decimal.Zero) {
		return nil
	}

	switch res.Kind {
	case CouponKindCollege:
		if err := repo.CreditCollege(ctx, *res.CollegeID, res.Commission); err != nil {
			return fmt.Errorf("failed to credit college: %w", err)
		}
	case CouponKindInfluencer:
		ok, err := repo.RedeemCoupon(ctx, *res.CouponID)
		if err != nil {
			return fmt.Errorf("failed to redeem coupon: %w", err)
		}
		if !ok {
			return apperrors.ErrCouponExhausted
		}
	}
	return nil
}
