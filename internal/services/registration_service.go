package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"event-portal/internal/apperrors"
	"event-portal/internal/auth"
	"event-portal/internal/mail"
	"event-portal/internal/models"
	"event-portal/internal/notify"
	"event-portal/internal/repository"
	"event-portal/internal/telemetry"
	"event-portal/internal/utils"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RegistrationResult is returned to the client after a successful registration
type RegistrationResult struct {
	User            *models.User    `json:"user"`
	Ticket          *models.Ticket  `json:"ticket,omitempty"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	RequiresPayment bool            `json:"requires_payment"`
	Token           string          `json:"token"`
}

type RegistrationService struct {
	repo          *repository.Repository
	coupons       *CouponService
	verifications *VerificationService
	mailer        mail.Mailer
	notifier      notify.Notifier
	eventName     string
}

func NewRegistrationService(
	repo *repository.Repository,
	coupons *CouponService,
	verifications *VerificationService,
	mailer mail.Mailer,
	notifier notify.Notifier,
	eventName string,
) *RegistrationService {
	return &RegistrationService{
		repo:          repo,
		coupons:       coupons,
		verifications: verifications,
		mailer:        mailer,
		notifier:      notifier,
		eventName:     eventName,
	}
}

// Register creates the user, applies any coupon and issues the gate ticket.
// The user row, coupon counters and ticket sequence commit together.
func (s *RegistrationService) Register(ctx context.Context, reg Registration) (result *RegistrationResult, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "registration.Register")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	base := reg.Base()
	role := reg.Role()
	email := NormalizeEmail(base.Email)
	span.SetAttributes(attribute.String("registration.role", string(role)))

	if role.Ticketed() {
		verified, err := s.verifications.IsVerified(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check verification: %w", err)
		}
		if !verified {
			return nil, apperrors.ErrEmailNotVerified
		}
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUserExists
	}

	if base.CollegeID != nil {
		if _, err := s.repo.GetCollegeByID(ctx, *base.CollegeID); err != nil {
			if repository.IsNotFound(err) {
				return nil, apperrors.Validation("invalid college", map[string]string{"college_id": "unknown college"})
			}
			return nil, fmt.Errorf("failed to load college: %w", err)
		}
	}

	ticketPrice := s.coupons.TicketPriceFor(role)
	discount := decimal.Zero

	var coupon *CouponResolution
	if code := NormalizeCode(base.CouponCode); code != "" {
		coupon, err = s.coupons.Resolve(ctx, code, base.CollegeID)
		if err != nil {
			return nil, err
		}
		discount = coupon.Discount
	}

	// Not clamped: a discount larger than the price yields a negative amount.
	finalPrice := ticketPrice.Sub(discount)

	status := models.PaymentStatusPending
	if finalPrice.IsZero() {
		status = models.PaymentStatusCompleted
	}

	passwordHash, err := HashPassword(base.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:          base.Name,
		Email:         email,
		Phone:         base.Phone,
		PasswordHash:  passwordHash,
		Role:          role,
		CollegeID:     base.CollegeID,
		TicketPrice:   ticketPrice,
		Discount:      discount,
		FinalPrice:    finalPrice,
		PaymentStatus: status,
	}
	if coupon != nil {
		user.CouponUsed = coupon.Code
	}
	reg.applyTo(user)

	var ticket *models.Ticket
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if role.Ticketed() {
			n, err := tx.NextSequence(ctx, models.SequenceTicketCode)
			if err != nil {
				return fmt.Errorf("failed to allocate ticket code: %w", err)
			}
			user.QRCode = utils.FormatScanCode(n - 1)
		}

		if err := tx.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if err := s.coupons.Redeem(ctx, tx, coupon, finalPrice); err != nil {
			return err
		}

		if role.Ticketed() {
			ticket = &models.Ticket{
				UserID:     user.ID,
				QRCodeData: user.QRCode,
				Status:     models.TicketStatusValid,
			}
			if err := tx.CreateTicket(ctx, ticket); err != nil {
				return fmt.Errorf("failed to create ticket: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) {
			// A concurrent registration may have claimed the address after the check above.
			if taken, checkErr := s.repo.EmailExists(ctx, email); checkErr == nil && taken {
				return nil, apperrors.ErrUserExists
			}
		}
		return nil, err
	}

	if err := s.verifications.Consume(ctx, email); err != nil {
		log.Printf("failed to consume verification for %s: %v", email, err)
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	log.Printf("Registered %s %s (user %d), final price %s, status %s", role, email, user.ID, finalPrice, status)

	if finalPrice.IsZero() {
		sendConfirmation(ctx, s.mailer, s.eventName, user, ticket, "")
	}
	if err := s.notifier.Notify(ctx, notify.Registration(user.Name, user.Email, string(role), finalPrice.StringFixed(2))); err != nil {
		log.Printf("failed to notify admins about user %d: %v", user.ID, err)
	}

	return &RegistrationResult{
		User:            user,
		Ticket:          ticket,
		FinalPrice:      finalPrice,
		RequiresPayment: status == models.PaymentStatusPending,
		Token:           token,
	}, nil
}

// sendConfirmation mails the ticket. Failures are logged and do not undo the registration.
func sendConfirmation(ctx context.Context, mailer mail.Mailer, eventName string, user *models.User, ticket *models.Ticket, amountPaid string) {
	details := mail.TicketDetails{
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		AmountPaid: amountPaid,
	}
	if ticket != nil {
		details.ScanCode = ticket.QRCodeData
	}

	if err := mailer.Send(ctx, mail.ConfirmationMessage(eventName, details)); err != nil {
		log.Printf("failed to send confirmation to %s: %v", user.Email, err)
	}
}
