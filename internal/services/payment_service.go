package services

import (
	"context"
	"fmt"
	"log"

	"event-portal/internal/apperrors"
	"event-portal/internal/mail"
	"event-portal/internal/models"
	"event-portal/internal/payments"
	"event-portal/internal/repository"
	"event-portal/internal/telemetry"
	"event-portal/internal/utils"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// VerifyPaymentRequest is what the client posts after checkout
type VerifyPaymentRequest struct {
	UserID    uint
	OrderID   string
	PaymentID string
	Signature string
}

// VerifyPaymentResult reports how a registration was completed
type VerifyPaymentResult struct {
	UserID           uint                 `json:"user_id"`
	PaymentStatus    models.PaymentStatus `json:"payment_status"`
	Exempt           bool                 `json:"exempt"`
	AlreadyCompleted bool                 `json:"already_completed"`
}

// OrderResult is returned to the client to open the checkout widget
type OrderResult struct {
	Order       *models.PaymentOrder `json:"order"`
	Gateway     string               `json:"gateway"`
	AmountMinor int64                `json:"amount_minor"`
	KeyID       string               `json:"key_id,omitempty"`
}

type PaymentService struct {
	repo      *repository.Repository
	gateway   payments.Gateway
	mailer    mail.Mailer
	currency  string
	keyID     string
	eventName string
}

func NewPaymentService(repo *repository.Repository, gateway payments.Gateway, mailer mail.Mailer, currency, keyID, eventName string) *PaymentService {
	return &PaymentService{
		repo:      repo,
		gateway:   gateway,
		mailer:    mailer,
		currency:  currency,
		keyID:     keyID,
		eventName: eventName,
	}
}

// CreateOrder opens a gateway order for the user's outstanding amount
func (s *PaymentService) CreateOrder(ctx context.Context, userID uint) (*OrderResult, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.PaymentStatus == models.PaymentStatusCompleted {
		return nil, apperrors.New(apperrors.CodeConflict, "registration is already paid")
	}
	if !user.FinalPrice.GreaterThan(decimal.Zero) {
		return nil, apperrors.New(apperrors.CodeValidationFailed, "no payment is required for this registration")
	}

	receipt, err := utils.GenerateReceipt()
	if err != nil {
		return nil, err
	}

	amountMinor := payments.MinorUnits(user.FinalPrice)
	orderID, err := s.gateway.CreateOrder(ctx, amountMinor, s.currency, receipt)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeExternalService, "failed to create payment order", err)
	}

	order := &models.PaymentOrder{
		UserID:   user.ID,
		OrderID:  orderID,
		Receipt:  receipt,
		Amount:   user.FinalPrice,
		Currency: s.currency,
		Status:   models.PaymentOrderCreated,
	}
	if err := s.repo.CreatePaymentOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store payment order: %w", err)
	}

	log.Printf("Payment order %s created for user %d (%s %s via %s)", orderID, user.ID, user.FinalPrice, s.currency, s.gateway.Name())
	return &OrderResult{
		Order:       order,
		Gateway:     s.gateway.Name(),
		AmountMinor: amountMinor,
		KeyID:       s.keyID,
	}, nil
}

// Verify completes a registration. Registrations with nothing to pay are
// completed without a signature; everything else needs a valid gateway signature.
func (s *PaymentService) Verify(ctx context.Context, req VerifyPaymentRequest) (result *VerifyPaymentResult, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "payment.Verify")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.Int("payment.user_id", int(req.UserID)))

	user, err := s.repo.GetUserByID(ctx, req.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.PaymentStatus == models.PaymentStatusCompleted {
		return &VerifyPaymentResult{UserID: user.ID, PaymentStatus: user.PaymentStatus, AlreadyCompleted: true}, nil
	}

	if !user.FinalPrice.GreaterThan(decimal.Zero) {
		if err := s.complete(ctx, user, "", ""); err != nil {
			return nil, err
		}
		log.Printf("Exempt registration completed for user %d", user.ID)
		return &VerifyPaymentResult{UserID: user.ID, PaymentStatus: models.PaymentStatusCompleted, Exempt: true}, nil
	}

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, apperrors.Validation("payment details are required", map[string]string{
			"order_id":   "is required",
			"payment_id": "is required",
			"signature":  "is required",
		})
	}

	order, err := s.repo.GetPaymentOrderByOrderID(ctx, req.OrderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "payment order not found")
		}
		return nil, fmt.Errorf("failed to load payment order: %w", err)
	}
	if order.UserID != user.ID {
		return nil, apperrors.New(apperrors.CodeForbidden, "payment order belongs to another user")
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		if err := s.repo.SetPaymentOrderStatus(ctx, req.OrderID, models.PaymentOrderFailed, req.PaymentID); err != nil {
			log.Printf("failed to mark order %s failed: %v", req.OrderID, err)
		}
		log.Printf("Invalid payment signature for order %s (user %d)", req.OrderID, user.ID)
		return nil, apperrors.ErrInvalidSignature
	}

	if err := s.complete(ctx, user, req.OrderID, req.PaymentID); err != nil {
		return nil, err
	}

	log.Printf("Payment %s verified for order %s (user %d)", req.PaymentID, req.OrderID, user.ID)
	return &VerifyPaymentResult{UserID: user.ID, PaymentStatus: models.PaymentStatusCompleted}, nil
}

func (s *PaymentService) complete(ctx context.Context, user *models.User, orderID, paymentID string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.SetPaymentStatus(ctx, user.ID, models.PaymentStatusCompleted); err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}
		if err := tx.SetTicketValidForUser(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to validate ticket: %w", err)
		}
		if orderID != "" {
			if err := tx.SetPaymentOrderStatus(ctx, orderID, models.PaymentOrderPaid, paymentID); err != nil {
				return fmt.Errorf("failed to update payment order: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	user.PaymentStatus = models.PaymentStatusCompleted

	var ticket *models.Ticket
	if t, err := s.repo.GetTicketByUserID(ctx, user.ID); err == nil {
		ticket = t
	}
	amount := ""
	if user.FinalPrice.GreaterThan(decimal.Zero) {
		amount = user.FinalPrice.StringFixed(2) + " " + s.currency
	}
	sendConfirmation(ctx, s.mailer, s.eventName, user, ticket, amount)
	return nil
}
