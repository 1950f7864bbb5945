package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log"
	"strings"
	"time"

	"event-portal/internal/apperrors"
	"event-portal/internal/mail"
	"event-portal/internal/models"
	"event-portal/internal/repository"
	"event-portal/internal/utils"
)

const (
	otpDigits      = 6
	maxOTPAttempts = 5
)

type VerificationService struct {
	repo      *repository.Repository
	mailer    mail.Mailer
	ttl       time.Duration
	eventName string
	now       func() time.Time
}

func NewVerificationService(repo *repository.Repository, mailer mail.Mailer, ttl time.Duration, eventName string) *VerificationService {
	return &VerificationService{
		repo:      repo,
		mailer:    mailer,
		ttl:       ttl,
		eventName: eventName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail lower-cases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SendOTP issues a fresh code for email and mails it
func (s *VerificationService) SendOTP(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return apperrors.ErrUserExists
	}

	code, err := utils.GenerateOTP(otpDigits)
	if err != nil {
		return err
	}

	v := &models.EmailVerification{
		Email:     email,
		OTPHash:   utils.SHA256Hex(code),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.repo.UpsertVerification(ctx, v); err != nil {
		return fmt.Errorf("failed to store verification: %w", err)
	}

	if err := s.mailer.Send(ctx, mail.OTPMessage(s.eventName, email, code, s.ttl)); err != nil {
		return apperrors.Wrap(apperrors.CodeExternalService, "failed to send verification email", err)
	}

	log.Printf("Verification code sent to %s", email)
	return nil
}

// ConfirmOTP checks code against the stored hash and marks the address verified
func (s *VerificationService) ConfirmOTP(ctx context.Context, email, code string) error {
	email = NormalizeEmail(email)

	v, err := s.repo.GetVerification(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperrors.ErrInvalidOTP
		}
		return fmt.Errorf("failed to load verification: %w", err)
	}

	if v.Verified {
		return nil
	}
	if v.Attempts >= maxOTPAttempts || s.now().After(v.ExpiresAt) {
		return apperrors.ErrInvalidOTP
	}

	given := utils.SHA256Hex(strings.TrimSpace(code))
	if subtle.ConstantTimeCompare([]byte(given), []byte(v.OTPHash)) != 1 {
		if err := s.repo.IncrementVerificationAttempts(ctx, email); err != nil {
			log.Printf("failed to count otp attempt for %s: %v", email, err)
		}
		return apperrors.ErrInvalidOTP
	}

	if err := s.repo.MarkVerified(ctx, email, s.now()); err != nil {
		return fmt.Errorf("failed to mark verified: %w", err)
	}

	log.Printf("Email %s verified", email)
	return nil
}

// IsVerified reports whether email completed verification
func (s *VerificationService) IsVerified(ctx context.Context, email string) (bool, error) {
	v, err := s.repo.GetVerification(ctx, NormalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return v.Verified, nil
}

// Consume deletes the verification once a registration used it
func (s *VerificationService) Consume(ctx context.Context, email string) error {
	return s.repo.DeleteVerification(ctx, NormalizeEmail(email))
}

// PurgeExpired removes unverified codes past their expiry
func (s *VerificationService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.PurgeExpiredVerifications(ctx, s.now())
}
