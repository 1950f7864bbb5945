package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/testutil"
)

func TestSendAndConfirmOTP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.verifications.SendOTP(ctx, "  Asha@Example.com "); err != nil {
		t.Fatalf("SendOTP failed: %v", err)
	}
	if env.mailer.count() != 1 {
		t.Fatalf("expected one mail, got %d", env.mailer.count())
	}
	msg := env.mailer.last()
	if msg.To != "asha@example.com" {
		t.Errorf("expected normalized recipient, got %q", msg.To)
	}
	code := extractOTP(t, msg.Body)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if err := env.verifications.ConfirmOTP(ctx, "asha@example.com", wrong); !errors.Is(err, apperrors.ErrInvalidOTP) {
		t.Fatalf("expected invalid otp, got %v", err)
	}

	if err := env.verifications.ConfirmOTP(ctx, "ASHA@example.com", code); err != nil {
		t.Fatalf("ConfirmOTP failed: %v", err)
	}
	ok, err := env.verifications.IsVerified(ctx, "asha@example.com")
	if err != nil || !ok {
		t.Fatalf("expected verified, got %v (%v)", ok, err)
	}

	// Confirming again is a no-op.
	if err := env.verifications.ConfirmOTP(ctx, "asha@example.com", "whatever"); err != nil {
		t.Errorf("second confirm should succeed, got %v", err)
	}

	if err := env.verifications.Consume(ctx, "asha@example.com"); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if ok, _ := env.verifications.IsVerified(ctx, "asha@example.com"); ok {
		t.Error("consumed verification should be gone")
	}
}

func TestConfirmOTPLocksAfterAttempts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.verifications.SendOTP(ctx, "p@example.com")
	code := extractOTP(t, env.mailer.last().Body)
	wrong := strings.Repeat("9", len(code))
	if wrong == code {
		wrong = strings.Repeat("8", len(code))
	}

	for i := 0; i < maxOTPAttempts; i++ {
		env.verifications.ConfirmOTP(ctx, "p@example.com", wrong)
	}
	if err := env.verifications.ConfirmOTP(ctx, "p@example.com", code); !errors.Is(err, apperrors.ErrInvalidOTP) {
		t.Errorf("correct code after too many attempts should fail, got %v", err)
	}

	// A fresh code resets the counter.
	env.verifications.SendOTP(ctx, "p@example.com")
	code = extractOTP(t, env.mailer.last().Body)
	if err := env.verifications.ConfirmOTP(ctx, "p@example.com", code); err != nil {
		t.Errorf("fresh code should verify, got %v", err)
	}
}

func TestConfirmOTPExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.verifications.SendOTP(ctx, "late@example.com")
	code := extractOTP(t, env.mailer.last().Body)

	env.verifications.now = func() time.Time { return time.Now().UTC().Add(time.Hour) }
	if err := env.verifications.ConfirmOTP(ctx, "late@example.com", code); !errors.Is(err, apperrors.ErrInvalidOTP) {
		t.Fatalf("expired code should fail, got %v", err)
	}

	n, err := env.verifications.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged, got %d", n)
	}
}

func TestSendOTPRejectsRegisteredEmail(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "taken@example.com", models.RoleParticipant)

	err := env.verifications.SendOTP(context.Background(), "TAKEN@example.com")
	if !errors.Is(err, apperrors.ErrUserExists) {
		t.Errorf("expected user exists, got %v", err)
	}
	if env.mailer.count() != 0 {
		t.Error("no mail should be sent for a registered address")
	}
}
