package services

import (
	"context"
	"errors"
	"testing"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/testutil"
)

func TestBookStall(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stall, err := env.stalls.Create(ctx, 1, &models.Stall{Name: "A1", Location: "Hall A"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first := scannerFor(testutil.CreateUser(t, env.db, "s1@example.com", models.RoleSponsor))
	second := scannerFor(testutil.CreateUser(t, env.db, "s2@example.com", models.RoleSponsorAdmin))
	attendee := scannerFor(testutil.CreateUser(t, env.db, "p@example.com", models.RoleParticipant))

	if _, err := env.stalls.Book(ctx, stall.ID, attendee); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("participants cannot book, got %v", err)
	}

	booked, err := env.stalls.Book(ctx, stall.ID, first)
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if booked.Status != models.StallBooked || booked.BookedByUserID == nil || *booked.BookedByUserID != first.ID {
		t.Errorf("unexpected booking: %+v", booked)
	}

	if _, err := env.stalls.Book(ctx, stall.ID, second); !errors.Is(err, apperrors.ErrStallUnavailable) {
		t.Errorf("expected stall unavailable, got %v", err)
	}

	released, err := env.stalls.Release(ctx, 1, stall.ID)
	if err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if released.Status != models.StallAvailable || released.BookedByUserID != nil {
		t.Errorf("unexpected release: %+v", released)
	}
	if _, err := env.stalls.Book(ctx, stall.ID, second); err != nil {
		t.Errorf("released stall should be bookable: %v", err)
	}

	if _, err := env.stalls.Book(ctx, 999, first); apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
