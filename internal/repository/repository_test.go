package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"event-portal/internal/database"
	"event-portal/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "repo.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewRepository(db), db
}

func TestNextSequence(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.NextSequence(ctx, models.SequenceTicketCode)
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}

	// Unknown counters start from one.
	got, err := repo.NextSequence(ctx, "other")
	if err != nil || got != 1 {
		t.Errorf("expected fresh counter at 1, got %d (%v)", got, err)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	repo, db := setupRepo(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *Repository) error {
		if err := tx.CreateUser(ctx, &models.User{Name: "A", Email: "a@example.com", Role: models.RoleParticipant}); err != nil {
			return err
		}
		if _, err := tx.NextSequence(ctx, models.SequenceTicketCode); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var users int64
	db.Model(&models.User{}).Count(&users)
	if users != 0 {
		t.Errorf("user insert should have rolled back")
	}

	var seq models.Sequence
	db.First(&seq, "name = ?", models.SequenceTicketCode)
	if seq.Value != 0 {
		t.Errorf("sequence increment should have rolled back, got %d", seq.Value)
	}
}

func TestRedeemCouponRespectsLimit(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	limit := 2
	coupon := &models.InfluencerCoupon{Code: "INF", DiscountAmount: decimal.NewFromInt(1800), UsageLimit: &limit, IsActive: true}
	if err := repo.CreateCoupon(ctx, coupon); err != nil {
		t.Fatalf("CreateCoupon failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		ok, err := repo.RedeemCoupon(ctx, coupon.ID)
		if err != nil || !ok {
			t.Fatalf("redeem %d: ok=%v err=%v", i+1, ok, err)
		}
	}
	ok, err := repo.RedeemCoupon(ctx, coupon.ID)
	if err != nil {
		t.Fatalf("RedeemCoupon failed: %v", err)
	}
	if ok {
		t.Error("third redemption should exceed the limit")
	}

	got, _ := repo.GetCouponByID(ctx, coupon.ID)
	if got.UsedCount != 2 {
		t.Errorf("expected used_count 2, got %d", got.UsedCount)
	}
}

func TestRedeemCouponUnlimited(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	coupon := &models.InfluencerCoupon{Code: "OPEN", DiscountAmount: decimal.NewFromInt(100), IsActive: true}
	repo.CreateCoupon(ctx, coupon)

	for i := 0; i < 5; i++ {
		if ok, err := repo.RedeemCoupon(ctx, coupon.ID); err != nil || !ok {
			t.Fatalf("unlimited coupon refused redemption %d: %v", i+1, err)
		}
	}
}

func TestCreditCollege(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	college := &models.College{Name: "MIT", Code: "MIT01", DiscountAmount: decimal.NewFromInt(1800)}
	repo.CreateCollege(ctx, college)

	for i := 0; i < 2; i++ {
		if err := repo.CreditCollege(ctx, college.ID, decimal.NewFromInt(150)); err != nil {
			t.Fatalf("CreditCollege failed: %v", err)
		}
	}

	got, _ := repo.GetCollegeByID(ctx, college.ID)
	if got.Registrations != 2 {
		t.Errorf("expected 2 registrations, got %d", got.Registrations)
	}
	if !got.Earnings.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected earnings 300, got %s", got.Earnings)
	}

	if err := repo.CreditCollege(ctx, 9999, decimal.NewFromInt(1)); !IsNotFound(err) {
		t.Errorf("expected not found for unknown college, got %v", err)
	}
}

func TestMarkTicketUsedOnce(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	user := &models.User{Name: "P", Email: "p@example.com", Role: models.RoleParticipant}
	repo.CreateUser(ctx, user)
	ticket := &models.Ticket{UserID: user.ID, QRCodeData: "SCAN100", Status: models.TicketStatusValid}
	if err := repo.CreateTicket(ctx, ticket); err != nil {
		t.Fatalf("CreateTicket failed: %v", err)
	}

	ok, err := repo.MarkTicketUsed(ctx, ticket.ID, "gate@example.com", 7, time.Now())
	if err != nil || !ok {
		t.Fatalf("first scan: ok=%v err=%v", ok, err)
	}
	ok, err = repo.MarkTicketUsed(ctx, ticket.ID, "other@example.com", 8, time.Now())
	if err != nil {
		t.Fatalf("second scan errored: %v", err)
	}
	if ok {
		t.Error("second scan must not transition again")
	}

	got, _ := repo.GetTicketByCode(ctx, "SCAN100")
	if got.Status != models.TicketStatusUsed || got.ScannedBy != "gate@example.com" {
		t.Errorf("unexpected ticket after scans: %+v", got)
	}

	if err := repo.ResetTicket(ctx, ticket.ID); err != nil {
		t.Fatalf("ResetTicket failed: %v", err)
	}
	got, _ = repo.GetTicketByID(ctx, ticket.ID)
	if got.Status != models.TicketStatusValid || got.ScannedAt != nil || got.ScannedBy != "" {
		t.Errorf("reset should clear scan metadata: %+v", got)
	}
}

func TestUpsertVoteKeepsOnePerUser(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	c := &models.Contestant{Name: "Team A"}
	repo.CreateContestant(ctx, c)

	repo.UpsertVote(ctx, &models.ContestantVote{ContestantID: c.ID, UserID: 1, Type: models.VoteUp, VotedAt: time.Now()})
	repo.UpsertVote(ctx, &models.ContestantVote{ContestantID: c.ID, UserID: 1, Type: models.VoteDown, VotedAt: time.Now()})
	repo.UpsertVote(ctx, &models.ContestantVote{ContestantID: c.ID, UserID: 2, Type: models.VoteUp, VotedAt: time.Now()})

	got, err := repo.GetContestantByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetContestantByID failed: %v", err)
	}
	if len(got.Votes) != 2 {
		t.Fatalf("expected 2 votes, got %d", len(got.Votes))
	}
	if got.NetScore() != 0 {
		t.Errorf("expected net score 0, got %d", got.NetScore())
	}
}

func TestActivateContestantIsExclusive(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	a := &models.Contestant{Name: "A"}
	b := &models.Contestant{Name: "B"}
	repo.CreateContestant(ctx, a)
	repo.CreateContestant(ctx, b)

	repo.ActivateContestant(ctx, a.ID)
	repo.ActivateContestant(ctx, b.ID)

	active, err := repo.GetActiveContestant(ctx)
	if err != nil {
		t.Fatalf("GetActiveContestant failed: %v", err)
	}
	if active.ID != b.ID {
		t.Errorf("expected %d active, got %d", b.ID, active.ID)
	}

	all, _ := repo.ListContestants(ctx)
	activeCount := 0
	for _, c := range all {
		if c.IsActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("expected exactly one active contestant, got %d", activeCount)
	}

	if err := repo.ActivateContestant(ctx, 999); !IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}

	repo.DeactivateContestants(ctx)
	if _, err := repo.GetActiveContestant(ctx); !IsNotFound(err) {
		t.Errorf("expected no active contestant, got %v", err)
	}
}

func TestBookStallOnce(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	stall := &models.Stall{Name: "A1", Price: decimal.NewFromInt(5000)}
	repo.CreateStall(ctx, stall)

	if ok, err := repo.BookStall(ctx, stall.ID, 10); err != nil || !ok {
		t.Fatalf("first booking failed: ok=%v err=%v", ok, err)
	}
	if ok, _ := repo.BookStall(ctx, stall.ID, 11); ok {
		t.Error("stall booked twice")
	}

	repo.ReleaseStall(ctx, stall.ID)
	got, _ := repo.GetStallByID(ctx, stall.ID)
	if got.Status != models.StallAvailable || got.BookedByUserID != nil {
		t.Errorf("release should clear booking: %+v", got)
	}
}

func TestPurgeExpiredVerifications(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	now := time.Now()

	repo.UpsertVerification(ctx, &models.EmailVerification{Email: "old@example.com", OTPHash: "x", ExpiresAt: now.Add(-time.Hour)})
	repo.UpsertVerification(ctx, &models.EmailVerification{Email: "new@example.com", OTPHash: "y", ExpiresAt: now.Add(time.Hour)})

	n, err := repo.PurgeExpiredVerifications(ctx, now)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged, got %d", n)
	}
	if _, err := repo.GetVerification(ctx, "new@example.com"); err != nil {
		t.Errorf("fresh verification should survive: %v", err)
	}
}

func TestUserCounts(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	repo.CreateUser(ctx, &models.User{Name: "A", Email: "a@example.com", Role: models.RoleParticipant, PaymentStatus: models.PaymentStatusPending})
	repo.CreateUser(ctx, &models.User{Name: "B", Email: "b@example.com", Role: models.RoleParticipant, PaymentStatus: models.PaymentStatusCompleted})
	repo.CreateUser(ctx, &models.User{Name: "C", Email: "c@example.com", Role: models.RoleDelegate, PaymentStatus: models.PaymentStatusCompleted})

	byStatus, err := repo.CountUsersByPaymentStatus(ctx)
	if err != nil {
		t.Fatalf("CountUsersByPaymentStatus failed: %v", err)
	}
	if byStatus[models.PaymentStatusCompleted] != 2 || byStatus[models.PaymentStatusPending] != 1 {
		t.Errorf("unexpected status counts: %v", byStatus)
	}

	users, total, err := repo.ListUsers(ctx, UserFilter{Role: models.RoleParticipant})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Errorf("expected 2 participants, got %d/%d", total, len(users))
	}
}
