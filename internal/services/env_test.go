package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"event-portal/internal/auth"
	"event-portal/internal/livestate"
	"event-portal/internal/mail"
	"event-portal/internal/models"
	"event-portal/internal/payments/stub"
	"event-portal/internal/repository"
	"event-portal/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testSecret = "test-payment-secret"

func init() {
	auth.InitJWT("test-jwt-secret", time.Hour)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *fakeNotifier) Notify(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

// countingGateway wraps the stub gateway and counts orders
type countingGateway struct {
	*stub.Provider
	orders     int
	lastAmount int64
}

func (g *countingGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	g.orders++
	g.lastAmount = amountMinor
	return g.Provider.CreateOrder(ctx, amountMinor, currency, receipt)
}

type testEnv struct {
	db       *gorm.DB
	repo     *repository.Repository
	mailer   *fakeMailer
	notifier *fakeNotifier
	gateway  *countingGateway

	coupons       *CouponService
	verifications *VerificationService
	registrations *RegistrationService
	auth          *AuthService
	payments      *PaymentService
	tickets       *TicketService
	voting        *VotingService
	pitches       *PitchService
	live          *LiveService
	stalls        *StallService
	catalog       *CatalogService
	admin         *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repo := repository.NewRepository(db)
	audit := NewAuditLogger(repo)

	env := &testEnv{
		db:       db,
		repo:     repo,
		mailer:   &fakeMailer{},
		notifier: &fakeNotifier{},
		gateway:  &countingGateway{Provider: stub.New(testSecret)},
	}

	env.coupons = NewCouponService(repo, decimal.NewFromInt(1800))
	env.verifications = NewVerificationService(repo, env.mailer, 10*time.Minute, "TestFest")
	env.registrations = NewRegistrationService(repo, env.coupons, env.verifications, env.mailer, env.notifier, "TestFest")
	env.auth = NewAuthService(repo)
	env.payments = NewPaymentService(repo, env.gateway, env.mailer, "INR", "", "TestFest")
	env.tickets = NewTicketService(repo, audit)
	env.voting = NewVotingService(repo, audit)
	env.pitches = NewPitchService(repo, audit)
	env.live = NewLiveService(livestate.NewMemoryStore(), env.pitches, audit)
	env.stalls = NewStallService(repo, audit)
	env.catalog = NewCatalogService(repo, env.notifier, audit)
	env.admin = NewAdminService(repo, env.tickets, audit)
	return env
}

// markVerified stores a confirmed verification for email
func (e *testEnv) markVerified(t *testing.T, email string) {
	t.Helper()
	now := time.Now().UTC()
	v := &models.EmailVerification{
		Email:      NormalizeEmail(email),
		OTPHash:    "x",
		ExpiresAt:  now.Add(time.Hour),
		Verified:   true,
		VerifiedAt: &now,
	}
	if err := e.db.Create(v).Error; err != nil {
		t.Fatalf("failed to mark %s verified: %v", email, err)
	}
}

func participant(email, coupon string, collegeID *uint) *ParticipantRegistration {
	return &ParticipantRegistration{
		RegistrationBase: RegistrationBase{
			Name:       "Asha Rao",
			Email:      email,
			Phone:      "9876543210",
			Password:   "password123",
			CollegeID:  collegeID,
			CouponCode: coupon,
		},
		TeamName:    "Byte Club",
		ProjectName: "Gatekeeper",
		Category:    "AI",
	}
}

// registerParticipant verifies email and registers a participant
func (e *testEnv) registerParticipant(t *testing.T, email, coupon string, collegeID *uint) (*RegistrationResult, error) {
	t.Helper()
	e.markVerified(t, email)
	return e.registrations.Register(context.Background(), participant(email, coupon, collegeID))
}

var otpPattern = regexp.MustCompile(`\b(\d{6})\b`)

func extractOTP(t *testing.T, body string) string {
	t.Helper()
	m := otpPattern.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no code in message: %s", body)
	}
	return m[1]
}

func scannerFor(user *models.User) Scanner {
	return Scanner{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}

func uintPtr(v uint) *uint {
	return &v
}
