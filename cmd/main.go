package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"event-portal/internal/auth"
	"event-portal/internal/config"
	"event-portal/internal/database"
	"event-portal/internal/handlers"
	"event-portal/internal/jobs"
	"event-portal/internal/livestate"
	"event-portal/internal/mail"
	"event-portal/internal/notify"
	"event-portal/internal/payments"
	"event-portal/internal/repository"
	"event-portal/internal/services"
	"event-portal/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Tracing is enabled only when an exporter endpoint is configured
	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to set up telemetry: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret, cfg.App.TokenTTL)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository
	repo := repository.NewRepository(database.GetDB())

	// External integrations
	mailer := mail.NewMailer(cfg.Mail)
	notifier, err := notify.NewNotifier(cfg.Telegram)
	if err != nil {
		log.Printf("Telegram notifications disabled: %v", err)
		notifier = notify.LogNotifier{}
	}
	gateway, err := payments.NewGateway(cfg.Payment)
	if err != nil {
		log.Fatalf("Failed to set up payment gateway: %v", err)
	}
	liveStore, err := livestate.New(cfg.App.LiveStateFile)
	if err != nil {
		log.Fatalf("Failed to load live state: %v", err)
	}

	// Initialize services
	audit := services.NewAuditLogger(repo)
	authService := services.NewAuthService(repo)
	couponService := services.NewCouponService(repo, cfg.ParticipantTicketPrice())
	verificationService := services.NewVerificationService(repo, mailer, cfg.App.OTPTTL, cfg.App.EventName)
	registrationService := services.NewRegistrationService(repo, couponService, verificationService, mailer, notifier, cfg.App.EventName)
	paymentService := services.NewPaymentService(repo, gateway, mailer, cfg.Payment.Currency, cfg.Payment.KeyID, cfg.App.EventName)
	ticketService := services.NewTicketService(repo, audit)
	votingService := services.NewVotingService(repo, audit)
	pitchService := services.NewPitchService(repo, audit)
	liveService := services.NewLiveService(liveStore, pitchService, audit)
	stallService := services.NewStallService(repo, audit)
	catalogService := services.NewCatalogService(repo, notifier, audit)
	adminService := services.NewAdminService(repo, ticketService, audit)

	// Bootstrap super admin
	if cfg.App.AdminEmail != "" {
		if err := authService.EnsureSuperAdmin(context.Background(), cfg.App.AdminName, cfg.App.AdminEmail, cfg.App.AdminPassword); err != nil {
			log.Fatalf("Failed to create super admin: %v", err)
		}
	}

	// Start verification cleanup job (runs every 15 minutes)
	cleanupJob := jobs.NewVerificationCleanupJob(verificationService)
	cleanupJob.Start(15 * time.Minute)
	log.Println("Verification cleanup job started")

	// Initialize handlers
	secureCookie := strings.HasPrefix(cfg.Server.FrontendURL, "https://")
	router := handlers.NewRouter(&handlers.Handlers{
		Auth:         handlers.NewAuthHandler(authService, secureCookie),
		Registration: handlers.NewRegistrationHandler(registrationService, verificationService, couponService, secureCookie),
		Payment:      handlers.NewPaymentHandler(paymentService),
		Ticket:       handlers.NewTicketHandler(ticketService),
		Voting:       handlers.NewVotingHandler(votingService, pitchService),
		Live:         handlers.NewLiveHandler(liveService),
		Catalog:      handlers.NewCatalogHandler(catalogService, stallService),
		Admin:        handlers.NewAdminHandler(adminService),
	}, allowedOrigins(cfg))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)
		log.Printf("Payment gateway: %s", gateway.Name())

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cleanupJob.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("Failed to flush traces: %v", err)
	}

	log.Println("Server exited")
}

// allowedOrigins merges the configured CORS origins with the frontend URL
func allowedOrigins(cfg *config.Config) []string {
	origins := append([]string{}, cfg.Server.AllowedOrigins...)
	if cfg.Server.FrontendURL != "" {
		origins = append(origins, strings.TrimRight(cfg.Server.FrontendURL, "/"))
	}
	return origins
}
