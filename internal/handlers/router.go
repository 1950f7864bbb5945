package handlers

import (
	"net/http"
	"time"

	"event-portal/internal/auth"
	"event-portal/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth         *AuthHandler
	Registration *RegistrationHandler
	Payment      *PaymentHandler
	Ticket       *TicketHandler
	Voting       *VotingHandler
	Live         *LiveHandler
	Catalog      *CatalogHandler
	Admin        *AdminHandler
}

var (
	scannerRoles = []models.Role{models.RoleManager, models.RoleAdmin, models.RoleSuperAdmin}
	adminRoles   = []models.Role{models.RoleAdmin, models.RoleSuperAdmin}
	sponsorRoles = []models.Role{models.RoleSponsor, models.RoleSponsorAdmin}
)

// NewRouter builds the gin engine with CORS and every route
func NewRouter(h *Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/logout", h.Auth.Logout)
		authRoutes.GET("/me", auth.AuthMiddleware(), h.Auth.GetMe)
	}

	// Public API routes; a valid token is attached when present
	public := router.Group("/api")
	public.Use(auth.OptionalAuth())
	{
		public.POST("/verify/send", h.Registration.SendOTP)
		public.POST("/verify/confirm", h.Registration.ConfirmOTP)
		public.POST("/register", h.Registration.Register)
		public.POST("/coupons/apply", h.Registration.ApplyCoupon)
		public.POST("/payment/verify", h.Payment.Verify)

		public.GET("/voting", h.Voting.GetActive)
		public.GET("/voting/leaderboard", h.Voting.Leaderboard)
		public.GET("/pitches", h.Voting.ListPitches)

		public.GET("/live", h.Live.Get)
		public.GET("/live/stream", h.Live.Stream)

		public.GET("/categories", h.Catalog.ListCategories)
		public.GET("/sponsors", h.Catalog.ListSponsors)
		public.GET("/stalls", h.Catalog.ListStalls)
		public.POST("/sponsor-requests", h.Catalog.SubmitSponsorRequest)
	}

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.POST("/payment/order", h.Payment.CreateOrder)
		api.GET("/ticket/me", h.Ticket.GetMyTicket)
		api.POST("/voting", h.Voting.Vote)

		api.POST("/ticket/verify", auth.RequireRoles(scannerRoles...), h.Ticket.Scan)
		api.POST("/pitches/:id/rate", auth.RequireRoles(scannerRoles...), h.Voting.RatePitch)
		api.POST("/stalls/:id/book", auth.RequireRoles(sponsorRoles...), h.Catalog.BookStall)
	}

	// Admin routes (protected + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(auth.RequireRoles(adminRoles...))
	{
		admin.GET("/dashboard", h.Admin.GetDashboard)
		admin.GET("/logs", h.Admin.GetAdminLogs)

		// Registrations
		admin.GET("/users", h.Admin.GetUsers)
		admin.GET("/registrations/pending", h.Admin.GetPendingRegistrations)
		admin.GET("/colleges", h.Admin.GetColleges)
		admin.POST("/colleges", h.Admin.CreateCollege)
		admin.GET("/coupons", h.Admin.GetCoupons)
		admin.POST("/coupons", h.Admin.CreateCoupon)
		admin.PUT("/coupons/:id/active", h.Admin.SetCouponActive)

		// Tickets
		admin.GET("/tickets/stats", h.Ticket.Stats)
		admin.POST("/tickets/:id/reset", h.Ticket.Reset)
		admin.POST("/tickets/:id/invalidate", h.Ticket.Invalidate)

		// Live session
		admin.GET("/contestants", h.Voting.ListContestants)
		admin.POST("/contestants", h.Voting.CreateContestant)
		admin.POST("/contestants/deactivate", h.Voting.DeactivateContestants)
		admin.POST("/contestants/:id/activate", h.Voting.ActivateContestant)
		admin.POST("/pitches", h.Voting.CreatePitch)
		admin.POST("/live", h.Live.Update)

		// Catalogue
		admin.POST("/categories", h.Catalog.CreateCategory)
		admin.POST("/sponsors", h.Catalog.CreateSponsor)
		admin.GET("/sponsor-requests", h.Catalog.ListSponsorRequests)
		admin.POST("/sponsor-requests/:id/review", h.Catalog.ReviewSponsorRequest)
		admin.POST("/stalls", h.Catalog.CreateStall)
		admin.POST("/stalls/:id/release", h.Catalog.ReleaseStall)
	}

	return router
}
