package handlers

import (
	"net/http"
	"strconv"
	"time"

	"event-portal/internal/models"
	"event-portal/internal/repository"
	"event-portal/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetDashboard returns admin dashboard data
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

// GetUsers returns users filtered by role, payment status and search text
func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, total, err := h.adminService.ListUsers(c.Request.Context(), repository.UserFilter{
		Role:          models.Role(c.Query("role")),
		PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
		Search:        c.Query("search"),
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    users,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetPendingRegistrations lists registrations still unpaid after ?older_than (default 1h)
func (h *AdminHandler) GetPendingRegistrations(c *gin.Context) {
	olderThan, err := time.ParseDuration(c.DefaultQuery("older_than", "1h"))
	if err != nil {
		olderThan = time.Hour
	}

	rows, err := h.adminService.PendingRegistrations(c.Request.Context(), olderThan)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}

func (h *AdminHandler) GetColleges(c *gin.Context) {
	colleges, err := h.adminService.ListColleges(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, colleges)
}

func (h *AdminHandler) CreateCollege(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CollegeInput
	if !bindJSON(c, &req) {
		return
	}

	college, err := h.adminService.CreateCollege(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, college)
}

func (h *AdminHandler) GetCoupons(c *gin.Context) {
	coupons, err := h.adminService.ListCoupons(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, coupons)
}

func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CouponInput
	if !bindJSON(c, &req) {
		return
	}

	coupon, err := h.adminService.CreateCoupon(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, coupon)
}

// SetCouponActive enables or disables a coupon
func (h *AdminHandler) SetCouponActive(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	coupon, err := h.adminService.SetCouponActive(c.Request.Context(), user.ID, id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, coupon)
}

// GetAdminLogs returns recent admin actions
func (h *AdminHandler) GetAdminLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.adminService.ListLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, logs)
}
