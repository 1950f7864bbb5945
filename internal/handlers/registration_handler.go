package handlers

import (
	"io"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/services"

	"github.com/gin-gonic/gin"
)

const maxRegistrationBody = 64 << 10

type RegistrationHandler struct {
	registrations *services.RegistrationService
	verifications *services.VerificationService
	coupons       *services.CouponService
	secureCookie  bool
}

func NewRegistrationHandler(
	registrations *services.RegistrationService,
	verifications *services.VerificationService,
	coupons *services.CouponService,
	secureCookie bool,
) *RegistrationHandler {
	return &RegistrationHandler{
		registrations: registrations,
		verifications: verifications,
		coupons:       coupons,
		secureCookie:  secureCookie,
	}
}

// SendOTP mails a verification code
// POST /api/verify/send
func (h *RegistrationHandler) SendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.verifications.SendOTP(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"email": services.NormalizeEmail(req.Email), "sent": true})
}

// ConfirmOTP checks a verification code
// POST /api/verify/confirm
func (h *RegistrationHandler) ConfirmOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.verifications.ConfirmOTP(c.Request.Context(), req.Email, req.Code); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"email": services.NormalizeEmail(req.Email), "verified": true})
}

// Register creates an account for any of the registration roles
// POST /api/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRegistrationBody))
	if err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodeValidationFailed, "Invalid request body", err))
		return
	}

	reg, err := services.DecodeRegistration(body)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.registrations.Register(c.Request.Context(), reg)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, result.Token, h.secureCookie)
	respondCreated(c, result)
}

// ApplyCoupon previews a coupon without redeeming it
// POST /api/coupons/apply
func (h *RegistrationHandler) ApplyCoupon(c *gin.Context) {
	var req struct {
		Code      string      `json:"code" binding:"required"`
		CollegeID *uint       `json:"college_id"`
		Role      models.Role `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Role == "" {
		req.Role = models.RoleParticipant
	}

	preview, err := h.coupons.Preview(c.Request.Context(), req.Code, req.CollegeID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, preview)
}

