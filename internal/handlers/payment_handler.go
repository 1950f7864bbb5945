package handlers

import (
	"event-portal/internal/apperrors"
	"event-portal/internal/auth"
	"event-portal/internal/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateOrder opens a checkout order for the caller
// POST /api/payment/order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, err := h.payments.CreateOrder(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order)
}

// Verify completes a registration after checkout, or directly when nothing is owed.
// The user comes from the body, falling back to the session.
// POST /api/payment/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req struct {
		UserID    uint   `json:"user_id"`
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if req.UserID == 0 {
		if id, ok := auth.GetUserID(c); ok {
			req.UserID = id
		}
	}
	if req.UserID == 0 {
		respondError(c, apperrors.Validation("user_id is required", map[string]string{"user_id": "is required"}))
		return
	}

	result, err := h.payments.Verify(c.Request.Context(), services.VerifyPaymentRequest{
		UserID:    req.UserID,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}
