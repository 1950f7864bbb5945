package handlers

import (
	"event-portal/internal/services"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	tickets *services.TicketService
}

func NewTicketHandler(tickets *services.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// GetMyTicket returns the caller's ticket
// GET /api/ticket/me
func (h *TicketHandler) GetMyTicket(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ticket, err := h.tickets.GetMyTicket(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ticket)
}

// Scan admits a ticket at the gate
// POST /api/ticket/verify
func (h *TicketHandler) Scan(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.tickets.Scan(c.Request.Context(), req.Code, asScanner(user))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// Stats counts tickets by status
// GET /api/admin/tickets/stats
func (h *TicketHandler) Stats(c *gin.Context) {
	stats, err := h.tickets.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

// Reset returns a ticket to Valid
// POST /api/admin/tickets/:id/reset
func (h *TicketHandler) Reset(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ticket, err := h.tickets.Reset(c.Request.Context(), id, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ticket)
}

// Invalidate blocks a ticket from entry
// POST /api/admin/tickets/:id/invalidate
func (h *TicketHandler) Invalidate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	ticket, err := h.tickets.Invalidate(c.Request.Context(), id, user.ID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ticket)
}
