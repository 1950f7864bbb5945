package handlers

import (
	"event-portal/internal/auth"
	"event-portal/internal/models"
	"event-portal/internal/services"

	"github.com/gin-gonic/gin"
)

type VotingHandler struct {
	voting  *services.VotingService
	pitches *services.PitchService
}

func NewVotingHandler(voting *services.VotingService, pitches *services.PitchService) *VotingHandler {
	return &VotingHandler{voting: voting, pitches: pitches}
}

// GetActive returns the contestant open for votes; data is null when voting is closed
// GET /api/voting
func (h *VotingHandler) GetActive(c *gin.Context) {
	viewerID, _ := auth.GetUserID(c)

	active, err := h.voting.GetActive(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, active)
}

// Vote records the caller's vote on the active contestant
// POST /api/voting
func (h *VotingHandler) Vote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		ContestantID uint            `json:"contestant_id"`
		Type         models.VoteType `json:"type" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.voting.Vote(c.Request.Context(), user.ID, req.ContestantID, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// Leaderboard lists contestants by net score
// GET /api/voting/leaderboard
func (h *VotingHandler) Leaderboard(c *gin.Context) {
	board, err := h.voting.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, board)
}

// ListContestants GET /api/admin/contestants
func (h *VotingHandler) ListContestants(c *gin.Context) {
	list, err := h.voting.ListContestants(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, list)
}

// CreateContestant POST /api/admin/contestants
func (h *VotingHandler) CreateContestant(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		TeamName    string `json:"team_name"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}
	if !bindJSON(c, &req) {
		return
	}

	contestant, err := h.voting.CreateContestant(c.Request.Context(), user.ID, &models.Contestant{
		Name:        req.Name,
		TeamName:    req.TeamName,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, contestant)
}

// ActivateContestant POST /api/admin/contestants/:id/activate
func (h *VotingHandler) ActivateContestant(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	view, err := h.voting.Activate(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// DeactivateContestants POST /api/admin/contestants/deactivate
func (h *VotingHandler) DeactivateContestants(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.voting.DeactivateAll(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"voting_open": false})
}

// ListPitches GET /api/pitches
func (h *VotingHandler) ListPitches(c *gin.Context) {
	pitches, err := h.pitches.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, pitches)
}

// CreatePitch POST /api/admin/pitches
func (h *VotingHandler) CreatePitch(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Title     string `json:"title" binding:"required"`
		TeamName  string `json:"team_name" binding:"required"`
		Category  string `json:"category"`
		SlotOrder int    `json:"slot_order"`
	}
	if !bindJSON(c, &req) {
		return
	}

	pitch, err := h.pitches.Create(c.Request.Context(), user.ID, &models.Pitch{
		Title:     req.Title,
		TeamName:  req.TeamName,
		Category:  req.Category,
		SlotOrder: req.SlotOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, pitch)
}

// RatePitch records a judge's score
// POST /api/pitches/:id/rate
func (h *VotingHandler) RatePitch(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Score   int    `json:"score" binding:"required"`
		Comment string `json:"comment"`
	}
	if !bindJSON(c, &req) {
		return
	}

	rating, err := h.pitches.Rate(c.Request.Context(), id, asScanner(user), req.Score, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rating)
}
