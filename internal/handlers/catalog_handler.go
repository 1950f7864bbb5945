package handlers

import (
	"event-portal/internal/models"
	"event-portal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CatalogHandler serves categories, sponsors, sponsorship enquiries and stalls
type CatalogHandler struct {
	catalog *services.CatalogService
	stalls  *services.StallService
}

func NewCatalogHandler(catalog *services.CatalogService, stalls *services.StallService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, stalls: stalls}
}

// ListCategories GET /api/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, list)
}

// CreateCategory POST /api/admin/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), user.ID, &models.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, category)
}

// ListSponsors GET /api/sponsors
func (h *CatalogHandler) ListSponsors(c *gin.Context) {
	list, err := h.catalog.ListSponsors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, list)
}

// CreateSponsor POST /api/admin/sponsors
func (h *CatalogHandler) CreateSponsor(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Name    string `json:"name" binding:"required"`
		Tier    string `json:"tier"`
		LogoURL string `json:"logo_url"`
		Website string `json:"website"`
	}
	if !bindJSON(c, &req) {
		return
	}

	sponsor, err := h.catalog.CreateSponsor(c.Request.Context(), user.ID, &models.Sponsor{
		Name:    req.Name,
		Tier:    req.Tier,
		LogoURL: req.LogoURL,
		Website: req.Website,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, sponsor)
}

// SubmitSponsorRequest POST /api/sponsor-requests
func (h *CatalogHandler) SubmitSponsorRequest(c *gin.Context) {
	var req services.SponsorRequestInput
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.catalog.SubmitSponsorRequest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, created)
}

// ListSponsorRequests GET /api/admin/sponsor-requests?status=Pending
func (h *CatalogHandler) ListSponsorRequests(c *gin.Context) {
	list, err := h.catalog.ListSponsorRequests(c.Request.Context(), models.SponsorRequestStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, list)
}

// ReviewSponsorRequest POST /api/admin/sponsor-requests/:id/review
func (h *CatalogHandler) ReviewSponsorRequest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if !bindJSON(c, &req) {
		return
	}

	reviewed, err := h.catalog.ReviewSponsorRequest(c.Request.Context(), user.ID, id, req.Approve)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, reviewed)
}

// ListStalls GET /api/stalls
func (h *CatalogHandler) ListStalls(c *gin.Context) {
	list, err := h.stalls.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, list)
}

// CreateStall POST /api/admin/stalls
func (h *CatalogHandler) CreateStall(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Name     string          `json:"name" binding:"required"`
		Location string          `json:"location"`
		Size     string          `json:"size"`
		Price    decimal.Decimal `json:"price"`
	}
	if !bindJSON(c, &req) {
		return
	}

	stall, err := h.stalls.Create(c.Request.Context(), user.ID, &models.Stall{
		Name:     req.Name,
		Location: req.Location,
		Size:     req.Size,
		Price:    req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, stall)
}

// BookStall POST /api/stalls/:id/book
func (h *CatalogHandler) BookStall(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	stall, err := h.stalls.Book(c.Request.Context(), id, asScanner(user))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stall)
}

// ReleaseStall POST /api/admin/stalls/:id/release
func (h *CatalogHandler) ReleaseStall(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	stall, err := h.stalls.Release(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stall)
}
