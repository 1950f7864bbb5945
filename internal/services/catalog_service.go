package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/notify"
	"event-portal/internal/repository"
)

// SponsorRequestInput is the public sponsorship enquiry form
type SponsorRequestInput struct {
	CompanyName string `json:"company_name" validate:"required,max=255"`
	ContactName string `json:"contact_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Tier        string `json:"tier" validate:"omitempty,max=50"`
	Message     string `json:"message" validate:"omitempty,max=2000"`
}

// CatalogService serves categories, sponsors and sponsorship enquiries
type CatalogService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	audit    *AuditLogger
}

func NewCatalogService(repo *repository.Repository, notifier notify.Notifier, audit *AuditLogger) *CatalogService {
	return &CatalogService{repo: repo, notifier: notifier, audit: audit}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, adminID uint, c *models.Category) (*models.Category, error) {
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConflict, "category already exists", err)
	}
	s.audit.LogAdminAction(ctx, adminID, "CREATE_CATEGORY", "CATEGORY", strconv.FormatUint(uint64(c.ID), 10), models.JSONB{"name": c.Name})
	return c, nil
}

func (s *CatalogService) ListSponsors(ctx context.Context) ([]*models.Sponsor, error) {
	return s.repo.ListSponsors(ctx)
}

func (s *CatalogService) CreateSponsor(ctx context.Context, adminID uint, sp *models.Sponsor) (*models.Sponsor, error) {
	if err := s.repo.CreateSponsor(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to create sponsor: %w", err)
	}
	s.audit.LogAdminAction(ctx, adminID, "CREATE_SPONSOR", "SPONSOR", strconv.FormatUint(uint64(sp.ID), 10), models.JSONB{"name": sp.Name})
	return sp, nil
}

// SubmitSponsorRequest stores an enquiry and alerts the admins
func (s *CatalogService) SubmitSponsorRequest(ctx context.Context, in SponsorRequestInput) (*models.SponsorRequest, error) {
	if err := ValidateStruct(in); err != nil {
		return nil, err
	}

	req := &models.SponsorRequest{
		CompanyName: in.CompanyName,
		ContactName: in.ContactName,
		Email:       NormalizeEmail(in.Email),
		Phone:       in.Phone,
		Tier:        in.Tier,
		Message:     in.Message,
		Status:      models.SponsorRequestPending,
	}
	if err := s.repo.CreateSponsorRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to store sponsor request: %w", err)
	}

	if err := s.notifier.Notify(ctx, notify.SponsorRequest(req.CompanyName, req.ContactName, req.Tier)); err != nil {
		log.Printf("failed to notify admins about sponsor request %d: %v", req.ID, err)
	}
	return req, nil
}

func (s *CatalogService) ListSponsorRequests(ctx context.Context, status models.SponsorRequestStatus) ([]*models.SponsorRequest, error) {
	return s.repo.ListSponsorRequests(ctx, status)
}

// ReviewSponsorRequest approves or rejects a pending enquiry. Approval lists
// the company as a sponsor.
func (s *CatalogService) ReviewSponsorRequest(ctx context.Context, adminID, id uint, approve bool) (*models.SponsorRequest, error) {
	status := models.SponsorRequestRejected
	if approve {
		status = models.SponsorRequestApproved
	}

	var req *models.SponsorRequest
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		existing, err := tx.GetSponsorRequestByID(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperrors.New(apperrors.CodeNotFound, "sponsor request not found")
			}
			return err
		}

		ok, err := tx.ReviewSponsorRequest(ctx, id, status, adminID)
		if err != nil {
			return fmt.Errorf("failed to review sponsor request: %w", err)
		}
		if !ok {
			return apperrors.New(apperrors.CodeConflict, "sponsor request was already reviewed")
		}

		if approve {
			sponsor := &models.Sponsor{Name: existing.CompanyName, Tier: existing.Tier}
			if err := tx.CreateSponsor(ctx, sponsor); err != nil {
				return fmt.Errorf("failed to create sponsor: %w", err)
			}
		}

		req, err = tx.GetSponsorRequestByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogAdminAction(ctx, adminID, "REVIEW_SPONSOR_REQUEST", "SPONSOR_REQUEST", strconv.FormatUint(uint64(id), 10), models.JSONB{"status": string(status)})
	return req, nil
}
