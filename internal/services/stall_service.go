package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/repository"
)

type StallService struct {
	repo  *repository.Repository
	audit *AuditLogger
}

func NewStallService(repo *repository.Repository, audit *AuditLogger) *StallService {
	return &StallService{repo: repo, audit: audit}
}

// List returns every stall with its booking status
func (s *StallService) List(ctx context.Context) ([]*models.Stall, error) {
	return s.repo.ListStalls(ctx)
}

// Create adds a stall to the floor plan
func (s *StallService) Create(ctx context.Context, adminID uint, stall *models.Stall) (*models.Stall, error) {
	stall.Status = models.StallAvailable
	stall.BookedByUserID = nil
	stall.BookedAt = nil
	if err := s.repo.CreateStall(ctx, stall); err != nil {
		return nil, fmt.Errorf("failed to create stall: %w", err)
	}
	s.audit.LogAdminAction(ctx, adminID, "CREATE_STALL", "STALL", strconv.FormatUint(uint64(stall.ID), 10), models.JSONB{"name": stall.Name})
	return stall, nil
}

// Book reserves a stall for a sponsor. Only an Available stall can be booked.
func (s *StallService) Book(ctx context.Context, stallID uint, user Scanner) (*models.Stall, error) {
	if user.Role != models.RoleSponsor && user.Role != models.RoleSponsorAdmin {
		return nil, apperrors.ErrForbidden
	}

	if _, err := s.repo.GetStallByID(ctx, stallID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "stall not found")
		}
		return nil, err
	}

	ok, err := s.repo.BookStall(ctx, stallID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to book stall: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrStallUnavailable
	}

	log.Printf("Stall %d booked by user %d", stallID, user.ID)
	return s.repo.GetStallByID(ctx, stallID)
}

// Release makes a booked stall available again
func (s *StallService) Release(ctx context.Context, adminID, stallID uint) (*models.Stall, error) {
	if err := s.repo.ReleaseStall(ctx, stallID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "stall not found")
		}
		return nil, fmt.Errorf("failed to release stall: %w", err)
	}
	s.audit.LogAdminAction(ctx, adminID, "RELEASE_STALL", "STALL", strconv.FormatUint(uint64(stallID), 10), nil)
	return s.repo.GetStallByID(ctx, stallID)
}
