package services

import (
	"context"
	"fmt"
	"strconv"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/repository"
)

const (
	minPitchScore = 1
	maxPitchScore = 10
)

// PitchView is a pitch with its aggregated rating
type PitchView struct {
	*models.Pitch
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

type PitchService struct {
	repo  *repository.Repository
	audit *AuditLogger
}

func NewPitchService(repo *repository.Repository, audit *AuditLogger) *PitchService {
	return &PitchService{repo: repo, audit: audit}
}

// List returns pitches in slot order with average ratings
func (s *PitchService) List(ctx context.Context) ([]*PitchView, error) {
	pitches, err := s.repo.ListPitches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pitches: %w", err)
	}

	views := make([]*PitchView, 0, len(pitches))
	for _, p := range pitches {
		view := &PitchView{Pitch: p, RatingCount: len(p.Ratings)}
		if view.RatingCount > 0 {
			total := 0
			for _, r := range p.Ratings {
				total += r.Score
			}
			view.AverageRating = float64(total) / float64(view.RatingCount)
		}
		views = append(views, view)
	}
	return views, nil
}

// Create schedules a pitch
func (s *PitchService) Create(ctx context.Context, adminID uint, p *models.Pitch) (*models.Pitch, error) {
	if p.Status == "" {
		p.Status = models.PitchStatusUpcoming
	}
	if err := s.repo.CreatePitch(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create pitch: %w", err)
	}
	s.audit.LogAdminAction(ctx, adminID, "CREATE_PITCH", "PITCH", strconv.FormatUint(uint64(p.ID), 10), models.JSONB{"title": p.Title})
	return p, nil
}

// Rate records a judge's score; rating again replaces the earlier score
func (s *PitchService) Rate(ctx context.Context, pitchID uint, judge Scanner, score int, comment string) (*models.PitchRating, error) {
	if !judge.Role.CanScan() {
		return nil, apperrors.ErrForbidden
	}
	if score < minPitchScore || score > maxPitchScore {
		return nil, apperrors.Validation("invalid score", map[string]string{"score": "must be between 1 and 10"})
	}

	if _, err := s.repo.GetPitchByID(ctx, pitchID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "pitch not found")
		}
		return nil, err
	}

	rating := &models.PitchRating{
		PitchID: pitchID,
		JudgeID: judge.ID,
		Score:   score,
		Comment: comment,
	}
	if err := s.repo.UpsertRating(ctx, rating); err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}
	return rating, nil
}

// SetStatus moves a pitch through Upcoming, Live and Done
func (s *PitchService) SetStatus(ctx context.Context, id uint, status models.PitchStatus) error {
	switch status {
	case models.PitchStatusUpcoming, models.PitchStatusLive, models.PitchStatusDone:
	default:
		return apperrors.Validation("invalid pitch status", map[string]string{"status": "must be Upcoming, Live or Done"})
	}
	if err := s.repo.SetPitchStatus(ctx, id, status); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "pitch not found")
		}
		return err
	}
	return nil
}
