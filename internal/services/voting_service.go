package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"event-portal/internal/apperrors"
	"event-portal/internal/models"
	"event-portal/internal/repository"
)

// ContestantView is a contestant with its derived tally
type ContestantView struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	TeamName    string           `json:"team_name"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url,omitempty"`
	IsActive    bool             `json:"is_active"`
	Upvotes     int              `json:"upvotes"`
	Downvotes   int              `json:"downvotes"`
	NetScore    int              `json:"net_score"`
	MyVote      *models.VoteType `json:"my_vote,omitempty"`
}

func newContestantView(c *models.Contestant, viewerID uint) *ContestantView {
	v := &ContestantView{
		ID:          c.ID,
		Name:        c.Name,
		TeamName:    c.TeamName,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		IsActive:    c.IsActive,
		NetScore:    c.NetScore(),
	}
	for _, vote := range c.Votes {
		switch vote.Type {
		case models.VoteUp:
			v.Upvotes++
		case models.VoteDown:
			v.Downvotes++
		}
		if viewerID != 0 && vote.UserID == viewerID {
			t := vote.Type
			v.MyVote = &t
		}
	}
	return v
}

type VotingService struct {
	repo  *repository.Repository
	audit *AuditLogger
}

func NewVotingService(repo *repository.Repository, audit *AuditLogger) *VotingService {
	return &VotingService{repo: repo, audit: audit}
}

// GetActive returns the contestant open for votes, or nil when voting is closed.
// viewerID may be zero for anonymous callers.
func (s *VotingService) GetActive(ctx context.Context, viewerID uint) (*ContestantView, error) {
	c, err := s.repo.GetActiveContestant(ctx)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load active contestant: %w", err)
	}
	return newContestantView(c, viewerID), nil
}

// Vote records userID's vote on the active contestant. A later vote replaces
// the earlier one. contestantID, when non-zero, must name the active contestant.
func (s *VotingService) Vote(ctx context.Context, userID, contestantID uint, voteType models.VoteType) (*ContestantView, error) {
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return nil, apperrors.Validation("invalid vote", map[string]string{"type": "must be up or down"})
	}

	active, err := s.repo.GetActiveContestant(ctx)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.ErrNoActiveContestant
		}
		return nil, fmt.Errorf("failed to load active contestant: %w", err)
	}
	if contestantID != 0 && contestantID != active.ID {
		return nil, apperrors.New(apperrors.CodeConflict, "voting is closed for this contestant")
	}

	vote := &models.ContestantVote{
		ContestantID: active.ID,
		UserID:       userID,
		Type:         voteType,
		VotedAt:      time.Now(),
	}
	if err := s.repo.UpsertVote(ctx, vote); err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	updated, err := s.repo.GetContestantByID(ctx, active.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contestant: %w", err)
	}
	return newContestantView(updated, userID), nil
}

// Leaderboard returns every contestant ordered by net score
func (s *VotingService) Leaderboard(ctx context.Context) ([]*ContestantView, error) {
	contestants, err := s.repo.ListContestants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contestants: %w", err)
	}

	views := make([]*ContestantView, 0, len(contestants))
	for _, c := range contestants {
		views = append(views, newContestantView(c, 0))
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].NetScore > views[j].NetScore
	})
	return views, nil
}

// CreateContestant adds a contestant, inactive until activated
func (s *VotingService) CreateContestant(ctx context.Context, adminID uint, c *models.Contestant) (*models.Contestant, error) {
	c.IsActive = false
	if err := s.repo.CreateContestant(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create contestant: %w", err)
	}
	s.audit.LogAdminAction(ctx, adminID, "CREATE_CONTESTANT", "CONTESTANT", strconv.FormatUint(uint64(c.ID), 10), models.JSONB{"name": c.Name})
	return c, nil
}

// ListContestants returns all contestants with tallies
func (s *VotingService) ListContestants(ctx context.Context) ([]*ContestantView, error) {
	contestants, err := s.repo.ListContestants(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*ContestantView, 0, len(contestants))
	for _, c := range contestants {
		views = append(views, newContestantView(c, 0))
	}
	return views, nil
}

// Activate opens voting on id and closes it on every other contestant
func (s *VotingService) Activate(ctx context.Context, adminID, id uint) (*ContestantView, error) {
	if err := s.repo.ActivateContestant(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "contestant not found")
		}
		return nil, fmt.Errorf("failed to activate contestant: %w", err)
	}

	s.audit.LogAdminAction(ctx, adminID, "ACTIVATE_CONTESTANT", "CONTESTANT", strconv.FormatUint(uint64(id), 10), nil)
	log.Printf("Contestant %d activated by admin %d", id, adminID)

	c, err := s.repo.GetContestantByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return newContestantView(c, 0), nil
}

// DeactivateAll closes voting
func (s *VotingService) DeactivateAll(ctx context.Context, adminID uint) error {
	if err := s.repo.DeactivateContestants(ctx); err != nil {
		return fmt.Errorf("failed to deactivate contestants: %w", err)
	}
	s.audit.LogAdminAction(ctx, adminID, "DEACTIVATE_CONTESTANTS", "CONTESTANT", "", nil)
	return nil
}
