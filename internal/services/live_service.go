package services

import (
	"context"
	"log"
	"strconv"

	"event-portal/internal/livestate"
	"event-portal/internal/models"
)

// LiveUpdate is a partial change to the live state; nil fields are left alone
type LiveUpdate struct {
	CurrentPitchID  *uint   `json:"current_pitch_id"`
	ClearPitch      bool    `json:"clear_pitch"`
	VotingOpen      *bool   `json:"voting_open"`
	ShowLeaderboard *bool   `json:"show_leaderboard"`
	Announcement    *string `json:"announcement"`
}

// LiveService drives the stage display and keeps pitch statuses in step with it
type LiveService struct {
	store   livestate.Store
	pitches *PitchService
	audit   *AuditLogger
}

func NewLiveService(store livestate.Store, pitches *PitchService, audit *AuditLogger) *LiveService {
	return &LiveService{store: store, pitches: pitches, audit: audit}
}

// Get returns the current live state
func (s *LiveService) Get() livestate.State {
	return s.store.Get()
}

// Subscribe streams committed states
func (s *LiveService) Subscribe() (<-chan livestate.State, func()) {
	return s.store.Subscribe()
}

// Update applies u. Putting a pitch on stage marks it Live and the previous one Done.
func (s *LiveService) Update(ctx context.Context, adminID uint, u LiveUpdate) (livestate.State, error) {
	previous := s.store.Get().CurrentPitchID

	if u.CurrentPitchID != nil {
		if err := s.pitches.SetStatus(ctx, *u.CurrentPitchID, models.PitchStatusLive); err != nil {
			return livestate.State{}, err
		}
	}

	st, err := s.store.Update(func(st *livestate.State) {
		switch {
		case u.ClearPitch:
			st.CurrentPitchID = nil
		case u.CurrentPitchID != nil:
			id := *u.CurrentPitchID
			st.CurrentPitchID = &id
		}
		if u.VotingOpen != nil {
			st.VotingOpen = *u.VotingOpen
		}
		if u.ShowLeaderboard != nil {
			st.ShowLeaderboard = *u.ShowLeaderboard
		}
		if u.Announcement != nil {
			st.Announcement = *u.Announcement
		}
	})
	if err != nil {
		return st, err
	}

	if previous != nil && (st.CurrentPitchID == nil || *st.CurrentPitchID != *previous) {
		if err := s.pitches.SetStatus(ctx, *previous, models.PitchStatusDone); err != nil {
			log.Printf("failed to close pitch %d: %v", *previous, err)
		}
	}

	s.audit.LogAdminAction(ctx, adminID, "UPDATE_LIVE_STATE", "LIVE", strconv.FormatUint(st.Version, 10), nil)
	return st, nil
}
