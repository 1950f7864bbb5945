// Package livestate holds the shared state of the live session: which pitch is
// on stage, whether voting is open and what the big screen shows.
package livestate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// State is a snapshot of the live session
type State struct {
	CurrentPitchID  *uint     `json:"current_pitch_id"`
	VotingOpen      bool      `json:"voting_open"`
	ShowLeaderboard bool      `json:"show_leaderboard"`
	Announcement    string    `json:"announcement"`
	Version         uint64    `json:"version"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Store serialises reads and writes of the live state and fans changes out
// to subscribers.
type Store interface {
	Get() State
	// Update applies fn to a copy of the current state. Version and UpdatedAt
	// are assigned by the store.
	Update(fn func(*State)) (State, error)
	// Subscribe returns a channel receiving every committed state and a
	// function that cancels the subscription.
	Subscribe() (<-chan State, func())
}

// subscriberBuffer bounds how far a slow listener may lag before updates are dropped for it.
const subscriberBuffer = 8

// MemoryStore keeps state in memory, optionally mirrored to a JSON file
type MemoryStore struct {
	mu    sync.RWMutex
	state State
	path  string

	subMu  sync.Mutex
	subs   map[int]chan State
	nextID int
}

// NewMemoryStore returns a store without persistence
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[int]chan State)}
}

// NewFileStore returns a store persisted to path. Existing state is loaded
// when the file is present.
func NewFileStore(path string) (*MemoryStore, error) {
	s := NewMemoryStore()
	s.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read live state: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("decode live state %s: %w", path, err)
	}
	return s, nil
}

// New picks a file store when path is set
func New(path string) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	return NewFileStore(path)
}

func (s *MemoryStore) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

func (s *MemoryStore) Update(fn func(*State)) (State, error) {
	s.mu.Lock()

	next := cloneState(s.state)
	fn(&next)
	next.Version = s.state.Version + 1
	next.UpdatedAt = time.Now().UTC()

	if s.path != "" {
		if err := writeFile(s.path, next); err != nil {
			s.mu.Unlock()
			return s.Get(), err
		}
	}
	s.state = next
	// Broadcast under the write lock so subscribers see versions in order.
	s.broadcast(next)
	s.mu.Unlock()

	return cloneState(next), nil
}

func (s *MemoryStore) Subscribe() (<-chan State, func()) {
	ch := make(chan State, subscriberBuffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *MemoryStore) broadcast(st State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- cloneState(st):
		default:
		}
	}
}

func cloneState(st State) State {
	if st.CurrentPitchID != nil {
		id := *st.CurrentPitchID
		st.CurrentPitchID = &id
	}
	return st
}

func writeFile(path string, st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode live state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".livestate-*")
	if err != nil {
		return fmt.Errorf("create temp live state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write live state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close live state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace live state: %w", err)
	}
	return nil
}
