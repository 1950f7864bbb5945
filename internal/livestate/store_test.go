package livestate

import (
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestUpdateBumpsVersion(t *testing.T) {
	s := NewMemoryStore()

	st, err := s.Update(func(st *State) { st.VotingOpen = true })
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if st.Version != 1 || !st.VotingOpen {
		t.Errorf("unexpected state after update: %+v", st)
	}
	if st.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}

	// Version is owned by the store.
	st, _ = s.Update(func(st *State) { st.Version = 100 })
	if st.Version != 2 {
		t.Errorf("expected version 2, got %d", st.Version)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	id := uint(7)
	s.Update(func(st *State) { st.CurrentPitchID = &id })

	got := s.Get()
	*got.CurrentPitchID = 99

	if *s.Get().CurrentPitchID != 7 {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestConcurrentUpdatesAreSerialised(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(st *State) { st.ShowLeaderboard = !st.ShowLeaderboard })
		}()
	}
	wg.Wait()

	if v := s.Get().Version; v != 50 {
		t.Errorf("expected version 50, got %d", v)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	s := NewMemoryStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Update(func(st *State) { st.Announcement = "Lunch break" })

	select {
	case st := <-ch:
		if st.Announcement != "Lunch break" || st.Version != 1 {
			t.Errorf("unexpected notification: %+v", st)
		}
	case <-time.After(time.Second):
		t.Fatal("no notification received")
	}
}

func TestCancelClosesChannel(t *testing.T) {
	s := NewMemoryStore()
	ch, cancel := s.Subscribe()
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}

	// Broadcasting with no subscribers must not panic.
	s.Update(func(st *State) { st.VotingOpen = true })
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	id := uint(3)
	if _, err := s.Update(func(st *State) {
		st.CurrentPitchID = &id
		st.VotingOpen = true
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	st := reopened.Get()
	if st.CurrentPitchID == nil || *st.CurrentPitchID != 3 || !st.VotingOpen || st.Version != 1 {
		t.Errorf("state not restored: %+v", st)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if ms, ok := s.(*MemoryStore); !ok || ms.path != "" {
		t.Errorf("expected plain memory store, got %T", s)
	}
}
