package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/readyverse/rvshowroom/internal/deeplink"
	"github.com/readyverse/rvshowroom/internal/showroom"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Showrooms           []showroom.Summary
	HasList             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive list refresh failures

	// Loaded is the last showroom opened through a deep link or a detail
	// lookup. LoadErr is set when that load failed; Loaded then keeps the
	// previous showroom.
	Loaded     showroom.Details
	HasLoaded  bool
	LoadSource deeplink.Source
	LoadErr    error
	LoadedAt   time.Time
}

// IsOffline returns true when the API has been unreachable for multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// UpdateList replaces the stored showroom list. When err is non-nil the
// previous list is kept but the error is recorded for visibility.
func (s *Store) UpdateList(list []showroom.Summary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Showrooms = cloneList(list)
	s.snapshot.HasList = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// RecordLoad stores the outcome of a showroom load.
func (s *Store) RecordLoad(result deeplink.LoadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LoadSource = result.Source
	s.snapshot.LoadedAt = time.Now()
	if result.Err != nil {
		s.snapshot.LoadErr = result.Err
		return
	}
	s.snapshot.Loaded = cloneDetails(result.Details)
	s.snapshot.HasLoaded = true
	s.snapshot.LoadErr = nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Showrooms = cloneList(s.snapshot.Showrooms)
	snap.Loaded = cloneDetails(s.snapshot.Loaded)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.LoadErr != nil {
		snap.LoadErr = fmt.Errorf("%w", s.snapshot.LoadErr)
	}
	return snap
}

func cloneList(items []showroom.Summary) []showroom.Summary {
	if len(items) == 0 {
		return nil
	}
	dup := make([]showroom.Summary, len(items))
	copy(dup, items)
	return dup
}

func cloneDetails(d showroom.Details) showroom.Details {
	d.ScreenshotURLs = cloneStrings(d.ScreenshotURLs)
	d.TargetPlatforms = cloneStrings(d.TargetPlatforms)
	return d
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
