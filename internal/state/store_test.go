package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/readyverse/rvshowroom/internal/deeplink"
	"github.com/readyverse/rvshowroom/internal/showroom"
)

func TestStore_UpdateListAndSnapshotClone(t *testing.T) {
	var s Store

	list := []showroom.Summary{{ID: "1"}, {ID: "2"}}

	before := time.Now()
	s.UpdateList(list, nil)

	snap := s.Snapshot()
	if !snap.HasList || len(snap.Showrooms) != 2 || snap.Showrooms[0].ID != "1" {
		t.Fatalf("snapshot list = %#v, want 2 items", snap.Showrooms)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Showrooms[0].ID = "999"
	list[1].ID = "888"
	snap2 := s.Snapshot()
	if snap2.Showrooms[0].ID != "1" || snap2.Showrooms[1].ID != "2" {
		t.Fatalf("Snapshot should clone list; got %#v", snap2.Showrooms)
	}
}

func TestStore_UpdateErrorKeepsPreviousList(t *testing.T) {
	var s Store

	s.UpdateList([]showroom.Summary{{ID: "1"}}, nil)

	before := time.Now()
	origErr := errors.New("boom")
	s.UpdateList(nil, origErr)

	snap := s.Snapshot()
	if len(snap.Showrooms) != 1 || snap.Showrooms[0].ID != "1" {
		t.Fatalf("list changed on error: got %#v", snap.Showrooms)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError should wrap the original error")
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	for i := 1; i <= 3; i++ {
		s.UpdateList(nil, errors.New("fail"))
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != i {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i)
		}
		if want := i >= 2; snap.IsOffline() != want {
			t.Fatalf("IsOffline() = %v after %d failures, want %v", snap.IsOffline(), i, want)
		}
	}

	s.UpdateList([]showroom.Summary{}, nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}
	if !snap.HasList || snap.Showrooms != nil {
		t.Fatalf("empty list should set HasList with nil slice, got %v %#v", snap.HasList, snap.Showrooms)
	}
}

func TestStore_RecordLoad(t *testing.T) {
	var s Store

	details := showroom.Details{
		Summary:        showroom.Summary{ID: "42", Name: "Game"},
		ScreenshotURLs: []string{"a.png"},
	}
	s.RecordLoad(deeplink.LoadResult{DispatchID: "d1", Source: deeplink.SourceFetched, Details: details})

	snap := s.Snapshot()
	if !snap.HasLoaded || snap.Loaded.ID != "42" || snap.LoadSource != deeplink.SourceFetched {
		t.Fatalf("loaded = %#v source=%q, want id 42 fetched", snap.Loaded, snap.LoadSource)
	}
	snap.Loaded.ScreenshotURLs[0] = "mutated"
	if got := s.Snapshot().Loaded.ScreenshotURLs[0]; got != "a.png" {
		t.Fatalf("Snapshot should clone details slices; got %q", got)
	}

	s.RecordLoad(deeplink.LoadResult{Source: deeplink.SourceEmbedded, Err: errors.New("invalid JSON format")})
	snap = s.Snapshot()
	if snap.LoadErr == nil || snap.LoadSource != deeplink.SourceEmbedded {
		t.Fatalf("LoadErr = %v source=%q, want error from embedded", snap.LoadErr, snap.LoadSource)
	}
	if snap.Loaded.ID != "42" {
		t.Fatalf("failed load replaced previous showroom: %#v", snap.Loaded)
	}
}
