package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/readyverse/rvshowroom/internal/showroom"
	"github.com/readyverse/rvshowroom/internal/state"
)

const (
	defaultPollInterval = 15 * time.Second
	maxBackoff          = 30 * time.Second
)

// Lister fetches the showroom list.
type Lister interface {
	FetchShowrooms(ctx context.Context) ([]showroom.Summary, error)
}

// StartPoller launches a background goroutine that refreshes the showroom
// list in store. After consecutive failures the wait grows exponentially up
// to maxBackoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client Lister, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		for {
			refresh(ctx, store, client, logger)

			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, client Lister, logger *slog.Logger) {
	list, err := client.FetchShowrooms(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.UpdateList(nil, err)
		logger.Warn("showroom list refresh failed", "error", err)
		return
	}
	store.UpdateList(list, nil)
	logger.Debug("showroom list refreshed", "count", len(list))
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
