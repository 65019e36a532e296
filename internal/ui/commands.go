package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/readyverse/rvshowroom/internal/deeplink"
	"github.com/readyverse/rvshowroom/internal/logging"
	"github.com/readyverse/rvshowroom/internal/showroom"
	"github.com/readyverse/rvshowroom/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// detailMsg reports that a detail lookup finished. The details themselves
// are recorded in the store.
type detailMsg struct {
	id  string
	err error
}

type searchMsg struct {
	query   string
	results []showroom.Summary
	err     error
}

// dispatchMsg reports whether the dispatcher accepted a deep link.
type dispatchMsg struct {
	raw string
	err error
}

type logMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// fetchDetailCmd waits for an asynchronous lookup and records the outcome
// in the store the same way a fetched deep link does.
func fetchDetailCmd(ctx context.Context, client showroom.DetailsGetter, store *state.Store, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()

		type result struct {
			details showroom.Details
			err     error
		}
		done := make(chan result, 1)
		client.GetShowroomByID(ctx, id, func(d showroom.Details, err error) {
			done <- result{details: d, err: err}
		})

		var r result
		select {
		case r = <-done:
		case <-ctx.Done():
			r.err = ctx.Err()
		}
		store.RecordLoad(deeplink.LoadResult{
			Source:  deeplink.SourceFetched,
			Details: r.details,
			Err:     r.err,
		})
		return detailMsg{id: id, err: r.err}
	}
}

func searchCmd(ctx context.Context, client Client, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		results, err := client.Search(ctx, query)
		return searchMsg{query: query, results: results, err: err}
	}
}

func dispatchCmd(ctx context.Context, d *deeplink.Dispatcher, raw string) tea.Cmd {
	return func() tea.Msg {
		done := make(chan error, 1)
		d.HandleDeepLink(ctx, raw, func(err error) { done <- err })
		return dispatchMsg{raw: raw, err: <-done}
	}
}

func tailLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logging.Tail(path, LogTailLines)
		return logMsg{lines: lines, err: err}
	}
}
