package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/readyverse/rvshowroom/internal/deeplink"
	"github.com/readyverse/rvshowroom/internal/scheme"
	"github.com/readyverse/rvshowroom/internal/showroom"
)

// getConcurrency bounds the parallel lookups of the get command.
const getConcurrency = 4

// defaultOpenTimeout bounds how long the open command waits for the load.
const defaultOpenTimeout = 30 * time.Second

// ListOptions select the list endpoint. At most one filter may be set.
type ListOptions struct {
	Genre    string
	Track    string
	Search   string
	Featured bool
	JSON     bool
}

// List prints the showrooms matching opts.
func List(ctx context.Context, client *showroom.Client, opts ListOptions, w io.Writer) error {
	filters := 0
	for _, set := range []bool{opts.Genre != "", opts.Track != "", opts.Search != "", opts.Featured} {
		if set {
			filters++
		}
	}
	if filters > 1 {
		return errors.New("list: use only one of -genre, -track, -search and -featured")
	}

	var (
		list []showroom.Summary
		err  error
	)
	switch {
	case opts.Genre != "":
		list, err = client.FetchByGenre(ctx, opts.Genre)
	case opts.Track != "":
		list, err = client.FetchByTrack(ctx, opts.Track)
	case opts.Search != "":
		list, err = client.Search(ctx, opts.Search)
	case opts.Featured:
		list, err = client.FetchFeatured(ctx)
	default:
		list, err = client.FetchShowrooms(ctx)
	}
	if err != nil {
		return fmt.Errorf("list showrooms: %w", err)
	}

	if opts.JSON {
		return writeJSON(w, list)
	}
	_, err = fmt.Fprintln(w, renderList(list))
	return err
}

// Get fetches every id concurrently and prints the results in argument
// order. The first failure cancels the remaining lookups.
func Get(ctx context.Context, client showroom.Fetcher, ids []string, asJSON bool, w io.Writer) error {
	if len(ids) == 0 {
		return errors.New("get: at least one showroom id is required")
	}

	results := make([]showroom.Details, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(getConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			d, err := client.FetchShowroom(gctx, id)
			if err != nil {
				return fmt.Errorf("get %s: %w", id, err)
			}
			results[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if asJSON {
		if len(results) == 1 {
			return writeJSON(w, results[0])
		}
		return writeJSON(w, results)
	}
	for i, d := range results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, renderDetails(d)); err != nil {
			return err
		}
	}
	return nil
}

// Open dispatches a deep link and waits for its load event. A zero timeout
// uses defaultOpenTimeout.
func Open(ctx context.Context, d *deeplink.Dispatcher, raw string, timeout time.Duration, w io.Writer) error {
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}

	// Embedded payloads load before Dispatch returns, so subscribe first
	// and match on the dispatch id afterwards.
	loads := make(chan deeplink.LoadResult, 8)
	unsubscribe := d.OnShowroomLoaded(func(r deeplink.LoadResult) {
		select {
		case loads <- r:
		default:
		}
	})
	defer unsubscribe()

	pending, err := d.Dispatch(ctx, strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("open deep link: %w", err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case r := <-loads:
			if r.DispatchID != pending.ID {
				continue
			}
			if r.Err != nil {
				return fmt.Errorf("open deep link: %w", r.Err)
			}
			_, err := fmt.Fprintf(w, "loaded from %s link\n\n%s", r.Source, renderDetails(r.Details))
			return err
		case <-timer.C:
			return fmt.Errorf("open deep link: no showroom loaded after %s", timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Scheme runs one of the register, unregister or status actions.
func Scheme(action string, r scheme.Registrar, w io.Writer) error {
	switch action {
	case "register":
		if err := r.Register(); err != nil {
			return fmt.Errorf("register %s:// handler: %w", scheme.Name, err)
		}
		_, err := fmt.Fprintf(w, "%s:// handler registered\n", scheme.Name)
		return err
	case "unregister":
		if err := r.Unregister(); err != nil {
			return fmt.Errorf("unregister %s:// handler: %w", scheme.Name, err)
		}
		_, err := fmt.Fprintf(w, "%s:// handler removed\n", scheme.Name)
		return err
	case "status":
		status := "not registered"
		if r.IsRegistered() {
			status = "registered"
		}
		_, err := fmt.Fprintf(w, "%s:// handler %s\n", scheme.Name, status)
		return err
	default:
		return fmt.Errorf("unknown scheme action %q", action)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
