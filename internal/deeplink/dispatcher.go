package deeplink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/readyverse/rvshowroom/internal/metrics"
	"github.com/readyverse/rvshowroom/internal/showroom"
)

// Source tells where the details of a load came from.
type Source string

const (
	SourceFetched  Source = "fetched"
	SourceEmbedded Source = "embedded"
)

// Pending describes one dispatch whose load event has not fired yet.
// Exactly one of ProjectID and Payload is set.
type Pending struct {
	ID        string
	ProjectID string
	Payload   string
	StartedAt time.Time
}

// Source reports which branch the dispatch took.
func (p Pending) Source() Source {
	if p.Payload != "" {
		return SourceEmbedded
	}
	return SourceFetched
}

// LoadResult is delivered to OnShowroomLoaded subscribers once per accepted
// dispatch.
type LoadResult struct {
	DispatchID string
	Source     Source
	Details    showroom.Details
	Err        error
}

// OK reports whether the showroom was loaded.
func (r LoadResult) OK() bool { return r.Err == nil }

// Options configure a Dispatcher.
type Options struct {
	Client  showroom.DetailsGetter
	Metrics *metrics.Recorder
	Logger  *slog.Logger
	Now     func() time.Time
}

// Dispatcher turns deep links into showroom loads.
type Dispatcher struct {
	client  showroom.DetailsGetter
	metrics *metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	pending map[string]Pending

	loaded   event[LoadResult]
	received event[string]
}

// New creates a Dispatcher. Client may be nil when only embedded payloads
// are expected; projectId links then fail at dispatch.
func New(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		client:  opts.Client,
		metrics: opts.Metrics,
		logger:  logger.With("component", "deeplink"),
		now:     now,
		pending: make(map[string]Pending),
	}
}

// OnShowroomLoaded subscribes fn to load events. The returned function
// removes the subscription.
func (d *Dispatcher) OnShowroomLoaded(fn func(LoadResult)) (unsubscribe func()) {
	return d.loaded.subscribe(fn)
}

// OnDeepLinkReceived subscribes fn to every raw URL passed to Dispatch,
// valid or not.
func (d *Dispatcher) OnDeepLinkReceived(fn func(string)) (unsubscribe func()) {
	return d.received.subscribe(fn)
}

// Pending returns the dispatches still waiting for their load event,
// oldest first.
func (d *Dispatcher) Pending() []Pending {
	d.mu.Lock()
	out := make([]Pending, 0, len(d.pending))
	for _, p := range d.pending {
		out = append(out, p)
	}
	d.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// HandleDeepLink dispatches raw and reports only whether the dispatch was
// accepted. The outcome of the load itself arrives through
// OnShowroomLoaded.
func (d *Dispatcher) HandleDeepLink(ctx context.Context, raw string, onComplete func(error)) {
	_, err := d.Dispatch(ctx, raw)
	if onComplete != nil {
		onComplete(err)
	}
}

// Dispatch validates raw and starts the showroom load it describes.
// An embedded payload is mapped and its load event fires before Dispatch
// returns. A projectId link returns as soon as the fetch is started.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) (Pending, error) {
	d.received.publish(raw)

	link, err := Parse(raw)
	if err != nil {
		return d.reject("invalid", raw, err)
	}
	if link.Params[paramProjectID] == "" && link.RawShowroomData() == "" {
		return d.reject("invalid", raw, ErrMissingParameter)
	}
	if action := link.Action(); action != ActionOpenShowroom {
		return d.reject("invalid", raw, &ActionError{Action: action})
	}

	p := Pending{ID: uuid.NewString(), StartedAt: d.now()}
	if payload := link.RawShowroomData(); payload != "" {
		p.Payload = payload
		return p, d.loadEmbedded(p, link)
	}

	p.ProjectID = link.ProjectID()
	if d.client == nil {
		err := errors.New("no showroom client configured")
		d.metrics.ObserveDispatch("fetch", "error")
		d.logger.Warn("deep link rejected", "dispatch_id", p.ID, "project_id", p.ProjectID, "error", err)
		return p, err
	}
	d.track(p)
	d.metrics.ObserveDispatch("fetch", "ok")
	d.logger.Info("deep link fetching showroom", "dispatch_id", p.ID, "project_id", p.ProjectID)

	d.client.GetShowroomByID(ctx, p.ProjectID, func(details showroom.Details, err error) {
		if err != nil {
			err = fmt.Errorf("load showroom %q: %w", p.ProjectID, err)
		}
		d.finish(p, LoadResult{DispatchID: p.ID, Source: SourceFetched, Details: details, Err: err})
	})
	return p, nil
}

func (d *Dispatcher) loadEmbedded(p Pending, link Link) error {
	d.track(p)

	data, err := link.ShowroomData()
	var details showroom.Details
	if err == nil {
		details, err = showroom.ParseDetails([]byte(data))
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	d.metrics.ObserveDispatch("embedded", outcome)
	d.logger.Info("deep link carries showroom data", "dispatch_id", p.ID, "bytes", len(data), "ok", err == nil)

	d.finish(p, LoadResult{DispatchID: p.ID, Source: SourceEmbedded, Details: details, Err: err})
	return err
}

// finish publishes the load event and then drops the pending entry.
func (d *Dispatcher) finish(p Pending, result LoadResult) {
	if result.Err != nil {
		d.metrics.ObserveLoad(string(result.Source), "error")
		d.logger.Warn("showroom load failed", "dispatch_id", p.ID, "source", result.Source, "error", result.Err)
	} else {
		d.metrics.ObserveLoad(string(result.Source), "ok")
		d.logger.Info("showroom loaded", "dispatch_id", p.ID, "source", result.Source, "showroom_id", result.Details.ID)
	}

	d.loaded.publish(result)

	d.mu.Lock()
	delete(d.pending, p.ID)
	d.mu.Unlock()
}

func (d *Dispatcher) track(p Pending) {
	d.mu.Lock()
	d.pending[p.ID] = p
	d.mu.Unlock()
}

func (d *Dispatcher) reject(path, raw string, err error) (Pending, error) {
	d.metrics.ObserveDispatch(path, "error")
	d.logger.Warn("deep link rejected", "url", raw, "error", err)
	return Pending{}, err
}
