package deeplink

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readyverse/rvshowroom/internal/metrics"
	"github.com/readyverse/rvshowroom/internal/showroom"
)

// fakeGetter records lookups and holds their callbacks until complete is
// called.
type fakeGetter struct {
	mu        sync.Mutex
	ids       []string
	callbacks []func(showroom.Details, error)
}

func (f *fakeGetter) GetShowroomByID(_ context.Context, id string, onComplete func(showroom.Details, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	f.callbacks = append(f.callbacks, onComplete)
}

func (f *fakeGetter) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ids...)
}

func (f *fakeGetter) complete(i int, d showroom.Details, err error) {
	f.mu.Lock()
	cb := f.callbacks[i]
	f.mu.Unlock()
	cb(d, err)
}

type recorder struct {
	mu       sync.Mutex
	received []string
	loads    []LoadResult
}

func subscribe(d *Dispatcher) *recorder {
	r := &recorder{}
	d.OnDeepLinkReceived(func(raw string) {
		r.mu.Lock()
		r.received = append(r.received, raw)
		r.mu.Unlock()
	})
	d.OnShowroomLoaded(func(res LoadResult) {
		r.mu.Lock()
		r.loads = append(r.loads, res)
		r.mu.Unlock()
	})
	return r
}

func TestHandleDeepLink_ProjectIDStartsOneFetch(t *testing.T) {
	getter := &fakeGetter{}
	d := New(Options{Client: getter})
	rec := subscribe(d)

	var dispatchErr error
	called := 0
	d.HandleDeepLink(context.Background(), "rvshowroom://open?projectId=42&action=open_showroom", func(err error) {
		called++
		dispatchErr = err
	})

	require.Equal(t, 1, called)
	require.NoError(t, dispatchErr)
	assert.Equal(t, []string{"42"}, getter.calls())
	assert.Empty(t, rec.loads, "load event must wait for the fetch")

	pending := d.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "42", pending[0].ProjectID)
	assert.Empty(t, pending[0].Payload)
	assert.Equal(t, SourceFetched, pending[0].Source())

	getter.complete(0, showroom.Details{Summary: showroom.Summary{ID: "42", Name: "Game"}}, nil)

	require.Len(t, rec.loads, 1)
	assert.True(t, rec.loads[0].OK())
	assert.Equal(t, SourceFetched, rec.loads[0].Source)
	assert.Equal(t, "42", rec.loads[0].Details.ID)
	assert.Equal(t, pending[0].ID, rec.loads[0].DispatchID)
	assert.Empty(t, d.Pending())
}

func TestDispatch_FetchFailureIsReportedByLoadEventOnly(t *testing.T) {
	getter := &fakeGetter{}
	d := New(Options{Client: getter})
	rec := subscribe(d)

	_, err := d.Dispatch(context.Background(), "rvshowroom://open?projectId=7&action=open_showroom")
	require.NoError(t, err)

	getter.complete(0, showroom.Details{}, &showroom.StatusError{Code: 404})

	require.Len(t, rec.loads, 1)
	assert.False(t, rec.loads[0].OK())
	assert.Contains(t, rec.loads[0].Err.Error(), "404")
	assert.Empty(t, d.Pending())
}

func TestDispatch_MissingBaseURLStillAcceptsDispatch(t *testing.T) {
	client, err := showroom.NewClient(showroom.Options{})
	require.NoError(t, err)
	d := New(Options{Client: client})
	rec := subscribe(d)

	_, err = d.Dispatch(context.Background(), "rvshowroom://open?projectId=42&action=open_showroom")
	require.NoError(t, err)

	// The client completes synchronously without a base URL.
	require.Len(t, rec.loads, 1)
	assert.ErrorIs(t, rec.loads[0].Err, showroom.ErrMissingBaseURL)
	assert.Empty(t, d.Pending())
}

func TestHandleDeepLink_EmbeddedPayloadLoadsSynchronously(t *testing.T) {
	getter := &fakeGetter{}
	d := New(Options{Client: getter})
	rec := subscribe(d)

	var dispatchErr error
	d.HandleDeepLink(context.Background(),
		"rvshowroom://open?showroomData=%7B%22id%22%3A%221%22%7D&action=open_showroom",
		func(err error) { dispatchErr = err })

	require.NoError(t, dispatchErr)
	assert.Empty(t, getter.calls())
	require.Len(t, rec.loads, 1)
	assert.True(t, rec.loads[0].OK())
	assert.Equal(t, SourceEmbedded, rec.loads[0].Source)
	assert.Equal(t, "1", rec.loads[0].Details.ID)
	assert.Empty(t, rec.loads[0].Details.Name)
	assert.Equal(t, showroom.White, rec.loads[0].Details.ShowroomLightingColorLinear)
	assert.Empty(t, d.Pending())
}

func TestDispatch_EmbeddedPayloadWinsOverProjectID(t *testing.T) {
	getter := &fakeGetter{}
	d := New(Options{Client: getter})
	rec := subscribe(d)

	p, err := d.Dispatch(context.Background(),
		"rvshowroom://open?projectId=9&showroomData=%7B%22id%22%3A%22embedded%22%7D&action=open_showroom")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, p.Source())
	assert.Empty(t, p.ProjectID)
	assert.Empty(t, getter.calls())
	require.Len(t, rec.loads, 1)
	assert.Equal(t, "embedded", rec.loads[0].Details.ID)
}

func TestDispatch_EmbeddedPayloadFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"bad escape", "%7B%ZZ", ErrPayloadDecode},
		{"not json", "%7Bnope", ErrInvalidPayload},
		{"array", "%5B%5D", ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getter := &fakeGetter{}
			d := New(Options{Client: getter})
			rec := subscribe(d)

			_, err := d.Dispatch(context.Background(), "rvshowroom://open?showroomData="+tt.data+"&action=open_showroom")
			require.ErrorIs(t, err, tt.want)
			require.Len(t, rec.loads, 1)
			assert.ErrorIs(t, rec.loads[0].Err, tt.want)
			assert.Equal(t, SourceEmbedded, rec.loads[0].Source)
			assert.Empty(t, getter.calls())
			assert.Empty(t, d.Pending())
		})
	}
}

func TestHandleDeepLink_InvalidURL(t *testing.T) {
	getter := &fakeGetter{}
	d := New(Options{Client: getter})
	rec := subscribe(d)

	var dispatchErr error
	d.HandleDeepLink(context.Background(), "not-a-valid-url", func(err error) { dispatchErr = err })

	require.Error(t, dispatchErr)
	assert.Equal(t, "invalid deep link format", dispatchErr.Error())
	assert.Equal(t, []string{"not-a-valid-url"}, rec.received)
	assert.Empty(t, rec.loads)
	assert.Empty(t, getter.calls())
}

func TestDispatch_Rejections(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want error
	}{
		{"wrong case prefix", "RVSHOWROOM://open?projectId=1&action=open_showroom", ErrInvalidFormat},
		{"other host", "rvshowroom://close?projectId=1&action=open_showroom", ErrInvalidFormat},
		{"no query", "rvshowroom://open", ErrNoParameters},
		{"empty query", "rvshowroom://open?", ErrNoParameters},
		{"no required params", "rvshowroom://open?action=open_showroom", ErrMissingParameter},
		{"empty values", "rvshowroom://open?projectId=&showroomData=&action=open_showroom", ErrMissingParameter},
		{"unknown action", "rvshowroom://open?projectId=1&action=delete", ErrUnknownAction},
		{"missing action", "rvshowroom://open?projectId=1", ErrUnknownAction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getter := &fakeGetter{}
			d := New(Options{Client: getter})
			rec := subscribe(d)

			_, err := d.Dispatch(context.Background(), tt.url)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, []string{tt.url}, rec.received)
			assert.Empty(t, rec.loads)
			assert.Empty(t, getter.calls())
		})
	}
}

func TestDispatch_UnknownActionNamesIt(t *testing.T) {
	d := New(Options{Client: &fakeGetter{}})
	_, err := d.Dispatch(context.Background(), "rvshowroom://open?projectId=1&action=delete")

	var actionErr *ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, "delete", actionErr.Action)
	assert.Contains(t, err.Error(), "delete")
}

func TestDispatch_NoClientRejectsProjectID(t *testing.T) {
	d := New(Options{})
	rec := subscribe(d)

	_, err := d.Dispatch(context.Background(), "rvshowroom://open?projectId=1&action=open_showroom")
	assert.Error(t, err)
	assert.Empty(t, rec.loads)
	assert.Empty(t, d.Pending())
}

func TestDispatch_OverlappingDispatchesAreIndependent(t *testing.T) {
	getter := &fakeGetter{}
	d := New(Options{Client: getter})
	rec := subscribe(d)

	ctx := context.Background()
	first, err := d.Dispatch(ctx, "rvshowroom://open?projectId=a&action=open_showroom")
	require.NoError(t, err)
	second, err := d.Dispatch(ctx, "rvshowroom://open?projectId=b&action=open_showroom")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, d.Pending(), 2)

	getter.complete(1, showroom.Details{Summary: showroom.Summary{ID: "b"}}, nil)
	pending := d.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "a", pending[0].ProjectID)

	getter.complete(0, showroom.Details{Summary: showroom.Summary{ID: "a"}}, nil)
	assert.Empty(t, d.Pending())

	require.Len(t, rec.loads, 2)
	assert.Equal(t, second.ID, rec.loads[0].DispatchID)
	assert.Equal(t, first.ID, rec.loads[1].DispatchID)
}

func TestEvents_RegistrationOrderAndUnsubscribe(t *testing.T) {
	d := New(Options{Client: &fakeGetter{}})

	var order []string
	d.OnDeepLinkReceived(func(string) { order = append(order, "first") })
	unsubscribe := d.OnDeepLinkReceived(func(string) { order = append(order, "second") })
	d.OnDeepLinkReceived(func(string) { order = append(order, "third") })

	_, _ = d.Dispatch(context.Background(), "x")
	assert.Equal(t, []string{"first", "second", "third"}, order)

	unsubscribe()
	unsubscribe()
	order = nil
	_, _ = d.Dispatch(context.Background(), "y")
	assert.Equal(t, []string{"first", "third"}, order)
}

func TestDispatch_RecordsMetrics(t *testing.T) {
	rec, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	d := New(Options{Client: &fakeGetter{}, Metrics: rec})

	ctx := context.Background()
	_, _ = d.Dispatch(ctx, "rvshowroom://open?showroomData=%7B%7D&action=open_showroom")
	_, _ = d.Dispatch(ctx, "rvshowroom://open?projectId=1&action=open_showroom")
	_, _ = d.Dispatch(ctx, "nope")

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.DispatchCounter("embedded", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.DispatchCounter("fetch", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.DispatchCounter("invalid", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.LoadCounter("embedded", "ok")))
}
