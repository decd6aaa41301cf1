package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SmitUplenchwar2687/schedboard/internal/focus"
	"github.com/SmitUplenchwar2687/schedboard/internal/live"
	"github.com/SmitUplenchwar2687/schedboard/internal/metrics"
	"github.com/SmitUplenchwar2687/schedboard/internal/recorder"
	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

var (
	// ErrNotMounted is returned by operations that need a mounted view.
	ErrNotMounted = errors.New("view is not mounted")
	// ErrAlreadyMounted is returned when Mount is called twice.
	ErrAlreadyMounted = errors.New("view already mounted")
)

// Fetcher loads the read model. *api.Client satisfies it.
type Fetcher interface {
	FetchAll(ctx context.Context) (scheduler.State, error)
}

// FocusStore persists the focused panel. *focus.Store satisfies it.
type FocusStore interface {
	Load(ctx context.Context) (focus.Focus, error)
	Save(ctx context.Context, f focus.Focus) error
}

// SubscribeFunc opens the push channel and delivers raw frames to h.
type SubscribeFunc func(ctx context.Context, h live.Handler) (io.Closer, error)

// LiveSubscriber returns a SubscribeFunc that dials url with the websocket
// client.
func LiveSubscriber(url string, opts live.Options) SubscribeFunc {
	return func(ctx context.Context, h live.Handler) (io.Closer, error) {
		sub, err := live.Subscribe(ctx, url, h, opts)
		if err != nil {
			return nil, err
		}
		return sub, nil
	}
}

// Deps wires a View. Fetcher and Focus are required.
type Deps struct {
	Panels    []PanelSpec
	Fetcher   Fetcher
	Focus     FocusStore
	Subscribe SubscribeFunc // nil disables live updates
	Recorder  *recorder.Recorder
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// View holds the dashboard's state for one mount.
type View struct {
	panels    []PanelSpec
	fetcher   Fetcher
	store     FocusStore
	subscribe SubscribeFunc
	rec       *recorder.Recorder
	metrics   *metrics.Metrics
	log       *zap.Logger

	mu        sync.Mutex
	state     ViewState
	version   uint64
	mounting  bool
	mounted   bool
	unmounted bool
	session   string
	sub       io.Closer
	fetchErr  error
	settled   chan struct{}
	settle    sync.Once
	listeners []func(Page)

	notifyMu sync.Mutex
}

// NewView validates deps and returns an unmounted view.
func NewView(deps Deps) (*View, error) {
	if deps.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if deps.Focus == nil {
		return nil, errors.New("focus store is required")
	}
	panels := deps.Panels
	if panels == nil {
		panels = DefaultPanels()
	}
	if err := ValidatePanels(panels); err != nil {
		return nil, fmt.Errorf("invalid panel table: %w", err)
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &View{
		panels:    panels,
		fetcher:   deps.Fetcher,
		store:     deps.Focus,
		subscribe: deps.Subscribe,
		rec:       deps.Recorder,
		metrics:   deps.Metrics,
		log:       log,
		state:     ViewState{Loading: true, Data: scheduler.Empty()},
		settled:   make(chan struct{}),
	}, nil
}

// Mount restores the persisted focus, then starts the initial fetch and the
// push subscription. A stored focus that cannot be parsed aborts the mount.
// The fetch runs under ctx and is not cancelled by Unmount.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounting || v.mounted {
		v.mu.Unlock()
		return ErrAlreadyMounted
	}
	// Claimed before the store is read so a concurrent Mount backs off.
	v.mounting = true
	v.mu.Unlock()

	restored, err := v.store.Load(ctx)
	if err != nil {
		v.mu.Lock()
		v.mounting = false
		v.mu.Unlock()
		return fmt.Errorf("restoring focus: %w", err)
	}

	v.mu.Lock()
	v.mounting = false
	v.session = uuid.NewString()
	v.log = v.log.With(zap.String("session", v.session))
	v.state.Focus = restored
	v.mounted = true
	v.mu.Unlock()

	v.log.Info("dashboard mounted", zap.Stringer("focus", restored))

	go v.load(ctx)

	if v.subscribe != nil {
		sub, err := v.subscribe(ctx, v.HandleMessage)
		if err != nil {
			// The view keeps working without live updates.
			v.log.Warn("push channel unavailable", zap.Error(err))
		} else {
			v.mu.Lock()
			if v.unmounted {
				v.mu.Unlock()
				_ = sub.Close()
			} else {
				v.sub = sub
				v.mu.Unlock()
			}
		}
	}
	return nil
}

func (v *View) load(ctx context.Context) {
	start := time.Now()
	data, err := v.fetcher.FetchAll(ctx)
	v.metrics.Fetch(err, time.Since(start))

	v.mu.Lock()
	defer v.settle.Do(func() { close(v.settled) })
	if v.unmounted {
		v.mu.Unlock()
		v.log.Debug("fetch result discarded after unmount")
		return
	}
	if err != nil {
		v.fetchErr = err
		v.mu.Unlock()
		v.log.Error("initial fetch failed, dashboard stays loading", zap.Error(err))
		return
	}
	v.state = ViewState{Loading: false, Focus: v.state.Focus, Data: data}
	page := v.changedLocked()
	v.mu.Unlock()

	v.log.Info("dashboard data loaded",
		zap.Int("days", len(data.Days)),
		zap.Int("appointments", len(data.Appointments)),
		zap.Int("interviewers", len(data.Interviewers)),
	)
	v.notify(page)
}

// HandleMessage processes one raw push frame.
func (v *View) HandleMessage(data []byte) {
	v.mu.Lock()
	if !v.mounted || v.unmounted {
		v.mu.Unlock()
		v.metrics.PushMessage(scheduler.OutcomeUnmounted)
		return
	}
	next, msg, outcome := scheduler.Handle(v.state.Data, data)
	v.state.Data = next
	var page Page
	if outcome == scheduler.OutcomeApplied {
		page = v.changedLocked()
	}
	v.mu.Unlock()

	v.metrics.PushMessage(outcome)
	if v.rec != nil {
		if err := v.rec.Observe(data, msg, outcome); err != nil {
			v.log.Warn("recording push message", zap.Error(err))
		}
	}

	switch outcome {
	case scheduler.OutcomeApplied:
		v.log.Debug("interview updated", zap.Int("appointment", msg.ID), zap.Bool("booked", msg.Interview != nil))
		v.notify(page)
	case scheduler.OutcomeDropped:
		v.log.Debug("update for unknown appointment dropped", zap.Int("appointment", msg.ID))
	default:
		v.log.Debug("push message ignored", zap.Int("bytes", len(data)))
	}
}

// SelectPanel toggles focus for id and persists the result. The in-memory
// focus changes even when persisting fails; the error is returned.
func (v *View) SelectPanel(ctx context.Context, id int) (focus.Focus, error) {
	v.mu.Lock()
	if !v.mounted || v.unmounted {
		v.mu.Unlock()
		return focus.None, ErrNotMounted
	}
	prev := v.state.Focus
	next := prev.Toggle(id)
	v.state.Focus = next
	page := v.changedLocked()
	err := v.store.Save(ctx, next)
	v.mu.Unlock()

	v.metrics.FocusChanged()
	v.log.Debug("panel selected", zap.Int("panel", id), zap.Stringer("from", prev), zap.Stringer("to", next))
	v.notify(page)

	if err != nil {
		v.log.Error("persisting focus", zap.Error(err))
		return next, fmt.Errorf("persisting focus: %w", err)
	}
	return next, nil
}

// Unmount closes the push channel. Messages and fetch results arriving
// afterwards are discarded. Calling it more than once is a no-op.
func (v *View) Unmount() error {
	v.mu.Lock()
	if !v.mounted || v.unmounted {
		v.mu.Unlock()
		return nil
	}
	v.unmounted = true
	sub := v.sub
	v.sub = nil
	v.listeners = nil
	v.mu.Unlock()

	v.log.Info("dashboard unmounted")
	if sub == nil {
		return nil
	}
	if err := sub.Close(); err != nil && !errors.Is(err, live.ErrClosed) {
		return fmt.Errorf("closing push channel: %w", err)
	}
	return nil
}

// State returns a snapshot of the current view state.
func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Page renders the current state.
func (v *View) Page() Page {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageLocked()
}

// Panels returns the injected panel table.
func (v *View) Panels() []PanelSpec {
	return v.panels
}

// Session returns the id assigned at mount, or "" before.
func (v *View) Session() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.session
}

// FetchErr returns the initial fetch error, if any.
func (v *View) FetchErr() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fetchErr
}

// WaitLoaded blocks until the initial fetch settles. It returns the fetch
// error on failure; the view itself stays loading in that case.
func (v *View) WaitLoaded(ctx context.Context) error {
	select {
	case <-v.settled:
		return v.FetchErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnChange registers fn to receive every page rendered after a state change.
// Pages carry an increasing Version; listeners may see them out of order
// under concurrent changes and should keep the highest.
func (v *View) OnChange(fn func(Page)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

func (v *View) pageLocked() Page {
	p := Render(v.state, v.panels)
	p.Version = v.version
	return p
}

func (v *View) changedLocked() Page {
	v.version++
	return v.pageLocked()
}

func (v *View) notify(p Page) {
	v.mu.Lock()
	listeners := slices.Clone(v.listeners)
	v.mu.Unlock()

	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()
	for _, fn := range listeners {
		fn(p)
	}
}
