package api

import (
	"context"
	"log/slog"
	"time"
)

// TraceStore is an append-only history store for tick trace events.
//
// Implementations must be safe for concurrent use.
type TraceStore interface {
	AppendEvent(ctx context.Context, ev TickEvent) error
	// ListEvents returns the events of one run in append order.
	ListEvents(ctx context.Context, runID string) ([]TickEvent, error)
	// ListRuns returns the IDs of all runs with at least one event.
	ListRuns(ctx context.Context) ([]string, error)
}

// NoopTraceStore discards all events.
type NoopTraceStore struct{}

func (NoopTraceStore) AppendEvent(ctx context.Context, ev TickEvent) error { return nil }
func (NoopTraceStore) ListEvents(ctx context.Context, runID string) ([]TickEvent, error) {
	return nil, nil
}
func (NoopTraceStore) ListRuns(ctx context.Context) ([]string, error) { return nil, nil }

// TraceOption configures a TraceObserver.
type TraceOption func(*TraceObserver)

// WithNodeEvents makes the observer record one EventNodeCompleted per node
// evaluation in addition to the tick-level events.
func WithNodeEvents() TraceOption {
	return func(o *TraceObserver) {
		o.nodes = true
	}
}

// WithTraceLogger sets the logger used to report store failures.
func WithTraceLogger(logger *slog.Logger) TraceOption {
	return func(o *TraceObserver) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTraceClock overrides the event timestamp source.
func WithTraceClock(now func() time.Time) TraceOption {
	return func(o *TraceObserver) {
		if now != nil {
			o.now = now
		}
	}
}

// TraceObserver records tick lifecycle events into a TraceStore.
//
// Store failures never affect evaluation; they are logged and dropped.
type TraceObserver struct {
	store  TraceStore
	nodes  bool
	logger *slog.Logger
	now    func() time.Time
}

// NewTraceObserver creates an Observer appending events to store.
func NewTraceObserver(store TraceStore, opts ...TraceOption) *TraceObserver {
	if store == nil {
		store = NoopTraceStore{}
	}
	o := &TraceObserver{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *TraceObserver) OnTickStart(tick TickInfo) {
	ev := o.event(tick, EventTickStarted)
	ev.Status = StatusRunning
	if tick.Resume >= 0 {
		ev.Type = EventTickResumed
		ev.Node = tick.Resume
	}
	o.append(ev)
}

func (o *TraceObserver) OnNodeCompleted(tick TickInfo, node NodeInfo, status Status) {
	if !o.nodes {
		return
	}
	ev := o.event(tick, EventNodeCompleted)
	ev.Node = node.Index
	ev.Status = status
	ev.Detail = node.Name
	o.append(ev)
}

func (o *TraceObserver) OnTickCompleted(tick TickInfo, status Status, d time.Duration) {
	ev := o.event(tick, EventTickSucceeded)
	ev.Status = status
	ev.Detail = d.String()
	switch status {
	case StatusFailure:
		ev.Type = EventTickFailed
	case StatusRunning:
		ev.Type = EventTickSuspended
		ev.Node = tick.Suspended
	}
	o.append(ev)
}

func (o *TraceObserver) event(tick TickInfo, typ EventType) TickEvent {
	return TickEvent{
		RunID: tick.RunID,
		Tree:  tick.Tree,
		Tick:  tick.Tick,
		At:    o.now(),
		Type:  typ,
		Node:  -1,
	}
}

func (o *TraceObserver) append(ev TickEvent) {
	if err := o.store.AppendEvent(context.Background(), ev); err != nil {
		o.logger.Error("trace_append_failed",
			slog.String("run_id", ev.RunID),
			slog.String("type", string(ev.Type)),
			slog.Uint64("tick", ev.Tick),
			slog.Any("error", err),
		)
	}
}
