package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the evaluation engine for logging and metrics.
//
// Callbacks run synchronously inside the evaluation call. Implementations
// should be fast and non-blocking, and must be safe for concurrent use when
// one tree is driven by several cursors at once.
type Observer interface {
	// OnTickStart is called once per evaluation call, before the root is visited.
	OnTickStart(tick TickInfo)

	// OnNodeCompleted is called after every node evaluation, innermost first.
	OnNodeCompleted(tick TickInfo, node NodeInfo, status Status)

	// OnTickCompleted is called when the root has produced its outcome.
	OnTickCompleted(tick TickInfo, status Status, d time.Duration)
}

// NoopObserver is an Observer that does nothing.
type NoopObserver struct{}

func (NoopObserver) OnTickStart(tick TickInfo)                                   {}
func (NoopObserver) OnNodeCompleted(tick TickInfo, node NodeInfo, status Status) {}
func (NoopObserver) OnTickCompleted(tick TickInfo, status Status, d time.Duration) {
}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnTickStart(tick TickInfo) {
	for _, o := range c.observers {
		o.OnTickStart(tick)
	}
}

func (c *CompositeObserver) OnNodeCompleted(tick TickInfo, node NodeInfo, status Status) {
	for _, o := range c.observers {
		o.OnNodeCompleted(tick, node, status)
	}
}

func (c *CompositeObserver) OnTickCompleted(tick TickInfo, status Status, d time.Duration) {
	for _, o := range c.observers {
		o.OnTickCompleted(tick, status, d)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs tick and node lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnTickStart(tick TickInfo) {
	o.Logger.Debug("tick_start",
		slog.String("tree", tick.Tree),
		slog.String("run_id", tick.RunID),
		slog.Uint64("tick", tick.Tick),
		slog.Int("resume", tick.Resume),
	)
}

func (o *LoggingObserver) OnNodeCompleted(tick TickInfo, node NodeInfo, status Status) {
	// Hot path: skip building attributes when debug is off.
	if !o.Logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	o.Logger.Debug("node_completed",
		slog.String("tree", tick.Tree),
		slog.String("run_id", tick.RunID),
		slog.Int("node", node.Index),
		slog.String("kind", node.Kind.String()),
		slog.String("name", node.Name),
		slog.String("status", status.String()),
	)
}

func (o *LoggingObserver) OnTickCompleted(tick TickInfo, status Status, d time.Duration) {
	level := slog.LevelInfo
	if status == StatusFailure {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{
		slog.String("tree", tick.Tree),
		slog.String("run_id", tick.RunID),
		slog.Uint64("tick", tick.Tick),
		slog.String("status", status.String()),
		slog.Duration("duration", d),
	}
	if status == StatusRunning {
		attrs = append(attrs, slog.Int("suspended", tick.Suspended))
	}
	o.Logger.LogAttrs(context.Background(), level, "tick_completed", attrs...)
}

// BasicMetrics collects simple counters and aggregate tick durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	ticksStarted   atomic.Int64
	ticksSucceeded atomic.Int64
	ticksFailed    atomic.Int64
	ticksSuspended atomic.Int64
	nodesEvaluated atomic.Int64
	totalTickTime  atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	TicksStarted   int64
	TicksSucceeded int64
	TicksFailed    int64
	TicksSuspended int64

	NodesEvaluated  int64
	AvgTickDuration time.Duration
}

func (m *BasicMetrics) OnTickStart(tick TickInfo) {
	m.ticksStarted.Add(1)
}

func (m *BasicMetrics) OnNodeCompleted(tick TickInfo, node NodeInfo, status Status) {
	m.nodesEvaluated.Add(1)
}

func (m *BasicMetrics) OnTickCompleted(tick TickInfo, status Status, d time.Duration) {
	switch status {
	case StatusSuccess:
		m.ticksSucceeded.Add(1)
	case StatusFailure:
		m.ticksFailed.Add(1)
	case StatusRunning:
		m.ticksSuspended.Add(1)
	}
	m.totalTickTime.Add(d.Nanoseconds())
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	succeeded := m.ticksSucceeded.Load()
	failed := m.ticksFailed.Load()
	suspended := m.ticksSuspended.Load()
	totalNs := m.totalTickTime.Load()

	var avg time.Duration
	if done := succeeded + failed + suspended; done > 0 {
		avg = time.Duration(totalNs / done)
	}

	return BasicMetricsSnapshot{
		TicksStarted:    m.ticksStarted.Load(),
		TicksSucceeded:  succeeded,
		TicksFailed:     failed,
		TicksSuspended:  suspended,
		NodesEvaluated:  m.nodesEvaluated.Load(),
		AvgTickDuration: avg,
	}
}
