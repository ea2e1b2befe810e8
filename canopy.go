package canopy

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/canopy/internal/persistence"
	"github.com/petrijr/canopy/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Status               = api.Status
	Kind                 = api.Kind
	Observer             = api.Observer
	TickInfo             = api.TickInfo
	NodeInfo             = api.NodeInfo
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
	TickEvent            = api.TickEvent
	EventType            = api.EventType
	TraceStore           = api.TraceStore
	TraceObserver        = api.TraceObserver
	TraceOption          = api.TraceOption
	RedisOption          = persistence.RedisOption
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	NewTraceObserver     = api.NewTraceObserver
	WithNodeEvents       = api.WithNodeEvents
	WithTraceLogger      = api.WithTraceLogger
	WithRedisPrefix      = persistence.WithPrefix
	WithRedisTTL         = persistence.WithTTL
)

// Re-export status values and node kinds for convenience.

const (
	StatusFailure = api.StatusFailure
	StatusRunning = api.StatusRunning
	StatusSuccess = api.StatusSuccess

	KindLeaf      = api.KindLeaf
	KindDecorator = api.KindDecorator
	KindComposite = api.KindComposite
)

// Re-export sentinel errors for errors.Is checks.

var (
	ErrDecoratorArity = api.ErrDecoratorArity
	ErrEmptyBranch    = api.ErrEmptyBranch
	ErrUnclosedBranch = api.ErrUnclosedBranch
	ErrNoOpenBranch   = api.ErrNoOpenBranch
	ErrEmptyTree      = api.ErrEmptyTree
	ErrNilFunc        = api.ErrNilFunc
	ErrInvalidStore   = api.ErrInvalidStore
	ErrForeignCursor  = api.ErrForeignCursor
	ErrTickLimit      = api.ErrTickLimit
	ErrRunNotFound    = api.ErrRunNotFound
	ErrRunExists      = api.ErrRunExists
)

// Trace store constructors.
// These wrap the internal/persistence package so external callers
// never need to import internal packages.

// NewInMemoryTraceStore returns a TraceStore kept in process memory.
func NewInMemoryTraceStore() TraceStore {
	return persistence.NewInMemoryTraceStore()
}

// NewSQLiteTraceStore returns a TraceStore writing to the tick_events table
// of db, creating it if needed.
func NewSQLiteTraceStore(db *sql.DB) (TraceStore, error) {
	return persistence.NewSQLiteTraceStore(db)
}

// NewRedisTraceStore returns a TraceStore backed by Redis.
func NewRedisTraceStore(client *redis.Client, opts ...RedisOption) TraceStore {
	return persistence.NewRedisTraceStore(client, opts...)
}
