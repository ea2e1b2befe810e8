package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/canopy/pkg/api"
)

// RedisTraceStore is a TraceStore backed by Redis.
// It uses a simple key structure:
//
//	<prefix>run:<id>   => LIST of gob-encoded tick events, oldest first
//	<prefix>idx:runs   => ZSET of run IDs scored by their first event time
//
// With a TTL, each run's list expires that long after its last append. The
// run index is trimmed lazily: ListRuns drops IDs whose list is gone.
type RedisTraceStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ api.TraceStore = (*RedisTraceStore)(nil)

// RedisOption configures a RedisTraceStore.
type RedisOption func(*RedisTraceStore)

// WithPrefix sets the key prefix. The default is "canopy:trace:".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisTraceStore) {
		s.prefix = prefix
	}
}

// WithTTL sets the expiration for each run's events.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisTraceStore) {
		s.ttl = ttl
	}
}

// NewRedisTraceStore creates a RedisTraceStore from an existing client.
func NewRedisTraceStore(client *redis.Client, opts ...RedisOption) *RedisTraceStore {
	s := &RedisTraceStore{
		client: client,
		prefix: "canopy:trace:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisTraceStore) keyRun(id string) string {
	return s.prefix + "run:" + id
}

func (s *RedisTraceStore) keyRuns() string {
	return s.prefix + "idx:runs"
}

func (s *RedisTraceStore) AppendEvent(ctx context.Context, ev api.TickEvent) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	data, err := encodeEvent(ev)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.keyRun(ev.RunID), data)
	pipe.ZAddNX(ctx, s.keyRuns(), redis.Z{Score: float64(ev.At.UnixNano()), Member: ev.RunID})
	if s.ttl > 0 {
		pipe.Expire(ctx, s.keyRun(ev.RunID), s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisTraceStore) ListEvents(ctx context.Context, runID string) ([]api.TickEvent, error) {
	raw, err := s.client.LRange(ctx, s.keyRun(runID), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]api.TickEvent, 0, len(raw))
	for _, data := range raw {
		ev, err := decodeEvent([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *RedisTraceStore) ListRuns(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.keyRuns(), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(ids) == 0 || s.ttl == 0 {
		return ids, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Exists(ctx, s.keyRun(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	live := make([]string, 0, len(ids))
	var gone []any
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			live = append(live, ids[i])
		} else {
			gone = append(gone, ids[i])
		}
	}
	if len(gone) > 0 {
		// Best-effort; a stale index entry only costs another EXISTS.
		_ = s.client.ZRem(ctx, s.keyRuns(), gone...).Err()
	}
	return live, nil
}
