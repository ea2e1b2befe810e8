package canopy

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// TestSQLiteTrace_DurableAcrossReopen records a resumed run into a SQLite
// file, reopens the database and reads the trace back.
func TestSQLiteTrace_DurableAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "canopy_trace.db")
	dsn := "file:" + dbPath + "?_journal=WAL"

	// --- Phase 1: evaluate with tracing.

	db1, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)

	store1, err := NewSQLiteTraceStore(db1)
	require.NoError(t, err)

	tree := NewBuilder[probe](
		WithName("durable"),
		WithObserver(NewTraceObserver(store1)),
	).
		Sequence().
		Leaf(succeed("a")).
		Leaf(script("b", StatusRunning, StatusSuccess)).
		End().
		MustBuild()

	cur := tree.NewCursor()
	st, err := Drive(ctx, &tree, &cur, newProbe(), Poll(5).Policy())
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, st)
	require.NoError(t, db1.Close())

	// --- Phase 2: reopen and inspect.

	db2, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer func() { _ = db2.Close() }()

	store2, err := NewSQLiteTraceStore(db2)
	require.NoError(t, err)

	runs, err := store2.ListRuns(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{cur.ID()}, runs)

	events, err := store2.ListEvents(ctx, cur.ID())
	require.NoError(t, err)
	require.Len(t, events, 4)

	require.Equal(t, EventType("tick.started"), events[0].Type)
	require.Equal(t, EventType("tick.suspended"), events[1].Type)
	require.Equal(t, 3, events[1].Node)
	require.Equal(t, StatusRunning, events[1].Status)
	require.Equal(t, EventType("tick.resumed"), events[2].Type)
	require.Equal(t, EventType("tick.succeeded"), events[3].Type)
	require.Equal(t, StatusSuccess, events[3].Status)
	require.Equal(t, uint64(2), events[3].Tick)
	require.Equal(t, "durable", events[3].Tree)
}

func TestRedisTrace_SharedBetweenRunners(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisTraceStore(client, WithRedisPrefix("canopy:it:"))
	tree := NewBuilder[patrol](
		WithName("patrol"),
		WithObserver(NewTraceObserver(store)),
	).
		Leaf(func(p *patrol) Status {
			if p.walked == p.route {
				return StatusSuccess
			}
			p.walked++
			return StatusRunning
		}).
		MustBuild()

	runner := NewRunner(tree)
	_, err := runner.Start("east", &patrol{route: 2})
	require.NoError(t, err)
	_, err = runner.Start("west", &patrol{route: 0})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := runner.TickAll(context.Background(), 2)
		require.NoError(t, err)
	}

	ctx := context.Background()
	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"east", "west"}, runs)

	east, err := store.ListEvents(ctx, "east")
	require.NoError(t, err)
	// Three ticks, two events each.
	require.Len(t, east, 6)
	require.Equal(t, EventType("tick.succeeded"), east[5].Type)

	require.True(t, mr.Exists("canopy:it:run:west"))
}
