package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/petrijr/canopy/pkg/api"
)

// SQLiteTraceStore stores tick events in SQLite.
type SQLiteTraceStore struct {
	db *sql.DB
}

var _ api.TraceStore = (*SQLiteTraceStore)(nil)

// NewSQLiteTraceStore creates the tick_events table if needed. The caller
// owns db and opens it with the "sqlite" driver (modernc.org/sqlite).
func NewSQLiteTraceStore(db *sql.DB) (*SQLiteTraceStore, error) {
	s := &SQLiteTraceStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteTraceStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS tick_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			tree TEXT NOT NULL DEFAULT '',
			tick INTEGER NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			node INTEGER NOT NULL DEFAULT -1,
			status TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_tick_events_run_id ON tick_events(run_id, id);
	`)
	return err
}

func (s *SQLiteTraceStore) AppendEvent(ctx context.Context, ev api.TickEvent) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tick_events (run_id, tree, tick, at, type, node, status, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID,
		ev.Tree,
		int64(ev.Tick),
		at.UnixNano(),
		string(ev.Type),
		ev.Node,
		ev.Status.String(),
		ev.Detail,
	)
	return err
}

func (s *SQLiteTraceStore) ListEvents(ctx context.Context, runID string) ([]api.TickEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, tree, tick, at, type, node, status, detail
		FROM tick_events
		WHERE run_id = ?
		ORDER BY id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.TickEvent
	for rows.Next() {
		var (
			id     string
			tree   string
			tick   int64
			atN    int64
			typ    string
			node   int
			status string
			detail string
		)
		if err := rows.Scan(&id, &tree, &tick, &atN, &typ, &node, &status, &detail); err != nil {
			return nil, err
		}
		st, err := api.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		out = append(out, api.TickEvent{
			RunID:  id,
			Tree:   tree,
			Tick:   uint64(tick),
			At:     time.Unix(0, atN),
			Type:   api.EventType(typ),
			Node:   node,
			Status: st,
			Detail: detail,
		})
	}
	return out, rows.Err()
}

func (s *SQLiteTraceStore) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id
		FROM tick_events
		GROUP BY run_id
		ORDER BY MIN(id) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
