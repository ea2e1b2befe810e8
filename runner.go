package canopy

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/petrijr/canopy/pkg/api"
)

// Runner keeps many named runs of one shared tree, each with its own
// cursor and context value.
//
// Runner is safe for concurrent use. Calls on different runs proceed in
// parallel; calls on the same run are serialized.
//
// Typical usage:
//
//	runner := canopy.NewRunner(tree)
//	id, _ := runner.Start("", &Guard{Name: "north-gate"})
//
//	// From a game loop, a scheduler or a request handler:
//	st, err := runner.Tick(id)
//
//	// Or block until the run settles:
//	st, err = runner.Drive(ctx, id, canopy.Poll(100).WithConstantInterval(time.Second).Policy())
type Runner[C any] struct {
	tree Tree[C]

	mu   sync.Mutex
	runs map[string]*run[C]
}

type run[C any] struct {
	mu  sync.Mutex
	cur Cursor
	ctx *C
}

// NewRunner returns a Runner for tree. The tree's default cursor is not used.
func NewRunner[C any](tree Tree[C]) *Runner[C] {
	return &Runner[C]{
		tree: tree,
		runs: make(map[string]*run[C]),
	}
}

// Tree returns the shared tree.
func (r *Runner[C]) Tree() *Tree[C] {
	return &r.tree
}

// Start registers a run evaluating against c. An empty id picks a random
// one. The run is idle until its first Tick.
func (r *Runner[C]) Start(id string, c *C) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[id]; ok {
		return "", fmt.Errorf("canopy: start %q: %w", id, api.ErrRunExists)
	}
	cur := newNamedCursor(id)
	cur.shape = r.tree.shape
	r.runs[id] = &run[C]{cur: cur, ctx: c}
	return id, nil
}

// Tick evaluates the run once.
func (r *Runner[C]) Tick(id string) (Status, error) {
	rn, err := r.get(id)
	if err != nil {
		return StatusFailure, err
	}

	rn.mu.Lock()
	defer rn.mu.Unlock()
	return r.tree.ProcessWith(&rn.cur, rn.ctx), nil
}

// Drive evaluates the run until it settles, per policy. See Drive.
// The run's lock is held for the whole drive.
func (r *Runner[C]) Drive(ctx context.Context, id string, policy DrivePolicy) (Status, error) {
	rn, err := r.get(id)
	if err != nil {
		return StatusFailure, err
	}

	rn.mu.Lock()
	defer rn.mu.Unlock()
	return Drive(ctx, &r.tree, &rn.cur, rn.ctx, policy)
}

// Suspended returns the position the run will resume from.
func (r *Runner[C]) Suspended(id string) (int, bool, error) {
	rn, err := r.get(id)
	if err != nil {
		return 0, false, err
	}

	rn.mu.Lock()
	defer rn.mu.Unlock()
	pos, ok := rn.cur.Suspended()
	return pos, ok, nil
}

// Discard forgets the run. A Tick already in progress completes normally.
func (r *Runner[C]) Discard(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[id]; !ok {
		return fmt.Errorf("canopy: discard %q: %w", id, api.ErrRunNotFound)
	}
	delete(r.runs, id)
	return nil
}

// Runs returns the IDs of all registered runs in sorted order.
func (r *Runner[C]) Runs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.runs))
	for id := range r.runs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// TickAll evaluates every registered run once using up to concurrency
// goroutines and returns the outcomes by run ID. Runs started while
// TickAll is in progress are not included.
func (r *Runner[C]) TickAll(ctx context.Context, concurrency int) (map[string]Status, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	ids := r.Runs()

	var (
		mu   sync.Mutex
		out  = make(map[string]Status, len(ids))
		wg   sync.WaitGroup
		jobs = make(chan string)
	)

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for id := range jobs {
				st, err := r.Tick(id)
				if err != nil {
					// Discarded concurrently.
					continue
				}
				mu.Lock()
				out[id] = st
				mu.Unlock()
			}
		}()
	}

	var err error
feed:
	for _, id := range ids {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- id:
		}
	}
	close(jobs)
	wg.Wait()
	return out, err
}

func (r *Runner[C]) get(id string) (*run[C], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rn, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("canopy: run %q: %w", id, api.ErrRunNotFound)
	}
	return rn, nil
}
