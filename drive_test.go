package canopy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrive_UntilSettled(t *testing.T) {
	tree := sequenceOf(
		succeed("a"),
		script("b", StatusRunning, StatusRunning, StatusRunning, StatusSuccess),
		succeed("c"),
	)
	p := newProbe()

	st, err := Drive(context.Background(), &tree, nil, p, Poll(10).Immediate().Policy())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, st)
	assert.Equal(t, uint64(4), tree.Cursor().Ticks())
	assert.Equal(t, map[string]int{"a": 1, "b": 4, "c": 1}, p.calls)
}

func TestDrive_TickLimit(t *testing.T) {
	tree := sequenceOf(succeed("a"), script("b", StatusRunning))
	cur := tree.NewCursor()
	p := newProbe()

	st, err := Drive(context.Background(), &tree, &cur, p, Poll(3).Policy())
	require.ErrorIs(t, err, ErrTickLimit)
	assert.Equal(t, StatusRunning, st)
	assert.Equal(t, uint64(3), cur.Ticks())

	_, ok := cur.Suspended()
	assert.True(t, ok, "the run can be continued after the limit")
}

func TestDrive_TerminalFailureIsNotAnError(t *testing.T) {
	tree := sequenceOf(script("a", StatusRunning, StatusFailure))

	st, err := Drive(context.Background(), &tree, nil, newProbe(), Poll(0).Policy())
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, st)
}

func TestDrive_CancelledBeforeStart(t *testing.T) {
	tree := sequenceOf(succeed("a"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st, err := Drive(ctx, &tree, nil, newProbe(), Poll(0).Policy())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusRunning, st)
	assert.Zero(t, tree.Cursor().Ticks())
}

func TestDrive_CancelledWhileWaiting(t *testing.T) {
	tree := sequenceOf(script("a", StatusRunning))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	st, err := Drive(ctx, &tree, nil, newProbe(), Poll(0).WithConstantInterval(time.Hour).Policy())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatusRunning, st)
	assert.Equal(t, uint64(1), tree.Cursor().Ticks())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDrive_BackoffSleeps(t *testing.T) {
	tree := sequenceOf(script("a", StatusRunning, StatusRunning, StatusSuccess))

	start := time.Now()
	st, err := Drive(context.Background(), &tree, nil, newProbe(),
		Poll(5).WithExponentialBackoff(5*time.Millisecond, 2, 8*time.Millisecond).Policy())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, st)
	// 5ms then min(10ms, 8ms).
	assert.GreaterOrEqual(t, time.Since(start), 13*time.Millisecond)
}

func TestPollBuilder(t *testing.T) {
	assert.Equal(t, DrivePolicy{}, Poll(-1).Policy())

	c := Poll(4).WithConstantInterval(time.Second).Policy()
	assert.Equal(t, DrivePolicy{MaxTicks: 4, Interval: time.Second, Multiplier: 1}, c)

	e := Poll(4).WithExponentialBackoff(time.Millisecond, 0, time.Second).Policy()
	assert.Equal(t, 2.0, e.Multiplier)
	assert.Equal(t, time.Second, e.MaxInterval)

	i := Poll(4).WithExponentialBackoff(time.Millisecond, 3, time.Second).Immediate().Policy()
	assert.Equal(t, DrivePolicy{MaxTicks: 4}, i)
}
