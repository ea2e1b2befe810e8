package canopy

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// patrol walks n waypoints, one per tick, then reports.
type patrol struct {
	route  int
	walked int
	done   bool
}

func patrolTree() Tree[patrol] {
	return NewBuilder[patrol](WithName("patrol")).
		Sequence().
		Leaf(func(p *patrol) Status {
			if p.walked == p.route {
				return StatusSuccess
			}
			p.walked++
			return StatusRunning
		}).
		VoidLeaf(func(p *patrol) { p.done = true }).
		End().
		MustBuild()
}

func TestRunner_Lifecycle(t *testing.T) {
	runner := NewRunner(patrolTree())

	north, south := &patrol{route: 1}, &patrol{route: 2}
	_, err := runner.Start("north", north)
	require.NoError(t, err)
	_, err = runner.Start("south", south)
	require.NoError(t, err)

	_, err = runner.Start("north", &patrol{})
	require.ErrorIs(t, err, ErrRunExists)

	assert.Equal(t, []string{"north", "south"}, runner.Runs())

	st, err := runner.Tick("north")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, st)

	pos, ok, err := runner.Suspended("north")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, pos)

	_, ok, err = runner.Suspended("south")
	require.NoError(t, err)
	assert.False(t, ok, "south has not been ticked")

	st, err = runner.Tick("north")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, st)
	assert.True(t, north.done)
	assert.False(t, south.done)

	require.NoError(t, runner.Discard("north"))
	_, err = runner.Tick("north")
	require.ErrorIs(t, err, ErrRunNotFound)
	require.ErrorIs(t, runner.Discard("north"), ErrRunNotFound)
	_, _, err = runner.Suspended("north")
	require.ErrorIs(t, err, ErrRunNotFound)

	assert.Equal(t, []string{"south"}, runner.Runs())
}

func TestRunner_GeneratedIDs(t *testing.T) {
	runner := NewRunner(patrolTree())

	a, err := runner.Start("", &patrol{})
	require.NoError(t, err)
	b, err := runner.Start("", &patrol{})
	require.NoError(t, err)

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestRunner_Drive(t *testing.T) {
	runner := NewRunner(patrolTree())
	p := &patrol{route: 5}
	_, err := runner.Start("east", p)
	require.NoError(t, err)

	st, err := runner.Drive(context.Background(), "east", Poll(10).Policy())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, st)
	assert.True(t, p.done)
	assert.Equal(t, 5, p.walked)

	_, err = runner.Drive(context.Background(), "west", Poll(10).Policy())
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunner_ConcurrentTicks(t *testing.T) {
	runner := NewRunner(patrolTree())

	const runs = 32
	patrols := make([]*patrol, runs)
	for i := range patrols {
		patrols[i] = &patrol{route: i % 5}
		_, err := runner.Start(fmt.Sprintf("run-%02d", i), patrols[i])
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for {
				st, err := runner.Tick(id)
				if err != nil || st != StatusRunning {
					return
				}
			}
		}(fmt.Sprintf("run-%02d", i))
	}
	wg.Wait()

	for i, p := range patrols {
		assert.True(t, p.done, "run %d", i)
		assert.Equal(t, i%5, p.walked, "run %d", i)
	}
}

func TestRunner_TickAll(t *testing.T) {
	runner := NewRunner(patrolTree())
	for i := 0; i < 10; i++ {
		_, err := runner.Start(fmt.Sprintf("g%d", i), &patrol{route: i % 3})
		require.NoError(t, err)
	}

	rounds := 0
	for len(runner.Runs()) > 0 {
		rounds++
		out, err := runner.TickAll(context.Background(), 4)
		require.NoError(t, err)
		for id, st := range out {
			if st != StatusRunning {
				require.NoError(t, runner.Discard(id))
			}
		}
		require.LessOrEqual(t, rounds, 3)
	}
	assert.Equal(t, 3, rounds, "the longest route walks two waypoints and reports on the third tick")
}

func TestRunner_TickAllCancelled(t *testing.T) {
	runner := NewRunner(patrolTree())
	_, err := runner.Start("a", &patrol{route: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := runner.TickAll(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
}
