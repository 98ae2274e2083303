package taskgraph

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(v any) Func {
	return func(context.Context, Results) (any, error) { return v, nil }
}

func TestNewRejectsInvalidGraphs(t *testing.T) {
	_, err := New(Task{Name: "a", Run: value(1)}, Task{Name: "a", Run: value(2)})
	assert.ErrorContains(t, err, "duplicate")

	_, err = New(Task{Name: "a", Deps: []string{"missing"}, Run: value(1)})
	assert.ErrorContains(t, err, "unknown task")

	_, err = New(
		Task{Name: "a", Deps: []string{"c"}, Run: value(1)},
		Task{Name: "b", Deps: []string{"a"}, Run: value(1)},
		Task{Name: "c", Deps: []string{"b"}, Run: value(1)},
	)
	assert.ErrorIs(t, err, ErrCycle)

	_, err = New(Task{Name: "self", Deps: []string{"self"}, Run: value(1)})
	assert.ErrorIs(t, err, ErrCycle)

	_, err = New(Task{Name: "", Run: value(1)})
	assert.Error(t, err)

	_, err = New(Task{Name: "norun"})
	assert.Error(t, err)
}

func TestOrderIsStable(t *testing.T) {
	g, err := New(
		Task{Name: "feature", Deps: []string{"module", "annotation"}, Run: value(nil)},
		Task{Name: "root", Run: value(nil)},
		Task{Name: "module", Deps: []string{"root"}, Run: value(nil)},
		Task{Name: "annotation", Deps: []string{"root"}, Run: value(nil)},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "module", "annotation", "feature"}, g.Order())
}

func TestRunPropagatesResults(t *testing.T) {
	g, err := New(
		Task{Name: "a", Run: value(2)},
		Task{Name: "b", Deps: []string{"a"}, Run: func(_ context.Context, deps Results) (any, error) {
			a, ok := Get[int](deps, "a")
			if !ok {
				return nil, errors.New("no a")
			}
			return a * 10, nil
		}},
		Task{Name: "c", Deps: []string{"a"}, Run: value(nil)},
		Task{Name: "d", Deps: []string{"b", "c"}, Run: func(_ context.Context, deps Results) (any, error) {
			assert.Len(t, deps, 2)
			b, _ := Get[int](deps, "b")
			_, ok := Get[int](deps, "c")
			assert.False(t, ok)
			return b + 1, nil
		}},
	)
	require.NoError(t, err)

	res, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Results{"a": 2, "b": 20, "c": nil, "d": 21}, res)
}

func TestRunIndependentTasksConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)
	barrier := func(context.Context, Results) (any, error) {
		wg.Done()
		wg.Wait()
		return nil, nil
	}
	g, err := New(
		Task{Name: "root", Run: value(nil)},
		Task{Name: "left", Deps: []string{"root"}, Run: barrier},
		Task{Name: "right", Deps: []string{"root"}, Run: barrier},
	)
	require.NoError(t, err)

	finished := make(chan error, 1)
	go func() {
		_, err := g.Run(context.Background())
		finished <- err
	}()
	select {
	case err := <-finished:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("siblings did not run concurrently")
	}
}

func TestRunFailFast(t *testing.T) {
	boom := errors.New("boom")
	var ranDependent atomic.Bool

	g, err := New(
		Task{Name: "root", Run: value(nil)},
		Task{Name: "fail", Deps: []string{"root"}, Run: func(context.Context, Results) (any, error) {
			return nil, boom
		}},
		Task{Name: "slow", Deps: []string{"root"}, Run: func(ctx context.Context, _ Results) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
		Task{Name: "dependent", Deps: []string{"fail"}, Run: func(context.Context, Results) (any, error) {
			ranDependent.Store(true)
			return nil, nil
		}},
	)
	require.NoError(t, err)

	var mu sync.Mutex
	outcomes := map[string]error{}
	g.OnTaskDone = func(name string, _ any, err error, _ time.Duration) {
		mu.Lock()
		outcomes[name] = err
		mu.Unlock()
	}

	res, err := g.Run(context.Background())
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var te *TaskError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "fail", te.Name)
	assert.Equal(t, `task "fail": boom`, err.Error())

	assert.False(t, ranDependent.Load())
	mu.Lock()
	defer mu.Unlock()
	assert.NoError(t, outcomes["root"])
	assert.ErrorIs(t, outcomes["fail"], boom)
	_, ran := outcomes["dependent"]
	assert.False(t, ran)
}

func TestRunRecoversPanics(t *testing.T) {
	g, err := New(Task{Name: "p", Run: func(context.Context, Results) (any, error) {
		panic("oops")
	}})
	require.NoError(t, err)
	_, err = g.Run(context.Background())
	assert.ErrorContains(t, err, "panic: oops")
}

func TestRunCanceledContext(t *testing.T) {
	var ran atomic.Bool
	g, err := New(Task{Name: "a", Run: func(context.Context, Results) (any, error) {
		ran.Store(true)
		return nil, nil
	}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran.Load())
}

func TestGet(t *testing.T) {
	r := Results{"n": 1, "nil": nil}
	v, ok := Get[int](r, "n")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = Get[string](r, "n")
	assert.False(t, ok)
	_, ok = Get[int](r, "nil")
	assert.False(t, ok)
	_, ok = Get[int](r, "absent")
	assert.False(t, ok)
}
