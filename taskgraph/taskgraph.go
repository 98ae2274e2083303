// Package taskgraph runs named tasks in dependency order, each as soon as all
// of its dependencies have succeeded. The first failure cancels the rest.
package taskgraph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Results maps task name to the value its Run returned. A nil value means the
// task succeeded without producing anything.
type Results map[string]any

// Func runs one task with the results of its dependencies.
type Func func(ctx context.Context, deps Results) (any, error)

// Task is a named unit of work that runs once all of Deps have succeeded.
type Task struct {
	Name string
	Deps []string
	// Run receives the results of Deps only.
	Run Func
}

// TaskError reports which task failed.
type TaskError struct {
	Name string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q: %v", e.Name, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Graph is a validated set of tasks, built by New.
type Graph struct {
	tasks []Task
	order []string

	// Tracer starts one span per task. Defaults to the global provider.
	Tracer trace.Tracer
	// OnTaskDone is called after every task that ran, with its result or error.
	OnTaskDone func(name string, result any, err error, took time.Duration)
}

// New validates the graph: names must be non-empty and unique, every
// dependency must name a task, and there must be no cycle.
func New(tasks ...Task) (*Graph, error) {
	order, err := validate(tasks)
	if err != nil {
		return nil, err
	}
	return &Graph{
		tasks:  tasks,
		order:  order,
		Tracer: otel.Tracer("bioserver/taskgraph"),
	}, nil
}

// Order is a topological order of the task names, stable by declaration order.
func (g *Graph) Order() []string {
	return append([]string(nil), g.order...)
}

// Run starts every task on its own goroutine. A task waits for its
// dependencies to succeed; if any task fails, the context handed to the
// others is canceled and tasks still waiting never start.
func (g *Graph) Run(ctx context.Context) (Results, error) {
	done := make(map[string]chan struct{}, len(g.tasks))
	for _, t := range g.tasks {
		done[t.Name] = make(chan struct{})
	}

	var mu sync.Mutex
	results := make(Results, len(g.tasks))

	eg, ctx := errgroup.WithContext(ctx)
	for _, t := range g.tasks {
		eg.Go(func() error {
			for _, dep := range t.Deps {
				select {
				case <-done[dep]:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			deps := make(Results, len(t.Deps))
			mu.Lock()
			for _, dep := range t.Deps {
				deps[dep] = results[dep]
			}
			mu.Unlock()

			v, err := g.runTask(ctx, t, deps)
			if err != nil {
				return &TaskError{Name: t.Name, Err: err}
			}

			mu.Lock()
			results[t.Name] = v
			mu.Unlock()
			close(done[t.Name])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (g *Graph) runTask(ctx context.Context, t Task, deps Results) (v any, err error) {
	tracer := g.Tracer
	if tracer == nil {
		tracer = otel.Tracer("bioserver/taskgraph")
	}
	ctx, span := tracer.Start(ctx, t.Name, trace.WithAttributes(
		attribute.StringSlice("task.deps", t.Deps),
	))
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if g.OnTaskDone != nil {
			g.OnTaskDone(t.Name, v, err, time.Since(start))
		}
	}()
	return t.Run(ctx, deps)
}

func validate(tasks []Task) ([]string, error) {
	seen := map[string]bool{}
	for _, t := range tasks {
		name := strings.TrimSpace(t.Name)
		if name == "" || name != t.Name {
			return nil, fmt.Errorf("task name %q is empty or padded", t.Name)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate task name %q", name)
		}
		if t.Run == nil {
			return nil, fmt.Errorf("task %q has no Run func", name)
		}
		seen[name] = true
	}
	for _, t := range tasks {
		for _, dep := range t.Deps {
			if !seen[dep] {
				return nil, fmt.Errorf("task %q depends on unknown task %q", t.Name, dep)
			}
		}
	}

	// Kahn topological sort, stable by input order.
	deg := map[string]int{}
	out := map[string][]string{}
	for _, t := range tasks {
		for _, dep := range t.Deps {
			deg[t.Name]++
			out[dep] = append(out[dep], t.Name)
		}
	}

	order := make([]string, 0, len(tasks))
	added := map[string]bool{}
	for {
		progressed := false
		for _, t := range tasks {
			if added[t.Name] || deg[t.Name] != 0 {
				continue
			}
			added[t.Name] = true
			order = append(order, t.Name)
			for _, n := range out[t.Name] {
				deg[n]--
			}
			progressed = true
		}
		if !progressed {
			break
		}
	}
	if len(order) != len(tasks) {
		return nil, ErrCycle
	}
	return order, nil
}

var ErrCycle = errors.New("cycle detected in task graph")

// Get returns the result of task name as a T. ok is false when the task
// produced nothing or a value of another type.
func Get[T any](r Results, name string) (v T, ok bool) {
	raw, present := r[name]
	if !present || raw == nil {
		return v, false
	}
	v, ok = raw.(T)
	return v, ok
}
