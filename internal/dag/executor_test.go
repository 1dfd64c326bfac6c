package dag

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/mlgridgo/internal/inmemorystore"
	"github.com/specialistvlad/mlgridgo/internal/nodestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu      sync.Mutex
	settled map[string]nodestore.Status
}

func (r *recordingObserver) ObserveNode(id string, status nodestore.Status, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settled == nil {
		r.settled = make(map[string]nodestore.Status)
	}
	r.settled[id] = status
}

func TestExecutor_RunsInDependencyOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g := pipelineGraph(t)
	store := inmemorystore.New()
	var mu sync.Mutex
	var ran []string
	task := func(ctx context.Context, id string) error {
		mu.Lock()
		ran = append(ran, id)
		mu.Unlock()
		return store.SetOutput(ctx, id, id+"-out")
	}
	obs := &recordingObserver{}

	// --- Act ---
	err := NewExecutor(g, store, 4, task, WithObserver(obs)).Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, ran, 8)
	pos := make(map[string]int)
	for i, id := range ran {
		pos[id] = i
	}
	for _, id := range ran {
		deps, err := g.Dependencies(id)
		require.NoError(t, err)
		for _, dep := range deps {
			assert.Less(t, pos[dep], pos[id])
		}
	}
	for id, status := range store.Snapshot() {
		assert.Equal(t, nodestore.StatusCompleted, status, id)
	}
	assert.Len(t, obs.settled, 8)
}

func TestExecutor_FailureSkipsDependents(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g := pipelineGraph(t)
	store := inmemorystore.New()
	boom := errors.New("model did not converge")
	var executed atomic.Int32
	task := func(ctx context.Context, id string) error {
		executed.Add(1)
		if id == "trained_model" {
			return boom
		}
		return nil
	}

	// --- Act ---
	err := NewExecutor(g, store, 1, task).Run(context.Background())

	// --- Assert ---
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "execution failed for trained_model")

	ctx := context.Background()
	for _, id := range []string{"predictions", "accuracy"} {
		status, err := store.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, nodestore.StatusSkipped, status, id)
		nodeErr, err := store.GetError(ctx, id)
		require.NoError(t, err)
		assert.Error(t, nodeErr)
	}
	status, err := store.GetStatus(ctx, "trained_model")
	require.NoError(t, err)
	assert.Equal(t, nodestore.StatusFailed, status)
	assert.LessOrEqual(t, executed.Load(), int32(6))
}

func TestExecutor_EmptyGraph(t *testing.T) {
	t.Parallel()
	called := false
	err := NewExecutor(New(), inmemorystore.New(), 0, func(context.Context, string) error {
		called = true
		return nil
	}).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, called)
}

func TestExecutor_CycleIsRejected(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "a"))

	err := NewExecutor(g, inmemorystore.New(), 2, func(context.Context, string) error { return nil }).Run(context.Background())
	assert.ErrorContains(t, err, "cycle detected")
}

func TestExecutor_CancelledContext(t *testing.T) {
	t.Parallel()
	g := pipelineGraph(t)
	store := inmemorystore.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewExecutor(g, store, 2, func(context.Context, string) error { return nil }).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	for id, status := range store.Snapshot() {
		assert.Equal(t, nodestore.StatusSkipped, status, id)
	}
}
