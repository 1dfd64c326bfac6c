package dag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specialistvlad/mlgridgo/internal/ctxlog"
	"github.com/specialistvlad/mlgridgo/internal/nodestore"
)

// TaskFunc performs the work of a single node. The result of the node is
// stored by the task itself, typically into the same nodestore.Store.
type TaskFunc func(ctx context.Context, id string) error

// Observer is notified once for every node that settles.
type Observer interface {
	ObserveNode(id string, status nodestore.Status, elapsed time.Duration)
}

// Executor runs a Graph on a fixed pool of workers. A node becomes ready once
// all of its dependencies completed. The first failure cancels the run; the
// failed node's dependents and everything not yet started are skipped.
type Executor struct {
	graph      *Graph
	store      nodestore.Store
	task       TaskFunc
	numWorkers int
	observer   Observer

	wg       sync.WaitGroup
	depCount map[string]*atomic.Int32
	settle   map[string]*sync.Once
}

// ExecutorOption configures an Executor.
type ExecutorOption func(e *Executor)

// WithObserver reports per-node timings to o.
func WithObserver(o Observer) ExecutorOption {
	return func(e *Executor) { e.observer = o }
}

// NewExecutor creates an executor. A worker count below one means one.
func NewExecutor(g *Graph, store nodestore.Store, numWorkers int, task TaskFunc, opts ...ExecutorOption) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	e := &Executor{
		graph:      g,
		store:      store,
		task:       task,
		numWorkers: numWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the entire graph concurrently and returns an error if any node fails.
// It respects the cancellation signal from the provided context.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if err := e.graph.DetectCycles(); err != nil {
		return err
	}
	ids := e.graph.Nodes()
	if len(ids) == 0 {
		return nil
	}

	e.depCount = make(map[string]*atomic.Int32, len(ids))
	e.settle = make(map[string]*sync.Once, len(ids))
	for _, id := range ids {
		deps, err := e.graph.Dependencies(id)
		if err != nil {
			return err
		}
		c := &atomic.Int32{}
		c.Store(int32(len(deps)))
		e.depCount[id] = c
		e.settle[id] = &sync.Once{}
		if err := e.store.SetStatus(ctx, id, nodestore.StatusPending); err != nil {
			return err
		}
	}

	// Every node is sent at most once, so the buffer never blocks a worker.
	readyChan := make(chan string, len(ids))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Debug("Initializing executor, finding root nodes...")
	rootNodeCount := 0
	for _, id := range ids {
		if e.depCount[id].Load() == 0 {
			logger.Debug("Found root node.", "nodeID", id)
			readyChan <- id
			rootNodeCount++
		}
	}
	logger.Debug("Found all root nodes.", "count", rootNodeCount)

	e.wg.Add(len(ids))

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(runCtx, readyChan, cancel, i)
	}

	logger.Debug("Waiting for all nodes to settle...")
	e.wg.Wait()
	close(readyChan)
	logger.Debug("All nodes settled.")

	return e.rootCause(ctx)
}

// rootCause reports the first failed node in topological order. Skipped
// nodes are symptoms and are not reported.
func (e *Executor) rootCause(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	order, err := e.graph.TopologicalOrder()
	if err != nil {
		return err
	}

	var failedNodes []string
	var rootCauseError error
	for _, id := range order {
		status, err := e.store.GetStatus(ctx, id)
		if err != nil {
			return err
		}
		if status != nodestore.StatusFailed {
			continue
		}
		nodeErr, err := e.store.GetError(ctx, id)
		if err != nil {
			return err
		}
		logger.Error("Node failed execution.", "nodeID", id, "error", nodeErr)
		if nodeErr == nil || errors.Is(nodeErr, context.Canceled) {
			continue
		}
		failedNodes = append(failedNodes, id)
		if rootCauseError == nil {
			rootCauseError = nodeErr
		}
	}

	if rootCauseError != nil {
		return fmt.Errorf("execution failed for %s: %w", strings.Join(failedNodes, ", "), rootCauseError)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// skip settles a node that will never run and, if this call settled it,
// skips everything downstream of it.
func (e *Executor) skip(ctx context.Context, id string, reason error) {
	logger := ctxlog.FromContext(ctx)
	skipped := false
	e.settle[id].Do(func() {
		skipped = true
		logger.Warn("Skipping node.", "nodeID", id, "reason", reason)
		_ = e.store.SetStatus(ctx, id, nodestore.StatusSkipped)
		_ = e.store.SetError(ctx, id, reason)
		e.observe(id, nodestore.StatusSkipped, 0)
		e.wg.Done()
	})
	if skipped {
		e.skipDependents(ctx, id)
	}
}

// skipDependents recursively settles all downstream nodes as skipped.
func (e *Executor) skipDependents(ctx context.Context, id string) {
	dependents, _ := e.graph.Dependents(id)
	for _, dep := range dependents {
		e.skip(ctx, dep, fmt.Errorf("skipped due to upstream failure of '%s'", id))
	}
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan string, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for id := range readyChan {
		workerLogger := logger.With("workerID", workerID, "nodeID", id)

		if ctx.Err() != nil {
			e.skip(ctx, id, ctx.Err())
			continue
		}

		claimed := false
		e.settle[id].Do(func() { claimed = true })
		if !claimed {
			// Already skipped through another failed branch.
			continue
		}

		workerLogger.Debug("Worker picked up node for execution.")
		_ = e.store.SetStatus(ctx, id, nodestore.StatusRunning)
		start := time.Now()
		err := e.task(ctxlog.WithLogger(ctx, workerLogger), id)
		elapsed := time.Since(start)

		if err != nil {
			workerLogger.Error("Node execution failed.", "error", err)
			_ = e.store.SetStatus(ctx, id, nodestore.StatusFailed)
			_ = e.store.SetError(ctx, id, err)
			e.observe(id, nodestore.StatusFailed, elapsed)
			cancel()
			e.wg.Done()
			e.skipDependents(ctx, id)
			continue
		}

		workerLogger.Debug("Node execution succeeded.", "elapsed", elapsed)
		_ = e.store.SetStatus(ctx, id, nodestore.StatusCompleted)
		e.observe(id, nodestore.StatusCompleted, elapsed)

		dependents, _ := e.graph.Dependents(id)
		for _, dep := range dependents {
			if e.depCount[dep].Add(-1) == 0 {
				workerLogger.Debug("Unlocking dependent node.", "dependentID", dep)
				readyChan <- dep
			}
		}

		e.wg.Done()
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

func (e *Executor) observe(id string, status nodestore.Status, elapsed time.Duration) {
	if e.observer != nil {
		e.observer.ObserveNode(id, status, elapsed)
	}
}
