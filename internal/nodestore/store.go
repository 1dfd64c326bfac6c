// Package nodestore defines where the mutable state of a pipeline run lives:
// the status, output and error of every node.
//
// The dag.Graph holds the immutable structure of a run. The executor writes
// into a Store as nodes run, and the driver reads outputs back from it when
// resolving the inputs of downstream functions and when collecting the
// requested final variables.
//
// Nodes follow this lifecycle:
//
//	Pending → Running → Completed (with output) OR Failed (with error)
//	Pending → Skipped (an upstream node failed or the run was cancelled)
package nodestore

import "context"

// Status is the execution state of one node.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Store manages the mutable execution state of nodes, keyed by node ID.
//
// Implementations MUST be safe for concurrent use: workers update different
// nodes in parallel while the driver reads outputs of finished ones.
type Store interface {
	// SetStatus updates the execution status of a node.
	SetStatus(ctx context.Context, id string, status Status) error
	// GetStatus returns StatusPending if no status has been set yet.
	GetStatus(ctx context.Context, id string) (Status, error)
	// SetOutput records the result of a completed node.
	SetOutput(ctx context.Context, id string, output any) error
	// GetOutput returns the recorded output and whether one was recorded.
	// A node may legitimately produce a nil output.
	GetOutput(ctx context.Context, id string) (any, bool, error)
	// SetError records why a node failed or was skipped.
	SetError(ctx context.Context, id string, nodeErr error) error
	// GetError returns nil if the node succeeded or has not run.
	GetError(ctx context.Context, id string) (error, error)
}
