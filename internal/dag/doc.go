// Package dag holds the dependency graph of a pipeline run and the worker
// pool that executes it.
//
// The Graph only knows node IDs and edges. What a node does is supplied to
// the Executor as a TaskFunc, and per-node status, outputs and errors live in
// a nodestore.Store, so the same graph can be described, pruned to the
// ancestors of the requested outputs, and executed.
package dag
