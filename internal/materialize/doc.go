// Package materialize persists pipeline results and feeds stored results back
// into a pipeline.
//
// A Saver becomes an extra graph node that depends on the nodes it saves and
// outputs metadata about what it wrote. A Loader replaces its target node:
// the target is no longer computed, its value is read from storage instead.
//
// Three backends are provided: gob files (Go's native object encoding, used
// for trained models), JSON files and Redis keys holding a gob payload.
package materialize
