package dag

import "sync"

// Graph is a directed acyclic graph of string-identified nodes. It is safe
// for concurrent use.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

// node is kept unexported so callers work with IDs only.
type node struct {
	id         string
	upstream   map[string]*node // nodes this one depends on
	downstream map[string]*node // nodes that depend on this one
}
