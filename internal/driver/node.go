package driver

import (
	"github.com/specialistvlad/mlgridgo/internal/materialize"
	"github.com/specialistvlad/mlgridgo/internal/transform"
)

type nodeKind int

const (
	kindFunction nodeKind = iota
	kindExtract
	kindLoader
	kindSaver
)

func (k nodeKind) String() string {
	switch k {
	case kindFunction:
		return "function"
	case kindExtract:
		return "extract"
	case kindLoader:
		return "loader"
	case kindSaver:
		return "saver"
	default:
		return "unknown"
	}
}

// node is one vertex of the dataflow with what it needs to run.
type node struct {
	name   string
	kind   nodeKind
	module string

	fn *transform.Function

	// parent is the function node an extract node reads its field from.
	parent string

	loader *materialize.Loader
	saver  *materialize.Saver

	// deps are the upstream node names, in declaration order.
	deps []string
	// external are function inputs no node provides.
	external []transform.Input
}

// Variable describes a node of the built dataflow.
type Variable struct {
	Name   string
	Kind   string
	Module string
	Doc    string
	Deps   []string
}

func (n *node) variable() Variable {
	v := Variable{
		Name:   n.name,
		Kind:   n.kind.String(),
		Module: n.module,
		Deps:   append([]string(nil), n.deps...),
	}
	if n.fn != nil {
		v.Doc = n.fn.Doc
	}
	return v
}
