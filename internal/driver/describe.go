package driver

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

var dotShapes = map[nodeKind]string{
	kindFunction: "box",
	kindExtract:  "box",
	kindLoader:   "cylinder",
	kindSaver:    "cylinder",
}

// Describe writes the dataflow as a Graphviz DOT document. With finalVars it
// shows only what they depend on. Inputs resolved from outside the graph are
// drawn as dashed ellipses.
func (d *Driver) Describe(w io.Writer, finalVars ...string) error {
	names := d.graph.Nodes()
	if len(finalVars) > 0 {
		for _, v := range finalVars {
			if _, ok := d.nodes[v]; !ok {
				return fmt.Errorf("unknown final variable '%s'", v)
			}
		}
		keep, err := d.graph.Ancestors(finalVars...)
		if err != nil {
			return err
		}
		names = sortedKeys(keep)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph mlgridgo {")
	fmt.Fprintln(bw, "  rankdir=LR;")

	externals := make(map[string]bool)
	for _, name := range names {
		n := d.nodes[name]
		label := name
		switch {
		case n.module != "" && n.fn != nil && n.fn.Name != name:
			label = fmt.Sprintf("%s\\n%s.%s", name, n.module, n.fn.Name)
		case n.module != "":
			label = fmt.Sprintf("%s\\n%s", name, n.module)
		case n.loader != nil:
			label = fmt.Sprintf("%s\\nfrom %s", name, n.loader.Kind)
		case n.saver != nil:
			label = fmt.Sprintf("%s\\nto %s", name, n.saver.Kind)
		}
		fmt.Fprintf(bw, "  %s [shape=%s, label=%s];\n", dotID(name), dotShapes[n.kind], dotID(label))
		for _, in := range n.external {
			externals[in.Name] = true
		}
	}

	ext := make([]string, 0, len(externals))
	for name := range externals {
		ext = append(ext, name)
	}
	sort.Strings(ext)
	for _, name := range ext {
		fmt.Fprintf(bw, "  %s [shape=ellipse, style=dashed, label=%s];\n", dotID("input:"+name), dotID(name))
	}

	for _, name := range names {
		n := d.nodes[name]
		for _, dep := range n.deps {
			fmt.Fprintf(bw, "  %s -> %s;\n", dotID(dep), dotID(name))
		}
		for _, in := range n.external {
			fmt.Fprintf(bw, "  %s -> %s [style=dashed];\n", dotID("input:"+in.Name), dotID(name))
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// dotID quotes s as a DOT string. Backslash sequences such as \n are kept so
// Graphviz can interpret them.
func dotID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
