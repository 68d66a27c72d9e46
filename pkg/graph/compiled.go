package graph

import "fmt"

// CompiledGraph bundles an owned graph with its executor so one parsed
// graph can be evaluated many times. Construction never fails outright:
// a broken document yields an invalid facade whose Run calls return
// ErrInvalidGraph, with the construction error kept for inspection.
type CompiledGraph struct {
	graph *Graph
	exec  *Executor
	err   error
}

// Compile parses a JSON graph document and compiles it.
func Compile(data []byte) *CompiledGraph {
	d, err := ParseJSON(data)
	if err != nil {
		return &CompiledGraph{err: err}
	}
	return CompileDocument(d)
}

// CompileDocument builds and compiles a pre-parsed document.
func CompileDocument(d *Document) *CompiledGraph {
	g, err := d.Build()
	if err != nil {
		return &CompiledGraph{err: err}
	}
	return &CompiledGraph{graph: g, exec: NewExecutor(g)}
}

// NewCompiledGraph wraps an already-built graph. Validate is run so an
// unresolved input reference surfaces here rather than mid-evaluation.
func NewCompiledGraph(g *Graph) *CompiledGraph {
	if g == nil {
		return &CompiledGraph{err: &ConstructionError{Message: "graph must not be nil"}}
	}
	if err := g.Validate(); err != nil {
		return &CompiledGraph{err: err}
	}
	return &CompiledGraph{graph: g, exec: NewExecutor(g)}
}

// Valid reports whether construction succeeded.
func (c *CompiledGraph) Valid() bool { return c.err == nil }

// Err returns the construction error of an invalid facade, or nil.
func (c *CompiledGraph) Err() error { return c.err }

// Run evaluates a target with the recursive strategy. An empty target
// falls back to the document's target.
func (c *CompiledGraph) Run(target string, bindings map[string]string) (string, error) {
	if c.err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidGraph, c.err)
	}
	return c.exec.EvaluateRecursive(target, bindings)
}

// RunAuto evaluates a target with shape-based strategy selection.
func (c *CompiledGraph) RunAuto(target string, bindings map[string]string) (string, error) {
	if c.err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidGraph, c.err)
	}
	return c.exec.EvaluateAuto(target, bindings)
}

// Graph returns a read-only view of the compiled graph, or nil when
// construction failed.
func (c *CompiledGraph) Graph() *Graph { return c.graph }
