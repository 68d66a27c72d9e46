package graph

import (
	"fmt"
	"strings"

	gographviz "github.com/awalterschulze/gographviz"
)

// ParseDOT parses a Graphviz DOT digraph into a graph document.
//
// Node attributes map onto NodeSpec fields: type, value, op, and
// constants (comma-separated). Edges define the input list of their
// destination node in definition order; an output attribute on an edge
// selects the k-th output of the source node ("a -> b [output=2]" feeds
// "a:2" into b). The graph-level target attribute sets the default
// target reference.
func ParseDOT(src string) (*Document, error) {
	graphAst, err := gographviz.ParseString(src)
	if err != nil {
		return nil, &ConstructionError{Message: fmt.Sprintf("dot parse error: %v", err)}
	}

	// A permissive collector accepts any attribute name without the strict
	// validation that gographviz.Graph performs.
	collector := newDOTCollector()
	if err := gographviz.Analyse(graphAst, collector); err != nil {
		return nil, &ConstructionError{Message: fmt.Sprintf("dot analyse error: %v", err)}
	}

	d := &Document{Nodes: make([]NodeSpec, 0, len(collector.nodeOrder))}
	specs := make(map[string]*NodeSpec, len(collector.nodes))
	for _, id := range collector.nodeOrder {
		attrs := collector.nodes[id]
		spec := NodeSpec{ID: id, Type: attrs["type"], Op: attrs["op"]}
		if v, ok := attrs["value"]; ok {
			val := v
			spec.Value = &val
		}
		if c, ok := attrs["constants"]; ok && c != "" {
			for _, part := range strings.Split(c, ",") {
				spec.Constants = append(spec.Constants, part)
			}
		}
		d.Nodes = append(d.Nodes, spec)
		specs[id] = &d.Nodes[len(d.Nodes)-1]
	}

	for _, e := range collector.edges {
		dst, ok := specs[e.to]
		if !ok {
			return nil, &ConstructionError{Message: fmt.Sprintf("edge references unknown node %q", e.to)}
		}
		in := e.from
		if e.output != "" {
			in = e.from + ":" + e.output
		}
		dst.Inputs = append(dst.Inputs, in)
	}

	if t, ok := collector.graphAttrs["target"]; ok {
		d.Target = t
	}
	return d, nil
}

// ─── permissive DOT collector ─────────────────────────────────────────────────

type rawEdge struct {
	from, to string
	output   string // selects "from:output" when non-empty
}

// dotCollector implements gographviz.Interface without attribute validation.
type dotCollector struct {
	name       string
	nodes      map[string]map[string]string // id → attrs
	nodeOrder  []string
	edges      []rawEdge
	graphAttrs map[string]string
	// defaultNodeAttrs holds attrs set at the graph level (node [...]).
	defaultNodeAttrs map[string]string
}

func newDOTCollector() *dotCollector {
	return &dotCollector{
		nodes:            make(map[string]map[string]string),
		graphAttrs:       make(map[string]string),
		defaultNodeAttrs: make(map[string]string),
	}
}

func (c *dotCollector) SetStrict(_ bool) error { return nil }
func (c *dotCollector) SetDir(_ bool) error    { return nil }
func (c *dotCollector) SetName(n string) error { c.name = unquote(n); return nil }
func (c *dotCollector) String() string         { return c.name }

func (c *dotCollector) AddNode(_ string, name string, attrs map[string]string) error {
	id := unquote(name)
	if _, ok := c.nodes[id]; !ok {
		c.nodeOrder = append(c.nodeOrder, id)
		c.nodes[id] = make(map[string]string, len(c.defaultNodeAttrs))
		for k, v := range c.defaultNodeAttrs {
			c.nodes[id][k] = v
		}
	}
	for k, v := range attrs {
		c.nodes[id][k] = unquote(v)
	}
	return nil
}

func (c *dotCollector) AddEdge(src, dst string, _ bool, attrs map[string]string) error {
	out := ""
	if o, ok := attrs["output"]; ok {
		out = unquote(o)
	}
	// Edge endpoints may appear before their node statements.
	_ = c.AddNode("", src, nil)
	_ = c.AddNode("", dst, nil)
	c.edges = append(c.edges, rawEdge{from: unquote(src), to: unquote(dst), output: out})
	return nil
}

func (c *dotCollector) AddPortEdge(src, _, dst, _ string, directed bool, attrs map[string]string) error {
	return c.AddEdge(src, dst, directed, attrs)
}

func (c *dotCollector) AddAttr(_ string, field, value string) error {
	c.graphAttrs[field] = unquote(value)
	return nil
}

func (c *dotCollector) AddSubGraph(_, _ string, _ map[string]string) error { return nil }

// unquote strips surrounding double-quotes from a DOT attribute value.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
