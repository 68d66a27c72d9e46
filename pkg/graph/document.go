package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// NodeSpec is one node entry in a graph document.
//
// Type may be omitted for backwards compatibility with untyped documents:
// a spec with a value is a constant, a spec with an op is an operation,
// and a spec with neither must carry an explicit placeholder type.
type NodeSpec struct {
	ID        string   `json:"id"`
	Type      string   `json:"type,omitempty"`
	Value     *string  `json:"value,omitempty"`
	Op        string   `json:"op,omitempty"`
	Inputs    []string `json:"inputs,omitempty"`
	Constants []string `json:"constants,omitempty"`
}

// Document is a pre-parsed graph description: a node list plus an
// optional default target reference.
type Document struct {
	Nodes  []NodeSpec `json:"nodes"`
	Target string     `json:"target,omitempty"`
}

// ParseJSON decodes a JSON graph document.
func ParseJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &ConstructionError{Message: fmt.Sprintf("json parse error: %v", err)}
	}
	if d.Nodes == nil {
		return nil, &ConstructionError{Message: "document missing 'nodes' field"}
	}
	return &d, nil
}

// kind resolves a spec's node kind, applying the untyped-document
// inference rules, and reports contradictions between the declared type
// and the supplied fields.
func (s *NodeSpec) kind() (Kind, *ConstructionError) {
	var k Kind
	switch s.Type {
	case "":
		switch {
		case s.Value != nil:
			k = KindConstant
		case s.Op != "":
			k = KindOperation
		default:
			return "", &ConstructionError{NodeID: s.ID, Message: "node has neither 'value' nor 'op', and no 'type'"}
		}
	case string(KindConstant), string(KindPlaceholder), string(KindVariable), string(KindOperation):
		k = Kind(s.Type)
	default:
		return "", &ConstructionError{NodeID: s.ID, Message: fmt.Sprintf("unknown node type %q", s.Type)}
	}

	switch k {
	case KindConstant:
		if s.Value == nil {
			return "", &ConstructionError{NodeID: s.ID, Message: "constant node requires a 'value'"}
		}
	case KindPlaceholder:
		if s.Value != nil {
			return "", &ConstructionError{NodeID: s.ID, Message: "placeholder node must not carry a 'value' (use bindings)"}
		}
	}
	if k != KindOperation {
		if s.Op != "" && s.Op != IdentityOp {
			return "", &ConstructionError{NodeID: s.ID, Message: fmt.Sprintf("%s node must not carry an 'op'", k)}
		}
		if len(s.Inputs) > 0 {
			return "", &ConstructionError{NodeID: s.ID, Message: fmt.Sprintf("%s node must not carry 'inputs'", k)}
		}
		if len(s.Constants) > 0 {
			return "", &ConstructionError{NodeID: s.ID, Message: fmt.Sprintf("%s node must not carry 'constants'", k)}
		}
	} else {
		if s.Op == "" {
			return "", &ConstructionError{NodeID: s.ID, Message: "operation node requires an 'op'"}
		}
		if s.Value != nil {
			return "", &ConstructionError{NodeID: s.ID, Message: "operation node must not carry a 'value'"}
		}
	}
	return k, nil
}

// Lint checks a document for construction problems and returns all of
// them, not just the first.
func Lint(d *Document) []ConstructionError {
	var errs []ConstructionError
	seen := make(map[string]bool, len(d.Nodes))

	for i := range d.Nodes {
		s := &d.Nodes[i]
		if s.ID == "" {
			errs = append(errs, ConstructionError{Message: "node id must not be empty"})
			continue
		}
		if strings.Contains(s.ID, ":") {
			errs = append(errs, ConstructionError{NodeID: s.ID, Message: "node id must not contain ':'"})
			continue
		}
		if seen[s.ID] {
			errs = append(errs, ConstructionError{NodeID: s.ID, Message: "duplicate node id"})
			continue
		}
		seen[s.ID] = true

		if _, cerr := s.kind(); cerr != nil {
			errs = append(errs, *cerr)
			continue
		}
		for _, in := range s.Inputs {
			r, err := parseRef(in)
			if err != nil {
				errs = append(errs, ConstructionError{NodeID: s.ID, Message: fmt.Sprintf("bad input reference %q: %v", in, err)})
				continue
			}
			if !knownID(d, r.id) {
				errs = append(errs, ConstructionError{NodeID: s.ID, Message: fmt.Sprintf("input reference %q names an unknown node", in)})
			}
		}
	}

	if d.Target != "" {
		r, err := parseRef(d.Target)
		if err != nil {
			errs = append(errs, ConstructionError{Message: fmt.Sprintf("bad target %q: %v", d.Target, err)})
		} else if !knownID(d, r.id) {
			errs = append(errs, ConstructionError{Message: fmt.Sprintf("target %q names an unknown node", d.Target)})
		}
	}
	return errs
}

func knownID(d *Document, id string) bool {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return true
		}
	}
	return false
}

// LintErr runs Lint and folds the results into a single error, or nil
// when the document is clean. Individual ConstructionError values stay
// reachable through errors.As.
func LintErr(d *Document) error {
	errs := Lint(d)
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i := range errs {
		joined[i] = &errs[i]
	}
	return errors.Join(joined...)
}

// Build constructs a validated graph from the document.
func (d *Document) Build() (*Graph, error) {
	g := New()
	for i := range d.Nodes {
		s := &d.Nodes[i]
		k, cerr := s.kind()
		if cerr != nil {
			return nil, cerr
		}
		var err error
		switch k {
		case KindConstant:
			err = g.AddConstant(s.ID, *s.Value)
		case KindPlaceholder:
			err = g.AddPlaceholder(s.ID)
		case KindVariable:
			if s.Value != nil {
				err = g.AddVariable(s.ID, *s.Value)
			} else {
				err = g.AddVariable(s.ID)
			}
		case KindOperation:
			err = g.AddOperation(s.ID, s.Op, s.Inputs, s.Constants)
		}
		if err != nil {
			return nil, err
		}
	}
	if d.Target != "" {
		if _, err := parseRef(d.Target); err != nil {
			return nil, &ConstructionError{Message: fmt.Sprintf("bad target %q: %v", d.Target, err)}
		}
		g.SetDefaultTarget(d.Target)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
