package graph

import (
	"errors"
	"fmt"
	"log/slog"
)

// Executor schedules and evaluates one graph. It holds a non-owning
// reference to the graph and a per-evaluation bindings map; it is not
// safe for concurrent use by multiple goroutines.
type Executor struct {
	graph    *Graph
	bindings map[string]string
}

// NewExecutor binds an executor to a graph. The executor is invalid once
// the graph is discarded.
func NewExecutor(g *Graph) *Executor {
	return &Executor{graph: g}
}

// EvaluateRecursive evaluates the target depth-first on the caller's
// stack. Deep graphs may exhaust the stack; use EvaluateIterative or
// EvaluateAuto for those.
func (e *Executor) EvaluateRecursive(target string, bindings map[string]string) (string, error) {
	return e.evaluate(target, bindings, "recursive", e.runRecursive)
}

// EvaluateIterative evaluates the target by topologically ordering the
// reachable sub-DAG and walking it without recursion.
func (e *Executor) EvaluateIterative(target string, bindings map[string]string) (string, error) {
	return e.evaluate(target, bindings, "iterative", e.runIterative)
}

// EvaluateParallel evaluates the target layer by layer, dispatching wide
// layers across a worker pool with a hard barrier between layers.
func (e *Executor) EvaluateParallel(target string, bindings map[string]string) (string, error) {
	return e.evaluate(target, bindings, "parallel", e.runParallel)
}

// EvaluateAuto picks a strategy from the shape of the reachable
// sub-DAG: recursive for small shallow graphs, layered-parallel for
// large wide ones, iterative otherwise.
func (e *Executor) EvaluateAuto(target string, bindings map[string]string) (string, error) {
	return e.evaluate(target, bindings, "auto", e.runAuto)
}

// evaluate is the entry-point protocol shared by every strategy: parse
// the target address, run the prepare pass, evaluate, and resolve the
// target's cached result against the optional :k index. A failed run is
// rolled back so no partial results stay visible.
func (e *Executor) evaluate(target string, bindings map[string]string, name string, run func(string) error) (string, error) {
	if target == "" {
		target = e.graph.DefaultTarget()
	}
	r, err := parseRef(target)
	if err != nil {
		return "", err
	}
	n, err := e.graph.node(r.id)
	if err != nil {
		return "", err
	}

	e.prepare()
	e.bindings = bindings
	slog.Debug("evaluating target", "target", target, "strategy", name)

	if err := run(r.id); err != nil {
		e.rollback()
		return "", err
	}
	v, err := valueAt(n, r)
	if err != nil {
		e.rollback()
		return "", err
	}
	return v, nil
}

// prepare resets every non-variable node to pending with a cleared
// cache, then seeds constants. Variables are seeded only the first time;
// later runs leave them as they stood.
func (e *Executor) prepare() {
	for _, id := range e.graph.order {
		n := e.graph.nodes[id]
		switch n.Kind {
		case KindVariable:
			if n.State != StateComputed && n.Initial != nil {
				n.setResult(SingleResult(*n.Initial))
			}
		case KindConstant:
			n.reset()
			n.setResult(SingleResult(*n.Initial))
		default:
			n.reset()
		}
	}
}

// rollback clears every placeholder and operation result after a failed
// evaluation.
func (e *Executor) rollback() {
	for _, id := range e.graph.order {
		n := e.graph.nodes[id]
		if n.Kind == KindPlaceholder || n.Kind == KindOperation {
			n.reset()
		}
	}
}

// evalNode is the per-node step shared by all strategies. Every input of
// an operation node must already be computed when it is called.
func (e *Executor) evalNode(n *Node) error {
	if n.State == StateComputed {
		return nil
	}
	switch n.Kind {
	case KindConstant:
		// Seeded by prepare; only reachable here if prepare was skipped.
		n.setResult(SingleResult(*n.Initial))
		return nil
	case KindVariable:
		return &OperationError{NodeID: n.ID, Op: n.Op, Err: errors.New("variable has no value")}
	case KindPlaceholder:
		v, ok := e.bindings[n.ID]
		if !ok {
			return &MissingBindingError{ID: n.ID}
		}
		n.setResult(SingleResult(v))
		return nil
	}

	inputs := make([]string, len(n.Inputs))
	for i, in := range n.Inputs {
		r, err := parseRef(in)
		if err != nil {
			return err
		}
		up, err := e.graph.node(r.id)
		if err != nil {
			return err
		}
		v, err := valueAt(up, r)
		if err != nil {
			return err
		}
		inputs[i] = v
	}

	op, err := lookupOperation(n.Op)
	if err != nil {
		return err
	}
	res, err := invokeOperation(op, n, inputs)
	if err != nil {
		return err
	}
	n.setResult(res)
	return nil
}

// invokeOperation calls an operation callback, converting both returned
// errors and panics from host-registered callbacks into operation errors.
func invokeOperation(op Operation, n *Node, inputs []string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &OperationError{NodeID: n.ID, Op: n.Op, Err: fmt.Errorf("callback panic: %v", r)}
		}
	}()
	res, err = op(inputs, n.Constants)
	if err != nil {
		var opErr *OperationError
		if !errors.As(err, &opErr) {
			err = &OperationError{NodeID: n.ID, Op: n.Op, Err: err}
		}
		return Result{}, err
	}
	return res, nil
}
