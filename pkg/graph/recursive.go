package graph

// runRecursive evaluates the target depth-first. A visiting set tracks
// the current path for cycle detection.
func (e *Executor) runRecursive(targetID string) error {
	return e.evalRecursive(targetID, make(map[string]bool))
}

func (e *Executor) evalRecursive(id string, visiting map[string]bool) error {
	n, err := e.graph.node(id)
	if err != nil {
		return err
	}
	if n.State == StateComputed {
		return nil
	}
	if visiting[id] {
		return &CycleError{NodeID: id}
	}
	visiting[id] = true

	for _, in := range n.Inputs {
		r, err := parseRef(in)
		if err != nil {
			return err
		}
		if err := e.evalRecursive(r.id, visiting); err != nil {
			return err
		}
	}
	if err := e.evalNode(n); err != nil {
		return err
	}

	delete(visiting, id)
	return nil
}
