package graph

import "log/slog"

const (
	// autoDepthLimit bounds the depth estimate; chains longer than this
	// are routed away from the recursive strategy.
	autoDepthLimit = 100
	// autoNodeLimit is the largest reachable set the recursive strategy
	// is chosen for.
	autoNodeLimit = 500
	// parallelMinNodes and parallelMinWidth gate the layered-parallel
	// strategy: it only pays off on large graphs with wide layers.
	parallelMinNodes = 500
	parallelMinWidth = 100
)

// runAuto selects a strategy from the shape of the reachable sub-DAG:
// small shallow graphs run recursively, large wide ones run
// layered-parallel, everything else runs iteratively.
func (e *Executor) runAuto(targetID string) error {
	set, err := e.reachable(targetID)
	if err != nil {
		return err
	}
	depth := e.estimateDepth(targetID, autoDepthLimit)

	if depth <= autoDepthLimit && len(set) <= autoNodeLimit {
		slog.Debug("auto strategy", "choice", "recursive", "nodes", len(set), "depth", depth)
		return e.runRecursive(targetID)
	}

	if poolAvailable() && len(set) >= parallelMinNodes {
		order, err := e.kahnOrder(set)
		if err != nil {
			return err
		}
		layers := e.layers(order)
		if w := maxWidth(layers); w >= parallelMinWidth {
			slog.Debug("auto strategy", "choice", "parallel", "nodes", len(set), "width", w)
			return e.runParallelLayers(layers)
		}
		slog.Debug("auto strategy", "choice", "iterative", "nodes", len(set))
		return e.runOrder(order)
	}

	slog.Debug("auto strategy", "choice", "iterative", "nodes", len(set))
	return e.runIterative(targetID)
}

// runOrder walks an already-computed topological order.
func (e *Executor) runOrder(order []string) error {
	for _, id := range order {
		if err := e.evalNode(e.graph.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

