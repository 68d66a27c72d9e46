package graph

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// ParallelLayerThreshold is the minimum layer size dispatched across the
// worker pool; smaller layers are evaluated serially.
const ParallelLayerThreshold = 200

// runParallel evaluates the target layer by layer. Nodes within a layer
// have no mutual dependency; a hard barrier separates layers, so every
// node of level L completes before any node of level L+1 starts.
func (e *Executor) runParallel(targetID string) error {
	set, err := e.reachable(targetID)
	if err != nil {
		return err
	}
	order, err := e.kahnOrder(set)
	if err != nil {
		return err
	}
	return e.runParallelLayers(e.layers(order))
}

// runParallelLayers evaluates already-partitioned layers in ascending
// level order: wide layers go to the pool, narrow ones run serially.
func (e *Executor) runParallelLayers(layers [][]string) error {
	for i, layer := range layers {
		if len(layer) >= ParallelLayerThreshold && poolAvailable() {
			slog.Debug("dispatching layer", "level", i+1, "nodes", len(layer))
			if err := e.evalLayerParallel(layer); err != nil {
				return err
			}
			continue
		}
		for _, id := range layer {
			if err := e.evalNode(e.graph.nodes[id]); err != nil {
				return err
			}
		}
	}
	return nil
}

// evalLayerParallel fans a layer out over a worker pool fed from a shared
// channel, which gives dynamic work stealing: idle workers pull the next
// pending node. Each node's cache slot is written exactly once, by its
// sole evaluator, so no per-node locking is needed. On failure the
// in-flight nodes finish, queued ones are skipped, and the first error is
// propagated; no further layers start.
func (e *Executor) evalLayerParallel(layer []string) error {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(layer) {
		workers = len(layer)
	}

	work := make(chan *Node)
	var (
		wg       sync.WaitGroup
		failed   atomic.Bool
		errMu    sync.Mutex
		firstErr error
	)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for n := range work {
				if failed.Load() {
					continue
				}
				if err := e.evalNode(n); err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					failed.Store(true)
				}
			}
		}()
	}

	for _, id := range layer {
		work <- e.graph.nodes[id]
	}
	close(work)
	wg.Wait()

	return firstErr
}

// poolAvailable reports whether parallel dispatch can help. With a single
// scheduling thread the layered strategy degrades to serial evaluation
// and remains correct.
func poolAvailable() bool {
	return runtime.GOMAXPROCS(0) > 1
}
