package utils

import (
	"sync"

	"github.com/alitto/pond"

	"parmis/partgraph"
)

// BuildConflictGraph builds the undirected conflict graph over n items
// from a pairwise conflict predicate, one vertex per item id. Rows are
// evaluated concurrently on the pond pool; the predicate must be safe
// for concurrent calls. The pool is stopped when construction is done.
func BuildConflictGraph(pool *pond.WorkerPool, n uint, conflict func(i, j uint) bool) *partgraph.UndirectedGraph {
	g := partgraph.NewUndirectedGraph()
	for i := uint(0); i < n; i++ {
		g.AddVertex(i)
	}

	var mu sync.Mutex
	for i := uint(0); i < n; i++ {
		row := i
		pool.Submit(func() {
			for j := row + 1; j < n; j++ {
				if conflict(row, j) {
					mu.Lock()
					g.AddEdge(row, j)
					mu.Unlock()
				}
			}
		})
	}
	pool.StopAndWait()
	return g
}
