package utils

import (
	"testing"

	"github.com/alitto/pond"

	"parmis/partgraph"
)

func NewLayerGraph() *partgraph.UndirectedGraph {
	G := partgraph.NewUndirectedGraph()
	for i := uint(0); i < 10; i++ {
		G.AddVertex(i)
	}
	G.AddEdge(0, 1)
	G.AddEdge(0, 2)

	G.AddEdge(1, 2)
	G.AddEdge(1, 3)

	G.AddEdge(2, 3)

	G.AddEdge(3, 8)
	G.AddEdge(3, 4)

	G.AddEdge(4, 5)
	G.AddEdge(4, 7)

	G.AddEdge(5, 6)
	G.AddEdge(6, 7)

	G.AddEdge(8, 9)

	return G
}

func TestIndependentLayersCoverAllVertices(t *testing.T) {
	g := NewLayerGraph()
	layers, err := IndependentLayers(NewLayerGraph(), 2, 17)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[uint]int)
	for li, layer := range layers {
		t.Logf("layer %d: %v", li, layer)
		if len(layer) == 0 {
			t.Fatalf("layer %d is empty, peeling cannot progress", li)
		}
		inLayer := make(map[uint]bool)
		for _, id := range layer {
			seen[id]++
			inLayer[id] = true
		}
		for _, id := range layer {
			for _, u := range g.Neighbors(id) {
				if inLayer[u] {
					t.Fatalf("layer %d contains adjacent vertices %d and %d", li, id, u)
				}
			}
		}
	}
	if len(seen) != g.NumVertices() {
		t.Fatalf("layers cover %d vertices, want %d", len(seen), g.NumVertices())
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("vertex %d appears in %d layers, want exactly 1", id, n)
		}
	}
}

func TestBuildConflictGraph(t *testing.T) {
	// adjacent ids conflict, everything else commutes
	pool := pond.New(4, 32)
	g := BuildConflictGraph(pool, 6, func(i, j uint) bool {
		return j == i+1
	})

	if g.NumVertices() != 6 {
		t.Fatalf("graph has %d vertices, want 6", g.NumVertices())
	}
	for i := uint(0); i < 5; i++ {
		if !g.HasEdge(i, i+1) {
			t.Fatalf("edge (%d,%d) missing", i, i+1)
		}
	}
	if g.HasEdge(0, 2) {
		t.Fatal("non-adjacent ids must not conflict")
	}
	if err := g.Validate(); err != nil {
		t.Fatal(err)
	}
}
