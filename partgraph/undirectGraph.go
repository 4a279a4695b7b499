package partgraph

import (
	"fmt"

	set "github.com/deckarep/golang-set"
)

// Vertex is one vertex of the input graph
type Vertex struct {
	ID     uint `json:"id"`     // globally unique id
	Degree uint `json:"degree"` // number of incident edges
}

// UndirectedGraph is a simple undirected graph over integer vertex ids
type UndirectedGraph struct {
	Vertices     map[uint]*Vertex `json:"vertices"`     // vertex set
	AdjacencyMap map[uint][]uint  `json:"adjacencyMap"` // neighbor lists
}

// NewUndirectedGraph creates an empty undirected graph
func NewUndirectedGraph() *UndirectedGraph {
	return &UndirectedGraph{
		Vertices:     make(map[uint]*Vertex),
		AdjacencyMap: make(map[uint][]uint),
	}
}

// AddVertex adds a vertex to the graph
func (g *UndirectedGraph) AddVertex(id uint) {
	_, exist := g.Vertices[id]
	if exist {
		return
	}
	g.Vertices[id] = &Vertex{ID: id, Degree: 0}
	g.AdjacencyMap[id] = make([]uint, 0)
}

// AddEdge adds an edge to the graph. Self-loops are recorded as given
// and rejected later by Validate.
func (g *UndirectedGraph) AddEdge(source, destination uint) {
	if g.HasEdge(source, destination) {
		return
	}
	g.AdjacencyMap[source] = append(g.AdjacencyMap[source], destination)
	g.Vertices[source].Degree++
	if source != destination {
		g.AdjacencyMap[destination] = append(g.AdjacencyMap[destination], source)
		g.Vertices[destination].Degree++
	}
}

func (g *UndirectedGraph) HasEdge(v1, v2 uint) bool {
	for _, u := range g.AdjacencyMap[v1] {
		if u == v2 {
			return true
		}
	}
	return false
}

// Neighbors returns the neighbor ids of v
func (g *UndirectedGraph) Neighbors(v uint) []uint {
	return g.AdjacencyMap[v]
}

// NumVertices returns the number of vertices in the graph
func (g *UndirectedGraph) NumVertices() int {
	return len(g.Vertices)
}

// CopyWithout clones the graph, dropping the given vertices and every
// edge touching them
func (g *UndirectedGraph) CopyWithout(remove set.Set) *UndirectedGraph {
	NewG := NewUndirectedGraph()
	for id := range g.Vertices {
		if !remove.Contains(id) {
			NewG.AddVertex(id)
		}
	}
	for id := range NewG.Vertices {
		for _, neighborId := range g.AdjacencyMap[id] {
			if !remove.Contains(neighborId) {
				NewG.AddEdge(id, neighborId)
			}
		}
	}
	return NewG
}

// Validate checks the graph is simple and internally consistent.
// It is called once before round 0; a failure here aborts the whole
// computation before any state is allocated.
func (g *UndirectedGraph) Validate() error {
	for id, neighbors := range g.AdjacencyMap {
		if _, ok := g.Vertices[id]; !ok {
			return fmt.Errorf("%w: adjacency for unknown vertex %d", ErrInvalidGraph, id)
		}
		for _, u := range neighbors {
			if u == id {
				return fmt.Errorf("%w: self-loop on vertex %d", ErrInvalidGraph, id)
			}
			if _, ok := g.Vertices[u]; !ok {
				return fmt.Errorf("%w: edge (%d,%d) references unknown vertex", ErrInvalidGraph, id, u)
			}
			if !g.HasEdge(u, id) {
				return fmt.Errorf("%w: edge (%d,%d) has no reverse entry", ErrInvalidGraph, id, u)
			}
		}
	}
	return nil
}
