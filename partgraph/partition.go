package partgraph

import (
	"errors"
	"fmt"
	"sort"

	set "github.com/deckarep/golang-set"
)

var ErrInvalidGraph = errors.New("invalid graph input")
var ErrBadPartitioning = errors.New("inconsistent partitioning")

// PartitionView is a read-only view of a graph split into K disjoint
// vertex ranges, one per execution unit. It is immutable for the
// lifetime of a computation and safe to share between workers.
type PartitionView struct {
	graph  *UndirectedGraph
	parts  int
	owner  map[uint]int // vertex id -> owning partition
	locals [][]uint     // per partition, local vertex ids sorted ascending
}

// Partition splits the graph into parts contiguous id ranges of
// near-equal size. Vertex ids keep their global values; only ownership
// is assigned here.
func (g *UndirectedGraph) Partition(parts int) (*PartitionView, error) {
	if parts < 1 {
		return nil, fmt.Errorf("%w: partition count %d", ErrBadPartitioning, parts)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(g.Vertices))
	for id := range g.Vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	view := &PartitionView{
		graph:  g,
		parts:  parts,
		owner:  make(map[uint]int, len(ids)),
		locals: make([][]uint, parts),
	}
	quota := len(ids) / parts
	rest := len(ids) % parts
	cursor := 0
	for p := 0; p < parts; p++ {
		n := quota
		if p < rest {
			n++
		}
		view.locals[p] = ids[cursor : cursor+n]
		for _, id := range view.locals[p] {
			view.owner[id] = p
		}
		cursor += n
	}
	return view, nil
}

// NumPartitions returns the number of partitions in the view
func (pv *PartitionView) NumPartitions() int {
	return pv.parts
}

// NumVertices returns the global vertex count
func (pv *PartitionView) NumVertices() int {
	return len(pv.owner)
}

// Locals returns the vertex ids owned by partition p, sorted ascending
func (pv *PartitionView) Locals(p int) []uint {
	return pv.locals[p]
}

// Owner returns the partition owning vertex v
func (pv *PartitionView) Owner(v uint) int {
	return pv.owner[v]
}

// Neighbors returns the neighbor ids of v, local and remote alike
func (pv *PartitionView) Neighbors(v uint) []uint {
	return pv.graph.AdjacencyMap[v]
}

// Boundary returns the local vertices of p that have at least one
// neighbor owned by another partition
func (pv *PartitionView) Boundary(p int) set.Set {
	boundary := set.NewSet()
	for _, id := range pv.locals[p] {
		for _, u := range pv.graph.AdjacencyMap[id] {
			if pv.owner[u] != p {
				boundary.Add(id)
				break
			}
		}
	}
	return boundary
}

// PeersOf returns the partitions owning at least one neighbor of v,
// excluding v's own partition
func (pv *PartitionView) PeersOf(v uint) []int {
	seen := make(map[int]bool)
	peers := make([]int, 0)
	self := pv.owner[v]
	for _, u := range pv.graph.AdjacencyMap[v] {
		p := pv.owner[u]
		if p != self && !seen[p] {
			seen[p] = true
			peers = append(peers, p)
		}
	}
	return peers
}
