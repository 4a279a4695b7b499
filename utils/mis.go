package utils

import (
	set "github.com/deckarep/golang-set"

	"parmis/mis"
	"parmis/partgraph"
	"parmis/rng"
)

// IndependentLayers peels the graph into successive maximal independent
// sets: compute a MIS, remove it, recompute on the remainder, until no
// vertices are left. Every layer is conflict-free internally, which is
// what schedulers and coloring passes consume downstream. Each layer
// reseeds the source so the peels stay mutually independent while the
// whole peeling is reproducible from the base seed.
func IndependentLayers(g *partgraph.UndirectedGraph, parts int, seed uint64) ([][]uint, error) {
	layers := make([][]uint, 0)
	for layer := uint64(0); g.NumVertices() > 0; layer++ {
		view, err := g.Partition(parts)
		if err != nil {
			return nil, err
		}
		selected, err := mis.ComputeMIS(view, rng.NewKeccakSource(seed+layer))
		if err != nil {
			return nil, err
		}
		layers = append(layers, selected)

		remove := set.NewSet()
		for _, id := range selected {
			remove.Add(id)
		}
		g = g.CopyWithout(remove)
	}
	return layers, nil
}
