package mis

import (
	"github.com/holiman/uint256"

	"parmis/rng"
)

// Key is the per-round priority of a vertex: a 256-bit random draw with
// the vertex id as secondary sort key. The id component makes the order
// total, so two neighbors can never compare equal and no round needs a
// tie fallback.
type Key struct {
	Rand uint256.Int
	ID   uint
}

// Less orders keys lexicographically on (Rand, ID). The smallest key in
// a closed neighborhood wins its round.
func (k Key) Less(other Key) bool {
	switch k.Rand.Cmp(&other.Rand) {
	case -1:
		return true
	case 1:
		return false
	}
	return k.ID < other.ID
}

// assignPriorities draws one fresh key per still-active local vertex.
// Draws depend only on (seed, vertex, round), never on previous rounds,
// so a replay with the same source reproduces them exactly.
func assignPriorities(src rng.Source, table *StatusTable, round uint) map[uint]Key {
	keys := make(map[uint]Key, table.ActiveCount())
	for _, id := range table.ActiveVertices() {
		keys[id] = Key{Rand: src.Next(id, round), ID: id}
	}
	return keys
}
