package exchange

import (
	"errors"

	"github.com/holiman/uint256"
)

var ErrExchangeFailed = errors.New("boundary exchange failed")
var ErrAborted = errors.New("collective invocation aborted")

// Snapshot is the per-vertex payload exchanged at a round boundary:
// the owning partition's view of one boundary vertex at the start of
// the round.
type Snapshot struct {
	Vertex uint
	Status byte
	Rand   uint256.Int
}

// Context is the execution context service: it moves boundary
// snapshots between partition workers and reduces the global active
// count. Every method is a collective operation — all partitions must
// call it with the same round number, and a call blocks until every
// peer's contribution for that round has arrived. Exchange is the only
// suspension point of a round.
//
// Any error poisons the whole collective: once a call fails on one
// partition, calls on every other partition fail too, and no partial
// results are ever returned.
type Context interface {
	// Exchange delivers part's boundary snapshots for the round and
	// returns the peer snapshots addressed to part.
	Exchange(part, round int, out []Snapshot) ([]Snapshot, error)

	// ReduceActive sums the per-partition active-vertex counts.
	ReduceActive(part, round int, localActive int) (int, error)

	// Abort poisons the context so every blocked or future collective
	// call returns the given error.
	Abort(err error)
}
