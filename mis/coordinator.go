package mis

import (
	"errors"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"github.com/panjf2000/ants/v2"

	"parmis/exchange"
	"parmis/partgraph"
	"parmis/rng"
)

// Phase is the round coordinator's state machine position
type Phase byte

const (
	PhaseInit Phase = iota
	PhaseExchanging
	PhaseDeciding
	PhaseConverged
)

var ErrBadSource = errors.New("rng source misconfigured")

// Coordinator drives the round loop for one partition. Each round it
// draws fresh priorities for the active local vertices, exchanges
// boundary snapshots with the peer partitions, runs the local decision
// engine on the now-consistent view, and reduces the global active
// count to test convergence. The exchange barrier keeps all partitions
// in lock-step: nobody decides round k before every peer's round-k
// snapshots have arrived.
type Coordinator struct {
	view *partgraph.PartitionView
	src  rng.Source
	ctx  exchange.Context
	part int
	pool *ants.Pool

	phase    Phase
	round    uint
	table    *StatusTable
	boundary []uint
	remote   map[uint]exchange.Snapshot
}

func NewCoordinator(view *partgraph.PartitionView, src rng.Source, ctx exchange.Context, part int, pool *ants.Pool) *Coordinator {
	boundary := make([]uint, 0)
	for _, id := range view.Boundary(part).ToSlice() {
		boundary = append(boundary, id.(uint))
	}
	sort.Slice(boundary, func(i, j int) bool { return boundary[i] < boundary[j] })

	return &Coordinator{
		view:     view,
		src:      src,
		ctx:      ctx,
		part:     part,
		pool:     pool,
		phase:    PhaseInit,
		table:    NewStatusTable(view.Locals(part)),
		boundary: boundary,
		remote:   make(map[uint]exchange.Snapshot),
	}
}

// Phase returns the coordinator's current state machine position
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// Round returns the number of completed rounds
func (c *Coordinator) Round() uint {
	return c.round
}

// snapshots captures this partition's boundary vertices at the start of
// the round: terminal statuses ride along with the active priorities so
// peers learn about earlier selections in the same exchange.
func (c *Coordinator) snapshots(keys map[uint]Key) []exchange.Snapshot {
	out := make([]exchange.Snapshot, 0, len(c.boundary))
	for _, id := range c.boundary {
		snap := exchange.Snapshot{Vertex: id, Status: byte(c.table.Get(id))}
		if key, ok := keys[id]; ok {
			snap.Rand = key.Rand
		}
		out = append(out, snap)
	}
	return out
}

// Run executes rounds until the global active count reaches zero and
// returns this partition's selected vertices, sorted by local id.
// Any error invalidates the whole collective run; no partial result is
// returned and the caller must restart with a fresh invocation.
func (c *Coordinator) Run() ([]uint, error) {
	for {
		c.round++
		keys := assignPriorities(c.src, c.table, c.round)

		c.phase = PhaseExchanging
		in, err := c.ctx.Exchange(c.part, int(c.round), c.snapshots(keys))
		if err != nil {
			return nil, err
		}
		for id := range c.remote {
			delete(c.remote, id)
		}
		for _, snap := range in {
			c.remote[snap.Vertex] = snap
		}

		c.phase = PhaseDeciding
		if err := c.decideRound(keys); err != nil {
			c.ctx.Abort(err)
			return nil, err
		}

		globalActive, err := c.ctx.ReduceActive(c.part, int(c.round), c.table.ActiveCount())
		if err != nil {
			return nil, err
		}
		log.Debug("mis round complete", "partition", c.part, "round", c.round,
			"localActive", c.table.ActiveCount(), "globalActive", globalActive)
		if globalActive == 0 {
			break
		}
	}
	c.phase = PhaseConverged
	return c.table.SelectedList(), nil
}
