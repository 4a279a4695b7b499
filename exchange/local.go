package exchange

import (
	"fmt"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"

	"parmis/partgraph"
)

// LocalContext runs the collective protocol between partition workers
// of a single process. The mailbox is written concurrently by all
// partitions, so it is a concurrent map keyed by (round, from, to);
// the round barrier itself is a condition variable counting arrivals.
type LocalContext struct {
	view  *partgraph.PartitionView
	parts int

	mailbox cmap.ConcurrentMap[string, []Snapshot]

	mu      sync.Mutex
	cond    *sync.Cond
	arrived map[string]int
	sums    map[int]int
	err     error
}

func NewLocalContext(view *partgraph.PartitionView) *LocalContext {
	ctx := &LocalContext{
		view:    view,
		parts:   view.NumPartitions(),
		mailbox: cmap.New[[]Snapshot](),
		arrived: make(map[string]int),
		sums:    make(map[int]int),
	}
	ctx.cond = sync.NewCond(&ctx.mu)
	return ctx
}

func slotKey(round, from, to int) string {
	return fmt.Sprintf("%d/%d/%d", round, from, to)
}

func (ctx *LocalContext) Exchange(part, round int, out []Snapshot) ([]Snapshot, error) {
	// Route each snapshot to every partition owning a neighbor of it.
	outbound := make(map[int][]Snapshot)
	for _, snap := range out {
		if ctx.view.Owner(snap.Vertex) != part {
			err := fmt.Errorf("%w: partition %d sent snapshot for foreign vertex %d",
				ErrExchangeFailed, part, snap.Vertex)
			ctx.Abort(err)
			return nil, err
		}
		for _, peer := range ctx.view.PeersOf(snap.Vertex) {
			outbound[peer] = append(outbound[peer], snap)
		}
	}
	for peer, snaps := range outbound {
		key := slotKey(round, part, peer)
		if !ctx.mailbox.SetIfAbsent(key, snaps) {
			err := fmt.Errorf("%w: duplicate delivery from partition %d in round %d",
				ErrExchangeFailed, part, round)
			ctx.Abort(err)
			return nil, err
		}
	}

	if err := ctx.await(fmt.Sprintf("x/%d", round)); err != nil {
		return nil, err
	}

	in := make([]Snapshot, 0)
	for peer := 0; peer < ctx.parts; peer++ {
		if peer == part {
			continue
		}
		if snaps, ok := ctx.mailbox.Get(slotKey(round, peer, part)); ok {
			in = append(in, snaps...)
		}
	}
	return in, nil
}

func (ctx *LocalContext) ReduceActive(part, round int, localActive int) (int, error) {
	ctx.mu.Lock()
	ctx.sums[round] += localActive
	ctx.mu.Unlock()
	if err := ctx.await(fmt.Sprintf("a/%d", round)); err != nil {
		return 0, err
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.sums[round], nil
}

func (ctx *LocalContext) Abort(err error) {
	if err == nil {
		err = ErrAborted
	}
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if ctx.err == nil {
		ctx.err = err
	}
	ctx.cond.Broadcast()
}

// await marks this partition arrived at the named barrier and blocks
// until all partitions have, or the context is poisoned.
func (ctx *LocalContext) await(stage string) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.arrived[stage]++
	if ctx.arrived[stage] == ctx.parts {
		ctx.cond.Broadcast()
	}
	for ctx.arrived[stage] < ctx.parts && ctx.err == nil {
		ctx.cond.Wait()
	}
	if ctx.err != nil {
		return ctx.err
	}
	return nil
}
