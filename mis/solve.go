package mis

import (
	"github.com/devchat-ai/gopool"
	"github.com/ethereum/go-ethereum/log"
	"github.com/panjf2000/ants/v2"

	"parmis/exchange"
	"parmis/partgraph"
	"parmis/rng"
)

// ComputeMIS computes a maximal independent set of the partitioned
// graph: a collective invocation that runs one coordinator per
// partition in lock-step and merges their answers. The returned ids are
// sorted ascending. Errors from any partition abort the whole run.
//
// The result is reproducible for a fixed (source seed, partition
// layout) pair. Different layouts of the same graph may select
// different sets; each is still independent and maximal.
func ComputeMIS(view *partgraph.PartitionView, src rng.Source) ([]uint, error) {
	if src == nil {
		return nil, ErrBadSource
	}

	antsPool, err := ants.NewPool(16, ants.WithPreAlloc(true))
	if err != nil {
		return nil, err
	}
	defer antsPool.Release()

	ctx := exchange.NewLocalContext(view)
	parts := view.NumPartitions()
	results := make([][]uint, parts)
	errs := make([]error, parts)

	// Every partition must run concurrently or the exchange barrier
	// would starve, hence one pool worker per partition.
	pool := gopool.NewGoPool(parts)
	defer pool.Release()
	for p := 0; p < parts; p++ {
		taskNum := p
		pool.AddTask(func() (interface{}, error) {
			coordinator := NewCoordinator(view, src, ctx, taskNum, antsPool)
			results[taskNum], errs[taskNum] = coordinator.Run()
			if errs[taskNum] != nil {
				ctx.Abort(errs[taskNum])
			}
			return nil, errs[taskNum]
		})
	}
	pool.Wait()

	for _, err := range errs {
		if err != nil {
			log.Warn("mis invocation aborted", "err", err)
			return nil, err
		}
	}

	// Partitions hold contiguous ascending id ranges, so concatenating
	// in partition order keeps the merged list sorted.
	selected := make([]uint, 0)
	for p := 0; p < parts; p++ {
		selected = append(selected, results[p]...)
	}
	return selected, nil
}
