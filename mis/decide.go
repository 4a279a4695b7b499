package mis

import (
	"errors"
	"fmt"
	"sync"
)

// Decision is the outcome of one vertex's comparison in one round
type Decision byte

const (
	Undecided Decision = iota // keeps competing next round
	Win                       // strictly smallest key in its closed neighborhood
	Lose                      // some neighbor is already SELECTED
)

var ErrIncompleteView = errors.New("incomplete boundary view")

// neighborState resolves a neighbor's status and key, from the local
// table for owned vertices or from the round's exchanged snapshots for
// remote ones. A remote neighbor with no snapshot means the exchange
// was inconsistent, which is fatal for the whole run.
func (c *Coordinator) neighborState(u uint, keys map[uint]Key) (Status, Key, error) {
	if c.view.Owner(u) == c.part {
		return c.table.Get(u), keys[u], nil
	}
	snap, ok := c.remote[u]
	if !ok {
		return Active, Key{}, fmt.Errorf("%w: no round snapshot for remote vertex %d", ErrIncompleteView, u)
	}
	return Status(snap.Status), Key{Rand: snap.Rand, ID: u}, nil
}

// decideVertex compares v against its neighborhood under the round's
// consistent view. A SELECTED neighbor dominates everything else: v can
// never join the set once a neighbor is in. Otherwise v wins exactly
// when its key is strictly smallest among itself and its still-active
// neighbors; an isolated active vertex wins trivially.
func (c *Coordinator) decideVertex(v uint, keys map[uint]Key) (Decision, error) {
	key := keys[v]
	extremal := true
	for _, u := range c.view.Neighbors(v) {
		status, ukey, err := c.neighborState(u, keys)
		if err != nil {
			return Undecided, err
		}
		if status == Selected {
			return Lose, nil
		}
		if status == Active && ukey.Less(key) {
			extremal = false
		}
	}
	if extremal {
		return Win, nil
	}
	return Undecided, nil
}

// decideRound runs the decision engine over all active local vertices
// and applies the outcomes. Comparisons are embarrassingly parallel, so
// they fan out on the ants pool; the table is only written after every
// comparison has finished against the unchanged round view.
func (c *Coordinator) decideRound(keys map[uint]Key) error {
	activeList := c.table.ActiveVertices()
	decisions := make([]Decision, len(activeList))
	errs := make([]error, len(activeList))

	var wg sync.WaitGroup
	wg.Add(len(activeList))
	for i := range activeList {
		taskNum := i
		err := c.pool.Submit(func() {
			decisions[taskNum], errs[taskNum] = c.decideVertex(activeList[taskNum], keys)
			wg.Done() // Mark the task as completed
		})
		if err != nil {
			errs[taskNum] = err
			wg.Done() // Mark the task as completed
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for i, decision := range decisions {
		switch decision {
		case Win:
			c.table.Select(activeList[i])
		case Lose:
			c.table.Exclude(activeList[i])
		}
	}
	// Winners knock out their local neighbors in the same round; remote
	// neighbors learn about the selection from the next round's
	// snapshots. Two winners are never adjacent, so the sweep can only
	// hit vertices that are still active or already excluded.
	for i, decision := range decisions {
		if decision != Win {
			continue
		}
		for _, u := range c.view.Neighbors(activeList[i]) {
			if c.view.Owner(u) == c.part {
				c.table.Exclude(u)
			}
		}
	}
	return nil
}
