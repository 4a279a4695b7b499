package exchange

import (
	"errors"
	"sync"
	"testing"

	"github.com/holiman/uint256"

	"parmis/partgraph"
)

// twoPartView builds a 4-vertex path 0-1-2-3 split as {0,1} | {2,3},
// so 1 and 2 are the boundary vertices.
func twoPartView(t *testing.T) *partgraph.PartitionView {
	t.Helper()
	g := partgraph.NewUndirectedGraph()
	for i := uint(0); i < 4; i++ {
		g.AddVertex(i)
	}
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	view, err := g.Partition(2)
	if err != nil {
		t.Fatal(err)
	}
	return view
}

func snap(vertex uint, rand uint64) Snapshot {
	s := Snapshot{Vertex: vertex}
	s.Rand.SetUint64(rand)
	return s
}

func TestExchangeDeliversBoundarySnapshots(t *testing.T) {
	view := twoPartView(t)
	ctx := NewLocalContext(view)

	var wg sync.WaitGroup
	ins := make([][]Snapshot, 2)
	errs := make([]error, 2)
	outs := [][]Snapshot{{snap(1, 11)}, {snap(2, 22)}}
	wg.Add(2)
	for p := 0; p < 2; p++ {
		part := p
		go func() {
			ins[part], errs[part] = ctx.Exchange(part, 1, outs[part])
			wg.Done()
		}()
	}
	wg.Wait()

	for p := 0; p < 2; p++ {
		if errs[p] != nil {
			t.Fatal(errs[p])
		}
		if len(ins[p]) != 1 {
			t.Fatalf("partition %d received %d snapshots, want 1", p, len(ins[p]))
		}
	}
	if ins[0][0].Vertex != 2 || ins[0][0].Rand.Uint64() != 22 {
		t.Fatalf("partition 0 received %+v, want vertex 2", ins[0][0])
	}
	if ins[1][0].Vertex != 1 || ins[1][0].Rand.Uint64() != 11 {
		t.Fatalf("partition 1 received %+v, want vertex 1", ins[1][0])
	}
}

func TestReduceActiveSums(t *testing.T) {
	view := twoPartView(t)
	ctx := NewLocalContext(view)

	var wg sync.WaitGroup
	sums := make([]int, 2)
	counts := []int{3, 4}
	wg.Add(2)
	for p := 0; p < 2; p++ {
		part := p
		go func() {
			sums[part], _ = ctx.ReduceActive(part, 1, counts[part])
			wg.Done()
		}()
	}
	wg.Wait()

	if sums[0] != 7 || sums[1] != 7 {
		t.Fatalf("reduced sums %v, want 7 on both partitions", sums)
	}
}

func TestExchangeRejectsForeignVertex(t *testing.T) {
	view := twoPartView(t)
	ctx := NewLocalContext(view)

	// Vertex 2 is owned by partition 1; partition 0 must not speak for it.
	_, err := ctx.Exchange(0, 1, []Snapshot{snap(2, 5)})
	if !errors.Is(err, ErrExchangeFailed) {
		t.Fatalf("err = %v, want ErrExchangeFailed", err)
	}
	// The fault poisons the collective for the peer as well.
	if _, err := ctx.Exchange(1, 1, []Snapshot{snap(2, 5)}); !errors.Is(err, ErrExchangeFailed) {
		t.Fatalf("peer err = %v, want ErrExchangeFailed", err)
	}
}

func TestExchangeRejectsDuplicateDelivery(t *testing.T) {
	view := twoPartView(t)
	ctx := NewLocalContext(view)

	var wg sync.WaitGroup
	wg.Add(2)
	for p := 0; p < 2; p++ {
		part := p
		out := []Snapshot{snap(uint(part+1), 1)}
		go func() {
			if _, err := ctx.Exchange(part, 1, out); err != nil {
				t.Error(err)
			}
			wg.Done()
		}()
	}
	wg.Wait()

	if _, err := ctx.Exchange(0, 1, []Snapshot{snap(1, 9)}); !errors.Is(err, ErrExchangeFailed) {
		t.Fatalf("err = %v, want ErrExchangeFailed", err)
	}
}

func TestAbortPoisonsAllCalls(t *testing.T) {
	view := twoPartView(t)
	ctx := NewLocalContext(view)

	cause := errors.New("interconnect down")
	ctx.Abort(cause)
	if _, err := ctx.Exchange(0, 1, nil); !errors.Is(err, cause) {
		t.Fatalf("err = %v, want abort cause", err)
	}
	if _, err := ctx.ReduceActive(1, 1, 0); !errors.Is(err, cause) {
		t.Fatalf("err = %v, want abort cause", err)
	}
}

// Snapshot.Rand must round-trip untouched through the mailbox.
func TestSnapshotCarriesFullWidth(t *testing.T) {
	var wide uint256.Int
	wide.SetAllOne()
	s := Snapshot{Vertex: 1, Rand: wide}
	if s.Rand.Cmp(&wide) != 0 {
		t.Fatal("snapshot must carry the 256-bit value by value")
	}
}
