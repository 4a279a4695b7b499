package mis

import (
	set "github.com/deckarep/golang-set"
)

// Status is the lifecycle state of a vertex. Transitions are monotonic:
// a vertex leaves Active exactly once and never returns.
type Status byte

const (
	Active Status = iota
	Selected
	Excluded
)

func (s Status) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case Selected:
		return "SELECTED"
	case Excluded:
		return "EXCLUDED"
	default:
		return "UNKNOWN"
	}
}

// StatusTable holds the statuses of one partition's local vertices.
// Each partition exclusively owns its table; peers only ever see
// snapshots of it taken at round boundaries.
type StatusTable struct {
	locals []uint // local ids, sorted ascending
	status map[uint]Status
	active int
}

func NewStatusTable(locals []uint) *StatusTable {
	table := &StatusTable{
		locals: locals,
		status: make(map[uint]Status, len(locals)),
		active: len(locals),
	}
	for _, id := range locals {
		table.status[id] = Active
	}
	return table
}

func (t *StatusTable) Get(v uint) Status {
	return t.status[v]
}

// Select marks v SELECTED. A no-op unless v is still ACTIVE, so
// concurrent-round bookkeeping never needs a terminal-state check.
func (t *StatusTable) Select(v uint) {
	if t.status[v] == Active {
		t.status[v] = Selected
		t.active--
	}
}

// Exclude marks v EXCLUDED. Idempotent the same way Select is; several
// neighbors excluding the same vertex is expected, not an error.
func (t *StatusTable) Exclude(v uint) {
	if t.status[v] == Active {
		t.status[v] = Excluded
		t.active--
	}
}

func (t *StatusTable) ActiveCount() int {
	return t.active
}

// ActiveVertices returns the still-active local ids, sorted ascending
func (t *StatusTable) ActiveVertices() []uint {
	active := make([]uint, 0, t.active)
	for _, id := range t.locals {
		if t.status[id] == Active {
			active = append(active, id)
		}
	}
	return active
}

// SelectedList materializes the final answer for this partition,
// sorted by local vertex id
func (t *StatusTable) SelectedList() []uint {
	selected := make([]uint, 0)
	for _, id := range t.locals {
		if t.status[id] == Selected {
			selected = append(selected, id)
		}
	}
	return selected
}

// SelectedSet materializes the selected local vertices as a set
func (t *StatusTable) SelectedSet() set.Set {
	selected := set.NewSet()
	for _, id := range t.locals {
		if t.status[id] == Selected {
			selected.Add(id)
		}
	}
	return selected
}
