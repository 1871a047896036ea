package salbp

import (
	"sort"

	"go.uber.org/multierr"
)

// Instance is an immutable SALBP-1 instance.
//
// Tasks are kept in ascending id order; position i of an assignment refers to
// the task with the i-th smallest id. Task ids may be sparse.
type Instance struct {
	cycleTime int
	tasks     []Task
	index     map[int]int
	edges     []Edge
	// arcs holds edges over positions; edges with undeclared ids are left out.
	arcs      []arc
	totalTime int
}

// NewInstance builds an instance and checks its structural invariants.
// Every problem found is reported; precedence acyclicity is checked by Validate.
func NewInstance(cycleTime int, tasks []Task, edges []Edge) (*Instance, error) {
	var errs error
	if cycleTime <= 0 {
		errs = multierr.Append(errs, invalid(CodeNonPositiveCycle, "cycle time must be > 0 (got %d)", cycleTime))
	}
	if len(tasks) == 0 {
		errs = multierr.Append(errs, invalid(CodeEmptyInstance, "instance has no tasks"))
	}

	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	index := make(map[int]int, len(sorted))
	total := 0
	for i, t := range sorted {
		if t.ID <= 0 {
			errs = multierr.Append(errs, invalid(CodeInvalidTaskID, "task id must be > 0 (got %d)", t.ID))
		}
		if t.Time <= 0 {
			errs = multierr.Append(errs, invalid(CodeNonPositiveTime, "task %d: processing time must be > 0 (got %d)", t.ID, t.Time))
		}
		if _, dup := index[t.ID]; dup {
			errs = multierr.Append(errs, invalid(CodeDuplicateTask, "task %d declared more than once", t.ID))
			continue
		}
		index[t.ID] = i
		total += t.Time
	}
	if errs != nil {
		return nil, errs
	}

	inst := &Instance{
		cycleTime: cycleTime,
		tasks:     sorted,
		index:     index,
		totalTime: total,
	}

	seen := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		if seen[e] {
			continue
		}
		seen[e] = true
		inst.edges = append(inst.edges, e)

		p, okP := index[e.Pred]
		s, okS := index[e.Succ]
		if okP && okS {
			inst.arcs = append(inst.arcs, arc{pred: p, succ: s, edge: e})
		}
	}
	return inst, nil
}

type arc struct {
	pred, succ int
	edge       Edge
}

func (inst *Instance) TaskCount() int { return len(inst.tasks) }

func (inst *Instance) CycleTime() int { return inst.cycleTime }

func (inst *Instance) TotalTime() int { return inst.totalTime }

func (inst *Instance) Task(i int) Task { return inst.tasks[i] }

func (inst *Instance) Position(id int) (int, bool) {
	i, ok := inst.index[id]
	return i, ok
}

func (inst *Instance) Tasks() []Task {
	out := make([]Task, len(inst.tasks))
	copy(out, inst.tasks)
	return out
}

// Edges returns a copy of the deduplicated precedence edges in input order.
func (inst *Instance) Edges() []Edge {
	out := make([]Edge, len(inst.edges))
	copy(out, inst.edges)
	return out
}

// LowerBound returns ceil(TotalTime / C), the fewest stations any feasible assignment can use.
func (inst *Instance) LowerBound() int {
	return (inst.totalTime + inst.cycleTime - 1) / inst.cycleTime
}

func (inst *Instance) MaxTaskTime() int {
	m := 0
	for _, t := range inst.tasks {
		if t.Time > m {
			m = t.Time
		}
	}
	return m
}
