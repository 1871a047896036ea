package salbp

import (
	"fmt"
	"math"
)

// DefaultPenaltyFactor is the global constant added per unit of violation.
// It must be at least the task count so that any infeasible assignment scores
// above any feasible one (a feasible score never exceeds n).
const DefaultPenaltyFactor = 1e9

// Penalty turns a feasibility report into a scalar:
//
//	objective = stations                                        if feasible
//	objective = stations + Factor*(OverflowWeight*overflow
//	                               + PrecedenceWeight*violated) otherwise
//
// overflow is the summed excess load over all stations and violated the number
// of violated precedence edges. Both weights are positive, so more overflow or
// more violated edges never lowers the score.
type Penalty struct {
	Factor           float64 `yaml:"factor" toml:"factor"`
	OverflowWeight   float64 `yaml:"overflow_weight" toml:"overflow_weight"`
	PrecedenceWeight float64 `yaml:"precedence_weight" toml:"precedence_weight"`
}

func DefaultPenalty() Penalty {
	return Penalty{
		Factor:           DefaultPenaltyFactor,
		OverflowWeight:   1,
		PrecedenceWeight: 1,
	}
}

// Validate checks the penalty on its own, without an instance.
func (p Penalty) Validate() error {
	if !(p.Factor > 0) || math.IsInf(p.Factor, 0) {
		return fmt.Errorf("penalty factor must be a positive finite number (got %g)", p.Factor)
	}
	if !(p.OverflowWeight > 0) || math.IsInf(p.OverflowWeight, 0) {
		return fmt.Errorf("overflow weight must be a positive finite number (got %g)", p.OverflowWeight)
	}
	if !(p.PrecedenceWeight > 0) || math.IsInf(p.PrecedenceWeight, 0) {
		return fmt.Errorf("precedence weight must be a positive finite number (got %g)", p.PrecedenceWeight)
	}
	return nil
}

// Separates reports whether every infeasible score exceeds every feasible one
// on instances with n tasks. The smallest infeasible score is
// 1 + Factor*min(weights), the largest feasible one is n.
func (p Penalty) Separates(n int) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Factor*math.Min(p.OverflowWeight, p.PrecedenceWeight) < float64(n) {
		return fmt.Errorf("%w: factor*min(weights)=%g < task count %d",
			ErrPenaltyTooSmall, p.Factor*math.Min(p.OverflowWeight, p.PrecedenceWeight), n)
	}
	return nil
}

// Magnitude is the weighted violation of a report; zero iff the report is feasible.
func (p Penalty) Magnitude(r Report) float64 {
	return p.OverflowWeight*float64(r.TotalOverflow()) + p.PrecedenceWeight*float64(len(r.Violated))
}

type Result struct {
	Objective     float64
	Feasible      bool
	StationsUsed  int
	Overflow      []Overflow
	ViolatedEdges []Edge
	// Stations carries the per-station loads of the report, sorted by index.
	Stations []StationLoad
}

// Score computes the objective of an assignment from its report.
func (p Penalty) Score(assignment []int, r Report) Result {
	used := len(r.Stations)
	if r.Stations == nil {
		used = DistinctStations(assignment)
	}
	res := Result{
		Objective:     float64(used),
		Feasible:      r.Feasible,
		StationsUsed:  used,
		Overflow:      r.Overflow,
		ViolatedEdges: r.Violated,
		Stations:      r.Stations,
	}
	if !r.Feasible {
		res.Objective += p.Factor * p.Magnitude(r)
	}
	return res
}

func Score(_ *Instance, assignment []int, r Report) Result {
	return DefaultPenalty().Score(assignment, r)
}
