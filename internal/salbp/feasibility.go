package salbp

import "sort"

type StationLoad struct {
	Station int
	Load    int
	Tasks   []int
}

type Overflow struct {
	Station int
	Load    int
	Amount  int
}

// Report is the outcome of checking one assignment against an instance.
type Report struct {
	Feasible bool
	// Stations is sorted by station index.
	Stations []StationLoad
	// Overflow is sorted by station index.
	Overflow []Overflow
	// Violated lists precedence edges in instance edge order.
	Violated []Edge
}

func (r Report) TotalOverflow() int {
	total := 0
	for _, o := range r.Overflow {
		total += o.Amount
	}
	return total
}

// Check groups tasks by station, records stations whose load exceeds the
// cycle time and edges whose predecessor sits on a later station than its
// successor. A malformed assignment yields an *EvaluationError.
func Check(inst *Instance, assignment []int) (Report, error) {
	if err := ValidateAssignment(assignment, inst.TaskCount(), 0); err != nil {
		return Report{}, err
	}
	return check(inst, assignment), nil
}

// check assumes a contract-valid assignment.
func check(inst *Instance, assignment []int) Report {
	slot := make(map[int]int)
	var stations []StationLoad
	for pos, st := range assignment {
		k, ok := slot[st]
		if !ok {
			k = len(stations)
			slot[st] = k
			stations = append(stations, StationLoad{Station: st})
		}
		t := inst.tasks[pos]
		stations[k].Load += t.Time
		stations[k].Tasks = append(stations[k].Tasks, t.ID)
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].Station < stations[j].Station })

	var r Report
	r.Stations = stations
	for _, s := range stations {
		if s.Load > inst.cycleTime {
			r.Overflow = append(r.Overflow, Overflow{Station: s.Station, Load: s.Load, Amount: s.Load - inst.cycleTime})
		}
	}

	for _, a := range inst.arcs {
		if assignment[a.pred] > assignment[a.succ] {
			r.Violated = append(r.Violated, a.edge)
		}
	}

	r.Feasible = len(r.Overflow) == 0 && len(r.Violated) == 0
	return r
}
