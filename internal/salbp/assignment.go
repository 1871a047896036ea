package salbp

import "math/rand"

// ValidateAssignment checks the calling contract of an assignment: exactly n
// entries, each a non-negative station index below maxStations (when maxStations > 0).
func ValidateAssignment(a []int, n, maxStations int) error {
	if len(a) != n {
		return evalErr("assignment length must be %d (got %d)", n, len(a))
	}
	for i, st := range a {
		if st < 0 {
			return evalErr("assignment[%d]=%d: station index must be >= 0", i, st)
		}
		if maxStations > 0 && st >= maxStations {
			return evalErr("assignment[%d]=%d out of range [0,%d)", i, st, maxStations)
		}
	}
	return nil
}

func DistinctStations(a []int) int {
	seen := make(map[int]struct{}, len(a))
	for _, st := range a {
		seen[st] = struct{}{}
	}
	return len(seen)
}

// RandomAssignment draws every station uniformly from [0, stations); stations <= 0 means n.
// The result is usually infeasible and is meant as a search starting point.
func RandomAssignment(inst *Instance, stations int, rng *rand.Rand) []int {
	if rng == nil {
		panic("salbp: nil rng")
	}
	n := inst.TaskCount()
	if stations <= 0 {
		stations = n
	}
	a := make([]int, n)
	for i := range a {
		a[i] = rng.Intn(stations)
	}
	return a
}
