package salbp

import "fmt"

type Task struct {
	ID   int
	Time int
}

// Edge requires that Pred is not assigned to a later station than Succ.
type Edge struct {
	Pred int
	Succ int
}

func (e Edge) String() string {
	return fmt.Sprintf("%d->%d", e.Pred, e.Succ)
}
