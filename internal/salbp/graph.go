package salbp

import (
	"container/heap"
	"fmt"
	"strings"
)

// Graph is the precedence relation of an instance as adjacency lists over
// assignment positions.
type Graph struct {
	inst *Instance
	adj  [][]int
	rev  [][]int
}

// NewGraph builds the precedence graph of inst. Edges naming undeclared tasks are not part of it.
func NewGraph(inst *Instance) *Graph {
	n := inst.TaskCount()
	g := &Graph{
		inst: inst,
		adj:  make([][]int, n),
		rev:  make([][]int, n),
	}
	for _, a := range inst.arcs {
		g.adj[a.pred] = append(g.adj[a.pred], a.succ)
		g.rev[a.succ] = append(g.rev[a.succ], a.pred)
	}
	return g
}

func (g *Graph) Successors(id int) []int { return g.ids(g.adj, id) }

func (g *Graph) Predecessors(id int) []int { return g.ids(g.rev, id) }

func (g *Graph) ids(lists [][]int, id int) []int {
	p, ok := g.inst.Position(id)
	if !ok {
		return nil
	}
	out := make([]int, len(lists[p]))
	for i, q := range lists[p] {
		out[i] = g.inst.tasks[q].ID
	}
	return out
}

// DetectCycle returns a cycle as task ids, first id repeated last, or nil if
// the graph is acyclic. Depth-first search with white/gray/black colouring,
// started from positions in ascending id order.
func (g *Graph) DetectCycle() []int {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	n := len(g.adj)
	color := make([]uint8, n)
	parent := make([]int, n)

	// Iterative to keep deep chains off the goroutine stack.
	type frame struct{ node, next int }
	for root := 0; root < n; root++ {
		if color[root] != white {
			continue
		}
		stack := []frame{{node: root}}
		color[root] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(g.adj[top.node]) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			next := g.adj[top.node][top.next]
			top.next++
			switch color[next] {
			case gray:
				return g.cyclePath(parent, top.node, next)
			case white:
				parent[next] = top.node
				color[next] = gray
				stack = append(stack, frame{node: next})
			}
		}
	}
	return nil
}

// cyclePath walks parent links from tail back to head (the gray node the back edge hits).
func (g *Graph) cyclePath(parent []int, tail, head int) []int {
	rev := []int{head, tail}
	for cur := tail; cur != head; {
		cur = parent[cur]
		rev = append(rev, cur)
	}
	out := make([]int, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = g.inst.tasks[p].ID
	}
	return out
}

// TopologicalOrder returns task ids in an order compatible with precedence,
// using Kahn's algorithm; among available tasks the smallest id comes first.
func (g *Graph) TopologicalOrder() ([]int, error) {
	n := len(g.adj)
	inDegree := make([]int, n)
	for p := range g.adj {
		for _, s := range g.adj[p] {
			inDegree[s]++
		}
	}

	ready := &intHeap{}
	for p := 0; p < n; p++ {
		if inDegree[p] == 0 {
			heap.Push(ready, p)
		}
	}

	order := make([]int, 0, n)
	for ready.Len() > 0 {
		p := heap.Pop(ready).(int)
		order = append(order, g.inst.tasks[p].ID)
		for _, s := range g.adj[p] {
			inDegree[s]--
			if inDegree[s] == 0 {
				heap.Push(ready, s)
			}
		}
	}

	if len(order) != n {
		return nil, cycleError(g.DetectCycle())
	}
	return order, nil
}

// Validate certifies that every precedence edge names declared tasks and that
// the precedence relation is acyclic. It never modifies inst and may be called
// any number of times.
func Validate(inst *Instance) (*Instance, error) {
	if inst == nil {
		return nil, invalid(CodeEmptyInstance, "instance is nil")
	}
	for _, e := range inst.edges {
		for _, id := range [2]int{e.Pred, e.Succ} {
			if _, ok := inst.Position(id); !ok {
				return nil, invalid(CodeUnknownTask, "edge %s references undeclared task %d", e, id)
			}
		}
	}
	if cycle := NewGraph(inst).DetectCycle(); cycle != nil {
		return nil, cycleError(cycle)
	}
	return inst, nil
}

func cycleError(cycle []int) *InvalidInstanceError {
	parts := make([]string, len(cycle))
	for i, id := range cycle {
		parts[i] = fmt.Sprint(id)
	}
	e := invalid(CodeCycle, "precedence cycle %s", strings.Join(parts, " -> "))
	e.Cycle = cycle
	return e
}

// intHeap orders positions; positions follow ascending task id.
type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}
