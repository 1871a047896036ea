package salbp

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newProblem(t *testing.T, opts Options) *Problem {
	t.Helper()
	p, err := New("salbp-1", opts, nil)
	require.NoError(t, err)
	return p
}

func TestProblem_LoadPathAndText(t *testing.T) {
	p := newProblem(t, DefaultOptions())

	fromFile, err := p.Load(instancePath("five.alb"))
	require.NoError(t, err)
	fromText, err := p.Load(fiveText)
	require.NoError(t, err)
	fromReader, err := p.LoadReader(strings.NewReader(fiveText))
	require.NoError(t, err)

	assert.Equal(t, fromFile.Tasks(), fromText.Tasks())
	assert.Equal(t, fromFile.Edges(), fromReader.Edges())
	assert.Equal(t, 5, p.TaskCount(fromFile))
	assert.Equal(t, 10, p.CycleTime(fromFile))
}

func TestProblem_LoadErrors(t *testing.T) {
	p := newProblem(t, DefaultOptions())

	_, err := p.Load(instancePath("cyclic.alb"))
	var ie *InvalidInstanceError
	require.True(t, errors.As(err, &ie), "got %v", err)
	assert.Equal(t, CodeCycle, ie.Code)
	assert.Equal(t, []int{1, 2, 3, 1}, ie.Cycle)

	_, err = p.Load("<number of tasks> x")
	assert.True(t, IsParseError(err))

	_, err = p.LoadFile(instancePath("missing.alb"))
	require.Error(t, err)
	assert.False(t, IsParseError(err))
}

func TestProblem_LoadRejectsWeakPenalty(t *testing.T) {
	p := newProblem(t, Options{Penalty: Penalty{Factor: 2, OverflowWeight: 1, PrecedenceWeight: 1}})

	_, err := p.Load(fiveText)
	assert.ErrorIs(t, err, ErrPenaltyTooSmall)
}

func TestProblem_Evaluate(t *testing.T) {
	p := newProblem(t, DefaultOptions())
	inst, err := p.Load(fiveText)
	require.NoError(t, err)

	res, err := p.Evaluate(inst, []int{0, 0, 1, 0, 2})
	require.NoError(t, err)
	assert.True(t, res.Feasible)
	assert.Equal(t, 3.0, res.Objective)

	res, err = p.Evaluate(inst, []int{1, 1, 0, 1, 0})
	require.NoError(t, err)
	assert.False(t, res.Feasible)
	assert.Equal(t, []Overflow{{Station: 0, Load: 11, Amount: 1}}, res.Overflow)

	_, err = p.Evaluate(inst, []int{0, 0, 1, 0})
	var ee *EvaluationError
	require.True(t, errors.As(err, &ee))
	assert.Contains(t, ee.Error(), "length must be 5")

	_, err = p.Evaluate(nil, []int{0})
	assert.True(t, IsEvaluationError(err))
}

// Instances certified outside Load still get the separation check.
func TestProblem_EvaluateRejectsWeakPenalty(t *testing.T) {
	p := newProblem(t, Options{Penalty: Penalty{Factor: 1, OverflowWeight: 1, PrecedenceWeight: 1}})
	inst, err := Validate(mustParse(t, fiveText))
	require.NoError(t, err)

	for _, a := range [][]int{{0, 1, 2, 3, 4}, {0, 0, 2, 1, 1}} {
		_, err := p.Evaluate(inst, a)
		assert.ErrorIs(t, err, ErrPenaltyTooSmall, "%v", a)
	}

	strong := newProblem(t, DefaultOptions())
	feasible, err := strong.Evaluate(inst, []int{0, 1, 2, 3, 4})
	require.NoError(t, err)
	infeasible, err := strong.Evaluate(inst, []int{0, 0, 2, 1, 1})
	require.NoError(t, err)
	require.True(t, feasible.Feasible)
	require.False(t, infeasible.Feasible)
	assert.Greater(t, infeasible.Objective, feasible.Objective)
}

func TestProblem_EvaluateBounded(t *testing.T) {
	bounded := newProblem(t, Options{Penalty: DefaultPenalty(), MaxStations: BoundedByTaskCount})
	unbounded := newProblem(t, DefaultOptions())
	inst := mustParse(t, fiveText)

	a := []int{0, 0, 1, 0, 5}
	_, err := bounded.Evaluate(inst, a)
	assert.True(t, IsEvaluationError(err))

	res, err := unbounded.Evaluate(inst, a)
	require.NoError(t, err)
	assert.True(t, res.Feasible)

	res, err = bounded.Evaluate(inst, []int{0, 0, 1, 0, 4})
	require.NoError(t, err)
	assert.True(t, res.Feasible)
}

func TestProblem_EvaluateDoesNotMutate(t *testing.T) {
	p := newProblem(t, DefaultOptions())
	inst := mustParse(t, fiveText)
	tasks, edges := inst.Tasks(), inst.Edges()

	a := []int{1, 1, 0, 1, 0}
	first, err := p.Evaluate(inst, a)
	require.NoError(t, err)
	second, err := p.Evaluate(inst, a)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []int{1, 1, 0, 1, 0}, a)
	assert.Equal(t, tasks, inst.Tasks())
	assert.Equal(t, edges, inst.Edges())
}

func TestProblem_EvaluateConcurrent(t *testing.T) {
	p := newProblem(t, DefaultOptions())
	inst := jackson(t)

	const workers = 8
	const perWorker = 500

	// Sequential reference values, then the same candidates from many goroutines.
	cands := make([][]int, workers*perWorker)
	want := make([]float64, len(cands))
	rng := rand.New(rand.NewSource(42))
	for i := range cands {
		cands[i] = RandomAssignment(inst, 4, rng)
		res, err := p.Evaluate(inst, cands[i])
		require.NoError(t, err)
		want[i] = res.Objective
	}

	got := make([]float64, len(cands))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w * perWorker; i < (w+1)*perWorker; i++ {
				res, err := p.Evaluate(inst, cands[i])
				if err != nil {
					return
				}
				got[i] = res.Objective
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, want, got)
}

func TestProblem_LogsLoad(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p, err := New("salbp-1", DefaultOptions(), zap.New(core))
	require.NoError(t, err)

	_, err = p.Load("<number of tasks> 2 <cycle time> 5 <order strength> 0 <task times> 1 7 2 1 <precedence relations>")
	require.NoError(t, err)

	require.Equal(t, 1, logs.FilterMessage("instance loaded").Len())
	warn := logs.FilterMessage("task longer than cycle time, no feasible assignment exists").All()
	require.Len(t, warn, 1)
	assert.Equal(t, int64(7), warn[0].ContextMap()["max_task_time"])
	assert.Equal(t, "salbp-1", warn[0].ContextMap()["problem"])
}

func TestNew_RejectsBadOptions(t *testing.T) {
	_, err := New("x", Options{Penalty: Penalty{}}, nil)
	assert.Error(t, err)

	_, err = New("x", Options{Penalty: DefaultPenalty(), MaxStations: -2}, nil)
	assert.Error(t, err)

	_, err = New("x", Options{Penalty: Penalty{Factor: 1e9, OverflowWeight: math.Inf(1), PrecedenceWeight: 1}}, nil)
	assert.Error(t, err)
}

func TestRandomAssignment(t *testing.T) {
	inst := jackson(t)
	rng := rand.New(rand.NewSource(1))

	a := RandomAssignment(inst, 3, rng)
	require.Len(t, a, inst.TaskCount())
	for _, st := range a {
		assert.GreaterOrEqual(t, st, 0)
		assert.Less(t, st, 3)
	}

	same := RandomAssignment(inst, 3, rand.New(rand.NewSource(1)))
	assert.Equal(t, a, same)

	assert.Panics(t, func() { RandomAssignment(inst, 3, nil) })
}
