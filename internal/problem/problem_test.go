package problem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lineBalancing/internal/salbp"
)

const five = `<number of tasks> 5 <cycle time> 10 <order strength> 30,000
<task times> 1 4 2 3 3 5 4 2 5 6
<precedence relations> 1,3 2,3 3,5 <end>`

func TestDefault_Names(t *testing.T) {
	assert.Equal(t, []string{SALBP1, SALBP1Bounded}, Default().Names())
}

func TestDefault_Variants(t *testing.T) {
	r := Default()

	unbounded, err := r.New(SALBP1, salbp.DefaultPenalty(), zap.NewNop())
	require.NoError(t, err)
	bounded, err := r.New(SALBP1Bounded, salbp.DefaultPenalty(), nil)
	require.NoError(t, err)
	assert.Equal(t, SALBP1, unbounded.Name())
	assert.Equal(t, SALBP1Bounded, bounded.Name())

	inst, err := unbounded.Load(five)
	require.NoError(t, err)

	wide := []int{0, 0, 1, 0, 9}
	res, err := unbounded.Evaluate(inst, wide)
	require.NoError(t, err)
	assert.True(t, res.Feasible)
	assert.Equal(t, 3.0, res.Objective)

	_, err = bounded.Evaluate(inst, wide)
	assert.True(t, salbp.IsEvaluationError(err))
}

func TestDefault_LoadFile(t *testing.T) {
	p, err := Default().New(SALBP1, salbp.DefaultPenalty(), nil)
	require.NoError(t, err)

	inst, err := p.LoadFile(filepath.Join("..", "..", "testdata", "instances", "five.alb"))
	require.NoError(t, err)
	assert.Equal(t, 5, inst.TaskCount())

	// A path never falls back to being read as instance text.
	_, err = p.LoadFile("no/such/instance.alb")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, salbp.IsParseError(err))
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := Default().New("salbp-2", salbp.DefaultPenalty(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown problem "salbp-2"`)
	assert.Contains(t, err.Error(), SALBP1Bounded)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	f := func(p salbp.Penalty, l *zap.Logger) (Problem, error) {
		return salbp.New("custom", salbp.Options{Penalty: p}, l)
	}

	require.NoError(t, r.Register("custom", f))
	assert.Error(t, r.Register("custom", f))
	assert.Error(t, r.Register("  ", f))
	assert.Error(t, r.Register("nil", nil))
	assert.Equal(t, []string{"custom"}, r.Names())
}

func TestRegistry_FactoryError(t *testing.T) {
	p, err := Default().New(SALBP1, salbp.Penalty{}, nil)
	require.Error(t, err)
	// Must be a true nil, not a typed nil wrapped in the interface.
	assert.Nil(t, p)
	assert.True(t, p == nil)
}
