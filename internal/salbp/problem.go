package salbp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// BoundedByTaskCount as Options.MaxStations limits station indices to [0, n).
const BoundedByTaskCount = -1

type Options struct {
	Penalty Penalty
	// MaxStations > 0 rejects station indices >= MaxStations as a contract
	// violation; BoundedByTaskCount uses n; 0 leaves indices unbounded.
	MaxStations int
}

func DefaultOptions() Options {
	return Options{Penalty: DefaultPenalty()}
}

// Problem is the entry point for search algorithms: load an instance once,
// then evaluate any number of candidates, from any number of goroutines.
type Problem struct {
	name string
	opts Options
	log  *zap.Logger
}

// New returns a Problem. A nil logger disables logging.
func New(name string, opts Options, logger *zap.Logger) (*Problem, error) {
	if err := opts.Penalty.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxStations < BoundedByTaskCount {
		return nil, fmt.Errorf("max stations must be >= %d (got %d)", BoundedByTaskCount, opts.MaxStations)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Problem{name: name, opts: opts, log: logger.With(zap.String("problem", name))}, nil
}

func (p *Problem) Name() string { return p.name }

func (p *Problem) Options() Options { return p.opts }

// Load reads an instance from source, which is a path when it names a regular
// file and instance text otherwise.
func (p *Problem) Load(source string) (*Instance, error) {
	if fi, err := os.Stat(source); err == nil && fi.Mode().IsRegular() {
		return p.LoadFile(source)
	}
	return p.load(strings.NewReader(source), "inline")
}

func (p *Problem) LoadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instance: %w", err)
	}
	defer f.Close()
	return p.load(f, path)
}

func (p *Problem) LoadReader(r io.Reader) (*Instance, error) {
	return p.load(r, "reader")
}

func (p *Problem) load(r io.Reader, origin string) (*Instance, error) {
	inst, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", origin, err)
	}
	if _, err := Validate(inst); err != nil {
		return nil, fmt.Errorf("load %s: %w", origin, err)
	}
	if err := p.opts.Penalty.Separates(inst.TaskCount()); err != nil {
		return nil, fmt.Errorf("load %s: %w", origin, err)
	}

	p.log.Info("instance loaded",
		zap.String("origin", origin),
		zap.Int("tasks", inst.TaskCount()),
		zap.Int("cycle_time", inst.CycleTime()),
		zap.Int("edges", len(inst.edges)),
		zap.Int("lower_bound", inst.LowerBound()))
	if m := inst.MaxTaskTime(); m > inst.CycleTime() {
		p.log.Warn("task longer than cycle time, no feasible assignment exists",
			zap.Int("max_task_time", m),
			zap.Int("cycle_time", inst.CycleTime()))
	}
	return inst, nil
}

// Evaluate checks an assignment and scores it. Infeasibility is part of the
// Result; contract violations (wrong length, negative or out-of-range
// station) return an *EvaluationError and a penalty too weak for inst wraps
// ErrPenaltyTooSmall.
func (p *Problem) Evaluate(inst *Instance, assignment []int) (Result, error) {
	if inst == nil {
		return Result{}, evalErr("nil instance")
	}
	if err := ValidateAssignment(assignment, inst.TaskCount(), p.maxStations(inst)); err != nil {
		return Result{}, err
	}
	// inst may come from ParseString+Validate or another Problem, so load never saw it.
	if err := p.opts.Penalty.Separates(inst.TaskCount()); err != nil {
		return Result{}, fmt.Errorf("evaluate: %w", err)
	}
	return p.opts.Penalty.Score(assignment, check(inst, assignment)), nil
}

func (p *Problem) TaskCount(inst *Instance) int { return inst.TaskCount() }

func (p *Problem) CycleTime(inst *Instance) int { return inst.CycleTime() }

func (p *Problem) maxStations(inst *Instance) int {
	if p.opts.MaxStations == BoundedByTaskCount {
		return inst.TaskCount()
	}
	return p.opts.MaxStations
}
