package problem

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"lineBalancing/internal/salbp"
)

// Problem is the contract an external search algorithm depends on.
type Problem interface {
	Name() string
	Load(source string) (*salbp.Instance, error)
	LoadFile(path string) (*salbp.Instance, error)
	Evaluate(inst *salbp.Instance, assignment []int) (salbp.Result, error)
}

// Factory builds a Problem from the configured penalty.
type Factory func(penalty salbp.Penalty, logger *zap.Logger) (Problem, error)

const (
	SALBP1        = "salbp-1"
	SALBP1Bounded = "salbp-1-bounded"
)

// Registry maps problem identifiers to factories. Identifiers are resolved
// once at start-up; nothing is looked up per evaluation.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Names are unique.
func (r *Registry) Register(name string, f Factory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("problem name must not be empty")
	}
	if f == nil {
		return fmt.Errorf("problem %q: nil factory", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("problem %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Resolve returns the factory registered under name.
func (r *Registry) Resolve(name string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown problem %q; available: %v", name, r.Names())
	}
	return f, nil
}

// Names lists registered identifiers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New resolves name and builds the problem in one step.
func (r *Registry) New(name string, penalty salbp.Penalty, logger *zap.Logger) (Problem, error) {
	f, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return f(penalty, logger)
}

// Default returns a registry holding the SALBP-1 variants:
//
//	salbp-1          station indices are any non-negative integers
//	salbp-1-bounded  station indices must lie in [0, n)
func Default() *Registry {
	r := NewRegistry()
	mustRegister(r, SALBP1, salbpFactory(SALBP1, 0))
	mustRegister(r, SALBP1Bounded, salbpFactory(SALBP1Bounded, salbp.BoundedByTaskCount))
	return r
}

func salbpFactory(name string, maxStations int) Factory {
	return func(penalty salbp.Penalty, logger *zap.Logger) (Problem, error) {
		p, err := salbp.New(name, salbp.Options{Penalty: penalty, MaxStations: maxStations}, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

func mustRegister(r *Registry, name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}
