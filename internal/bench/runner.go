package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lineBalancing/internal/problem"
	"lineBalancing/internal/salbp"
)

type Record struct {
	RunID     string `json:"run_id"`
	Problem   string `json:"problem"`
	Instance  string `json:"instance"`
	Tasks     int    `json:"tasks"`
	CycleTime int    `json:"cycle_time"`
	// LowerBound = ceil(sum of times / cycle time).
	LowerBound int `json:"lower_bound"`
	Samples    int `json:"samples"`
	Workers    int `json:"workers"`

	Feasible     int     `json:"feasible"`
	BestFeasible int     `json:"best_feasible"` // 0 when no sample was feasible
	StationsMean float64 `json:"stations_mean"`

	ObjectiveBest float64 `json:"objective_best"`
	ObjectiveMean float64 `json:"objective_mean"`
	ObjectiveStd  float64 `json:"objective_std"`

	EvalMeanUs float64 `json:"eval_mean_us"`
	EvalStdUs  float64 `json:"eval_std_us"`
	WallMs     float64 `json:"wall_ms"`
}

// Runner evaluates random candidates against one shared instance in parallel.
type Runner struct {
	Samples int
	Workers int // 0 = GOMAXPROCS
	Seed    int64
	// Stations bounds the random station indices; 0 = task count.
	Stations int
}

type sample struct {
	objective float64
	feasible  bool
	stations  int
	us        float64
}

func (r Runner) Run(ctx context.Context, p problem.Problem, inst *salbp.Instance, name string) (Record, error) {
	if r.Samples <= 0 {
		return Record{}, fmt.Errorf("samples must be > 0 (got %d)", r.Samples)
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	samples := make([]sample, r.Samples)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < r.Samples; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i // per-iteration copy (go.mod targets go1.21 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cand := salbp.RandomAssignment(inst, r.Stations, sampleRand(r.Seed, i))
			t0 := time.Now()
			res, err := p.Evaluate(inst, cand)
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
			samples[i] = sample{
				objective: res.Objective,
				feasible:  res.Feasible,
				stations:  res.StationsUsed,
				us:        float64(time.Since(t0).Nanoseconds()) / 1000.0,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return Record{}, fmt.Errorf("cancelled: %w", err)
	}
	wall := time.Since(start)

	objectives := make([]float64, len(samples))
	times := make([]float64, len(samples))
	stations := make([]int, len(samples))
	feasible := 0
	bestFeasible := math.MaxInt
	for i, s := range samples {
		objectives[i] = s.objective
		times[i] = s.us
		stations[i] = s.stations
		if s.feasible {
			feasible++
			if s.stations < bestFeasible {
				bestFeasible = s.stations
			}
		}
	}
	if feasible == 0 {
		bestFeasible = 0
	}

	oStats := Calc(objectives)
	tStats := Calc(times)

	return Record{
		RunID:      uuid.NewString(),
		Problem:    p.Name(),
		Instance:   name,
		Tasks:      inst.TaskCount(),
		CycleTime:  inst.CycleTime(),
		LowerBound: inst.LowerBound(),
		Samples:    r.Samples,
		Workers:    workers,

		Feasible:     feasible,
		BestFeasible: bestFeasible,
		StationsMean: Calc(stations).Mean,

		ObjectiveBest: oStats.Best,
		ObjectiveMean: oStats.Mean,
		ObjectiveStd:  oStats.Std,

		EvalMeanUs: tStats.Mean,
		EvalStdUs:  tStats.Std,
		WallMs:     float64(wall.Microseconds()) / 1000.0,
	}, nil
}

func WriteCSV(path string, records []Record) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{
		"run_id", "problem", "instance", "tasks", "cycle_time", "lower_bound",
		"samples", "workers", "feasible", "best_feasible", "stations_mean",
		"objective_best", "objective_mean", "objective_std",
		"eval_mean_us", "eval_std_us", "wall_ms",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.RunID,
			r.Problem,
			r.Instance,
			itoa(r.Tasks),
			itoa(r.CycleTime),
			itoa(r.LowerBound),

			itoa(r.Samples),
			itoa(r.Workers),
			itoa(r.Feasible),
			itoa(r.BestFeasible),
			ftoa(r.StationsMean),

			ftoa(r.ObjectiveBest),
			ftoa(r.ObjectiveMean),
			ftoa(r.ObjectiveStd),

			ftoa(r.EvalMeanUs),
			ftoa(r.EvalStdUs),
			ftoa(r.WallMs),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
