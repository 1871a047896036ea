package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lineBalancing/internal/bench"
)

type benchOptions struct {
	samples  int
	workers  int
	seed     int64
	stations int
	out      string
}

func newBenchCommand(a *app) *cobra.Command {
	o := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench <instance>...",
		Short: "Замер скорости функции оценки на случайных назначениях",
		Long: `Для каждого экземпляра генерирует случайные назначения (как стартовые точки поиска),
оценивает их параллельно и сохраняет сводную статистику в CSV.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(a, o, cmd, args)
		},
	}

	cmd.Flags().IntVar(&o.samples, "samples", 0, "количество случайных назначений на экземпляр (0 — из конфигурации)")
	cmd.Flags().IntVar(&o.workers, "workers", -1, "количество воркеров (0 — GOMAXPROCS, -1 — из конфигурации)")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "базовый сид генератора назначений (0 — из конфигурации)")
	cmd.Flags().IntVar(&o.stations, "stations", -1, "диапазон номеров станций (0 — количество задач, -1 — из конфигурации)")
	cmd.Flags().StringVar(&o.out, "out", "", "путь к выходному CSV-файлу (пусто — из конфигурации)")
	return cmd
}

func (o *benchOptions) runner(a *app) bench.Runner {
	r := bench.Runner{
		Samples:  a.cfg.Bench.Samples,
		Workers:  a.cfg.Bench.Workers,
		Seed:     a.cfg.Bench.Seed,
		Stations: a.cfg.Bench.Stations,
	}
	if o.samples > 0 {
		r.Samples = o.samples
	}
	if o.workers >= 0 {
		r.Workers = o.workers
	}
	if o.seed != 0 {
		r.Seed = o.seed
	}
	if o.stations >= 0 {
		r.Stations = o.stations
	}
	return r
}

func runBench(a *app, o *benchOptions, cmd *cobra.Command, paths []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := o.runner(a)
	out := o.out
	if out == "" {
		out = a.cfg.Bench.Out
	}

	w := cmd.OutOrStdout()
	records := make([]bench.Record, 0, len(paths))
	for _, path := range paths {
		inst, err := a.prob.LoadFile(path)
		if err != nil {
			return err
		}
		name := filepath.Base(path)
		if a.opts.format == "text" {
			fmt.Fprintf(w, "Экземпляр %s: %d задач, время такта %d, случайных назначений %d...\n",
				name, inst.TaskCount(), inst.CycleTime(), runner.Samples)
		}

		rec, err := runner.Run(ctx, a.prob, inst, name)
		if err != nil {
			return fmt.Errorf("bench %s: %w", name, err)
		}
		records = append(records, rec)
		a.log.Info("bench finished",
			zap.String("run_id", rec.RunID),
			zap.String("instance", name),
			zap.Int("feasible", rec.Feasible),
			zap.Float64("eval_mean_us", rec.EvalMeanUs))

		if a.opts.format == "text" {
			fmt.Fprintf(w, "  Допустимых: %d из %d (лучшее число станций=%d, нижняя оценка=%d) | Оценка: среднее=%.2fмкс отклонение=%.2fмкс | Всего=%.2fms\n",
				rec.Feasible, rec.Samples, rec.BestFeasible, rec.LowerBound,
				rec.EvalMeanUs, rec.EvalStdUs, rec.WallMs)
		}
	}

	if err := bench.WriteCSV(out, records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if a.opts.format == "json" {
		return writeJSON(w, records)
	}
	fmt.Fprintln(w, "Сохранено:", out)
	return nil
}
