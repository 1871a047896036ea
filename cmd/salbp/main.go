package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lineBalancing/internal/config"
	"lineBalancing/internal/logging"
	"lineBalancing/internal/problem"
	"lineBalancing/internal/salbp"
)

var validFormats = []string{"text", "json"}

type rootOptions struct {
	configPath string
	problem    string
	logLevel   string
	format     string
}

// app — состояние, общее для всех подкоманд; заполняется один раз до запуска подкоманды.
type app struct {
	opts rootOptions
	cfg  config.Config
	log  *zap.Logger
	prob problem.Problem
}

func newRootCommand(registry *problem.Registry) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "salbp",
		Short:         "Модель задачи балансировки сборочной линии (SALBP-1)",
		Long:          "Загрузка и проверка экземпляров SALBP-1, оценка назначений задач по станциям и замер скорости оценки.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, registry)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.opts.configPath, "config", "", "путь к файлу конфигурации (YAML или TOML)")
	cmd.PersistentFlags().StringVar(&a.opts.problem, "problem", problem.SALBP1, fmt.Sprintf("идентификатор задачи: %v", registry.Names()))
	cmd.PersistentFlags().StringVar(&a.opts.logLevel, "log-level", "info", "уровень логирования: debug | info | warn | error")
	cmd.PersistentFlags().StringVar(&a.opts.format, "format", "text", "формат вывода: text | json")

	cmd.AddCommand(newValidateCommand(a))
	cmd.AddCommand(newEvalCommand(a))
	cmd.AddCommand(newBenchCommand(a))

	return cmd
}

func (a *app) init(cmd *cobra.Command, registry *problem.Registry) error {
	if !isValidFormat(a.opts.format) {
		return usageError(fmt.Errorf("неизвестный формат вывода %q, допустимые: %v", a.opts.format, validFormats))
	}

	cfg, err := config.Load(a.opts.configPath)
	if err != nil {
		return usageError(err)
	}
	flags := cmd.Flags()
	if flags.Changed("problem") || a.opts.configPath == "" {
		cfg.Problem = a.opts.problem
	}
	if flags.Changed("log-level") || a.opts.configPath == "" {
		cfg.LogLevel = a.opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return usageError(err)
	}

	prob, err := registry.New(cfg.Problem, cfg.Penalty, log)
	if err != nil {
		return usageError(err)
	}

	a.cfg = cfg
	a.log = log
	a.prob = prob
	log.Debug("configuration resolved",
		zap.String("problem", cfg.Problem),
		zap.Float64("penalty_factor", cfg.Penalty.Factor))
	return nil
}

func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}

// usageErr marks errors caused by flags, configuration or input files.
type usageErr struct{ err error }

func (e usageErr) Error() string { return e.err.Error() }
func (e usageErr) Unwrap() error { return e.err }

func usageError(err error) error { return usageErr{err: err} }

// exitCode: 2 — ошибка во входных данных или конфигурации, 1 — прочие ошибки.
func exitCode(err error) int {
	var ue usageErr
	if errors.As(err, &ue) || errors.Is(err, fs.ErrNotExist) ||
		salbp.IsParseError(err) || salbp.IsInvalidInstance(err) || salbp.IsEvaluationError(err) {
		return 2
	}
	return 1
}

func main() {
	if err := newRootCommand(problem.Default()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(exitCode(err))
	}
}
