package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"lineBalancing/internal/problem"
	"lineBalancing/internal/salbp"
)

// Config — общая конфигурация утилиты salbp.
type Config struct {
	Problem  string        `yaml:"problem" toml:"problem"`
	LogLevel string        `yaml:"log_level" toml:"log_level"`
	Penalty  salbp.Penalty `yaml:"penalty" toml:"penalty"`
	Bench    Bench         `yaml:"bench" toml:"bench"`
}

// Bench — параметры замера производительности функции оценки.
type Bench struct {
	Samples int   `yaml:"samples" toml:"samples"`
	Workers int   `yaml:"workers" toml:"workers"`
	Seed    int64 `yaml:"seed" toml:"seed"`
	// Stations — диапазон номеров станций для случайных решений (0 => количество задач).
	Stations int    `yaml:"stations" toml:"stations"`
	Out      string `yaml:"out" toml:"out"`
}

func Default() Config {
	return Config{
		Problem:  problem.SALBP1,
		LogLevel: "info",
		Penalty:  salbp.DefaultPenalty(),
		Bench: Bench{
			Samples:  10000,
			Workers:  0,
			Seed:     1000,
			Stations: 0,
			Out:      "artifacts/bench.csv",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Problem) == "" {
		return fmt.Errorf("не задан идентификатор задачи (problem)")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("неизвестный уровень логирования %q", c.LogLevel)
	}
	if err := c.Penalty.Validate(); err != nil {
		return fmt.Errorf("конфигурация штрафа: %w", err)
	}
	if c.Bench.Samples <= 0 {
		return fmt.Errorf(
			"количество случайных решений должно быть > 0 (получено %d)",
			c.Bench.Samples,
		)
	}
	if c.Bench.Workers < 0 {
		return fmt.Errorf(
			"количество воркеров должно быть >= 0 (получено %d)",
			c.Bench.Workers,
		)
	}
	if c.Bench.Stations < 0 {
		return fmt.Errorf(
			"диапазон станций должен быть >= 0 (получено %d)",
			c.Bench.Stations,
		)
	}
	return nil
}

// Load читает конфигурацию поверх значений по умолчанию.
// Формат определяется расширением: .toml — TOML, иначе YAML. Пустой путь — только значения по умолчанию.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(raw), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("decode toml config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode yaml config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
