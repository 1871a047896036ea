package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineBalancing/internal/problem"
	"lineBalancing/internal/salbp"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Empty(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "salbp.yaml", `
problem: salbp-1-bounded
log_level: debug
penalty:
  factor: 1000000
  overflow_weight: 2
bench:
  samples: 50
  seed: 7
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, problem.SALBP1Bounded, cfg.Problem)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, salbp.Penalty{Factor: 1e6, OverflowWeight: 2, PrecedenceWeight: 1}, cfg.Penalty)
	assert.Equal(t, 50, cfg.Bench.Samples)
	assert.Equal(t, int64(7), cfg.Bench.Seed)
	// Keys not present keep their defaults.
	assert.Equal(t, "artifacts/bench.csv", cfg.Bench.Out)
}

func TestLoad_EmptyYAMLFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "salbp.toml", `
problem = "salbp-1"
log_level = "warn"

[penalty]
precedence_weight = 3.5

[bench]
workers = 4
stations = 6
out = "out/run.csv"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3.5, cfg.Penalty.PrecedenceWeight)
	assert.Equal(t, salbp.DefaultPenaltyFactor, cfg.Penalty.Factor)
	assert.Equal(t, 4, cfg.Bench.Workers)
	assert.Equal(t, 6, cfg.Bench.Stations)
	assert.Equal(t, "out/run.csv", cfg.Bench.Out)
	assert.Equal(t, 10000, cfg.Bench.Samples)
}

func TestLoad_UnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "problem: salbp-1\nbogus: 1\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.toml", "problem = \"salbp-1\"\nbogus = 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"log level", "log_level: loud\n"},
		{"zero factor", "penalty:\n  factor: 0\n"},
		{"negative weight", "penalty:\n  overflow_weight: -1\n"},
		{"infinite weight", "penalty:\n  overflow_weight: .inf\n"},
		{"no samples", "bench:\n  samples: 0\n"},
		{"negative workers", "bench:\n  workers: -2\n"},
		{"negative stations", "bench:\n  stations: -1\n"},
		{"empty problem", "problem: \"\"\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
