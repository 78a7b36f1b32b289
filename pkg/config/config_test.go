package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 3, cfg.Scheduler.Candidates)
	assert.Equal(t, 100, cfg.Scheduler.AttemptBudget)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Timeout)
	assert.Equal(t, "json", cfg.Scheduler.ExportFormat)
	assert.Nil(t, cfg.Scheduler.Seed)
}

func TestLoadFlagsOverrideEnvOnlyWhenSet(t *testing.T) {
	t.Setenv("SCHEDULER_CANDIDATES", "5")
	t.Setenv("SCHEDULER_WORKERS", "4")
	t.Setenv("SCHEDULER_TIMEOUT", "not-a-duration")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("candidates", 3, "")
	flags.Int("workers", 3, "")
	flags.String("format", "json", "")
	flags.Int64("seed", 0, "")
	require.NoError(t, flags.Parse([]string{"--workers=2", "--format=PDF", "--seed=42"}))

	cfg, err := Load(flags)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Scheduler.Candidates)
	assert.Equal(t, 2, cfg.Scheduler.Workers)
	assert.Equal(t, "pdf", cfg.Scheduler.ExportFormat)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Timeout)
	require.NotNil(t, cfg.Scheduler.Seed)
	assert.Equal(t, int64(42), *cfg.Scheduler.Seed)
}
