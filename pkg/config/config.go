package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log       LogConfig
	Scheduler SchedulerConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the timetable generator and its caller-side outputs.
type SchedulerConfig struct {
	ConfigFile      string
	Candidates      int
	AttemptBudget   int
	Workers         int
	Seed            *int64
	Timeout         time.Duration
	OutputDir       string
	ExportFormat    string
	MetricsTextfile string
}

// Load reads configuration from .env, the environment and (when given) parsed command line flags.
// Flag names use the lower-case, dash separated form of the env key without the SCHEDULER prefix,
// e.g. --attempt-budget overrides SCHEDULER_ATTEMPT_BUDGET.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		ConfigFile:      v.GetString("SCHEDULER_CONFIG_FILE"),
		Candidates:      v.GetInt("SCHEDULER_CANDIDATES"),
		AttemptBudget:   v.GetInt("SCHEDULER_ATTEMPT_BUDGET"),
		Workers:         v.GetInt("SCHEDULER_WORKERS"),
		Seed:            optionalInt64(v, "SCHEDULER_SEED"),
		Timeout:         parseDuration(v.GetString("SCHEDULER_TIMEOUT"), 30*time.Second),
		OutputDir:       v.GetString("SCHEDULER_OUTPUT_DIR"),
		ExportFormat:    strings.ToLower(v.GetString("SCHEDULER_EXPORT_FORMAT")),
		MetricsTextfile: v.GetString("SCHEDULER_METRICS_TEXTFILE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("SCHEDULER_CONFIG_FILE", "")
	v.SetDefault("SCHEDULER_CANDIDATES", 3)
	v.SetDefault("SCHEDULER_ATTEMPT_BUDGET", 100)
	v.SetDefault("SCHEDULER_WORKERS", 3)
	v.SetDefault("SCHEDULER_TIMEOUT", "30s")
	v.SetDefault("SCHEDULER_OUTPUT_DIR", "")
	v.SetDefault("SCHEDULER_EXPORT_FORMAT", "json")
	v.SetDefault("SCHEDULER_METRICS_TEXTFILE", "")
}

var flagKeys = map[string]string{
	"log-level":        "LOG_LEVEL",
	"log-format":       "LOG_FORMAT",
	"config":           "SCHEDULER_CONFIG_FILE",
	"candidates":       "SCHEDULER_CANDIDATES",
	"attempt-budget":   "SCHEDULER_ATTEMPT_BUDGET",
	"workers":          "SCHEDULER_WORKERS",
	"seed":             "SCHEDULER_SEED",
	"timeout":          "SCHEDULER_TIMEOUT",
	"out":              "SCHEDULER_OUTPUT_DIR",
	"format":           "SCHEDULER_EXPORT_FORMAT",
	"metrics-textfile": "SCHEDULER_METRICS_TEXTFILE",
}

// bindFlags only binds flags the user actually set so env values keep precedence over flag defaults.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})
	return bindErr
}

// optionalInt64 returns nil when the key has no default and was never set.
func optionalInt64(v *viper.Viper, key string) *int64 {
	if !v.IsSet(key) {
		return nil
	}
	value := v.GetInt64(key)
	return &value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
