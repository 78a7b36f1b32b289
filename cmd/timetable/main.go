package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/service"
	"github.com/noah-isme/timetable-optimizer/pkg/config"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/export"
	"github.com/noah-isme/timetable-optimizer/pkg/logger"
	"github.com/noah-isme/timetable-optimizer/pkg/storage"
)

const usage = `Usage: timetable generate [flags]

Generates timetable candidates for a scheduling configuration (YAML or JSON).
Without --out the full run is printed to stdout as JSON.

Flags:
`

func main() {
	args := os.Args[1:]
	if len(args) == 0 || args[0] != "generate" {
		fmt.Fprint(os.Stderr, usage)
		newFlagSet().PrintDefaults()
		os.Exit(2)
	}

	flags := newFlagSet()
	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr, os.Stdout); err != nil {
		appErr := appErrors.FromError(err)
		logr.Error("timetable generation failed", zap.String("code", appErr.Code), zap.Error(err))
		logr.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("timetable generate", pflag.ContinueOnError)
	flags.String("config", "", "scheduling configuration file (YAML or JSON); defaults apply when omitted")
	flags.Int("candidates", service.DefaultCandidates, "number of timetable candidates")
	flags.Int("attempt-budget", service.DefaultAttemptBudget, "random placement attempts per subject")
	flags.Int("workers", 0, "concurrent candidate runs (defaults to the candidate count)")
	flags.Int64("seed", 0, "base random seed; candidate i uses seed+i")
	flags.Duration("timeout", 0, "abort the run after this duration")
	flags.String("out", "", "directory to write one export file per candidate")
	flags.String("format", "json", "export format: json, csv or pdf")
	flags.String("metrics-textfile", "", "write Prometheus metrics of the run to this file")
	flags.String("log-level", "", "log level")
	flags.String("log-format", "", "log format: json or console")
	return flags
}

func run(cfg *config.Config, logr *zap.Logger, stdout io.Writer) error {
	format, err := service.ParseExportFormat(cfg.Scheduler.ExportFormat)
	if err != nil {
		return err
	}
	if format != service.ExportFormatJSON && cfg.Scheduler.OutputDir == "" {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("--out is required for %s exports", format))
	}

	var raw dto.TimetableConfigRequest
	if cfg.Scheduler.ConfigFile != "" {
		raw, err = service.LoadConfigurationFile(cfg.Scheduler.ConfigFile)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Scheduler.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Scheduler.Timeout)
		defer cancel()
	}

	metrics := service.NewMetricsService()
	generator := service.NewTimetableGeneratorService(metrics, validator.New(), logr, service.TimetableGeneratorConfig{
		AttemptBudget: cfg.Scheduler.AttemptBudget,
		Workers:       cfg.Scheduler.Workers,
		Candidates:    cfg.Scheduler.Candidates,
	})

	resp, err := generator.Generate(ctx, dto.GenerateTimetablesRequest{
		Config:     raw,
		Candidates: cfg.Scheduler.Candidates,
		Seed:       cfg.Scheduler.Seed,
	})
	if err != nil {
		return err
	}

	if cfg.Scheduler.OutputDir != "" {
		store, err := storage.NewLocalStorage(cfg.Scheduler.OutputDir)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare output directory")
		}
		exporter := service.NewTimetableExportService(store, logr, export.NewCSVExporter(), export.NewPDFExporter())
		paths, err := exporter.ExportRun(resp, format)
		if err != nil {
			return err
		}
		for _, path := range paths {
			logr.Info("timetable written", zap.String("path", store.Path(path)))
		}
	} else {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(resp); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetables")
		}
	}

	logr.Info("timetable run finished",
		zap.String("run_id", resp.RunID),
		zap.Int("best_option", resp.BestOption),
		zap.Int("candidates", len(resp.Candidates)),
	)

	if cfg.Scheduler.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.Scheduler.MetricsTextfile); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write metrics")
		}
	}
	return nil
}
