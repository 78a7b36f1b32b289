package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/jobs"
	"github.com/noah-isme/timetable-optimizer/pkg/logger"
)

// DefaultCandidates is the number of options generated when the request does not say.
const DefaultCandidates = 3

type candidateRecorder interface {
	ObserveCandidate(timetable *models.Timetable)
	ObserveRun(duration time.Duration)
}

// TimetableGeneratorConfig governs generator behaviour.
type TimetableGeneratorConfig struct {
	AttemptBudget int
	Workers       int
	Candidates    int
}

// TimetableGeneratorService runs independent optimizer candidates for one configuration.
type TimetableGeneratorService struct {
	optimizer  *TimetableOptimizer
	pool       *jobs.Pool
	metrics    candidateRecorder
	validator  *validator.Validate
	logger     *zap.Logger
	candidates int
	now        func() time.Time
}

// NewTimetableGeneratorService wires generator dependencies.
func NewTimetableGeneratorService(metrics candidateRecorder, validate *validator.Validate, logger *zap.Logger, cfg TimetableGeneratorConfig) *TimetableGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Candidates <= 0 {
		cfg.Candidates = DefaultCandidates
	}
	if cfg.Workers <= 0 {
		cfg.Workers = cfg.Candidates
	}
	return &TimetableGeneratorService{
		optimizer:  NewTimetableOptimizer(logger, OptimizerConfig{AttemptBudget: cfg.AttemptBudget}),
		pool:       jobs.NewPool("timetable-candidates", jobs.PoolConfig{Workers: cfg.Workers, Logger: logger}),
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		candidates: cfg.Candidates,
		now:        time.Now,
	}
}

// Generate builds the configuration and produces every candidate concurrently. Each candidate owns
// its random source, seeded from the request seed (or the clock) plus its index.
func (s *TimetableGeneratorService) Generate(ctx context.Context, req dto.GenerateTimetablesRequest) (*dto.GenerateTimetablesResponse, error) {
	cfg, warnings, err := BuildTimetableConfig(s.validator, req.Config)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Var(req.Candidates, "omitempty,min=1,max=10"); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "candidates must be between 1 and 10")
	}

	count := req.Candidates
	if count <= 0 {
		count = s.candidates
	}
	baseSeed := s.now().UnixNano()
	if req.Seed != nil {
		baseSeed = *req.Seed
	}

	runID := uuid.NewString()
	log := s.logger.With(logger.RunFields(runID, count)...)
	for _, warning := range warnings {
		log.Warn("timetable configuration adjusted", zap.String("warning", warning))
	}

	started := s.now()
	results := make([]dto.TimetableCandidate, count)
	batch := make([]jobs.Job, 0, count)
	for i := 0; i < count; i++ {
		batch = append(batch, jobs.Job{
			ID:      fmt.Sprintf("%s-%d", runID, i+1),
			Type:    "timetable_candidate",
			Index:   i,
			Payload: baseSeed + int64(i),
		})
	}

	err = s.pool.Run(ctx, batch, func(ctx context.Context, job jobs.Job) error {
		seed := job.Payload.(int64)
		timetable := s.optimizer.Generate(cfg, job.Index+1, rand.New(rand.NewSource(seed)))
		results[job.Index] = dto.TimetableCandidate{
			Timetable:   timetable,
			Suggestions: SuggestImprovements(timetable.Metrics),
			Report:      BuildTimetableReport(cfg, timetable),
			Seed:        seed,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, "timetable generation cancelled")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "timetable generation failed")
	}

	best := 0
	for i, candidate := range results {
		if s.metrics != nil {
			s.metrics.ObserveCandidate(candidate.Timetable)
		}
		log.Info("timetable candidate generated",
			zap.Int("option", candidate.Timetable.ID),
			zap.Int64("seed", candidate.Seed),
			zap.Int("sessions", candidate.Timetable.Metrics.TotalClassesScheduled),
			zap.Int("conflicts", candidate.Timetable.Metrics.ConflictCount),
			zap.Float64("score", candidate.Timetable.Metrics.OptimizationScore),
		)
		if candidate.Timetable.Metrics.OptimizationScore > results[best].Timetable.Metrics.OptimizationScore {
			best = i
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(s.now().Sub(started))
	}

	return &dto.GenerateTimetablesResponse{
		RunID:       runID,
		Config:      *cfg,
		Warnings:    warnings,
		Candidates:  results,
		BestOption:  results[best].Timetable.ID,
		GeneratedAt: started.UTC(),
	}, nil
}
