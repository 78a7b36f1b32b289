package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// DefaultAttemptBudget bounds the random draws spent on a single subject.
const DefaultAttemptBudget = 100

// RandomSource supplies uniform draws in [0, n). *math/rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// OptimizerConfig governs the search.
type OptimizerConfig struct {
	AttemptBudget int
}

// TimetableOptimizer places sessions on the weekly grid by bounded random draws.
// It holds no per-run state and is safe for concurrent use.
type TimetableOptimizer struct {
	attemptBudget int
	logger        *zap.Logger
}

// NewTimetableOptimizer builds an optimizer.
func NewTimetableOptimizer(logger *zap.Logger, cfg OptimizerConfig) *TimetableOptimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.AttemptBudget <= 0 {
		cfg.AttemptBudget = DefaultAttemptBudget
	}
	return &TimetableOptimizer{attemptBudget: cfg.AttemptBudget, logger: logger}
}

// AttemptBudget reports the per-subject draw limit.
func (o *TimetableOptimizer) AttemptBudget() int {
	return o.attemptBudget
}

// Generate runs one candidate. Subjects that exhaust the attempt budget stay under-scheduled;
// that is reflected in the metrics and the rejected attempts, never as an error.
func (o *TimetableOptimizer) Generate(cfg *models.TimetableConfig, option int, rng RandomSource) *models.Timetable {
	state := newOccupancyState(cfg)
	conflicts := make([]models.RejectedAttempt, 0)

	for _, subject := range cfg.Subjects {
		placed := 0
		attempts := 0
		for placed < cfg.SessionsPerWeek && attempts < o.attemptBudget {
			attempts++

			candidate := o.draw(cfg, subject, rng)
			reasons := state.check(candidate, cfg.FacultyMaxDailyLoad)
			if len(reasons) > 0 {
				conflicts = append(conflicts, models.RejectedAttempt{
					Subject: subject,
					Day:     candidate.Day,
					Slot:    candidate.Slot,
					Reasons: reasons,
				})
				continue
			}
			state.commit(candidate)
			placed++
		}
		if placed < cfg.SessionsPerWeek {
			o.logger.Debug("subject under-scheduled",
				zap.Int("option", option),
				zap.String("subject", subject),
				zap.Int("placed", placed),
				zap.Int("target", cfg.SessionsPerWeek),
				zap.Int("attempts", attempts),
			)
		}
	}

	return &models.Timetable{
		ID:        option,
		Name:      fmt.Sprintf("Timetable Option %d", option),
		Days:      append([]string(nil), cfg.Days...),
		Slots:     append([]string(nil), cfg.Slots...),
		Schedule:  state.grid,
		Metrics:   computeTimetableMetrics(cfg, state, len(conflicts)),
		Conflicts: conflicts,
	}
}

// draw picks day, slot, room, batch and faculty in that order. A resource with nothing
// to pick from is left blank and consumes no random value.
func (o *TimetableOptimizer) draw(cfg *models.TimetableConfig, subject string, rng RandomSource) models.ClassSession {
	session := models.ClassSession{
		Subject: subject,
		Day:     cfg.Days[rng.Intn(len(cfg.Days))],
		Slot:    cfg.Slots[rng.Intn(len(cfg.Slots))],
	}
	if cfg.RoomCount > 0 {
		session.Room = fmt.Sprintf("Room %d", rng.Intn(cfg.RoomCount)+1)
	}
	if cfg.BatchCount > 0 {
		session.Batch = fmt.Sprintf("Batch %d", rng.Intn(cfg.BatchCount)+1)
	}
	if len(cfg.Faculty) > 0 {
		session.Faculty = cfg.Faculty[rng.Intn(len(cfg.Faculty))]
	}
	return session
}
