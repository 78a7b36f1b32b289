package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
)

type recorderStub struct {
	mu         sync.Mutex
	candidates []*models.Timetable
	runs       int
}

func (r *recorderStub) ObserveCandidate(timetable *models.Timetable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates = append(r.candidates, timetable)
}

func (r *recorderStub) ObserveRun(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
}

func int64Ptr(v int64) *int64 { return &v }

func TestTimetableGeneratorServiceGenerate(t *testing.T) {
	recorder := &recorderStub{}
	svc := NewTimetableGeneratorService(recorder, nil, nil, TimetableGeneratorConfig{})

	resp, err := svc.Generate(context.Background(), dto.GenerateTimetablesRequest{Seed: int64Ptr(7)})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Candidates, DefaultCandidates)
	require.Len(t, resp.Warnings, 1, "default faculty count is truncated")
	assert.Equal(t, DefaultSubjects, resp.Config.Subjects)

	best := resp.Candidates[0]
	for i, candidate := range resp.Candidates {
		assert.Equal(t, i+1, candidate.Timetable.ID)
		assert.Equal(t, int64(7+i), candidate.Seed)
		assert.Equal(t, SuggestImprovements(candidate.Timetable.Metrics), candidate.Suggestions)
		assert.Equal(t, candidate.Timetable.Metrics.OptimizationScore, candidate.Report.OverallScore)
		if candidate.Timetable.Metrics.OptimizationScore > best.Timetable.Metrics.OptimizationScore {
			best = candidate
		}
	}
	assert.Equal(t, best.Timetable.ID, resp.BestOption)

	assert.Len(t, recorder.candidates, DefaultCandidates)
	assert.Equal(t, 1, recorder.runs)
}

func TestTimetableGeneratorServiceSeedIsReproducible(t *testing.T) {
	req := dto.GenerateTimetablesRequest{
		Config:     tinyConfigRequest("Math", "Physics", "Art"),
		Candidates: 4,
		Seed:       int64Ptr(2024),
	}
	req.Config.Infrastructure.Classrooms = intPtr(2)
	req.Config.Faculty.Count = intPtr(3)
	req.Config.Academic.ClassesPerWeek = intPtr(3)

	first, err := NewTimetableGeneratorService(nil, nil, nil, TimetableGeneratorConfig{Workers: 4}).Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := NewTimetableGeneratorService(nil, nil, nil, TimetableGeneratorConfig{Workers: 1}).Generate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, first.Candidates, 4)
	if diff := cmp.Diff(first.Candidates, second.Candidates); diff != "" {
		t.Fatalf("seeded runs differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.BestOption, second.BestOption)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestTimetableGeneratorServiceUsesClockSeed(t *testing.T) {
	svc := NewTimetableGeneratorService(nil, nil, nil, TimetableGeneratorConfig{Candidates: 2})
	svc.now = func() time.Time { return time.Unix(0, 500) }

	resp, err := svc.Generate(context.Background(), dto.GenerateTimetablesRequest{Config: tinyConfigRequest("Math")})
	require.NoError(t, err)
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, int64(500), resp.Candidates[0].Seed)
	assert.Equal(t, int64(501), resp.Candidates[1].Seed)
}

func TestTimetableGeneratorServiceValidation(t *testing.T) {
	svc := NewTimetableGeneratorService(nil, nil, nil, TimetableGeneratorConfig{})

	_, err := svc.Generate(context.Background(), dto.GenerateTimetablesRequest{
		Config: dto.TimetableConfigRequest{SubjectList: []string{}},
	})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidConfig))

	_, err = svc.Generate(context.Background(), dto.GenerateTimetablesRequest{Candidates: 11})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Generate(context.Background(), dto.GenerateTimetablesRequest{Candidates: -1})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestTimetableGeneratorServiceCancelled(t *testing.T) {
	recorder := &recorderStub{}
	svc := NewTimetableGeneratorService(recorder, nil, nil, TimetableGeneratorConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := svc.Generate(ctx, dto.GenerateTimetablesRequest{Config: tinyConfigRequest("Math")})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, appErrors.ErrTimeout))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, recorder.runs)
}
