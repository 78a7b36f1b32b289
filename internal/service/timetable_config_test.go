package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
)

func TestBuildTimetableConfigDefaults(t *testing.T) {
	cfg, warnings, err := BuildTimetableConfig(validator.New(), dto.TimetableConfigRequest{})
	require.NoError(t, err)

	assert.Equal(t, DefaultSubjects, cfg.Subjects)
	assert.Equal(t, DefaultClassrooms, cfg.RoomCount)
	assert.Equal(t, DefaultBatches, cfg.BatchCount)
	assert.Equal(t, DefaultFacultyMaxLoad, cfg.FacultyMaxDailyLoad)
	assert.Equal(t, DefaultClassesPerWeek, cfg.SessionsPerWeek)
	assert.Equal(t, DefaultMaxClassesPerDay, cfg.MaxClassesPerDay)
	assert.Equal(t, models.WeekDays, cfg.Days)
	assert.Equal(t, models.TimeSlots, cfg.Slots)

	// 30 requested, 18 names available.
	assert.Len(t, cfg.Faculty, len(models.FacultySurnames))
	assert.Equal(t, len(models.FacultySurnames), cfg.FacultyCount)
	assert.Equal(t, "Dr. Smith", cfg.Faculty[0])
	assert.Equal(t, "Dr. Martinez", cfg.Faculty[17])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "truncating")
}

func TestBuildTimetableConfigKeepsExplicitZeros(t *testing.T) {
	cfg, warnings, err := BuildTimetableConfig(nil, dto.TimetableConfigRequest{
		SubjectList:    []string{" Biology "},
		Infrastructure: dto.InfrastructureSettings{Classrooms: intPtr(0)},
		Students:       dto.StudentSettings{Batches: intPtr(0)},
		Faculty:        dto.FacultySettings{Count: intPtr(0), MaxLoad: intPtr(0)},
		Academic:       dto.AcademicSettings{ClassesPerWeek: intPtr(0), DaysWeek: intPtr(5)},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"Biology"}, cfg.Subjects)
	assert.Zero(t, cfg.RoomCount)
	assert.Zero(t, cfg.BatchCount)
	assert.Empty(t, cfg.Faculty)
	assert.Zero(t, cfg.SessionsPerWeek)
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, cfg.Days)
}

func TestBuildTimetableConfigUnsupportedWeek(t *testing.T) {
	for _, days := range []int{0, 4, 7} {
		req := tinyConfigRequest("Math")
		req.Academic.DaysWeek = intPtr(days)
		cfg, warnings, err := BuildTimetableConfig(nil, req)
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.DaysPerWeek)
		assert.Equal(t, models.WeekDays, cfg.Days)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "days_week")
	}
}

func TestBuildTimetableConfigRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  dto.TimetableConfigRequest
	}{
		{name: "empty subject list", req: dto.TimetableConfigRequest{SubjectList: []string{}}},
		{name: "blank subject", req: dto.TimetableConfigRequest{SubjectList: []string{"Math", "  "}}},
		{name: "negative classrooms", req: dto.TimetableConfigRequest{Infrastructure: dto.InfrastructureSettings{Classrooms: intPtr(-1)}}},
		{name: "negative max load", req: dto.TimetableConfigRequest{Faculty: dto.FacultySettings{MaxLoad: intPtr(-2)}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, _, err := BuildTimetableConfig(validator.New(), tc.req)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, appErrors.ErrInvalidConfig))
		})
	}
}

func TestLoadConfigurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
subject_list: [Math, History]
infrastructure:
  classrooms: 4
students:
  batches: 2
faculty:
  count: 6
  max_load: 3
academic:
  classes_per_week: 2
  days_week: 5
`), 0o644))

	req, err := LoadConfigurationFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Math", "History"}, req.SubjectList)
	require.NotNil(t, req.Infrastructure.Classrooms)
	assert.Equal(t, 4, *req.Infrastructure.Classrooms)
	assert.Nil(t, req.Academic.MaxClassesDay)

	cfg, warnings, err := BuildTimetableConfig(nil, req)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 3, cfg.FacultyMaxDailyLoad)
	assert.Equal(t, DefaultMaxClassesPerDay, cfg.MaxClassesPerDay)
	assert.Len(t, cfg.Days, 5)
}

func TestLoadConfigurationFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"subject_list": ["Art"], "students": {"batches": 0}}`), 0o644))

	req, err := LoadConfigurationFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Art"}, req.SubjectList)
	require.NotNil(t, req.Students.Batches)
	assert.Zero(t, *req.Students.Batches)
}

func TestLoadConfigurationFileErrors(t *testing.T) {
	_, err := LoadConfigurationFile("")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = LoadConfigurationFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("infrastructure: [not, a, map]\n"), 0o644))
	_, err = LoadConfigurationFile(path)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidConfig))
}
