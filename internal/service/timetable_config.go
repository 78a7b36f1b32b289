package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
)

// Configuration defaults applied when a field is absent from the raw record.
const (
	DefaultClassrooms       = 10
	DefaultBatches          = 15
	DefaultFacultyCount     = 30
	DefaultFacultyMaxLoad   = 6
	DefaultClassesPerWeek   = 4
	DefaultMaxClassesPerDay = 8
	DefaultDaysPerWeek      = 6
)

// DefaultSubjects is used when the record carries no subject list at all.
var DefaultSubjects = []string{"Math", "Physics", "Chemistry", "CS", "English"}

// BuildTimetableConfig validates a raw record and returns the typed configuration plus
// non-fatal warnings (truncated faculty pool, unsupported week length).
func BuildTimetableConfig(validate *validator.Validate, req dto.TimetableConfigRequest) (*models.TimetableConfig, []string, error) {
	if validate == nil {
		validate = validator.New()
	}
	if err := validate.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInvalidConfig.Code, appErrors.ErrInvalidConfig.Status, "invalid timetable configuration")
	}

	subjects := DefaultSubjects
	if req.SubjectList != nil {
		if len(req.SubjectList) == 0 {
			return nil, nil, appErrors.Clone(appErrors.ErrInvalidConfig, "subject_list must contain at least one subject")
		}
		subjects = make([]string, 0, len(req.SubjectList))
		for idx, name := range req.SubjectList {
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, nil, appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("subject_list[%d] must not be blank", idx))
			}
			subjects = append(subjects, name)
		}
	}

	var warnings []string

	cfg := &models.TimetableConfig{
		Subjects:            append([]string(nil), subjects...),
		RoomCount:           intOrDefault(req.Infrastructure.Classrooms, DefaultClassrooms),
		BatchCount:          intOrDefault(req.Students.Batches, DefaultBatches),
		FacultyCount:        intOrDefault(req.Faculty.Count, DefaultFacultyCount),
		FacultyMaxDailyLoad: intOrDefault(req.Faculty.MaxLoad, DefaultFacultyMaxLoad),
		SessionsPerWeek:     intOrDefault(req.Academic.ClassesPerWeek, DefaultClassesPerWeek),
		MaxClassesPerDay:    intOrDefault(req.Academic.MaxClassesDay, DefaultMaxClassesPerDay),
		DaysPerWeek:         intOrDefault(req.Academic.DaysWeek, DefaultDaysPerWeek),
		Slots:               append([]string(nil), models.TimeSlots...),
	}

	switch cfg.DaysPerWeek {
	case 5:
		cfg.Days = append([]string(nil), models.WeekDays[:5]...)
	case 6:
		cfg.Days = append([]string(nil), models.WeekDays...)
	default:
		warnings = append(warnings, fmt.Sprintf("days_week %d is not supported, using a 6-day week", cfg.DaysPerWeek))
		cfg.DaysPerWeek = 6
		cfg.Days = append([]string(nil), models.WeekDays...)
	}

	cfg.Faculty = facultyPool(cfg.FacultyCount)
	if len(cfg.Faculty) < cfg.FacultyCount {
		warnings = append(warnings, fmt.Sprintf("faculty count %d exceeds the %d available faculty names, truncating", cfg.FacultyCount, len(cfg.Faculty)))
		cfg.FacultyCount = len(cfg.Faculty)
	}

	return cfg, warnings, nil
}

// LoadConfigurationFile decodes a YAML (or JSON) configuration record from disk.
func LoadConfigurationFile(path string) (dto.TimetableConfigRequest, error) {
	var req dto.TimetableConfigRequest
	if strings.TrimSpace(path) == "" {
		return req, appErrors.Clone(appErrors.ErrValidation, "configuration file path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return req, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "configuration file not found")
		}
		return req, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read configuration file")
	}
	if err := yaml.Unmarshal(raw, &req); err != nil {
		return req, appErrors.Wrap(err, appErrors.ErrInvalidConfig.Code, appErrors.ErrInvalidConfig.Status, "failed to decode configuration file")
	}
	return req, nil
}

func facultyPool(count int) []string {
	if count > len(models.FacultySurnames) {
		count = len(models.FacultySurnames)
	}
	if count <= 0 {
		return []string{}
	}
	pool := make([]string, 0, count)
	for _, surname := range models.FacultySurnames[:count] {
		pool = append(pool, "Dr. "+surname)
	}
	return pool
}

func intOrDefault(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}
