package dto

import (
	"time"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// TimetableConfigRequest is the raw configuration record as stored or submitted by an institution.
// Absent numeric fields take defaults; explicit zeros are kept.
type TimetableConfigRequest struct {
	SubjectList    []string               `json:"subject_list" yaml:"subject_list" validate:"omitempty,dive,required"`
	Infrastructure InfrastructureSettings `json:"infrastructure" yaml:"infrastructure"`
	Students       StudentSettings        `json:"students" yaml:"students"`
	Faculty        FacultySettings        `json:"faculty" yaml:"faculty"`
	Academic       AcademicSettings       `json:"academic" yaml:"academic"`
}

// InfrastructureSettings describes teaching spaces.
type InfrastructureSettings struct {
	Classrooms *int `json:"classrooms" yaml:"classrooms" validate:"omitempty,min=0"`
}

// StudentSettings describes student grouping.
type StudentSettings struct {
	Batches *int `json:"batches" yaml:"batches" validate:"omitempty,min=0"`
}

// FacultySettings describes teaching staff.
type FacultySettings struct {
	Count   *int `json:"count" yaml:"count" validate:"omitempty,min=0"`
	MaxLoad *int `json:"max_load" yaml:"max_load" validate:"omitempty,min=0"`
}

// AcademicSettings describes weekly targets.
type AcademicSettings struct {
	ClassesPerWeek *int `json:"classes_per_week" yaml:"classes_per_week" validate:"omitempty,min=0"`
	MaxClassesDay  *int `json:"max_classes_day" yaml:"max_classes_day" validate:"omitempty,min=0"`
	DaysWeek       *int `json:"days_week" yaml:"days_week" validate:"omitempty,min=0"`
}

// GenerateTimetablesRequest asks for several independent candidates of one configuration.
type GenerateTimetablesRequest struct {
	Config     TimetableConfigRequest `json:"config"`
	Candidates int                    `json:"candidates"`
	Seed       *int64                 `json:"seed,omitempty"`
}

// TimetableCandidate pairs a generated timetable with its advisory output.
type TimetableCandidate struct {
	Timetable   *models.Timetable `json:"timetable"`
	Suggestions []string          `json:"suggestions"`
	Report      TimetableReport   `json:"report"`
	Seed        int64             `json:"seed"`
}

// GenerateTimetablesResponse returns every candidate of a generation run.
type GenerateTimetablesResponse struct {
	RunID       string                 `json:"run_id"`
	Config      models.TimetableConfig `json:"config"`
	Warnings    []string               `json:"warnings,omitempty"`
	Candidates  []TimetableCandidate   `json:"candidates"`
	BestOption  int                    `json:"best_option"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// TimetableReport summarises a candidate for administrators.
type TimetableReport struct {
	Utilization  UtilizationReport    `json:"utilization"`
	Faculty      FacultyReport        `json:"faculty"`
	Rooms        RoomReport           `json:"rooms"`
	Conflicts    []ConflictReportItem `json:"conflicts"`
	OverallScore float64              `json:"overall_score"`
}

// UtilizationReport mirrors the utilization metrics.
type UtilizationReport struct {
	ClassroomUtilization float64 `json:"classroom_utilization"`
	FacultyUtilization   float64 `json:"faculty_utilization"`
}

// FacultyReport describes workload quality.
type FacultyReport struct {
	AverageTeachingHours float64 `json:"average_teaching_hours"`
	WorkloadDistribution string  `json:"workload_distribution"`
	SatisfactionScore    float64 `json:"satisfaction_score"`
}

// RoomUsage counts the sessions held in one room.
type RoomUsage struct {
	Room        string  `json:"room"`
	Sessions    int     `json:"sessions"`
	Utilization float64 `json:"utilization"`
}

// RoomReport describes room usage across the week.
type RoomReport struct {
	MostUsed             *RoomUsage  `json:"most_used_room,omitempty"`
	LeastUsed            *RoomUsage  `json:"least_used_room,omitempty"`
	Usage                []RoomUsage `json:"usage"`
	CapacityOptimization string      `json:"capacity_optimization"`
}

// ConflictReportItem flattens a rejected attempt.
type ConflictReportItem struct {
	Type        string `json:"conflict_type"`
	Subject     string `json:"subject"`
	Day         string `json:"day"`
	Slot        string `json:"slot"`
	Description string `json:"description"`
}

// TimetableExport is the JSON export document of one candidate.
type TimetableExport struct {
	Name            string                  `json:"name"`
	Schedule        models.TimetableGrid    `json:"schedule"`
	Metrics         models.TimetableMetrics `json:"metrics"`
	Suggestions     []string                `json:"suggestions"`
	ExportTimestamp time.Time               `json:"export_timestamp"`
}
