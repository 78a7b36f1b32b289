package models

import "sort"

// WeekDays lists every teaching day in grid order; five-day weeks use the first five.
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// TimeSlots lists the fixed daily periods in grid order.
var TimeSlots = []string{"9:00-10:00", "10:00-11:00", "11:15-12:15", "12:15-1:15", "2:15-3:15", "3:15-4:15"}

// FacultySurnames seeds the generated faculty pool.
var FacultySurnames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Davis", "Wilson",
	"Miller", "Moore", "Taylor", "Anderson", "Thomas", "Jackson",
	"White", "Harris", "Martin", "Thompson", "Garcia", "Martinez",
}

// TimetableConfig is the normalized, read-only description of one scheduling problem.
type TimetableConfig struct {
	Subjects            []string `json:"subjects"`
	RoomCount           int      `json:"room_count"`
	BatchCount          int      `json:"batch_count"`
	FacultyCount        int      `json:"faculty_count"`
	FacultyMaxDailyLoad int      `json:"faculty_max_daily_load"`
	SessionsPerWeek     int      `json:"sessions_per_week"`
	MaxClassesPerDay    int      `json:"max_classes_per_day"`
	DaysPerWeek         int      `json:"days_per_week"`
	Days                []string `json:"days"`
	Slots               []string `json:"slots"`
	Faculty             []string `json:"faculty"`
}

// ClassSession is one placed class.
type ClassSession struct {
	Subject string `json:"subject"`
	Day     string `json:"day"`
	Slot    string `json:"slot"`
	Room    string `json:"room"`
	Batch   string `json:"batch"`
	Faculty string `json:"faculty"`
}

// Key is the display key used inside a grid cell.
func (s ClassSession) Key() string {
	return s.Subject + "_" + s.Batch + "_" + s.Room
}

// RejectedAttempt records a random draw that failed at least one placement check.
type RejectedAttempt struct {
	Subject string   `json:"subject"`
	Day     string   `json:"day"`
	Slot    string   `json:"slot"`
	Reasons []string `json:"reasons"`
}

// TimetableMetrics summarises the quality of one candidate.
type TimetableMetrics struct {
	ClassroomUtilization  float64 `json:"classroom_utilization"`
	FacultyLoadBalance    float64 `json:"faculty_load_balance"`
	ConflictCount         int     `json:"conflict_count"`
	OptimizationScore     float64 `json:"optimization_score"`
	TotalClassesScheduled int     `json:"total_classes_scheduled"`
	FacultyUtilization    float64 `json:"faculty_utilization"`
}

// TimetableGrid maps day -> slot -> session key -> session.
type TimetableGrid map[string]map[string]map[string]ClassSession

// Timetable is one generated candidate.
type Timetable struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Days      []string          `json:"days"`
	Slots     []string          `json:"slots"`
	Schedule  TimetableGrid     `json:"schedule"`
	Metrics   TimetableMetrics  `json:"metrics"`
	Conflicts []RejectedAttempt `json:"conflicts"`
}

// Sessions flattens the grid in day, slot, then key order.
func (t *Timetable) Sessions() []ClassSession {
	if t == nil {
		return nil
	}
	var sessions []ClassSession
	for _, day := range t.Days {
		for _, slot := range t.Slots {
			cell := t.Schedule[day][slot]
			if len(cell) == 0 {
				continue
			}
			keys := make([]string, 0, len(cell))
			for key := range cell {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				sessions = append(sessions, cell[key])
			}
		}
	}
	return sessions
}
