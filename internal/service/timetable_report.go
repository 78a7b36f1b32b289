package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
)

const (
	workloadBalanced          = "Balanced"
	workloadNeedsImprovement  = "Needs Improvement"
	teachingHoursDivisor      = 20.0
	conflictTypeScheduling    = "scheduling"
	balancedWorkloadThreshold = 80.0
)

// BuildTimetableReport derives the administrator report of a candidate from its metrics and grid.
func BuildTimetableReport(cfg *models.TimetableConfig, timetable *models.Timetable) dto.TimetableReport {
	metrics := timetable.Metrics

	distribution := workloadNeedsImprovement
	if metrics.FacultyLoadBalance > balancedWorkloadThreshold {
		distribution = workloadBalanced
	}

	conflicts := make([]dto.ConflictReportItem, 0, len(timetable.Conflicts))
	for _, attempt := range timetable.Conflicts {
		conflicts = append(conflicts, dto.ConflictReportItem{
			Type:        conflictTypeScheduling,
			Subject:     attempt.Subject,
			Day:         attempt.Day,
			Slot:        attempt.Slot,
			Description: strings.Join(attempt.Reasons, ", "),
		})
	}

	return dto.TimetableReport{
		Utilization: dto.UtilizationReport{
			ClassroomUtilization: metrics.ClassroomUtilization,
			FacultyUtilization:   metrics.FacultyUtilization,
		},
		Faculty: dto.FacultyReport{
			AverageTeachingHours: round1(metrics.FacultyUtilization / teachingHoursDivisor),
			WorkloadDistribution: distribution,
			SatisfactionScore:    metrics.FacultyLoadBalance,
		},
		Rooms:        buildRoomReport(cfg, timetable),
		Conflicts:    conflicts,
		OverallScore: metrics.OptimizationScore,
	}
}

func buildRoomReport(cfg *models.TimetableConfig, timetable *models.Timetable) dto.RoomReport {
	report := dto.RoomReport{
		Usage:                make([]dto.RoomUsage, 0, cfg.RoomCount),
		CapacityOptimization: fmt.Sprintf("%s%%", strconv.FormatFloat(timetable.Metrics.OptimizationScore, 'f', -1, 64)),
	}
	if cfg.RoomCount <= 0 {
		return report
	}

	counts := make(map[string]int, cfg.RoomCount)
	for _, session := range timetable.Sessions() {
		counts[session.Room]++
	}

	cells := len(timetable.Days) * len(timetable.Slots)
	for i := 1; i <= cfg.RoomCount; i++ {
		room := fmt.Sprintf("Room %d", i)
		usage := dto.RoomUsage{Room: room, Sessions: counts[room]}
		if cells > 0 {
			usage.Utilization = round1(float64(usage.Sessions) / float64(cells) * 100)
		}
		report.Usage = append(report.Usage, usage)
	}

	ranked := make([]dto.RoomUsage, len(report.Usage))
	copy(ranked, report.Usage)
	// Stable keeps room number order among equally used rooms.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Sessions > ranked[j].Sessions
	})
	most := ranked[0]
	least := ranked[len(ranked)-1]
	report.MostUsed = &most
	report.LeastUsed = &least
	return report
}
