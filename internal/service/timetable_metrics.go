package service

import (
	"math"

	"github.com/noah-isme/timetable-optimizer/internal/models"
)

// Score weights.
const (
	utilizationWeight    = 0.3
	balanceWeight        = 0.3
	conflictWeight       = 0.4
	conflictPenaltyPoint = 5.0
	balancePenaltyPoint  = 5.0
)

func computeTimetableMetrics(cfg *models.TimetableConfig, state *occupancyState, conflictCount int) models.TimetableMetrics {
	utilization := ClassroomUtilization(state.occupiedCells(), len(cfg.Days)*len(cfg.Slots)*cfg.RoomCount)
	loads := state.weeklyLoads(cfg.Faculty)
	balance := FacultyLoadBalance(loads)

	return models.TimetableMetrics{
		ClassroomUtilization:  round1(utilization),
		FacultyLoadBalance:    round1(balance),
		ConflictCount:         conflictCount,
		OptimizationScore:     round1(OptimizationScore(utilization, balance, conflictCount)),
		TotalClassesScheduled: state.placed,
		FacultyUtilization:    round1(FacultyUtilization(loads)),
	}
}

// EvaluateTimetable recomputes metrics from a finished grid and its rejected attempts.
func EvaluateTimetable(cfg *models.TimetableConfig, timetable *models.Timetable) models.TimetableMetrics {
	state := newOccupancyState(cfg)
	for _, session := range timetable.Sessions() {
		state.commit(session)
	}
	return computeTimetableMetrics(cfg, state, len(timetable.Conflicts))
}

// ClassroomUtilization is the percentage of room-cells in use; zero capacity yields zero.
func ClassroomUtilization(occupied, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(occupied) / float64(capacity) * 100
}

// FacultyLoadBalance penalises the spread between the busiest and idlest faculty member.
func FacultyLoadBalance(loads []int) float64 {
	if len(loads) == 0 {
		return 100
	}
	lowest, highest := loads[0], loads[0]
	for _, load := range loads[1:] {
		if load < lowest {
			lowest = load
		}
		if load > highest {
			highest = load
		}
	}
	return math.Max(0, 100-float64(highest-lowest)*balancePenaltyPoint)
}

// FacultyUtilization is the mean weekly load across the whole pool, idle members included.
func FacultyUtilization(loads []int) float64 {
	if len(loads) == 0 {
		return 0
	}
	total := 0
	for _, load := range loads {
		total += load
	}
	return float64(total) / float64(len(loads))
}

// OptimizationScore combines utilization, balance and the conflict penalty. Only the conflict
// term is floored at zero.
func OptimizationScore(utilization, balance float64, conflictCount int) float64 {
	conflictTerm := math.Max(0, 100-float64(conflictCount)*conflictPenaltyPoint)
	return utilization*utilizationWeight + balance*balanceWeight + conflictTerm*conflictWeight
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
