package service

import "github.com/noah-isme/timetable-optimizer/internal/models"

// Advisory thresholds.
const (
	utilizationTarget = 70.0
	balanceTarget     = 80.0
	conflictTolerance = 5
	scoreTarget       = 85.0
)

// Improvement suggestions, returned in this order.
const (
	SuggestionUtilization = "Consider reducing the number of classrooms or increasing class frequency"
	SuggestionBalance     = "Redistribute faculty workload for better balance"
	SuggestionConflicts   = "Review and resolve scheduling conflicts manually"
	SuggestionScore       = "Consider adjusting time slots or adding more resources"
)

// SuggestImprovements checks each metric independently; any subset may fire.
func SuggestImprovements(metrics models.TimetableMetrics) []string {
	suggestions := make([]string, 0, 4)
	if metrics.ClassroomUtilization < utilizationTarget {
		suggestions = append(suggestions, SuggestionUtilization)
	}
	if metrics.FacultyLoadBalance < balanceTarget {
		suggestions = append(suggestions, SuggestionBalance)
	}
	if metrics.ConflictCount > conflictTolerance {
		suggestions = append(suggestions, SuggestionConflicts)
	}
	if metrics.OptimizationScore < scoreTarget {
		suggestions = append(suggestions, SuggestionScore)
	}
	return suggestions
}
