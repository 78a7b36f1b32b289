package service

import "github.com/noah-isme/timetable-optimizer/internal/models"

// Rejection reasons, in the order the placement checks run.
const (
	ReasonRoomOccupied     = "Room occupied"
	ReasonBatchBusy        = "Batch has another class"
	ReasonFacultyOverload  = "Faculty overloaded"
	ReasonFacultyConflict  = "Faculty conflict"
	ReasonNoRoom           = "No classroom available"
	ReasonNoBatch          = "No batch available"
	ReasonNoFacultyMembers = "No faculty available"
)

type gridKey struct {
	Day  string
	Slot string
}

// occupancyState tracks committed resources for a single run. It only grows.
type occupancyState struct {
	days     []string
	slots    []string
	rooms    map[gridKey]map[string]bool
	batches  map[gridKey]map[string]bool
	teaching map[gridKey]map[string]bool
	daily    map[string]map[string]int
	grid     models.TimetableGrid
	placed   int
}

func newOccupancyState(cfg *models.TimetableConfig) *occupancyState {
	state := &occupancyState{
		days:     cfg.Days,
		slots:    cfg.Slots,
		rooms:    make(map[gridKey]map[string]bool),
		batches:  make(map[gridKey]map[string]bool),
		teaching: make(map[gridKey]map[string]bool),
		daily:    make(map[string]map[string]int, len(cfg.Faculty)),
		grid:     make(models.TimetableGrid, len(cfg.Days)),
	}
	for _, day := range cfg.Days {
		state.grid[day] = make(map[string]map[string]models.ClassSession)
	}
	for _, faculty := range cfg.Faculty {
		state.daily[faculty] = make(map[string]int, len(cfg.Days))
	}
	return state
}

// check evaluates every placement rule and returns the reasons that failed.
// A blank room, batch or faculty means the draw had nothing to pick from.
func (s *occupancyState) check(session models.ClassSession, maxDailyLoad int) []string {
	var reasons []string
	key := gridKey{Day: session.Day, Slot: session.Slot}

	if session.Room == "" {
		reasons = append(reasons, ReasonNoRoom)
	} else if s.rooms[key][session.Room] {
		reasons = append(reasons, ReasonRoomOccupied)
	}

	if session.Batch == "" {
		reasons = append(reasons, ReasonNoBatch)
	} else if s.batches[key][session.Batch] {
		reasons = append(reasons, ReasonBatchBusy)
	}

	if session.Faculty == "" {
		reasons = append(reasons, ReasonNoFacultyMembers)
		return reasons
	}
	if s.daily[session.Faculty][session.Day] >= maxDailyLoad {
		reasons = append(reasons, ReasonFacultyOverload)
	}
	if s.teaching[key][session.Faculty] {
		reasons = append(reasons, ReasonFacultyConflict)
	}
	return reasons
}

func (s *occupancyState) commit(session models.ClassSession) {
	key := gridKey{Day: session.Day, Slot: session.Slot}

	cell := s.grid[session.Day][session.Slot]
	if cell == nil {
		cell = make(map[string]models.ClassSession)
		s.grid[session.Day][session.Slot] = cell
	}
	cell[session.Key()] = session

	markSet(s.rooms, key, session.Room)
	markSet(s.batches, key, session.Batch)
	markSet(s.teaching, key, session.Faculty)

	if s.daily[session.Faculty] == nil {
		s.daily[session.Faculty] = make(map[string]int)
	}
	s.daily[session.Faculty][session.Day]++
	s.placed++
}

// occupiedCells counts distinct occupied rooms summed over every grid position.
func (s *occupancyState) occupiedCells() int {
	total := 0
	for _, day := range s.days {
		for _, slot := range s.slots {
			total += len(s.rooms[gridKey{Day: day, Slot: slot}])
		}
	}
	return total
}

// weeklyLoads returns the weekly session count for every faculty member of the pool, in pool order.
func (s *occupancyState) weeklyLoads(pool []string) []int {
	loads := make([]int, 0, len(pool))
	for _, faculty := range pool {
		total := 0
		for _, count := range s.daily[faculty] {
			total += count
		}
		loads = append(loads, total)
	}
	return loads
}

func markSet(target map[gridKey]map[string]bool, key gridKey, value string) {
	set := target[key]
	if set == nil {
		set = make(map[string]bool)
		target[key] = set
	}
	set[value] = true
}
