package scheduler

import "github.com/escola-adp/horario-api/internal/models"

// Lesson is one committed placement, pre-persistence. The service layer turns
// these into models.Lesson rows under a schedule id.
type Lesson struct {
	ClassID      string       `json:"class_id"`
	SubjectCode  string       `json:"subject_code"`
	TeacherID    string       `json:"teacher_id"`
	Day          int          `json:"day"`
	Shift        models.Shift `json:"shift"`
	Period       int          `json:"period"`
	CounterShift bool         `json:"counter_shift"`
}

// ClassSummary reports one class's outcome.
type ClassSummary struct {
	ClassID             string `json:"class_id"`
	Placed              int    `json:"placed"`
	CounterShiftPeriods int    `json:"counter_shift_periods"`
	CounterShiftOK      bool   `json:"counter_shift_ok"`
}

// Stats aggregates a run. PlacedCount covers demand placements only; repair
// lessons sit on top of the weekly demand and are reported separately, so
// PlacedCount + UnassignedCount always equals the expanded demand.
type Stats struct {
	PlacedCount      int            `json:"placed_count"`
	UnassignedCount  int            `json:"unassigned_count"`
	RepairPlacements int            `json:"repair_placements"`
	SkippedLoadRows  int            `json:"skipped_load_rows"`
	CandidateEvals   int            `json:"candidate_evals"`
	BudgetExhausted  bool           `json:"budget_exhausted"`
	CounterShiftOK   bool           `json:"counter_shift_ok"`
	Fitness          float64        `json:"fitness"`
	PerTeacherLoad   map[string]int `json:"per_teacher_load"`
	Classes          []ClassSummary `json:"classes"`
}

// Result is the full outcome of one generation run.
type Result struct {
	Strategy   string       `json:"strategy"`
	Lessons    []Lesson     `json:"lessons"`
	Unassigned []Unassigned `json:"unassigned"`
	Stats      Stats        `json:"stats"`
}

const counterShiftShortfallPenalty = 0.05

func assembleResult(r *run, strategyName string) *Result {
	stats := Stats{
		PlacedCount:      len(r.st.lessons) - r.repairPlacements,
		UnassignedCount:  len(r.unassigned),
		RepairPlacements: r.repairPlacements,
		SkippedLoadRows:  r.skippedLoadRows,
		CandidateEvals:   r.evals,
		BudgetExhausted:  r.budgetExhausted,
		CounterShiftOK:   true,
		PerTeacherLoad:   make(map[string]int, len(r.teachers)),
	}
	for id, load := range r.st.teacherLoad {
		stats.PerTeacherLoad[id] = load
	}

	shortClasses := 0
	for _, c := range r.classes {
		summary := ClassSummary{ClassID: c.ID, CounterShiftOK: true}
		for _, l := range r.st.classLessons(c.ID) {
			summary.Placed++
			if l.CounterShift {
				summary.CounterShiftPeriods++
			}
		}
		if c.CounterShiftEligible() && summary.CounterShiftPeriods < r.cfg.CounterShiftPeriods {
			summary.CounterShiftOK = false
			stats.CounterShiftOK = false
			shortClasses++
		}
		stats.Classes = append(stats.Classes, summary)
	}

	stats.Fitness = fitness(stats.PlacedCount, len(r.demand), shortClasses)

	unassigned := r.unassigned
	if unassigned == nil {
		unassigned = []Unassigned{}
	}
	return &Result{
		Strategy:   strategyName,
		Lessons:    r.st.lessons,
		Unassigned: unassigned,
		Stats:      stats,
	}
}

// fitness is the placement ratio minus a penalty per class left short of its
// counter-shift minimum, floored at zero.
func fitness(placed, demand, shortClasses int) float64 {
	if demand == 0 {
		return 1
	}
	f := float64(placed)/float64(demand) - counterShiftShortfallPenalty*float64(shortClasses)
	if f < 0 {
		return 0
	}
	return f
}
