package scheduler

import "github.com/escola-adp/horario-api/internal/models"

// Cost weights. A free period stranded in a day costs a full point per the
// gap rule; the single-period surcharge biases two remaining hours of a
// subject toward one double block.
const (
	loadBalanceWeight     = 0.05
	gapWeight             = 1.0
	singlePeriodPenalty   = 0.2
	counterShiftSurcharge = 0.1
)

// costMinStrategy walks classes in descending total demand and, per class,
// subjects in priority order, scoring every feasible candidate and committing
// the cheapest. Counter-shift-eligible classes get one opposite-shift
// placement seeded up front; subjects with two or more remaining hours first
// try an adjacent double block placed atomically under one teacher.
type costMinStrategy struct{}

func (costMinStrategy) Name() string { return StrategyCostMin }

func (costMinStrategy) Allocate(r *run) {
	remaining := make(map[string]int, len(r.demand))
	for _, u := range r.demand {
		remaining[u.ClassID+"/"+u.SubjectCode]++
	}

	ordered := r.classesByDemand()

	// Seed counter-shift content before the home grids fill up; the seeded
	// lesson consumes regular demand, it is not a repair supplement.
	for _, classID := range ordered {
		c := r.classByID[classID]
		if c.CounterShiftEligible() {
			seedCounterShift(r, c, remaining)
		}
	}

	for _, classID := range ordered {
		for _, code := range r.prioritySubjects(classID) {
			key := classID + "/" + code
			for remaining[key] > 0 {
				u := DemandUnit{ClassID: classID, SubjectCode: code}
				if r.evals >= r.cfg.MaxCandidateEvals {
					r.budgetExhausted = true
				}
				if r.budgetExhausted {
					// Budget gone: finish with the cheap greedy scan instead
					// of leaving the rest of the demand unplaced.
					p := &probe{}
					lesson, ok := greedyPick(r, u, p)
					if !ok {
						r.markUnassigned(u, p)
						remaining[key]--
						continue
					}
					r.st.place(lesson)
					remaining[key]--
					continue
				}

				if remaining[key] >= 2 {
					if block, ok := bestBlock(r, u); ok {
						for _, l := range block {
							r.st.place(l)
						}
						remaining[key] -= 2
						continue
					}
				}

				p := &probe{}
				lesson, ok := bestSingle(r, u, p)
				if !ok {
					r.markUnassigned(u, p)
					remaining[key]--
					continue
				}
				r.st.place(lesson)
				remaining[key]--
			}
		}
	}
}

// seedCounterShift places one opposite-shift lesson for the class's highest
// priority subject that still has demand, charging it against that demand.
// Failure to seed is not an error; the main walk and the repair pass still
// get their chance at the opposite shift.
func seedCounterShift(r *run, c models.SchoolClass, remaining map[string]int) {
	for _, code := range r.prioritySubjects(c.ID) {
		key := c.ID + "/" + code
		if remaining[key] <= 0 {
			continue
		}
		u := DemandUnit{ClassID: c.ID, SubjectCode: code}
		var (
			best     Lesson
			bestCost float64
			found    bool
		)
		for _, slot := range r.counterShiftSlots(c) {
			for _, t := range r.teachers {
				if !r.feasible(u, t, slot, nil) {
					continue
				}
				cost := placementCost(r, c.ID, t, []Slot{slot})
				if !found || cost < bestCost {
					found = true
					bestCost = cost
					best = lessonAt(u, t, slot)
				}
			}
		}
		if found {
			r.st.place(best)
			remaining[key]--
			return
		}
	}
}

func bestSingle(r *run, u DemandUnit, p *probe) (Lesson, bool) {
	var (
		best     Lesson
		bestCost float64
		found    bool
	)
	for _, slot := range candidateSlots(r, u.ClassID) {
		for _, t := range r.teachers {
			if !r.feasible(u, t, slot, p) {
				continue
			}
			cost := placementCost(r, u.ClassID, t, []Slot{slot})
			if !found || cost < bestCost {
				found = true
				bestCost = cost
				best = lessonAt(u, t, slot)
			}
		}
	}
	return best, found
}

// bestBlock searches for two adjacent same-day periods a single teacher can
// cover. Both slots must be feasible before either is committed; the pair is
// the one same-day repeat the engine permits.
func bestBlock(r *run, u DemandUnit) ([]Lesson, bool) {
	var (
		best     []Lesson
		bestCost float64
		found    bool
	)
	slots := candidateSlots(r, u.ClassID)
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			if a.Day != b.Day || a.Shift != b.Shift {
				continue
			}
			if b.Period-a.Period != 1 {
				continue
			}
			for _, t := range r.teachers {
				if !r.feasible(u, t, a, nil) || !r.feasible(u, t, b, nil) {
					continue
				}
				cost := placementCost(r, u.ClassID, t, []Slot{a, b})
				if !found || cost < bestCost {
					found = true
					bestCost = cost
					best = []Lesson{lessonAt(u, t, a), lessonAt(u, t, b)}
				}
			}
		}
	}
	return best, found
}

// placementCost scores a candidate placement: teacher load balance, the gaps
// the placement would leave in the class's and the teacher's day, the
// single-period surcharge and the counter-shift surcharge.
func placementCost(r *run, classID string, t *teacherInfo, slots []Slot) float64 {
	cost := float64(r.st.load(t.id)) * loadBalanceWeight
	cost += float64(dayGapsAfter(r, classID, slots)) * gapWeight
	cost += float64(teacherGapsAfter(r, t.id, slots)) * gapWeight
	if len(slots) == 1 {
		cost += singlePeriodPenalty
	}
	for _, s := range slots {
		if s.CounterShift {
			cost += counterShiftSurcharge
		}
	}
	return cost
}

// dayGapsAfter counts the free periods between the first and last occupied
// period of the affected (day, shift), with the candidate slots tentatively
// added to the class's committed lessons.
func dayGapsAfter(r *run, classID string, candidates []Slot) int {
	day, shift := candidates[0].Day, candidates[0].Shift
	occupied := make(map[int]bool, r.cfg.PeriodsPerShift)
	for _, l := range r.st.classLessons(classID) {
		if l.Day == day && l.Shift == shift {
			occupied[l.Period] = true
		}
	}
	for _, s := range candidates {
		occupied[s.Period] = true
	}
	return countGaps(occupied)
}

// teacherGapsAfter mirrors dayGapsAfter for the teacher's side of the grid, so
// a candidate that strands a teacher between two far-apart periods costs more.
func teacherGapsAfter(r *run, teacherID string, candidates []Slot) int {
	day, shift := candidates[0].Day, candidates[0].Shift
	occupied := make(map[int]bool, r.cfg.PeriodsPerShift)
	for _, l := range r.st.teacherLessons(teacherID) {
		if l.Day == day && l.Shift == shift {
			occupied[l.Period] = true
		}
	}
	for _, s := range candidates {
		occupied[s.Period] = true
	}
	return countGaps(occupied)
}

// countGaps counts the free periods between the first and last occupied period.
func countGaps(occupied map[int]bool) int {
	first, last := 0, 0
	for p := range occupied {
		if first == 0 || p < first {
			first = p
		}
		if p > last {
			last = p
		}
	}
	gaps := 0
	for p := first; p <= last; p++ {
		if !occupied[p] {
			gaps++
		}
	}
	return gaps
}

func lessonAt(u DemandUnit, t *teacherInfo, slot Slot) Lesson {
	return Lesson{
		ClassID:      u.ClassID,
		SubjectCode:  u.SubjectCode,
		TeacherID:    t.id,
		Day:          slot.Day,
		Shift:        slot.Shift,
		Period:       slot.Period,
		CounterShift: slot.CounterShift,
	}
}
