package scheduler

// greedyStrategy walks demand hardest-first and commits each unit to the
// earliest slot where any teacher fits, picking the least-loaded qualified
// teacher at that slot. Fast and stable; it never revisits a placement.
type greedyStrategy struct{}

func (greedyStrategy) Name() string { return StrategyGreedy }

func (greedyStrategy) Allocate(r *run) {
	for _, u := range orderDemand(r, r.demand) {
		p := &probe{}
		lesson, ok := greedyPick(r, u, p)
		if !ok {
			r.markUnassigned(u, p)
			continue
		}
		r.st.place(lesson)
	}
}

// greedyPick scans the class's candidate slots in day-major order, home-shift
// slots before counter-shift ones, and returns the first feasible
// (slot, teacher) pair, choosing the teacher with the lowest committed load at
// that slot. Ties keep roster order.
func greedyPick(r *run, u DemandUnit, p *probe) (Lesson, bool) {
	for _, slot := range candidateSlots(r, u.ClassID) {
		var best *teacherInfo
		for _, t := range r.teachers {
			if !r.feasible(u, t, slot, p) {
				continue
			}
			if best == nil || r.st.load(t.id) < r.st.load(best.id) {
				best = t
			}
		}
		if best != nil {
			return lessonAt(u, best, slot), true
		}
	}
	return Lesson{}, false
}
