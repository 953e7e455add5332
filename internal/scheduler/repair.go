package scheduler

import "sort"

// repairCounterShift tops up counter-shift-eligible classes to the configured
// minimum of opposite-shift periods. Repair lessons are supplementary: they
// reinforce subjects the class already takes and sit on top of the weekly
// demand, so they are counted apart from regular placements.
func repairCounterShift(r *run) {
	if r.cfg.CounterShiftPeriods <= 0 {
		return
	}
	for _, c := range r.classes {
		if !c.CounterShiftEligible() {
			continue
		}
		have := r.counterShiftCount(c.ID)
		if have >= r.cfg.CounterShiftPeriods {
			continue
		}
		subjects := r.prioritySubjects(c.ID)
		slots := r.counterShiftSlots(c)
		for _, slot := range slots {
			if have >= r.cfg.CounterShiftPeriods {
				break
			}
			lesson, ok := pickRepairLesson(r, c.ID, subjects, slot)
			if !ok {
				continue
			}
			r.st.place(lesson)
			r.repairPlacements++
			have++
		}
	}
}

func (r *run) counterShiftCount(classID string) int {
	n := 0
	for _, l := range r.st.classLessons(classID) {
		if l.CounterShift {
			n++
		}
	}
	return n
}

// prioritySubjects lists the class's subjects in priority order; the cost
// strategy walks them in this order and repair periods reinforce core
// subjects first.
func (r *run) prioritySubjects(classID string) []string {
	codes := make([]string, 0, len(r.demandByClass[classID]))
	for code := range r.demandByClass[classID] {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		ri, rj := r.subjectRank(codes[i]), r.subjectRank(codes[j])
		if ri != rj {
			return ri < rj
		}
		return codes[i] < codes[j]
	})
	return codes
}

// pickRepairLesson tries each candidate subject at the slot with the
// least-loaded feasible counter-shift teacher.
func pickRepairLesson(r *run, classID string, subjects []string, slot Slot) (Lesson, bool) {
	for _, code := range subjects {
		u := DemandUnit{ClassID: classID, SubjectCode: code}
		var best *teacherInfo
		for _, t := range r.teachers {
			if !r.feasible(u, t, slot, nil) {
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
