package scheduler

// Unassigned reason codes, from most to least specific.
const (
	ReasonSubjectNoTeacher         = "subject-no-teacher"
	ReasonTeacherCapacityExhausted = "teacher-capacity-exhausted"
	ReasonAvailabilityMismatch     = "availability-mismatch"
	ReasonNoSlotLeft               = "no-slot-left"
)

// Unassigned records one demand unit no strategy could place.
type Unassigned struct {
	ClassID     string `json:"class_id"`
	SubjectCode string `json:"subject_code"`
	Reason      string `json:"reason"`
}

// probe aggregates why candidate (teacher, slot) pairs failed for one demand
// unit, so the final reason names the binding constraint instead of a generic
// failure. Qualification and allow-list are teacher properties recorded
// independently of slot state; the remaining flags are per-candidate.
type probe struct {
	sawQualified    bool
	sawAllowed      bool
	sawOpenSlot     bool
	sawAvailable    bool
	sawCapacityFree bool
}

func (p *probe) reason() string {
	switch {
	case !p.sawQualified || !p.sawAllowed:
		return ReasonSubjectNoTeacher
	case !p.sawOpenSlot:
		return ReasonNoSlotLeft
	case !p.sawAvailable:
		return ReasonAvailabilityMismatch
	case !p.sawCapacityFree:
		return ReasonTeacherCapacityExhausted
	default:
		return ReasonNoSlotLeft
	}
}

// feasible is the single placement predicate: every strategy and the repair
// pass route candidates through it. All clauses must hold:
//
//  1. the class slot is free
//  2. the class does not already take this subject that day
//  3. the teacher is qualified for the subject
//  4. the teacher's allow-list admits the class
//  5. the teacher is available on (day, shift); counter-shift slots
//     additionally require the teacher's counter-shift flag
//  6. the teacher has remaining weekly capacity (zero means unlimited)
//  7. the teacher slot is free
func (r *run) feasible(u DemandUnit, t *teacherInfo, slot Slot, p *probe) bool {
	r.evals++
	qualified := t.qualifiedFor(u.SubjectCode)
	if p != nil && qualified {
		p.sawQualified = true
		if t.allowsClass(u.ClassID) {
			p.sawAllowed = true
		}
	}
	if r.st.classOccupied(u.ClassID, slot) {
		return false
	}
	if r.st.subjectTaughtOn(u.ClassID, u.SubjectCode, slot.Day) {
		return false
	}
	if p != nil {
		p.sawOpenSlot = true
	}
	if !qualified {
		return false
	}
	if !t.allowsClass(u.ClassID) {
		return false
	}
	if !t.availableOn(slot.Day, slot.Shift) {
		return false
	}
	if slot.CounterShift && !t.counterShift {
		return false
	}
	if p != nil {
		p.sawAvailable = true
	}
	if t.capacity > 0 && r.st.load(t.id) >= t.capacity {
		return false
	}
	if p != nil {
		p.sawCapacityFree = true
	}
	if r.st.teacherOccupied(t.id, slot) {
		return false
	}
	return true
}

// markUnassigned records a demand unit that found no feasible placement.
func (r *run) markUnassigned(u DemandUnit, p *probe) {
	r.unassigned = append(r.unassigned, Unassigned{
		ClassID:     u.ClassID,
		SubjectCode: u.SubjectCode,
		Reason:      p.reason(),
	})
}
