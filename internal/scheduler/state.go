package scheduler

import "github.com/escola-adp/horario-api/internal/models"

// slotKey identifies one period of the weekly grid.
type slotKey struct {
	day    int
	shift  models.Shift
	period int
}

type classSlotKey struct {
	classID string
	slot    slotKey
}

type teacherSlotKey struct {
	teacherID string
	slot      slotKey
}

type classSubjectDayKey struct {
	classID     string
	subjectCode string
	day         int
}

// state holds the claim sets mutated as lessons are committed. All strategies
// and the repair pass go through place() so the invariants hold everywhere.
type state struct {
	classBusy       map[classSlotKey]struct{}
	teacherBusy     map[teacherSlotKey]struct{}
	classSubjectDay map[classSubjectDayKey]struct{}
	teacherLoad     map[string]int
	lessons         []Lesson
}

func newState() *state {
	return &state{
		classBusy:       make(map[classSlotKey]struct{}),
		teacherBusy:     make(map[teacherSlotKey]struct{}),
		classSubjectDay: make(map[classSubjectDayKey]struct{}),
		teacherLoad:     make(map[string]int),
	}
}

func (s *state) classOccupied(classID string, slot Slot) bool {
	_, ok := s.classBusy[classSlotKey{classID, slot.key()}]
	return ok
}

func (s *state) teacherOccupied(teacherID string, slot Slot) bool {
	_, ok := s.teacherBusy[teacherSlotKey{teacherID, slot.key()}]
	return ok
}

func (s *state) subjectTaughtOn(classID, subjectCode string, day int) bool {
	_, ok := s.classSubjectDay[classSubjectDayKey{classID, subjectCode, day}]
	return ok
}

func (s *state) load(teacherID string) int {
	return s.teacherLoad[teacherID]
}

// place commits one lesson, claiming the class slot, the teacher slot, the
// class/subject/day marker and one unit of teacher load.
func (s *state) place(l Lesson) {
	slot := Slot{Day: l.Day, Shift: l.Shift, Period: l.Period}
	s.classBusy[classSlotKey{l.ClassID, slot.key()}] = struct{}{}
	s.teacherBusy[teacherSlotKey{l.TeacherID, slot.key()}] = struct{}{}
	s.classSubjectDay[classSubjectDayKey{l.ClassID, l.SubjectCode, l.Day}] = struct{}{}
	s.teacherLoad[l.TeacherID]++
	s.lessons = append(s.lessons, l)
}

// classLessons returns the committed lessons of one class, in commit order.
func (s *state) classLessons(classID string) []Lesson {
	out := make([]Lesson, 0, 8)
	for _, l := range s.lessons {
		if l.ClassID == classID {
			out = append(out, l)
		}
	}
	return out
}

// teacherLessons returns the committed lessons of one teacher, in commit order.
func (s *state) teacherLessons(teacherID string) []Lesson {
	out := make([]Lesson, 0, 8)
	for _, l := range s.lessons {
		if l.TeacherID == teacherID {
			out = append(out, l)
		}
	}
	return out
}
