package scheduler

import (
	"sort"
	"strings"

	"github.com/escola-adp/horario-api/internal/models"
)

// Snapshot is the immutable entity view for one generation run.
type Snapshot struct {
	Classes   []models.SchoolClass
	Teachers  []models.Teacher
	Subjects  []models.Subject
	Loads     []models.WeeklyLoad
	Timeslots []models.Timeslot
}

// teacherInfo is the engine-internal teacher view: parsed subject set,
// allow-list and the indexed availability matrix.
type teacherInfo struct {
	id           string
	order        int
	subjects     map[string]struct{}
	capacity     int
	counterShift bool
	allowed      map[string]struct{} // nil means any class
	avail        [5][2]bool
}

func (t *teacherInfo) qualifiedFor(subjectCode string) bool {
	_, ok := t.subjects[subjectCode]
	return ok
}

func (t *teacherInfo) allowsClass(classID string) bool {
	if t.allowed == nil {
		return true
	}
	_, ok := t.allowed[classID]
	return ok
}

func (t *teacherInfo) availableOn(day int, shift models.Shift) bool {
	if day < 1 || day > 5 {
		return false
	}
	return t.avail[day-1][shift.Index()]
}

// run bundles the derived snapshot views plus the per-run mutable claim state.
type run struct {
	cfg Config

	classes    []models.SchoolClass
	classByID  map[string]models.SchoolClass
	teachers   []*teacherInfo
	subjectSet map[string]struct{}

	demand          []DemandUnit
	demandByClass   map[string]map[string]int
	slotSpace       map[string][]Slot
	catalogue       []Slot
	subjectPriority map[string]int

	st         *state
	unassigned []Unassigned

	skippedLoadRows  int
	repairPlacements int
	evals            int
	budgetExhausted  bool
}

func newRun(cfg Config, snap Snapshot) *run {
	r := &run{
		cfg:        cfg,
		classes:    snap.Classes,
		classByID:  make(map[string]models.SchoolClass, len(snap.Classes)),
		subjectSet: make(map[string]struct{}, len(snap.Subjects)),
		st:         newState(),
	}
	for _, c := range snap.Classes {
		r.classByID[c.ID] = c
	}
	for _, s := range snap.Subjects {
		r.subjectSet[strings.ToUpper(strings.TrimSpace(s.Code))] = struct{}{}
	}

	r.teachers = make([]*teacherInfo, 0, len(snap.Teachers))
	for i, t := range snap.Teachers {
		r.teachers = append(r.teachers, &teacherInfo{
			id:           t.ID,
			order:        i,
			subjects:     t.SubjectSet(),
			capacity:     t.MaxWeeklyLoad,
			counterShift: t.CounterShiftOK,
			allowed:      t.AllowedClassSet(),
			avail:        t.Availability(),
		})
	}

	r.subjectPriority = make(map[string]int, len(cfg.SubjectPriority))
	for i, code := range cfg.SubjectPriority {
		r.subjectPriority[strings.ToUpper(strings.TrimSpace(code))] = i
	}

	r.demand, r.skippedLoadRows = buildDemand(snap.Loads, r)
	r.demandByClass = groupDemand(r.demand)
	r.slotSpace = buildSlotSpace(snap.Classes, snap.Timeslots, cfg)
	r.catalogue = buildCatalogue(snap.Timeslots, cfg)
	return r
}

// eligibleTeacherCount supports scarcest-resource-first demand ordering.
func (r *run) eligibleTeacherCount(subjectCode, classID string) int {
	count := 0
	for _, t := range r.teachers {
		if !t.qualifiedFor(subjectCode) {
			continue
		}
		if !t.allowsClass(classID) {
			continue
		}
		count++
	}
	return count
}

// subjectRank orders subjects by the configured priority table; unknown
// subjects sort after known ones, alphabetically for determinism.
func (r *run) subjectRank(code string) int {
	if rank, ok := r.subjectPriority[code]; ok {
		return rank
	}
	return len(r.subjectPriority)
}

func groupDemand(units []DemandUnit) map[string]map[string]int {
	grouped := make(map[string]map[string]int)
	for _, u := range units {
		if grouped[u.ClassID] == nil {
			grouped[u.ClassID] = make(map[string]int)
		}
		grouped[u.ClassID][u.SubjectCode]++
	}
	return grouped
}

// classesByDemand returns class ids ordered by descending total weekly demand.
func (r *run) classesByDemand() []string {
	ids := make([]string, 0, len(r.demandByClass))
	for id := range r.demandByClass {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := 0, 0
		for _, n := range r.demandByClass[ids[i]] {
			ti += n
		}
		for _, n := range r.demandByClass[ids[j]] {
			tj += n
		}
		if ti != tj {
			return ti > tj
		}
		return ids[i] < ids[j]
	})
	return ids
}
