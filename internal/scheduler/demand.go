package scheduler

import (
	"sort"
	"strings"

	"github.com/escola-adp/horario-api/internal/models"
)

// DemandUnit is one period of one subject that one class must receive this
// week. A weekly load of N hours expands into N units.
type DemandUnit struct {
	ClassID     string
	SubjectCode string
	// Seq numbers the units of one (class, subject) pair from zero.
	Seq int
}

// buildDemand expands weekly loads into demand units. Load rows referencing
// an unknown class or subject, or with a non-positive hour count, are skipped
// and counted rather than failing the run.
func buildDemand(loads []models.WeeklyLoad, r *run) ([]DemandUnit, int) {
	units := make([]DemandUnit, 0, len(loads)*4)
	skipped := 0
	for _, load := range loads {
		code := strings.ToUpper(strings.TrimSpace(load.SubjectCode))
		if load.HoursPerWeek <= 0 {
			skipped++
			continue
		}
		if _, ok := r.classByID[load.ClassID]; !ok {
			skipped++
			continue
		}
		if _, ok := r.subjectSet[code]; !ok {
			skipped++
			continue
		}
		for seq := 0; seq < load.HoursPerWeek; seq++ {
			units = append(units, DemandUnit{ClassID: load.ClassID, SubjectCode: code, Seq: seq})
		}
	}
	return units, skipped
}

// orderDemand sorts units hardest-first: subjects with the fewest eligible
// teachers lead, then the configured subject priority, then class id and
// sequence for a stable, deterministic order.
func orderDemand(r *run, units []DemandUnit) []DemandUnit {
	ordered := make([]DemandUnit, len(units))
	copy(ordered, units)

	scarcity := make(map[string]int)
	for _, u := range ordered {
		key := u.ClassID + "/" + u.SubjectCode
		if _, ok := scarcity[key]; !ok {
			scarcity[key] = r.eligibleTeacherCount(u.SubjectCode, u.ClassID)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		sa := scarcity[a.ClassID+"/"+a.SubjectCode]
		sb := scarcity[b.ClassID+"/"+b.SubjectCode]
		if sa != sb {
			return sa < sb
		}
		ra, rb := r.subjectRank(a.SubjectCode), r.subjectRank(b.SubjectCode)
		if ra != rb {
			return ra < rb
		}
		if a.ClassID != b.ClassID {
			return a.ClassID < b.ClassID
		}
		if a.SubjectCode != b.SubjectCode {
			return a.SubjectCode < b.SubjectCode
		}
		return a.Seq < b.Seq
	})
	return ordered
}
