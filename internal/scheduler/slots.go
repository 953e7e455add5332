package scheduler

import (
	"sort"

	"github.com/escola-adp/horario-api/internal/models"
)

// Slot is one assignable period. CounterShift marks slots outside the class's
// home shift, offered only to counter-shift-eligible classes.
type Slot struct {
	Day          int
	Shift        models.Shift
	Period       int
	CounterShift bool
}

func (s Slot) key() slotKey {
	return slotKey{day: s.Day, shift: s.Shift, period: s.Period}
}

// buildCatalogue derives the teaching grid from the timeslot catalogue, or
// synthesizes the full 5-day x 2-shift x N-period grid when the catalogue is
// empty. Non-teaching entries are dropped either way.
func buildCatalogue(timeslots []models.Timeslot, cfg Config) []Slot {
	slots := make([]Slot, 0, 5*2*cfg.PeriodsPerShift)
	if len(timeslots) == 0 {
		for day := 1; day <= 5; day++ {
			for _, shift := range []models.Shift{models.ShiftMorning, models.ShiftAfternoon} {
				for period := 1; period <= cfg.PeriodsPerShift; period++ {
					slots = append(slots, Slot{Day: day, Shift: shift, Period: period})
				}
			}
		}
		return slots
	}
	for _, ts := range timeslots {
		if !ts.IsTeaching {
			continue
		}
		if ts.Day < 1 || ts.Day > 5 || ts.Period < 1 || ts.Period > cfg.PeriodsPerShift {
			continue
		}
		slots = append(slots, Slot{Day: ts.Day, Shift: ts.Shift, Period: ts.Period})
	}
	sortSlots(slots)
	return slots
}

// buildSlotSpace assigns every class its home-shift slots, in day-major order.
// Counter-shift slots are not stored here; candidateSlots appends them for
// eligible classes so home-shift slots always come first.
func buildSlotSpace(classes []models.SchoolClass, timeslots []models.Timeslot, cfg Config) map[string][]Slot {
	catalogue := buildCatalogue(timeslots, cfg)
	space := make(map[string][]Slot, len(classes))
	for _, c := range classes {
		slots := make([]Slot, 0, 5*cfg.PeriodsPerShift)
		for _, s := range catalogue {
			if s.Shift == c.HomeShift {
				slots = append(slots, s)
			}
		}
		space[c.ID] = slots
	}
	return space
}

// candidateSlots is the class's home-shift space, extended with counter-shift
// slots when the class is eligible. Both strategies scan it in this order, so
// demand spills into the opposite shift only when the home shift cannot take it.
func candidateSlots(r *run, classID string) []Slot {
	slots := r.slotSpace[classID]
	c, ok := r.classByID[classID]
	if !ok || !c.CounterShiftEligible() {
		return slots
	}
	extended := make([]Slot, 0, len(slots)*2)
	extended = append(extended, slots...)
	extended = append(extended, r.counterShiftSlots(c)...)
	return extended
}

// counterShiftSlots returns the opposite-shift slots of a class, each flagged
// as counter-shift.
func (r *run) counterShiftSlots(c models.SchoolClass) []Slot {
	opposite := c.HomeShift.Opposite()
	slots := make([]Slot, 0, 5*r.cfg.PeriodsPerShift)
	for _, s := range r.catalogue {
		if s.Shift == opposite {
			slots = append(slots, Slot{Day: s.Day, Shift: s.Shift, Period: s.Period, CounterShift: true})
		}
	}
	return slots
}

func sortSlots(slots []Slot) {
	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Shift != b.Shift {
			return a.Shift == models.ShiftMorning
		}
		return a.Period < b.Period
	})
}
