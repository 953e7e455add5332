package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escola-adp/horario-api/internal/models"
)

type fixtureConfig struct {
	strategy string
	classes  []models.SchoolClass
	teachers []models.Teacher
	subjects []models.Subject
	loads    []models.WeeklyLoad
}

func runFixture(t *testing.T, fc fixtureConfig) *Result {
	t.Helper()
	engine := New(zap.NewNop())
	result, err := engine.Run(Config{Strategy: fc.strategy}, Snapshot{
		Classes:  fc.classes,
		Teachers: fc.teachers,
		Subjects: fc.subjects,
		Loads:    fc.loads,
	})
	require.NoError(t, err)
	return result
}

func fullAvailability(t models.Teacher) models.Teacher {
	t.MonM, t.MonA = true, true
	t.TueM, t.TueA = true, true
	t.WedM, t.WedA = true, true
	t.ThuM, t.ThuA = true, true
	t.FriM, t.FriA = true, true
	return t
}

func morningOnly(t models.Teacher) models.Teacher {
	t.MonM, t.TueM, t.WedM, t.ThuM, t.FriM = true, true, true, true, true
	return t
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	engine := New(nil)

	_, err := engine.Run(Config{Strategy: "simulated-annealing"}, Snapshot{})
	require.Error(t, err)

	_, err = engine.Run(Config{PeriodsPerShift: -1}, Snapshot{})
	require.Error(t, err)

	_, err = engine.Run(Config{CounterShiftPeriods: -3}, Snapshot{})
	require.Error(t, err)
}

func TestEngineEmptySnapshotYieldsEmptyResult(t *testing.T) {
	result := runFixture(t, fixtureConfig{})

	assert.Empty(t, result.Lessons)
	assert.Empty(t, result.Unassigned)
	assert.Equal(t, 1.0, result.Stats.Fitness)
	assert.True(t, result.Stats.CounterShiftOK)
}

func TestGreedySpreadsSubjectAcrossDays(t *testing.T) {
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-1a", GradeYear: 1, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			morningOnly(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-1a", SubjectCode: "MAT", HoursPerWeek: 3},
		},
	})

	require.Len(t, result.Lessons, 3)
	assert.Empty(t, result.Unassigned)

	days := map[int]bool{}
	for _, l := range result.Lessons {
		assert.Equal(t, models.ShiftMorning, l.Shift)
		assert.False(t, days[l.Day], "subject repeated on day %d", l.Day)
		days[l.Day] = true
	}
}

func TestRunNeverDoubleBooksClassOrTeacher(t *testing.T) {
	fc := fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-1a", GradeYear: 1, HomeShift: models.ShiftMorning},
			{ID: "class-1b", GradeYear: 1, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT,PORT", Active: true}),
			fullAvailability(models.Teacher{ID: "teacher-2", SubjectCodes: "PORT,CIEN", Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}, {Code: "PORT"}, {Code: "CIEN"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-1a", SubjectCode: "MAT", HoursPerWeek: 4},
			{ClassID: "class-1a", SubjectCode: "PORT", HoursPerWeek: 4},
			{ClassID: "class-1b", SubjectCode: "PORT", HoursPerWeek: 4},
			{ClassID: "class-1b", SubjectCode: "CIEN", HoursPerWeek: 3},
		},
	}

	for _, strategy := range []string{StrategyGreedy, StrategyCostMin} {
		fc.strategy = strategy
		result := runFixture(t, fc)

		classSeen := map[string]bool{}
		teacherSeen := map[string]bool{}
		for _, l := range result.Lessons {
			ck := fmt.Sprintf("%s/%d/%s/%d", l.ClassID, l.Day, l.Shift, l.Period)
			tk := fmt.Sprintf("%s/%d/%s/%d", l.TeacherID, l.Day, l.Shift, l.Period)
			assert.False(t, classSeen[ck], "%s: class double-booked", strategy)
			assert.False(t, teacherSeen[tk], "%s: teacher double-booked", strategy)
			classSeen[ck] = true
			teacherSeen[tk] = true
		}
	}
}

func TestRunConservesDemand(t *testing.T) {
	fc := fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-6a", GradeYear: 6, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT,PORT", CounterShiftOK: true, Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}, {Code: "PORT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-6a", SubjectCode: "MAT", HoursPerWeek: 4},
			{ClassID: "class-6a", SubjectCode: "PORT", HoursPerWeek: 4},
		},
	}

	for _, strategy := range []string{StrategyGreedy, StrategyCostMin} {
		fc.strategy = strategy
		result := runFixture(t, fc)

		assert.Equal(t, 8, result.Stats.PlacedCount+result.Stats.UnassignedCount, strategy)
		assert.Len(t, result.Lessons, result.Stats.PlacedCount+result.Stats.RepairPlacements, strategy)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	fc := fixtureConfig{
		strategy: StrategyCostMin,
		classes: []models.SchoolClass{
			{ID: "class-7a", GradeYear: 7, HomeShift: models.ShiftMorning},
			{ID: "class-2b", GradeYear: 2, HomeShift: models.ShiftAfternoon},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT,CIEN", CounterShiftOK: true, Active: true}),
			fullAvailability(models.Teacher{ID: "teacher-2", SubjectCodes: "PORT,HIST", CounterShiftOK: true, Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}, {Code: "PORT"}, {Code: "CIEN"}, {Code: "HIST"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-7a", SubjectCode: "MAT", HoursPerWeek: 5},
			{ClassID: "class-7a", SubjectCode: "PORT", HoursPerWeek: 4},
			{ClassID: "class-2b", SubjectCode: "CIEN", HoursPerWeek: 3},
			{ClassID: "class-2b", SubjectCode: "HIST", HoursPerWeek: 2},
		},
	}

	first := runFixture(t, fc)
	second := runFixture(t, fc)
	assert.Equal(t, first.Lessons, second.Lessons)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestCounterShiftRepairTopsUpEligibleClass(t *testing.T) {
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-6a", GradeYear: 6, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "PORT,MAT", CounterShiftOK: true, Active: true}),
		},
		subjects: []models.Subject{{Code: "PORT"}, {Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-6a", SubjectCode: "PORT", HoursPerWeek: 2},
			{ClassID: "class-6a", SubjectCode: "MAT", HoursPerWeek: 2},
		},
	})

	afternoon := 0
	for _, l := range result.Lessons {
		if l.CounterShift {
			assert.Equal(t, models.ShiftAfternoon, l.Shift)
			afternoon++
		}
	}
	assert.GreaterOrEqual(t, afternoon, 2)
	assert.Equal(t, 2, result.Stats.RepairPlacements)
	assert.True(t, result.Stats.CounterShiftOK)
	require.Len(t, result.Stats.Classes, 1)
	assert.True(t, result.Stats.Classes[0].CounterShiftOK)
}

func TestGreedySpillsDemandIntoCounterShiftSlots(t *testing.T) {
	// The only qualified teacher works afternoons; the grade-6 morning class
	// must still get its full load, placed in the opposite shift.
	teacher := models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", CounterShiftOK: true, Active: true}
	teacher.MonA, teacher.TueA, teacher.WedA = true, true, true

	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-6a", GradeYear: 6, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{teacher},
		subjects: []models.Subject{{Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-6a", SubjectCode: "MAT", HoursPerWeek: 2},
		},
	})

	assert.Empty(t, result.Unassigned)
	assert.Equal(t, 2, result.Stats.PlacedCount)
	require.Len(t, result.Lessons, 2)
	for _, l := range result.Lessons {
		assert.Equal(t, models.ShiftAfternoon, l.Shift)
		assert.True(t, l.CounterShift)
	}
	assert.Zero(t, result.Stats.RepairPlacements)
	assert.True(t, result.Stats.CounterShiftOK)
}

func TestGreedyPrefersHomeShiftWhenBothFit(t *testing.T) {
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-6a", GradeYear: 6, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", CounterShiftOK: true, Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-6a", SubjectCode: "MAT", HoursPerWeek: 3},
		},
	})

	assert.Equal(t, 3, result.Stats.PlacedCount)
	for _, l := range result.Lessons {
		if l.CounterShift {
			continue
		}
		assert.Equal(t, models.ShiftMorning, l.Shift)
	}
}

func TestCounterShiftRepairSkipsIneligibleGrades(t *testing.T) {
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-2a", GradeYear: 2, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "PORT", CounterShiftOK: true, Active: true}),
		},
		subjects: []models.Subject{{Code: "PORT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-2a", SubjectCode: "PORT", HoursPerWeek: 2},
		},
	})

	assert.Zero(t, result.Stats.RepairPlacements)
	for _, l := range result.Lessons {
		assert.False(t, l.CounterShift)
	}
	assert.True(t, result.Stats.CounterShiftOK)
}

func TestCounterShiftShortfallLowersFitness(t *testing.T) {
	// Teacher refuses counter-shift work, so the grade-6 class stays short.
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-6a", GradeYear: 6, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			morningOnly(models.Teacher{ID: "teacher-1", SubjectCodes: "PORT", Active: true}),
		},
		subjects: []models.Subject{{Code: "PORT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-6a", SubjectCode: "PORT", HoursPerWeek: 2},
		},
	})

	assert.Zero(t, result.Stats.RepairPlacements)
	assert.False(t, result.Stats.CounterShiftOK)
	assert.InDelta(t, 0.95, result.Stats.Fitness, 1e-9)
}

func TestUnassignedWhenNoQualifiedTeacher(t *testing.T) {
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-1a", GradeYear: 1, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}, {Code: "ART"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-1a", SubjectCode: "ART", HoursPerWeek: 2},
		},
	})

	require.Len(t, result.Unassigned, 2)
	for _, u := range result.Unassigned {
		assert.Equal(t, ReasonSubjectNoTeacher, u.Reason)
	}
}

func TestUnassignedWhenCapacityExhausted(t *testing.T) {
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-1a", GradeYear: 1, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", MaxWeeklyLoad: 1, Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-1a", SubjectCode: "MAT", HoursPerWeek: 2},
		},
	})

	assert.Equal(t, 1, result.Stats.PlacedCount)
	require.Len(t, result.Unassigned, 1)
	assert.Equal(t, ReasonTeacherCapacityExhausted, result.Unassigned[0].Reason)
}

func TestUnassignedWhenAvailabilityNeverMatches(t *testing.T) {
	// Qualified afternoon-only teacher, morning class.
	teacher := models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", Active: true}
	teacher.MonA, teacher.TueA = true, true

	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-1a", GradeYear: 1, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{teacher},
		subjects: []models.Subject{{Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-1a", SubjectCode: "MAT", HoursPerWeek: 1},
		},
	})

	require.Len(t, result.Unassigned, 1)
	assert.Equal(t, ReasonAvailabilityMismatch, result.Unassigned[0].Reason)
}

func TestUnassignedWhenSlotsExhausted(t *testing.T) {
	// Six weekly hours but only five days: the same-day rule blocks every
	// remaining slot for the sixth unit, and a qualified teacher exists, so
	// the reason must name the slots, not the roster.
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-1a", GradeYear: 1, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			morningOnly(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-1a", SubjectCode: "MAT", HoursPerWeek: 6},
		},
	})

	assert.Equal(t, 5, result.Stats.PlacedCount)
	require.Len(t, result.Unassigned, 1)
	assert.Equal(t, ReasonNoSlotLeft, result.Unassigned[0].Reason)
}

func TestAllowListRestrictsTeacher(t *testing.T) {
	allowed := "class-1b"
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-1a", GradeYear: 1, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", AllowedClassIDs: &allowed, Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-1a", SubjectCode: "MAT", HoursPerWeek: 1},
		},
	})

	require.Len(t, result.Unassigned, 1)
	assert.Equal(t, ReasonSubjectNoTeacher, result.Unassigned[0].Reason)
}

func TestSkippedLoadRowsAreCounted(t *testing.T) {
	result := runFixture(t, fixtureConfig{
		classes: []models.SchoolClass{
			{ID: "class-1a", GradeYear: 1, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-1a", SubjectCode: "MAT", HoursPerWeek: 1},
			{ClassID: "ghost-class", SubjectCode: "MAT", HoursPerWeek: 2},
			{ClassID: "class-1a", SubjectCode: "UNKNOWN", HoursPerWeek: 2},
			{ClassID: "class-1a", SubjectCode: "MAT", HoursPerWeek: 0},
		},
	})

	assert.Equal(t, 3, result.Stats.SkippedLoadRows)
	assert.Equal(t, 1, result.Stats.PlacedCount)
}

func TestCostMinPlacesDoubleBlocks(t *testing.T) {
	result := runFixture(t, fixtureConfig{
		strategy: StrategyCostMin,
		classes: []models.SchoolClass{
			{ID: "class-3a", GradeYear: 3, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			morningOnly(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", Active: true}),
		},
		subjects: []models.Subject{{Code: "MAT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-3a", SubjectCode: "MAT", HoursPerWeek: 2},
		},
	})

	require.Len(t, result.Lessons, 2)
	a, b := result.Lessons[0], result.Lessons[1]
	assert.Equal(t, a.Day, b.Day)
	assert.Equal(t, a.TeacherID, b.TeacherID)
	assert.Equal(t, 1, b.Period-a.Period)
}

func TestCostMinSeedsCounterShiftEarly(t *testing.T) {
	result := runFixture(t, fixtureConfig{
		strategy: StrategyCostMin,
		classes: []models.SchoolClass{
			{ID: "class-6a", GradeYear: 6, HomeShift: models.ShiftMorning},
		},
		teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "PORT", CounterShiftOK: true, Active: true}),
		},
		subjects: []models.Subject{{Code: "PORT"}},
		loads: []models.WeeklyLoad{
			{ClassID: "class-6a", SubjectCode: "PORT", HoursPerWeek: 4},
		},
	})

	assert.Empty(t, result.Unassigned)
	assert.Equal(t, 4, result.Stats.PlacedCount)

	counterShift := 0
	for _, l := range result.Lessons {
		if l.CounterShift {
			counterShift++
		}
	}
	// One opposite-shift lesson is seeded from the weekly demand itself, so
	// the repair pass only needs a single supplementary period.
	assert.Equal(t, 2, counterShift)
	assert.Equal(t, 1, result.Stats.RepairPlacements)
	assert.True(t, result.Stats.CounterShiftOK)
}

func TestOrderDemandPutsScarceSubjectsFirst(t *testing.T) {
	snap := Snapshot{
		Classes: []models.SchoolClass{
			{ID: "class-1a", GradeYear: 1, HomeShift: models.ShiftMorning},
		},
		Teachers: []models.Teacher{
			fullAvailability(models.Teacher{ID: "teacher-1", SubjectCodes: "MAT", Active: true}),
			fullAvailability(models.Teacher{ID: "teacher-2", SubjectCodes: "MAT,PORT", Active: true}),
		},
		Subjects: []models.Subject{{Code: "MAT"}, {Code: "PORT"}},
		Loads: []models.WeeklyLoad{
			{ClassID: "class-1a", SubjectCode: "MAT", HoursPerWeek: 1},
			{ClassID: "class-1a", SubjectCode: "PORT", HoursPerWeek: 1},
		},
	}
	cfg := Config{}
	cfg.applyDefaults()

	r := newRun(cfg, snap)
	ordered := orderDemand(r, r.demand)
	require.Len(t, ordered, 2)
	assert.Equal(t, "PORT", ordered[0].SubjectCode, "single-teacher subject should lead")
}
