package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escola-adp/horario-api/internal/dto"
	"github.com/escola-adp/horario-api/internal/models"
	"github.com/escola-adp/horario-api/internal/scheduler"
	"github.com/escola-adp/horario-api/pkg/config"
	appErrors "github.com/escola-adp/horario-api/pkg/errors"
)

type rosterStub struct {
	classes   []models.SchoolClass
	teachers  []models.Teacher
	subjects  []models.Subject
	loads     []models.WeeklyLoad
	timeslots []models.Timeslot
}

func (r rosterStub) ListAll(ctx context.Context) ([]models.SchoolClass, error) {
	return r.classes, nil
}

type teacherListerStub struct{ teachers []models.Teacher }

func (t teacherListerStub) ListActive(ctx context.Context) ([]models.Teacher, error) {
	return t.teachers, nil
}

type subjectListerStub struct{ subjects []models.Subject }

func (s subjectListerStub) ListAll(ctx context.Context) ([]models.Subject, error) {
	return s.subjects, nil
}

type loadListerStub struct{ loads []models.WeeklyLoad }

func (l loadListerStub) ListAll(ctx context.Context) ([]models.WeeklyLoad, error) {
	return l.loads, nil
}

type timeslotListerStub struct{ slots []models.Timeslot }

func (t timeslotListerStub) ListAll(ctx context.Context) ([]models.Timeslot, error) {
	return t.slots, nil
}

type scheduleStoreStub struct {
	schedules []models.Schedule
	lessons   map[string][]models.Lesson
}

func newScheduleStoreStub() *scheduleStoreStub {
	return &scheduleStoreStub{lessons: make(map[string][]models.Lesson)}
}

func (s *scheduleStoreStub) CreateWithLessons(ctx context.Context, schedule *models.Schedule, lessons []models.Lesson) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}
	for i := range lessons {
		lessons[i].ScheduleID = schedule.ID
	}
	s.schedules = append(s.schedules, *schedule)
	s.lessons[schedule.ID] = lessons
	return nil
}

func (s *scheduleStoreStub) FindLatest(ctx context.Context) (*models.Schedule, error) {
	if len(s.schedules) == 0 {
		return nil, sql.ErrNoRows
	}
	latest := s.schedules[len(s.schedules)-1]
	return &latest, nil
}

func (s *scheduleStoreStub) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	for _, sched := range s.schedules {
		if sched.ID == id {
			return &sched, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *scheduleStoreStub) List(ctx context.Context, page, pageSize int) ([]models.Schedule, int, error) {
	return s.schedules, len(s.schedules), nil
}

func (s *scheduleStoreStub) ListLessons(ctx context.Context, scheduleID string) ([]models.Lesson, error) {
	return s.lessons[scheduleID], nil
}

func (s *scheduleStoreStub) ListClassLessons(ctx context.Context, scheduleID, classID string) ([]models.Lesson, error) {
	out := []models.Lesson{}
	for _, l := range s.lessons[scheduleID] {
		if l.ClassID == classID {
			out = append(out, l)
		}
	}
	return out, nil
}

type cacheStub struct {
	values      map[string][]byte
	deletions   []string
	setCalls    int
	failWithErr error
}

func newCacheStub() *cacheStub {
	return &cacheStub{values: make(map[string][]byte)}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if c.failWithErr != nil {
		return c.failWithErr
	}
	raw, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	c.setCalls++
	return nil
}

func (c *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.deletions = append(c.deletions, pattern)
	c.values = make(map[string][]byte)
	return nil
}

type timetableFixture struct {
	service *TimetableService
	store   *scheduleStoreStub
	cache   *cacheStub
}

func newTimetableFixture(t *testing.T) *timetableFixture {
	t.Helper()
	roster := rosterStub{
		classes: []models.SchoolClass{
			{ID: "class-6a", Name: "6A", GradeYear: 6, HomeShift: models.ShiftMorning},
		},
	}
	teachers := teacherListerStub{teachers: []models.Teacher{
		{
			ID: "teacher-1", FullName: "Maria Souza", SubjectCodes: "PORT,MAT", CounterShiftOK: true, Active: true,
			MonM: true, MonA: true, TueM: true, TueA: true, WedM: true, WedA: true,
			ThuM: true, ThuA: true, FriM: true, FriA: true,
		},
	}}
	subjects := subjectListerStub{subjects: []models.Subject{{Code: "PORT"}, {Code: "MAT"}}}
	loads := loadListerStub{loads: []models.WeeklyLoad{
		{ID: "load-1", ClassID: "class-6a", SubjectCode: "PORT", HoursPerWeek: 2},
		{ID: "load-2", ClassID: "class-6a", SubjectCode: "MAT", HoursPerWeek: 2},
	}}
	store := newScheduleStoreStub()
	cache := newCacheStub()

	svc := NewTimetableService(
		roster, teachers, subjects, loads, timeslotListerStub{}, store,
		scheduler.New(zap.NewNop()), cache, NewMetricsService(),
		config.TimetableConfig{
			Strategy:            config.StrategyGreedy,
			PeriodsPerShift:     5,
			CounterShiftPeriods: 2,
			SubjectPriority:     []string{"PORT", "MAT"},
			CurrentCacheTTL:     time.Minute,
		},
		zap.NewNop(),
	)
	return &timetableFixture{service: svc, store: store, cache: cache}
}

func TestTimetableServiceGeneratePersistsRun(t *testing.T) {
	f := newTimetableFixture(t)

	resp, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ScheduleID)
	assert.Equal(t, 4, resp.Stats.PlacedCount)
	assert.Empty(t, resp.Unassigned)
	assert.True(t, resp.Stats.CounterShiftOK)

	require.Len(t, f.store.schedules, 1)
	assert.Len(t, f.store.lessons[resp.ScheduleID], len(resp.Lessons))
	assert.Contains(t, f.cache.deletions, "timetable:*")
}

func TestTimetableServiceGenerateDryRunDoesNotPersist(t *testing.T) {
	f := newTimetableFixture(t)

	resp, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, resp.ScheduleID)
	assert.Empty(t, f.store.schedules)
	assert.Empty(t, f.cache.deletions)
}

func TestTimetableServiceGenerateRejectsUnknownStrategy(t *testing.T) {
	f := newTimetableFixture(t)

	_, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{Strategy: "annealing"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestTimetableServiceGenerateFailsFastWhileRunning(t *testing.T) {
	f := newTimetableFixture(t)
	f.service.mu.Lock()
	f.service.running = true
	f.service.mu.Unlock()

	_, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrRunInProgress.Code, appErr.Code)
}

func TestTimetableServiceCurrentUsesCache(t *testing.T) {
	f := newTimetableFixture(t)

	_, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.NoError(t, err)

	first, err := f.service.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.setCalls)

	second, err := f.service.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.setCalls, "second read should hit the cache")
	assert.Equal(t, first.Schedule.ID, second.Schedule.ID)
}

func TestTimetableServiceCurrentWithoutRuns(t *testing.T) {
	f := newTimetableFixture(t)

	_, err := f.service.Current(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestTimetableServiceClassTimetableResolvesCurrent(t *testing.T) {
	f := newTimetableFixture(t)

	gen, err := f.service.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.NoError(t, err)

	resp, err := f.service.ClassTimetable(context.Background(), "current", "class-6a")
	require.NoError(t, err)
	assert.Equal(t, gen.ScheduleID, resp.ScheduleID)
	assert.Len(t, resp.Lessons, len(gen.Lessons))
}
