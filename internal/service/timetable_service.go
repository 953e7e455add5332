package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/escola-adp/horario-api/internal/dto"
	"github.com/escola-adp/horario-api/internal/models"
	"github.com/escola-adp/horario-api/internal/scheduler"
	"github.com/escola-adp/horario-api/pkg/config"
	appErrors "github.com/escola-adp/horario-api/pkg/errors"
)

const currentTimetableCacheKey = "timetable:current"

type classLister interface {
	ListAll(ctx context.Context) ([]models.SchoolClass, error)
}

type teacherLister interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type subjectLister interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type loadLister interface {
	ListAll(ctx context.Context) ([]models.WeeklyLoad, error)
}

type timeslotLister interface {
	ListAll(ctx context.Context) ([]models.Timeslot, error)
}

type scheduleStore interface {
	CreateWithLessons(ctx context.Context, schedule *models.Schedule, lessons []models.Lesson) error
	FindLatest(ctx context.Context) (*models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	List(ctx context.Context, page, pageSize int) ([]models.Schedule, int, error)
	ListLessons(ctx context.Context, scheduleID string) ([]models.Lesson, error)
	ListClassLessons(ctx context.Context, scheduleID, classID string) ([]models.Lesson, error)
}

type timetableGenerator interface {
	Run(cfg scheduler.Config, snap scheduler.Snapshot) (*scheduler.Result, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// TimetableService loads the roster snapshot, runs the generation engine and
// persists the outcome. Only one run executes at a time.
type TimetableService struct {
	classes   classLister
	teachers  teacherLister
	subjects  subjectLister
	loads     loadLister
	timeslots timeslotLister
	schedules scheduleStore
	engine    timetableGenerator
	cache     cacheStore
	metrics   *MetricsService
	validate  *validator.Validate
	logger    *zap.Logger
	cfg       config.TimetableConfig

	mu      sync.Mutex
	running bool
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(
	classes classLister,
	teachers teacherLister,
	subjects subjectLister,
	loads loadLister,
	timeslots timeslotLister,
	schedules scheduleStore,
	engine timetableGenerator,
	cache cacheStore,
	metrics *MetricsService,
	cfg config.TimetableConfig,
	logger *zap.Logger,
) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		classes:   classes,
		teachers:  teachers,
		subjects:  subjects,
		loads:     loads,
		timeslots: timeslots,
		schedules: schedules,
		engine:    engine,
		cache:     cache,
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate runs the engine against the current roster and persists the run.
// A second concurrent call fails fast instead of queueing.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, appErrors.ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	engineCfg := s.engineConfig(req)
	started := time.Now()
	result, err := s.engine.Run(engineCfg, *snap)
	if err != nil {
		s.metrics.RecordRun(engineCfg.Strategy, "error", 0, 0, 0, time.Since(started))
		return nil, err
	}
	s.metrics.RecordRun(result.Strategy, "ok", result.Stats.PlacedCount, result.Stats.UnassignedCount, result.Stats.Fitness, time.Since(started))

	resp := toGenerateResponse(result)
	if req.DryRun {
		return resp, nil
	}

	schedule := &models.Schedule{
		Strategy:        result.Strategy,
		Fitness:         result.Stats.Fitness,
		PlacedCount:     result.Stats.PlacedCount,
		UnassignedCount: result.Stats.UnassignedCount,
		CounterShiftOK:  result.Stats.CounterShiftOK,
	}
	lessons := make([]models.Lesson, 0, len(result.Lessons))
	for _, l := range result.Lessons {
		lessons = append(lessons, models.Lesson{
			ClassID:        l.ClassID,
			SubjectCode:    l.SubjectCode,
			TeacherID:      l.TeacherID,
			Day:            l.Day,
			Shift:          l.Shift,
			Period:         l.Period,
			IsCounterShift: l.CounterShift,
		})
	}
	if err := s.schedules.CreateWithLessons(ctx, schedule, lessons); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist timetable run")
	}
	resp.ScheduleID = schedule.ID

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "timetable:*"); err != nil {
			s.logger.Warn("timetable cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("timetable run persisted",
		zap.String("schedule_id", schedule.ID),
		zap.String("strategy", schedule.Strategy),
		zap.Float64("fitness", schedule.Fitness),
	)
	return resp, nil
}

// Current returns the most recent stored run, served from cache when warm.
func (s *TimetableService) Current(ctx context.Context) (*dto.StoredTimetableResponse, error) {
	if s.cache != nil {
		var cached dto.StoredTimetableResponse
		if err := s.cache.Get(ctx, currentTimetableCacheKey, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("current timetable cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	schedule, err := s.schedules.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable has been generated yet")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load current timetable")
	}

	resp, err := s.storedResponse(ctx, schedule)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, currentTimetableCacheKey, resp, s.cfg.CurrentCacheTTL); err != nil {
			s.logger.Warn("current timetable cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

// Get returns one stored run with its lessons.
func (s *TimetableService) Get(ctx context.Context, scheduleID string) (*dto.StoredTimetableResponse, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load timetable run")
	}
	return s.storedResponse(ctx, schedule)
}

// List returns stored runs newest first.
func (s *TimetableService) List(ctx context.Context, page, pageSize int) ([]dto.ScheduleSummary, int, error) {
	schedules, total, err := s.schedules.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list timetable runs")
	}
	summaries := make([]dto.ScheduleSummary, 0, len(schedules))
	for _, sched := range schedules {
		summaries = append(summaries, toScheduleSummary(&sched))
	}
	return summaries, total, nil
}

// ClassTimetable returns one class's grid from one stored run.
func (s *TimetableService) ClassTimetable(ctx context.Context, scheduleID, classID string) (*dto.ClassTimetableResponse, error) {
	if scheduleID == "" || scheduleID == "current" {
		schedule, err := s.schedules.FindLatest(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable has been generated yet")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load current timetable")
		}
		scheduleID = schedule.ID
	}

	lessons, err := s.schedules.ListClassLessons(ctx, scheduleID, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load class timetable")
	}
	resp := &dto.ClassTimetableResponse{
		ScheduleID: scheduleID,
		ClassID:    classID,
		Lessons:    make([]dto.TimetableLesson, 0, len(lessons)),
	}
	for _, l := range lessons {
		resp.Lessons = append(resp.Lessons, toLessonDTO(l))
	}
	return resp, nil
}

func (s *TimetableService) loadSnapshot(ctx context.Context) (*scheduler.Snapshot, error) {
	classes, err := s.classes.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load classes")
	}
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load teachers")
	}
	subjects, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load subjects")
	}
	loads, err := s.loads.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load weekly loads")
	}
	timeslots, err := s.timeslots.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load timeslots")
	}
	return &scheduler.Snapshot{
		Classes:   classes,
		Teachers:  teachers,
		Subjects:  subjects,
		Loads:     loads,
		Timeslots: timeslots,
	}, nil
}

func (s *TimetableService) engineConfig(req dto.GenerateTimetableRequest) scheduler.Config {
	cfg := scheduler.Config{
		Strategy:            s.cfg.Strategy,
		PeriodsPerShift:     s.cfg.PeriodsPerShift,
		CounterShiftPeriods: s.cfg.CounterShiftPeriods,
		MaxCandidateEvals:   s.cfg.MaxCandidateEvals,
		SubjectPriority:     s.cfg.SubjectPriority,
	}
	if req.Strategy != "" {
		cfg.Strategy = req.Strategy
	}
	if req.CounterShiftPeriods != nil {
		cfg.CounterShiftPeriods = *req.CounterShiftPeriods
	}
	return cfg
}

func (s *TimetableService) storedResponse(ctx context.Context, schedule *models.Schedule) (*dto.StoredTimetableResponse, error) {
	lessons, err := s.schedules.ListLessons(ctx, schedule.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load timetable lessons")
	}
	resp := &dto.StoredTimetableResponse{
		Schedule: toScheduleSummary(schedule),
		Lessons:  make([]dto.TimetableLesson, 0, len(lessons)),
	}
	for _, l := range lessons {
		resp.Lessons = append(resp.Lessons, toLessonDTO(l))
	}
	return resp, nil
}

func toScheduleSummary(schedule *models.Schedule) dto.ScheduleSummary {
	return dto.ScheduleSummary{
		ID:              schedule.ID,
		Strategy:        schedule.Strategy,
		Fitness:         schedule.Fitness,
		PlacedCount:     schedule.PlacedCount,
		UnassignedCount: schedule.UnassignedCount,
		CounterShiftOK:  schedule.CounterShiftOK,
		CreatedAt:       schedule.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toLessonDTO(l models.Lesson) dto.TimetableLesson {
	return dto.TimetableLesson{
		ClassID:      l.ClassID,
		SubjectCode:  l.SubjectCode,
		TeacherID:    l.TeacherID,
		Day:          l.Day,
		Shift:        string(l.Shift),
		Period:       l.Period,
		CounterShift: l.IsCounterShift,
	}
}

func toGenerateResponse(result *scheduler.Result) *dto.GenerateTimetableResponse {
	resp := &dto.GenerateTimetableResponse{
		Strategy:   result.Strategy,
		Lessons:    make([]dto.TimetableLesson, 0, len(result.Lessons)),
		Unassigned: make([]dto.UnassignedEntry, 0, len(result.Unassigned)),
		Stats: dto.TimetableStats{
			PlacedCount:      result.Stats.PlacedCount,
			UnassignedCount:  result.Stats.UnassignedCount,
			RepairPlacements: result.Stats.RepairPlacements,
			SkippedLoadRows:  result.Stats.SkippedLoadRows,
			CandidateEvals:   result.Stats.CandidateEvals,
			BudgetExhausted:  result.Stats.BudgetExhausted,
			CounterShiftOK:   result.Stats.CounterShiftOK,
			Fitness:          result.Stats.Fitness,
			PerTeacherLoad:   result.Stats.PerTeacherLoad,
		},
	}
	for _, l := range result.Lessons {
		resp.Lessons = append(resp.Lessons, dto.TimetableLesson{
			ClassID:      l.ClassID,
			SubjectCode:  l.SubjectCode,
			TeacherID:    l.TeacherID,
			Day:          l.Day,
			Shift:        string(l.Shift),
			Period:       l.Period,
			CounterShift: l.CounterShift,
		})
	}
	for _, u := range result.Unassigned {
		resp.Unassigned = append(resp.Unassigned, dto.UnassignedEntry{
			ClassID:     u.ClassID,
			SubjectCode: u.SubjectCode,
			Reason:      u.Reason,
		})
	}
	for _, c := range result.Stats.Classes {
		resp.Stats.Classes = append(resp.Stats.Classes, dto.ClassOutcome{
			ClassID:             c.ClassID,
			Placed:              c.Placed,
			CounterShiftPeriods: c.CounterShiftPeriods,
			CounterShiftOK:      c.CounterShiftOK,
		})
	}
	return resp
}
