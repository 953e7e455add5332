package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/escola-adp/horario-api/internal/dto"
	"github.com/escola-adp/horario-api/internal/models"
	appErrors "github.com/escola-adp/horario-api/pkg/errors"
	"github.com/escola-adp/horario-api/pkg/export"
	"github.com/escola-adp/horario-api/pkg/jobs"
	"github.com/escola-adp/horario-api/pkg/storage"
)

// Export statuses.
const (
	ExportStatusPending   = "pending"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

const exportJobType = "timetable-export"

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(title string, grids []export.TimetableGrid) ([]byte, error)
}

type exportRecord struct {
	ID          string
	ScheduleID  string
	Format      string
	Status      string
	RelPath     string
	Token       string
	URL         string
	Err         string
	CreatedAt   time.Time
	CompletedAt time.Time
}

// ExportServiceConfig tunes export behaviour.
type ExportServiceConfig struct {
	APIPrefix       string
	PeriodsPerShift int
	ResultTTL       time.Duration
	Workers         int
	MaxRetries      int
}

// ExportService renders stored runs to CSV or PDF in the background and hands
// out signed download URLs. Job state lives in memory; exports are cheap to
// re-request after a restart.
type ExportService struct {
	schedules scheduleStore
	classes   classLister
	teachers  teacherLister
	storage   fileStorage
	signer    *storage.SignedURLSigner
	csv       csvRenderer
	pdf       pdfRenderer
	queue     *jobs.Queue
	metrics   *MetricsService
	validate  *validator.Validate
	logger    *zap.Logger
	cfg       ExportServiceConfig

	mu      sync.RWMutex
	records map[string]*exportRecord
}

// NewExportService constructs an ExportService with its own worker queue.
func NewExportService(
	schedules scheduleStore,
	classes classLister,
	teachers teacherLister,
	store fileStorage,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	cfg ExportServiceConfig,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.PeriodsPerShift <= 0 {
		cfg.PeriodsPerShift = 5
	}
	s := &ExportService{
		schedules: schedules,
		classes:   classes,
		teachers:  teachers,
		storage:   store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		metrics:   metrics,
		validate:  validator.New(),
		logger:    logger,
		cfg:       cfg,
		records:   make(map[string]*exportRecord),
	}
	s.queue = jobs.NewQueue("timetable-exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Create queues one export. Omitting scheduleId exports the current run.
func (s *ExportService) Create(ctx context.Context, req dto.CreateExportRequest) (*dto.ExportResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	scheduleID := req.ScheduleID
	if scheduleID == "" {
		latest, err := s.schedules.FindLatest(ctx)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable has been generated yet")
		}
		scheduleID = latest.ID
	} else if _, err := s.schedules.FindByID(ctx, scheduleID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable run not found")
	}

	record := &exportRecord{
		ID:         uuid.NewString(),
		ScheduleID: scheduleID,
		Format:     req.Format,
		Status:     ExportStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	s.mu.Lock()
	s.records[record.ID] = record
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: record.ID, Type: exportJobType, Payload: record.ID}); err != nil {
		s.mu.Lock()
		delete(s.records, record.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "queue export")
	}
	return s.toResponse(record), nil
}

// Get reports one export's state.
func (s *ExportService) Get(id string) (*dto.ExportResponse, error) {
	s.mu.RLock()
	record, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	return s.toResponse(record), nil
}

// OpenByToken validates a download token and opens the underlying file.
func (s *ExportService) OpenByToken(token string) (*os.File, string, error) {
	exportID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid download token")
	}
	s.mu.RLock()
	record, ok := s.records[exportID]
	s.mu.RUnlock()
	format := "csv"
	if ok {
		format = record.Format
	} else if strings.HasSuffix(relPath, ".pdf") {
		format = "pdf"
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	return file, format, nil
}

// Cleanup removes stored export files older than the result TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.ResultTTL)
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	id, _ := job.Payload.(string)
	s.mu.RLock()
	record, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("export %s not tracked", id)
	}

	started := time.Now()
	err := s.render(ctx, record)
	s.metrics.RecordExport(record.Format, time.Since(started))
	if err != nil {
		if job.Attempt >= s.queue.MaxRetries() {
			s.fail(record, err)
			return nil
		}
		return err
	}
	return nil
}

func (s *ExportService) render(ctx context.Context, record *exportRecord) error {
	lessons, err := s.schedules.ListLessons(ctx, record.ScheduleID)
	if err != nil {
		return fmt.Errorf("load lessons: %w", err)
	}
	classNames, teacherNames, err := s.loadNames(ctx)
	if err != nil {
		return err
	}

	var payload []byte
	switch record.Format {
	case "csv":
		payload, err = s.csv.Render(buildLessonDataset(lessons, classNames, teacherNames))
	case "pdf":
		payload, err = s.pdf.Render("Weekly Timetable", buildTimetableGrids(lessons, classNames, teacherNames, s.cfg.PeriodsPerShift))
	default:
		err = fmt.Errorf("unsupported format %s", record.Format)
	}
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("%s/timetable-%s.%s", record.ScheduleID, record.ID, record.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return fmt.Errorf("store export: %w", err)
	}

	token, _, err := s.signer.Generate(record.ID, relPath)
	if err != nil {
		return fmt.Errorf("sign export url: %w", err)
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.mu.Lock()
	record.Status = ExportStatusCompleted
	record.RelPath = relPath
	record.Token = token
	record.URL = fmt.Sprintf("%s/exports/download/%s", prefix, token)
	record.CompletedAt = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info("export completed",
		zap.String("export_id", record.ID),
		zap.String("schedule_id", record.ScheduleID),
		zap.String("format", record.Format),
	)
	return nil
}

func (s *ExportService) fail(record *exportRecord, err error) {
	s.mu.Lock()
	record.Status = ExportStatusFailed
	record.Err = err.Error()
	record.CompletedAt = time.Now().UTC()
	s.mu.Unlock()
	s.logger.Error("export failed", zap.String("export_id", record.ID), zap.Error(err))
}

func (s *ExportService) loadNames(ctx context.Context) (map[string]string, map[string]string, error) {
	classes, err := s.classes.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load classes: %w", err)
	}
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load teachers: %w", err)
	}
	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}
	teacherNames := make(map[string]string, len(teachers))
	for _, t := range teachers {
		teacherNames[t.ID] = t.FullName
	}
	return classNames, teacherNames, nil
}

func (s *ExportService) toResponse(record *exportRecord) *dto.ExportResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := &dto.ExportResponse{
		ID:          record.ID,
		ScheduleID:  record.ScheduleID,
		Format:      record.Format,
		Status:      record.Status,
		DownloadURL: record.URL,
		Error:       record.Err,
		CreatedAt:   record.CreatedAt.Format(time.RFC3339),
	}
	if !record.CompletedAt.IsZero() {
		resp.CompletedAt = record.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

func buildLessonDataset(lessons []models.Lesson, classNames, teacherNames map[string]string) export.Dataset {
	ds := export.Dataset{
		Headers: []string{"class", "subject", "teacher", "day", "shift", "period", "counter_shift"},
		Rows:    make([][]string, 0, len(lessons)),
	}
	for _, l := range lessons {
		ds.AddRow(
			nameOr(classNames, l.ClassID),
			l.SubjectCode,
			nameOr(teacherNames, l.TeacherID),
			models.DayLabels[l.Day],
			string(l.Shift),
			fmt.Sprintf("%d", l.Period),
			fmt.Sprintf("%t", l.IsCounterShift),
		)
	}
	return ds
}

func buildTimetableGrids(lessons []models.Lesson, classNames, teacherNames map[string]string, periodsPerShift int) []export.TimetableGrid {
	type gridKey struct {
		classID string
		shift   models.Shift
	}
	byGrid := make(map[gridKey][]models.Lesson)
	for _, l := range lessons {
		k := gridKey{l.ClassID, l.Shift}
		byGrid[k] = append(byGrid[k], l)
	}

	keys := make([]gridKey, 0, len(byGrid))
	for k := range byGrid {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].classID != keys[j].classID {
			return nameOr(classNames, keys[i].classID) < nameOr(classNames, keys[j].classID)
		}
		return keys[i].shift == models.ShiftMorning
	})

	days := make([]string, 0, 5)
	for d := 1; d <= 5; d++ {
		days = append(days, models.DayLabels[d])
	}
	periods := make([]string, 0, periodsPerShift)
	for p := 1; p <= periodsPerShift; p++ {
		periods = append(periods, fmt.Sprintf("P%d", p))
	}

	grids := make([]export.TimetableGrid, 0, len(keys))
	for _, k := range keys {
		cells := make([][]string, periodsPerShift)
		for p := range cells {
			cells[p] = make([]string, 5)
		}
		for _, l := range byGrid[k] {
			if l.Period < 1 || l.Period > periodsPerShift || l.Day < 1 || l.Day > 5 {
				continue
			}
			cells[l.Period-1][l.Day-1] = fmt.Sprintf("%s / %s", l.SubjectCode, nameOr(teacherNames, l.TeacherID))
		}
		grids = append(grids, export.TimetableGrid{
			Title:   fmt.Sprintf("%s - %s", nameOr(classNames, k.classID), k.shift),
			Days:    days,
			Periods: periods,
			Cells:   cells,
		})
	}
	return grids
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
