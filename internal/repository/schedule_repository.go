package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/escola-adp/horario-api/internal/models"
)

// ScheduleRepository persists generation runs and their lessons. Runs are
// append-only; nothing here mutates a stored run.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateWithLessons stores one run and all its lessons in a single
// transaction, so a run is never visible half-written.
func (r *ScheduleRepository) CreateWithLessons(ctx context.Context, schedule *models.Schedule, lessons []models.Lesson) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create schedule: %w", err)
	}
	defer tx.Rollback()

	const scheduleInsert = `INSERT INTO schedules (id, strategy, fitness, placed_count, unassigned_count, counter_shift_ok, created_at)
        VALUES (:id, :strategy, :fitness, :placed_count, :unassigned_count, :counter_shift_ok, :created_at)`
	if _, err := tx.NamedExecContext(ctx, scheduleInsert, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	const lessonInsert = `INSERT INTO lessons (id, schedule_id, class_id, subject_code, teacher_id, day, shift, period, is_counter_shift, created_at)
        VALUES (:id, :schedule_id, :class_id, :subject_code, :teacher_id, :day, :shift, :period, :is_counter_shift, :created_at)`
	for i := range lessons {
		if lessons[i].ID == "" {
			lessons[i].ID = uuid.NewString()
		}
		lessons[i].ScheduleID = schedule.ID
		if lessons[i].CreatedAt.IsZero() {
			lessons[i].CreatedAt = schedule.CreatedAt
		}
		if _, err := tx.NamedExecContext(ctx, lessonInsert, lessons[i]); err != nil {
			return fmt.Errorf("create lesson: %w", err)
		}
	}
	return tx.Commit()
}

// FindLatest returns the most recent run, the "current" timetable.
func (r *ScheduleRepository) FindLatest(ctx context.Context) (*models.Schedule, error) {
	const query = `SELECT id, strategy, fitness, placed_count, unassigned_count, counter_shift_ok, created_at
        FROM schedules ORDER BY created_at DESC, id DESC LIMIT 1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// FindByID fetches one run by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	const query = `SELECT id, strategy, fitness, placed_count, unassigned_count, counter_shift_ok, created_at
        FROM schedules WHERE id = $1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// List returns runs newest first.
func (r *ScheduleRepository) List(ctx context.Context, page, pageSize int) ([]models.Schedule, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT id, strategy, fitness, placed_count, unassigned_count, counter_shift_ok, created_at
        FROM schedules ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`, pageSize, offset)

	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM schedules`); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}
	return schedules, total, nil
}

// ListLessons returns the lessons of one run in grid order.
func (r *ScheduleRepository) ListLessons(ctx context.Context, scheduleID string) ([]models.Lesson, error) {
	const query = `SELECT id, schedule_id, class_id, subject_code, teacher_id, day, shift, period, is_counter_shift, created_at
        FROM lessons WHERE schedule_id = $1 ORDER BY class_id, day, shift, period`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// ListClassLessons returns one class's lessons of one run in grid order.
func (r *ScheduleRepository) ListClassLessons(ctx context.Context, scheduleID, classID string) ([]models.Lesson, error) {
	const query = `SELECT id, schedule_id, class_id, subject_code, teacher_id, day, shift, period, is_counter_shift, created_at
        FROM lessons WHERE schedule_id = $1 AND class_id = $2 ORDER BY day, shift, period`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, scheduleID, classID); err != nil {
		return nil, fmt.Errorf("list class lessons: %w", err)
	}
	return lessons, nil
}
