package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/escola-adp/horario-api/internal/models"
)

// WeeklyLoadRepository manages the per-class weekly hour requirements.
type WeeklyLoadRepository struct {
	db *sqlx.DB
}

// NewWeeklyLoadRepository constructs a WeeklyLoadRepository.
func NewWeeklyLoadRepository(db *sqlx.DB) *WeeklyLoadRepository {
	return &WeeklyLoadRepository{db: db}
}

// ListAll returns every load row, for snapshot loading.
func (r *WeeklyLoadRepository) ListAll(ctx context.Context) ([]models.WeeklyLoad, error) {
	const query = `SELECT id, class_id, subject_code, hours_per_week, created_at, updated_at
        FROM weekly_loads ORDER BY class_id, subject_code`
	var loads []models.WeeklyLoad
	if err := r.db.SelectContext(ctx, &loads, query); err != nil {
		return nil, fmt.Errorf("list weekly loads: %w", err)
	}
	return loads, nil
}

// ListByClass returns the load rows of one class.
func (r *WeeklyLoadRepository) ListByClass(ctx context.Context, classID string) ([]models.WeeklyLoad, error) {
	const query = `SELECT id, class_id, subject_code, hours_per_week, created_at, updated_at
        FROM weekly_loads WHERE class_id = $1 ORDER BY subject_code`
	var loads []models.WeeklyLoad
	if err := r.db.SelectContext(ctx, &loads, query, classID); err != nil {
		return nil, fmt.Errorf("list class loads: %w", err)
	}
	return loads, nil
}

// Upsert creates or replaces the hours of one (class, subject) pair.
func (r *WeeklyLoadRepository) Upsert(ctx context.Context, load *models.WeeklyLoad) error {
	if load.ID == "" {
		load.ID = uuid.NewString()
	}
	load.SubjectCode = strings.ToUpper(strings.TrimSpace(load.SubjectCode))
	now := time.Now().UTC()
	if load.CreatedAt.IsZero() {
		load.CreatedAt = now
	}
	load.UpdatedAt = now
	const query = `INSERT INTO weekly_loads (id, class_id, subject_code, hours_per_week, created_at, updated_at)
        VALUES (:id, :class_id, :subject_code, :hours_per_week, :created_at, :updated_at)
        ON CONFLICT (class_id, subject_code)
        DO UPDATE SET hours_per_week = EXCLUDED.hours_per_week, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, load); err != nil {
		return fmt.Errorf("upsert weekly load: %w", err)
	}
	return nil
}

// Delete removes one load row.
func (r *WeeklyLoadRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM weekly_loads WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete weekly load: %w", err)
	}
	return nil
}
