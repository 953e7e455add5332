package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/escola-adp/horario-api/internal/models"
)

// TimeslotRepository manages the weekly grid catalogue.
type TimeslotRepository struct {
	db *sqlx.DB
}

// NewTimeslotRepository constructs a TimeslotRepository.
func NewTimeslotRepository(db *sqlx.DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

// ListAll returns the catalogue in grid order.
func (r *TimeslotRepository) ListAll(ctx context.Context) ([]models.Timeslot, error) {
	const query = `SELECT id, day, shift, period, label, is_teaching
        FROM timeslots ORDER BY day, shift, period`
	var slots []models.Timeslot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// EnsureCatalogue seeds the full 5-day x 2-shift x N-period grid, inserting
// only the entries that are missing. Existing rows, including ones an
// administrator has marked non-teaching, are left untouched.
func (r *TimeslotRepository) EnsureCatalogue(ctx context.Context, periodsPerShift int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin ensure catalogue: %w", err)
	}
	defer tx.Rollback()

	const insert = `INSERT INTO timeslots (id, day, shift, period, label, is_teaching)
        VALUES ($1, $2, $3, $4, $5, true)
        ON CONFLICT (day, shift, period) DO NOTHING`

	created := 0
	for day := 1; day <= 5; day++ {
		for _, shift := range []models.Shift{models.ShiftMorning, models.ShiftAfternoon} {
			for period := 1; period <= periodsPerShift; period++ {
				label := fmt.Sprintf("%s %s P%d", models.DayLabels[day], shift, period)
				res, err := tx.ExecContext(ctx, insert, uuid.NewString(), day, shift, period, label)
				if err != nil {
					return 0, fmt.Errorf("seed timeslot: %w", err)
				}
				if n, err := res.RowsAffected(); err == nil {
					created += int(n)
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit ensure catalogue: %w", err)
	}
	return created, nil
}

// SetTeaching toggles whether a slot participates in generation.
func (r *TimeslotRepository) SetTeaching(ctx context.Context, id string, teaching bool) error {
	const query = `UPDATE timeslots SET is_teaching = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, teaching); err != nil {
		return fmt.Errorf("set timeslot teaching: %w", err)
	}
	return nil
}
