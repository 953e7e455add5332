package models

import "time"

// Schedule is one generation run. Runs are append-only: a new run never
// mutates a prior run's lessons, and "current" means most recent.
type Schedule struct {
	ID              string    `db:"id" json:"id"`
	Strategy        string    `db:"strategy" json:"strategy"`
	Fitness         float64   `db:"fitness" json:"fitness"`
	PlacedCount     int       `db:"placed_count" json:"placed_count"`
	UnassignedCount int       `db:"unassigned_count" json:"unassigned_count"`
	CounterShiftOK  bool      `db:"counter_shift_ok" json:"counter_shift_ok"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Lesson is a single placed period, immutable once created and owned by its run.
type Lesson struct {
	ID             string    `db:"id" json:"id"`
	ScheduleID     string    `db:"schedule_id" json:"schedule_id"`
	ClassID        string    `db:"class_id" json:"class_id"`
	SubjectCode    string    `db:"subject_code" json:"subject_code"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	Day            int       `db:"day" json:"day"`
	Shift          Shift     `db:"shift" json:"shift"`
	Period         int       `db:"period" json:"period"`
	IsCounterShift bool      `db:"is_counter_shift" json:"is_counter_shift"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
