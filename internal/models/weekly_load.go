package models

import "time"

// WeeklyLoad is the demand source of truth: required periods per week for a
// (class, subject) pair.
type WeeklyLoad struct {
	ID           string    `db:"id" json:"id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	SubjectCode  string    `db:"subject_code" json:"subject_code"`
	HoursPerWeek int       `db:"hours_per_week" json:"hours_per_week"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
