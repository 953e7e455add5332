package models

import "time"

// Grades eligible for counter-shift instruction.
const (
	counterShiftMinGrade = 6
	counterShiftMaxGrade = 9
)

// SchoolClass represents one class group enrolled in a home shift.
type SchoolClass struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	GradeYear int       `db:"grade_year" json:"grade_year"`
	HomeShift Shift     `db:"home_shift" json:"home_shift"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CounterShiftEligible reports whether the class must receive opposite-shift periods.
func (c SchoolClass) CounterShiftEligible() bool {
	return c.GradeYear >= counterShiftMinGrade && c.GradeYear <= counterShiftMaxGrade
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	GradeYear *int
	Shift     string
	Search    string
	Page      int
	PageSize  int
}
