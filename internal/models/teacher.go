package models

import (
	"strings"
	"time"
)

// Teacher represents an instructor record.
//
// Availability is stored as ten day/shift flags (Mon..Fri x morning/afternoon),
// mirroring the import sheet; use Availability() for the indexed matrix form.
type Teacher struct {
	ID              string    `db:"id" json:"id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Email           string    `db:"email" json:"email"`
	SubjectCodes    string    `db:"subject_codes" json:"subject_codes"`
	MaxWeeklyLoad   int       `db:"max_weekly_load" json:"max_weekly_load"`
	CounterShiftOK  bool      `db:"counter_shift_ok" json:"counter_shift_ok"`
	AllowedClassIDs *string   `db:"allowed_class_ids" json:"allowed_class_ids,omitempty"`
	MonM            bool      `db:"mon_m" json:"mon_m"`
	MonA            bool      `db:"mon_a" json:"mon_a"`
	TueM            bool      `db:"tue_m" json:"tue_m"`
	TueA            bool      `db:"tue_a" json:"tue_a"`
	WedM            bool      `db:"wed_m" json:"wed_m"`
	WedA            bool      `db:"wed_a" json:"wed_a"`
	ThuM            bool      `db:"thu_m" json:"thu_m"`
	ThuA            bool      `db:"thu_a" json:"thu_a"`
	FriM            bool      `db:"fri_m" json:"fri_m"`
	FriA            bool      `db:"fri_a" json:"fri_a"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Availability folds the flag columns into a [day][shift] matrix, day 0 = Monday.
func (t Teacher) Availability() [5][2]bool {
	return [5][2]bool{
		{t.MonM, t.MonA},
		{t.TueM, t.TueA},
		{t.WedM, t.WedA},
		{t.ThuM, t.ThuA},
		{t.FriM, t.FriA},
	}
}

// SubjectSet parses the CSV subject code column into an upper-cased set.
func (t Teacher) SubjectSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, code := range strings.Split(t.SubjectCodes, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			set[code] = struct{}{}
		}
	}
	return set
}

// AllowedClassSet parses the optional class allow-list. Nil means all classes.
func (t Teacher) AllowedClassSet() map[string]struct{} {
	if t.AllowedClassIDs == nil || strings.TrimSpace(*t.AllowedClassIDs) == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, id := range strings.Split(*t.AllowedClassIDs, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search   string
	Active   *bool
	Subject  string
	Page     int
	PageSize int
}
