package models

// Timeslot is one catalogue entry of the weekly grid. Non-teaching entries
// (reading time, breaks) are excluded from generation.
type Timeslot struct {
	ID         string `db:"id" json:"id"`
	Day        int    `db:"day" json:"day"`
	Shift      Shift  `db:"shift" json:"shift"`
	Period     int    `db:"period" json:"period"`
	Label      string `db:"label" json:"label"`
	IsTeaching bool   `db:"is_teaching" json:"is_teaching"`
}
