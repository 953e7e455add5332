package dto

// GenerateTimetableRequest starts one generation run. All fields are
// optional; omitted values fall back to the configured defaults.
type GenerateTimetableRequest struct {
	Strategy            string `json:"strategy" validate:"omitempty,oneof=greedy costMin"`
	CounterShiftPeriods *int   `json:"counterShiftPeriods" validate:"omitempty,min=0,max=10"`
	// DryRun generates and returns the result without persisting a run.
	DryRun bool `json:"dryRun"`
}

// TimetableLesson is one placed period of a run.
type TimetableLesson struct {
	ClassID      string `json:"classId"`
	SubjectCode  string `json:"subjectCode"`
	TeacherID    string `json:"teacherId"`
	Day          int    `json:"day"`
	Shift        string `json:"shift"`
	Period       int    `json:"period"`
	CounterShift bool   `json:"counterShift"`
}

// UnassignedEntry reports one demand period no strategy could place.
type UnassignedEntry struct {
	ClassID     string `json:"classId"`
	SubjectCode string `json:"subjectCode"`
	Reason      string `json:"reason"`
}

// ClassOutcome summarises one class's run outcome.
type ClassOutcome struct {
	ClassID             string `json:"classId"`
	Placed              int    `json:"placed"`
	CounterShiftPeriods int    `json:"counterShiftPeriods"`
	CounterShiftOK      bool   `json:"counterShiftOk"`
}

// TimetableStats aggregates one run.
type TimetableStats struct {
	PlacedCount      int            `json:"placedCount"`
	UnassignedCount  int            `json:"unassignedCount"`
	RepairPlacements int            `json:"repairPlacements"`
	SkippedLoadRows  int            `json:"skippedLoadRows"`
	CandidateEvals   int            `json:"candidateEvals"`
	BudgetExhausted  bool           `json:"budgetExhausted"`
	CounterShiftOK   bool           `json:"counterShiftOk"`
	Fitness          float64        `json:"fitness"`
	PerTeacherLoad   map[string]int `json:"perTeacherLoad"`
	Classes          []ClassOutcome `json:"classes"`
}

// GenerateTimetableResponse returns the outcome of one run.
type GenerateTimetableResponse struct {
	ScheduleID string            `json:"scheduleId,omitempty"`
	Strategy   string            `json:"strategy"`
	Lessons    []TimetableLesson `json:"lessons"`
	Unassigned []UnassignedEntry `json:"unassigned"`
	Stats      TimetableStats    `json:"stats"`
}

// ScheduleSummary lists one stored run.
type ScheduleSummary struct {
	ID              string  `json:"id"`
	Strategy        string  `json:"strategy"`
	Fitness         float64 `json:"fitness"`
	PlacedCount     int     `json:"placedCount"`
	UnassignedCount int     `json:"unassignedCount"`
	CounterShiftOK  bool    `json:"counterShiftOk"`
	CreatedAt       string  `json:"createdAt"`
}

// StoredTimetableResponse is one stored run with its lessons.
type StoredTimetableResponse struct {
	Schedule ScheduleSummary   `json:"schedule"`
	Lessons  []TimetableLesson `json:"lessons"`
}

// ClassTimetableResponse is one class's weekly grid from a stored run.
type ClassTimetableResponse struct {
	ScheduleID string            `json:"scheduleId"`
	ClassID    string            `json:"classId"`
	Lessons    []TimetableLesson `json:"lessons"`
}
