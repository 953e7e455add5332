package dto

// CreateClassRequest registers one class group.
type CreateClassRequest struct {
	Name      string `json:"name" validate:"required,max=80"`
	GradeYear int    `json:"gradeYear" validate:"required,min=1,max=9"`
	HomeShift string `json:"homeShift" validate:"required"`
}

// UpdateClassRequest replaces the mutable fields of a class.
type UpdateClassRequest struct {
	Name      string `json:"name" validate:"required,max=80"`
	GradeYear int    `json:"gradeYear" validate:"required,min=1,max=9"`
	HomeShift string `json:"homeShift" validate:"required"`
}

// AvailabilityRequest carries the ten day/shift flags of one teacher.
type AvailabilityRequest struct {
	MonM bool `json:"monM"`
	MonA bool `json:"monA"`
	TueM bool `json:"tueM"`
	TueA bool `json:"tueA"`
	WedM bool `json:"wedM"`
	WedA bool `json:"wedA"`
	ThuM bool `json:"thuM"`
	ThuA bool `json:"thuA"`
	FriM bool `json:"friM"`
	FriA bool `json:"friA"`
}

// CreateTeacherRequest registers one teacher.
type CreateTeacherRequest struct {
	FullName        string              `json:"fullName" validate:"required,max=120"`
	Email           string              `json:"email" validate:"omitempty,email"`
	SubjectCodes    []string            `json:"subjectCodes" validate:"required,min=1,dive,required"`
	MaxWeeklyLoad   int                 `json:"maxWeeklyLoad" validate:"omitempty,min=0,max=60"`
	CounterShiftOK  bool                `json:"counterShiftOk"`
	AllowedClassIDs []string            `json:"allowedClassIds"`
	Availability    AvailabilityRequest `json:"availability"`
}

// UpdateTeacherRequest replaces the mutable fields of a teacher.
type UpdateTeacherRequest struct {
	FullName        string              `json:"fullName" validate:"required,max=120"`
	Email           string              `json:"email" validate:"omitempty,email"`
	SubjectCodes    []string            `json:"subjectCodes" validate:"required,min=1,dive,required"`
	MaxWeeklyLoad   int                 `json:"maxWeeklyLoad" validate:"omitempty,min=0,max=60"`
	CounterShiftOK  bool                `json:"counterShiftOk"`
	AllowedClassIDs []string            `json:"allowedClassIds"`
	Availability    AvailabilityRequest `json:"availability"`
	Active          bool                `json:"active"`
}

// CreateSubjectRequest registers one subject.
type CreateSubjectRequest struct {
	Code     string `json:"code" validate:"required,max=12"`
	Name     string `json:"name" validate:"required,max=80"`
	Priority int    `json:"priority" validate:"omitempty,min=0,max=100"`
}

// UpdateSubjectRequest replaces the mutable fields of a subject.
type UpdateSubjectRequest struct {
	Code     string `json:"code" validate:"required,max=12"`
	Name     string `json:"name" validate:"required,max=80"`
	Priority int    `json:"priority" validate:"omitempty,min=0,max=100"`
}

// UpsertWeeklyLoadRequest sets the weekly hours of one (class, subject) pair.
type UpsertWeeklyLoadRequest struct {
	SubjectCode  string `json:"subjectCode" validate:"required,max=12"`
	HoursPerWeek int    `json:"hoursPerWeek" validate:"required,min=1,max=25"`
}
