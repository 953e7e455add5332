package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/escola-adp/horario-api/internal/dto"
	"github.com/escola-adp/horario-api/internal/models"
	appErrors "github.com/escola-adp/horario-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Deactivate(ctx context.Context, id string) error
}

// TeacherService manages the teacher roster.
type TeacherService struct {
	teachers teacherRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(teachers teacherRepository, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{teachers: teachers, validate: validator.New(), logger: logger}
}

// List returns teachers matching the filter.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	teachers, total, err := s.teachers.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list teachers")
	}
	return teachers, total, nil
}

// Get returns one teacher.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load teacher")
	}
	return teacher, nil
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher := &models.Teacher{
		FullName:       req.FullName,
		Email:          req.Email,
		SubjectCodes:   joinCodes(req.SubjectCodes),
		MaxWeeklyLoad:  req.MaxWeeklyLoad,
		CounterShiftOK: req.CounterShiftOK,
		Active:         true,
	}
	applyAllowedClasses(teacher, req.AllowedClassIDs)
	applyAvailability(teacher, req.Availability)
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create teacher")
	}
	return teacher, nil
}

// Update replaces the mutable fields of a teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req dto.UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	teacher.FullName = req.FullName
	teacher.Email = req.Email
	teacher.SubjectCodes = joinCodes(req.SubjectCodes)
	teacher.MaxWeeklyLoad = req.MaxWeeklyLoad
	teacher.CounterShiftOK = req.CounterShiftOK
	teacher.Active = req.Active
	applyAllowedClasses(teacher, req.AllowedClassIDs)
	applyAvailability(teacher, req.Availability)
	if err := s.teachers.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update teacher")
	}
	return teacher, nil
}

// Deactivate removes a teacher from future generation runs.
func (s *TeacherService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.teachers.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "deactivate teacher")
	}
	return nil
}

func joinCodes(codes []string) string {
	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			cleaned = append(cleaned, code)
		}
	}
	return strings.Join(cleaned, ",")
}

func applyAllowedClasses(teacher *models.Teacher, ids []string) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		teacher.AllowedClassIDs = nil
		return
	}
	joined := strings.Join(cleaned, ",")
	teacher.AllowedClassIDs = &joined
}

func applyAvailability(teacher *models.Teacher, a dto.AvailabilityRequest) {
	teacher.MonM, teacher.MonA = a.MonM, a.MonA
	teacher.TueM, teacher.TueA = a.TueM, a.TueA
	teacher.WedM, teacher.WedA = a.WedM, a.WedA
	teacher.ThuM, teacher.ThuA = a.ThuM, a.ThuA
	teacher.FriM, teacher.FriA = a.FriM, a.FriA
}
