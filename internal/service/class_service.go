package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/escola-adp/horario-api/internal/dto"
	"github.com/escola-adp/horario-api/internal/models"
	appErrors "github.com/escola-adp/horario-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.SchoolClass, int, error)
	FindByID(ctx context.Context, id string) (*models.SchoolClass, error)
	Create(ctx context.Context, class *models.SchoolClass) error
	Update(ctx context.Context, class *models.SchoolClass) error
	Delete(ctx context.Context, id string) error
}

type weeklyLoadRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.WeeklyLoad, error)
	Upsert(ctx context.Context, load *models.WeeklyLoad) error
	Delete(ctx context.Context, id string) error
}

type subjectFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Subject, error)
}

// ClassService manages class groups and their weekly loads.
type ClassService struct {
	classes  classRepository
	loads    weeklyLoadRepository
	subjects subjectFinder
	validate *validator.Validate
	logger   *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(classes classRepository, loads weeklyLoadRepository, subjects subjectFinder, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{
		classes:  classes,
		loads:    loads,
		subjects: subjects,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns classes matching the filter.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.SchoolClass, int, error) {
	classes, total, err := s.classes.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list classes")
	}
	return classes, total, nil
}

// Get returns one class.
func (s *ClassService) Get(ctx context.Context, id string) (*models.SchoolClass, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load class")
	}
	return class, nil
}

// Create registers a new class.
func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*models.SchoolClass, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	shift, err := models.ParseShift(req.HomeShift)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid home shift")
	}
	class := &models.SchoolClass{
		Name:      req.Name,
		GradeYear: req.GradeYear,
		HomeShift: shift,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create class")
	}
	return class, nil
}

// Update replaces the mutable fields of a class.
func (s *ClassService) Update(ctx context.Context, id string, req dto.UpdateClassRequest) (*models.SchoolClass, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	shift, err := models.ParseShift(req.HomeShift)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid home shift")
	}
	class.Name = req.Name
	class.GradeYear = req.GradeYear
	class.HomeShift = shift
	if err := s.classes.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update class")
	}
	return class, nil
}

// Delete removes a class and its weekly loads.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete class")
	}
	return nil
}

// Loads returns the weekly loads of one class.
func (s *ClassService) Loads(ctx context.Context, classID string) ([]models.WeeklyLoad, error) {
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	loads, err := s.loads.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list class loads")
	}
	return loads, nil
}

// UpsertLoad sets the weekly hours of one (class, subject) pair. The subject
// must exist; demand rows never reference unknown codes.
func (s *ClassService) UpsertLoad(ctx context.Context, classID string, req dto.UpsertWeeklyLoadRequest) (*models.WeeklyLoad, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid load payload")
	}
	if _, err := s.Get(ctx, classID); err != nil {
		return nil, err
	}
	if _, err := s.subjects.FindByCode(ctx, req.SubjectCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "unknown subject code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "check subject")
	}
	load := &models.WeeklyLoad{
		ClassID:      classID,
		SubjectCode:  req.SubjectCode,
		HoursPerWeek: req.HoursPerWeek,
	}
	if err := s.loads.Upsert(ctx, load); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "upsert load")
	}
	return load, nil
}

// DeleteLoad removes one weekly load row.
func (s *ClassService) DeleteLoad(ctx context.Context, loadID string) error {
	if err := s.loads.Delete(ctx, loadID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete load")
	}
	return nil
}
