package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/escola-adp/horario-api/internal/models"
	appErrors "github.com/escola-adp/horario-api/pkg/errors"
)

type timeslotRepository interface {
	ListAll(ctx context.Context) ([]models.Timeslot, error)
	EnsureCatalogue(ctx context.Context, periodsPerShift int) (int, error)
	SetTeaching(ctx context.Context, id string, teaching bool) error
}

// TimeslotService maintains the weekly grid catalogue.
type TimeslotService struct {
	timeslots       timeslotRepository
	periodsPerShift int
	logger          *zap.Logger
}

// NewTimeslotService constructs a TimeslotService.
func NewTimeslotService(timeslots timeslotRepository, periodsPerShift int, logger *zap.Logger) *TimeslotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if periodsPerShift <= 0 {
		periodsPerShift = 5
	}
	return &TimeslotService{timeslots: timeslots, periodsPerShift: periodsPerShift, logger: logger}
}

// List returns the full catalogue.
func (s *TimeslotService) List(ctx context.Context) ([]models.Timeslot, error) {
	slots, err := s.timeslots.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list timeslots")
	}
	return slots, nil
}

// Sync seeds missing catalogue entries and returns how many were created.
// Existing rows keep their teaching flags.
func (s *TimeslotService) Sync(ctx context.Context) (int, error) {
	created, err := s.timeslots.EnsureCatalogue(ctx, s.periodsPerShift)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sync timeslot catalogue")
	}
	if created > 0 {
		s.logger.Info("timeslot catalogue synced", zap.Int("created", created))
	}
	return created, nil
}

// SetTeaching toggles whether a slot participates in generation.
func (s *TimeslotService) SetTeaching(ctx context.Context, id string, teaching bool) error {
	if err := s.timeslots.SetTeaching(ctx, id, teaching); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update timeslot")
	}
	return nil
}
