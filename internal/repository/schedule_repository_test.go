package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escola-adp/horario-api/internal/models"
)

func newRepositoryMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositoryCreateWithLessons(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO lessons").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	schedule := &models.Schedule{Strategy: "greedy", Fitness: 1, PlacedCount: 1}
	lessons := []models.Lesson{
		{ClassID: "class-1a", SubjectCode: "MAT", TeacherID: "teacher-1", Day: 1, Shift: models.ShiftMorning, Period: 1},
	}
	err := repo.CreateWithLessons(context.Background(), schedule, lessons)
	require.NoError(t, err)
	assert.NotEmpty(t, schedule.ID)
	assert.Equal(t, schedule.ID, lessons[0].ScheduleID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreateRollsBackOnLessonError(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO lessons").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateWithLessons(context.Background(), &models.Schedule{Strategy: "greedy"}, []models.Lesson{{ClassID: "class-1a"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindLatest(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "strategy", "fitness", "placed_count", "unassigned_count", "counter_shift_ok", "created_at"}).
		AddRow("run-1", "costMin", 0.95, 40, 2, true, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, strategy, fitness, placed_count, unassigned_count, counter_shift_ok, created_at\n        FROM schedules ORDER BY created_at DESC, id DESC LIMIT 1")).
		WillReturnRows(rows)

	schedule, err := repo.FindLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", schedule.ID)
	assert.Equal(t, "costMin", schedule.Strategy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListLessons(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "schedule_id", "class_id", "subject_code", "teacher_id", "day", "shift", "period", "is_counter_shift", "created_at"}).
		AddRow("lesson-1", "run-1", "class-6a", "PORT", "teacher-1", 1, "MORNING", 1, false, time.Now()).
		AddRow("lesson-2", "run-1", "class-6a", "MAT", "teacher-2", 1, "AFTERNOON", 1, true, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM lessons WHERE schedule_id").
		WithArgs("run-1").
		WillReturnRows(rows)

	lessons, err := repo.ListLessons(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.True(t, lessons[1].IsCounterShift)
	assert.NoError(t, mock.ExpectationsWereMet())
}
