package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escola-adp/horario-api/internal/models"
)

func teacherRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "full_name", "email", "subject_codes", "max_weekly_load", "counter_shift_ok", "allowed_class_ids",
		"mon_m", "mon_a", "tue_m", "tue_a", "wed_m", "wed_a", "thu_m", "thu_a", "fri_m", "fri_a",
		"active", "created_at", "updated_at",
	}).AddRow(
		"teacher-1", "Maria Souza", "maria@escola.test", "MAT,CIEN", 20, true, nil,
		true, false, true, false, true, false, true, false, true, false,
		true, time.Now(), time.Now(),
	)
}

func TestTeacherRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM teachers WHERE active = true ORDER BY full_name").
		WillReturnRows(teacherRow())

	teachers, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Maria Souza", teachers[0].FullName)
	assert.True(t, teachers[0].MonM)
	assert.False(t, teachers[0].MonA)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListFiltersBySubject(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM teachers WHERE (.+) LIKE").
		WithArgs("%,MAT,%").
		WillReturnRows(teacherRow())
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%,MAT,%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	teachers, total, err := repo.List(context.Background(), models.TeacherFilter{Subject: "mat"})
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("INSERT INTO teachers").
		WillReturnResult(sqlmock.NewResult(1, 1))

	teacher := &models.Teacher{FullName: "Maria Souza", SubjectCodes: "MAT", Active: true}
	err := repo.Create(context.Background(), teacher)
	require.NoError(t, err)
	assert.NotEmpty(t, teacher.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("UPDATE teachers SET active = false").
		WithArgs("teacher-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Deactivate(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
