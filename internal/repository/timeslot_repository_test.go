package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeslotRepositoryEnsureCatalogueSeedsMissingRows(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewTimeslotRepository(db)

	mock.ExpectBegin()
	// 5 days x 2 shifts x 2 periods; pretend half already exist.
	for i := 0; i < 20; i++ {
		inserted := int64(0)
		if i%2 == 0 {
			inserted = 1
		}
		mock.ExpectExec("INSERT INTO timeslots").
			WillReturnResult(sqlmock.NewResult(0, inserted))
	}
	mock.ExpectCommit()

	created, err := repo.EnsureCatalogue(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 10, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeslotRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepositoryMock(t)
	defer cleanup()
	repo := NewTimeslotRepository(db)

	rows := sqlmock.NewRows([]string{"id", "day", "shift", "period", "label", "is_teaching"}).
		AddRow("slot-1", 1, "MORNING", 1, "Monday MORNING P1", true).
		AddRow("slot-2", 1, "MORNING", 2, "Monday MORNING P2", false)
	mock.ExpectQuery("SELECT (.+) FROM timeslots ORDER BY day, shift, period").
		WillReturnRows(rows)

	slots, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.False(t, slots[1].IsTeaching)
	assert.NoError(t, mock.ExpectationsWereMet())
}
