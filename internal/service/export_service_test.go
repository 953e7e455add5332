package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/escola-adp/horario-api/internal/dto"
	"github.com/escola-adp/horario-api/internal/models"
	appErrors "github.com/escola-adp/horario-api/pkg/errors"
	"github.com/escola-adp/horario-api/pkg/storage"
)

func newExportFixture(t *testing.T) (*ExportService, *scheduleStoreStub) {
	t.Helper()
	store := newScheduleStoreStub()
	schedule := &models.Schedule{Strategy: "greedy", Fitness: 1, PlacedCount: 2}
	require.NoError(t, store.CreateWithLessons(context.Background(), schedule, []models.Lesson{
		{ClassID: "class-6a", SubjectCode: "PORT", TeacherID: "teacher-1", Day: 1, Shift: models.ShiftMorning, Period: 1},
		{ClassID: "class-6a", SubjectCode: "MAT", TeacherID: "teacher-1", Day: 2, Shift: models.ShiftMorning, Period: 1},
	}))

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)

	svc := NewExportService(
		store,
		rosterStub{classes: []models.SchoolClass{{ID: "class-6a", Name: "6A"}}},
		teacherListerStub{teachers: []models.Teacher{{ID: "teacher-1", FullName: "Maria Souza", Active: true}}},
		files,
		signer,
		NewMetricsService(),
		ExportServiceConfig{APIPrefix: "/api/v1", PeriodsPerShift: 5, Workers: 1},
		zap.NewNop(),
	)
	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})
	return svc, store
}

func waitForExport(t *testing.T, svc *ExportService, id string) *dto.ExportResponse {
	t.Helper()
	var resp *dto.ExportResponse
	require.Eventually(t, func() bool {
		r, err := svc.Get(id)
		if err != nil {
			return false
		}
		resp = r
		return r.Status != ExportStatusPending
	}, 5*time.Second, 10*time.Millisecond)
	return resp
}

func TestExportServiceCSVRoundTrip(t *testing.T) {
	svc, _ := newExportFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateExportRequest{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, ExportStatusPending, created.Status)

	done := waitForExport(t, svc, created.ID)
	require.Equal(t, ExportStatusCompleted, done.Status)
	assert.Contains(t, done.DownloadURL, "/api/v1/exports/download/")

	token := done.DownloadURL[len("/api/v1/exports/download/"):]
	file, format, err := svc.OpenByToken(token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "csv", format)

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "class,subject,teacher,day,shift,period,counter_shift")
	assert.Contains(t, string(content), "Maria Souza")
}

func TestExportServicePDF(t *testing.T) {
	svc, _ := newExportFixture(t)

	created, err := svc.Create(context.Background(), dto.CreateExportRequest{Format: "pdf"})
	require.NoError(t, err)

	done := waitForExport(t, svc, created.ID)
	require.Equal(t, ExportStatusCompleted, done.Status)

	file, format, err := svc.OpenByToken(done.DownloadURL[len("/api/v1/exports/download/"):])
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "pdf", format)

	header := make([]byte, 4)
	_, err = file.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateExportRequest{Format: "xlsx"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportServiceUnknownScheduleNotFound(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, err := svc.Create(context.Background(), dto.CreateExportRequest{
		ScheduleID: "3f0e8a1c-0000-4000-8000-000000000000",
		Format:     "csv",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestExportServiceInvalidTokenRejected(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, _, err := svc.OpenByToken("not-a-token")
	require.Error(t, err)
}
