package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kelasworks/sis-api/internal/models"
)

type fakeExamRepo struct {
	scheduled     []string
	scheduledErr  error
	supervisors   []models.Supervisor
	supervisorErr error
	insertErr     error
	inserted      []models.Exam
}

func (f *fakeExamRepo) ScheduledSubjects(context.Context, models.BulkExamScope, []string) ([]string, error) {
	return f.scheduled, f.scheduledErr
}

func (f *fakeExamRepo) ActiveSupervisors(context.Context, []string) ([]models.Supervisor, error) {
	return f.supervisors, f.supervisorErr
}

func (f *fakeExamRepo) InsertBatch(_ context.Context, exams []models.Exam) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = exams
	return nil
}

func testScope() models.BulkExamScope {
	return models.BulkExamScope{
		OrganizationID: "org-1",
		ExamSessionID:  "session-1",
		GradeID:        "grade-10",
		SectionID:      "section-a",
	}
}

func newTestExamService(repo *fakeExamRepo) *ExamService {
	detector := NewLocalConflictDetector(time.UTC)
	return NewExamService(repo, detector, nil, nil, zap.NewNop(), 50)
}

func TestBulkCreateHappyPath(t *testing.T) {
	repo := &fakeExamRepo{}
	svc := newTestExamService(repo)

	rows := []models.ExamRow{
		examRow("math", "Mathematics", at(2024, time.March, 10, 9, 0), at(2024, time.March, 10, 11, 0)),
		examRow("phy", "Physics", at(2024, time.March, 11, 9, 0), at(2024, time.March, 11, 10, 30)),
	}

	result := svc.BulkCreate(context.Background(), testScope(), rows)
	require.True(t, result.OK, result.Message)
	assert.Equal(t, 2, result.Created)
	require.Len(t, repo.inserted, 2)

	assert.Equal(t, "org-1", repo.inserted[0].OrganizationID)
	assert.Equal(t, 120, repo.inserted[0].DurationInMinutes)
	assert.Equal(t, 90, repo.inserted[1].DurationInMinutes)
	assert.Equal(t, models.ExamStatusScheduled, repo.inserted[0].Status)
}

func TestBulkCreateRejectsConflictingRows(t *testing.T) {
	repo := &fakeExamRepo{}
	svc := newTestExamService(repo)

	rows := []models.ExamRow{
		examRow("math", "Mathematics", at(2024, time.March, 10, 9, 0), at(2024, time.March, 10, 11, 0)),
		examRow("phy", "Physics", at(2024, time.March, 10, 10, 0), at(2024, time.March, 10, 12, 0)),
	}

	result := svc.BulkCreate(context.Background(), testScope(), rows)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "time overlap")
	assert.Empty(t, repo.inserted)
}

func TestBulkCreateRejectsAlreadyScheduledSubjects(t *testing.T) {
	repo := &fakeExamRepo{scheduled: []string{"math"}}
	svc := newTestExamService(repo)

	rows := []models.ExamRow{
		examRow("math", "Mathematics", at(2024, time.March, 10, 9, 0), at(2024, time.March, 10, 11, 0)),
	}

	result := svc.BulkCreate(context.Background(), testScope(), rows)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "math")
	assert.Empty(t, repo.inserted)
}

func TestBulkCreateRejectsUnavailableSupervisors(t *testing.T) {
	repo := &fakeExamRepo{supervisors: []models.Supervisor{{ID: "staff-1"}}}
	svc := newTestExamService(repo)

	row := examRow("math", "Mathematics", at(2024, time.March, 10, 9, 0), at(2024, time.March, 10, 11, 0))
	row.Supervisors = []string{"staff-1", "staff-2"}

	result := svc.BulkCreate(context.Background(), testScope(), []models.ExamRow{row})
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "staff-2")
	assert.NotContains(t, result.Message, "staff-1,")
	assert.Empty(t, repo.inserted)
}

func TestBulkCreateRejectsEmptyAndOversizedBatches(t *testing.T) {
	svc := newTestExamService(&fakeExamRepo{})

	result := svc.BulkCreate(context.Background(), testScope(), nil)
	assert.False(t, result.OK)

	rows := make([]models.ExamRow, 51)
	for i := range rows {
		rows[i] = examRow(fmt.Sprintf("sub-%d", i), fmt.Sprintf("Subject %d", i),
			at(2024, time.March, 1+i%28, 9, 0), at(2024, time.March, 1+i%28, 11, 0))
	}
	result = svc.BulkCreate(context.Background(), testScope(), rows)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "50")
}

func TestBulkCreateRejectsMissingScope(t *testing.T) {
	svc := newTestExamService(&fakeExamRepo{})

	rows := []models.ExamRow{
		examRow("math", "Mathematics", at(2024, time.March, 10, 9, 0), at(2024, time.March, 10, 11, 0)),
	}

	result := svc.BulkCreate(context.Background(), models.BulkExamScope{}, rows)
	assert.False(t, result.OK)
}

func TestBulkCreateTranslatesUniqueViolation(t *testing.T) {
	repo := &fakeExamRepo{insertErr: fmt.Errorf("insert exam: %w", &pq.Error{Code: "23505"})}
	svc := newTestExamService(repo)

	rows := []models.ExamRow{
		examRow("math", "Mathematics", at(2024, time.March, 10, 9, 0), at(2024, time.March, 10, 11, 0)),
	}

	result := svc.BulkCreate(context.Background(), testScope(), rows)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "already exists")
}

func TestBulkCreateTranslatesForeignKeyViolation(t *testing.T) {
	repo := &fakeExamRepo{insertErr: fmt.Errorf("insert exam: %w", &pq.Error{Code: "23503"})}
	svc := newTestExamService(repo)

	rows := []models.ExamRow{
		examRow("math", "Mathematics", at(2024, time.March, 10, 9, 0), at(2024, time.March, 10, 11, 0)),
	}

	result := svc.BulkCreate(context.Background(), testScope(), rows)
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "does not exist")
}

func TestBulkCreateNeverSurfacesRawErrors(t *testing.T) {
	repo := &fakeExamRepo{insertErr: errors.New("connection reset by peer")}
	svc := newTestExamService(repo)

	rows := []models.ExamRow{
		examRow("math", "Mathematics", at(2024, time.March, 10, 9, 0), at(2024, time.March, 10, 11, 0)),
	}

	result := svc.BulkCreate(context.Background(), testScope(), rows)
	assert.False(t, result.OK)
	assert.NotContains(t, result.Message, "connection reset")
}

func TestDurationMinutesFloorsAtZero(t *testing.T) {
	row := examRow("math", "Mathematics", at(2024, time.March, 10, 9, 0), at(2024, time.March, 10, 10, 15))
	assert.Equal(t, 75, durationMinutes(row))
}
