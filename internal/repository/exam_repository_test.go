package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/kelasworks/sis-api/internal/models"
)

func newExamRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestExamRepositoryScheduledSubjects(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()

	repo := NewExamRepository(db)
	rows := sqlmock.NewRows([]string{"subject_id"}).AddRow("math")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT subject_id FROM exams")).
		WillReturnRows(rows)

	scope := models.BulkExamScope{ExamSessionID: "session-1", GradeID: "grade-10", SectionID: "section-a"}
	subjects, err := repo.ScheduledSubjects(context.Background(), scope, []string{"math", "phy"})
	require.NoError(t, err)
	require.Equal(t, []string{"math"}, subjects)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryScheduledSubjectsEmptyInput(t *testing.T) {
	db, _, cleanup := newExamRepoMock(t)
	defer cleanup()

	repo := NewExamRepository(db)
	subjects, err := repo.ScheduledSubjects(context.Background(), models.BulkExamScope{}, nil)
	require.NoError(t, err)
	require.Nil(t, subjects)
}

func TestExamRepositoryActiveSupervisors(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()

	repo := NewExamRepository(db)
	rows := sqlmock.NewRows([]string{"id", "full_name", "active", "employment_active"}).
		AddRow("staff-1", "Pak Budi", true, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM staff WHERE id IN")).
		WillReturnRows(rows)

	supervisors, err := repo.ActiveSupervisors(context.Background(), []string{"staff-1", "staff-2"})
	require.NoError(t, err)
	require.Len(t, supervisors, 1)
	require.Equal(t, "staff-1", supervisors[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryInsertBatchCommitsAllRows(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()

	repo := NewExamRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exams")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exams")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	start := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	exams := []models.Exam{
		{OrganizationID: "org-1", ExamSessionID: "session-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "math", Title: "Mathematics", StartDate: start, EndDate: start.Add(2 * time.Hour), MaxMarks: 100, PassingMarks: 40, DurationInMinutes: 120},
		{OrganizationID: "org-1", ExamSessionID: "session-1", GradeID: "grade-10", SectionID: "section-a", SubjectID: "phy", Title: "Physics", StartDate: start.AddDate(0, 0, 1), EndDate: start.AddDate(0, 0, 1).Add(time.Hour), MaxMarks: 100, PassingMarks: 40, DurationInMinutes: 60},
	}
	require.NoError(t, repo.InsertBatch(context.Background(), exams))
	require.NotEmpty(t, exams[0].ID)
	require.Equal(t, models.ExamStatusScheduled, exams[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryInsertBatchRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()

	repo := NewExamRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exams")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exams")).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	start := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	exams := []models.Exam{
		{SubjectID: "math", Title: "Mathematics", StartDate: start, EndDate: start.Add(time.Hour)},
		{SubjectID: "math", Title: "Mathematics Again", StartDate: start, EndDate: start.Add(time.Hour)},
	}
	err := repo.InsertBatch(context.Background(), exams)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Mathematics Again")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryInsertBatchEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newExamRepoMock(t)
	defer cleanup()

	repo := NewExamRepository(db)
	require.NoError(t, repo.InsertBatch(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
