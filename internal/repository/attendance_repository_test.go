package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/kelasworks/sis-api/internal/models"
)

func newAttendanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func attendanceColumns() []string {
	return []string{"id", "organization_id", "student_id", "section_id", "date", "status", "present", "recorded_by", "notes", "created_at", "updated_at"}
}

func TestAttendanceRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows(attendanceColumns()).
		AddRow("rec-1", "org-1", "student-1", "sec-1", now, "PRESENT", true, "teacher-1", nil, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, organization_id, student_id, section_id, date, status, present")).
		WithArgs("org-1", "student-1", "PRESENT").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance_records")).
		WithArgs("org-1", "student-1", "PRESENT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	status := models.AttendanceStatusPresent
	records, total, err := repo.List(context.Background(), models.AttendanceFilter{
		OrganizationID: "org-1",
		StudentID:      "student-1",
		Status:         &status,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsertReturnsStoredRow(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(attendanceColumns()).
		AddRow("rec-1", "org-1", "student-1", "sec-1", date, "LATE", true, "teacher-1", nil, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WillReturnRows(rows)

	stored, err := repo.Upsert(context.Background(), &models.AttendanceRecord{
		OrganizationID: "org-1",
		StudentID:      "student-1",
		SectionID:      "sec-1",
		Date:           date,
		Status:         models.AttendanceStatusLate,
		Present:        true,
		RecordedBy:     "teacher-1",
	})
	require.NoError(t, err)
	require.Equal(t, "rec-1", stored.ID)
	require.Equal(t, models.AttendanceStatusLate, stored.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkInsertCollectsConflicts(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("new-1"))
	// Second row hits ON CONFLICT DO NOTHING, so RETURNING yields no row.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	conflicts, err := repo.BulkInsert(context.Background(), []models.AttendanceRecord{
		{OrganizationID: "org-1", StudentID: "student-1", SectionID: "sec-1", Date: date, Status: models.AttendanceStatusPresent, Present: true},
		{OrganizationID: "org-1", StudentID: "student-2", SectionID: "sec-1", Date: date, Status: models.AttendanceStatusAbsent},
	}, false)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	require.Equal(t, "student-2", conflicts[0].StudentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkInsertAtomicAbortsOnConflict(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO attendance_records")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.BulkInsert(context.Background(), []models.AttendanceRecord{
		{OrganizationID: "org-1", StudentID: "student-1", SectionID: "sec-1", Date: date, Status: models.AttendanceStatusPresent, Present: true},
	}, true)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryListBetween(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(attendanceColumns()).
		AddRow("rec-1", "org-1", "student-1", "sec-1", from, "PRESENT", true, "teacher-1", nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_records")).
		WithArgs("student-1", from, to).
		WillReturnRows(rows)

	records, err := repo.ListBetween(context.Background(), "student-1", from, to)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySectionCounts(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()

	repo := NewAttendanceRepository(db)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance_records WHERE section_id")).
		WithArgs("sec-1", date).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE section_id")).
		WithArgs("sec-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(30))

	recorded, err := repo.SectionRecordedCount(context.Background(), "sec-1", date)
	require.NoError(t, err)
	require.Equal(t, 12, recorded)

	total, err := repo.SectionStudentCount(context.Background(), "sec-1")
	require.NoError(t, err)
	require.Equal(t, 30, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
