package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kelasworks/sis-api/internal/models"
)

// AttendanceRepository handles persistence for daily attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance rows matching the provided filter.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	where := []string{"organization_id = $1"}
	args := []interface{}{filter.OrganizationID}
	if filter.StudentID != "" {
		where = append(where, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.SectionID != "" {
		where = append(where, fmt.Sprintf("section_id = $%d", len(args)+1))
		args = append(args, filter.SectionID)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, organization_id, student_id, section_id, date, status, present, recorded_by, notes, created_at, updated_at
FROM attendance_records WHERE %s
ORDER BY date DESC
LIMIT %d OFFSET %d`, whereClause, size, offset)

	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendance_records WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return rows, total, nil
}

// Upsert inserts or updates the single record for (student, calendar day).
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	query := `INSERT INTO attendance_records (id, organization_id, student_id, section_id, date, status, present, recorded_by, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (student_id, date)
DO UPDATE SET status = EXCLUDED.status, present = EXCLUDED.present, recorded_by = EXCLUDED.recorded_by, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
RETURNING id, organization_id, student_id, section_id, date, status, present, recorded_by, notes, created_at, updated_at`
	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.OrganizationID, record.StudentID, record.SectionID, record.Date,
		record.Status, record.Present, record.RecordedBy, record.Notes, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// BulkInsert writes many records in one transaction. Duplicate (student, day)
// rows are returned as conflicts; in atomic mode any conflict aborts the
// whole batch.
func (r *AttendanceRepository) BulkInsert(ctx context.Context, records []models.AttendanceRecord, atomic bool) ([]models.AttendanceRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin bulk attendance: %w", err)
	}
	conflicts := make([]models.AttendanceRecord, 0)
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()
	query := `INSERT INTO attendance_records (id, organization_id, student_id, section_id, date, status, present, recorded_by, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (student_id, date) DO NOTHING RETURNING id`
	now := time.Now().UTC()
	for i := range records {
		rec := &records[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now
		var insertedID string
		if err := tx.QueryRowxContext(ctx, query,
			rec.ID, rec.OrganizationID, rec.StudentID, rec.SectionID, rec.Date,
			rec.Status, rec.Present, rec.RecordedBy, rec.Notes, rec.CreatedAt, rec.UpdatedAt).Scan(&insertedID); err != nil {
			if err == sql.ErrNoRows {
				conflicts = append(conflicts, *rec)
				if atomic {
					return nil, fmt.Errorf("bulk insert attendance: duplicate for student %s on %s", rec.StudentID, rec.Date.Format("2006-01-02"))
				}
				continue
			}
			return nil, fmt.Errorf("bulk insert attendance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit bulk attendance: %w", err)
	}
	commit = true
	return conflicts, nil
}

// ListBetween returns a student's records within [from, to] ordered by date.
func (r *AttendanceRepository) ListBetween(ctx context.Context, studentID string, from, to time.Time) ([]models.AttendanceRecord, error) {
	query := `SELECT id, organization_id, student_id, section_id, date, status, present, recorded_by, notes, created_at, updated_at
FROM attendance_records
WHERE student_id = $1 AND date >= $2 AND date <= $3
ORDER BY date ASC`
	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("attendance between: %w", err)
	}
	return rows, nil
}

// SectionRecordedCount counts records already marked for a section on a day.
func (r *AttendanceRepository) SectionRecordedCount(ctx context.Context, sectionID string, date time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM attendance_records WHERE section_id = $1 AND date = $2`
	if err := r.db.GetContext(ctx, &count, query, sectionID, date); err != nil {
		return 0, fmt.Errorf("section recorded count: %w", err)
	}
	return count, nil
}

// SectionStudentCount counts enrolled students in a section.
func (r *AttendanceRepository) SectionStudentCount(ctx context.Context, sectionID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM students WHERE section_id = $1 AND active = TRUE`
	if err := r.db.GetContext(ctx, &count, query, sectionID); err != nil {
		return 0, fmt.Errorf("section student count: %w", err)
	}
	return count, nil
}
