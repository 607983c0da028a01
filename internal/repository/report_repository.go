package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kelasworks/sis-api/internal/models"
)

// ReportRepository loads the datasets joined by report assembly.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Organization loads the tenant header data.
func (r *ReportRepository) Organization(ctx context.Context, id string) (*models.Organization, error) {
	query := `SELECT id, name, address, phone, email, logo_url, timezone, week_start FROM organizations WHERE id = $1`
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, id); err != nil {
		return nil, fmt.Errorf("load organization: %w", err)
	}
	return &org, nil
}

// Student loads the student header data with grade/section names resolved.
func (r *ReportRepository) Student(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT s.id, s.organization_id, s.full_name, s.roll_number,
	COALESCE(g.name, '') AS grade_name, COALESCE(sec.name, '') AS section_name, COALESCE(s.guardian_name, '') AS guardian_name
FROM students s
LEFT JOIN grades g ON g.id = s.grade_id
LEFT JOIN sections sec ON sec.id = s.section_id
WHERE s.id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	return &student, nil
}

// AcademicYear loads the bounding window for the report.
func (r *ReportRepository) AcademicYear(ctx context.Context, id string) (*models.AcademicYear, error) {
	query := `SELECT id, name, start_date, end_date FROM academic_years WHERE id = $1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, fmt.Errorf("load academic year: %w", err)
	}
	return &year, nil
}

// ExamResults returns a student's results within [from, to].
func (r *ReportRepository) ExamResults(ctx context.Context, studentID string, from, to time.Time) ([]models.ExamResult, error) {
	query := `SELECT er.id, er.exam_id, er.student_id, COALESCE(sub.name, '') AS subject_name, er.marks_obtained, er.max_marks, COALESCE(er.grade, '') AS grade
FROM exam_results er
JOIN exams e ON e.id = er.exam_id
LEFT JOIN subjects sub ON sub.id = e.subject_id
WHERE er.student_id = $1 AND e.start_date >= $2 AND e.start_date <= $3
ORDER BY e.start_date ASC`
	var rows []models.ExamResult
	if err := r.db.SelectContext(ctx, &rows, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("exam results: %w", err)
	}
	return rows, nil
}

// Leaves returns a student's leave records within [from, to].
func (r *ReportRepository) Leaves(ctx context.Context, studentID string, from, to time.Time) ([]models.LeaveRecord, error) {
	query := `SELECT id, student_id, from_date, to_date, COALESCE(reason, '') AS reason, status
FROM leave_records
WHERE student_id = $1 AND from_date >= $2 AND from_date <= $3
ORDER BY from_date ASC`
	var rows []models.LeaveRecord
	if err := r.db.SelectContext(ctx, &rows, query, studentID, from, to); err != nil {
		return nil, fmt.Errorf("leave records: %w", err)
	}
	return rows, nil
}
