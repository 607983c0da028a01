package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kelasworks/sis-api/internal/models"
)

// ExamRepository handles persisted exams and supervisor lookups.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository constructs the repository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// ScheduledSubjects returns which of the given subjects already have an exam
// in the same session/grade/section. Cancelled exams do not count.
func (r *ExamRepository) ScheduledSubjects(ctx context.Context, scope models.BulkExamScope, subjectIDs []string) ([]string, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT DISTINCT subject_id FROM exams
WHERE exam_session_id = ? AND grade_id = ? AND section_id = ? AND status <> 'CANCELLED' AND subject_id IN (?)`,
		scope.ExamSessionID, scope.GradeID, scope.SectionID, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("build scheduled subjects query: %w", err)
	}
	query = r.db.Rebind(query)
	var subjects []string
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, fmt.Errorf("scheduled subjects: %w", err)
	}
	return subjects, nil
}

// ActiveSupervisors returns the supervisors among ids that exist, are active,
// and hold active employment.
func (r *ExamRepository) ActiveSupervisors(ctx context.Context, ids []string) ([]models.Supervisor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, full_name, active, employment_active
FROM staff WHERE id IN (?) AND active = TRUE AND employment_active = TRUE`, ids)
	if err != nil {
		return nil, fmt.Errorf("build supervisors query: %w", err)
	}
	query = r.db.Rebind(query)
	var rows []models.Supervisor
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("active supervisors: %w", err)
	}
	return rows, nil
}

// InsertBatch persists all exams in a single transaction. A failure on any
// row rolls back the whole batch; the store never keeps a partial batch.
func (r *ExamRepository) InsertBatch(ctx context.Context, exams []models.Exam) error {
	if len(exams) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin exam batch: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()

	query := `INSERT INTO exams (id, organization_id, exam_session_id, grade_id, section_id, subject_id, title, start_date, end_date, max_marks, passing_marks, venue, duration_in_minutes, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	now := time.Now().UTC()
	for i := range exams {
		exam := &exams[i]
		if exam.ID == "" {
			exam.ID = uuid.NewString()
		}
		if exam.CreatedAt.IsZero() {
			exam.CreatedAt = now
		}
		if exam.Status == "" {
			exam.Status = models.ExamStatusScheduled
		}
		if _, err := tx.ExecContext(ctx, query,
			exam.ID, exam.OrganizationID, exam.ExamSessionID, exam.GradeID, exam.SectionID,
			exam.SubjectID, exam.Title, exam.StartDate, exam.EndDate, exam.MaxMarks,
			exam.PassingMarks, exam.Venue, exam.DurationInMinutes, exam.Status, exam.CreatedAt); err != nil {
			return fmt.Errorf("insert exam %q: %w", exam.Title, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit exam batch: %w", err)
	}
	commit = true
	return nil
}
