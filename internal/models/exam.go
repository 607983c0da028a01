package models

import "time"

// ExamStatus tracks the lifecycle of a persisted exam.
type ExamStatus string

const (
	ExamStatusScheduled ExamStatus = "SCHEDULED"
	ExamStatusCompleted ExamStatus = "COMPLETED"
	ExamStatusCancelled ExamStatus = "CANCELLED"
)

// ExamRow is a proposed exam prior to persistence. It exists only while the
// batch is being conflict-checked.
type ExamRow struct {
	SubjectID    string    `json:"subject_id" validate:"required"`
	Title        string    `json:"title" validate:"required"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
	MaxMarks     float64   `json:"max_marks" validate:"gt=0"`
	PassingMarks float64   `json:"passing_marks" validate:"gte=0"`
	Venue        string    `json:"venue"`
	Supervisors  []string  `json:"supervisors"`
}

// Timestamp exposes the start instant for calendar bucketing.
func (r ExamRow) Timestamp() time.Time { return r.StartDate }

// Exam is the persisted version of an ExamRow.
type Exam struct {
	ID                string     `db:"id" json:"id"`
	OrganizationID    string     `db:"organization_id" json:"organization_id"`
	ExamSessionID     string     `db:"exam_session_id" json:"exam_session_id"`
	GradeID           string     `db:"grade_id" json:"grade_id"`
	SectionID         string     `db:"section_id" json:"section_id"`
	SubjectID         string     `db:"subject_id" json:"subject_id"`
	Title             string     `db:"title" json:"title"`
	StartDate         time.Time  `db:"start_date" json:"start_date"`
	EndDate           time.Time  `db:"end_date" json:"end_date"`
	MaxMarks          float64    `db:"max_marks" json:"max_marks"`
	PassingMarks      float64    `db:"passing_marks" json:"passing_marks"`
	Venue             *string    `db:"venue" json:"venue,omitempty"`
	DurationInMinutes int        `db:"duration_in_minutes" json:"duration_in_minutes"`
	Status            ExamStatus `db:"status" json:"status"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// ExamResult is one student's marks for a persisted exam.
type ExamResult struct {
	ID            string  `db:"id" json:"id"`
	ExamID        string  `db:"exam_id" json:"exam_id"`
	StudentID     string  `db:"student_id" json:"student_id"`
	SubjectName   string  `db:"subject_name" json:"subject_name"`
	MarksObtained float64 `db:"marks_obtained" json:"marks_obtained"`
	MaxMarks      float64 `db:"max_marks" json:"max_marks"`
	Grade         string  `db:"grade" json:"grade"`
}

// Supervisor is the subset of staff data needed for availability checks.
type Supervisor struct {
	ID               string `db:"id" json:"id"`
	FullName         string `db:"full_name" json:"full_name"`
	Active           bool   `db:"active" json:"active"`
	EmploymentActive bool   `db:"employment_active" json:"employment_active"`
}

// BulkExamScope identifies the session/grade/section a batch belongs to.
type BulkExamScope struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	ExamSessionID  string `json:"exam_session_id" validate:"required"`
	GradeID        string `json:"grade_id" validate:"required"`
	SectionID      string `json:"section_id" validate:"required"`
}

// BulkExamResult is the orchestrator's terminal state. It never carries an
// error; failures surface as OK=false with a user-facing message.
type BulkExamResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Created int    `json:"created,omitempty"`
}
