package models

import "time"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent         AttendanceStatus = "PRESENT"
	AttendanceStatusAbsent          AttendanceStatus = "ABSENT"
	AttendanceStatusLate            AttendanceStatus = "LATE"
	AttendanceStatusExcusedAbsent   AttendanceStatus = "EXCUSED_ABSENT"
	AttendanceStatusUnexcusedAbsent AttendanceStatus = "UNEXCUSED_ABSENT"
	AttendanceStatusEarlyDismissal  AttendanceStatus = "EARLY_DISMISSAL"

	// AttendanceStatusNotMarked is a synthetic status for calendar days with
	// no stored record. It is never persisted; absence of a record is not the
	// same as absence of the student.
	AttendanceStatusNotMarked AttendanceStatus = "NOT_MARKED"
)

// Valid returns true when the status is a persistable value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate,
		AttendanceStatusExcusedAbsent, AttendanceStatusUnexcusedAbsent, AttendanceStatusEarlyDismissal:
		return true
	default:
		return false
	}
}

// CountsPresent reports whether the status contributes to present counts.
func (s AttendanceStatus) CountsPresent() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusLate, AttendanceStatusEarlyDismissal:
		return true
	default:
		return false
	}
}

// AttendanceRecord is a single daily attendance row. At most one record
// exists per (student, calendar day); the store enforces the uniqueness.
type AttendanceRecord struct {
	ID             string           `db:"id" json:"id"`
	OrganizationID string           `db:"organization_id" json:"organization_id"`
	StudentID      string           `db:"student_id" json:"student_id"`
	SectionID      string           `db:"section_id" json:"section_id"`
	Date           time.Time        `db:"date" json:"date"`
	Status         AttendanceStatus `db:"status" json:"status"`
	Present        bool             `db:"present" json:"present"`
	RecordedBy     string           `db:"recorded_by" json:"recorded_by"`
	Notes          *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// Timestamp exposes the record date for calendar bucketing.
func (r AttendanceRecord) Timestamp() time.Time { return r.Date }

// AttendanceFilter scopes listing queries.
type AttendanceFilter struct {
	OrganizationID string
	StudentID      string
	SectionID      string
	Status         *AttendanceStatus
	DateFrom       *time.Time
	DateTo         *time.Time
	Page           int
	PageSize       int
}

// AttendancePeriodStats summarises a bounded period for one student.
type AttendancePeriodStats struct {
	Present    int `json:"present"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// AttendanceDay is one calendar day of a rolling window. Days with no stored
// record carry AttendanceStatusNotMarked.
type AttendanceDay struct {
	Date   time.Time        `json:"date"`
	Status AttendanceStatus `json:"status"`
}

// AttendanceStreaks captures consecutive-present runs within a window.
type AttendanceStreaks struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// DayOfWeekStat aggregates attendance per weekday (0=Sunday..6=Saturday).
type DayOfWeekStat struct {
	DayOfWeek  int     `json:"day_of_week"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Percentage float64 `json:"percentage"`
}

// SectionCompletion describes how far a section's marking has progressed.
type SectionCompletion string

const (
	SectionCompletionPending    SectionCompletion = "pending"
	SectionCompletionInProgress SectionCompletion = "in-progress"
	SectionCompletionCompleted  SectionCompletion = "completed"
)
