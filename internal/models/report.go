package models

import "time"

// Organization is the tenant owning all records.
type Organization struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Address   string `db:"address" json:"address"`
	Phone     string `db:"phone" json:"phone"`
	Email     string `db:"email" json:"email"`
	LogoURL   string `db:"logo_url" json:"logo_url"`
	Timezone  string `db:"timezone" json:"timezone"`
	WeekStart string `db:"week_start" json:"week_start"`
}

// Student is the subset of the student record used by report assembly.
type Student struct {
	ID             string `db:"id" json:"id"`
	OrganizationID string `db:"organization_id" json:"organization_id"`
	FullName       string `db:"full_name" json:"full_name"`
	RollNumber     string `db:"roll_number" json:"roll_number"`
	GradeName      string `db:"grade_name" json:"grade_name"`
	SectionName    string `db:"section_name" json:"section_name"`
	GuardianName   string `db:"guardian_name" json:"guardian_name"`
}

// AcademicYear bounds the report window.
type AcademicYear struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
}

// LeaveRecord is one approved or pending leave entry.
type LeaveRecord struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	FromDate  time.Time `db:"from_date" json:"from_date"`
	ToDate    time.Time `db:"to_date" json:"to_date"`
	Reason    string    `db:"reason" json:"reason"`
	Status    string    `db:"status" json:"status"`
}

// ReportSections toggles the optional report payload sections.
type ReportSections struct {
	FeeDetails   bool `json:"fee_details"`
	Attendance   bool `json:"attendance"`
	ExamResults  bool `json:"exam_results"`
	LeaveRecords bool `json:"leave_records"`
}

// ReportAttendanceSummary condenses a year of attendance for the renderer.
type ReportAttendanceSummary struct {
	TotalDays   int     `json:"total_days"`
	PresentDays int     `json:"present_days"`
	AbsentDays  int     `json:"absent_days"`
	LateDays    int     `json:"late_days"`
	Percentage  float64 `json:"percentage"`
}

// ReportSection wraps an optional payload section. Included is false when the
// caller toggled the section off; Data is always non-nil so the renderer
// never null-checks.
type ReportSection[T any] struct {
	Included bool `json:"included"`
	Data     []T  `json:"data"`
}

// ReportPayload is the flat document handed to the renderer. Every field is
// defaulted; the shape is total.
type ReportPayload struct {
	Organization      Organization                    `json:"organization"`
	Student           Student                         `json:"student"`
	AcademicYear      AcademicYear                    `json:"academic_year"`
	Fees              ReportSection[Fee]              `json:"fees"`
	FeeSummary        FeeSummary                      `json:"fee_summary"`
	Attendance        ReportSection[AttendanceRecord] `json:"attendance"`
	AttendanceSummary ReportAttendanceSummary         `json:"attendance_summary"`
	ExamResults       ReportSection[ExamResult]       `json:"exam_results"`
	Leaves            ReportSection[LeaveRecord]      `json:"leaves"`
	GeneratedAt       time.Time                       `json:"generated_at"`
}
