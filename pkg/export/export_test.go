package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelasworks/sis-api/internal/models"
)

func TestAttendanceCSVRender(t *testing.T) {
	notes := "arrived late"
	records := []models.AttendanceRecord{
		{StudentID: "student-1", Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusLate, RecordedBy: "teacher-1", Notes: &notes},
		{StudentID: "student-2", Date: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Status: models.AttendanceStatusPresent, RecordedBy: "teacher-1"},
	}

	data, err := NewAttendanceCSV().Render(records)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,student_id,status,recorded_by,notes", lines[0])
	assert.Contains(t, lines[1], "2024-03-05,student-1,LATE,teacher-1,arrived late")
	assert.Contains(t, lines[2], "student-2,PRESENT")
}

func TestAttendanceCSVRenderEmpty(t *testing.T) {
	data, err := NewAttendanceCSV().Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "date,student_id,status,recorded_by,notes\n", string(data))
}

func TestReportPDFRender(t *testing.T) {
	payload := &models.ReportPayload{
		Organization: models.Organization{Name: "Kelas Works Academy", Address: "Jl. Merdeka 1", Phone: "021", Email: "info@kelas.works"},
		Student:      models.Student{FullName: "Siti Rahma", RollNumber: "21", GradeName: "Grade 10", SectionName: "A"},
		AcademicYear: models.AcademicYear{Name: "2024/2025"},
		Attendance: models.ReportSection[models.AttendanceRecord]{
			Included: true,
			Data:     []models.AttendanceRecord{},
		},
		AttendanceSummary: models.ReportAttendanceSummary{TotalDays: 180, PresentDays: 170, Percentage: 94.44},
		ExamResults: models.ReportSection[models.ExamResult]{
			Included: true,
			Data:     []models.ExamResult{{SubjectName: "Mathematics", MarksObtained: 85, MaxMarks: 100, Grade: "A"}},
		},
		GeneratedAt: time.Date(2025, time.June, 30, 12, 0, 0, 0, time.UTC),
	}

	data, err := NewReportPDF().Render(payload)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestReportPDFRenderNilPayload(t *testing.T) {
	_, err := NewReportPDF().Render(nil)
	require.Error(t, err)
}
