package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/kelasworks/sis-api/internal/models"
)

// AttendanceCSV renders attendance records into a CSV download.
type AttendanceCSV struct{}

// NewAttendanceCSV builds the exporter.
func NewAttendanceCSV() *AttendanceCSV {
	return &AttendanceCSV{}
}

// Render produces CSV bytes, one row per attendance record.
func (e *AttendanceCSV) Render(records []models.AttendanceRecord) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"date", "student_id", "status", "recorded_by", "notes"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		notes := ""
		if rec.Notes != nil {
			notes = *rec.Notes
		}
		row := []string{
			rec.Date.Format("2006-01-02"),
			rec.StudentID,
			string(rec.Status),
			rec.RecordedBy,
			notes,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
