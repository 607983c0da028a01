package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/kelasworks/sis-api/internal/models"
)

// ReportPDF renders an assembled student report into a PDF document.
type ReportPDF struct{}

// NewReportPDF constructs the renderer.
func NewReportPDF() *ReportPDF {
	return &ReportPDF{}
}

// Render produces the PDF bytes for the payload. Sections with Included=false
// are omitted from the document.
func (e *ReportPDF) Render(payload *models.ReportPayload) ([]byte, error) {
	if payload == nil {
		return nil, fmt.Errorf("report payload is nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, strings.ToUpper(payload.Organization.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, payload.Organization.Address, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%s | %s", payload.Organization.Phone, payload.Organization.Email), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Student Report - %s", payload.AcademicYear.Name), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	e.keyValue(pdf, "Name", payload.Student.FullName)
	e.keyValue(pdf, "Roll Number", payload.Student.RollNumber)
	e.keyValue(pdf, "Grade", fmt.Sprintf("%s %s", payload.Student.GradeName, payload.Student.SectionName))
	if payload.Student.GuardianName != "" {
		e.keyValue(pdf, "Guardian", payload.Student.GuardianName)
	}
	pdf.Ln(4)

	if payload.Attendance.Included {
		e.sectionTitle(pdf, "Attendance")
		s := payload.AttendanceSummary
		e.table(pdf,
			[]string{"Total Days", "Present", "Absent", "Late", "Percentage"},
			[][]string{{
				fmt.Sprintf("%d", s.TotalDays),
				fmt.Sprintf("%d", s.PresentDays),
				fmt.Sprintf("%d", s.AbsentDays),
				fmt.Sprintf("%d", s.LateDays),
				fmt.Sprintf("%.2f%%", s.Percentage),
			}})
	}

	if payload.ExamResults.Included {
		e.sectionTitle(pdf, "Exam Results")
		rows := make([][]string, 0, len(payload.ExamResults.Data))
		for _, result := range payload.ExamResults.Data {
			rows = append(rows, []string{
				result.SubjectName,
				fmt.Sprintf("%.1f", result.MarksObtained),
				fmt.Sprintf("%.1f", result.MaxMarks),
				result.Grade,
			})
		}
		e.table(pdf, []string{"Subject", "Marks", "Max Marks", "Grade"}, rows)
	}

	if payload.Fees.Included {
		e.sectionTitle(pdf, "Fees")
		s := payload.FeeSummary
		e.table(pdf,
			[]string{"Total", "Paid", "Pending", "Overdue"},
			[][]string{{
				fmt.Sprintf("%.2f", s.TotalFees),
				fmt.Sprintf("%.2f", s.TotalPaid),
				fmt.Sprintf("%.2f", s.TotalPending),
				fmt.Sprintf("%.2f", s.TotalOverdue),
			}})
	}

	if payload.Leaves.Included {
		e.sectionTitle(pdf, "Leave Records")
		rows := make([][]string, 0, len(payload.Leaves.Data))
		for _, leave := range payload.Leaves.Data {
			rows = append(rows, []string{
				leave.FromDate.Format("2006-01-02"),
				leave.ToDate.Format("2006-01-02"),
				leave.Reason,
				leave.Status,
			})
		}
		e.table(pdf, []string{"From", "To", "Reason", "Status"}, rows)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated at %s", payload.GeneratedAt.Format("2006-01-02 15:04 MST")), "", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *ReportPDF) keyValue(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(35, 6, key, "", 0, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "", false, 0, "")
}

func (e *ReportPDF) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, title, "", 1, "", false, 0, "")
}

func (e *ReportPDF) table(pdf *gofpdf.Fpdf, headers []string, rows [][]string) {
	colWidth := 190.0 / float64(len(headers))
	pdf.SetFont("Arial", "B", 9)
	for _, header := range headers {
		pdf.CellFormat(colWidth, 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, 6, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
