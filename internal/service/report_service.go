package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kelasworks/sis-api/internal/models"
	appErrors "github.com/kelasworks/sis-api/pkg/errors"
)

type reportReader interface {
	Organization(ctx context.Context, id string) (*models.Organization, error)
	Student(ctx context.Context, id string) (*models.Student, error)
	AcademicYear(ctx context.Context, id string) (*models.AcademicYear, error)
	ExamResults(ctx context.Context, studentID string, from, to time.Time) ([]models.ExamResult, error)
	Leaves(ctx context.Context, studentID string, from, to time.Time) ([]models.LeaveRecord, error)
}

type reportAttendanceReader interface {
	ListBetween(ctx context.Context, studentID string, from, to time.Time) ([]models.AttendanceRecord, error)
}

type reportFeeReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error)
}

// ReportRenderer turns an assembled payload into a downloadable document.
type ReportRenderer interface {
	Render(payload *models.ReportPayload) ([]byte, error)
}

// ReportService assembles the student report payload. Header data always
// loads; the optional sections load concurrently and only when toggled on.
type ReportService struct {
	reports    reportReader
	attendance reportAttendanceReader
	fees       reportFeeReader
	renderer   ReportRenderer
	logger     *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(reports reportReader, attendance reportAttendanceReader, fees reportFeeReader, renderer ReportRenderer, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{reports: reports, attendance: attendance, fees: fees, renderer: renderer, logger: logger}
}

// ReportRequest names the subject and scope of one report.
type ReportRequest struct {
	OrganizationID string                `json:"organization_id"`
	StudentID      string                `json:"student_id"`
	AcademicYearID string                `json:"academic_year_id"`
	Sections       models.ReportSections `json:"sections"`
}

// Assemble builds the full report payload. Sections toggled off are returned
// as Included=false with empty data and never touch the store.
func (s *ReportService) Assemble(ctx context.Context, req ReportRequest) (*models.ReportPayload, error) {
	if req.OrganizationID == "" || req.StudentID == "" || req.AcademicYearID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "organization, student, and academic year are required")
	}

	year, err := s.reports.AcademicYear(ctx, req.AcademicYearID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "academic year not found")
	}

	payload := &models.ReportPayload{
		AcademicYear: *year,
		Fees:         emptySection[models.Fee](),
		Attendance:   emptySection[models.AttendanceRecord](),
		ExamResults:  emptySection[models.ExamResult](),
		Leaves:       emptySection[models.LeaveRecord](),
		GeneratedAt:  time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		org, err := s.reports.Organization(gctx, req.OrganizationID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "organization not found")
		}
		payload.Organization = *org
		return nil
	})

	g.Go(func() error {
		student, err := s.reports.Student(gctx, req.StudentID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "student not found")
		}
		if student.OrganizationID != req.OrganizationID {
			return appErrors.Clone(appErrors.ErrForbidden, "student belongs to a different organization")
		}
		payload.Student = *student
		return nil
	})

	if req.Sections.FeeDetails {
		g.Go(func() error {
			fees, err := s.fees.ListByStudent(gctx, req.StudentID)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fees")
			}
			payload.Fees = section(fees)
			payload.FeeSummary = FeeSummary(fees)
			return nil
		})
	}

	if req.Sections.Attendance {
		g.Go(func() error {
			records, err := s.attendance.ListBetween(gctx, req.StudentID, year.StartDate, year.EndDate)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
			}
			payload.Attendance = section(records)
			payload.AttendanceSummary = summarizeAttendance(records)
			return nil
		})
	}

	if req.Sections.ExamResults {
		g.Go(func() error {
			results, err := s.reports.ExamResults(gctx, req.StudentID, year.StartDate, year.EndDate)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam results")
			}
			payload.ExamResults = section(results)
			return nil
		})
	}

	if req.Sections.LeaveRecords {
		g.Go(func() error {
			leaves, err := s.reports.Leaves(gctx, req.StudentID, year.StartDate, year.EndDate)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave records")
			}
			payload.Leaves = section(leaves)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Render assembles the payload and hands it to the document renderer.
func (s *ReportService) Render(ctx context.Context, req ReportRequest) ([]byte, error) {
	payload, err := s.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.renderer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "report rendering is not configured")
	}
	doc, err := s.renderer.Render(payload)
	if err != nil {
		s.logger.Error("report render failed", zap.String("student_id", req.StudentID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	return doc, nil
}

// summarizeAttendance condenses records into the renderer summary. The
// percentage counts PRESENT, LATE, and EARLY_DISMISSAL as attended and is
// rounded to two decimals; an empty window yields zero.
func summarizeAttendance(records []models.AttendanceRecord) models.ReportAttendanceSummary {
	summary := models.ReportAttendanceSummary{TotalDays: len(records)}
	for _, rec := range records {
		if rec.Status.CountsPresent() {
			summary.PresentDays++
		}
		switch rec.Status {
		case models.AttendanceStatusAbsent, models.AttendanceStatusExcusedAbsent, models.AttendanceStatusUnexcusedAbsent:
			summary.AbsentDays++
		case models.AttendanceStatusLate:
			summary.LateDays++
		}
	}
	if summary.TotalDays > 0 {
		pct := float64(summary.PresentDays) / float64(summary.TotalDays) * 100
		summary.Percentage = math.Round(pct*100) / 100
	}
	return summary
}

func section[T any](data []T) models.ReportSection[T] {
	if data == nil {
		data = []T{}
	}
	return models.ReportSection[T]{Included: true, Data: data}
}

func emptySection[T any]() models.ReportSection[T] {
	return models.ReportSection[T]{Included: false, Data: []T{}}
}
