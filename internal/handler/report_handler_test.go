package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelasworks/sis-api/internal/models"
	"github.com/kelasworks/sis-api/internal/service"
	appErrors "github.com/kelasworks/sis-api/pkg/errors"
)

type fakeReportService struct {
	payload *models.ReportPayload
	pdf     []byte
	err     error
	lastReq service.ReportRequest
}

func (f *fakeReportService) Assemble(_ context.Context, req service.ReportRequest) (*models.ReportPayload, error) {
	f.lastReq = req
	return f.payload, f.err
}

func (f *fakeReportService) Render(_ context.Context, req service.ReportRequest) ([]byte, error) {
	f.lastReq = req
	return f.pdf, f.err
}

func reportBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(service.ReportRequest{
		OrganizationID: "org-1",
		StudentID:      "student-1",
		AcademicYearID: "ay-2024",
		Sections:       models.ReportSections{Attendance: true},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestReportHandlerAssembleSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeReportService{payload: &models.ReportPayload{
		Student: models.Student{ID: "student-1", FullName: "Siti Rahma"},
	}}
	handler := NewReportHandler(svc)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports/student", reportBody(t))

	handler.Assemble(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student-1", svc.lastReq.StudentID)
}

func TestReportHandlerAssembleNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeReportService{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}
	handler := NewReportHandler(svc)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports/student", reportBody(t))

	handler.Assemble(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportHandlerRenderServesPDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeReportService{pdf: []byte("%PDF-1.4")}
	handler := NewReportHandler(svc)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports/student/pdf", reportBody(t))

	handler.Render(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "student-report.pdf")
}

func TestReportHandlerInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeReportService{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports/student", bytes.NewBufferString("not json"))

	handler.Assemble(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
