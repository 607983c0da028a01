package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelasworks/sis-api/internal/middleware"
	"github.com/kelasworks/sis-api/internal/models"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeExamCreator struct {
	result models.BulkExamResult
	scope  models.BulkExamScope
	rows   []models.ExamRow
}

func (f *fakeExamCreator) BulkCreate(_ context.Context, scope models.BulkExamScope, rows []models.ExamRow) models.BulkExamResult {
	f.scope = scope
	f.rows = rows
	return f.result
}

type fakeDetector struct {
	conflicts []string
}

func (f *fakeDetector) Detect(context.Context, []models.ExamRow) []string {
	return f.conflicts
}

func bulkExamBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(BulkExamRequest{
		Scope: models.BulkExamScope{
			OrganizationID: "org-1",
			ExamSessionID:  "session-1",
			GradeID:        "grade-10",
			SectionID:      "section-a",
		},
		Rows: []models.ExamRow{{
			SubjectID: "math",
			Title:     "Mathematics",
			StartDate: time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, time.March, 10, 11, 0, 0, 0, time.UTC),
			MaxMarks:  100,
		}},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestExamHandlerBulkCreateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	creator := &fakeExamCreator{result: models.BulkExamResult{OK: true, Message: "1 exams created", Created: 1}}
	handler := NewExamHandler(creator, &fakeDetector{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/exams/bulk", bulkExamBody(t))

	handler.BulkCreate(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Data["ok"])
	assert.Equal(t, float64(1), envelope.Data["created"])
}

func TestExamHandlerBulkCreateRejectionIs422(t *testing.T) {
	gin.SetMode(gin.TestMode)
	creator := &fakeExamCreator{result: models.BulkExamResult{OK: false, Message: "time overlap"}}
	handler := NewExamHandler(creator, &fakeDetector{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/exams/bulk", bulkExamBody(t))

	handler.BulkCreate(c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExamHandlerBulkCreateForcesTenantFromClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	creator := &fakeExamCreator{result: models.BulkExamResult{OK: true}}
	handler := NewExamHandler(creator, &fakeDetector{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/exams/bulk", bulkExamBody(t))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{OrganizationID: "org-claims"})

	handler.BulkCreate(c)

	assert.Equal(t, "org-claims", creator.scope.OrganizationID)
}

func TestExamHandlerBulkCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExamHandler(&fakeExamCreator{}, &fakeDetector{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/exams/bulk", bytes.NewBufferString("{not json"))

	handler.BulkCreate(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExamHandlerCheckConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExamHandler(&fakeExamCreator{}, &fakeDetector{conflicts: []string{"duplicate subject math"}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/exams/conflicts", bulkExamBody(t))

	handler.CheckConflicts(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope.Data["clean"])
}
