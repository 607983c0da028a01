package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kelasworks/sis-api/internal/models"
	"github.com/kelasworks/sis-api/internal/service"
	appErrors "github.com/kelasworks/sis-api/pkg/errors"
	"github.com/kelasworks/sis-api/pkg/response"
)

type bulkExamCreator interface {
	BulkCreate(ctx context.Context, scope models.BulkExamScope, rows []models.ExamRow) models.BulkExamResult
}

// ExamHandler exposes bulk exam creation and conflict checking.
type ExamHandler struct {
	exams    bulkExamCreator
	detector service.ConflictDetector
}

// NewExamHandler constructs ExamHandler.
func NewExamHandler(exams bulkExamCreator, detector service.ConflictDetector) *ExamHandler {
	return &ExamHandler{exams: exams, detector: detector}
}

// BulkExamRequest is the bulk creation payload.
type BulkExamRequest struct {
	Scope models.BulkExamScope `json:"scope"`
	Rows  []models.ExamRow     `json:"rows"`
}

// BulkCreate godoc
// @Summary Create a batch of exams
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body BulkExamRequest true "Exam batch"
// @Success 200 {object} response.Envelope
// @Router /exams/bulk [post]
func (h *ExamHandler) BulkCreate(c *gin.Context) {
	var req BulkExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil && claims.OrganizationID != "" {
		req.Scope.OrganizationID = claims.OrganizationID
	}
	result := h.exams.BulkCreate(c.Request.Context(), req.Scope, req.Rows)
	status := http.StatusOK
	if !result.OK {
		status = http.StatusUnprocessableEntity
	}
	response.JSON(c, status, result, nil)
}

// CheckConflicts godoc
// @Summary Dry-run conflict check for a batch of exams
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body BulkExamRequest true "Exam batch"
// @Success 200 {object} response.Envelope
// @Router /exams/conflicts [post]
func (h *ExamHandler) CheckConflicts(c *gin.Context) {
	var req BulkExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	conflicts := h.detector.Detect(c.Request.Context(), req.Rows)
	response.JSON(c, http.StatusOK, gin.H{"conflicts": conflicts, "clean": len(conflicts) == 0}, nil)
}
