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

type reportAssembler interface {
	Assemble(ctx context.Context, req service.ReportRequest) (*models.ReportPayload, error)
	Render(ctx context.Context, req service.ReportRequest) ([]byte, error)
}

// ReportHandler exposes student report assembly and rendering.
type ReportHandler struct {
	reports reportAssembler
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportAssembler) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Assemble godoc
// @Summary Assemble a student report payload
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body service.ReportRequest true "Report request"
// @Success 200 {object} response.Envelope
// @Router /reports/student [post]
func (h *ReportHandler) Assemble(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	payload, err := h.reports.Assemble(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

// Render godoc
// @Summary Render a student report as PDF
// @Tags Reports
// @Accept json
// @Produce application/pdf
// @Param payload body service.ReportRequest true "Report request"
// @Success 200 {string} string "PDF content"
// @Router /reports/student/pdf [post]
func (h *ReportHandler) Render(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	doc, err := h.reports.Render(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="student-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *ReportHandler) bindRequest(c *gin.Context) (service.ReportRequest, bool) {
	var req service.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return req, false
	}
	if claims := claimsFromContext(c); claims != nil && claims.OrganizationID != "" {
		req.OrganizationID = claims.OrganizationID
	}
	return req, true
}
