package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kelasworks/sis-api/internal/service"
	appErrors "github.com/kelasworks/sis-api/pkg/errors"
	"github.com/kelasworks/sis-api/pkg/response"
)

// BillingHandler exposes fee and billing aggregation endpoints.
type BillingHandler struct {
	billing *service.BillingService
}

// NewBillingHandler constructs BillingHandler.
func NewBillingHandler(billing *service.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// StudentFeeSummary godoc
// @Summary Fee summary for one student
// @Tags Billing
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /billing/students/{id}/fees [get]
func (h *BillingHandler) StudentFeeSummary(c *gin.Context) {
	summary, err := h.billing.StudentFeeSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Overview godoc
// @Summary Billing overview for the organization
// @Tags Billing
// @Produce json
// @Param from query string false "Period start (YYYY-MM-DD), defaults to start of current month"
// @Param to query string false "Period end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /billing/overview [get]
func (h *BillingHandler) Overview(c *gin.Context) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid from date, expected YYYY-MM-DD"))
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid to date, expected YYYY-MM-DD"))
			return
		}
		to = t
	}

	overview, cacheHit, err := h.billing.Overview(c.Request.Context(), organizationScope(c), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil, map[string]interface{}{"cache_hit": cacheHit})
}
