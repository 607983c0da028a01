package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kelasworks/sis-api/internal/models"
	"github.com/kelasworks/sis-api/internal/service"
	appErrors "github.com/kelasworks/sis-api/pkg/errors"
	"github.com/kelasworks/sis-api/pkg/export"
	"github.com/kelasworks/sis-api/pkg/response"
)

// AttendanceHandler exposes attendance aggregation and marking endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	csv        *export.AttendanceCSV
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService, csv *export.AttendanceCSV) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, csv: csv}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param sectionId query string false "Filter by section"
// @Param status query string false "Filter by status"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	records, pagination, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// ExportCSV godoc
// @Summary Export attendance records as CSV
// @Tags Attendance
// @Produce text/csv
// @Param studentId query string true "Student"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {string} string "CSV content"
// @Router /attendance/export [get]
func (h *AttendanceHandler) ExportCSV(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter.Page = 1
	filter.PageSize = 10000
	records, _, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	data, err := h.csv.Render(records)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export attendance"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attendance.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// Overview godoc
// @Summary Per-student attendance overview
// @Tags Attendance
// @Produce json
// @Param id path string true "Student ID"
// @Param date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance/students/{id}/overview [get]
func (h *AttendanceHandler) Overview(c *gin.Context) {
	ref, err := h.parseDate(c, "date", time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	overview, cacheHit, err := h.attendance.Overview(c.Request.Context(), c.Param("id"), ref)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil, map[string]interface{}{"cache_hit": cacheHit})
}

// Window godoc
// @Summary Rolling attendance window for a student
// @Tags Attendance
// @Produce json
// @Param id path string true "Student ID"
// @Param days query int false "Window size in days"
// @Param date query string false "Window end (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance/students/{id}/window [get]
func (h *AttendanceHandler) Window(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))
	end, err := h.parseDate(c, "date", time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	window, err := h.attendance.RollingWindow(c.Request.Context(), c.Param("id"), days, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	streaks := service.Streaks(window)
	response.JSON(c, http.StatusOK, gin.H{"window": window, "streaks": streaks}, nil)
}

// SectionCompletion godoc
// @Summary Marking completion for a section on a date
// @Tags Attendance
// @Produce json
// @Param id path string true "Section ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance/sections/{id}/completion [get]
func (h *AttendanceHandler) SectionCompletion(c *gin.Context) {
	date, err := h.parseDate(c, "date", time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	status, err := h.attendance.SectionCompletion(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": status}, nil)
}

// Mark godoc
// @Summary Mark one student's attendance for a day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.attendance.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// BulkMark godoc
// @Summary Mark a whole section's attendance for a day
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.BulkMarkRequest true "Bulk attendance payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/bulk [post]
func (h *AttendanceHandler) BulkMark(c *gin.Context) {
	var req service.BulkMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.attendance.BulkMark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func (h *AttendanceHandler) parseFilter(c *gin.Context) (models.AttendanceFilter, error) {
	var filter models.AttendanceFilter
	filter.OrganizationID = organizationScope(c)
	filter.StudentID = c.Query("studentId")
	filter.SectionID = c.Query("sectionId")
	if status := strings.ToUpper(c.Query("status")); status != "" {
		value := models.AttendanceStatus(status)
		if !value.Valid() {
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
		}
		filter.Status = &value
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid from date, expected YYYY-MM-DD")
		}
		filter.DateFrom = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid to date, expected YYYY-MM-DD")
		}
		filter.DateTo = &t
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = size
	}
	return filter, nil
}

func (h *AttendanceHandler) parseDate(c *gin.Context, key string, fallback time.Time) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}
