package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kelasworks/sis-api/internal/models"
	"github.com/kelasworks/sis-api/pkg/dateutil"
	appErrors "github.com/kelasworks/sis-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	BulkInsert(ctx context.Context, records []models.AttendanceRecord, atomic bool) ([]models.AttendanceRecord, error)
	ListBetween(ctx context.Context, studentID string, from, to time.Time) ([]models.AttendanceRecord, error)
	SectionRecordedCount(ctx context.Context, sectionID string, date time.Time) (int, error)
	SectionStudentCount(ctx context.Context, sectionID string) (int, error)
}

// AttendanceServiceConfig tunes aggregation behaviour.
type AttendanceServiceConfig struct {
	CacheTTL          time.Duration
	DefaultWindowDays int
	MaxWindowDays     int
}

// AttendanceService computes attendance rollups and coordinates marking.
// All period arithmetic happens in the organization's reporting location.
type AttendanceService struct {
	repo      attendanceRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	weekStart time.Weekday
	cfg       AttendanceServiceConfig
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, loc *time.Location, weekStart time.Weekday, cfg AttendanceServiceConfig) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if cfg.DefaultWindowDays <= 0 {
		cfg.DefaultWindowDays = 30
	}
	if cfg.MaxWindowDays <= 0 {
		cfg.MaxWindowDays = 366
	}
	svc := &AttendanceService{repo: repo, cache: cache, validator: validate, logger: logger, loc: loc, weekStart: weekStart, cfg: cfg}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(strings.ToUpper(fl.Field().String())).Valid()
	})
	return svc
}

// MonthStats counts attendance from the start of the month containing ref
// through ref inclusive.
func (s *AttendanceService) MonthStats(ctx context.Context, studentID string, ref time.Time) (*models.AttendancePeriodStats, error) {
	return s.periodStats(ctx, studentID, dateutil.StartOfMonth(ref, s.loc), ref)
}

// YearStats counts attendance from the start of the year containing ref
// through ref inclusive.
func (s *AttendanceService) YearStats(ctx context.Context, studentID string, ref time.Time) (*models.AttendancePeriodStats, error) {
	return s.periodStats(ctx, studentID, dateutil.StartOfYear(ref, s.loc), ref)
}

func (s *AttendanceService) periodStats(ctx context.Context, studentID string, from, to time.Time) (*models.AttendancePeriodStats, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id required")
	}
	records, err := s.repo.ListBetween(ctx, studentID, from, dateutil.StartOfDay(to, s.loc))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance period")
	}
	stats := &models.AttendancePeriodStats{Total: len(records)}
	for _, rec := range records {
		if rec.Present {
			stats.Present++
		}
	}
	stats.Percentage = roundPercentage(stats.Present, stats.Total)
	return stats, nil
}

// RollingWindow produces one entry per calendar day in
// [end-days+1, end]. Days without a stored record carry NOT_MARKED; a
// missing record never means the student was absent.
func (s *AttendanceService) RollingWindow(ctx context.Context, studentID string, days int, end time.Time) ([]models.AttendanceDay, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id required")
	}
	if days <= 0 {
		days = s.cfg.DefaultWindowDays
	}
	if days > s.cfg.MaxWindowDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("window may not exceed %d days", s.cfg.MaxWindowDays))
	}
	endDay := dateutil.StartOfDay(end, s.loc)
	startDay := endDay.AddDate(0, 0, -(days - 1))

	records, err := s.repo.ListBetween(ctx, studentID, startDay, endDay)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance window")
	}
	byDay := make(map[string]models.AttendanceStatus, len(records))
	for _, rec := range records {
		byDay[dateutil.DayKey(rec.Date, s.loc)] = rec.Status
	}

	window := make([]models.AttendanceDay, 0, days)
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		status, ok := byDay[dateutil.DayKey(day, s.loc)]
		if !ok {
			status = models.AttendanceStatusNotMarked
		}
		window = append(window, models.AttendanceDay{Date: day, Status: status})
	}
	return window, nil
}

// Streaks scans a window for consecutive-PRESENT runs. Current counts the
// run ending at the window's last day; Best is the longest run anywhere.
// Any non-PRESENT status, including NOT_MARKED, breaks a run.
func Streaks(window []models.AttendanceDay) models.AttendanceStreaks {
	var streaks models.AttendanceStreaks
	run := 0
	for _, day := range window {
		if day.Status == models.AttendanceStatusPresent {
			run++
			if run > streaks.Best {
				streaks.Best = run
			}
		} else {
			run = 0
		}
	}
	// The loop leaves run holding the trailing streak.
	streaks.Current = run
	return streaks
}

// DayOfWeekPattern groups records by weekday (0=Sunday..6=Saturday) across an
// arbitrary range, independent of week boundaries.
func (s *AttendanceService) DayOfWeekPattern(records []models.AttendanceRecord) []models.DayOfWeekStat {
	totals := make(map[int]*models.DayOfWeekStat)
	for _, rec := range records {
		dow := int(rec.Date.In(s.loc).Weekday())
		stat, ok := totals[dow]
		if !ok {
			stat = &models.DayOfWeekStat{DayOfWeek: dow}
			totals[dow] = stat
		}
		stat.Total++
		if rec.Present {
			stat.Present++
		}
	}

	pattern := make([]models.DayOfWeekStat, 0, len(totals))
	for _, stat := range totals {
		if stat.Total > 0 {
			stat.Percentage = math.Round(float64(stat.Present)/float64(stat.Total)*100*100) / 100
		}
		pattern = append(pattern, *stat)
	}
	sort.Slice(pattern, func(i, j int) bool { return pattern[i].DayOfWeek < pattern[j].DayOfWeek })
	return pattern
}

// SectionCompletionStatus reports marking progress for a section.
func SectionCompletionStatus(recorded, totalStudents int) models.SectionCompletion {
	switch {
	case recorded == 0:
		return models.SectionCompletionPending
	case recorded >= totalStudents:
		return models.SectionCompletionCompleted
	default:
		return models.SectionCompletionInProgress
	}
}

// SectionCompletion resolves marking progress for a section on a date.
func (s *AttendanceService) SectionCompletion(ctx context.Context, sectionID string, date time.Time) (models.SectionCompletion, error) {
	if sectionID == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "section id required")
	}
	day := dateutil.StartOfDay(date, s.loc)
	recorded, err := s.repo.SectionRecordedCount(ctx, sectionID, day)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count recorded attendance")
	}
	total, err := s.repo.SectionStudentCount(ctx, sectionID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count section students")
	}
	return SectionCompletionStatus(recorded, total), nil
}

// StudentOverview bundles the aggregates the student dashboard renders.
type StudentOverview struct {
	Month   models.AttendancePeriodStats `json:"month"`
	Year    models.AttendancePeriodStats `json:"year"`
	Window  []models.AttendanceDay       `json:"window"`
	Streaks models.AttendanceStreaks     `json:"streaks"`
	Pattern []models.DayOfWeekStat       `json:"pattern"`
}

// Overview computes the full per-student aggregate set, cached per day.
func (s *AttendanceService) Overview(ctx context.Context, studentID string, ref time.Time) (*StudentOverview, bool, error) {
	if studentID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "student id required")
	}
	cacheKey := fmt.Sprintf("attendance:overview:%s:%s", studentID, dateutil.DayKey(ref, s.loc))
	if s.cache != nil {
		var cached StudentOverview
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	month, err := s.MonthStats(ctx, studentID, ref)
	if err != nil {
		return nil, false, err
	}
	year, err := s.YearStats(ctx, studentID, ref)
	if err != nil {
		return nil, false, err
	}
	window, err := s.RollingWindow(ctx, studentID, s.cfg.DefaultWindowDays, ref)
	if err != nil {
		return nil, false, err
	}
	yearStart := dateutil.StartOfYear(ref, s.loc)
	records, err := s.repo.ListBetween(ctx, studentID, yearStart, dateutil.StartOfDay(ref, s.loc))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
	}

	overview := &StudentOverview{
		Month:   *month,
		Year:    *year,
		Window:  window,
		Streaks: Streaks(window),
		Pattern: s.DayOfWeekPattern(records),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, overview, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("attendance overview cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return overview, false, nil
}

// MarkRequest describes the payload for marking a single day.
type MarkRequest struct {
	OrganizationID string  `json:"organization_id" validate:"required"`
	StudentID      string  `json:"student_id" validate:"required"`
	SectionID      string  `json:"section_id" validate:"required"`
	Date           string  `json:"date" validate:"required"`
	Status         string  `json:"status" validate:"required,attendance_status"`
	RecordedBy     string  `json:"recorded_by" validate:"required"`
	Notes          *string `json:"notes"`
}

// Mark upserts the single record for (student, day).
func (s *AttendanceService) Mark(ctx context.Context, req MarkRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	status := models.AttendanceStatus(strings.ToUpper(req.Status))
	record := &models.AttendanceRecord{
		OrganizationID: req.OrganizationID,
		StudentID:      req.StudentID,
		SectionID:      req.SectionID,
		Date:           date,
		Status:         status,
		Present:        status.CountsPresent(),
		RecordedBy:     req.RecordedBy,
		Notes:          req.Notes,
	}
	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark attendance")
	}
	s.invalidateStudent(ctx, req.StudentID)
	return stored, nil
}

// BulkMarkItem is one student's entry in a bulk mark.
type BulkMarkItem struct {
	StudentID string  `json:"student_id" validate:"required"`
	Status    string  `json:"status" validate:"required,attendance_status"`
	Notes     *string `json:"notes"`
}

// BulkMarkRequest marks a whole section for one day.
type BulkMarkRequest struct {
	OrganizationID string         `json:"organization_id" validate:"required"`
	SectionID      string         `json:"section_id" validate:"required"`
	Date           string         `json:"date" validate:"required"`
	RecordedBy     string         `json:"recorded_by" validate:"required"`
	Items          []BulkMarkItem `json:"items" validate:"required,min=1,dive"`
}

// BulkMarkResult summarises bulk execution.
type BulkMarkResult struct {
	Processed  int      `json:"processed"`
	Success    int      `json:"success"`
	Duplicates []string `json:"duplicates,omitempty"`
}

// BulkMark records attendance for multiple students in one transaction.
func (s *AttendanceService) BulkMark(ctx context.Context, req BulkMarkRequest) (*BulkMarkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	seen := map[string]struct{}{}
	records := make([]models.AttendanceRecord, len(req.Items))
	for i, item := range req.Items {
		if _, ok := seen[item.StudentID]; ok {
			return nil, appErrors.Clone(appErrors.ErrConflict, "duplicate student in payload")
		}
		seen[item.StudentID] = struct{}{}
		status := models.AttendanceStatus(strings.ToUpper(item.Status))
		records[i] = models.AttendanceRecord{
			OrganizationID: req.OrganizationID,
			StudentID:      item.StudentID,
			SectionID:      req.SectionID,
			Date:           date,
			Status:         status,
			Present:        status.CountsPresent(),
			RecordedBy:     req.RecordedBy,
			Notes:          item.Notes,
		}
	}
	conflicts, err := s.repo.BulkInsert(ctx, records, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bulk mark failed")
	}
	result := &BulkMarkResult{Processed: len(records), Success: len(records) - len(conflicts)}
	for _, conflict := range conflicts {
		result.Duplicates = append(result.Duplicates, conflict.StudentID)
	}
	for _, rec := range records {
		s.invalidateStudent(ctx, rec.StudentID)
	}
	return result, nil
}

// List returns paginated attendance records.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return rows, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

func (s *AttendanceService) invalidateStudent(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("attendance:overview:%s:*", studentID)); err != nil {
		s.logger.Warn("attendance cache invalidate failed", zap.String("student_id", studentID), zap.Error(err))
	}
}

// roundPercentage applies round-half-up on the ratio x 100 and is defined as
// 0 when total is 0, never NaN.
func roundPercentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
