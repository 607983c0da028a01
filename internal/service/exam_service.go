package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/kelasworks/sis-api/internal/models"
)

type examRepository interface {
	ScheduledSubjects(ctx context.Context, scope models.BulkExamScope, subjectIDs []string) ([]string, error)
	ActiveSupervisors(ctx context.Context, ids []string) ([]models.Supervisor, error)
	InsertBatch(ctx context.Context, exams []models.Exam) error
}

// ExamService orchestrates bulk exam creation. Every outcome, success or
// rejection, is reported through BulkExamResult; the caller never sees a
// raw error.
type ExamService struct {
	repo         examRepository
	detector     ConflictDetector
	cache        *CacheService
	metrics      *MetricsService
	validate     *validator.Validate
	logger       *zap.Logger
	maxBatchSize int
}

// NewExamService constructs the exam service.
func NewExamService(repo examRepository, detector ConflictDetector, cache *CacheService, metrics *MetricsService, logger *zap.Logger, maxBatchSize int) *ExamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBatchSize <= 0 {
		maxBatchSize = 50
	}
	return &ExamService{
		repo:         repo,
		detector:     detector,
		cache:        cache,
		metrics:      metrics,
		validate:     validator.New(),
		logger:       logger,
		maxBatchSize: maxBatchSize,
	}
}

// BulkCreate validates, conflict-checks, and persists a batch of exams in a
// single transaction. The pipeline short-circuits on the first failing stage.
func (s *ExamService) BulkCreate(ctx context.Context, scope models.BulkExamScope, rows []models.ExamRow) models.BulkExamResult {
	result := s.bulkCreate(ctx, scope, rows)
	if s.metrics != nil {
		outcome := "created"
		if !result.OK {
			outcome = "rejected"
		}
		s.metrics.RecordBulkExamOutcome(outcome)
	}
	return result
}

func (s *ExamService) bulkCreate(ctx context.Context, scope models.BulkExamScope, rows []models.ExamRow) models.BulkExamResult {
	if err := s.validate.Struct(scope); err != nil {
		return reject("organization, exam session, grade, and section are required")
	}
	if len(rows) == 0 {
		return reject("at least one exam row is required")
	}
	if len(rows) > s.maxBatchSize {
		return reject(fmt.Sprintf("batch exceeds the maximum of %d exams", s.maxBatchSize))
	}
	for i, row := range rows {
		if err := s.validate.Struct(row); err != nil {
			return reject(fmt.Sprintf("row %d: %s", i+1, validationMessage(err)))
		}
	}

	if conflicts := s.detector.Detect(ctx, rows); len(conflicts) > 0 {
		return reject(conflicts[0])
	}

	subjectIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		subjectIDs = append(subjectIDs, row.SubjectID)
	}
	scheduled, err := s.repo.ScheduledSubjects(ctx, scope, subjectIDs)
	if err != nil {
		s.logger.Error("scheduled subjects lookup failed", zap.Error(err))
		return reject("could not verify existing schedule, please try again")
	}
	if len(scheduled) > 0 {
		sort.Strings(scheduled)
		return reject(fmt.Sprintf("subjects already scheduled in this session: %s", strings.Join(scheduled, ", ")))
	}

	if msg := s.checkSupervisors(ctx, rows); msg != "" {
		return reject(msg)
	}

	exams := make([]models.Exam, 0, len(rows))
	for _, row := range rows {
		exams = append(exams, buildExam(scope, row))
	}
	if err := s.repo.InsertBatch(ctx, exams); err != nil {
		s.logger.Error("exam batch insert failed", zap.String("organization_id", scope.OrganizationID), zap.Error(err))
		return reject(translateStoreError(err))
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, fmt.Sprintf("exams:%s:*", scope.OrganizationID)); err != nil {
			s.logger.Warn("exam cache invalidation failed", zap.Error(err))
		}
	}

	return models.BulkExamResult{
		OK:      true,
		Message: fmt.Sprintf("%d exams created", len(exams)),
		Created: len(exams),
	}
}

// checkSupervisors verifies every referenced supervisor exists, is active,
// and holds active employment. Returns a rejection message or "".
func (s *ExamService) checkSupervisors(ctx context.Context, rows []models.ExamRow) string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, row := range rows {
		for _, id := range row.Supervisors {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ""
	}

	active, err := s.repo.ActiveSupervisors(ctx, ids)
	if err != nil {
		s.logger.Error("supervisor lookup failed", zap.Error(err))
		return "could not verify supervisors, please try again"
	}
	available := make(map[string]struct{}, len(active))
	for _, sup := range active {
		available[sup.ID] = struct{}{}
	}
	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := available[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Sprintf("supervisors unavailable or inactive: %s", strings.Join(missing, ", "))
	}
	return ""
}

// buildExam maps a validated row into its persisted form, deriving the
// duration from the start and end instants.
func buildExam(scope models.BulkExamScope, row models.ExamRow) models.Exam {
	exam := models.Exam{
		OrganizationID:    scope.OrganizationID,
		ExamSessionID:     scope.ExamSessionID,
		GradeID:           scope.GradeID,
		SectionID:         scope.SectionID,
		SubjectID:         row.SubjectID,
		Title:             row.Title,
		StartDate:         row.StartDate,
		EndDate:           row.EndDate,
		MaxMarks:          row.MaxMarks,
		PassingMarks:      row.PassingMarks,
		DurationInMinutes: durationMinutes(row),
		Status:            models.ExamStatusScheduled,
	}
	if row.Venue != "" {
		venue := row.Venue
		exam.Venue = &venue
	}
	return exam
}

func durationMinutes(row models.ExamRow) int {
	minutes := int(math.Round(row.EndDate.Sub(row.StartDate).Minutes()))
	if minutes < 0 {
		return 0
	}
	return minutes
}

// translateStoreError maps database failures onto user-facing messages.
func translateStoreError(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return "an exam with the same schedule already exists"
		case "23503":
			return "one of the referenced records does not exist"
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return "a referenced record was not found"
	}
	return "failed to save exams, please try again"
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
		case "gt":
			return fmt.Sprintf("%s must be greater than %s", strings.ToLower(fe.Field()), fe.Param())
		case "gte":
			return fmt.Sprintf("%s must be at least %s", strings.ToLower(fe.Field()), fe.Param())
		}
		return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
	return "invalid input"
}

func reject(message string) models.BulkExamResult {
	return models.BulkExamResult{OK: false, Message: message}
}
