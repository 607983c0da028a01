package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kelasworks/sis-api/internal/models"
	"github.com/kelasworks/sis-api/pkg/dateutil"
)

// ConflictDetector inspects a proposed exam batch and returns human-readable
// conflict descriptions. An empty slice means the batch is clean.
type ConflictDetector interface {
	Detect(ctx context.Context, rows []models.ExamRow) []string
}

// LocalConflictDetector is the deterministic detector and the system of
// record for conflicts. It is pure given its rows and location.
type LocalConflictDetector struct {
	loc *time.Location
}

// NewLocalConflictDetector constructs the local detector.
func NewLocalConflictDetector(loc *time.Location) *LocalConflictDetector {
	if loc == nil {
		loc = time.UTC
	}
	return &LocalConflictDetector{loc: loc}
}

// Detect runs structural validation, then per-day overlap and duplicate
// subject checks. Row positions in messages are 1-based.
func (d *LocalConflictDetector) Detect(_ context.Context, rows []models.ExamRow) []string {
	conflicts := []string{}

	valid := make([]models.ExamRow, 0, len(rows))
	for i, row := range rows {
		pos := i + 1
		ok := true
		if row.SubjectID == "" {
			conflicts = append(conflicts, fmt.Sprintf("row %d: subject is required", pos))
			ok = false
		}
		if row.Title == "" {
			conflicts = append(conflicts, fmt.Sprintf("row %d: title is required", pos))
			ok = false
		}
		if row.StartDate.IsZero() || row.EndDate.IsZero() {
			conflicts = append(conflicts, fmt.Sprintf("row %d: start and end times are required", pos))
			ok = false
		} else if !row.EndDate.After(row.StartDate) {
			conflicts = append(conflicts, fmt.Sprintf("row %d: end time must be after start time", pos))
			ok = false
		}
		if row.PassingMarks > row.MaxMarks {
			conflicts = append(conflicts, fmt.Sprintf("row %d: passing marks exceed max marks", pos))
			ok = false
		}
		if ok {
			valid = append(valid, row)
		}
	}

	byDay := dateutil.BucketByDay(valid, d.loc)
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		group := byDay[day]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StartDate.Before(group[j].StartDate)
		})
		for i := 1; i < len(group); i++ {
			prev, curr := group[i-1], group[i]
			if prev.EndDate.After(curr.StartDate) {
				conflicts = append(conflicts, fmt.Sprintf("time overlap between %q and %q on %s", prev.Title, curr.Title, day))
			}
		}

		subjectCount := make(map[string]int, len(group))
		for _, row := range group {
			subjectCount[row.SubjectID]++
		}
		subjects := make([]string, 0, len(subjectCount))
		for subject, count := range subjectCount {
			if count > 1 {
				subjects = append(subjects, subject)
			}
		}
		sort.Strings(subjects)
		for _, subject := range subjects {
			conflicts = append(conflicts, fmt.Sprintf("duplicate subject %s scheduled more than once on %s", subject, day))
		}
	}

	return conflicts
}

type textCompleter interface {
	CompleteJSONStrings(ctx context.Context, instruction string) ([]string, error)
}

// AIConflictDetector asks a generative-text service for a second opinion and
// falls back to the local detector on any failure. The local result is
// always available; correctness never depends on the remote service.
type AIConflictDetector struct {
	local   *LocalConflictDetector
	client  textCompleter
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAIConflictDetector constructs the AI-assisted detector.
func NewAIConflictDetector(local *LocalConflictDetector, client textCompleter, metrics *MetricsService, logger *zap.Logger) *AIConflictDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIConflictDetector{local: local, client: client, metrics: metrics, logger: logger}
}

// Detect delegates to the remote service when configured, falling back to
// the local algorithm when the call or parse fails.
func (d *AIConflictDetector) Detect(ctx context.Context, rows []models.ExamRow) []string {
	if d.client == nil {
		return d.local.Detect(ctx, rows)
	}

	payload, err := json.Marshal(rows)
	if err != nil {
		d.logger.Warn("ai conflict check skipped, marshal failed", zap.Error(err))
		return d.local.Detect(ctx, rows)
	}

	instruction := fmt.Sprintf(`You are reviewing a proposed exam schedule. Identify overlapping exam times on the same day, subjects scheduled more than once on the same day, and rows where passing marks exceed max marks. Respond with ONLY a JSON array of strings, one conflict description per entry, or [] when there are none.

Exam rows:
%s`, payload)

	conflicts, err := d.client.CompleteJSONStrings(ctx, instruction)
	if err != nil {
		d.logger.Warn("ai conflict check failed, using local detector", zap.Error(err))
		if d.metrics != nil {
			d.metrics.RecordAIFallback()
		}
		return d.local.Detect(ctx, rows)
	}
	return conflicts
}
