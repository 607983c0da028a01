package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kelasworks/sis-api/internal/models"
	appErrors "github.com/kelasworks/sis-api/pkg/errors"
)

type feeReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]models.Fee, error)
}

type billingReader interface {
	NotificationLogs(ctx context.Context, organizationID string, from, to time.Time) ([]models.NotificationLog, error)
	DocumentSizes(ctx context.Context, organizationID string) ([]models.StoredFile, error)
	NoticeAttachmentSizes(ctx context.Context, organizationID string) ([]models.StoredFile, error)
}

// BillingService aggregates fee ledgers, notification spend, and storage
// usage. Every aggregate returns its zero-identity value on empty input.
type BillingService struct {
	fees     feeReader
	billing  billingReader
	cache    *CacheService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewBillingService constructs the billing service.
func NewBillingService(fees feeReader, billing billingReader, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{fees: fees, billing: billing, cache: cache, logger: logger, cacheTTL: cacheTTL}
}

// FeeSummary folds a fee set into totals. totalPending derives from
// totalFee - paidAmount rather than the stored pending column so the
// invariant holds even if a ledger row is stale.
func FeeSummary(fees []models.Fee) models.FeeSummary {
	var summary models.FeeSummary
	for _, fee := range fees {
		summary.TotalFees += fee.TotalFee
		summary.TotalPaid += fee.PaidAmount
		summary.TotalPending += fee.TotalFee - fee.PaidAmount
		if fee.Status == models.FeeStatusOverdue {
			summary.TotalOverdue += fee.PendingAmount
		}
	}
	return summary
}

// ChannelCostSummary sums units and cost per channel over SENT logs only.
func ChannelCostSummary(logs []models.NotificationLog) models.ChannelCostSummary {
	byChannel := make(map[models.NotificationChannel]*models.ChannelCost)
	var summary models.ChannelCostSummary
	for _, log := range logs {
		if log.Status != "SENT" {
			continue
		}
		entry, ok := byChannel[log.Channel]
		if !ok {
			entry = &models.ChannelCost{Channel: log.Channel}
			byChannel[log.Channel] = entry
		}
		entry.Units += log.Units
		entry.Cost += log.Cost
		summary.TotalCost += log.Cost
	}
	summary.Channels = make([]models.ChannelCost, 0, len(byChannel))
	for _, entry := range byChannel {
		summary.Channels = append(summary.Channels, *entry)
	}
	sort.Slice(summary.Channels, func(i, j int) bool {
		return summary.Channels[i].Channel < summary.Channels[j].Channel
	})
	return summary
}

// StorageUsageMB sums file sizes in bytes across both collections and
// converts to megabytes rounded to two decimals.
func StorageUsageMB(documents, attachments []models.StoredFile) float64 {
	var bytes int64
	for _, doc := range documents {
		bytes += doc.FileSize
	}
	for _, att := range attachments {
		bytes += att.FileSize
	}
	mb := float64(bytes) / 1048576.0
	return math.Round(mb*100) / 100
}

// StudentFeeSummary aggregates one student's ledgers.
func (s *BillingService) StudentFeeSummary(ctx context.Context, studentID string) (*models.FeeSummary, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id required")
	}
	fees, err := s.fees.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student fees")
	}
	summary := FeeSummary(fees)
	return &summary, nil
}

// BillingOverview is the organization billing snapshot.
type BillingOverview struct {
	Fees          models.FeeSummary         `json:"fees"`
	Notifications models.ChannelCostSummary `json:"notifications"`
	StorageMB     float64                   `json:"storage_mb"`
	PeriodFrom    time.Time                 `json:"period_from"`
	PeriodTo      time.Time                 `json:"period_to"`
}

// Overview aggregates the full billing snapshot for a tenant, cached.
func (s *BillingService) Overview(ctx context.Context, organizationID string, from, to time.Time) (*BillingOverview, bool, error) {
	if organizationID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "organization id required")
	}
	cacheKey := fmt.Sprintf("billing:overview:%s:%s:%s", organizationID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if s.cache != nil {
		var cached BillingOverview
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	fees, err := s.fees.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load organization fees")
	}
	logs, err := s.billing.NotificationLogs(ctx, organizationID, from, to)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notification logs")
	}
	documents, err := s.billing.DocumentSizes(ctx, organizationID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document sizes")
	}
	attachments, err := s.billing.NoticeAttachmentSizes(ctx, organizationID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attachment sizes")
	}

	overview := &BillingOverview{
		Fees:          FeeSummary(fees),
		Notifications: ChannelCostSummary(logs),
		StorageMB:     StorageUsageMB(documents, attachments),
		PeriodFrom:    from,
		PeriodTo:      to,
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, overview, s.cacheTTL); err != nil {
			s.logger.Warn("billing overview cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return overview, false, nil
}
