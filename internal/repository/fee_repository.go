package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kelasworks/sis-api/internal/models"
)

// FeeRepository reads fee ledgers and payments. Mutations belong to the
// payment recorder collaborator; this service only aggregates.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs the repository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

const feeColumns = `id, organization_id, student_id, fee_category_id, total_fee, paid_amount, pending_amount, status, due_date, created_at`

// ListByStudent returns all fee ledgers for a student.
func (r *FeeRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Fee, error) {
	query := fmt.Sprintf(`SELECT %s FROM fees WHERE student_id = $1 ORDER BY due_date ASC`, feeColumns)
	var rows []models.Fee
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list fees by student: %w", err)
	}
	return rows, nil
}

// ListByOrganization returns all fee ledgers for a tenant.
func (r *FeeRepository) ListByOrganization(ctx context.Context, organizationID string) ([]models.Fee, error) {
	query := fmt.Sprintf(`SELECT %s FROM fees WHERE organization_id = $1 ORDER BY due_date ASC`, feeColumns)
	var rows []models.Fee
	if err := r.db.SelectContext(ctx, &rows, query, organizationID); err != nil {
		return nil, fmt.Errorf("list fees by organization: %w", err)
	}
	return rows, nil
}

// ListPayments returns the append-only payment trail for a fee.
func (r *FeeRepository) ListPayments(ctx context.Context, feeID string) ([]models.Payment, error) {
	query := `SELECT id, fee_id, amount, status, payment_method, payment_date, payer_id
FROM payments WHERE fee_id = $1 ORDER BY payment_date ASC`
	var rows []models.Payment
	if err := r.db.SelectContext(ctx, &rows, query, feeID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return rows, nil
}

// BillingRepository reads the billing-only datasets: notification dispatch
// logs and stored file sizes.
type BillingRepository struct {
	db *sqlx.DB
}

// NewBillingRepository constructs the repository.
func NewBillingRepository(db *sqlx.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// NotificationLogs returns dispatch logs for a tenant within [from, to].
func (r *BillingRepository) NotificationLogs(ctx context.Context, organizationID string, from, to time.Time) ([]models.NotificationLog, error) {
	query := `SELECT id, organization_id, channel, units, cost, status, created_at
FROM notification_logs
WHERE organization_id = $1 AND created_at >= $2 AND created_at <= $3`
	var rows []models.NotificationLog
	if err := r.db.SelectContext(ctx, &rows, query, organizationID, from, to); err != nil {
		return nil, fmt.Errorf("notification logs: %w", err)
	}
	return rows, nil
}

// DocumentSizes returns the stored document sizes for a tenant.
func (r *BillingRepository) DocumentSizes(ctx context.Context, organizationID string) ([]models.StoredFile, error) {
	query := `SELECT id, file_size FROM documents WHERE organization_id = $1`
	var rows []models.StoredFile
	if err := r.db.SelectContext(ctx, &rows, query, organizationID); err != nil {
		return nil, fmt.Errorf("document sizes: %w", err)
	}
	return rows, nil
}

// NoticeAttachmentSizes returns notice attachment sizes for a tenant.
func (r *BillingRepository) NoticeAttachmentSizes(ctx context.Context, organizationID string) ([]models.StoredFile, error) {
	query := `SELECT id, file_size FROM notice_attachments WHERE organization_id = $1`
	var rows []models.StoredFile
	if err := r.db.SelectContext(ctx, &rows, query, organizationID); err != nil {
		return nil, fmt.Errorf("notice attachment sizes: %w", err)
	}
	return rows, nil
}
