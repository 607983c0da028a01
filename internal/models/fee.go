package models

import "time"

// FeeStatus tracks the settlement state of a fee ledger entry.
type FeeStatus string

const (
	FeeStatusUnpaid  FeeStatus = "UNPAID"
	FeeStatusPartial FeeStatus = "PARTIAL"
	FeeStatusPaid    FeeStatus = "PAID"
	FeeStatusOverdue FeeStatus = "OVERDUE"
)

// Fee is one ledger entry for a student. pendingAmount = totalFee - paidAmount
// must hold after every payment application; the payment recorder owns the
// mutation.
type Fee struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	FeeCategoryID  string    `db:"fee_category_id" json:"fee_category_id"`
	TotalFee       float64   `db:"total_fee" json:"total_fee"`
	PaidAmount     float64   `db:"paid_amount" json:"paid_amount"`
	PendingAmount  float64   `db:"pending_amount" json:"pending_amount"`
	Status         FeeStatus `db:"status" json:"status"`
	DueDate        time.Time `db:"due_date" json:"due_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Payment is an append-only record against a fee. The sum of a fee's payment
// amounts never exceeds the fee's total.
type Payment struct {
	ID            string    `db:"id" json:"id"`
	FeeID         string    `db:"fee_id" json:"fee_id"`
	Amount        float64   `db:"amount" json:"amount"`
	Status        string    `db:"status" json:"status"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	PaymentDate   time.Time `db:"payment_date" json:"payment_date"`
	PayerID       string    `db:"payer_id" json:"payer_id"`
}

// FeeSummary aggregates a set of fee ledgers.
type FeeSummary struct {
	TotalFees    float64 `json:"total_fees"`
	TotalPaid    float64 `json:"total_paid"`
	TotalPending float64 `json:"total_pending"`
	TotalOverdue float64 `json:"total_overdue"`
}
