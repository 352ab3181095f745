package leasing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus is the derived payment status of an installment.
// It is never stored; it is recomputed from the transaction history on
// every read so displayed state cannot drift from the ledger.
type InstallmentStatus string

const (
	InstallmentStatusPending       InstallmentStatus = "PENDING"        // No payments, not past due
	InstallmentStatusPartiallyPaid InstallmentStatus = "PARTIALLY_PAID" // Some payments, balance remains
	InstallmentStatusPaid          InstallmentStatus = "PAID"           // Fully settled
	InstallmentStatusOverdue       InstallmentStatus = "OVERDUE"        // No payments and past the effective due date
)

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// ExtensionStatus represents the state of a due-date extension request
type ExtensionStatus string

const (
	ExtensionStatusNone     ExtensionStatus = "NONE"     // No extension ever requested
	ExtensionStatusPending  ExtensionStatus = "PENDING"  // Awaiting manager decision
	ExtensionStatusApproved ExtensionStatus = "APPROVED" // Requested date is now the effective due date
	ExtensionStatusRejected ExtensionStatus = "REJECTED" // Declined; tenant may resubmit
)

// IsValid checks if the status is a valid ExtensionStatus
func (s ExtensionStatus) IsValid() bool {
	switch s {
	case ExtensionStatusNone, ExtensionStatusPending, ExtensionStatusApproved, ExtensionStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ExtensionStatus
func (s ExtensionStatus) String() string {
	return string(s)
}

// CanRequest returns true if a new extension request may be submitted.
// Approved is terminal; Rejected allows resubmission.
func (s ExtensionStatus) CanRequest() bool {
	return s == ExtensionStatusNone || s == ExtensionStatusRejected
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheque, PaymentMethodBankTransfer, PaymentMethodCard:
		return true
	}
	return false
}

// TransactionRecord represents a single recorded payment against an
// installment. Records are immutable once appended; corrections are made
// via new offsetting records, never by mutating history.
type TransactionRecord struct {
	ID          uuid.UUID       `json:"id"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      PaymentMethod   `json:"method"`
	Notes       string          `json:"notes,omitempty"`
	DocumentURL string          `json:"document_url,omitempty"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

// TransactionRecords is a slice of TransactionRecord that implements GORM
// Scanner/Valuer for JSONB storage
type TransactionRecords []TransactionRecord

// Value implements driver.Valuer interface for GORM to store as JSONB
func (t TransactionRecords) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (t *TransactionRecords) Scan(value interface{}) error {
	if value == nil {
		*t = TransactionRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TransactionRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*t = TransactionRecords{}
		return nil
	}

	return json.Unmarshal(bytes, t)
}

// GetAmountPaidMoney returns the paid amount as Money value object
func (t *TransactionRecord) GetAmountPaidMoney() valueobject.Money {
	return valueobject.NewMoneyAED(t.AmountPaid)
}

// InstallmentView is the derived, read-only state of an installment at a
// point in time.
type InstallmentView struct {
	Status           InstallmentStatus `json:"status"`
	PaidAmount       decimal.Decimal   `json:"paid_amount"`
	Balance          decimal.Decimal   `json:"balance"`
	ProgressPercent  decimal.Decimal   `json:"progress_percent"`
	EffectiveDueDate time.Time         `json:"effective_due_date"`
}

// Installment represents one scheduled payment obligation within a
// lease's payment plan. It is owned by exactly one lease; ownership moves
// only when a renewal carries an unpaid installment to the successor.
type Installment struct {
	shared.BaseAggregateRoot
	LeaseID          uuid.UUID          `json:"lease_id"`
	Sequence         int                `json:"sequence"`
	DueDate          time.Time          `json:"due_date"`
	Amount           decimal.Decimal    `json:"amount"`       // Pre-tax base
	TaxAmount        decimal.Decimal    `json:"tax_amount"`   // VAT on the taxed slice of the base
	TotalAmount      decimal.Decimal    `json:"total_amount"` // Amount + TaxAmount
	Description      string             `json:"description"`
	ExtensionStatus  ExtensionStatus    `json:"extension_status"`
	RequestedDueDate *time.Time         `json:"requested_due_date,omitempty"`
	ExtensionReason  string             `json:"extension_reason,omitempty"`
	ManagerNotes     string             `json:"manager_notes,omitempty"`
	Transactions     TransactionRecords `json:"transactions"`
}

// NewInstallment creates an installment for a lease. The scheduler is the
// normal caller; amounts are assumed already split and rounded.
func NewInstallment(leaseID uuid.UUID, sequence int, dueDate time.Time, amount, taxAmount decimal.Decimal, description string) (*Installment, error) {
	if leaseID == uuid.Nil {
		return nil, shared.NewDomainError(ErrCodeInvalidSchedule, "Lease ID cannot be empty")
	}
	if sequence < 1 {
		return nil, shared.NewDomainError(ErrCodeInvalidSchedule, "Installment sequence must be positive")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError(ErrCodeInvalidSchedule, "Installment amount cannot be negative")
	}
	if taxAmount.IsNegative() {
		return nil, shared.NewDomainError(ErrCodeInvalidSchedule, "Installment tax amount cannot be negative")
	}

	return &Installment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LeaseID:           leaseID,
		Sequence:          sequence,
		DueDate:           dueDate,
		Amount:            amount,
		TaxAmount:         taxAmount,
		TotalAmount:       amount.Add(taxAmount),
		Description:       description,
		ExtensionStatus:   ExtensionStatusNone,
		Transactions:      TransactionRecords{},
	}, nil
}

// PaidAmount sums all recorded transactions.
func (i *Installment) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, t := range i.Transactions {
		total = total.Add(t.AmountPaid)
	}
	return total
}

// Balance returns the outstanding amount. Never negative: overpayment is
// rejected at record time.
func (i *Installment) Balance() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount())
}

// EffectiveDueDate is the requested date when an extension was approved,
// otherwise the originally scheduled date. The original date is retained
// for audit after approval but no longer drives overdue computation.
func (i *Installment) EffectiveDueDate() time.Time {
	if i.ExtensionStatus == ExtensionStatusApproved && i.RequestedDueDate != nil {
		return *i.RequestedDueDate
	}
	return i.DueDate
}

// Status derives the payment status from the transaction history as of
// the given instant. Overdue applies only to fully unpaid installments;
// a partially paid installment stays PARTIALLY_PAID past its due date.
func (i *Installment) Status(asOf time.Time) InstallmentStatus {
	paid := i.PaidAmount()
	balance := i.TotalAmount.Sub(paid)

	switch {
	case paid.IsZero() && i.EffectiveDueDate().Before(asOf) && balance.IsPositive():
		return InstallmentStatusOverdue
	case paid.GreaterThanOrEqual(i.TotalAmount):
		return InstallmentStatusPaid
	case paid.IsPositive():
		return InstallmentStatusPartiallyPaid
	default:
		return InstallmentStatusPending
	}
}

// ProgressPercent returns paid/total as a percentage clamped to [0,100],
// rounded to two decimal places. Zero-total installments report 0.
func (i *Installment) ProgressPercent() decimal.Decimal {
	if i.TotalAmount.IsZero() {
		return decimal.Zero
	}
	pct := i.PaidAmount().Div(i.TotalAmount).Mul(decimal.NewFromInt(100)).Round(2)
	if pct.IsNegative() {
		return decimal.Zero
	}
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// Snapshot derives the full read-only view as of the given instant.
func (i *Installment) Snapshot(asOf time.Time) InstallmentView {
	return InstallmentView{
		Status:           i.Status(asOf),
		PaidAmount:       i.PaidAmount(),
		Balance:          i.Balance(),
		ProgressPercent:  i.ProgressPercent(),
		EffectiveDueDate: i.EffectiveDueDate(),
	}
}

// RecordPayment appends an immutable transaction record. A payment may
// never exceed the current balance; callers wanting to apply excess must
// record it against a different installment.
func (i *Installment) RecordPayment(amount valueobject.Money, paymentDate time.Time, method PaymentMethod, notes, documentURL string, now time.Time) (*TransactionRecord, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError(ErrCodeInvalidAmount, fmt.Sprintf("Unknown payment method %q", method))
	}
	balance := i.Balance()
	if amount.Amount().GreaterThan(balance) {
		return nil, shared.NewDomainError(ErrCodeOverpayment,
			fmt.Sprintf("Payment amount %s exceeds outstanding balance %s", amount.StringFixed(2), balance.StringFixed(2)))
	}

	record := TransactionRecord{
		ID:          uuid.New(),
		AmountPaid:  amount.Amount(),
		PaymentDate: paymentDate,
		Method:      method,
		Notes:       notes,
		DocumentURL: documentURL,
		RecordedAt:  now,
	}
	i.Transactions = append(i.Transactions, record)
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewPaymentRecordedEvent(i, &record))
	if i.Balance().IsZero() {
		i.AddDomainEvent(NewInstallmentPaidEvent(i))
	}

	return &record, nil
}

// RequestExtension submits a tenant request to move the due date. Allowed
// only when no request is pending or approved, the installment is not
// already paid, and the requested date is strictly in the future.
func (i *Installment) RequestExtension(requestedDate time.Time, reason string, now time.Time) error {
	if !i.ExtensionStatus.CanRequest() {
		return shared.NewDomainError(ErrCodeInvalidExtension,
			fmt.Sprintf("Cannot request extension while status is %s", i.ExtensionStatus))
	}
	if i.Status(now) == InstallmentStatusPaid {
		return shared.NewDomainError(ErrCodeInvalidExtension, "Cannot request extension for a paid installment")
	}
	if !requestedDate.After(now) {
		return shared.NewDomainError(ErrCodeInvalidExtension, "Requested due date must be in the future")
	}

	i.ExtensionStatus = ExtensionStatusPending
	i.RequestedDueDate = &requestedDate
	i.ExtensionReason = reason
	i.ManagerNotes = ""
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewExtensionRequestedEvent(i, requestedDate, reason))

	return nil
}

// ApproveExtension accepts a pending request. The requested date becomes
// the effective due date permanently; the original date stays for audit.
func (i *Installment) ApproveExtension(managerNotes string, now time.Time) error {
	if i.ExtensionStatus != ExtensionStatusPending {
		return shared.NewDomainError(ErrCodeInvalidExtension,
			fmt.Sprintf("Cannot decide extension while status is %s", i.ExtensionStatus))
	}

	i.ExtensionStatus = ExtensionStatusApproved
	i.ManagerNotes = managerNotes
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewExtensionApprovedEvent(i))

	return nil
}

// RejectExtension declines a pending request. Manager notes are required
// and surfaced to the tenant; the requested date is kept for audit but no
// longer has effect. The tenant may submit a new request afterwards.
func (i *Installment) RejectExtension(managerNotes string, now time.Time) error {
	if i.ExtensionStatus != ExtensionStatusPending {
		return shared.NewDomainError(ErrCodeInvalidExtension,
			fmt.Sprintf("Cannot decide extension while status is %s", i.ExtensionStatus))
	}
	if managerNotes == "" {
		return shared.NewDomainError(ErrCodeInvalidExtension, "Manager notes are required when rejecting an extension")
	}

	i.ExtensionStatus = ExtensionStatusRejected
	i.ManagerNotes = managerNotes
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewExtensionRejectedEvent(i, managerNotes))

	return nil
}

// reassignTo moves the installment to a successor lease during renewal,
// preserving its transactions, extension state and notes. Unexported so
// that only the renewal service can change ownership.
func (i *Installment) reassignTo(newLeaseID uuid.UUID, now time.Time) error {
	if newLeaseID == uuid.Nil {
		return shared.NewDomainError(ErrCodeRenewalNotAllowed, "Successor lease ID cannot be empty")
	}

	previousLeaseID := i.LeaseID
	i.LeaseID = newLeaseID
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInstallmentReassignedEvent(i, previousLeaseID, newLeaseID))

	return nil
}

// GetTotalAmountMoney returns the total amount as Money
func (i *Installment) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyAED(i.TotalAmount)
}

// GetBalanceMoney returns the outstanding balance as Money
func (i *Installment) GetBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyAED(i.Balance())
}

// TransactionCount returns the number of recorded payments
func (i *Installment) TransactionCount() int {
	return len(i.Transactions)
}
