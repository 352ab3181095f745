package leasing

// Domain error codes for the lease and payment lifecycle. These are the
// codes carried by shared.DomainError values returned from this package;
// the HTTP layer maps them to status codes.
const (
	ErrCodeInvalidSchedule   = "INVALID_SCHEDULE"
	ErrCodeInvalidAmount     = "INVALID_AMOUNT"
	ErrCodeOverpayment       = "OVERPAYMENT"
	ErrCodeInvalidExtension  = "INVALID_EXTENSION"
	ErrCodeRenewalNotAllowed = "RENEWAL_NOT_ALLOWED"
)
