package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationInvalidDate   ErrorCode = "VALIDATION_004"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount ErrorCode = "TRANSACTION_002"
	TransactionInvalidKind   ErrorCode = "TRANSACTION_003"
	TransactionRejected      ErrorCode = "TRANSACTION_004"
)

// Sync error codes (SYNC_*)
const (
	SyncOffline         ErrorCode = "SYNC_001"
	SyncScopeMismatch   ErrorCode = "SYNC_002"
	SyncNotBootstrapped ErrorCode = "SYNC_003"
)

// Outbox error codes (OUTBOX_*)
const (
	OutboxPersistenceFailed ErrorCode = "OUTBOX_001"
	OutboxEntryNotFound     ErrorCode = "OUTBOX_002"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemGatewayUnavailable ErrorCode = "SYSTEM_002"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_003"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationInvalidDate:   "Invalid date format or range",

	TransactionNotFound:      "Transaction not found",
	TransactionInvalidAmount: "Invalid transaction amount",
	TransactionInvalidKind:   "Invalid transaction kind or payment method",
	TransactionRejected:      "The remote store rejected this transaction",

	SyncOffline:         "Operation requires connectivity",
	SyncScopeMismatch:   "Record does not belong to the active scope",
	SyncNotBootstrapped: "Initial load has not completed",

	OutboxPersistenceFailed: "Could not persist the pending transaction locally",
	OutboxEntryNotFound:     "Pending entry not found",

	SystemInternalError:      "An internal error occurred",
	SystemGatewayUnavailable: "Remote store is unreachable",
	SystemRateLimitExceeded:  "Too many requests",
}

// GetErrorMessage returns the default message for an error code
func GetErrorMessage(code ErrorCode) string {
	if message, ok := errorMessages[code]; ok {
		return message
	}
	return "Unknown error"
}
