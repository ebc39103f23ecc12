package entity

import "strings"

// TransactionStatus is the upstream status vocabulary applied to a transaction
type TransactionStatus string

// TransactionStatus constants
const (
	StatusPending              TransactionStatus = "PENDING"
	StatusAwaitingDeposit      TransactionStatus = "AWAITING_DEPOSIT"
	StatusReceived             TransactionStatus = "RECEIVED"
	StatusAwaitingConfirmation TransactionStatus = "AWAITING_CONFIRMATION"
	StatusVerified             TransactionStatus = "VERIFIED"
	StatusProcessing           TransactionStatus = "PROCESSING"
	StatusCompleted            TransactionStatus = "COMPLETED"
	StatusFailed               TransactionStatus = "FAILED"
	StatusExpired              TransactionStatus = "EXPIRED"
	StatusCancelled            TransactionStatus = "CANCELLED"
)

var terminalStatuses = []TransactionStatus{
	StatusCompleted,
	StatusFailed,
	StatusExpired,
	StatusCancelled,
}

// TerminalStatuses returns the statuses that are never overwritten once reached
func TerminalStatuses() []TransactionStatus {
	out := make([]TransactionStatus, len(terminalStatuses))
	copy(out, terminalStatuses)
	return out
}

// IsTerminal reports whether no further transition may be applied
func (s TransactionStatus) IsTerminal() bool {
	for _, t := range terminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// IsNotifiable reports whether reaching this status should message the user
func (s TransactionStatus) IsNotifiable() bool {
	switch s {
	case StatusReceived, StatusVerified, StatusProcessing,
		StatusCompleted, StatusFailed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// NormalizeStatus upper-cases an upstream status and folds separators to underscores,
// so "awaiting-deposit" and "Awaiting Deposit" both become AWAITING_DEPOSIT.
// Unknown values are kept verbatim: the upstream is authoritative.
func NormalizeStatus(raw string) TransactionStatus {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	if s == "CANCELED" {
		return StatusCancelled
	}
	return TransactionStatus(s)
}
