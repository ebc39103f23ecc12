package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	tport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// TransactionType distinguishes fiat-to-crypto from crypto-to-fiat conversions
type TransactionType string

// Transaction types
const (
	TypeOnramp  TransactionType = "ONRAMP"
	TypeOfframp TransactionType = "OFFRAMP"
)

// ParseTransactionType accepts "onramp"/"offramp" in any case
func ParseTransactionType(raw string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypeOnramp:
		return TypeOnramp, nil
	case TypeOfframp:
		return TypeOfframp, nil
	}
	return "", fmt.Errorf("%w: %s", errs.ErrInvalidType, raw)
}

// InitialStatus is the status a freshly initiated transaction is stored with.
// Offramps wait for the user's on-chain deposit; onramps wait for the upstream acknowledgement.
func (t TransactionType) InitialStatus() TransactionStatus {
	if t == TypeOfframp {
		return StatusAwaitingDeposit
	}
	return StatusPending
}

// Transaction is the locally tracked view of an upstream ramp transaction
type Transaction struct {
	Reference      string            // Upstream-assigned identifier, primary key
	UserID         int64             // Messaging-platform identity of the owner
	Type           TransactionType   // ONRAMP or OFFRAMP
	Asset          Asset             // "<chain>:<symbol>"
	Amount         decimal.Decimal   // Quantity in the source currency
	Status         TransactionStatus // Current believed status
	Hash           string            // On-chain transaction identifier once known
	DepositAddress string            // Offramp deposit address returned at initiation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TransactionOption customizes a transaction at construction time
type TransactionOption func(*Transaction)

// WithCustomStatus overrides the type-derived initial status
func WithCustomStatus(status TransactionStatus) TransactionOption {
	return func(t *Transaction) {
		t.Status = status
	}
}

// WithDepositAddress attaches the offramp deposit address
func WithDepositAddress(address string) TransactionOption {
	return func(t *Transaction) {
		t.DepositAddress = strings.TrimSpace(address)
	}
}

// NewTransaction creates a new transaction with basic validation
func NewTransaction(
	userID int64,
	reference string,
	txType string,
	asset string,
	amount string,
	timeProvider tport.TimeProvider,
	opts ...TransactionOption,
) (*Transaction, error) {
	if userID <= 0 {
		return nil, errs.ErrInvalidUserID
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, errs.ErrInvalidReference
	}

	parsedType, err := ParseTransactionType(txType)
	if err != nil {
		return nil, err
	}

	parsedAsset, err := ParseAsset(asset)
	if err != nil {
		return nil, err
	}

	parsedAmount, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now().UTC()
	tx := &Transaction{
		Reference: reference,
		UserID:    userID,
		Type:      parsedType,
		Asset:     parsedAsset,
		Amount:    parsedAmount,
		Status:    parsedType.InitialStatus(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, opt := range opts {
		opt(tx)
	}

	return tx, nil
}

// IsTerminal reports whether the transaction has reached a final status
func (t *Transaction) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// IsOfframp returns true for crypto-to-fiat transactions
func (t *Transaction) IsOfframp() bool {
	return t.Type == TypeOfframp
}

// Age returns how long ago the transaction was created
func (t *Transaction) Age(now time.Time) time.Duration {
	return now.Sub(t.CreatedAt)
}
