package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
)

// NotificationExtra carries optional upstream details shown alongside a status change
type NotificationExtra struct {
	DestinationAmount   *decimal.Decimal
	DestinationCurrency string
	Rate                *decimal.Decimal
	// Type is the direction as reported upstream; Notification.Type takes precedence
	Type string
}

// Notification is a single status-change message addressed to a user
type Notification struct {
	UserID    int64
	Reference string
	Status    entity.TransactionStatus
	Type      entity.TransactionType
	Asset     entity.Asset
	Amount    decimal.Decimal
	Hash      string
	Message   string
	Extra     *NotificationExtra
}

// Notifier delivers status-change messages to users
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
