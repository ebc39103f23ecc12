package gateway

import (
	"context"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
)

// ChainScanner looks for on-chain deposits when the upstream has not seen them yet
type ChainScanner interface {
	// FindIncomingTransfer returns the identifier of a recent successful transaction
	// that increased address's balance of asset. found is false when nothing matched.
	FindIncomingTransfer(ctx context.Context, asset entity.Asset, address string) (hash string, found bool, err error)
}
