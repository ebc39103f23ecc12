package transaction

import (
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
)

// TransactionValidator provides validation for initiation requests
type TransactionValidator struct {
	supportedChains map[string]struct{}
}

// NewTransactionValidator creates a new TransactionValidator.
// With no chains given every chain prefix is accepted.
func NewTransactionValidator(supportedChains ...string) *TransactionValidator {
	v := &TransactionValidator{supportedChains: make(map[string]struct{}, len(supportedChains))}
	for _, c := range supportedChains {
		v.supportedChains[strings.ToLower(c)] = struct{}{}
	}
	return v
}

// ValidateInitiate validates all fields of an initiation request
func (v *TransactionValidator) ValidateInitiate(req usecase.InitiateRequest) error {
	if req.UserID <= 0 {
		return errs.ErrInvalidUserID
	}

	if _, err := entity.ParseTransactionType(req.Type); err != nil {
		return err
	}

	if err := v.validateAsset(req.Asset); err != nil {
		return err
	}

	if _, err := entity.ParseAmount(req.Amount); err != nil {
		return err
	}

	return nil
}

// validateAsset checks the "<chain>:<symbol>" format and, if configured, the chain
func (v *TransactionValidator) validateAsset(asset string) error {
	parsed, err := entity.ParseAsset(asset)
	if err != nil {
		return err
	}

	if len(v.supportedChains) == 0 {
		return nil
	}
	if _, ok := v.supportedChains[parsed.Chain]; !ok {
		return fmt.Errorf("%w: chain %s is not supported", errs.ErrInvalidAsset, parsed.Chain)
	}
	return nil
}
