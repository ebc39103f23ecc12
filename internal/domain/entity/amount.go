package entity

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
)

// MaxDecimalPlaces bounds the precision accepted for source amounts (covers 18-decimal tokens)
const MaxDecimalPlaces = 18

// ParseAmount validates a user or upstream supplied amount and returns it as a decimal.
// Amounts must be positive and carry at most MaxDecimalPlaces fractional digits.
func ParseAmount(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	if !value.IsPositive() {
		return decimal.Zero, errs.ErrNegativeAmount
	}

	if -value.Exponent() > MaxDecimalPlaces {
		return decimal.Zero, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
	}

	return value, nil
}

// FormatAmount renders an amount for notifications: fiat-like currencies get two
// decimals, everything else is trimmed of trailing zeros.
func FormatAmount(amount decimal.Decimal, currency string) string {
	switch strings.ToUpper(currency) {
	case "NGN", "KES", "GHS", "USD", "EUR", "GBP", "ZAR", "UGX", "TZS", "XOF":
		return amount.StringFixed(2)
	}
	return amount.String()
}
