package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
)

// Asset identifies a token on a specific chain, encoded as "<chain>:<symbol>"
type Asset struct {
	Chain  string
	Symbol string
}

// ParseAsset parses and normalizes an asset identifier such as "ethereum:usdc"
func ParseAsset(raw string) (Asset, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	chain, symbol, ok := strings.Cut(raw, ":")
	if !ok || chain == "" || symbol == "" || strings.Contains(symbol, ":") {
		return Asset{}, fmt.Errorf("%w: %q", errs.ErrInvalidAsset, raw)
	}
	return Asset{Chain: chain, Symbol: symbol}, nil
}

// MustParseAsset is ParseAsset for literals known to be valid
func MustParseAsset(raw string) Asset {
	a, err := ParseAsset(raw)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the canonical "<chain>:<symbol>" form
func (a Asset) String() string {
	if a.IsZero() {
		return ""
	}
	return a.Chain + ":" + a.Symbol
}

// IsZero reports whether the asset is unset
func (a Asset) IsZero() bool {
	return a.Chain == "" && a.Symbol == ""
}

// DisplaySymbol returns the upper-case ticker used in user-facing text
func (a Asset) DisplaySymbol() string {
	return strings.ToUpper(a.Symbol)
}
