package chain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
)

type route struct {
	scanner gateway.ChainScanner
	timeout time.Duration
}

// Router dispatches a scan to the scanner registered for the asset's chain
type Router struct {
	routes map[string]route
	logger coreport.Logger
}

// NewRouter creates an empty router
func NewRouter(logger coreport.Logger) *Router {
	return &Router{
		routes: make(map[string]route),
		logger: logger,
	}
}

// Register binds a chain name to a scanner. A positive timeout bounds every scan on that chain.
func (r *Router) Register(chainName string, scanner gateway.ChainScanner, timeout time.Duration) {
	r.routes[strings.ToLower(chainName)] = route{scanner: scanner, timeout: timeout}
}

// Chains returns the registered chain names, sorted
func (r *Router) Chains() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindIncomingTransfer implements gateway.ChainScanner
func (r *Router) FindIncomingTransfer(ctx context.Context, asset entity.Asset, address string) (string, bool, error) {
	rt, ok := r.routes[asset.Chain]
	if !ok {
		return "", false, fmt.Errorf("%w: %s", errs.ErrUnsupportedChain, asset.Chain)
	}

	if rt.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.timeout)
		defer cancel()
	}

	hash, found, err := rt.scanner.FindIncomingTransfer(ctx, asset, address)
	if err != nil {
		return "", false, err
	}
	if found {
		r.logger.Info("Incoming transfer found on chain", map[string]any{
			"asset":   asset.String(),
			"address": address,
			"hash":    hash,
		})
	}
	return hash, found, nil
}

// newLimiter builds the per-chain RPC limiter; a non-positive rate disables limiting
func newLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// lookupToken resolves the mint or contract configured for a symbol
func lookupToken(tokens map[string]string, asset entity.Asset) (string, error) {
	token, ok := tokens[strings.ToLower(asset.Symbol)]
	if !ok || token == "" {
		return "", fmt.Errorf("%w: %s", errs.ErrUnknownToken, asset.String())
	}
	return token, nil
}

func rpcError(chainName, method string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", errs.ErrUpstream, chainName, method, err)
}
