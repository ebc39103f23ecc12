package chain

import (
	"context"
	"fmt"
	"slices"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// DefaultSignatureLimit is how many recent signatures are inspected per address
const DefaultSignatureLimit = 10

// SolanaRPC is the subset of *rpc.Client the scanner uses
type SolanaRPC interface {
	GetSignaturesForAddressWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
	GetTransaction(ctx context.Context, txSig solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
}

// SolanaConfig configures a Solana SPL-token scanner
type SolanaConfig struct {
	Name           string
	SignatureLimit int
	// Tokens maps a lower-case symbol to its mint address
	Tokens            map[string]string
	RequestsPerSecond float64
}

// SolanaScanner finds SPL-token deposits by diffing pre/post token balances
// of the most recent transactions touching the deposit address.
type SolanaScanner struct {
	name    string
	client  SolanaRPC
	limit   int
	tokens  map[string]string
	limiter *rate.Limiter
	logger  coreport.Logger
}

// NewSolanaScanner creates a new Solana scanner
func NewSolanaScanner(client SolanaRPC, cfg SolanaConfig, logger coreport.Logger) *SolanaScanner {
	limit := cfg.SignatureLimit
	if limit <= 0 {
		limit = DefaultSignatureLimit
	}
	name := cfg.Name
	if name == "" {
		name = "solana"
	}
	return &SolanaScanner{
		name:    name,
		client:  client,
		limit:   limit,
		tokens:  cfg.Tokens,
		limiter: newLimiter(cfg.RequestsPerSecond),
		logger:  logger.With(map[string]any{"chain": name}),
	}
}

// FindIncomingTransfer implements gateway.ChainScanner
func (s *SolanaScanner) FindIncomingTransfer(ctx context.Context, asset entity.Asset, address string) (string, bool, error) {
	mintStr, err := lookupToken(s.tokens, asset)
	if err != nil {
		return "", false, err
	}
	mint, err := solana.PublicKeyFromBase58(mintStr)
	if err != nil {
		return "", false, fmt.Errorf("invalid mint for %s: %w", asset.String(), err)
	}
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return "", false, fmt.Errorf("invalid solana address %q: %w", address, err)
	}

	// Deposits land in the owner's associated token account, which may be the
	// only account the transfer references.
	targets := []solana.PublicKey{owner}
	if ata, _, err := solana.FindAssociatedTokenAddress(owner, mint); err == nil {
		targets = append(targets, ata)
	}

	seen := make(map[solana.Signature]struct{})
	for _, target := range targets {
		hash, found, err := s.scanAccount(ctx, target, owner, mint, targets, seen)
		if err != nil || found {
			return hash, found, err
		}
	}
	return "", false, nil
}

func (s *SolanaScanner) scanAccount(
	ctx context.Context,
	account, owner, mint solana.PublicKey,
	targets []solana.PublicKey,
	seen map[solana.Signature]struct{},
) (string, bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	limit := s.limit
	sigs, err := s.client.GetSignaturesForAddressWithOpts(ctx, account, &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", false, rpcError(s.name, "getSignaturesForAddress", err)
	}

	maxVersion := uint64(0)
	for _, sig := range sigs {
		if sig == nil || sig.Err != nil {
			continue
		}
		if _, dup := seen[sig.Signature]; dup {
			continue
		}
		seen[sig.Signature] = struct{}{}

		if err := s.limiter.Wait(ctx); err != nil {
			return "", false, err
		}
		tx, err := s.client.GetTransaction(ctx, sig.Signature, &rpc.GetTransactionOpts{
			Encoding:                       solana.EncodingBase64,
			Commitment:                     rpc.CommitmentConfirmed,
			MaxSupportedTransactionVersion: &maxVersion,
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", false, ctx.Err()
			}
			s.logger.Debug("Skipping unreadable transaction", map[string]any{
				"signature": sig.Signature.String(),
				"error":     err.Error(),
			})
			continue
		}

		if receivedMint(tx, owner, mint, targets) {
			return sig.Signature.String(), true, nil
		}
	}
	return "", false, nil
}

// receivedMint reports whether an account holding mint ended the transaction with a
// larger balance. A credited account counts when the node reports no owner, when its
// owner is the deposit address, or when the account itself is one of targets. If the
// account keys cannot be decoded, any credited account counts.
func receivedMint(tx *rpc.GetTransactionResult, owner, mint solana.PublicKey, targets []solana.PublicKey) bool {
	if tx == nil || tx.Meta == nil || tx.Meta.Err != nil {
		return false
	}

	pre := make(map[uint16]decimal.Decimal, len(tx.Meta.PreTokenBalances))
	for _, b := range tx.Meta.PreTokenBalances {
		if b.Mint.Equals(mint) {
			pre[b.AccountIndex] = tokenAmount(b)
		}
	}

	var keys solana.PublicKeySlice
	keysLoaded := false
	for _, b := range tx.Meta.PostTokenBalances {
		if !b.Mint.Equals(mint) {
			continue
		}
		before, ok := pre[b.AccountIndex]
		if !ok {
			before = decimal.Zero
		}
		if !tokenAmount(b).GreaterThan(before) {
			continue
		}
		if b.Owner == nil || b.Owner.Equals(owner) {
			return true
		}

		if !keysLoaded {
			keys = accountKeys(tx)
			keysLoaded = true
		}
		if keys == nil {
			return true
		}
		if int(b.AccountIndex) < len(keys) && slices.ContainsFunc(targets, keys[b.AccountIndex].Equals) {
			return true
		}
	}
	return false
}

// accountKeys resolves balance account indexes: static keys first, then addresses
// loaded from lookup tables (writable before read-only). Nil when undecodable.
func accountKeys(res *rpc.GetTransactionResult) solana.PublicKeySlice {
	if res.Transaction == nil {
		return nil
	}
	tx, err := res.Transaction.GetTransaction()
	if err != nil || tx == nil {
		return nil
	}

	keys := make(solana.PublicKeySlice, 0, len(tx.Message.AccountKeys))
	keys = append(keys, tx.Message.AccountKeys...)
	keys = append(keys, res.Meta.LoadedAddresses.Writable...)
	keys = append(keys, res.Meta.LoadedAddresses.ReadOnly...)
	return keys
}

func tokenAmount(b rpc.TokenBalance) decimal.Decimal {
	if b.UiTokenAmount == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(b.UiTokenAmount.Amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}
