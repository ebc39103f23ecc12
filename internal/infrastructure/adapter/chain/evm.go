package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/time/rate"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
)

// DefaultLookbackBlocks bounds the eth_getLogs window when none is configured
const DefaultLookbackBlocks uint64 = 5000

// transferTopic is the ERC-20 Transfer event signature
var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// EVMRPC is the subset of *ethclient.Client the scanner uses
type EVMRPC interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// EVMConfig configures an ERC-20 transfer scanner
type EVMConfig struct {
	Name           string
	SignatureLimit int
	LookbackBlocks uint64
	// Tokens maps a lower-case symbol to its contract address
	Tokens            map[string]string
	RequestsPerSecond float64
}

// EVMScanner finds ERC-20 deposits through Transfer logs addressed to the deposit address
type EVMScanner struct {
	name     string
	client   EVMRPC
	limit    int
	lookback uint64
	tokens   map[string]string
	limiter  *rate.Limiter
	logger   coreport.Logger
}

// NewEVMScanner creates a new EVM scanner
func NewEVMScanner(client EVMRPC, cfg EVMConfig, logger coreport.Logger) *EVMScanner {
	limit := cfg.SignatureLimit
	if limit <= 0 {
		limit = DefaultSignatureLimit
	}
	lookback := cfg.LookbackBlocks
	if lookback == 0 {
		lookback = DefaultLookbackBlocks
	}
	name := cfg.Name
	if name == "" {
		name = "ethereum"
	}
	return &EVMScanner{
		name:     name,
		client:   client,
		limit:    limit,
		lookback: lookback,
		tokens:   cfg.Tokens,
		limiter:  newLimiter(cfg.RequestsPerSecond),
		logger:   logger.With(map[string]any{"chain": name}),
	}
}

// FindIncomingTransfer implements gateway.ChainScanner
func (s *EVMScanner) FindIncomingTransfer(ctx context.Context, asset entity.Asset, address string) (string, bool, error) {
	contract, err := lookupToken(s.tokens, asset)
	if err != nil {
		return "", false, err
	}
	if !common.IsHexAddress(contract) {
		return "", false, fmt.Errorf("invalid contract for %s: %q", asset.String(), contract)
	}
	if !common.IsHexAddress(address) {
		return "", false, fmt.Errorf("invalid evm address %q", address)
	}
	token := common.HexToAddress(contract)
	recipient := common.HexToAddress(address)

	if err := s.limiter.Wait(ctx); err != nil {
		return "", false, err
	}
	head, err := s.client.BlockNumber(ctx)
	if err != nil {
		return "", false, rpcError(s.name, "eth_blockNumber", err)
	}
	from := uint64(0)
	if head > s.lookback {
		from = head - s.lookback
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", false, err
	}
	logs, err := s.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(head),
		Addresses: []common.Address{token},
		Topics: [][]common.Hash{
			{transferTopic},
			nil,
			{common.BytesToHash(recipient.Bytes())},
		},
	})
	if err != nil {
		return "", false, rpcError(s.name, "eth_getLogs", err)
	}

	checked := 0
	seen := make(map[common.Hash]struct{})
	for i := len(logs) - 1; i >= 0 && checked < s.limit; i-- {
		lg := logs[i]
		if lg.Removed || !isTransferTo(lg, token, recipient) {
			continue
		}
		if _, dup := seen[lg.TxHash]; dup {
			continue
		}
		seen[lg.TxHash] = struct{}{}
		checked++

		if err := s.limiter.Wait(ctx); err != nil {
			return "", false, err
		}
		receipt, err := s.client.TransactionReceipt(ctx, lg.TxHash)
		if err != nil {
			if ctx.Err() != nil {
				return "", false, ctx.Err()
			}
			s.logger.Debug("Skipping transaction without receipt", map[string]any{
				"hash":  lg.TxHash.Hex(),
				"error": err.Error(),
			})
			continue
		}
		if receipt.Status == types.ReceiptStatusSuccessful && receiptCredits(receipt, token, recipient) {
			return lg.TxHash.Hex(), true, nil
		}
	}
	return "", false, nil
}

func isTransferTo(lg types.Log, token, recipient common.Address) bool {
	if lg.Address != token || len(lg.Topics) != 3 || lg.Topics[0] != transferTopic {
		return false
	}
	if common.BytesToAddress(lg.Topics[2].Bytes()) != recipient {
		return false
	}
	return new(big.Int).SetBytes(lg.Data).Sign() > 0
}

func receiptCredits(receipt *types.Receipt, token, recipient common.Address) bool {
	for _, lg := range receipt.Logs {
		if lg != nil && isTransferTo(*lg, token, recipient) {
			return true
		}
	}
	return false
}

