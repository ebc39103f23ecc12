package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/logger"
)

var (
	usdcContract = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	depositAddr  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	senderAddr   = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type fakeEVMRPC struct {
	head     uint64
	logs     []types.Log
	receipts map[common.Hash]*types.Receipt
	logsErr  error

	query *ethereum.FilterQuery
}

func (f *fakeEVMRPC) BlockNumber(context.Context) (uint64, error) {
	return f.head, nil
}

func (f *fakeEVMRPC) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.query = &q
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return f.logs, nil
}

func (f *fakeEVMRPC) TransactionReceipt(_ context.Context, h common.Hash) (*types.Receipt, error) {
	r, ok := f.receipts[h]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func transferLog(txHash common.Hash, to common.Address, value int64) types.Log {
	return types.Log{
		Address: usdcContract,
		Topics: []common.Hash{
			transferTopic,
			common.BytesToHash(senderAddr.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data:   common.LeftPadBytes(big.NewInt(value).Bytes(), 32),
		TxHash: txHash,
	}
}

func receiptFor(status uint64, logs ...types.Log) *types.Receipt {
	r := &types.Receipt{Status: status}
	for i := range logs {
		lg := logs[i]
		r.Logs = append(r.Logs, &lg)
	}
	return r
}

func newEVMFixture(fake *fakeEVMRPC) *EVMScanner {
	return NewEVMScanner(fake, EVMConfig{
		Name:           "ethereum",
		LookbackBlocks: 100,
		Tokens:         map[string]string{"usdc": usdcContract.Hex()},
	}, logger.NewNoopLogger())
}

func TestEVMScanner_FindsSuccessfulTransfer(t *testing.T) {
	reverted := common.HexToHash("0x01")
	zeroValue := common.HexToHash("0x02")
	good := common.HexToHash("0x03")

	fake := &fakeEVMRPC{
		head: 1000,
		logs: []types.Log{
			transferLog(good, depositAddr, 5_000_000),
			transferLog(zeroValue, depositAddr, 0),
			transferLog(reverted, depositAddr, 7_000_000),
		},
		receipts: map[common.Hash]*types.Receipt{
			good:     receiptFor(types.ReceiptStatusSuccessful, transferLog(good, depositAddr, 5_000_000)),
			reverted: receiptFor(types.ReceiptStatusFailed, transferLog(reverted, depositAddr, 7_000_000)),
		},
	}
	scanner := newEVMFixture(fake)

	hash, found, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("ethereum:usdc"), depositAddr.Hex())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, good.Hex(), hash)

	require.NotNil(t, fake.query)
	assert.Equal(t, uint64(900), fake.query.FromBlock.Uint64())
	assert.Equal(t, uint64(1000), fake.query.ToBlock.Uint64())
	assert.Equal(t, []common.Address{usdcContract}, fake.query.Addresses)
	require.Len(t, fake.query.Topics, 3)
	assert.Equal(t, []common.Hash{common.BytesToHash(depositAddr.Bytes())}, fake.query.Topics[2])
}

func TestEVMScanner_NoMatch(t *testing.T) {
	other := common.HexToHash("0x04")
	fake := &fakeEVMRPC{
		head: 50,
		logs: []types.Log{transferLog(other, senderAddr, 10)},
		receipts: map[common.Hash]*types.Receipt{
			other: receiptFor(types.ReceiptStatusSuccessful, transferLog(other, senderAddr, 10)),
		},
	}
	scanner := newEVMFixture(fake)

	_, found, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("ethereum:usdc"), depositAddr.Hex())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, uint64(0), fake.query.FromBlock.Uint64())
}

func TestEVMScanner_Errors(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		scanner := newEVMFixture(&fakeEVMRPC{})
		_, _, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("ethereum:dai"), depositAddr.Hex())
		assert.ErrorIs(t, err, errs.ErrUnknownToken)
	})

	t.Run("invalid address", func(t *testing.T) {
		scanner := newEVMFixture(&fakeEVMRPC{})
		_, _, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("ethereum:usdc"), "So1anaAddress")
		assert.Error(t, err)
	})

	t.Run("rpc failure", func(t *testing.T) {
		scanner := newEVMFixture(&fakeEVMRPC{head: 10, logsErr: errors.New("query returned more than 10000 results")})
		_, _, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("ethereum:usdc"), depositAddr.Hex())
		assert.ErrorIs(t, err, errs.ErrUpstream)
	})
}
