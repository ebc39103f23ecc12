package chain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/logger"
)

var (
	usdcMint  = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	otherMint = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
)

type fakeSolanaRPC struct {
	signatures map[solana.PublicKey][]*rpc.TransactionSignature
	txs        map[solana.Signature]*rpc.GetTransactionResult
	sigErr     error

	requestedLimit *int
	fetched        []solana.Signature
}

func (f *fakeSolanaRPC) GetSignaturesForAddressWithOpts(
	_ context.Context,
	account solana.PublicKey,
	opts *rpc.GetSignaturesForAddressOpts,
) ([]*rpc.TransactionSignature, error) {
	if f.sigErr != nil {
		return nil, f.sigErr
	}
	f.requestedLimit = opts.Limit
	return f.signatures[account], nil
}

func (f *fakeSolanaRPC) GetTransaction(
	_ context.Context,
	sig solana.Signature,
	_ *rpc.GetTransactionOpts,
) (*rpc.GetTransactionResult, error) {
	f.fetched = append(f.fetched, sig)
	tx, ok := f.txs[sig]
	if !ok {
		return nil, errors.New("not found")
	}
	return tx, nil
}

func testSignature(n byte) solana.Signature {
	var s solana.Signature
	s[0] = n
	s[63] = n
	return s
}

func tokenBalance(index uint16, mint solana.PublicKey, owner *solana.PublicKey, amount string) rpc.TokenBalance {
	return rpc.TokenBalance{
		AccountIndex:  index,
		Mint:          mint,
		Owner:         owner,
		UiTokenAmount: &rpc.UiTokenAmount{Amount: amount},
	}
}

func txWith(pre, post []rpc.TokenBalance) *rpc.GetTransactionResult {
	return &rpc.GetTransactionResult{
		Meta: &rpc.TransactionMeta{
			PreTokenBalances:  pre,
			PostTokenBalances: post,
		},
	}
}

// withAccountKeys attaches a base64-encoded transaction carrying keys, the way a
// node answers getTransaction with base64 encoding
func withAccountKeys(t *testing.T, res *rpc.GetTransactionResult, keys ...solana.PublicKey) *rpc.GetTransactionResult {
	t.Helper()
	tx := &solana.Transaction{
		Signatures: []solana.Signature{{}},
		Message: solana.Message{
			Header:      solana.MessageHeader{NumRequiredSignatures: 1},
			AccountKeys: keys,
		},
	}
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	payload, err := json.Marshal([]string{base64.StdEncoding.EncodeToString(raw), "base64"})
	require.NoError(t, err)
	envelope := &rpc.TransactionResultEnvelope{}
	require.NoError(t, json.Unmarshal(payload, envelope))

	res.Transaction = envelope
	return res
}

func newSolanaFixture() (*fakeSolanaRPC, *SolanaScanner, solana.PublicKey) {
	owner := solana.NewWallet().PublicKey()
	fake := &fakeSolanaRPC{
		signatures: make(map[solana.PublicKey][]*rpc.TransactionSignature),
		txs:        make(map[solana.Signature]*rpc.GetTransactionResult),
	}
	scanner := NewSolanaScanner(fake, SolanaConfig{
		Name:   "solana",
		Tokens: map[string]string{"usdc": usdcMint.String()},
	}, logger.NewNoopLogger())
	return fake, scanner, owner
}

func TestSolanaScanner_FindsSingleDepositAmongRecentSignatures(t *testing.T) {
	fake, scanner, owner := newSolanaFixture()
	stranger := solana.NewWallet().PublicKey()
	strangerAccount := solana.NewWallet().PublicKey()

	var sigs []*rpc.TransactionSignature
	for i := byte(1); i <= 10; i++ {
		sig := testSignature(i)
		sigs = append(sigs, &rpc.TransactionSignature{Signature: sig})

		switch i {
		case 3:
			// outgoing transfer
			fake.txs[sig] = txWith(
				[]rpc.TokenBalance{tokenBalance(1, usdcMint, &owner, "500")},
				[]rpc.TokenBalance{tokenBalance(1, usdcMint, &owner, "200")},
			)
		case 5:
			// another token
			fake.txs[sig] = txWith(nil, []rpc.TokenBalance{tokenBalance(1, otherMint, &owner, "900")})
		case 6:
			// the deposit address paid someone else's token account
			fake.txs[sig] = withAccountKeys(t,
				txWith(nil, []rpc.TokenBalance{tokenBalance(2, usdcMint, &stranger, "900")}),
				owner, solana.NewWallet().PublicKey(), strangerAccount,
			)
		case 7:
			fake.txs[sig] = txWith(
				[]rpc.TokenBalance{tokenBalance(1, usdcMint, &owner, "1000000")},
				[]rpc.TokenBalance{tokenBalance(1, usdcMint, &owner, "101000000")},
			)
		default:
			fake.txs[sig] = txWith(nil, nil)
		}
	}
	fake.signatures[owner] = sigs

	hash, found, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("solana:usdc"), owner.String())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testSignature(7).String(), hash)

	require.NotNil(t, fake.requestedLimit)
	assert.Equal(t, DefaultSignatureLimit, *fake.requestedLimit)
}

func TestSolanaScanner_SkipsFailedTransactions(t *testing.T) {
	fake, scanner, owner := newSolanaFixture()

	failedSig := testSignature(1)
	failedMeta := testSignature(2)
	fake.signatures[owner] = []*rpc.TransactionSignature{
		{Signature: failedSig, Err: map[string]any{"InstructionError": []any{0, "Custom"}}},
		{Signature: failedMeta},
	}
	credit := txWith(nil, []rpc.TokenBalance{tokenBalance(1, usdcMint, &owner, "10")})
	fake.txs[failedSig] = credit
	failed := txWith(nil, []rpc.TokenBalance{tokenBalance(1, usdcMint, &owner, "10")})
	failed.Meta.Err = map[string]any{"InstructionError": []any{0, "Custom"}}
	fake.txs[failedMeta] = failed

	_, found, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("solana:usdc"), owner.String())
	require.NoError(t, err)
	assert.False(t, found)
	assert.NotContains(t, fake.fetched, failedSig)
}

func TestSolanaScanner_FallsBackToAssociatedTokenAccount(t *testing.T) {
	fake, scanner, owner := newSolanaFixture()

	ata, _, err := solana.FindAssociatedTokenAddress(owner, usdcMint)
	require.NoError(t, err)

	sig := testSignature(9)
	fake.signatures[ata] = []*rpc.TransactionSignature{{Signature: sig}}
	// no owner reported by the node
	fake.txs[sig] = txWith(nil, []rpc.TokenBalance{tokenBalance(4, usdcMint, nil, "42")})

	hash, found, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("solana:usdc"), owner.String())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sig.String(), hash)
}

func TestSolanaScanner_DepositAddressIsTokenAccount(t *testing.T) {
	fake, scanner, _ := newSolanaFixture()
	wallet := solana.NewWallet().PublicKey()
	tokenAccount := solana.NewWallet().PublicKey()

	sig := testSignature(11)
	fake.signatures[tokenAccount] = []*rpc.TransactionSignature{{Signature: sig}}
	// the node reports the wallet as owner of the credited token account
	fake.txs[sig] = withAccountKeys(t,
		txWith(
			[]rpc.TokenBalance{tokenBalance(1, usdcMint, &wallet, "0")},
			[]rpc.TokenBalance{tokenBalance(1, usdcMint, &wallet, "100000000")},
		),
		solana.NewWallet().PublicKey(), tokenAccount,
	)

	hash, found, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("solana:usdc"), tokenAccount.String())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sig.String(), hash)
}

func TestReceivedMint(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()
	ata, _, err := solana.FindAssociatedTokenAddress(owner, usdcMint)
	require.NoError(t, err)
	targets := []solana.PublicKey{owner, ata}

	credit := func() *rpc.GetTransactionResult {
		return txWith(nil, []rpc.TokenBalance{tokenBalance(1, usdcMint, &other, "5")})
	}

	tests := []struct {
		name string
		tx   *rpc.GetTransactionResult
		want bool
	}{
		{"credited account resolves to the associated token account", withAccountKeys(t, credit(), other, ata), true},
		{"credited account belongs to someone else", withAccountKeys(t, credit(), owner, other), false},
		{"undecodable keys fall back to the balance change", credit(), true},
		{"index outside the key list", withAccountKeys(t, credit(), owner), false},
		{"balance unchanged", txWith(
			[]rpc.TokenBalance{tokenBalance(1, usdcMint, &owner, "5")},
			[]rpc.TokenBalance{tokenBalance(1, usdcMint, &owner, "5")},
		), false},
		{"missing meta", &rpc.GetTransactionResult{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, receivedMint(tt.tx, owner, usdcMint, targets))
		})
	}
}

func TestSolanaScanner_Errors(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		_, scanner, owner := newSolanaFixture()
		_, _, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("solana:bonk"), owner.String())
		assert.ErrorIs(t, err, errs.ErrUnknownToken)
	})

	t.Run("invalid address", func(t *testing.T) {
		_, scanner, _ := newSolanaFixture()
		_, _, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("solana:usdc"), "not-base58-0OIl")
		assert.Error(t, err)
	})

	t.Run("rpc failure", func(t *testing.T) {
		fake, scanner, owner := newSolanaFixture()
		fake.sigErr = errors.New("429 too many requests")
		_, found, err := scanner.FindIncomingTransfer(context.Background(), entity.MustParseAsset("solana:usdc"), owner.String())
		assert.False(t, found)
		assert.ErrorIs(t, err, errs.ErrUpstream)
	})
}
