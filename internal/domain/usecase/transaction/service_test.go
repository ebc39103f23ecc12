package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	domainerrs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
	mockcore "github.com/amirhossein-jamali/rampbot/mocks/port/core"
	mockgateway "github.com/amirhossein-jamali/rampbot/mocks/port/gateway"
	mockpersistence "github.com/amirhossein-jamali/rampbot/mocks/port/persistence"
)

var fixedTime = time.Date(2024, 3, 9, 8, 30, 0, 0, time.UTC)

func newServiceUnderTest(t *testing.T) (*Service, *mockpersistence.MockTransactionRepository, *mockgateway.MockRampClient) {
	repo := mockpersistence.NewMockTransactionRepository(t)
	ramp := mockgateway.NewMockRampClient(t)

	tp := mockcore.NewMockTimeProvider(t)
	tp.EXPECT().Now().Return(fixedTime).Maybe()

	logger := mockcore.NewMockLogger(t)
	logger.EXPECT().Info(mock.Anything, mock.Anything).Maybe()
	logger.EXPECT().Error(mock.Anything, mock.Anything).Maybe()

	return NewTransactionService(repo, ramp, NewTransactionValidator("solana", "base"), tp, logger), repo, ramp
}

func TestService_Initiate(t *testing.T) {
	ctx := context.Background()

	t.Run("offramp stored awaiting deposit", func(t *testing.T) {
		svc, repo, ramp := newServiceUnderTest(t)
		ramp.EXPECT().Initiate(mock.Anything, mock.MatchedBy(func(req gateway.InitiateRequest) bool {
			return req.Type == "OFFRAMP" && req.Asset == "solana:usdc" && req.Amount.String() == "20"
		})).Return(&gateway.InitiateResponse{
			Reference: "sw-1",
			Status:    "AWAITING_DEPOSIT",
			Deposit:   gateway.Deposit{Address: "DepoAddr"},
		}, nil)
		repo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(tx *entity.Transaction) bool {
			return tx.Reference == "sw-1" && tx.Status == entity.StatusAwaitingDeposit &&
				tx.DepositAddress == "DepoAddr" && tx.CreatedAt.Equal(fixedTime)
		})).Return(nil)

		tx, err := svc.Initiate(ctx, usecase.InitiateRequest{UserID: 42, Type: "offramp", Asset: "Solana:USDC", Amount: "20"})

		require.NoError(t, err)
		assert.Equal(t, entity.TypeOfframp, tx.Type)
		assert.Equal(t, int64(42), tx.UserID)
	})

	t.Run("onramp stored pending", func(t *testing.T) {
		svc, repo, ramp := newServiceUnderTest(t)
		ramp.EXPECT().Initiate(mock.Anything, mock.Anything).Return(&gateway.InitiateResponse{Reference: "sw-2"}, nil)
		repo.EXPECT().Create(mock.Anything, mock.Anything).Return(nil)

		tx, err := svc.Initiate(ctx, usecase.InitiateRequest{UserID: 42, Type: "onramp", Asset: "base:usdc", Amount: "50000", Currency: "NGN"})

		require.NoError(t, err)
		assert.Equal(t, entity.StatusPending, tx.Status)
	})

	t.Run("validation failure never reaches upstream", func(t *testing.T) {
		svc, _, ramp := newServiceUnderTest(t)

		_, err := svc.Initiate(ctx, usecase.InitiateRequest{UserID: 42, Type: "onramp", Asset: "base:usdc", Amount: "0"})

		assert.ErrorIs(t, err, domainerrs.ErrNegativeAmount)
		ramp.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything)
	})

	t.Run("upstream failure is surfaced", func(t *testing.T) {
		svc, _, ramp := newServiceUnderTest(t)
		ramp.EXPECT().Initiate(mock.Anything, mock.Anything).Return(nil, &gateway.UpstreamError{Op: "initiate", StatusCode: 503})

		_, err := svc.Initiate(ctx, usecase.InitiateRequest{UserID: 42, Type: "onramp", Asset: "base:usdc", Amount: "1"})

		assert.ErrorIs(t, err, domainerrs.ErrUpstream)
	})

	t.Run("duplicate reference", func(t *testing.T) {
		svc, repo, ramp := newServiceUnderTest(t)
		ramp.EXPECT().Initiate(mock.Anything, mock.Anything).Return(&gateway.InitiateResponse{Reference: "sw-3"}, nil)
		repo.EXPECT().Create(mock.Anything, mock.Anything).Return(domainerrs.ErrDuplicateReference)

		_, err := svc.Initiate(ctx, usecase.InitiateRequest{UserID: 42, Type: "onramp", Asset: "base:usdc", Amount: "1"})

		var dup *domainerrs.DuplicateReferenceError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "sw-3", dup.Reference)
	})

	t.Run("missing upstream reference", func(t *testing.T) {
		svc, _, ramp := newServiceUnderTest(t)
		ramp.EXPECT().Initiate(mock.Anything, mock.Anything).Return(&gateway.InitiateResponse{}, nil)

		_, err := svc.Initiate(ctx, usecase.InitiateRequest{UserID: 42, Type: "onramp", Asset: "base:usdc", Amount: "1"})

		assert.ErrorIs(t, err, domainerrs.ErrInvalidReference)
	})
}

func TestService_GetAndList(t *testing.T) {
	ctx := context.Background()

	t.Run("get trims reference", func(t *testing.T) {
		svc, repo, _ := newServiceUnderTest(t)
		repo.EXPECT().GetByReference(mock.Anything, "sw-1").Return(&entity.Transaction{Reference: "sw-1"}, nil)

		tx, err := svc.Get(ctx, " sw-1 ")

		require.NoError(t, err)
		assert.Equal(t, "sw-1", tx.Reference)
	})

	t.Run("get empty reference", func(t *testing.T) {
		svc, _, _ := newServiceUnderTest(t)
		_, err := svc.Get(ctx, "")
		assert.ErrorIs(t, err, domainerrs.ErrInvalidReference)
	})

	t.Run("list clamps limit", func(t *testing.T) {
		svc, repo, _ := newServiceUnderTest(t)
		repo.EXPECT().ListByUser(mock.Anything, int64(42), DefaultHistoryLimit).Return(nil, nil).Once()
		repo.EXPECT().ListByUser(mock.Anything, int64(42), MaxHistoryLimit).Return(nil, nil).Once()

		_, err := svc.ListByUser(ctx, 42, 0)
		require.NoError(t, err)
		_, err = svc.ListByUser(ctx, 42, 500)
		require.NoError(t, err)
	})

	t.Run("list invalid user", func(t *testing.T) {
		svc, _, _ := newServiceUnderTest(t)
		_, err := svc.ListByUser(ctx, -1, 5)
		assert.ErrorIs(t, err, domainerrs.ErrInvalidUserID)
	})
}
