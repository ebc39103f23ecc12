package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/logger"
	mockusecase "github.com/amirhossein-jamali/rampbot/mocks/port/usecase"
)

func newUserRouter(txs usecase.TransactionUseCase) *gin.Engine {
	r := gin.New()
	h := NewUserHandler(txs, logger.NewNoopLogger())
	r.GET("/users/:userId/transactions", h.ListTransactions)
	r.POST("/users/:userId/transactions", h.InitiateTransaction)
	return r
}

func TestUserHandler_ListTransactions(t *testing.T) {
	txs := mockusecase.NewMockTransactionUseCase(t)
	txs.EXPECT().ListByUser(mock.Anything, int64(1001), 5).Return([]*entity.Transaction{
		sampleTransaction("ref-2", entity.StatusProcessing),
		sampleTransaction("ref-1", entity.StatusCompleted),
	}, nil)

	w := perform(newUserRouter(txs), "GET", "/users/1001/transactions?limit=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	list, ok := body["transactions"].([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "ref-2", list[0].(map[string]any)["reference"])
}

func TestUserHandler_ListTransactionsEmpty(t *testing.T) {
	txs := mockusecase.NewMockTransactionUseCase(t)
	txs.EXPECT().ListByUser(mock.Anything, int64(7), 0).Return(nil, nil)

	w := perform(newUserRouter(txs), "GET", "/users/7/transactions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decodeBody(t, w)["transactions"])
}

func TestUserHandler_BadInput(t *testing.T) {
	r := newUserRouter(mockusecase.NewMockTransactionUseCase(t))

	assert.Equal(t, http.StatusBadRequest, perform(r, "GET", "/users/abc/transactions", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, "GET", "/users/-4/transactions", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, "GET", "/users/4/transactions?limit=x", nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, "POST", "/users/4/transactions", `{"type": "swap"}`).Code)
}

func TestUserHandler_InitiateTransaction(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		txs := mockusecase.NewMockTransactionUseCase(t)
		created := sampleTransaction("ref-9", entity.StatusAwaitingDeposit)
		created.DepositAddress = "So1Dep"
		txs.EXPECT().Initiate(mock.Anything, usecase.InitiateRequest{
			UserID:   1001,
			Type:     "offramp",
			Asset:    "solana:usdc",
			Amount:   "100.5",
			Currency: "NGN",
		}).Return(created, nil)

		w := perform(newUserRouter(txs), "POST", "/users/1001/transactions", map[string]string{
			"type":     "offramp",
			"asset":    "solana:usdc",
			"amount":   "100.5",
			"currency": "NGN",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "So1Dep", decodeBody(t, w)["depositAddress"])
	})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported chain", fmt.Errorf("invalid transaction: %w", domainerr.ErrUnsupportedChain), http.StatusBadRequest},
		{"store failure", fmt.Errorf("failed to store transaction: %w", domainerr.ErrDatabaseConnection), http.StatusInternalServerError},
		{"bad amount", fmt.Errorf("invalid transaction: %w", domainerr.ErrInvalidAmount), http.StatusBadRequest},
		{"upstream", &gateway.UpstreamError{Op: "initiate", StatusCode: 503}, http.StatusBadGateway},
		{"duplicate", domainerr.NewDuplicateReferenceError("ref-9", 1001), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := mockusecase.NewMockTransactionUseCase(t)
			txs.EXPECT().Initiate(mock.Anything, mock.Anything).Return(nil, tt.err)

			w := perform(newUserRouter(txs), "POST", "/users/1001/transactions", map[string]string{
				"type": "ONRAMP", "asset": "solana:usdc", "amount": "1",
			})
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
