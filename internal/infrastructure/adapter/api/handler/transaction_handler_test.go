package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/logger"
	mockusecase "github.com/amirhossein-jamali/rampbot/mocks/port/usecase"
)

func newTransactionRouter(txs usecase.TransactionUseCase, applier usecase.StatusApplier) *gin.Engine {
	r := gin.New()
	h := NewTransactionHandler(txs, applier, logger.NewNoopLogger())
	r.GET("/transactions/:reference", h.GetTransaction)
	r.POST("/admin/transactions/:reference/cancel", h.CancelTransaction)
	return r
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		txs := mockusecase.NewMockTransactionUseCase(t)
		tx := sampleTransaction("ref-1", entity.StatusAwaitingDeposit)
		tx.DepositAddress = "So1Dep"
		txs.EXPECT().Get(mock.Anything, "ref-1").Return(tx, nil)

		w := perform(newTransactionRouter(txs, mockusecase.NewMockStatusApplier(t)), "GET", "/transactions/ref-1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "ref-1", body["reference"])
		assert.Equal(t, "solana:usdc", body["asset"])
		assert.Equal(t, "100.5", body["amount"])
		assert.Equal(t, "AWAITING_DEPOSIT", body["status"])
		assert.Equal(t, "So1Dep", body["depositAddress"])
	})

	t.Run("not found", func(t *testing.T) {
		txs := mockusecase.NewMockTransactionUseCase(t)
		txs.EXPECT().Get(mock.Anything, "ghost").Return(nil, domainerr.ErrTransactionNotFound)

		w := perform(newTransactionRouter(txs, mockusecase.NewMockStatusApplier(t)), "GET", "/transactions/ghost", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.EqualValues(t, domainerr.CodeTransactionMissing, decodeBody(t, w)["code"])
	})
}

func TestTransactionHandler_CancelTransaction(t *testing.T) {
	t.Run("cancels active transaction", func(t *testing.T) {
		applier := mockusecase.NewMockStatusApplier(t)
		applier.EXPECT().
			ApplyStatus(mock.Anything, usecase.ApplyStatusRequest{
				Reference: "ref-1",
				Status:    entity.StatusCancelled,
				Message:   "requested by support",
				Source:    "admin",
			}).
			Return(&usecase.ApplyStatusResult{Changed: true, Notified: true}, nil)

		w := perform(newTransactionRouter(mockusecase.NewMockTransactionUseCase(t), applier),
			"POST", "/admin/transactions/ref-1/cancel", map[string]string{"reason": "requested by support"})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "CANCELLED", body["status"])
		assert.Equal(t, true, body["changed"])
	})

	t.Run("terminal transaction is reported as is", func(t *testing.T) {
		applier := mockusecase.NewMockStatusApplier(t)
		applier.EXPECT().ApplyStatus(mock.Anything, mock.Anything).
			Return(&usecase.ApplyStatusResult{
				Transaction:     sampleTransaction("ref-1", entity.StatusCompleted),
				AlreadyTerminal: true,
			}, nil)

		w := perform(newTransactionRouter(mockusecase.NewMockTransactionUseCase(t), applier),
			"POST", "/admin/transactions/ref-1/cancel", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "COMPLETED", body["status"])
		assert.Equal(t, true, body["alreadyTerminal"])
		assert.Equal(t, false, body["changed"])
	})

	t.Run("unknown reference", func(t *testing.T) {
		applier := mockusecase.NewMockStatusApplier(t)
		applier.EXPECT().ApplyStatus(mock.Anything, mock.Anything).Return(nil, domainerr.ErrTransactionNotFound)

		w := perform(newTransactionRouter(mockusecase.NewMockTransactionUseCase(t), applier),
			"POST", "/admin/transactions/ghost/cancel", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
