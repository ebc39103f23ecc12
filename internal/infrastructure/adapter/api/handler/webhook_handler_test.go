package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/middleware"
	mockusecase "github.com/amirhossein-jamali/rampbot/mocks/port/usecase"
)

func newWebhookRouter(applier usecase.StatusApplier) *gin.Engine {
	r := gin.New()
	h := NewWebhookHandler(applier, logger.NewNoopLogger())
	r.POST("/webhook", h.Receive)
	return r
}

func TestWebhookHandler_AppliesStatus(t *testing.T) {
	applier := mockusecase.NewMockStatusApplier(t)
	applier.EXPECT().
		ApplyStatus(mock.Anything, mock.MatchedBy(func(req usecase.ApplyStatusRequest) bool {
			return req.Reference == "ref-1" &&
				req.Status == entity.StatusCompleted &&
				req.Hash == "0xabc" &&
				req.Message == "paid out" &&
				req.Source == "webhook" &&
				req.Extra != nil &&
				req.Extra.DestinationCurrency == "NGN" &&
				req.Extra.DestinationAmount.String() == "152000.75"
		})).
		Return(&usecase.ApplyStatusResult{Changed: true, Notified: true}, nil)

	w := perform(newWebhookRouter(applier), "POST", "/webhook", `{
		"reference": "ref-1",
		"status": "completed",
		"message": "paid out",
		"txHash": "0xabc",
		"destination": {"amount": "152000.75", "currency": "NGN"}
	}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": true}, decodeBody(t, w))
}

func TestWebhookHandler_EnvelopeBody(t *testing.T) {
	applier := mockusecase.NewMockStatusApplier(t)
	applier.EXPECT().
		ApplyStatus(mock.Anything, mock.MatchedBy(func(req usecase.ApplyStatusRequest) bool {
			return req.Reference == "ref-2" && req.Status == entity.StatusProcessing && req.Hash == "5sig"
		})).
		Return(&usecase.ApplyStatusResult{}, nil)

	w := perform(newWebhookRouter(applier), "POST", "/webhook",
		`{"event": "transaction.updated", "data": {"reference": "ref-2", "status": "PROCESSING", "deposit": {"hash": "5sig"}}}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookHandler_AlreadyTerminalIsAcknowledged(t *testing.T) {
	applier := mockusecase.NewMockStatusApplier(t)
	applier.EXPECT().ApplyStatus(mock.Anything, mock.Anything).
		Return(&usecase.ApplyStatusResult{
			Transaction:     sampleTransaction("ref-1", entity.StatusCompleted),
			AlreadyTerminal: true,
		}, nil)

	w := perform(newWebhookRouter(applier), "POST", "/webhook", `{"reference": "ref-1", "status": "FAILED"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
}

func TestWebhookHandler_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		applyErr   error
		wantStatus int
		wantMsg    string
	}{
		{"malformed json", `{"reference": `, nil, http.StatusBadRequest, "Malformed JSON body"},
		{"missing reference", `{"status": "COMPLETED"}`, nil, http.StatusBadRequest, "Missing reference"},
		{"missing status", `{"reference": "ref-1"}`, nil, http.StatusBadRequest, "Missing status"},
		{
			"unknown reference",
			`{"reference": "ghost", "status": "COMPLETED"}`,
			fmt.Errorf("failed to load transaction: %w", domainerr.ErrTransactionNotFound),
			http.StatusNotFound,
			"Transaction not found",
		},
		{
			"store failure",
			`{"reference": "ref-1", "status": "COMPLETED"}`,
			errors.New("connection reset"),
			http.StatusInternalServerError,
			"Internal server error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applier := mockusecase.NewMockStatusApplier(t)
			if tt.applyErr != nil {
				applier.EXPECT().ApplyStatus(mock.Anything, mock.Anything).
					RunAndReturn(func(context.Context, usecase.ApplyStatusRequest) (*usecase.ApplyStatusResult, error) {
						return nil, tt.applyErr
					})
			}

			w := perform(newWebhookRouter(applier), "POST", "/webhook", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestWebhookHandler_OversizedBody(t *testing.T) {
	applier := mockusecase.NewMockStatusApplier(t)
	padding := strings.Repeat("x", middleware.MaxWebhookBody)
	body := `{"reference": "ref-1", "status": "COMPLETED", "note": "` + padding + `"}`

	w := perform(newWebhookRouter(applier), "POST", "/webhook", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
	applier.AssertNotCalled(t, "ApplyStatus", mock.Anything, mock.Anything)
}
