package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/dto"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactions usecase.TransactionUseCase
	applier      usecase.StatusApplier
	logger       coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(
	transactions usecase.TransactionUseCase,
	applier usecase.StatusApplier,
	logger coreport.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		applier:      applier,
		logger:       logger,
	}
}

// GetTransaction handles the GET /transactions/:reference endpoint
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	reference := c.Param("reference")

	tx, err := h.transactions.Get(c.Request.Context(), reference)
	if err != nil {
		status := httpStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Error getting transaction", map[string]any{
				"reference": reference,
				"error":     err.Error(),
			})
		}
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: publicMessage(status, err),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromTransaction(tx))
}

// CancelTransaction handles the POST /admin/transactions/:reference/cancel endpoint
func (h *TransactionHandler) CancelTransaction(c *gin.Context) {
	reference := strings.TrimSpace(c.Param("reference"))
	if reference == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidReference),
			Message: domainerr.ErrInvalidReference.Error(),
		})
		return
	}

	var req dto.CancelTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid request format: " + err.Error(),
			})
			return
		}
	}

	result, err := h.applier.ApplyStatus(c.Request.Context(), usecase.ApplyStatusRequest{
		Reference: reference,
		Status:    entity.StatusCancelled,
		Message:   req.Reason,
		Source:    "admin",
	})
	if err != nil {
		status := httpStatus(err)
		h.logger.Error("Error cancelling transaction", map[string]any{
			"reference": reference,
			"error":     err.Error(),
		})
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: publicMessage(status, err),
		})
		return
	}

	resp := dto.CancelTransactionResponse{
		Reference:       reference,
		Status:          string(entity.StatusCancelled),
		Changed:         result.Changed,
		AlreadyTerminal: result.AlreadyTerminal,
	}
	if result.Transaction != nil && result.AlreadyTerminal {
		resp.Status = string(result.Transaction.Status)
	}

	h.logger.Info("Transaction cancelled by admin", map[string]any{
		"reference": reference,
		"changed":   result.Changed,
	})
	c.JSON(http.StatusOK, resp)
}
