package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/dto"
)

// UserHandler handles user-scoped HTTP requests
type UserHandler struct {
	transactions usecase.TransactionUseCase
	logger       coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	transactions usecase.TransactionUseCase,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		transactions: transactions,
		logger:       logger,
	}
}

func parseUserID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return 0, false
	}
	return userID, true
}

// ListTransactions handles the GET /users/:userId/transactions endpoint
func (h *UserHandler) ListTransactions(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
				Message: "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	txs, err := h.transactions.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		status := httpStatus(err)
		h.logger.Error("Error listing user transactions", map[string]any{
			"userId": userID,
			"error":  err.Error(),
		})
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: publicMessage(status, err),
		})
		return
	}

	resp := dto.TransactionListResponse{
		UserID:       userID,
		Transactions: make([]dto.TransactionResponse, 0, len(txs)),
	}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, dto.FromTransaction(tx))
	}
	c.JSON(http.StatusOK, resp)
}

// InitiateTransaction handles the POST /users/:userId/transactions endpoint
func (h *UserHandler) InitiateTransaction(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req dto.InitiateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid initiate request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	tx, err := h.transactions.Initiate(c.Request.Context(), usecase.InitiateRequest{
		UserID:      userID,
		Type:        req.Type,
		Asset:       req.Asset,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Beneficiary: req.Beneficiary,
	})
	if err != nil {
		status := httpStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Error initiating transaction", map[string]any{
				"userId": userID,
				"error":  err.Error(),
			})
		}
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: publicMessage(status, err),
		})
		return
	}

	c.JSON(http.StatusCreated, dto.FromTransaction(tx))
}
