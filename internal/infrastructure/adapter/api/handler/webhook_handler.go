package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/rampbot/internal/domain/usecase/reconcile"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/switchapi"
)

// WebhookHandler receives upstream status pushes
type WebhookHandler struct {
	applier usecase.StatusApplier
	logger  coreport.Logger
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(applier usecase.StatusApplier, logger coreport.Logger) *WebhookHandler {
	return &WebhookHandler{
		applier: applier,
		logger:  logger.With(map[string]any{"component": "webhook"}),
	}
}

// Receive handles the POST /webhook endpoint
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := middleware.ReadWebhookBody(c.Request.Body)
	if errors.Is(err, middleware.ErrBodyTooLarge) {
		h.reject(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	if err != nil {
		h.reject(c, http.StatusBadRequest, "Unreadable request body")
		return
	}

	payload, err := switchapi.DecodeWebhook(body)
	if err != nil {
		h.logger.Warn("Malformed webhook body", map[string]any{
			"error":      err.Error(),
			"request_id": middleware.GetRequestID(c),
		})
		h.reject(c, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	reference := strings.TrimSpace(payload.Reference)
	if reference == "" {
		h.reject(c, http.StatusBadRequest, "Missing reference")
		return
	}
	status := entity.NormalizeStatus(payload.Status)
	if status == "" {
		h.reject(c, http.StatusBadRequest, "Missing status")
		return
	}

	hash, _ := reconcile.ExtractHash(payload.Raw)

	result, err := h.applier.ApplyStatus(c.Request.Context(), usecase.ApplyStatusRequest{
		Reference: reference,
		Status:    status,
		Hash:      hash,
		Message:   payload.Message,
		Extra:     reconcile.ExtraFromPayload(payload),
		Source:    "webhook",
	})
	if err != nil {
		if errors.Is(err, domainerr.ErrTransactionNotFound) {
			h.logger.Warn("Webhook for unknown reference", map[string]any{
				"reference": reference,
				"status":    status,
			})
			h.reject(c, http.StatusNotFound, "Transaction not found")
			return
		}

		h.logger.Error("Failed to apply webhook status", map[string]any{
			"reference":  reference,
			"status":     status,
			"error":      err.Error(),
			"request_id": middleware.GetRequestID(c),
		})
		h.reject(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("Webhook processed", map[string]any{
		"reference":        reference,
		"status":           status,
		"changed":          result.Changed,
		"notified":         result.Notified,
		"already_terminal": result.AlreadyTerminal,
	})
	c.JSON(http.StatusOK, dto.WebhookResponse{Success: true})
}

func (h *WebhookHandler) reject(c *gin.Context, status int, message string) {
	c.JSON(status, dto.WebhookResponse{Success: false, Message: message})
}
