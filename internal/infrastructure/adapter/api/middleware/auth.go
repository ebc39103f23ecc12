package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/dto"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body
const SignatureHeader = "X-Switch-Signature"

// MaxWebhookBody is the largest webhook body accepted, in bytes
const MaxWebhookBody = 1 << 20

// ErrBodyTooLarge is returned by ReadWebhookBody for bodies over MaxWebhookBody
var ErrBodyTooLarge = errors.New("request body too large")

// ReadWebhookBody reads the whole body, refusing anything over MaxWebhookBody
func ReadWebhookBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxWebhookBody+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxWebhookBody {
		return nil, ErrBodyTooLarge
	}
	return body, nil
}

// AdminAuth requires "Authorization: Bearer <token>". An empty token locks the group.
func AdminAuth(token string, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(presented)), []byte(token)) != 1 {
			logger.Warn("Rejected admin request", map[string]any{
				"path":       c.Request.URL.Path,
				"client_ip":  c.ClientIP(),
				"request_id": GetRequestID(c),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:      domainerr.ErrorCode(domainerr.ErrUnauthorized),
				Message:   "Unauthorized",
				RequestID: GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

// WebhookSignature verifies the body signature when a secret is configured.
// The body is restored for the handler after verification.
func WebhookSignature(secret string, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		body, err := ReadWebhookBody(c.Request.Body)
		if errors.Is(err, ErrBodyTooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.WebhookResponse{
				Success: false,
				Message: "Request body too large",
			})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.WebhookResponse{
				Success: false,
				Message: "Unreadable request body",
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !ValidSignature(secret, body, c.GetHeader(SignatureHeader)) {
			logger.Warn("Rejected webhook with invalid signature", map[string]any{
				"client_ip":  c.ClientIP(),
				"request_id": GetRequestID(c),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.WebhookResponse{
				Success: false,
				Message: domainerr.ErrInvalidSignature.Error(),
			})
			return
		}
		c.Next()
	}
}

// ValidSignature reports whether signature is the hex HMAC-SHA256 of body under secret
func ValidSignature(secret string, body []byte, signature string) bool {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	given, err := hex.DecodeString(signature)
	if err != nil || len(given) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(given, mac.Sum(nil))
}

// SignBody returns the hex signature ValidSignature accepts
func SignBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
