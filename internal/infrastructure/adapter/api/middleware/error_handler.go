package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/dto"
)

// ErrorHandler turns a panicking handler into a 500 carrying the request id
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			requestID := GetRequestID(c)
			logger.Error("Panic recovered in API request", map[string]any{
				"panic":      fmt.Sprint(recovered),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
				"client_ip":  c.ClientIP(),
				"request_id": requestID,
			})

			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Code:      domainerr.ErrorCode(domainerr.ErrInternalServer),
				Message:   "Internal server error",
				RequestID: requestID,
			})
		}()

		c.Next()
	}
}
