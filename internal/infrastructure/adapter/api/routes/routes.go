package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/rampbot/internal/domain/port/core"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/rampbot/internal/infrastructure/adapter/api/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	Webhook     *handler.WebhookHandler
	Transaction *handler.TransactionHandler
	User        *handler.UserHandler
	Health      *handler.HealthHandler
}

// Security holds the shared secrets guarding the API
type Security struct {
	WebhookSecret string
	AdminToken    string
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, sec Security, logger coreport.Logger) {
	router.GET("/health", h.Health.Health)

	router.POST("/webhook", middleware.WebhookSignature(sec.WebhookSecret, logger), h.Webhook.Receive)

	authorized := router.Group("/", middleware.AdminAuth(sec.AdminToken, logger))
	{
		// GET /transactions/:reference
		authorized.GET("/transactions/:reference", h.Transaction.GetTransaction)

		// GET /users/:userId/transactions
		authorized.GET("/users/:userId/transactions", h.User.ListTransactions)

		// POST /users/:userId/transactions
		authorized.POST("/users/:userId/transactions", h.User.InitiateTransaction)

		// POST /admin/transactions/:reference/cancel
		authorized.POST("/admin/transactions/:reference/cancel", h.Transaction.CancelTransaction)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, timeProvider))
}
