package backoffice_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wealthvault-ledger/internal/backoffice_api/handler"
	"github.com/wealthvault-ledger/internal/backoffice_api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	adminHandler *handler.AdminHandler,
	clientHandler *handler.ClientHandler,
	payoutHandler *handler.PayoutHandler,
	requestHandler *handler.RequestHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Administrator registry and the ledger operations an admin performs
		admins := v1.Group("/admins")
		{
			admins.POST("", adminHandler.Create)
			admins.GET("/:id", adminHandler.GetByID)
			admins.POST("/:id/recompute", adminHandler.RecomputeTotals)

			admins.POST("/:id/clients", clientHandler.Onboard)
			admins.DELETE("/:id/clients/:client_id", clientHandler.Delete)
			admins.POST("/:id/clients/:client_id/investments", clientHandler.AddFunds)
			admins.POST("/:id/clients/:client_id/investments/:investment_id/withdraw", clientHandler.WithdrawInvestment)

			admins.POST("/:id/payouts", payoutHandler.Issue)
			admins.POST("/:id/requests/:request_id/approve", requestHandler.Approve)
		}

		// Client registry operations
		clients := v1.Group("/clients")
		{
			clients.GET("", clientHandler.List)
			clients.GET("/:id", clientHandler.GetByID)
			clients.PATCH("/:id", clientHandler.Update)
			clients.PUT("/:id/bank-details", clientHandler.UpdateBankDetails)
			clients.POST("/:id/recompute", clientHandler.RecomputeTotals)
			clients.GET("/:id/investments", clientHandler.GetInvestments)
			clients.POST("/:id/investments/:investment_id/renew", clientHandler.RenewInvestment)
			clients.GET("/:id/statement", payoutHandler.GetStatement)
		}

		// Payout log
		payouts := v1.Group("/payouts")
		{
			payouts.GET("", payoutHandler.List)
		}

		// Transaction request workflow
		requests := v1.Group("/requests")
		{
			requests.POST("", requestHandler.Create)
			requests.GET("", requestHandler.List)
			requests.GET("/:id", requestHandler.GetByID)
			requests.POST("/:id/reject", requestHandler.Reject)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
