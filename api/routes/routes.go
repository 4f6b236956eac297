package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hosico-labs/bounty-backend/internal/config"
	"github.com/hosico-labs/bounty-backend/internal/handlers"
	"github.com/hosico-labs/bounty-backend/internal/middleware"
	"github.com/hosico-labs/bounty-backend/pkg/jwt"
	"golang.org/x/exp/slog"
)

// Handlers bundles the HTTP handlers mounted by SetupRouter
type Handlers struct {
	Bounty     *handlers.BountyHandler
	Submission *handlers.SubmissionHandler
	Winner     *handlers.WinnerHandler
	// Ping backs the health check; nil means always healthy.
	Ping func(ctx context.Context) error
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h Handlers, logger *slog.Logger) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout))

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			if h.Ping != nil {
				if err := h.Ping(c.Request.Context()); err != nil {
					logger.Error("Health check failed", "error", err)
					c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
					return
				}
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Public reads
		api.GET("/bounties", h.Bounty.GetBounties)
		api.GET("/bounties/:id", h.Bounty.GetBountyByID)
		api.GET("/categories", h.Bounty.GetCategories)

		// Submissions are open to any wallet holder
		submissions := api.Group("/submissions")
		{
			submissions.POST("/find", h.Submission.FindSubmission)
			submissions.POST("/create", h.Submission.CreateSubmission)
			submissions.PUT("/update", h.Submission.UpdateSubmission)
		}
	}

	// Admin routes; the wallet allowlist is checked by the services
	admin := router.Group("/api")
	if cfg.JWT.Secret != "" {
		tokens := jwt.NewServiceTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)
		admin.Use(middleware.ServiceTokenMiddleware(tokens))
	}
	{
		admin.POST("/create-bounty", h.Bounty.CreateBounty)
		admin.POST("/bounty/update", h.Bounty.UpdateBounty)
		admin.POST("/bounty/delete", h.Bounty.DeleteBounty)
		admin.PUT("/bounty/select-winners", h.Winner.SelectWinners)
	}

	return router
}
