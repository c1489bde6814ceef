// router.go: route table. Reconciliation runs as middleware on the whole
// /api group, so the first request of a new day triggers the daily pass
// before any core logic sees the request.
package httpd

import (
	"github.com/gin-gonic/gin"

	"pipstracker/internal/auth"
	"pipstracker/internal/config"
	"pipstracker/internal/features/accounts"
	"pipstracker/internal/features/badges"
	"pipstracker/internal/features/reconcile"
	"pipstracker/internal/features/results"
)

// NewRouter builds the gin engine with every route and middleware wired.
func NewRouter(
	cfg *config.Config,
	tokens *auth.Manager,
	reconciler *reconcile.Service,
	accountsHandler *accounts.Handler,
	resultsHandler *results.Handler,
	badgesHandler *badges.Handler,
) *gin.Engine {
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(Recovery(), RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(reconcile.Middleware(reconciler))
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", accountsHandler.Register)
			authGroup.POST("/login", accountsHandler.Login)
		}

		protected := api.Group("")
		protected.Use(auth.Middleware(tokens))
		{
			protected.POST("/results", resultsHandler.Submit)
			protected.GET("/results/today", resultsHandler.Today)
			protected.GET("/me/streak", accountsHandler.Streak)
			protected.GET("/me/badges", badgesHandler.Mine)
			protected.GET("/badges", badgesHandler.List)
			protected.GET("/stats/results", resultsHandler.Stats)
			protected.GET("/stats/worst", resultsHandler.Worst)
		}
	}

	return r
}
