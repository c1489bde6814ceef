// middleware.go: request-side trigger for the daily pass.
package reconcile

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Middleware runs EnsureReconciled before any core logic for the request.
// A failing pass is logged and absorbed: the request proceeds and the
// next trigger retries, matching the reconciler's failure semantics.
func Middleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.EnsureReconciled(c.Request.Context()); err != nil {
			log.WithError(err).Error("Reconciliation failed, will retry on next trigger")
		}
		c.Next()
	}
}
