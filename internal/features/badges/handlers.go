// handlers.go: HTTP endpoints for the badge views.
package badges

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"pipstracker/internal/auth"
)

// Handler serves the badge endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates the badges handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Mine handles GET /api/me/badges.
func (h *Handler) Mine(c *gin.Context) {
	userID := auth.UserID(c)

	earned, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Listing badges failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load badges"})
		return
	}
	if earned == nil {
		earned = []UserBadge{}
	}
	c.JSON(http.StatusOK, gin.H{"badges": earned})
}

// List handles GET /api/badges: the full catalog, for the display layer's
// badge gallery. Sorted by category then name so the order is stable.
func (h *Handler) List(c *gin.Context) {
	all := make([]Badge, 0, len(Catalog))
	for _, b := range Catalog {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Category != all[j].Category {
			return all[i].Category < all[j].Category
		}
		return all[i].Name < all[j].Name
	})

	payload := make([]gin.H, 0, len(all))
	for _, b := range all {
		payload = append(payload, gin.H{
			"name":        b.Name,
			"category":    b.Category,
			"image":       b.Image,
			"description": b.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"badges": payload})
}
