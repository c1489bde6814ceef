// handlers.go: HTTP gateway for submissions and ledger reads.
// Raw JSON is validated into (difficulty, minutes, seconds) tuples here;
// everything past this point works with typed Submission values.
package results

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"pipstracker/internal/auth"
	"pipstracker/internal/common"
)

// Evaluator is the submission entry point of the streak and achievement
// engine. Implemented by badges.Evaluator.
type Evaluator interface {
	SubmitResults(ctx context.Context, userID int64, subs []Submission) ([]NewBadge, error)
}

// Handler serves the submission and stats endpoints.
type Handler struct {
	service   *Service
	evaluator Evaluator
	loc       *time.Location
}

// NewHandler creates the results handler.
func NewHandler(service *Service, evaluator Evaluator, loc *time.Location) *Handler {
	return &Handler{service: service, evaluator: evaluator, loc: loc}
}

type submitRequest struct {
	Results []struct {
		Difficulty string `json:"difficulty" binding:"required"`
		Minutes    int    `json:"minutes"`
		Seconds    int    `json:"seconds"`
	} `json:"results" binding:"required,min=1"`
}

// Submit handles POST /api/results. Responds with the badges newly awarded
// by this submission; duplicate difficulties for the day are dropped
// silently, never turned into updates.
func (h *Handler) Submit(c *gin.Context) {
	userID := auth.UserID(c)

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	subs := make([]Submission, 0, len(req.Results))
	for _, r := range req.Results {
		d, err := ParseDifficulty(r.Difficulty)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sub := Submission{Difficulty: d, Minutes: r.Minutes, Seconds: r.Seconds}
		if err := sub.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		subs = append(subs, sub)
	}

	awarded, err := h.evaluator.SubmitResults(c.Request.Context(), userID, subs)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not record results"})
		return
	}

	if awarded == nil {
		awarded = []NewBadge{}
	}
	c.JSON(http.StatusOK, gin.H{"newly_awarded": awarded})
}

// Today handles GET /api/results/today: which difficulties the user
// already submitted for the current day.
func (h *Handler) Today(c *gin.Context) {
	userID := auth.UserID(c)

	submitted, err := h.service.SubmittedToday(c.Request.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Fetching today's submissions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load today's submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":      common.FormatDay(h.service.Today()),
		"submitted": submitted,
	})
}

// Stats handles GET /api/stats/results: the full ordered listing.
func (h *Handler) Stats(c *gin.Context) {
	rows, err := h.service.AllResults(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Listing results failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load results"})
		return
	}
	if rows == nil {
		rows = []StatsRow{}
	}
	c.JSON(http.StatusOK, gin.H{"results": rows})
}

// Worst handles GET /api/stats/worst?date=YYYY-MM-DD (default: today).
func (h *Handler) Worst(c *gin.Context) {
	day := h.service.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := common.ParseDay(raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	worst, err := h.service.WorstForDay(c.Request.Context(), day)
	if err != nil {
		log.WithError(err).Error("Querying worst of day failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load worst times"})
		return
	}

	payload := make(map[string]gin.H, len(worst))
	for d, r := range worst {
		payload[string(d)] = gin.H{"minutes": r.Minutes, "seconds": r.Seconds}
	}
	c.JSON(http.StatusOK, gin.H{"date": common.FormatDay(day), "worst": payload})
}
