// handlers.go: HTTP endpoints for registration, login and the streak view.
package accounts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"pipstracker/internal/auth"
	"pipstracker/internal/common"
)

// Handler serves the account endpoints.
type Handler struct {
	service *Service
	tokens  *auth.Manager
}

// NewHandler creates the accounts handler.
func NewHandler(service *Service, tokens *auth.Manager) *Handler {
	return &Handler{service: service, tokens: tokens}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, common.ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}
	if err != nil {
		log.WithError(err).Error("Registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

// Login handles POST /api/auth/login and issues a session token.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, common.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong username or password"})
		return
	case errors.Is(err, common.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts, try again later"})
		return
	case err != nil:
		log.WithError(err).Error("Login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
		return
	}

	token, err := h.tokens.Mint(user.ID, user.Username)
	if err != nil {
		log.WithError(err).Error("Token minting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Streak handles GET /api/me/streak.
func (h *Handler) Streak(c *gin.Context) {
	userID := auth.UserID(c)

	user, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Fetching streak failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load streak"})
		return
	}

	resp := gin.H{"current_streak": user.CurrentStreak, "last_played": nil}
	if user.LastPlayed != nil {
		resp["last_played"] = common.FormatDay(*user.LastPlayed)
	}
	c.JSON(http.StatusOK, resp)
}
