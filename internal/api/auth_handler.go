package api

import (
	"net/http"

	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles login, logout and profile endpoints
type AuthHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.services.User.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("Failed to save session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear session")
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor := currentActor(c)

	user, err := h.services.User.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if user == nil {
		respondError(c, h.log, models.ErrUserNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetProfile handles GET /profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	h.Me(c)
}

// UpdateProfile handles PUT /profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor := currentActor(c)

	var input models.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.services.User.UpdateProfile(c.Request.Context(), actor.ID, &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
