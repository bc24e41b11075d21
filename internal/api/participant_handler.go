package api

import (
	"net/http"

	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ParticipantHandler handles participant endpoints
type ParticipantHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewParticipantHandler creates a new ParticipantHandler
func NewParticipantHandler(services *service.Services, log zerolog.Logger) *ParticipantHandler {
	return &ParticipantHandler{
		services: services,
		log:      log.With().Str("handler", "participant").Logger(),
	}
}

// List handles GET /participants
func (h *ParticipantHandler) List(c *gin.Context) {
	participants, meta, err := h.services.Participant.List(c.Request.Context(), c.Query("search"), parsePage(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": participants,
		"meta":         meta,
	})
}

// Get handles GET /participants/:id
func (h *ParticipantHandler) Get(c *gin.Context) {
	detail, err := h.services.Participant.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Create handles POST /participants
func (h *ParticipantHandler) Create(c *gin.Context) {
	var input models.ParticipantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	participant, err := h.services.Participant.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"participant": participant})
}

// Update handles PUT /participants/:id
func (h *ParticipantHandler) Update(c *gin.Context) {
	var input models.ParticipantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	participant, err := h.services.Participant.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participant": participant})
}

// Search handles GET /api/participants/search
func (h *ParticipantHandler) Search(c *gin.Context) {
	results, err := h.services.Participant.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
