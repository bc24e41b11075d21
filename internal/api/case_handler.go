package api

import (
	"net/http"

	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CaseHandler handles case and case note endpoints
type CaseHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCaseHandler creates a new CaseHandler
func NewCaseHandler(services *service.Services, log zerolog.Logger) *CaseHandler {
	return &CaseHandler{
		services: services,
		log:      log.With().Str("handler", "case").Logger(),
	}
}

// Create handles POST /participants/:id/cases
func (h *CaseHandler) Create(c *gin.Context) {
	var input models.CaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := h.services.Case.Create(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"case": created})
}

// List handles GET /cases
func (h *CaseHandler) List(c *gin.Context) {
	cases, meta, err := h.services.Case.List(c.Request.Context(), c.Query("status"), c.Query("search"), parsePage(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cases": cases,
		"meta":  meta,
	})
}

// Get handles GET /cases/:id
func (h *CaseHandler) Get(c *gin.Context) {
	found, err := h.services.Case.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"case": found})
}

// Update handles PUT /cases/:id
func (h *CaseHandler) Update(c *gin.Context) {
	var input models.CaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.services.Case.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"case": updated})
}

// AddNote handles POST /cases/:id/notes
func (h *CaseHandler) AddNote(c *gin.Context) {
	var input models.CaseNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	note, err := h.services.Case.AddNote(c.Request.Context(), c.Param("id"), currentActor(c), &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"note": note})
}

// ListNotes handles GET /cases/:id/notes. Confidential notes are filtered
// by the service based on the actor's role.
func (h *CaseHandler) ListNotes(c *gin.Context) {
	notes, err := h.services.Case.ListNotes(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}
