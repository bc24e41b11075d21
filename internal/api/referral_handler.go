package api

import (
	"errors"
	"net/http"

	"github.com/case-management-api/internal/models"
	"github.com/case-management-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ReferralHandler handles the intake webhook and referral adjudication
type ReferralHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewReferralHandler creates a new ReferralHandler
func NewReferralHandler(services *service.Services, log zerolog.Logger) *ReferralHandler {
	return &ReferralHandler{
		services: services,
		log:      log.With().Str("handler", "referral").Logger(),
	}
}

// Submit handles POST /api/referrals, the unauthenticated intake webhook.
// Internal failures return a fixed message so external form providers
// never see implementation details.
func (h *ReferralHandler) Submit(c *gin.Context) {
	var payload models.ReferralPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	referral, err := h.services.Referral.Submit(c.Request.Context(), &payload)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		h.log.Error().Err(err).Msg("Failed to store referral")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing the referral. Please try again."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"referral_id": referral.ID,
		"message":     "Referral received successfully",
	})
}

// List handles GET /referrals
func (h *ReferralHandler) List(c *gin.Context) {
	referrals, meta, err := h.services.Referral.List(c.Request.Context(), c.Query("status"), c.Query("search"), parsePage(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referrals": referrals,
		"meta":      meta,
	})
}

// Get handles GET /referrals/:id
func (h *ReferralHandler) Get(c *gin.Context) {
	referral, err := h.services.Referral.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"referral": referral})
}

// Accept handles POST /referrals/:id/accept
func (h *ReferralHandler) Accept(c *gin.Context) {
	participant, err := h.services.Referral.Accept(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"participant": participant,
		"message":     "Referral accepted",
	})
}

// Reject handles POST /referrals/:id/reject. The body is optional and may
// carry a rejection reason.
func (h *ReferralHandler) Reject(c *gin.Context) {
	var req models.RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	referral, err := h.services.Referral.Reject(c.Request.Context(), c.Param("id"), currentActor(c), req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"referral": referral})
}

// Waitlist handles POST /referrals/:id/waitlist
func (h *ReferralHandler) Waitlist(c *gin.Context) {
	referral, err := h.services.Referral.Waitlist(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"referral": referral})
}
