package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/case-management-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps service errors onto HTTP statuses. Validation errors
// surface their message; anything unrecognized is logged and masked.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}

	switch {
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden),
		errors.Is(err, models.ErrSelfDeactivation):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrParticipantNotFound),
		errors.Is(err, models.ErrReferralNotFound),
		errors.Is(err, models.ErrCaseNotFound),
		errors.Is(err, models.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrReferralProcessed),
		errors.Is(err, models.ErrDuplicateUsername),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrCaseNumberExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parsePage reads the page query parameter, defaulting to the first page
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
