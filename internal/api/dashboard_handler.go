package api

import (
	"net/http"

	"github.com/case-management-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DashboardHandler handles the dashboard endpoint
type DashboardHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(services *service.Services, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		services: services,
		log:      log.With().Str("handler", "dashboard").Logger(),
	}
}

// Get handles GET /dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	dashboard, err := h.services.Dashboard.Get(c.Request.Context(), currentActor(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
