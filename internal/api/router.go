package api

import (
	"net/http"
	"time"

	"github.com/case-management-api/internal/auth"
	"github.com/case-management-api/internal/config"
	"github.com/case-management-api/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Session cookies
	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(cfg.Session.CookieName, store))

	// Handlers
	authHandler := NewAuthHandler(services, log)
	participantHandler := NewParticipantHandler(services, log)
	referralHandler := NewReferralHandler(services, log)
	caseHandler := NewCaseHandler(services, log)
	userHandler := NewUserHandler(services, log)
	dashboardHandler := NewDashboardHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	// Public endpoints: the intake webhook and login
	router.POST("/api/referrals", referralHandler.Submit)
	router.POST("/auth/login", authHandler.Login)

	// Any authenticated staff member
	staff := router.Group("", RequireAuth(services.User))
	{
		staff.POST("/auth/logout", authHandler.Logout)
		staff.GET("/auth/me", authHandler.Me)

		staff.GET("/dashboard", dashboardHandler.Get)

		staff.GET("/profile", authHandler.GetProfile)
		staff.PUT("/profile", authHandler.UpdateProfile)

		staff.GET("/participants", participantHandler.List)
		staff.GET("/participants/:id", participantHandler.Get)
		staff.GET("/api/participants/search", participantHandler.Search)

		staff.GET("/cases", caseHandler.List)
		staff.GET("/cases/:id", caseHandler.Get)
		staff.GET("/cases/:id/notes", caseHandler.ListNotes)
	}

	// Coordinators and above
	coordinator := router.Group("", RequireAuth(services.User), RequireRole(auth.RoleCoordinator))
	{
		coordinator.POST("/participants", participantHandler.Create)
		coordinator.PUT("/participants/:id", participantHandler.Update)
		coordinator.POST("/participants/:id/cases", caseHandler.Create)

		coordinator.PUT("/cases/:id", caseHandler.Update)
		coordinator.POST("/cases/:id/notes", caseHandler.AddNote)

		coordinator.GET("/referrals", referralHandler.List)
		coordinator.GET("/referrals/:id", referralHandler.Get)
		coordinator.POST("/referrals/:id/accept", referralHandler.Accept)
		coordinator.POST("/referrals/:id/reject", referralHandler.Reject)
		coordinator.POST("/referrals/:id/waitlist", referralHandler.Waitlist)
	}

	// Admins only
	admin := router.Group("/users", RequireAuth(services.User), RequireRole(auth.RoleAdmin))
	{
		admin.GET("", userHandler.List)
		admin.POST("", userHandler.Create)
		admin.PUT("/:id", userHandler.Update)
		admin.POST("/:id/toggle", userHandler.ToggleActive)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "case-management-api",
	})
}

// metricsHandler returns per-entity row counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := services.Dashboard.EntityCounts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect metrics"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"database":  counts,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS for the public intake webhook
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
