package api

import (
	"net/http"

	"github.com/case-management-api/internal/auth"
	"github.com/case-management-api/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// sessionUserKey is the session entry holding the logged-in user's ID
const sessionUserKey = "user_id"

// actorKey is the request context entry holding the resolved actor
const actorKey = "actor"

// RequireAuth resolves the session user and rejects unauthenticated
// requests. Sessions whose account has been disabled or deleted are
// cleared on the spot.
func RequireAuth(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(sessionUserKey).(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if user == nil || !user.Active {
			session.Clear()
			session.Save()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(actorKey, &auth.Actor{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
			Active:   user.Active,
		})
		c.Next()
	}
}

// RequireRole rejects actors below minRole. It must run after RequireAuth.
func RequireRole(minRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := currentActor(c)
		if actor == nil || !actor.IsAtLeast(minRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// currentActor returns the actor resolved by RequireAuth, nil on
// unauthenticated requests
func currentActor(c *gin.Context) *auth.Actor {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, _ := v.(*auth.Actor)
	return actor
}
