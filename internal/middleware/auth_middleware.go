package middleware

import (
	"net/http"
	"strings"

	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/policy"
	"github.com/SraaaamX/realestate-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// ActorKey is the gin context key holding the *policy.Actor of a verified token
const ActorKey = "actor"

// AuthMiddleware rejects requests without a valid bearer token. Role and
// subject come from the token claims; the user record is not re-read.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			return
		}

		// 2. Extract token from "Bearer <token>"
		tokenString, ok := bearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		// 3. Validate token
		claims, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		// 4. Add actor to context (handlers can access)
		c.Set(ActorKey, &policy.Actor{SubjectID: claims.UserID, Role: claims.Role})

		c.Next()
	}
}

// OptionalAuth attaches the actor when a valid bearer token is present and
// lets every request through otherwise.
func OptionalAuth(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := tokens.Verify(tokenString); err == nil {
				c.Set(ActorKey, &policy.Actor{SubjectID: claims.UserID, Role: claims.Role})
			}
		}
		c.Next()
	}
}

// RequireRoles lets through only actors holding one of roles.
// Must run after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if actor == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Access denied: insufficient privileges",
		})
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// AgentMiddleware admits agents and admins
func AgentMiddleware() gin.HandlerFunc {
	return RequireRoles(models.RoleAgent, models.RoleAdmin)
}

// ActorFrom returns the actor set by AuthMiddleware or OptionalAuth, or nil
func ActorFrom(c *gin.Context) *policy.Actor {
	value, exists := c.Get(ActorKey)
	if !exists {
		return nil
	}
	actor, _ := value.(*policy.Actor)
	return actor
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
