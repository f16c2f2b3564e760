package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/httpapi/auth"
	"reviewhub/internal/httpapi/policy"
)

// AuthMiddleware checks for a valid bearer token and stores the caller's
// identity in the request context.
func AuthMiddleware(tokens auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := tokens.VerifyToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// ActorFromContext rebuilds the policy actor from what AuthMiddleware
// stored. Empty on unauthenticated requests.
func ActorFromContext(c *gin.Context) policy.Actor {
	actor := policy.Actor{}
	if v, ok := c.Get("userID"); ok {
		actor.ID, _ = v.(string)
	}
	if v, ok := c.Get("role"); ok {
		actor.Role, _ = v.(string)
	}
	return actor
}

// RequireAdmin gates the admin-only write surfaces (users, categories,
// genres, titles) on the shared policy predicate.
func RequireAdmin(resource policy.Resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !policy.CanMutate(ActorFromContext(c), resource, "") {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
