package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edge-gateway/internal/security"
	"edge-gateway/pkg/response"
)

// RequireAuth validates the bearer token and stores the claims for
// downstream handlers.
func RequireAuth(jwtManager *security.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := jwtManager.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Unauthorized(err.Error(), GetCorrelationID(c)))
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Unauthorized("invalid or expired token", GetCorrelationID(c)))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("claims", claims)
		c.Next()
	}
}

// RequireRole rejects requests whose token lacks all of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("claims")
		claims, ok := v.(*security.Claims)
		if !exists || !ok || !claims.HasAnyRole(roles...) {
			c.JSON(http.StatusForbidden, response.Error(
				"FORBIDDEN", "insufficient role", "", GetCorrelationID(c)))
			c.Abort()
			return
		}
		c.Next()
	}
}
