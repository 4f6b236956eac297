package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hosico-labs/bounty-backend/pkg/jwt"
	"golang.org/x/exp/slog"
)

// ServiceTokenMiddleware requires a bearer service token carrying the
// operator role.
func ServiceTokenMiddleware(tokens *jwt.ServiceTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const BearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			slog.Warn("ServiceTokenMiddleware: Authorization header is missing", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(authHeader[len(BearerSchema):]))
		if err != nil {
			slog.Warn("ServiceTokenMiddleware: token validation failed", "error", err)
			if jwt.IsExpired(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}
		if claims.Role != jwt.RoleOperator {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			return
		}

		c.Set("tokenSubject", claims.Subject)
		c.Next()
	}
}
