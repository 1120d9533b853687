package middleware

import (
	"net/http"
	"strings"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/auth"
	"job-portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token and puts its claims on the context.
// No token is 401; a bad or expired token is 403.
func AuthMiddleware(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Access denied")
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			logger.Log.Debug("Token rejected", "error", err, "path", c.FullPath())
			response.Error(c, http.StatusForbidden, "Invalid token")
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), claims.ID)
		c.Set(string(domain.KeyUserEmail), claims.Email)
		c.Set(string(domain.KeyUserName), claims.Name)
		c.Set(string(domain.KeyUserRole), claims.Role)

		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware. The role claim decides; when
// legacyEmail is set, a token whose email equals adminEmail is also accepted.
func RequireAdmin(adminEmail string, legacyEmail bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserRole)) == domain.RoleAdmin {
			c.Next()
			return
		}

		email := strings.ToLower(c.GetString(string(domain.KeyUserEmail)))
		if legacyEmail && adminEmail != "" && email == adminEmail {
			c.Next()
			return
		}

		response.Error(c, http.StatusForbidden, "Admin access required")
		c.Abort()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
