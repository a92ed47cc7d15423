package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/models"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/services/auth"
)

const (
	// AuthCookie is the session cookie name.
	AuthCookie = "auth_token"

	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Auth resolves the caller from the session cookie or a bearer header
// and stores their id and role on the request context. Missing or bad
// credentials end the request with 401; navigation is the client's call.
func Auth(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(AuthCookie)
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				abortUnauthenticated(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				abortUnauthenticated(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		userID, role, err := authSvc.ParseToken(tokenStr)
		if err != nil {
			c.SetCookie(AuthCookie, "", -1, "/", "", false, true)
			abortUnauthenticated(c, "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, userID.String())
		c.Set(ctxRole, string(role))
		c.Next()
	}
}

// RequireAdmin gates review-workflow routes. Runs after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserRole(c) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{
				"kind":    "UNAUTHORIZED",
				"message": "admin role required",
			}})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id, or "" when unset.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// UserRole returns the authenticated caller's role.
func UserRole(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString(ctxRole))
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{
		"kind":    "UNAUTHENTICATED",
		"message": message,
	}})
	c.Abort()
}
