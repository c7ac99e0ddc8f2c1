package middleware

import (
	"net/http"
	"strings"

	"speshway-platform/internal/auth"
	"speshway-platform/utils"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// tokenFromRequest reads a bearer token, falling back to the access_token cookie.
func tokenFromRequest(c *gin.Context) string {
	if token := ExtractTokenFromHeader(c.GetHeader("Authorization")); token != "" {
		return token
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			utils.RespondWithUnauthorized(c, "Authentication token is required")
			c.Abort()
			return
		}

		claims, err := a.tokens.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error_code": "session_expired",
				"message":    "Your session has expired. Please log in again.",
				"details":    gin.H{"error": err.Error()},
			})
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	})
}

// OptionalAuth records the caller's identity when a valid token is present and
// lets anonymous requests through untouched.
func (a *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		if tokenString := tokenFromRequest(c); tokenString != "" {
			if claims, err := a.tokens.ValidateAccessToken(c.Request.Context(), tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	})
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	c.Set("claims", claims)
}

// Helper function to get user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// Helper function to get role from context
func GetRole(c *gin.Context) string {
	return c.GetString("role")
}

func ExtractTokenFromHeader(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
