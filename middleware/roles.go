package middleware

import (
	"slices"

	"speshway-platform/models"
	"speshway-platform/utils"

	"github.com/gin-gonic/gin"
)

type RoleMiddleware struct{}

func NewRoleMiddleware() *RoleMiddleware {
	return &RoleMiddleware{}
}

// RequireRole must run after RequireAuth.
func (r *RoleMiddleware) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			utils.RespondWithUnauthorized(c, "User role not found")
			c.Abort()
			return
		}

		if !slices.Contains(allowedRoles, role) {
			utils.RespondWithForbidden(c, role, allowedRoles)
			c.Abort()
			return
		}

		c.Next()
	})
}

func (r *RoleMiddleware) AdminGuard() gin.HandlerFunc {
	return r.RequireRole(models.RoleAdmin)
}
