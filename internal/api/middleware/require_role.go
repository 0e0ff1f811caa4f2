package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/api/response"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
)

// RequireRole lets the request through only when the authenticated role is
// one of allowed. A missing role is rejected too.
func RequireRole(allowed ...models.UserRole) gin.HandlerFunc {
	allow := map[models.UserRole]struct{}{}
	for _, a := range allowed {
		allow[a] = struct{}{}
	}

	return func(c *gin.Context) {
		const op = "Middleware.RequireRole"

		v, _ := c.Get(CtxRole)
		role, _ := v.(string)
		role = strings.ToLower(strings.TrimSpace(role))

		if _, ok := allow[models.UserRole(role)]; !ok || role == "" {
			response.Abort(c, utils.E(utils.CodeForbidden, op, "Unauthorized", nil))
			return
		}
		c.Next()
	}
}

func RequireCompany() gin.HandlerFunc   { return RequireRole(models.RoleCompany) }
func RequireApplicant() gin.HandlerFunc { return RequireRole(models.RoleApplicant) }
