package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/api/response"
	"github.com/yoockh/yoojob/internal/auth"
	"github.com/yoockh/yoojob/internal/utils"
)

const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxRequestID = "request_id"
)

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

func JWTAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "Middleware.JWTAuth"

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Abort(c, utils.E(utils.CodeUnauthorized, op, "Authentication required", nil))
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if raw == "" {
			response.Abort(c, utils.E(utils.CodeUnauthorized, op, "Authentication required", nil))
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			response.Abort(c, utils.E(utils.CodeUnauthorized, op, "Invalid or expired token", err))
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}
