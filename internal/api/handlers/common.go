package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/api/middleware"
	"github.com/yoockh/yoojob/internal/api/response"
	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/services"
	"github.com/yoockh/yoojob/internal/utils"
)

const msgInvalidBody = "Invalid request body"

func writeError(c *gin.Context, err error) {
	response.Error(c, err)
}

func badBody(c *gin.Context, op string, err error) {
	writeError(c, utils.EWith(utils.CodeInvalidArgument, op, msgInvalidBody, []string{msgInvalidBody}, err))
}

// requireCaller reads the identity JWTAuth stored on the context.
func requireCaller(c *gin.Context) (services.Caller, bool) {
	id := c.GetString(middleware.CtxUserID)
	if id == "" {
		writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "Authentication required", nil))
		return services.Caller{}, false
	}
	return services.Caller{ID: id, Role: models.UserRole(c.GetString(middleware.CtxRole))}, true
}

func pageFromQuery(c *gin.Context) utils.Page {
	return utils.ParsePage(c.Query("page"), c.Query("page_size"))
}
