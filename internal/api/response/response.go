// Package response holds the JSON envelope every endpoint answers with.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/yoojob/internal/utils"
)

type Envelope struct {
	Success bool     `json:"Success"`
	Message string   `json:"Message"`
	Object  any      `json:"Object"`
	Errors  []string `json:"Errors"`
}

type PagedEnvelope struct {
	Success    bool     `json:"Success"`
	Message    string   `json:"Message"`
	Object     any      `json:"Object"`
	PageNumber int      `json:"PageNumber"`
	PageSize   int      `json:"PageSize"`
	TotalSize  int64    `json:"TotalSize"`
	Errors     []string `json:"Errors"`
}

func OK(c *gin.Context, status int, msg string, obj any) {
	c.JSON(status, Envelope{Success: true, Message: msg, Object: obj})
}

func Paged(c *gin.Context, msg string, items any, p utils.Page, total int64) {
	c.JSON(http.StatusOK, PagedEnvelope{
		Success:    true,
		Message:    msg,
		Object:     items,
		PageNumber: p.Number,
		PageSize:   p.Size,
		TotalSize:  total,
	})
}

// Error writes err as a failure envelope. Errors that are not an AppError,
// and AppErrors of class 5xx, are attached to the context for the request
// logger and answered with a generic message.
func Error(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if !errors.As(err, &ae) {
		_ = c.Error(err)
		msg := http.StatusText(status)
		c.JSON(status, Envelope{Message: msg, Errors: []string{msg}})
		return
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		if ae.Code == utils.CodeInternal {
			msg := "Internal server error"
			c.JSON(status, Envelope{Message: msg, Errors: []string{msg}})
			return
		}
	}
	c.JSON(status, Envelope{Message: ae.Message, Errors: ae.Messages()})
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
