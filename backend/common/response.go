package common

import (
	"net/http"

	apperrors "file-vault/backend/common/errors"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespData writes data as the whole response body.
func RespData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespErrorStr 响应错误，只包含错误消息
func RespErrorStr(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, ErrorResponse{Error: msg})
}

// RespError maps err to its status and public message. Internal causes are
// logged here and never reach the client.
func RespError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		SysError(c.Request.Method + " " + c.Request.URL.Path + " failed: " + err.Error())
	}
	c.JSON(status, ErrorResponse{Error: apperrors.PublicMessage(err)})
}

// RespAbort is RespError for middleware.
func RespAbort(c *gin.Context, statusCode int, msg string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: msg})
}
