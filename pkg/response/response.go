package response

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/newsfeed/pkg/logger"
)

// ErrorBody 错误响应体
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody 仅含提示信息的响应体
type MessageBody struct {
	Message string `json:"message"`
}

const internalErrorMessage = "Internal server error"

// Success 200，data 原样输出
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created 201
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Message 200 {message}
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageBody{Message: msg})
}

func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

func BadRequest(c *gin.Context, msg string)          { Error(c, http.StatusBadRequest, msg) }
func Unauthorized(c *gin.Context, msg string)        { Error(c, http.StatusUnauthorized, msg) }
func NotFound(c *gin.Context, msg string)            { Error(c, http.StatusNotFound, msg) }
func UnprocessableEntity(c *gin.Context, msg string) { Error(c, http.StatusUnprocessableEntity, msg) }
func TooManyRequests(c *gin.Context, msg string)     { Error(c, http.StatusTooManyRequests, msg) }

// InternalError 记录详细错误并上报 Sentry，对外只返回通用信息
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil && err != nil {
		hub.CaptureException(err)
	}
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, internalErrorMessage)
}
