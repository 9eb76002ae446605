package api

import (
	"errors"

	"budgeto/apperr"
	"budgeto/config"
	"budgeto/logging"
	"budgeto/middleware"

	"github.com/gin-gonic/gin"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// respondError 按错误类别映射 HTTP 状态码，存储错误记录日志并返回 fallback
func respondError(c *gin.Context, err error, fallback string) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch apperr.KindOf(err) {
		case apperr.KindValidation:
			BadRequest(c, appErr.Message)
			return
		case apperr.KindDuplicateEmail:
			Conflict(c, appErr.Message)
			return
		case apperr.KindUnauthorized:
			Unauthorized(c, appErr.Message)
			return
		case apperr.KindNotFound:
			NotFound(c, appErr.Message)
			return
		}
	}

	logging.Logger.WithError(err).
		WithField("request_id", middleware.RequestID(c)).
		Error(fallback)
	InternalError(c, SafeErrorMessage(err, fallback))
}
