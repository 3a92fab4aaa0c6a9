package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"HugHub/internal/middleware"
	"HugHub/internal/pkg"
	"HugHub/internal/service"
)

var logger = loggo.GetLogger("hughub.handler")

func userIDFromCtx(c *gin.Context) string {
	if v, ok := c.Get(middleware.ContextUserIDKey); ok {
		if id, ok2 := v.(string); ok2 {
			return id
		}
	}
	return ""
}

// writeError 把业务错误映射为状态码；存储细节只写日志，不返回给客户端
func writeError(c *gin.Context, err error) {
	var blocked *service.BlockedError
	switch {
	case errors.As(err, &blocked):
		c.JSON(http.StatusForbidden, gin.H{
			"blocked":  true,
			"is_toxic": true,
			"label":    blocked.Label,
			"score":    blocked.Score,
			"msg":      blocked.ContentType + " blocked due to toxic content",
		})
	case errors.Is(err, pkg.ErrNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"msg": "please verify your email address before logging in"})
	case errors.Is(err, errors.NotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, errors.NotValid):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, errors.Unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
	case errors.Is(err, errors.Forbidden):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	case errors.Is(err, errors.AlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	case errors.Is(err, pkg.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"msg": "please wait before requesting another email"})
	case errors.Is(err, pkg.ErrUpstreamUnavailable):
		logger.Warningf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusBadGateway, gin.H{"msg": "upstream service unavailable"})
	case errors.Is(err, pkg.ErrDeletionFailed):
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "deletion failed"})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
	}
}
