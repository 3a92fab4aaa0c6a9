package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"HugHub/internal/pkg"
	"HugHub/internal/repository/redis"
)

const ContextUserIDKey = "user_id"

// AuthMiddleware 校验 access token，并要求它与 redis 中保存的当前会话一致
func AuthMiddleware(tokens *pkg.TokenMaker, sessions *redis.TokenRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		ctx := c.Request.Context()

		claims, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		// redis校验是否是正确的token
		originToken, err := sessions.Get(ctx, claims.UserID)
		if err != nil || originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "session expired or account logged in elsewhere"})
			c.Abort()
			return
		}

		// 校验通过后更新过期时间
		if err = sessions.Extend(ctx, claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		// 注入 user_id
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
