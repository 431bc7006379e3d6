package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/newsfeed/pkg/jwt"
	"github.com/d60-Lab/newsfeed/pkg/logger"
	"github.com/d60-Lab/newsfeed/pkg/response"
)

const (
	// UserIDKey 请求方用户 ID 在 gin.Context 中的 key
	UserIDKey = "user_id"
	claimsKey = "jwt_claims"
)

// Auth 校验 Bearer 令牌并写入会话上下文
func Auth(tokens *jwt.Manager, revoker jwt.Revoker) gin.HandlerFunc {
	if revoker == nil {
		revoker = jwt.NopRevoker{}
	}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			response.Unauthorized(c, "Access token required")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}

		revoked, err := revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// 吊销表不可用时放行，只记录
			logger.Warn("token revocation check failed", zap.Error(err))
		} else if revoked {
			response.Unauthorized(c, "Token has been revoked")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentUserID 读取 Auth 写入的用户 ID
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// CurrentClaims 读取当前令牌声明
func CurrentClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}
