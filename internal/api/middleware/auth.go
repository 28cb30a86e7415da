package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tb0023/biz_go_server/internal/pkg/jwt"
	"github.com/tb0023/biz_go_server/internal/pkg/response"
)

const (
	CompanyIDKey = "companyID"
)

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请提供认证信息")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.Unauthorized(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.Unauthorized(c, "认证失败或已过期")
			c.Abort()
			return
		}

		c.Set(CompanyIDKey, claims.CompanyID)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.Next()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err == nil {
			c.Set(CompanyIDKey, claims.CompanyID)
		}

		c.Next()
	}
}

// GetCompanyID 从上下文获取当前登录公司 ID
func GetCompanyID(c *gin.Context) (int64, bool) {
	companyID, exists := c.Get(CompanyIDKey)
	if !exists {
		return 0, false
	}
	id, ok := companyID.(int64)
	return id, ok
}
