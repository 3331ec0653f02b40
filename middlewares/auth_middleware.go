package middlewares

import (
	"net/http"
	"strings"

	"github.com/PvtMilo/WMS-demo/models"
	"github.com/PvtMilo/WMS-demo/service"

	"github.com/gin-gonic/gin"
)

const CallerKey = "caller"

func AuthMiddleware(resolver service.CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": true, "message": "Token tidak ditemukan"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		caller, err := resolver.ResolveCaller(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": true, "message": "Token tidak valid"})
			return
		}

		c.Set(CallerKey, caller)
		c.Set("user_id", caller.ID)
		c.Set("role", string(caller.Role))
		c.Next()
	}
}

// RequireRole dipasang setelah AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(CallerKey)
		caller, ok := v.(service.Caller)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": true, "message": "Unauthorized"})
			return
		}
		for _, r := range roles {
			if caller.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": true, "message": "Akses ditolak untuk role " + string(caller.Role)})
	}
}
