package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/users"
)

// RequireRole gates a route group to the given roles. Admins pass
// everywhere.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"request_id": GetRequestID(c),
			})
			return
		}

		if u.Role == users.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":      "forbidden",
			"request_id": GetRequestID(c),
		})
	}
}

func RequireAdmin() gin.HandlerFunc { return RequireRole(users.RoleAdmin) }
