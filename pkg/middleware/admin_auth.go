package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a-mirror/mirror-api/internal/config"
	"github.com/a-mirror/mirror-api/internal/tokens"
)

// AdminAuth returns a Gin middleware gating the bot-registry admin routes.
// It expects 'Authorization: Bearer <jwt>' signed with the configured admin
// secret and carrying the admin role. The verified subject is stored on the
// context under "adminSubject".
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "Admin authorization required",
			})
			return
		}

		// Expect 'Bearer <token>'
		var raw string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &raw); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "Admin authorization required",
			})
			return
		}

		sub, err := tokens.ParseAdminToken(cfg, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  http.StatusUnauthorized,
				"message": "Invalid admin token",
			})
			return
		}

		c.Set("adminSubject", sub)
		c.Next()
	}
}
