package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mesacard/internal/session"
)

// SessionAuth guards the staff routes. The session must hold an unexpired
// backend token; the backend still checks it again on every proxied call.
func SessionAuth(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not logged in or session expired",
			})
			return
		}
		c.Next()
	}
}
