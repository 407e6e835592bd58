// Package root contains endpoints that aren't tied to an account
package root

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewHeartbeat reports that the server is alive. HEAD requests only get the
// status code.
func NewHeartbeat(started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead {
			c.Status(http.StatusOK)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(started).Round(time.Second).String(),
		})
	}
}
