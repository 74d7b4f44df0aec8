package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/podscribe/version"
)

var startTime = time.Now()

// Info reports build information and uptime.
func Info(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": service,
			"build":   version.Get(),
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		})
	}
}
