package monitor

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// RegisterMonitorPage exposes a small status endpoint for operators.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"uptime_seconds": int(time.Since(startedAt).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"alloc_bytes":    mem.Alloc,
			"go_version":     runtime.Version(),
			"environment":    os.Getenv("ENVIRONMENT"),
		})
	})
}
