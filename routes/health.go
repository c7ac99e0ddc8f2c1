package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes exposes the liveness probe the recorder checks before it
// starts submitting.
func SetupHealthRoutes(api *gin.RouterGroup) {
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})
}
