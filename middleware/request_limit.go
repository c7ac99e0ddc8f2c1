package middleware

import (
	"net/http"

	"speshway-platform/utils"

	"github.com/docker/go-units"
	"github.com/gin-gonic/gin"
)

// RequestSizeLimit rejects bodies whose declared length exceeds maxSize and
// caps the reader for bodies that lie about it.
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge,
				"request_too_large",
				"Request body exceeds maximum size",
				gin.H{
					"max_size":  maxSize,
					"received":  c.Request.ContentLength,
					"max_human": units.BytesSize(float64(maxSize)),
				})
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
