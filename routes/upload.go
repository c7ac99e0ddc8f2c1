package routes

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"speshway-platform/internal/blob"
	"speshway-platform/services"
	"speshway-platform/utils"

	"github.com/docker/go-units"
	"github.com/gin-gonic/gin"
)

const (
	imageField       = "image"
	uploadedImageKey = "uploaded_image"
	// formOverhead leaves room for the text fields sent next to the file.
	formOverhead = 1 << 20
)

// ImageUpload stores the multipart "image" file before the handler runs and
// exposes the result through uploadedImage. Requests without a file (or JSON
// bodies) pass through untouched so handlers can decide if an image is required.
func ImageUpload(uploads *services.UploadService, folder string, maxSize int64, style errorStyle) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMultipart(c.Request) {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+formOverhead)
		file, err := c.FormFile(imageField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				style(c, http.StatusBadRequest, "bad_request",
					"File size exceeds "+units.BytesSize(float64(maxSize))+" limit", gin.H{"field": imageField})
				c.Abort()
			case errors.Is(err, http.ErrMissingFile):
				c.Next()
			default:
				style(c, http.StatusBadRequest, "bad_request", "Invalid multipart form", err.Error())
				c.Abort()
			}
			return
		}

		ctx, cancel := utils.WithLongTimeout(c.Request.Context())
		defer cancel()

		ref, err := uploads.UploadImage(ctx, file, folder, maxSize)
		if err != nil {
			respondServiceError(c, style, "Image not found", "Failed to upload image", err)
			c.Abort()
			return
		}

		c.Set(uploadedImageKey, ref)
		c.Next()
	}
}

// uploadedImage returns the blob stored by ImageUpload, or nil.
func uploadedImage(c *gin.Context) *blob.Ref {
	if v, ok := c.Get(uploadedImageKey); ok {
		if ref, ok := v.(*blob.Ref); ok {
			return ref
		}
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mediaType, "multipart/form-data")
}
