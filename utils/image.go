package utils

import "strings"

// imageExtensions lists the accepted upload types and the extension each is
// stored under.
var imageExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/jpg":     ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// IsValidImageType reports whether contentType may be stored as an image.
// Parameters such as "; charset=utf-8" are ignored.
func IsValidImageType(contentType string) bool {
	_, ok := imageExtensions[normalizeMediaType(contentType)]
	return ok
}

// GetImageExtension falls back to ".jpg" for types outside the accepted list.
func GetImageExtension(contentType string) string {
	if ext, ok := imageExtensions[normalizeMediaType(contentType)]; ok {
		return ext
	}
	return ".jpg"
}

func normalizeMediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
