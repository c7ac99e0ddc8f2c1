package utils

import "testing"

func TestImageTypes(t *testing.T) {
	cases := []struct {
		contentType string
		valid       bool
		ext         string
	}{
		{"image/png", true, ".png"},
		{"IMAGE/JPEG", true, ".jpg"},
		{"image/jpg", true, ".jpg"},
		{"image/svg+xml; charset=utf-8", true, ".svg"},
		{"image/webp", true, ".webp"},
		{"image/tiff", false, ".jpg"},
		{"text/plain", false, ".jpg"},
		{"", false, ".jpg"},
	}
	for _, tc := range cases {
		if got := IsValidImageType(tc.contentType); got != tc.valid {
			t.Errorf("IsValidImageType(%q) = %v, want %v", tc.contentType, got, tc.valid)
		}
		if got := GetImageExtension(tc.contentType); got != tc.ext {
			t.Errorf("GetImageExtension(%q) = %q, want %q", tc.contentType, got, tc.ext)
		}
	}
}
