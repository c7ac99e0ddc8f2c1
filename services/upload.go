package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/docker/go-units"
	"github.com/gabriel-vasile/mimetype"

	"speshway-platform/internal/blob"
	"speshway-platform/utils"
)

// Upload folders below the configured root folder.
const (
	BannerFolder    = "banners"
	HomeImageFolder = "home-images"
)

// UploadService validates image files and hands them to the blob store.
type UploadService struct {
	store  blob.Store
	folder string
}

func NewUploadService(store blob.Store, folder string) *UploadService {
	return &UploadService{store: store, folder: folder}
}

// Discard removes an upload that will not be persisted. Failures are logged.
func (s *UploadService) Discard(ctx context.Context, ref *blob.Ref, reason string) {
	discardBlob(ctx, s.store, uploadedID(ref), reason)
}

// UploadImage stores file under folder and returns its reference. Files over
// maxSize and anything that is not an image are rejected with a
// ValidationError before any bytes reach the store.
func (s *UploadService) UploadImage(ctx context.Context, file *multipart.FileHeader, folder string, maxSize int64) (*blob.Ref, error) {
	data, contentType, err := s.validateFile(file, maxSize)
	if err != nil {
		return nil, err
	}

	key := blob.NewKey(path.Join(s.folder, folder), utils.GetImageExtension(contentType))
	ref, err := s.store.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	return &ref, nil
}

// validateFile reads the file and checks both the declared and the sniffed
// content type.
func (s *UploadService) validateFile(file *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if file == nil {
		return nil, "", invalid("image", "Image file is required")
	}
	if file.Size > maxSize {
		return nil, "", invalid("image", "File size exceeds %s limit", units.BytesSize(float64(maxSize)))
	}

	declared := strings.ToLower(file.Header.Get("Content-Type"))
	if !strings.HasPrefix(declared, "image/") {
		return nil, "", invalid("image", "Only image files are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", invalid("image", "File size exceeds %s limit", units.BytesSize(float64(maxSize)))
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, "", invalid("image", "Only image files are allowed")
	}

	// Trust the sniffed type over the declared one; browsers guess from the
	// file extension.
	contentType, _, _ := strings.Cut(detected.String(), ";")
	if !utils.IsValidImageType(contentType) {
		return nil, "", invalid("image", "Unsupported image type %s", contentType)
	}
	return data, contentType, nil
}
