package services

import (
	"context"

	"speshway-platform/internal/blob"
	"speshway-platform/internal/logger"
	"speshway-platform/models"
	"speshway-platform/utils"
)

// BlobRemover deletes stored images by public id.
type BlobRemover interface {
	Delete(ctx context.Context, publicID string) error
}

// discardBlob deletes publicID and only logs a failure. It survives the
// caller's context being cancelled so compensation still runs after a client
// disconnect.
func discardBlob(ctx context.Context, blobs BlobRemover, publicID, reason string) {
	if blobs == nil || publicID == "" {
		return
	}

	ctx, cancel := utils.WithTimeout(context.WithoutCancel(ctx))
	defer cancel()

	if err := blobs.Delete(ctx, publicID); err != nil {
		logger.Warn("Failed to delete blob", "public_id", publicID, "reason", reason, "error", err)
		return
	}
	logger.Debug("Deleted blob", "public_id", publicID, "reason", reason)
}

// discardImage removes a stored image. Documents saved without an image have
// nothing to remove.
func discardImage(ctx context.Context, blobs BlobRemover, img models.ImageRef, reason string) {
	if img.IsZero() {
		return
	}
	discardBlob(ctx, blobs, img.PublicID, reason)
}

func imageRef(ref *blob.Ref) models.ImageRef {
	return models.ImageRef{URL: ref.URL, PublicID: ref.PublicID}
}

func uploadedID(ref *blob.Ref) string {
	if ref == nil {
		return ""
	}
	return ref.PublicID
}
