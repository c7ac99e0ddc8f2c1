package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"speshway-platform/internal/blob"
	"speshway-platform/models"
)

type HomeBannerStore interface {
	List(ctx context.Context, includeInactive bool) ([]models.HomeBanner, error)
	Get(ctx context.Context, id string) (*models.HomeBanner, error)
	Create(ctx context.Context, banner *models.HomeBanner) error
	Update(ctx context.Context, banner *models.HomeBanner) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type HomeBannerService struct {
	store HomeBannerStore
	blobs BlobRemover
	now   func() time.Time
}

func NewHomeBannerService(store HomeBannerStore, blobs BlobRemover) *HomeBannerService {
	return &HomeBannerService{store: store, blobs: blobs, now: time.Now}
}

func (s *HomeBannerService) List(ctx context.Context, vis Visibility) ([]models.HomeBanner, error) {
	banners, err := s.store.List(ctx, vis.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("list home banners: %w", err)
	}
	return banners, nil
}

func (s *HomeBannerService) Get(ctx context.Context, id string) (*models.HomeBanner, error) {
	return s.store.Get(ctx, id)
}

// Create persists a banner for an image that has already been uploaded. The
// upload is discarded if the banner cannot be saved.
func (s *HomeBannerService) Create(ctx context.Context, in models.HomeBannerInput, image *blob.Ref) (banner *models.HomeBanner, err error) {
	defer func() {
		if err != nil {
			discardBlob(ctx, s.blobs, uploadedID(image), "banner create failed")
		}
	}()

	if image == nil || image.URL == "" || image.PublicID == "" {
		return nil, invalid("image", "Image file is required")
	}

	now := s.now().UTC()
	banner = &models.HomeBanner{
		Image:     imageRef(image),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Title != nil {
		banner.Title = strings.TrimSpace(*in.Title)
	}
	if in.Order != nil {
		banner.Order = *in.Order
	}
	if in.IsActive != nil {
		banner.IsActive = *in.IsActive
	}

	if err := s.store.Create(ctx, banner); err != nil {
		return nil, fmt.Errorf("create home banner: %w", err)
	}
	return banner, nil
}

// Update applies the present fields. A replacement image takes effect only once
// the document is saved; the previous blob is then removed best-effort.
func (s *HomeBannerService) Update(ctx context.Context, id string, in models.HomeBannerInput, image *blob.Ref) (banner *models.HomeBanner, err error) {
	defer func() {
		if err != nil {
			discardBlob(ctx, s.blobs, uploadedID(image), "banner update failed")
		}
	}()

	banner, err = s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := banner.Image

	if in.Title != nil {
		banner.Title = strings.TrimSpace(*in.Title)
	}
	if in.Order != nil {
		banner.Order = *in.Order
	}
	if in.IsActive != nil {
		banner.IsActive = *in.IsActive
	}
	if image != nil {
		banner.Image = imageRef(image)
	}
	banner.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, banner); err != nil {
		return nil, fmt.Errorf("update home banner: %w", err)
	}

	if image != nil && previous.PublicID != image.PublicID {
		discardImage(ctx, s.blobs, previous, "banner image replaced")
	}
	return banner, nil
}

// Delete removes the banner even when its blob cannot be deleted.
func (s *HomeBannerService) Delete(ctx context.Context, id string) error {
	banner, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	discardImage(ctx, s.blobs, banner.Image, "banner deleted")

	if err := s.store.Delete(ctx, banner.ID); err != nil {
		return fmt.Errorf("delete home banner: %w", err)
	}
	return nil
}
