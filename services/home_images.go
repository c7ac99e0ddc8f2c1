package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"speshway-platform/internal/blob"
	"speshway-platform/internal/database"
	"speshway-platform/internal/logger"
	"speshway-platform/models"
)

type HomeImageStore interface {
	List(ctx context.Context, includeInactive bool) ([]models.HomeImage, error)
	Get(ctx context.Context, id string) (*models.HomeImage, error)
	Create(ctx context.Context, image *models.HomeImage) error
	Update(ctx context.Context, image *models.HomeImage) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserLookup answers whether a user id exists.
type UserLookup interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type HomeImageService struct {
	store HomeImageStore
	users UserLookup
	blobs BlobRemover
	now   func() time.Time
	order orderSequence
}

func NewHomeImageService(store HomeImageStore, users UserLookup, blobs BlobRemover) *HomeImageService {
	s := &HomeImageService{store: store, users: users, blobs: blobs, now: time.Now}
	s.order.now = func() time.Time { return s.now() }
	return s
}

// orderSequence hands out creation-time orders in milliseconds. Values never
// repeat within a process, so images created in the same millisecond still
// sort in creation order.
type orderSequence struct {
	last atomic.Int64
	now  func() time.Time
}

func (o *orderSequence) next() int64 {
	for {
		last := o.last.Load()
		n := o.now().UnixMilli()
		if n <= last {
			n = last + 1
		}
		if o.last.CompareAndSwap(last, n) {
			return n
		}
	}
}

func (s *HomeImageService) List(ctx context.Context, vis Visibility) ([]models.HomeImage, error) {
	images, err := s.store.List(ctx, vis.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("list home images: %w", err)
	}
	return images, nil
}

func (s *HomeImageService) Get(ctx context.Context, id string) (*models.HomeImage, error) {
	return s.store.Get(ctx, id)
}

// Create persists a home image for an already uploaded blob. An order of 0
// (or none) is replaced by the creation time in milliseconds.
func (s *HomeImageService) Create(ctx context.Context, in models.HomeImageInput, image *blob.Ref, createdBy string) (created *models.HomeImage, err error) {
	defer func() {
		if err != nil {
			discardBlob(ctx, s.blobs, uploadedID(image), "home image create failed")
		}
	}()

	if image == nil || image.URL == "" || image.PublicID == "" {
		return nil, invalid("image", "Please upload an image")
	}

	creator, err := s.resolveCreator(ctx, createdBy)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := &models.HomeImage{
		Image:     imageRef(image),
		IsActive:  true,
		CreatedBy: creator,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyHomeImageText(doc, in); err != nil {
		return nil, err
	}
	if in.Order != nil {
		doc.Order = *in.Order
	}
	if doc.Order == 0 {
		doc.Order = s.order.next()
	}

	if err := s.store.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create home image: %w", err)
	}

	populated, err := s.store.Get(ctx, doc.ID.Hex())
	if err != nil {
		logger.Warn("Failed to load created home image", "id", doc.ID.Hex(), "error", err)
		return doc, nil
	}
	return populated, nil
}

// Update applies the present fields. The previous blob is removed only after a
// replacement image has been saved.
func (s *HomeImageService) Update(ctx context.Context, id string, in models.HomeImageInput, image *blob.Ref) (updated *models.HomeImage, err error) {
	defer func() {
		if err != nil {
			discardBlob(ctx, s.blobs, uploadedID(image), "home image update failed")
		}
	}()

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := doc.Image

	if err := applyHomeImageText(doc, in); err != nil {
		return nil, err
	}
	if in.Order != nil {
		doc.Order = *in.Order
	}
	if in.IsActive != nil {
		doc.IsActive = *in.IsActive
	}
	if image != nil {
		doc.Image = imageRef(image)
	}
	doc.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update home image: %w", err)
	}

	if image != nil && previous.PublicID != image.PublicID {
		discardImage(ctx, s.blobs, previous, "home image replaced")
	}
	return doc, nil
}

// Delete removes the document even when its blob cannot be deleted.
func (s *HomeImageService) Delete(ctx context.Context, id string) error {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	discardImage(ctx, s.blobs, doc.Image, "home image deleted")

	if err := s.store.Delete(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete home image: %w", err)
	}
	return nil
}

func (s *HomeImageService) resolveCreator(ctx context.Context, createdBy string) (primitive.ObjectID, error) {
	oid, err := database.ParseID(createdBy)
	if err != nil {
		return primitive.NilObjectID, invalid("createdBy", "Creator must be a valid user id")
	}
	if s.users == nil {
		return oid, nil
	}

	ok, err := s.users.Exists(ctx, oid)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("look up creator: %w", err)
	}
	if !ok {
		return primitive.NilObjectID, invalid("createdBy", "Creator does not exist")
	}
	return oid, nil
}

func applyHomeImageText(doc *models.HomeImage, in models.HomeImageInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if utf8.RuneCountInString(title) > models.HomeImageTitleMax {
			return invalid("title", "Title cannot exceed %d characters", models.HomeImageTitleMax)
		}
		doc.Title = title
	}
	if in.Description != nil {
		if utf8.RuneCountInString(*in.Description) > models.HomeImageDescriptionMax {
			return invalid("description", "Description cannot exceed %d characters", models.HomeImageDescriptionMax)
		}
		doc.Description = *in.Description
	}
	return nil
}
