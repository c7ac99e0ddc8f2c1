package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"speshway-platform/models"
)

type SentenceStore interface {
	List(ctx context.Context) ([]models.Sentence, error)
	Get(ctx context.Context, id string) (*models.Sentence, error)
	Create(ctx context.Context, sentence *models.Sentence) error
	Update(ctx context.Context, sentence *models.Sentence) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type SentenceService struct {
	store SentenceStore
	now   func() time.Time
}

func NewSentenceService(store SentenceStore) *SentenceService {
	return &SentenceService{store: store, now: time.Now}
}

// List returns every sentence, most recently recorded first. Sentences have no
// active flag so there is nothing to hide.
func (s *SentenceService) List(ctx context.Context) ([]models.Sentence, error) {
	sentences, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sentences: %w", err)
	}
	return sentences, nil
}

func (s *SentenceService) Get(ctx context.Context, id string) (*models.Sentence, error) {
	return s.store.Get(ctx, id)
}

// Create records a sentence. userAgent comes from the submitting request.
func (s *SentenceService) Create(ctx context.Context, req models.CreateSentenceRequest, userAgent string) (*models.Sentence, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, invalid("text", "Sentence text is required")
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return nil, invalid("url", "Page URL is required")
	}

	now := s.now().UTC()
	sentence := &models.Sentence{
		Text:       text,
		URL:        url,
		Timestamp:  now,
		UserAgent:  userAgent,
		RecordedAt: now,
	}
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		sentence.Timestamp = req.Timestamp.UTC()
	}

	if err := s.store.Create(ctx, sentence); err != nil {
		return nil, fmt.Errorf("create sentence: %w", err)
	}
	return sentence, nil
}

func (s *SentenceService) Update(ctx context.Context, id string, req models.UpdateSentenceRequest) (*models.Sentence, error) {
	sentence, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, invalid("text", "Sentence text is required")
		}
		sentence.Text = text
	}
	if req.URL != nil {
		url := strings.TrimSpace(*req.URL)
		if url == "" {
			return nil, invalid("url", "Page URL is required")
		}
		sentence.URL = url
	}
	if req.Timestamp != nil {
		sentence.Timestamp = req.Timestamp.UTC()
	}
	if req.UserAgent != nil {
		sentence.UserAgent = *req.UserAgent
	}

	if err := s.store.Update(ctx, sentence); err != nil {
		return nil, fmt.Errorf("update sentence: %w", err)
	}
	return sentence, nil
}

func (s *SentenceService) Delete(ctx context.Context, id string) error {
	sentence, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sentence.ID); err != nil {
		return fmt.Errorf("delete sentence: %w", err)
	}
	return nil
}
