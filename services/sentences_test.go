package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"speshway-platform/internal/memstore"
	"speshway-platform/models"
)

func TestSentenceCreateDefaults(t *testing.T) {
	svc := NewSentenceService(memstore.NewSentences())
	now := time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	s, err := svc.Create(context.Background(), models.CreateSentenceRequest{
		Text: "  The quick brown fox jumps.  ",
		URL:  "https://example.com/a",
	}, "Mozilla/5.0")
	if err != nil {
		t.Fatal(err)
	}
	if s.Text != "The quick brown fox jumps." {
		t.Errorf("Text = %q", s.Text)
	}
	if !s.Timestamp.Equal(now) || !s.RecordedAt.Equal(now) {
		t.Errorf("timestamps = %v / %v, want %v", s.Timestamp, s.RecordedAt, now)
	}
	if s.UserAgent != "Mozilla/5.0" {
		t.Errorf("UserAgent = %q", s.UserAgent)
	}
}

func TestSentenceCreateKeepsClientTimestamp(t *testing.T) {
	svc := NewSentenceService(memstore.NewSentences())
	sent := time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)

	s, err := svc.Create(context.Background(), models.CreateSentenceRequest{Text: "Hello there, world.", URL: "https://x", Timestamp: &sent}, "")
	if err != nil {
		t.Fatal(err)
	}
	if !s.Timestamp.Equal(sent) {
		t.Errorf("Timestamp = %v, want %v", s.Timestamp, sent)
	}
	if s.RecordedAt.Equal(sent) {
		t.Error("RecordedAt must be the server time")
	}
}

func TestSentenceCreateValidation(t *testing.T) {
	store := memstore.NewSentences()
	svc := NewSentenceService(store)

	for _, req := range []models.CreateSentenceRequest{
		{Text: " ", URL: "https://x"},
		{Text: "Some sentence here.", URL: ""},
	} {
		if _, err := svc.Create(context.Background(), req, ""); !IsValidation(err) {
			t.Errorf("Create(%+v) error = %v", req, err)
		}
	}
	if store.Len() != 0 {
		t.Error("invalid sentence persisted")
	}
}

func TestSentenceListMostRecentFirst(t *testing.T) {
	svc := NewSentenceService(memstore.NewSentences())
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, text := range []string{"first sentence.", "second sentence.", "third sentence."} {
		svc.now = fixedClock(base.Add(time.Duration(i) * time.Second))
		if _, err := svc.Create(ctx, models.CreateSentenceRequest{Text: text, URL: "https://x"}, ""); err != nil {
			t.Fatal(err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Text != "third sentence." || list[2].Text != "first sentence." {
		t.Errorf("unexpected order: %+v", list)
	}
}

func TestSentenceUpdateAndDelete(t *testing.T) {
	svc := NewSentenceService(memstore.NewSentences())
	ctx := context.Background()

	s, _ := svc.Create(ctx, models.CreateSentenceRequest{Text: "Original sentence.", URL: "https://x"}, "ua")

	updated, err := svc.Update(ctx, s.ID.Hex(), models.UpdateSentenceRequest{Text: strPtr("Edited sentence.")})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Text != "Edited sentence." || updated.URL != "https://x" || updated.UserAgent != "ua" {
		t.Errorf("unexpected sentence: %+v", updated)
	}

	if _, err := svc.Update(ctx, s.ID.Hex(), models.UpdateSentenceRequest{URL: strPtr("")}); !IsValidation(err) {
		t.Errorf("blank url error = %v", err)
	}

	if err := svc.Delete(ctx, s.ID.Hex()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, s.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v", err)
	}
}
