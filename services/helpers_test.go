package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"speshway-platform/internal/blob"
)

var errStoreDown = errors.New("store down")

// recordingBlobs remembers which public ids were deleted and can be told to fail.
type recordingBlobs struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (r *recordingBlobs) Delete(ctx context.Context, publicID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, publicID)
	return r.err
}

func (r *recordingBlobs) wasDeleted(publicID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.deleted {
		if id == publicID {
			return true
		}
	}
	return false
}

func ref(id string) *blob.Ref {
	return &blob.Ref{URL: "https://cdn.example.com/" + id, PublicID: id}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
