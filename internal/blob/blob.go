// Package blob stores uploaded images by key on an external host and hands
// back the public URL plus the key needed to delete them later.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"speshway-platform/internal/config"
)

var (
	ErrInvalidKey  = errors.New("invalid blob key")
	ErrUnavailable = errors.New("blob store unavailable")
)

// Ref identifies a stored blob. PublicID is what Delete expects.
type Ref struct {
	URL      string
	PublicID string
}

type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (Ref, error)
	Delete(ctx context.Context, publicID string) error
	Driver() string
}

// New builds the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3(ctx, cfg)
	case "filesystem":
		return NewFilesystem(cfg.BasePath, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unsupported blob driver %q", cfg.Driver)
	}
}

// NewKey returns a unique key under folder, e.g. "speshway/banners/<uuid>.png".
func NewKey(folder, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(folder, uuid.NewString()+strings.ToLower(ext))
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	cleaned := path.Clean(key)
	return cleaned == key && cleaned != "." && !strings.HasPrefix(cleaned, "..")
}
