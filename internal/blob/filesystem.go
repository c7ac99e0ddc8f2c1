package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"speshway-platform/internal/logger"
)

// filesystem keeps blobs as files under basePath. Keys map directly to
// relative paths; the router serves basePath under the public URL prefix.
type filesystem struct {
	basePath  string
	publicURL string
}

func NewFilesystem(basePath, publicURL string) (Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("create base_path: %w", err)
	}

	return &filesystem{basePath: absPath, publicURL: publicURL}, nil
}

func (f *filesystem) Driver() string { return "filesystem" }

func (f *filesystem) Put(ctx context.Context, key, contentType string, data []byte) (Ref, error) {
	path, err := f.fullPath(key)
	if err != nil {
		return Ref{}, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Ref{}, fmt.Errorf("create directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return Ref{}, fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return Ref{}, fmt.Errorf("rename temp file: %w", err)
	}

	return Ref{URL: publicURL(f.publicURL, key), PublicID: key}, nil
}

// Delete is idempotent: a missing file is not an error. Emptied parent
// directories are pruned.
func (f *filesystem) Delete(ctx context.Context, publicID string) error {
	path, err := f.fullPath(publicID)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove file: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != f.basePath && strings.HasPrefix(dir, f.basePath) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			logger.Warn("failed to read directory for cleanup", "dir", dir, "error", err)
			return nil
		}
		if len(entries) == 0 {
			if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("failed to remove empty directory", "dir", dir, "error", err)
			}
		}
	}

	return nil
}

func (f *filesystem) fullPath(key string) (string, error) {
	if !validKey(key) {
		return "", ErrInvalidKey
	}

	full := filepath.Join(f.basePath, filepath.FromSlash(key))
	if !strings.HasPrefix(full, f.basePath+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return full, nil
}
