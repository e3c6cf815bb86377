package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"orbMint/internal/model"
)

const headersDir = ".headers"

// FileStore keeps asset bodies as files under a root directory, with headers in
// a JSON sidecar per key.
type FileStore struct {
	basePath string
}

// NewFileStore creates the root directory if needed.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(filepath.Join(basePath, headersDir), 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// StoreAsset writes body and headers, replacing any previous asset.
func (s *FileStore) StoreAsset(ctx context.Context, key string, asset model.Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bodyPath, headerPath, err := s.paths(key)
	if err != nil {
		return err
	}

	headers, err := json.Marshal(asset.Headers)
	if err != nil {
		return fmt.Errorf("storage: marshal headers: %w", err)
	}
	if err := writeAtomic(headerPath, headers); err != nil {
		return err
	}
	return writeAtomic(bodyPath, asset.Body)
}

// RemoveAsset deletes an asset. Removing a missing key is not an error.
func (s *FileStore) RemoveAsset(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	bodyPath, headerPath, err := s.paths(key)
	if err != nil {
		return err
	}
	for _, p := range []string{bodyPath, headerPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("storage: remove %s: %w", key, err)
		}
	}
	return nil
}

// LoadAsset reads an asset back.
func (s *FileStore) LoadAsset(ctx context.Context, key string) (model.Asset, error) {
	if err := ctx.Err(); err != nil {
		return model.Asset{}, err
	}
	bodyPath, headerPath, err := s.paths(key)
	if err != nil {
		return model.Asset{}, err
	}

	body, err := os.ReadFile(bodyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Asset{}, ErrNotFound
		}
		return model.Asset{}, fmt.Errorf("storage: read %s: %w", key, err)
	}

	var headers []model.Header
	data, err := os.ReadFile(headerPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &headers); err != nil {
			return model.Asset{}, fmt.Errorf("storage: parse headers %s: %w", key, err)
		}
	case !os.IsNotExist(err):
		return model.Asset{}, fmt.Errorf("storage: read headers %s: %w", key, err)
	}

	return model.Asset{Headers: headers, Body: body}, nil
}

func (s *FileStore) paths(key string) (string, string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", "", err
	}
	if cleanKey == headersDir || strings.HasPrefix(cleanKey, headersDir+"/") {
		return "", "", errors.New("storage: invalid key")
	}
	bodyPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	headerPath := filepath.Join(s.basePath, headersDir, filepath.FromSlash(cleanKey)+".json")
	return bodyPath, headerPath, nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage: ensure directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	return nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
