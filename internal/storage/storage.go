// Package storage holds asset stores and processed-log trackers.
package storage

import (
	"context"
	"errors"

	"orbMint/internal/model"
)

// ErrNotFound is returned when an asset key is not stored.
var ErrNotFound = errors.New("asset not found")

// AssetReader loads stored assets for serving.
type AssetReader interface {
	LoadAsset(ctx context.Context, key string) (model.Asset, error)
}

// ProcessedLookup reports whether a log was already handed to a job.
type ProcessedLookup interface {
	IsProcessed(ctx context.Context, source model.LogSource) (bool, error)
}
