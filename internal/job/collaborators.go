package job

import (
	"context"

	"github.com/holiman/uint256"

	"orbMint/internal/model"
)

// RandomSource supplies fresh unpredictable seeds.
type RandomSource interface {
	RandomBytes(ctx context.Context) ([32]byte, error)
}

// ProcessedTracker records which logs have been handed to a job.
type ProcessedTracker interface {
	RecordProcessed(ctx context.Context, source model.LogSource) error
}

// AssetStore persists assets by key.
type AssetStore interface {
	StoreAsset(ctx context.Context, key string, asset model.Asset) error
	RemoveAsset(ctx context.Context, key string) error
}

// BatchStore is implemented by stores that can write a full asset set atomically.
type BatchStore interface {
	StoreAssets(ctx context.Context, assets []model.KeyedAsset) error
}

// ResultSubmitter finalizes a token on the ledger.
type ResultSubmitter interface {
	SubmitResult(ctx context.Context, tokenID uint256.Int) error
}

// EndpointResolver reports whether the active RPC endpoints are local.
type EndpointResolver interface {
	IsLocal() bool
}
