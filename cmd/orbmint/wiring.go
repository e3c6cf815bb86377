package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"orbMint/internal/chain"
	"orbMint/internal/config"
	"orbMint/internal/indexer"
	"orbMint/internal/job"
	"orbMint/internal/ledger"
	"orbMint/internal/metrics"
	"orbMint/internal/randomness"
	"orbMint/internal/storage"
	"orbMint/internal/storage/postgres"
	"orbMint/internal/storage/sqlite"
)

type assetBackend interface {
	job.AssetStore
	storage.AssetReader
}

type trackerBackend interface {
	job.ProcessedTracker
	storage.ProcessedLookup
}

// backend is an opened asset store plus, for database stores, its tracker.
type backend struct {
	assets  assetBackend
	tracker trackerBackend
	close   func()
}

func openBackend(ctx context.Context, cfg config.StoreConfig) (*backend, error) {
	switch cfg.Kind {
	case config.StoreFS:
		store, err := storage.NewFileStore(cfg.AssetDir)
		if err != nil {
			return nil, err
		}
		return &backend{assets: store, close: func() {}}, nil
	case config.StorePostgres:
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return &backend{assets: store, tracker: store, close: store.Close}, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return &backend{assets: store, tracker: store, close: func() { _ = store.Close() }}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Kind)
	}
}

// jobRuntime holds everything a job-running command needs.
type jobRuntime struct {
	processor *job.Processor
	chain     *chain.Client
	backend   *backend
	tracker   trackerBackend
	contract  common.Address
	metrics   *metrics.Collector
}

func (r *jobRuntime) Close() {
	if r.chain != nil {
		r.chain.Close()
	}
	if r.backend != nil {
		r.backend.close()
	}
}

func newJobRuntime(ctx context.Context, cfg config.JobConfig, logger *zap.Logger) (*jobRuntime, error) {
	if cfg.PrimaryRPC() == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	contract, ok, err := indexer.ParseAddress(cfg.Contract)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("contract address is required")
	}
	sender, ok, err := indexer.ParseAddress(cfg.Sender)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("sender address is required")
	}
	policy, err := job.PolicyByName(cfg.RerollPolicy)
	if err != nil {
		return nil, err
	}

	rt := &jobRuntime{contract: contract, metrics: metrics.NewCollector()}

	rt.chain, err = chain.NewClient(ctx, cfg.PrimaryRPC())
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	rt.backend, err = openBackend(ctx, cfg.Store)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.tracker = rt.backend.tracker
	if cfg.Tracker != "" {
		jsonlTracker, err := storage.OpenJSONLTracker(cfg.Tracker)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.tracker = jsonlTracker
	}

	submitter, err := ledger.NewSubmitter(rt.chain, sender, contract, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	deps := job.Deps{
		Random:    randomness.NewSource(),
		Store:     rt.backend.assets,
		Submitter: submitter,
		Endpoints: cfg.Endpoints(),
		Metrics:   rt.metrics,
	}
	if rt.tracker != nil {
		deps.Tracker = rt.tracker
	}

	rt.processor, err = job.NewProcessor(job.Config{
		CollectionName: cfg.CollectionName,
		BaseURL:        cfg.AssetBaseURL,
		LocalBaseURL:   cfg.LocalAssetBaseURL,
		RerollPolicy:   policy,
	}, deps, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	return rt, nil
}
