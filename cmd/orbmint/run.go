package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"orbMint/internal/config"
	"orbMint/internal/indexer"
	"orbMint/internal/server"
)

func runMinter(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newJobRuntime(ctx, cfg.Job, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	if cfg.HTTPAddr != "" {
		router := server.NewRouter(rt.backend.assets, rt.metrics, logger)
		go func() {
			if err := serveHTTP(ctx, cfg.HTTPAddr, router, logger); err != nil {
				logger.Error("http server stopped", zap.Error(err))
			}
		}()
	}

	runner := indexer.NewRunner(indexer.RunConfig{
		FromBlock:         cfg.FromBlock,
		ToBlock:           cfg.ToBlock,
		Contract:          rt.contract,
		BatchSize:         cfg.BatchSize,
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
		MaxRetries:        cfg.MaxRetries,
		RetryBackoff:      cfg.RetryBackoff,
	}, rt.chain, rt.processor, rt.tracker, logger)

	logger.Info("minter start",
		zap.String("rpc", cfg.Job.PrimaryRPC()),
		zap.String("contract", rt.contract.Hex()),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.String("store", cfg.Job.Store.Kind),
		zap.String("reroll_policy", cfg.Job.RerollPolicy),
		zap.Bool("local_endpoint", cfg.Job.Endpoints().IsLocal()),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	return runner.Run(ctx)
}
