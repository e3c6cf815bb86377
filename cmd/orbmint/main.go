package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "orbmint",
		Short:        "Generative art minter for an on-chain collection",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the collection contract and run a job per mint or metadata update",
		RunE:  runMinter,
	}
	addJobFlags(runCmd)
	runCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	runCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	runCmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	runCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	runCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	runCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	runCmd.Flags().String("http-addr", "", "optional address to serve assets and metrics while running")
	root.AddCommand(runCmd)

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Run jobs for log records read from a JSONL file",
		RunE:  runReplay,
	}
	addJobFlags(replayCmd)
	replayCmd.Flags().String("in", "", "input log records JSONL")
	replayCmd.Flags().String("errors", "./data/job_errors.jsonl", "failed jobs JSONL")
	root.AddCommand(replayCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored assets over HTTP",
		RunE:  runServe,
	}
	addStoreFlags(serveCmd)
	serveCmd.Flags().String("http-addr", ":8080", "listen address")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(serveCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the assets of a token from a known seed",
		RunE:  runRender,
	}
	renderCmd.Flags().String("seed", "", "32-byte seed as hex")
	renderCmd.Flags().String("token-id", "", "token id (decimal or 0x hex)")
	renderCmd.Flags().String("out", "./data/render", "output directory")
	renderCmd.Flags().String("collection-name", "Chainfusion", "collection name used in metadata")
	renderCmd.Flags().String("asset-base-url", "http://localhost:8080", "base URL embedded in metadata")
	renderCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(renderCmd)

	return root
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "fs", "asset store (fs, postgres, sqlite)")
	cmd.Flags().String("asset-dir", "./data/assets", "asset directory for the fs store")
	cmd.Flags().String("pg-dsn", "", "Postgres DSN for the postgres store")
	cmd.Flags().String("sqlite-path", "./data/orbmint.db", "database file for the sqlite store")
}

func addJobFlags(cmd *cobra.Command) {
	addStoreFlags(cmd)
	cmd.Flags().StringSlice("rpc", nil, "RPC URLs (comma-separated, first is used)")
	cmd.Flags().String("contract", "", "collection contract address")
	cmd.Flags().String("sender", "", "node-managed account that submits results")
	cmd.Flags().String("tracker", "", "processed-log JSONL path (defaults to the database store when one is used)")
	cmd.Flags().String("asset-base-url", "http://localhost:8080", "base URL embedded in metadata")
	cmd.Flags().String("local-asset-base-url", "http://localhost:8080", "base URL used when the RPC endpoint is local")
	cmd.Flags().String("collection-name", "Chainfusion", "collection name used in metadata")
	cmd.Flags().String("reroll-policy", "documented", "reroll decision (documented, legacy)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
