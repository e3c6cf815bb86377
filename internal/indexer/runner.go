// Package indexer scans the collection contract for mint and metadata update
// logs and hands them to a job handler in chain order.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"orbMint/internal/decoder"
	"orbMint/internal/model"
	"orbMint/internal/storage"
)

// ChainReader is the subset of the chain client the runner needs.
type ChainReader interface {
	GetChainID(ctx context.Context) (*big.Int, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockTimestamp(ctx context.Context, number uint64) (uint64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topics [][]common.Hash) ([]types.Log, error)
}

// Handler runs one job per log.
type Handler interface {
	Handle(ctx context.Context, record model.LogRecord) error
}

// RunConfig holds runtime settings for the runner.
type RunConfig struct {
	FromBlock         uint64
	ToBlock           uint64
	Contract          common.Address
	BatchSize         uint64
	CheckpointPath    string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
}

// Filters returns the two topic filters scanned per range: transfers from the
// zero address, and metadata updates.
func Filters() [][][]common.Hash {
	transfer := common.HexToHash(decoder.TransferTopic)
	return [][][]common.Hash{
		{{transfer}, {decoder.ZeroAddressTopic}},
		{{decoder.MetadataUpdateTopic}},
	}
}

// Runner streams logs from the chain into a Handler.
type Runner struct {
	cfg        RunConfig
	chain      ChainReader
	handler    Handler
	processed  storage.ProcessedLookup
	logger     *zap.Logger
	retry      retryPolicy
	checkpoint *CheckpointStore
}

// NewRunner builds a Runner. processed may be nil, in which case every log in
// range is handled.
func NewRunner(cfg RunConfig, chainClient ChainReader, handler Handler, processed storage.ProcessedLookup, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:        cfg,
		chain:      chainClient,
		handler:    handler,
		processed:  processed,
		logger:     logger,
		retry:      newRetryPolicy(cfg.MaxRetries, cfg.RetryBackoff),
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled),
	}
}

// Run scans [FromBlock, ToBlock] (ToBlock 0 means the latest block). Job
// failures are logged and do not stop the scan; RPC and checkpoint failures do.
func (r *Runner) Run(ctx context.Context) error {
	if r.chain == nil {
		return fmt.Errorf("chain client is nil")
	}
	if r.handler == nil {
		return fmt.Errorf("handler is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if r.cfg.Contract == (common.Address{}) {
		return fmt.Errorf("contract address is required")
	}
	contract := r.cfg.Contract.Hex()

	chainID, err := r.chain.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	if !chainID.IsUint64() {
		return fmt.Errorf("chain id does not fit in uint64: %s", chainID)
	}
	chainIDValue := chainID.Uint64()

	from := r.cfg.FromBlock
	to := r.cfg.ToBlock
	if to == 0 {
		latest, err := r.chain.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
		to = latest
	}

	cp, ok, err := r.checkpoint.Load(contract)
	if err != nil {
		return err
	}
	if ok && cp.LastProcessedBlock >= from {
		from = cp.LastProcessedBlock + 1
		r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", cp.LastProcessedBlock), zap.Uint64("from", from))
	}

	if from > to {
		r.logger.Info("nothing to sync", zap.Uint64("from", from), zap.Uint64("to", to))
		return nil
	}

	ranges, err := SplitRange(from, to, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, blockRange := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}

		handled, skipped, err := r.runRange(ctx, chainIDValue, blockRange)
		if err != nil {
			return err
		}
		if err := r.checkpoint.Save(contract, blockRange.To); err != nil {
			return err
		}

		r.logger.Info("batch complete",
			zap.Int("handled", handled),
			zap.Int("skipped", skipped),
			zap.Uint64("from", blockRange.From),
			zap.Uint64("to", blockRange.To),
		)
	}

	return nil
}

func (r *Runner) runRange(ctx context.Context, chainID uint64, blockRange BlockRange) (int, int, error) {
	r.logger.Info("fetch logs", zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))

	filters := Filters()
	sets := make([][]types.Log, 0, len(filters))
	for _, topics := range filters {
		logs, err := r.filterLogsWithRetry(ctx, blockRange, topics)
		if err != nil {
			return 0, 0, fmt.Errorf("filter logs: %w", err)
		}
		sets = append(sets, logs)
	}

	ingestedAt := time.Now().UTC()
	handled, skipped := 0, 0
	for _, log := range mergeLogs(sets...) {
		if log.Removed {
			skipped++
			continue
		}

		ts, err := r.blockTimestampWithRetry(ctx, log.BlockNumber)
		if err != nil {
			return handled, skipped, fmt.Errorf("block timestamp %d: %w", log.BlockNumber, err)
		}
		record := buildLogRecord(chainID, log, ts, ingestedAt)

		done, err := r.isProcessed(ctx, record.Source())
		if err != nil {
			return handled, skipped, err
		}
		if done {
			skipped++
			continue
		}

		if err := r.handler.Handle(ctx, record); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return handled, skipped, err
			}
			r.logger.Warn("job failed",
				zap.Error(err),
				zap.String("tx_hash", record.TxHash),
				zap.Uint64("log_index", record.LogIndex),
			)
		}
		handled++
	}
	return handled, skipped, nil
}

func (r *Runner) isProcessed(ctx context.Context, source model.LogSource) (bool, error) {
	if r.processed == nil {
		return false, nil
	}
	done, err := r.processed.IsProcessed(ctx, source)
	if err != nil {
		return false, fmt.Errorf("processed lookup: %w", err)
	}
	return done, nil
}

func (r *Runner) filterLogsWithRetry(ctx context.Context, blockRange BlockRange, topics [][]common.Hash) ([]types.Log, error) {
	var logs []types.Log
	addresses := []common.Address{r.cfg.Contract}
	err := r.retry.do(ctx, func(ctx context.Context) error {
		var err error
		logs, err = r.chain.FilterLogs(ctx, blockRange.From, blockRange.To, addresses, topics)
		if err != nil {
			r.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))
		}
		return err
	})
	return logs, err
}

func (r *Runner) blockTimestampWithRetry(ctx context.Context, blockNumber uint64) (uint64, error) {
	var ts uint64
	err := r.retry.do(ctx, func(ctx context.Context) error {
		var err error
		ts, err = r.chain.BlockTimestamp(ctx, blockNumber)
		if err != nil {
			r.logger.Warn("block timestamp fetch failed", zap.Error(err), zap.Uint64("block_number", blockNumber))
		}
		return err
	})
	return ts, err
}
