// Package job runs the generation and reroll workflow for one log at a time.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"orbMint/internal/decoder"
	"orbMint/internal/metrics"
	"orbMint/internal/model"
	"orbMint/internal/render"
	"orbMint/internal/seed"
	"orbMint/internal/traits"
)

// Outcome is the branch a job completed with.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeMinted
	OutcomeRerolled
	OutcomeFinalized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMinted:
		return "minted"
	case OutcomeRerolled:
		return "rerolled"
	case OutcomeFinalized:
		return "finalized"
	default:
		return "none"
	}
}

// Config holds the values a processor embeds in generated metadata.
type Config struct {
	CollectionName string
	BaseURL        string
	LocalBaseURL   string
	RerollPolicy   RerollPolicy
}

// Deps are the collaborators a processor drives.
type Deps struct {
	Random    RandomSource
	Tracker   ProcessedTracker
	Store     AssetStore
	Submitter ResultSubmitter
	Endpoints EndpointResolver
	Sampler   *traits.Sampler
	Metrics   *metrics.Collector
}

// Processor executes jobs. It holds no per-token locks: concurrent jobs for the
// same token race on the asset keys and the last writer wins.
type Processor struct {
	cfg     Config
	deps    Deps
	logger  *zap.Logger
	reroll  RerollPolicy
	sampler *traits.Sampler
}

// NewProcessor validates the collaborators and builds a Processor.
func NewProcessor(cfg Config, deps Deps, logger *zap.Logger) (*Processor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Random == nil {
		return nil, fmt.Errorf("random source is nil")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("asset store is nil")
	}
	if deps.Submitter == nil {
		return nil, fmt.Errorf("result submitter is nil")
	}

	sampler := deps.Sampler
	if sampler == nil {
		var err error
		sampler, err = traits.NewDefaultSampler()
		if err != nil {
			return nil, fmt.Errorf("default sampler: %w", err)
		}
	}

	reroll := cfg.RerollPolicy
	if reroll == nil {
		reroll = RerollFailed
	}

	return &Processor{
		cfg:     cfg,
		deps:    deps,
		logger:  logger,
		reroll:  reroll,
		sampler: sampler,
	}, nil
}

// Handle processes a record identified by its own log source.
func (p *Processor) Handle(ctx context.Context, record model.LogRecord) error {
	_, err := p.Process(ctx, record.Source(), record)
	return err
}

// Process runs one job: record the log, decode it, fetch a seed, then mint or
// resolve the reroll. Steps run strictly in that order; a failure stops the job.
func (p *Processor) Process(ctx context.Context, source model.LogSource, record model.LogRecord) (Outcome, error) {
	logger := p.logger.With(
		zap.String("job_id", uuid.NewString()),
		zap.String("tx_hash", source.TxHash),
		zap.Uint64("log_index", source.LogIndex),
	)
	opts := render.Options{
		CollectionName: p.cfg.CollectionName,
		BaseURL:        p.baseURL(),
	}

	if p.deps.Tracker != nil {
		if err := p.deps.Tracker.RecordProcessed(ctx, source); err != nil {
			logger.Warn("record processed log failed", zap.Error(err))
		}
	}

	event, err := decoder.Decode(record)
	if err != nil {
		return p.fail(logger, stageErr(StageDecode, err))
	}
	tokenID := event.TokenID()
	logger = logger.With(
		zap.String("event", event.Kind.String()),
		zap.String("token_id", model.FormatTokenID(tokenID)),
	)

	seedBytes, err := p.deps.Random.RandomBytes(ctx)
	if err != nil {
		return p.fail(logger, stageErr(StageRandomness, fmt.Errorf("%w: %w", ErrRandomness, err)))
	}

	var outcome Outcome
	switch event.Kind {
	case model.EventMint:
		if err := p.generate(ctx, logger, tokenID, seedBytes, opts); err != nil {
			return p.fail(logger, err)
		}
		outcome = OutcomeMinted
	case model.EventMetadataUpdate:
		if p.reroll(seedBytes[0]) {
			if err := p.finalize(ctx, tokenID); err != nil {
				return p.fail(logger, err)
			}
			outcome = OutcomeFinalized
		} else {
			if err := p.generate(ctx, logger, tokenID, seedBytes, opts); err != nil {
				return p.fail(logger, err)
			}
			outcome = OutcomeRerolled
		}
	default:
		return p.fail(logger, stageErr(StageDecode, fmt.Errorf("unsupported event kind: %s", event.Kind)))
	}

	p.deps.Metrics.ObserveJob(event.Kind.String(), outcome.String())
	logger.Info("job complete", zap.String("outcome", outcome.String()))
	return outcome, nil
}

func (p *Processor) baseURL() string {
	if p.deps.Endpoints != nil && p.deps.Endpoints.IsLocal() {
		return p.cfg.LocalBaseURL
	}
	return p.cfg.BaseURL
}

func (p *Processor) generate(ctx context.Context, logger *zap.Logger, tokenID uint256.Int, seedBytes [32]byte, opts render.Options) error {
	start := time.Now()

	stream, err := seed.New(seedBytes)
	if err != nil {
		return stageErr(StageGenerate, err)
	}
	attrs := p.sampler.GenerateAttributes(stream)

	assets, err := render.Compose(tokenID, attrs, opts)
	if err != nil {
		return stageErr(StageGenerate, err)
	}
	p.deps.Metrics.ObserveGeneration(time.Since(start))

	keyed := assets.Keyed(tokenID)
	if batch, ok := p.deps.Store.(BatchStore); ok {
		if err := batch.StoreAssets(ctx, keyed); err != nil {
			return stageErr(StageStore, err)
		}
	} else {
		for _, ka := range keyed {
			if err := p.deps.Store.StoreAsset(ctx, ka.Key, ka.Asset); err != nil {
				return stageErr(StageStore, fmt.Errorf("store %s: %w", ka.Key, err))
			}
		}
	}

	logger.Info("assets generated",
		zap.String("bg_color", attrs.BgColor),
		zap.String("frame_color", attrs.FrameColor),
		zap.String("circle_color", attrs.CircleColor),
		zap.String("image", render.BuildURL(opts.BaseURL, tokenID, "png")),
	)
	return nil
}

func (p *Processor) finalize(ctx context.Context, tokenID uint256.Int) error {
	for _, key := range model.AssetKeys(tokenID) {
		if err := p.deps.Store.RemoveAsset(ctx, key); err != nil {
			return stageErr(StageRemove, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	if err := p.deps.Submitter.SubmitResult(ctx, tokenID); err != nil {
		return stageErr(StageSubmit, err)
	}
	return nil
}

func (p *Processor) fail(logger *zap.Logger, err error) (Outcome, error) {
	stage := StageOf(err)
	p.deps.Metrics.ObserveError(stage)
	logger.Error("job failed", zap.String("stage", stage), zap.Error(err))
	return OutcomeNone, err
}
