package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"orbMint/internal/config"
	"orbMint/internal/job"
	"orbMint/internal/model"
)

func runReplay(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Errors == "" {
		return fmt.Errorf("errors path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newJobRuntime(ctx, cfg.Job, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	inputFile, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer inputFile.Close()

	errWriter, err := newJSONLWriter(cfg.Errors, false)
	if err != nil {
		return err
	}
	defer errWriter.Close()

	logger.Info("replay start",
		zap.String("in", cfg.In),
		zap.String("errors", cfg.Errors),
		zap.String("store", cfg.Job.Store.Kind),
	)

	stats, err := replayRecords(ctx, inputFile, rt.processor, errWriter)
	if err != nil {
		return err
	}

	logger.Info("replay complete",
		zap.Int("total", stats.total),
		zap.Int("succeeded", stats.succeeded),
		zap.Int("failed", stats.failed),
	)
	return nil
}

type recordProcessor interface {
	Process(ctx context.Context, source model.LogSource, record model.LogRecord) (job.Outcome, error)
}

type replayStats struct {
	total, succeeded, failed int
}

// replayRecords runs one job per JSONL line. Failed jobs are written to errWriter
// and do not stop the replay.
func replayRecords(ctx context.Context, in *os.File, processor recordProcessor, errWriter *jsonlWriter) (replayStats, error) {
	var stats replayStats

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.total++

		var record model.LogRecord
		if err := json.Unmarshal(line, &record); err != nil {
			stats.failed++
			writeJobError(errWriter, model.JobError{Stage: job.StageDecode, Error: err.Error()})
			continue
		}

		if _, err := processor.Process(ctx, record.Source(), record); err != nil {
			if errors.Is(err, context.Canceled) {
				return stats, err
			}
			stats.failed++
			writeJobError(errWriter, jobErrorFromRecord(record, err))
			continue
		}
		stats.succeeded++
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan input: %w", err)
	}
	return stats, nil
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newJSONLWriter(path string, appendMode bool) (*jsonlWriter, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	line = append(line, '\n')
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil {
		return nil
	}
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func jobErrorFromRecord(record model.LogRecord, err error) model.JobError {
	topic0 := ""
	if len(record.Topics) > 0 {
		topic0 = record.Topics[0]
	}

	return model.JobError{
		ChainID:     record.ChainID,
		BlockNumber: record.BlockNumber,
		TxHash:      record.TxHash,
		LogIndex:    record.LogIndex,
		Address:     record.Address,
		Topic0:      topic0,
		Stage:       job.StageOf(err),
		Error:       err.Error(),
	}
}

func writeJobError(writer *jsonlWriter, errRecord model.JobError) {
	if writer == nil {
		return
	}
	_ = writer.Write(errRecord)
}
