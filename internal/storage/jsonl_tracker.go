package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"orbMint/internal/model"
)

// JSONLTracker appends processed log sources to a JSONL file and keeps the set
// in memory for lookups.
type JSONLTracker struct {
	path string

	mu   sync.Mutex
	seen map[string]struct{}
}

// OpenJSONLTracker loads previously recorded sources from path, if it exists.
func OpenJSONLTracker(path string) (*JSONLTracker, error) {
	t := &JSONLTracker{path: path, seen: make(map[string]struct{})}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("open tracker: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var src model.LogSource
		if err := json.Unmarshal(line, &src); err != nil {
			return nil, fmt.Errorf("parse tracker line: %w", err)
		}
		t.seen[src.ID()] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan tracker: %w", err)
	}
	return t, nil
}

// RecordProcessed appends source to the file.
func (t *JSONLTracker) RecordProcessed(ctx context.Context, source model.LogSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[source.ID()]; ok {
		return nil
	}

	dir := filepath.Dir(t.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tracker dir: %w", err)
		}
	}
	file, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open tracker file: %w", err)
	}
	defer file.Close()

	line, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("marshal log source: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write log source: %w", err)
	}

	t.seen[source.ID()] = struct{}{}
	return nil
}

// IsProcessed reports whether source was recorded.
func (t *JSONLTracker) IsProcessed(ctx context.Context, source model.LogSource) (bool, error) {
	t.mu.Lock()
	_, ok := t.seen[source.ID()]
	t.mu.Unlock()
	return ok, nil
}
