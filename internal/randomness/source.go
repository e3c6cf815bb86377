// Package randomness supplies fresh seeds for generation jobs.
package randomness

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// ErrShortRead is returned when the entropy source does not yield a full seed.
var ErrShortRead = errors.New("random source returned a short payload")

// Source reads 32-byte seeds from an entropy reader.
type Source struct {
	reader io.Reader
}

// NewSource reads from the operating system CSPRNG.
func NewSource() *Source {
	return &Source{reader: rand.Reader}
}

// NewSourceFromReader reads seeds from r.
func NewSourceFromReader(r io.Reader) *Source {
	return &Source{reader: r}
}

// RandomBytes returns 32 fresh bytes. Errors are never replaced by a fixed seed.
func (s *Source) RandomBytes(ctx context.Context) ([32]byte, error) {
	var out [32]byte
	if err := ctx.Err(); err != nil {
		return out, err
	}
	if s == nil || s.reader == nil {
		return out, fmt.Errorf("random source is not configured")
	}
	n, err := io.ReadFull(s.reader, out[:])
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return [32]byte{}, fmt.Errorf("%w: got %d bytes", ErrShortRead, n)
		}
		return [32]byte{}, fmt.Errorf("read random bytes: %w", err)
	}
	return out, nil
}
