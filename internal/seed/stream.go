// Package seed provides the deterministic generator that all trait draws consume.
package seed

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20"
)

// Size is the length of a seed in bytes.
const Size = 32

const blockSize = 64

// Stream is a ChaCha20 keystream (key = seed, zero nonce, counter 0) read as
// consecutive little-endian 32-bit words. It is not safe for concurrent use.
type Stream struct {
	cipher *chacha20.Cipher
	block  [blockSize]byte
	pos    int
}

// New seeds a stream from 32 bytes.
func New(seed [Size]byte) (*Stream, error) {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("init chacha20: %w", err)
	}
	return &Stream{cipher: c, pos: blockSize}, nil
}

// Uint32 returns the next word of the stream.
func (s *Stream) Uint32() uint32 {
	if s.pos >= blockSize {
		var zero [blockSize]byte
		s.cipher.XORKeyStream(s.block[:], zero[:])
		s.pos = 0
	}
	v := binary.LittleEndian.Uint32(s.block[s.pos:])
	s.pos += 4
	return v
}

// ParseHex reads a seed from 64 hex digits, with or without a 0x prefix.
func ParseHex(input string) ([Size]byte, error) {
	var out [Size]byte
	s := strings.TrimPrefix(strings.TrimSpace(input), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("invalid seed: %w", err)
	}
	if len(raw) != Size {
		return out, fmt.Errorf("seed must be %d bytes, got %d", Size, len(raw))
	}
	copy(out[:], raw)
	return out, nil
}
