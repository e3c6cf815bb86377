package traits

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrNoWeights      = errors.New("weight list is empty")
	ErrAllWeightsZero = errors.New("all weights are zero")
	ErrWeightOverflow = errors.New("total weight overflows uint32")
)

// Source yields uniformly distributed 32-bit words.
type Source interface {
	Uint32() uint32
}

// WeightedIndex samples an index with probability proportional to its weight.
type WeightedIndex struct {
	cumulative []uint32
	total      uint32
	zone       uint32
}

// NewWeightedIndex builds the cumulative distribution for weights.
func NewWeightedIndex(weights []uint32) (*WeightedIndex, error) {
	if len(weights) == 0 {
		return nil, ErrNoWeights
	}

	cumulative := make([]uint32, len(weights))
	var total uint32
	for i, w := range weights {
		if w > math.MaxUint32-total {
			return nil, fmt.Errorf("%w at index %d", ErrWeightOverflow, i)
		}
		total += w
		cumulative[i] = total
	}
	if total == 0 {
		return nil, ErrAllWeightsZero
	}

	reject := (math.MaxUint32 - total + 1) % total
	return &WeightedIndex{
		cumulative: cumulative,
		total:      total,
		zone:       math.MaxUint32 - reject,
	}, nil
}

// Len is the number of candidates.
func (w *WeightedIndex) Len() int {
	return len(w.cumulative)
}

// Sample draws one index from src.
func (w *WeightedIndex) Sample(src Source) int {
	chosen := w.uniform(src)
	return sort.Search(len(w.cumulative), func(i int) bool {
		return w.cumulative[i] > chosen
	})
}

// uniform returns a value in [0, total) by widening multiply, rejecting the
// low words that would bias the result.
func (w *WeightedIndex) uniform(src Source) uint32 {
	for {
		product := uint64(src.Uint32()) * uint64(w.total)
		hi, lo := uint32(product>>32), uint32(product)
		if lo <= w.zone {
			return hi
		}
	}
}
