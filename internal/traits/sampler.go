// Package traits samples token attributes from a seeded stream.
package traits

import (
	"fmt"

	"orbMint/internal/model"
)

// Sampler draws trait values from a fixed candidate list with static weights.
type Sampler struct {
	values []string
	index  *WeightedIndex
}

// NewSampler validates the table and builds its distribution.
func NewSampler(values []string, weights []uint32) (*Sampler, error) {
	if len(values) != len(weights) {
		return nil, fmt.Errorf("values and weights differ in length: %d != %d", len(values), len(weights))
	}
	index, err := NewWeightedIndex(weights)
	if err != nil {
		return nil, fmt.Errorf("build distribution: %w", err)
	}
	return &Sampler{values: values, index: index}, nil
}

// NewDefaultSampler uses the built-in color palette.
func NewDefaultSampler() (*Sampler, error) {
	return NewSampler(PaletteColors(), PaletteWeights())
}

// Pick draws one value.
func (s *Sampler) Pick(src Source) string {
	return s.values[s.index.Sample(src)]
}

// GenerateAttributes draws background, frame and circle colors, in that order,
// from the same source. Reordering the draws changes every result for a seed.
func (s *Sampler) GenerateAttributes(src Source) model.Attributes {
	bg := s.Pick(src)
	frame := s.Pick(src)
	circle := s.Pick(src)
	return model.Attributes{
		BgColor:     bg,
		FrameColor:  frame,
		CircleColor: circle,
	}
}
