package model

// Attributes are the sampled traits of a token. Field order is the sampling order.
type Attributes struct {
	BgColor     string `json:"bg_color"`
	FrameColor  string `json:"frame_color"`
	CircleColor string `json:"circle_color"`
}

// Trait is a single metadata attribute entry.
type Trait struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Traits lists one Trait per Attributes field, in field order.
func (a Attributes) Traits() []Trait {
	return []Trait{
		{TraitType: "bg_color", Value: a.BgColor},
		{TraitType: "frame_color", Value: a.FrameColor},
		{TraitType: "circle_color", Value: a.CircleColor},
	}
}
