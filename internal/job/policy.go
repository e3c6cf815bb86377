package job

import (
	"fmt"
	"strings"
)

// Reroll policy names accepted by PolicyByName.
const (
	PolicyDocumented = "documented"
	PolicyLegacy     = "legacy"
)

// RerollFailCutoff splits the first seed byte: 51 of 256 values is about 20%.
const RerollFailCutoff = 51

// RerollPolicy decides from one seed byte whether a reroll fails and the token
// is finalized instead of regenerated.
type RerollPolicy func(b byte) bool

// RerollFailed makes failure the rare branch (~19.9%).
func RerollFailed(b byte) bool {
	return b < RerollFailCutoff
}

// LegacyRerollFailed is the historic comparison, failing ~79.7% of rerolls.
// Use it only to reproduce decisions of a deployment that ran with it.
func LegacyRerollFailed(b byte) bool {
	return b > RerollFailCutoff
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (RerollPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyDocumented:
		return RerollFailed, nil
	case PolicyLegacy:
		return LegacyRerollFailed, nil
	default:
		return nil, fmt.Errorf("unknown reroll policy: %s", name)
	}
}
