package indexer

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress validates a hex address. An empty input yields the zero address
// and ok=false.
func ParseAddress(input string) (common.Address, bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Address{}, false, nil
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, false, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), true, nil
}
