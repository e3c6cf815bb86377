// Package decoder turns raw collection logs into typed events.
package decoder

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"orbMint/internal/model"
)

// TransferTopic is keccak256("Transfer(address,address,uint256)").
const TransferTopic = "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef"

// ErrDecode marks a log that does not match the subscribed event shapes.
var ErrDecode = errors.New("decode log")

var (
	// MetadataUpdateTopic is the ERC-4906 MetadataUpdate(uint256) signature.
	MetadataUpdateTopic = crypto.Keccak256Hash([]byte("MetadataUpdate(uint256)"))
	// ZeroAddressTopic matches a transfer whose sender is the zero address.
	ZeroAddressTopic = common.Hash{}
)

// Decode classifies a log by topic0 and extracts its payload. Every record with a
// topic0 maps to exactly one variant: the transfer signature yields a mint, anything
// else a metadata update.
func Decode(record model.LogRecord) (model.Event, error) {
	if len(record.Topics) == 0 {
		return model.Event{}, fmt.Errorf("%w: missing topic0", ErrDecode)
	}

	if IsTransfer(record.Topics[0]) {
		mint, err := decodeMint(record.Topics)
		if err != nil {
			return model.Event{}, err
		}
		return model.NewMintEvent(mint), nil
	}

	tokenID, err := ParseTokenID(record.Data)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: data: %v", ErrDecode, err)
	}
	return model.NewMetadataUpdateEvent(model.MetadataUpdateEvent{TokenID: tokenID}), nil
}

// IsTransfer reports whether topic0 is the transfer signature.
func IsTransfer(topic0 string) bool {
	return strings.EqualFold(strings.TrimSpace(topic0), TransferTopic)
}

func decodeMint(topics []string) (model.MintEvent, error) {
	if len(topics) != 4 {
		return model.MintEvent{}, fmt.Errorf("%w: transfer expects 4 topics, got %d", ErrDecode, len(topics))
	}

	from, err := addressFromTopic(topics[1])
	if err != nil {
		return model.MintEvent{}, fmt.Errorf("%w: from topic: %v", ErrDecode, err)
	}
	to, err := addressFromTopic(topics[2])
	if err != nil {
		return model.MintEvent{}, fmt.Errorf("%w: to topic: %v", ErrDecode, err)
	}
	tokenID, err := ParseTokenID(topics[3])
	if err != nil {
		return model.MintEvent{}, fmt.Errorf("%w: token id topic: %v", ErrDecode, err)
	}

	return model.MintEvent{
		From:    from,
		To:      to,
		TokenID: tokenID,
	}, nil
}

// addressFromTopic reads the address held in the trailing 40 hex digits of a topic.
func addressFromTopic(topic string) (common.Address, error) {
	topic = strings.TrimSpace(topic)
	if len(topic) < 2*common.AddressLength {
		return common.Address{}, fmt.Errorf("topic too short: %q", topic)
	}
	tail := topic[len(topic)-2*common.AddressLength:]
	if !common.IsHexAddress(tail) {
		return common.Address{}, fmt.Errorf("invalid address: %s", tail)
	}
	return common.HexToAddress(tail), nil
}

// ParseTokenID parses a base-16 unsigned integer of at most 256 bits. The 0x
// prefix is optional and leading zeros are allowed, as in padded topics.
func ParseTokenID(input string) (uint256.Int, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return uint256.Int{}, fmt.Errorf("empty hex value")
	}

	value, ok := new(big.Int).SetString(s, 16)
	if !ok || value.Sign() < 0 {
		return uint256.Int{}, fmt.Errorf("invalid hex value: %q", input)
	}
	id, overflow := uint256.FromBig(value)
	if overflow {
		return uint256.Int{}, fmt.Errorf("value exceeds 256 bits: %q", input)
	}
	return *id, nil
}
