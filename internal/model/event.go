package model

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// EventKind tags the variant held by an Event.
type EventKind int

const (
	EventMint EventKind = iota + 1
	EventMetadataUpdate
)

func (k EventKind) String() string {
	switch k {
	case EventMint:
		return "mint"
	case EventMetadataUpdate:
		return "metadata_update"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// MintEvent is a transfer out of the zero address.
type MintEvent struct {
	From    common.Address
	To      common.Address
	TokenID uint256.Int
}

// MetadataUpdateEvent requests a reroll of a token's art.
type MetadataUpdateEvent struct {
	TokenID uint256.Int
}

// Event is a decoded log. Exactly one payload is set and it matches Kind.
type Event struct {
	Kind           EventKind
	Mint           *MintEvent
	MetadataUpdate *MetadataUpdateEvent
}

func NewMintEvent(ev MintEvent) Event {
	return Event{Kind: EventMint, Mint: &ev}
}

func NewMetadataUpdateEvent(ev MetadataUpdateEvent) Event {
	return Event{Kind: EventMetadataUpdate, MetadataUpdate: &ev}
}

// TokenID returns the token the event refers to.
func (e Event) TokenID() uint256.Int {
	switch e.Kind {
	case EventMint:
		return e.Mint.TokenID
	case EventMetadataUpdate:
		return e.MetadataUpdate.TokenID
	default:
		return uint256.Int{}
	}
}
