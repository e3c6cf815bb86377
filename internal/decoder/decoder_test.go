package decoder

import (
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"orbMint/internal/model"
)

func TestTransferTopicMatchesSignature(t *testing.T) {
	want := crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)")).Hex()
	if want != TransferTopic {
		t.Fatalf("transfer topic %s, want %s", TransferTopic, want)
	}
}

func TestDecodeMint(t *testing.T) {
	from := common.Address{}
	to := common.HexToAddress("0x3333333333333333333333333333333333333333")

	record := model.LogRecord{
		Topics: []string{
			TransferTopic,
			topicFromAddress(from),
			topicFromAddress(to),
			"0x2a",
		},
		Data: "0x",
	}

	event, err := Decode(record)
	if err != nil {
		t.Fatalf("decode mint: %v", err)
	}
	if event.Kind != model.EventMint || event.Mint == nil {
		t.Fatalf("expected mint variant, got %+v", event)
	}
	if event.Mint.TokenID.Uint64() != 42 {
		t.Fatalf("token id %s", model.FormatTokenID(event.Mint.TokenID))
	}
	if event.Mint.From != from || event.Mint.To != to {
		t.Fatalf("address mismatch: %s %s", event.Mint.From.Hex(), event.Mint.To.Hex())
	}
}

func TestDecodeMintUppercaseSignatureAndPaddedTokenID(t *testing.T) {
	to := common.HexToAddress("0xabcdefabcdefabcdefabcdefabcdefabcdefabcd")
	record := model.LogRecord{
		Topics: []string{
			"0x" + strings.ToUpper(TransferTopic[2:]),
			ZeroAddressTopic.Hex(),
			topicFromAddress(to),
			common.BigToHash(uint256.NewInt(1000).ToBig()).Hex(),
		},
	}

	event, err := Decode(record)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Kind != model.EventMint {
		t.Fatalf("expected mint, got %s", event.Kind)
	}
	if event.Mint.TokenID.Uint64() != 1000 {
		t.Fatalf("token id %d", event.Mint.TokenID.Uint64())
	}
	if event.Mint.To != to {
		t.Fatalf("to mismatch: %s", event.Mint.To.Hex())
	}
}

func TestDecodeMetadataUpdate(t *testing.T) {
	record := model.LogRecord{
		Topics: []string{MetadataUpdateTopic.Hex()},
		Data:   common.BigToHash(uint256.NewInt(77).ToBig()).Hex(),
	}

	event, err := Decode(record)
	if err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if event.Kind != model.EventMetadataUpdate || event.MetadataUpdate == nil {
		t.Fatalf("expected metadata update variant, got %+v", event)
	}
	if event.MetadataUpdate.TokenID.Uint64() != 77 {
		t.Fatalf("token id %d", event.MetadataUpdate.TokenID.Uint64())
	}
}

func TestDecodeClassifiesAnyOtherTopicAsUpdate(t *testing.T) {
	topics := []string{
		"0x0000000000000000000000000000000000000000000000000000000000000000",
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ee",
		"arbitrary",
	}
	for _, topic0 := range topics {
		event, err := Decode(model.LogRecord{Topics: []string{topic0}, Data: "0x01"})
		if err != nil {
			t.Fatalf("decode %s: %v", topic0, err)
		}
		if event.Kind != model.EventMetadataUpdate {
			t.Fatalf("topic %s classified as %s", topic0, event.Kind)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	valid := topicFromAddress(common.HexToAddress("0x1111111111111111111111111111111111111111"))

	cases := map[string]model.LogRecord{
		"no topics":          {Data: "0x01"},
		"short transfer":     {Topics: []string{TransferTopic, valid, valid}},
		"bad from address":   {Topics: []string{TransferTopic, "0x" + strings.Repeat("z", 64), valid, "0x01"}},
		"short topic":        {Topics: []string{TransferTopic, "0x1234", valid, "0x01"}},
		"bad token id topic": {Topics: []string{TransferTopic, valid, valid, "0xnothex"}},
		"empty data":         {Topics: []string{MetadataUpdateTopic.Hex()}, Data: "0x"},
		"bad data":           {Topics: []string{MetadataUpdateTopic.Hex()}, Data: "0xgg"},
		"overflow data":      {Topics: []string{MetadataUpdateTopic.Hex()}, Data: "0x1" + strings.Repeat("0", 64)},
	}

	for name, record := range cases {
		if _, err := Decode(record); !errors.Is(err, ErrDecode) {
			t.Fatalf("%s: expected ErrDecode, got %v", name, err)
		}
	}
}

func TestParseTokenID(t *testing.T) {
	cases := map[string]uint64{
		"0x2a":  42,
		"2a":    42,
		"0X2A":  42,
		"0x000": 0,
		"0x1":   1,
	}
	for input, want := range cases {
		got, err := ParseTokenID(input)
		if err != nil {
			t.Fatalf("parse %s: %v", input, err)
		}
		if got.Uint64() != want {
			t.Fatalf("parse %s: got %d, want %d", input, got.Uint64(), want)
		}
	}
}

func topicFromAddress(addr common.Address) string {
	return common.BytesToHash(addr.Bytes()).Hex()
}
