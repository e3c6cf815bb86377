package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

type recordingSender struct {
	from, to common.Address
	data     []byte
	err      error
}

func (r *recordingSender) SendTransaction(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error) {
	r.from, r.to, r.data = from, to, data
	return common.HexToHash("0x01"), r.err
}

func TestPackBurn(t *testing.T) {
	data, err := PackBurn(*uint256.NewInt(42))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if len(data) != 36 {
		t.Fatalf("expected 36 bytes, got %d", len(data))
	}
	selector := crypto.Keccak256([]byte("burn(uint256)"))[:4]
	if hexutil.Encode(data[:4]) != hexutil.Encode(selector) {
		t.Fatalf("selector mismatch: %x", data[:4])
	}
	if data[35] != 42 {
		t.Fatalf("token id not encoded: %x", data[4:])
	}
	for _, b := range data[4:35] {
		if b != 0 {
			t.Fatalf("expected left padding: %x", data[4:])
		}
	}
}

func TestSubmitResultSendsToContract(t *testing.T) {
	sender := &recordingSender{}
	from := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	contract := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	sub, err := NewSubmitter(sender, from, contract, nil)
	if err != nil {
		t.Fatalf("new submitter: %v", err)
	}
	if err := sub.SubmitResult(context.Background(), *uint256.NewInt(7)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sender.from != from || sender.to != contract {
		t.Fatalf("unexpected addresses: %s -> %s", sender.from.Hex(), sender.to.Hex())
	}
	if sender.data[35] != 7 {
		t.Fatalf("unexpected call data: %x", sender.data)
	}
}

func TestSubmitResultWrapsSendError(t *testing.T) {
	boom := errors.New("node unavailable")
	sender := &recordingSender{err: boom}
	sub, err := NewSubmitter(sender, common.HexToAddress("0x01"), common.HexToAddress("0x02"), nil)
	if err != nil {
		t.Fatalf("new submitter: %v", err)
	}
	if err := sub.SubmitResult(context.Background(), *uint256.NewInt(1)); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

func TestNewSubmitterValidates(t *testing.T) {
	if _, err := NewSubmitter(nil, common.HexToAddress("0x01"), common.HexToAddress("0x02"), nil); err == nil {
		t.Fatalf("expected error for nil sender")
	}
	if _, err := NewSubmitter(&recordingSender{}, common.HexToAddress("0x01"), common.Address{}, nil); err == nil {
		t.Fatalf("expected error for zero contract")
	}
}
