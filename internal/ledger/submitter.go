// Package ledger submits finalized results to the collection contract.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"orbMint/internal/model"
)

// TxSender sends a node-signed transaction.
type TxSender interface {
	SendTransaction(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error)
}

// Submitter finalizes a token by calling burn(tokenId) on the collection.
type Submitter struct {
	sender   TxSender
	from     common.Address
	contract common.Address
	logger   *zap.Logger
}

// NewSubmitter builds a Submitter sending from the given account.
func NewSubmitter(sender TxSender, from, contract common.Address, logger *zap.Logger) (*Submitter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		return nil, errors.New("tx sender is nil")
	}
	if contract == (common.Address{}) {
		return nil, errors.New("contract address is required")
	}
	if from == (common.Address{}) {
		return nil, errors.New("sender address is required")
	}
	return &Submitter{sender: sender, from: from, contract: contract, logger: logger}, nil
}

// SubmitResult sends the burn call for tokenID.
func (s *Submitter) SubmitResult(ctx context.Context, tokenID uint256.Int) error {
	data, err := PackBurn(tokenID)
	if err != nil {
		return err
	}
	hash, err := s.sender.SendTransaction(ctx, s.from, s.contract, data)
	if err != nil {
		return fmt.Errorf("submit burn %s: %w", model.FormatTokenID(tokenID), err)
	}
	s.logger.Info("result submitted", zap.String("token_id", model.FormatTokenID(tokenID)), zap.String("tx_hash", hash.Hex()))
	return nil
}

// PackBurn returns the ABI-encoded burn(uint256) call data.
func PackBurn(tokenID uint256.Int) ([]byte, error) {
	parsed, err := loadCollectionABI()
	if err != nil {
		return nil, fmt.Errorf("load collection abi: %w", err)
	}
	data, err := parsed.Pack("burn", tokenID.ToBig())
	if err != nil {
		return nil, fmt.Errorf("pack burn: %w", err)
	}
	return data, nil
}
