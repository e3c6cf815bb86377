package ledger

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const collectionABIJSON = `[
  {
    "inputs": [
      {"internalType": "uint256", "name": "tokenId", "type": "uint256"}
    ],
    "name": "burn",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

var (
	collectionABIOnce sync.Once
	collectionABI     abi.ABI
	collectionABIErr  error
)

func loadCollectionABI() (abi.ABI, error) {
	collectionABIOnce.Do(func() {
		collectionABI, collectionABIErr = abi.JSON(strings.NewReader(collectionABIJSON))
	})
	return collectionABI, collectionABIErr
}
