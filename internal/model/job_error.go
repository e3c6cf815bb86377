package model

// JobError records a failed job for a log line.
type JobError struct {
	ChainID     uint64 `json:"chain_id"`
	BlockNumber uint64 `json:"block_number"`
	TxHash      string `json:"tx_hash"`
	LogIndex    uint64 `json:"log_index"`
	Address     string `json:"address"`
	Topic0      string `json:"topic0"`
	Stage       string `json:"stage,omitempty"`
	Error       string `json:"error"`
}
