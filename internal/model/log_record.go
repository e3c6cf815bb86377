package model

import "fmt"

// LogRecord is the normalized representation of a chain log as delivered to a job.
type LogRecord struct {
	ChainID     uint64   `json:"chain_id"`
	BlockNumber uint64   `json:"block_number"`
	BlockHash   string   `json:"block_hash"`
	TxHash      string   `json:"tx_hash"`
	TxIndex     uint64   `json:"tx_index"`
	LogIndex    uint64   `json:"log_index"`
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	Removed     bool     `json:"removed"`
	Timestamp   uint64   `json:"timestamp"`
	IngestedAt  string   `json:"ingested_at"`
}

// LogSource identifies the log a job was started for.
type LogSource struct {
	BlockNumber uint64 `json:"block_number"`
	TxHash      string `json:"tx_hash"`
	LogIndex    uint64 `json:"log_index"`
}

// Source returns the identity of the record.
func (lr LogRecord) Source() LogSource {
	return LogSource{
		BlockNumber: lr.BlockNumber,
		TxHash:      lr.TxHash,
		LogIndex:    lr.LogIndex,
	}
}

// ID is the stable key used by processed-log trackers.
func (s LogSource) ID() string {
	return fmt.Sprintf("%d:%s:%d", s.BlockNumber, s.TxHash, s.LogIndex)
}
