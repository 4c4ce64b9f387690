// Package model defines the core value types exchanged between the polling
// engine, the notification ingester and the state owner. Every type here is
// an owned value; background tasks never share mutable state.
package model

import "github.com/btcsuite/btcd/btcjson"

// BlockRecord is one entry of the recent-block history window.
type BlockRecord struct {
	Height      uint64 `json:"height"`
	Txs         uint64 `json:"txs"`
	TotalSize   uint64 `json:"total_size"`
	TotalWeight uint64 `json:"total_weight"`
	AvgFeeRate  uint64 `json:"avgfeerate"`
	Time        int64  `json:"time"`
	// Pool is the best-effort miner attribution; empty when unattributed.
	Pool string `json:"-"`
}

// ChainTip is one entry of the getchaintips result, optionally enriched with
// miner attribution.
type ChainTip struct {
	Height    uint64 `json:"height"`
	Hash      string `json:"hash"`
	BranchLen uint64 `json:"branchlen"`
	Status    string `json:"status"`
	Pool      string `json:"-"`
}

// MempoolInfo mirrors getmempoolinfo. Fee fields arrive as either numbers or
// strings depending on node version, so they are normalized at decode time.
type MempoolInfo struct {
	Loaded           bool      `json:"loaded"`
	Size             uint64    `json:"size"`
	Bytes            uint64    `json:"bytes"`
	Usage            uint64    `json:"usage"`
	TotalFee         FlexFloat `json:"total_fee"`
	MaxMempool       uint64    `json:"maxmempool"`
	MempoolMinFee    FlexFloat `json:"mempoolminfee"`
	MinRelayTxFee    FlexFloat `json:"minrelaytxfee"`
	UnbroadcastCount uint64    `json:"unbroadcastcount"`
}

// Notification topics forwarded by the ingester. Everything else on the wire
// is ignored.
const (
	TopicHashTx    = "hashtx"
	TopicHashBlock = "hashblock"
)

// NotificationEntry is one decoded ZMQ notification. Hash is in conventional
// display order (byte-reversed from the wire).
type NotificationEntry struct {
	Topic string
	Hash  string
}

// SearchResult is the outcome of a transaction lookup: found in the mempool
// (Mempool set), or confirmed in a block (Tx set). Decoded carries a
// pretty-printed decode of the transaction when available.
type SearchResult struct {
	TxID    string
	Mempool *MempoolHit
	Tx      *btcjson.TxRawResult
	Decoded string
}

// MempoolHit is the subset of getmempoolentry the search surfaces.
type MempoolHit struct {
	VSize           uint64    `json:"vsize"`
	Weight          uint64    `json:"weight"`
	Time            int64     `json:"time"`
	Height          uint64    `json:"height"`
	DescendantCount uint64    `json:"descendantcount"`
	AncestorCount   uint64    `json:"ancestorcount"`
	Fees            EntryFees `json:"fees"`
	Depends         []string  `json:"depends"`
	SpentBy         []string  `json:"spentby"`
}

// EntryFees groups the fee fields of a mempool entry.
type EntryFees struct {
	Base       FlexFloat `json:"base"`
	Modified   FlexFloat `json:"modified"`
	Ancestor   FlexFloat `json:"ancestor"`
	Descendant FlexFloat `json:"descendant"`
}

// PSBTAction enumerates the mutating PSBT operations. All of them run
// serialized on a single request slot.
type PSBTAction int

const (
	PSBTDecode PSBTAction = iota
	PSBTAnalyze
	PSBTWalletProcess
	PSBTFinalize
	PSBTUtxoUpdate
)

func (a PSBTAction) String() string {
	switch a {
	case PSBTDecode:
		return "decodepsbt"
	case PSBTAnalyze:
		return "analyzepsbt"
	case PSBTWalletProcess:
		return "walletprocesspsbt"
	case PSBTFinalize:
		return "finalizepsbt"
	case PSBTUtxoUpdate:
		return "utxoupdatepsbt"
	default:
		return "unknown"
	}
}

// PSBTResult is the outcome of a PSBT action. UpdatedPSBT is non-empty when
// the node returned a replacement for the shared editable value.
type PSBTResult struct {
	Action      PSBTAction
	OutputJSON  string
	UpdatedPSBT string
}
