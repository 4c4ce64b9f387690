package model

import "github.com/btcsuite/btcd/btcjson"

// PollSnapshot bundles the per-endpoint results of one poll cycle. Each slot
// fails independently; a slot served from the slow-tier cache is still
// reported as a success.
type PollSnapshot struct {
	Blockchain Result[*btcjson.GetBlockChainInfoResult]
	Network    Result[*btcjson.GetNetworkInfoResult]
	Mempool    Result[*MempoolInfo]
	Mining     Result[*btcjson.GetMiningInfoResult]
	Peers      Result[[]Peer]
	NetTotals  Result[*btcjson.GetNetTotalsResult]
	ChainTips  Result[[]ChainTip]
}

// CallSite identifies the request slot a completion belongs to. Fenced sites
// carry a sequence tag; the remaining sites are fire-and-forget.
type CallSite int

const (
	SiteSearch CallSite = iota
	SiteRPC
	SiteWalletRPC
	SitePSBT
	SiteWalletList
	SiteBlockLookup
)

func (s CallSite) String() string {
	switch s {
	case SiteSearch:
		return "search"
	case SiteRPC:
		return "rpc"
	case SiteWalletRPC:
		return "wallet_rpc"
	case SitePSBT:
		return "psbt"
	case SiteWalletList:
		return "wallet_list"
	case SiteBlockLookup:
		return "block_lookup"
	default:
		return "unknown"
	}
}

// Event is a message from a background task to the state owner. The concrete
// types below are the only variants.
type Event interface {
	event()
}

// PollComplete delivers one poll cycle's snapshot.
type PollComplete struct {
	Snapshot PollSnapshot
}

// RecentBlocksComplete replaces the recent-block history window. During a
// cold start it is emitted incrementally as blocks arrive.
type RecentBlocksComplete struct {
	Blocks []BlockRecord
}

// ChainTipsEnriched delivers chain tips after miner attribution. Emitted only
// when at least one tip resolved fresh.
type ChainTipsEnriched struct {
	Tips []ChainTip
}

// NotificationReceived delivers one decoded ZMQ notification.
type NotificationReceived struct {
	Entry NotificationEntry
}

// NotificationError reports a fatal ingester failure. The ingester task ends
// after sending it; polling is unaffected.
type NotificationError struct {
	Message string
}

// RequestComplete delivers the outcome of a user-triggered call. Seq is the
// fencing tag for fenced sites and zero otherwise.
type RequestComplete struct {
	Site   CallSite
	Seq    uint64
	Result Result[any]
}

func (PollComplete) event()         {}
func (RecentBlocksComplete) event() {}
func (ChainTipsEnriched) event()    {}
func (NotificationReceived) event() {}
func (NotificationError) event()    {}
func (RequestComplete) event()      {}
