// Package state holds the application state and the single fold function
// that applies background events to it. The State is owned by one goroutine;
// background tasks only ever hand it owned values through the event channel.
package state

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/willcl-ark/bitcoin-tui/internal/fence"
	"github.com/willcl-ark/bitcoin-tui/internal/model"
	"github.com/willcl-ark/bitcoin-tui/internal/peerquery"
)

// notificationRing bounds the retained notification history.
const notificationRing = 2000

// State is the folded view of everything the background tasks report plus
// the outcomes of user-triggered calls. Not safe for concurrent use.
type State struct {
	backend Backend
	sink    chan<- model.Event
	logger  *zap.Logger

	// Latest poll cycle.
	Snapshot model.PollSnapshot
	// Headline is the first error of the latest cycle; later same-cycle
	// errors are swallowed.
	Headline string

	RecentBlocks []model.BlockRecord
	ChainTips    []model.ChainTip

	Notifications []model.NotificationEntry
	NotifyErr     string

	Peers       []model.Peer
	Query       peerquery.Query
	PeerView    []int
	KnownFields []string

	Wallets      []string
	SearchResult *model.SearchResult
	SearchErr    string
	RPCOutput    string
	RPCErr       string
	BlockOutput  string
	BlockErr     string
	PSBT         string
	PSBTResult   *model.PSBTResult
	PSBTErr      string

	slots map[model.CallSite]*fence.Slot
}

// New constructs a State dispatching user actions against backend and
// reading completions back from sink.
func New(backend Backend, sink chan<- model.Event, logger *zap.Logger) *State {
	return &State{
		backend: backend,
		sink:    sink,
		logger:  logger.Named("state"),
		slots: map[model.CallSite]*fence.Slot{
			model.SiteSearch:    {},
			model.SiteRPC:       {},
			model.SiteWalletRPC: {},
			model.SitePSBT:      {},
		},
	}
}

// Apply folds one event into the state.
func (s *State) Apply(ev model.Event) {
	switch e := ev.(type) {
	case model.PollComplete:
		s.Snapshot = e.Snapshot
		s.Headline = firstError(e.Snapshot)
		if e.Snapshot.Peers.OK() {
			s.Peers = e.Snapshot.Peers.Value
			s.refreshPeerView()
		}
	case model.RecentBlocksComplete:
		s.RecentBlocks = e.Blocks
	case model.ChainTipsEnriched:
		s.ChainTips = e.Tips
	case model.NotificationReceived:
		s.Notifications = append(s.Notifications, e.Entry)
		if len(s.Notifications) > notificationRing {
			s.Notifications = s.Notifications[len(s.Notifications)-notificationRing:]
		}
	case model.NotificationError:
		s.NotifyErr = e.Message
	case model.RequestComplete:
		s.applyCompletion(e)
	}
}

// applyCompletion routes a request outcome to its site. Fenced sites consult
// their slot first; a stale tag is dropped without touching state.
func (s *State) applyCompletion(e model.RequestComplete) {
	if slot, fenced := s.slots[e.Site]; fenced {
		if !slot.Accept(e.Seq) {
			s.logger.Debug("discarding superseded completion",
				zap.Stringer("site", e.Site),
				zap.Uint64("seq", e.Seq),
			)
			return
		}
	}

	switch e.Site {
	case model.SiteSearch:
		s.SearchResult, s.SearchErr = nil, ""
		if !e.Result.OK() {
			s.SearchErr = e.Result.Err
			return
		}
		if r, ok := e.Result.Value.(*model.SearchResult); ok {
			s.SearchResult = r
		}
	case model.SiteRPC, model.SiteWalletRPC:
		s.RPCOutput, s.RPCErr = "", ""
		if !e.Result.OK() {
			s.RPCErr = e.Result.Err
			return
		}
		if out, ok := e.Result.Value.(string); ok {
			s.RPCOutput = out
		}
	case model.SitePSBT:
		s.PSBTResult, s.PSBTErr = nil, ""
		if !e.Result.OK() {
			s.PSBTErr = e.Result.Err
			return
		}
		if r, ok := e.Result.Value.(*model.PSBTResult); ok {
			s.PSBTResult = r
			if r.UpdatedPSBT != "" {
				s.PSBT = r.UpdatedPSBT
			}
		}
	case model.SiteWalletList:
		if e.Result.OK() {
			if wallets, ok := e.Result.Value.([]string); ok {
				s.Wallets = wallets
			}
		}
	case model.SiteBlockLookup:
		s.BlockOutput, s.BlockErr = "", ""
		if !e.Result.OK() {
			s.BlockErr = e.Result.Err
			return
		}
		if out, ok := e.Result.Value.(string); ok {
			s.BlockOutput = out
		}
	}
}

// ApplyCommand parses one peer query command and, on success, re-filters the
// current peer set. Invalid input leaves the query and the view untouched.
func (s *State) ApplyCommand(input string) error {
	if err := peerquery.ApplyCommand(&s.Query, input); err != nil {
		return err
	}
	s.PeerView = peerquery.Apply(s.Peers, s.Query)
	return nil
}

func (s *State) refreshPeerView() {
	s.PeerView = peerquery.Apply(s.Peers, s.Query)
	s.KnownFields = peerquery.CollectFields(s.Peers)
}

// firstError picks the headline message of a cycle: the first failed slot in
// endpoint order, or empty when everything succeeded.
func firstError(snap model.PollSnapshot) string {
	for _, e := range []string{
		snap.Blockchain.Err,
		snap.Network.Err,
		snap.Mempool.Err,
		snap.Mining.Err,
		snap.Peers.Err,
		snap.NetTotals.Err,
		snap.ChainTips.Err,
	} {
		if e != "" {
			return e
		}
	}
	return ""
}

func prettyJSON(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(buf)
}
