// Package poller drives the periodic multi-endpoint poll cycle against the
// node, reconciles the recent-block history window on tip changes and
// enriches chain tips with miner attribution.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/willcl-ark/bitcoin-tui/internal/clock"
	"github.com/willcl-ark/bitcoin-tui/internal/metrics"
	"github.com/willcl-ark/bitcoin-tui/internal/model"
	"github.com/willcl-ark/bitcoin-tui/pkg/safe"
)

const (
	// Window bounds the retained recent-block history.
	Window = 72
	// slowRefreshPolls is how many cycles may reuse the slow-tier cache
	// before a forced refresh.
	slowRefreshPolls = 6

	defaultInterval      = 5 * time.Second
	tipResolveWorkers    = 4
	blockFetchRatePerSec = 25
)

// Gateway is the poller's view of the RPC client.
type Gateway interface {
	BlockchainInfo(ctx context.Context) (*btcjson.GetBlockChainInfoResult, error)
	NetworkInfo(ctx context.Context) (*btcjson.GetNetworkInfoResult, error)
	MempoolInfo(ctx context.Context) (*model.MempoolInfo, error)
	MiningInfo(ctx context.Context) (*btcjson.GetMiningInfoResult, error)
	PeerInfo(ctx context.Context) ([]model.Peer, error)
	NetTotals(ctx context.Context) (*btcjson.GetNetTotalsResult, error)
	ChainTips(ctx context.Context) ([]model.ChainTip, error)
	BlockStats(ctx context.Context, height uint64) (*model.BlockRecord, error)
	BlockHash(ctx context.Context, height uint64) (string, error)
	CoinbaseScript(ctx context.Context, blockHash string) ([]byte, error)
}

// Poller owns the poll loop state. All fields are touched only from Run's
// goroutine; results leave as owned values on the event channel.
type Poller struct {
	gw       Gateway
	events   chan<- model.Event
	logger   *zap.Logger
	interval time.Duration
	window   uint64
	rl       ratelimit.Limiter
	sleep    func(context.Context, time.Duration) error

	lastTip      string
	lastHeight   uint64
	haveHeight   bool
	sinceSlow    int
	cachedMining *btcjson.GetMiningInfoResult
	cachedTips   []model.ChainTip
	recentBlocks []model.BlockRecord
	// tipPools caches resolution outcomes by hash for the process
	// lifetime; presence means resolved, the value may be empty.
	tipPools map[string]string
}

// Option adjusts Poller construction.
type Option func(*Poller)

// WithInterval overrides the pause between cycles.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithWindow overrides the history window size. Intended for tests.
func WithWindow(n uint64) Option {
	return func(p *Poller) {
		if n > 0 {
			p.window = n
		}
	}
}

// New constructs a Poller emitting onto events.
func New(gw Gateway, events chan<- model.Event, logger *zap.Logger, opts ...Option) *Poller {
	p := &Poller{
		gw:       gw,
		events:   events,
		logger:   logger.Named("poller"),
		interval: defaultInterval,
		window:   Window,
		rl:       ratelimit.New(blockFetchRatePerSec),
		sleep:    clock.SleepWithContext,
		// Start at the threshold so the first cycle always takes the
		// slow path.
		sinceSlow: slowRefreshPolls,
		tipPools:  map[string]string{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is canceled. The inter-cycle pause starts after all
// enrichment work for the cycle has finished, not from cycle start.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.cycle(ctx)
		if err := p.sleep(ctx, p.interval); err != nil {
			return err
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	p.logger.Debug("poll cycle starting")

	var snap model.PollSnapshot
	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		snap.Blockchain = model.FailErr(p.gw.BlockchainInfo(ctx))
	}()
	go func() {
		defer wg.Done()
		snap.Network = model.FailErr(p.gw.NetworkInfo(ctx))
	}()
	go func() {
		defer wg.Done()
		snap.Mempool = model.FailErr(p.gw.MempoolInfo(ctx))
	}()
	go func() {
		defer wg.Done()
		snap.Peers = model.FailErr(p.gw.PeerInfo(ctx))
	}()
	go func() {
		defer wg.Done()
		snap.NetTotals = model.FailErr(p.gw.NetTotals(ctx))
	}()
	wg.Wait()

	// A failed chain-info call reads as "unchanged" until it next
	// succeeds; a real tip advance can be masked for that long.
	tipChanged := snap.Blockchain.OK() &&
		(p.lastTip == "" || snap.Blockchain.Value.BestBlockHash != p.lastTip)

	needSlow := tipChanged ||
		p.sinceSlow >= slowRefreshPolls ||
		p.cachedMining == nil ||
		p.cachedTips == nil

	if needSlow {
		var slowWG sync.WaitGroup
		slowWG.Add(2)
		go func() {
			defer slowWG.Done()
			snap.Mining = model.FailErr(p.gw.MiningInfo(ctx))
		}()
		go func() {
			defer slowWG.Done()
			snap.ChainTips = model.FailErr(p.gw.ChainTips(ctx))
		}()
		slowWG.Wait()

		if snap.Mining.OK() {
			p.cachedMining = snap.Mining.Value
		}
		if snap.ChainTips.OK() {
			p.cachedTips = snap.ChainTips.Value
		}
		p.sinceSlow = 0
	} else {
		p.sinceSlow++
		p.logger.Debug("reusing cached slow-tier values")
		snap.Mining = model.Ok(p.cachedMining)
		snap.ChainTips = model.Ok(p.cachedTips)
	}
	metrics.ObservePollCycle(needSlow)

	p.logger.Debug("poll cycle complete",
		zap.Bool("tip_changed", tipChanged),
		zap.Bool("slow_refresh", needSlow),
	)

	tipsToEnrich := cloneTips(snap.ChainTips)
	if !p.emit(ctx, model.PollComplete{Snapshot: snap}) {
		return
	}

	p.enrichTips(ctx, tipsToEnrich)

	if tipChanged {
		height, err := safe.Uint64(snap.Blockchain.Value.Blocks)
		if err != nil {
			p.logger.Warn("implausible tip height", zap.Error(err))
			return
		}
		p.syncHistory(ctx, snap.Blockchain.Value.BestBlockHash, height)
	}
}

func cloneTips(r model.Result[[]model.ChainTip]) []model.ChainTip {
	if !r.OK() || len(r.Value) == 0 {
		return nil
	}
	out := make([]model.ChainTip, len(r.Value))
	copy(out, r.Value)
	return out
}

// emit delivers one event, reporting false when the consumer is gone.
func (p *Poller) emit(ctx context.Context, ev model.Event) bool {
	select {
	case p.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
