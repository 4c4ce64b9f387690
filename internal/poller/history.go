package poller

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/willcl-ark/bitcoin-tui/internal/coinbase"
	"github.com/willcl-ark/bitcoin-tui/internal/metrics"
	"github.com/willcl-ark/bitcoin-tui/internal/model"
)

// syncHistory reconciles the recent-block window against a new tip. A cold
// start, a non-advancing tip or a gap wider than the window rebuilds the
// whole window; otherwise only the blocks above the previous height are
// fetched. Cold start descends from the tip and emits after every block so
// the consumer can render partially; the incremental path ascends and emits
// once at the end.
func (p *Poller) syncHistory(ctx context.Context, tipHash string, tipHeight uint64) {
	coldStart := !p.haveHeight

	var updated []model.BlockRecord
	start := uint64(0)
	if tipHeight >= p.window {
		start = tipHeight - p.window + 1
	}

	if p.haveHeight && tipHeight > p.lastHeight && tipHeight-p.lastHeight <= p.window {
		start = p.lastHeight + 1
		updated = append(updated, p.recentBlocks...)
	}

	if coldStart {
		for h := tipHeight; h >= start; h-- {
			rec, ok := p.fetchBlock(ctx, h)
			if !ok {
				if h == 0 {
					break
				}
				continue
			}
			updated = append(updated, rec)
			sort.Slice(updated, func(i, j int) bool { return updated[i].Height < updated[j].Height })
			if !p.emit(ctx, model.RecentBlocksComplete{Blocks: append([]model.BlockRecord(nil), updated...)}) {
				return
			}
			if h == 0 {
				break
			}
		}
	} else {
		for h := start; h <= tipHeight; h++ {
			rec, ok := p.fetchBlock(ctx, h)
			if !ok {
				continue
			}
			updated = append(updated, rec)
		}
	}

	if uint64(len(updated)) > p.window {
		updated = updated[uint64(len(updated))-p.window:]
	}

	if len(updated) > 0 {
		p.recentBlocks = append([]model.BlockRecord(nil), updated...)
		if !p.emit(ctx, model.RecentBlocksComplete{Blocks: updated}) {
			return
		}
	}

	p.lastTip = tipHash
	p.lastHeight = tipHeight
	p.haveHeight = true
}

// fetchBlock fetches one block's stats and attributes its miner. A failed
// fetch is skipped for this cycle and retried only when a later tip change
// revisits the height.
func (p *Poller) fetchBlock(ctx context.Context, height uint64) (model.BlockRecord, bool) {
	p.rl.Take()
	rec, err := p.gw.BlockStats(ctx, height)
	if err != nil {
		p.logger.Debug("block stats fetch failed", zap.Uint64("height", height), zap.Error(err))
		return model.BlockRecord{}, false
	}
	metrics.ObserveBlockFetch()

	if hash, err := p.gw.BlockHash(ctx, height); err == nil {
		rec.Pool = p.resolvePool(ctx, hash)
	}
	return *rec, true
}

// resolvePool attributes a block to a pool via its coinbase script, caching
// the outcome (including "none") by hash.
func (p *Poller) resolvePool(ctx context.Context, blockHash string) string {
	if pool, ok := p.tipPools[blockHash]; ok {
		return pool
	}
	pool := ""
	if script, err := p.gw.CoinbaseScript(ctx, blockHash); err == nil {
		pool, _ = coinbase.Extract(script)
	}
	p.tipPools[blockHash] = pool
	return pool
}
