package poller

import (
	"context"

	"go.uber.org/zap"

	"github.com/willcl-ark/bitcoin-tui/internal/coinbase"
	"github.com/willcl-ark/bitcoin-tui/internal/model"
	"github.com/willcl-ark/bitcoin-tui/pkg/workerpool"
)

// enrichTips resolves miner attribution for any tip not yet in the cache and
// emits the enriched list, but only when at least one fresh resolution
// happened; cycles where every tip was already cached stay silent to avoid
// redundant consumer churn.
func (p *Poller) enrichTips(ctx context.Context, tips []model.ChainTip) {
	if len(tips) == 0 {
		return
	}

	var uncached []int
	for i, tip := range tips {
		if _, ok := p.tipPools[tip.Hash]; !ok {
			uncached = append(uncached, i)
		}
	}

	if len(uncached) > 0 {
		resolved := make([]string, len(tips))
		err := workerpool.Process(ctx, tipResolveWorkers, uncached, func(ctx context.Context, i int) error {
			pool := ""
			if script, err := p.gw.CoinbaseScript(ctx, tips[i].Hash); err == nil {
				pool, _ = coinbase.Extract(script)
			}
			resolved[i] = pool
			return nil
		})
		if err != nil {
			p.logger.Debug("tip enrichment interrupted", zap.Error(err))
			return
		}
		for _, i := range uncached {
			p.tipPools[tips[i].Hash] = resolved[i]
		}
	}

	for i := range tips {
		tips[i].Pool = p.tipPools[tips[i].Hash]
	}

	if len(uncached) > 0 {
		p.emit(ctx, model.ChainTipsEnriched{Tips: tips})
	}
}
