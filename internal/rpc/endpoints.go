package rpc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"

	"github.com/willcl-ark/bitcoin-tui/internal/model"
)

// blockStatsFields limits getblockstats to what the history window renders.
var blockStatsFields = []string{"height", "txs", "total_size", "total_weight", "avgfeerate", "time"}

// BlockchainInfo calls getblockchaininfo.
func (c *Client) BlockchainInfo(ctx context.Context) (*btcjson.GetBlockChainInfoResult, error) {
	var out btcjson.GetBlockChainInfoResult
	if err := c.call(ctx, &out, "getblockchaininfo"); err != nil {
		return nil, err
	}
	return &out, nil
}

// NetworkInfo calls getnetworkinfo.
func (c *Client) NetworkInfo(ctx context.Context) (*btcjson.GetNetworkInfoResult, error) {
	var out btcjson.GetNetworkInfoResult
	if err := c.call(ctx, &out, "getnetworkinfo"); err != nil {
		return nil, err
	}
	return &out, nil
}

// MempoolInfo calls getmempoolinfo.
func (c *Client) MempoolInfo(ctx context.Context) (*model.MempoolInfo, error) {
	var out model.MempoolInfo
	if err := c.call(ctx, &out, "getmempoolinfo"); err != nil {
		return nil, err
	}
	return &out, nil
}

// MiningInfo calls getmininginfo.
func (c *Client) MiningInfo(ctx context.Context) (*btcjson.GetMiningInfoResult, error) {
	var out btcjson.GetMiningInfoResult
	if err := c.call(ctx, &out, "getmininginfo"); err != nil {
		return nil, err
	}
	return &out, nil
}

// PeerInfo calls getpeerinfo, preserving unknown fields on each record.
func (c *Client) PeerInfo(ctx context.Context) ([]model.Peer, error) {
	var out []model.Peer
	if err := c.call(ctx, &out, "getpeerinfo"); err != nil {
		return nil, err
	}
	return out, nil
}

// NetTotals calls getnettotals.
func (c *Client) NetTotals(ctx context.Context) (*btcjson.GetNetTotalsResult, error) {
	var out btcjson.GetNetTotalsResult
	if err := c.call(ctx, &out, "getnettotals"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChainTips calls getchaintips.
func (c *Client) ChainTips(ctx context.Context) ([]model.ChainTip, error) {
	var out []model.ChainTip
	if err := c.call(ctx, &out, "getchaintips"); err != nil {
		return nil, err
	}
	return out, nil
}

// BlockStats calls getblockstats for one height with the field filter.
func (c *Client) BlockStats(ctx context.Context, height uint64) (*model.BlockRecord, error) {
	var out model.BlockRecord
	if err := c.call(ctx, &out, "getblockstats", height, blockStatsFields); err != nil {
		return nil, err
	}
	return &out, nil
}

// BlockHash calls getblockhash.
func (c *Client) BlockHash(ctx context.Context, height uint64) (string, error) {
	var out string
	if err := c.call(ctx, &out, "getblockhash", height); err != nil {
		return "", err
	}
	if out == "" {
		return "", ErrEmptyResult
	}
	return out, nil
}

// CoinbaseScript fetches the coinbase input script of a block's first
// transaction, for miner attribution.
func (c *Client) CoinbaseScript(ctx context.Context, blockHash string) ([]byte, error) {
	var block struct {
		Tx []string `json:"tx"`
	}
	if err := c.call(ctx, &block, "getblock", blockHash, 1); err != nil {
		return nil, err
	}
	if len(block.Tx) == 0 {
		return nil, fmt.Errorf("block %s has no transactions", blockHash)
	}

	tx, err := c.RawTransactionVerbose(ctx, block.Tx[0])
	if err != nil {
		return nil, err
	}
	if len(tx.Vin) == 0 || tx.Vin[0].Coinbase == "" {
		return nil, fmt.Errorf("transaction %s has no coinbase input", block.Tx[0])
	}
	script, err := hex.DecodeString(tx.Vin[0].Coinbase)
	if err != nil {
		return nil, fmt.Errorf("decode coinbase script: %w", err)
	}
	return script, nil
}

// MempoolEntry calls getmempoolentry.
func (c *Client) MempoolEntry(ctx context.Context, txid string) (*model.MempoolHit, error) {
	var out model.MempoolHit
	if err := c.call(ctx, &out, "getmempoolentry", txid); err != nil {
		return nil, err
	}
	return &out, nil
}

// RawTransactionVerbose calls getrawtransaction with verbose output.
func (c *Client) RawTransactionVerbose(ctx context.Context, txid string) (*btcjson.TxRawResult, error) {
	var out btcjson.TxRawResult
	if err := c.call(ctx, &out, "getrawtransaction", txid, 1); err != nil {
		return nil, err
	}
	return &out, nil
}

// RawTransactionHex calls getrawtransaction for the serialized form.
func (c *Client) RawTransactionHex(ctx context.Context, txid string) (string, error) {
	var out string
	if err := c.call(ctx, &out, "getrawtransaction", txid); err != nil {
		return "", err
	}
	return out, nil
}

// DecodeRawTransaction calls decoderawtransaction.
func (c *Client) DecodeRawTransaction(ctx context.Context, txHex string) (json.RawMessage, error) {
	params, err := marshalParams(txHex)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, "decoderawtransaction", params, "")
}

// ListWallets calls listwallets.
func (c *Client) ListWallets(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.call(ctx, &out, "listwallets"); err != nil {
		return nil, err
	}
	return out, nil
}
