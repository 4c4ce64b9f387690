package state

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcjson"

	"github.com/willcl-ark/bitcoin-tui/internal/fence"
	"github.com/willcl-ark/bitcoin-tui/internal/model"
	"github.com/willcl-ark/bitcoin-tui/internal/rpc"
)

// Backend is the state owner's view of the RPC client.
type Backend interface {
	Call(ctx context.Context, method string, params []json.RawMessage, wallet string) (json.RawMessage, error)
	MempoolEntry(ctx context.Context, txid string) (*model.MempoolHit, error)
	RawTransactionVerbose(ctx context.Context, txid string) (*btcjson.TxRawResult, error)
	RawTransactionHex(ctx context.Context, txid string) (string, error)
	DecodeRawTransaction(ctx context.Context, txHex string) (json.RawMessage, error)
	ListWallets(ctx context.Context) ([]string, error)
}

// Search looks a transaction up by id, trying the mempool first and falling
// back to confirmed lookup. A pasted hash in wire byte order is retried
// reversed. The result arrives as a fenced SiteSearch completion.
func (s *State) Search(ctx context.Context, input string) {
	query := strings.TrimSpace(input)
	fence.Dispatch(ctx, s.slots[model.SiteSearch], s.sink, model.SiteSearch, func(ctx context.Context) (any, error) {
		for _, txid := range txidCandidates(query) {
			if hit, err := s.backend.MempoolEntry(ctx, txid); err == nil {
				return &model.SearchResult{
					TxID:    txid,
					Mempool: hit,
					Decoded: s.decodeBestEffort(ctx, txid),
				}, nil
			}
			if tx, err := s.backend.RawTransactionVerbose(ctx, txid); err == nil {
				return &model.SearchResult{TxID: txid, Tx: tx}, nil
			}
		}
		return nil, fmt.Errorf("transaction %s not found", query)
	})
}

// decodeBestEffort fetches and decodes the serialized transaction for
// display. Failures just leave the decode empty.
func (s *State) decodeBestEffort(ctx context.Context, txid string) string {
	txHex, err := s.backend.RawTransactionHex(ctx, txid)
	if err != nil {
		return ""
	}
	raw, err := s.backend.DecodeRawTransaction(ctx, txHex)
	if err != nil {
		return ""
	}
	return prettyJSON(raw)
}

// txidCandidates returns the lookup order for a pasted hash: as typed, then
// byte-reversed when it is a well-formed 32-byte hex string.
func txidCandidates(query string) []string {
	candidates := []string{query}
	raw, err := hex.DecodeString(query)
	if err != nil || len(raw) != 32 {
		return candidates
	}
	for i, j := 0, len(raw)-1; i < j; i, j = i+1, j-1 {
		raw[i], raw[j] = raw[j], raw[i]
	}
	if reversed := hex.EncodeToString(raw); reversed != query {
		candidates = append(candidates, reversed)
	}
	return candidates
}

// CallRPC runs a generic node RPC with user-typed JSON arguments. The result
// arrives as a fenced SiteRPC completion.
func (s *State) CallRPC(ctx context.Context, method, argsText string) error {
	return s.dispatchCall(ctx, model.SiteRPC, method, argsText, "")
}

// CallWalletRPC runs a wallet-scoped RPC against the named wallet.
func (s *State) CallWalletRPC(ctx context.Context, wallet, method, argsText string) error {
	return s.dispatchCall(ctx, model.SiteWalletRPC, method, argsText, wallet)
}

func (s *State) dispatchCall(ctx context.Context, site model.CallSite, method, argsText, wallet string) error {
	params, err := rpc.ParseParams(argsText)
	if err != nil {
		return err
	}
	fence.Dispatch(ctx, s.slots[site], s.sink, site, func(ctx context.Context) (any, error) {
		raw, err := s.backend.Call(ctx, method, params, wallet)
		if err != nil {
			return nil, err
		}
		return prettyJSON(raw), nil
	})
	return nil
}

// RefreshWallets reloads the wallet list. Unfenced; the latest completion
// simply wins.
func (s *State) RefreshWallets(ctx context.Context) {
	fence.DispatchUnfenced(ctx, s.sink, model.SiteWalletList, func(ctx context.Context) (any, error) {
		wallets, err := s.backend.ListWallets(ctx)
		return wallets, err
	})
}

// LookupBlock fetches a block summary by hash, typically from a hashblock
// notification. Unfenced.
func (s *State) LookupBlock(ctx context.Context, blockHash string) {
	fence.DispatchUnfenced(ctx, s.sink, model.SiteBlockLookup, func(ctx context.Context) (any, error) {
		params, err := rpc.ParseParams(fmt.Sprintf("%q, 1", blockHash))
		if err != nil {
			return nil, err
		}
		raw, err := s.backend.Call(ctx, "getblock", params, "")
		if err != nil {
			return nil, err
		}
		return prettyJSON(raw), nil
	})
}

// RunPSBTAction runs one PSBT operation against the shared editable PSBT.
// Actions are serialized: a new one is refused while the slot is occupied, so
// two mutations can never interleave on the shared value.
func (s *State) RunPSBTAction(ctx context.Context, action model.PSBTAction, wallet string) error {
	slot := s.slots[model.SitePSBT]
	if slot.InFlight() {
		return fmt.Errorf("a PSBT action is already running")
	}

	psbt := strings.TrimSpace(s.PSBT)
	if psbt == "" {
		return fmt.Errorf("no PSBT loaded")
	}
	if action == model.PSBTWalletProcess && wallet == "" {
		return fmt.Errorf("%s requires a wallet", action)
	}

	method := action.String()
	params, err := rpc.ParseParams(fmt.Sprintf("%q", psbt))
	if err != nil {
		return err
	}
	callWallet := ""
	if action == model.PSBTWalletProcess {
		callWallet = wallet
	}

	fence.Dispatch(ctx, slot, s.sink, model.SitePSBT, func(ctx context.Context) (any, error) {
		raw, err := s.backend.Call(ctx, method, params, callWallet)
		if err != nil {
			return nil, err
		}
		return &model.PSBTResult{
			Action:      action,
			OutputJSON:  prettyJSON(raw),
			UpdatedPSBT: updatedPSBT(action, raw),
		}, nil
	})
	return nil
}

// updatedPSBT extracts a replacement PSBT from an action's result, when the
// action produces one: a "psbt" object field, or the bare string that
// utxoupdatepsbt returns.
func updatedPSBT(action model.PSBTAction, raw json.RawMessage) string {
	switch action {
	case model.PSBTWalletProcess, model.PSBTFinalize:
		var out struct {
			PSBT string `json:"psbt"`
		}
		if err := json.Unmarshal(raw, &out); err == nil {
			return out.PSBT
		}
	case model.PSBTUtxoUpdate:
		var out string
		if err := json.Unmarshal(raw, &out); err == nil {
			return out
		}
	}
	return ""
}
