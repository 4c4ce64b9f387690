package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/willcl-ark/bitcoin-tui/internal/model"
)

type fakeBackend struct {
	call         func(ctx context.Context, method string, params []json.RawMessage, wallet string) (json.RawMessage, error)
	mempoolEntry func(ctx context.Context, txid string) (*model.MempoolHit, error)
	rawVerbose   func(ctx context.Context, txid string) (*btcjson.TxRawResult, error)
	rawHex       func(ctx context.Context, txid string) (string, error)
	decode       func(ctx context.Context, txHex string) (json.RawMessage, error)
	listWallets  func(ctx context.Context) ([]string, error)
}

var errNotStubbed = errors.New("not stubbed")

func (f *fakeBackend) Call(ctx context.Context, method string, params []json.RawMessage, wallet string) (json.RawMessage, error) {
	if f.call == nil {
		return nil, errNotStubbed
	}
	return f.call(ctx, method, params, wallet)
}

func (f *fakeBackend) MempoolEntry(ctx context.Context, txid string) (*model.MempoolHit, error) {
	if f.mempoolEntry == nil {
		return nil, errNotStubbed
	}
	return f.mempoolEntry(ctx, txid)
}

func (f *fakeBackend) RawTransactionVerbose(ctx context.Context, txid string) (*btcjson.TxRawResult, error) {
	if f.rawVerbose == nil {
		return nil, errNotStubbed
	}
	return f.rawVerbose(ctx, txid)
}

func (f *fakeBackend) RawTransactionHex(ctx context.Context, txid string) (string, error) {
	if f.rawHex == nil {
		return "", errNotStubbed
	}
	return f.rawHex(ctx, txid)
}

func (f *fakeBackend) DecodeRawTransaction(ctx context.Context, txHex string) (json.RawMessage, error) {
	if f.decode == nil {
		return nil, errNotStubbed
	}
	return f.decode(ctx, txHex)
}

func (f *fakeBackend) ListWallets(ctx context.Context) ([]string, error) {
	if f.listWallets == nil {
		return nil, errNotStubbed
	}
	return f.listWallets(ctx)
}

func newTestState(backend Backend) (*State, chan model.Event) {
	events := make(chan model.Event, 64)
	return New(backend, events, zap.NewNop()), events
}

func awaitEvent(t *testing.T, events chan model.Event) model.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestFencingOnlyLatestRequestReflected(t *testing.T) {
	t.Parallel()

	result := func(txid string) model.Result[any] {
		return model.Ok[any](&model.SearchResult{TxID: txid})
	}

	tests := []struct {
		name  string
		apply func(s *State, seqA, seqB uint64)
	}{
		{
			name: "stale completion arrives first",
			apply: func(s *State, seqA, seqB uint64) {
				s.Apply(model.RequestComplete{Site: model.SiteSearch, Seq: seqA, Result: result("a")})
				s.Apply(model.RequestComplete{Site: model.SiteSearch, Seq: seqB, Result: result("b")})
			},
		},
		{
			name: "stale completion arrives last",
			apply: func(s *State, seqA, seqB uint64) {
				s.Apply(model.RequestComplete{Site: model.SiteSearch, Seq: seqB, Result: result("b")})
				s.Apply(model.RequestComplete{Site: model.SiteSearch, Seq: seqA, Result: result("a")})
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _ := newTestState(&fakeBackend{})
			slot := s.slots[model.SiteSearch]
			seqA := slot.Issue()
			seqB := slot.Issue()

			tt.apply(s, seqA, seqB)

			require.NotNil(t, s.SearchResult)
			assert.Equal(t, "b", s.SearchResult.TxID)
		})
	}
}

func TestSearchMempoolHit(t *testing.T) {
	t.Parallel()

	txid := "f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16"
	backend := &fakeBackend{
		mempoolEntry: func(_ context.Context, got string) (*model.MempoolHit, error) {
			if got != txid {
				return nil, errors.New("not found")
			}
			return &model.MempoolHit{VSize: 141}, nil
		},
		rawHex: func(context.Context, string) (string, error) {
			return "0100beef", nil
		},
		decode: func(context.Context, string) (json.RawMessage, error) {
			return json.RawMessage(`{"txid":"f418"}`), nil
		},
	}
	s, events := newTestState(backend)

	s.Search(context.Background(), txid)
	s.Apply(awaitEvent(t, events))

	require.Empty(t, s.SearchErr)
	require.NotNil(t, s.SearchResult)
	assert.Equal(t, txid, s.SearchResult.TxID)
	require.NotNil(t, s.SearchResult.Mempool)
	assert.Equal(t, uint64(141), s.SearchResult.Mempool.VSize)
	assert.Contains(t, s.SearchResult.Decoded, `"txid"`)
}

func TestSearchTriesReversedCandidate(t *testing.T) {
	t.Parallel()

	wire := "169e1e83e930853391bc6f35f605c6754cfead57cf8387639d3b4096c54f18f4"
	display := "f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16"
	backend := &fakeBackend{
		rawVerbose: func(_ context.Context, txid string) (*btcjson.TxRawResult, error) {
			if txid != display {
				return nil, errors.New("not found")
			}
			return &btcjson.TxRawResult{Txid: display, Confirmations: 9000}, nil
		},
	}
	s, events := newTestState(backend)

	s.Search(context.Background(), wire)
	s.Apply(awaitEvent(t, events))

	require.NotNil(t, s.SearchResult)
	assert.Equal(t, display, s.SearchResult.TxID)
	require.NotNil(t, s.SearchResult.Tx)
	assert.Nil(t, s.SearchResult.Mempool)
}

func TestSearchNotFound(t *testing.T) {
	t.Parallel()

	s, events := newTestState(&fakeBackend{})

	s.Search(context.Background(), "deadbeef")
	s.Apply(awaitEvent(t, events))

	assert.Nil(t, s.SearchResult)
	assert.Contains(t, s.SearchErr, "not found")
}

func TestCallRPC(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		call: func(_ context.Context, method string, params []json.RawMessage, wallet string) (json.RawMessage, error) {
			if method != "getblockcount" || wallet != "" || len(params) != 0 {
				return nil, fmt.Errorf("unexpected call %s", method)
			}
			return json.RawMessage(`905000`), nil
		},
	}
	s, events := newTestState(backend)

	require.NoError(t, s.CallRPC(context.Background(), "getblockcount", ""))
	s.Apply(awaitEvent(t, events))

	assert.Empty(t, s.RPCErr)
	assert.Equal(t, "905000", s.RPCOutput)
}

func TestCallRPCRejectsBadArgs(t *testing.T) {
	t.Parallel()

	s, events := newTestState(&fakeBackend{})
	require.Error(t, s.CallRPC(context.Background(), "getblockhash", "{not json"))
	assert.Empty(t, events)
}

func TestCallWalletRPCRoutesWallet(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		call: func(_ context.Context, method string, _ []json.RawMessage, wallet string) (json.RawMessage, error) {
			if wallet != "hot" {
				return nil, fmt.Errorf("wrong wallet %q", wallet)
			}
			return json.RawMessage(`{"balance":1.5}`), nil
		},
	}
	s, events := newTestState(backend)

	require.NoError(t, s.CallWalletRPC(context.Background(), "hot", "getbalances", ""))
	s.Apply(awaitEvent(t, events))

	assert.Empty(t, s.RPCErr)
	assert.Contains(t, s.RPCOutput, `"balance"`)
}

func TestRefreshWallets(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{
		listWallets: func(context.Context) ([]string, error) {
			return []string{"hot", "cold"}, nil
		},
	}
	s, events := newTestState(backend)

	s.RefreshWallets(context.Background())
	s.Apply(awaitEvent(t, events))

	assert.Equal(t, []string{"hot", "cold"}, s.Wallets)
}

func TestPSBTActionsSerialize(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	backend := &fakeBackend{
		call: func(_ context.Context, method string, _ []json.RawMessage, wallet string) (json.RawMessage, error) {
			<-release
			if method != "walletprocesspsbt" || wallet != "hot" {
				return nil, fmt.Errorf("unexpected call %s on wallet %q", method, wallet)
			}
			return json.RawMessage(`{"psbt":"cHNidP8B-updated","complete":false}`), nil
		},
	}
	s, events := newTestState(backend)
	s.PSBT = "cHNidP8B-original"

	require.NoError(t, s.RunPSBTAction(context.Background(), model.PSBTWalletProcess, "hot"))

	// The slot is occupied until the completion is folded.
	err := s.RunPSBTAction(context.Background(), model.PSBTAnalyze, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")

	close(release)
	s.Apply(awaitEvent(t, events))

	require.NotNil(t, s.PSBTResult)
	assert.Equal(t, model.PSBTWalletProcess, s.PSBTResult.Action)
	assert.Equal(t, "cHNidP8B-updated", s.PSBT)

	// Folded completion frees the slot again.
	backend.call = func(context.Context, string, []json.RawMessage, string) (json.RawMessage, error) {
		return json.RawMessage(`{"next":{"type":"extractor"}}`), nil
	}
	require.NoError(t, s.RunPSBTAction(context.Background(), model.PSBTAnalyze, ""))
	s.Apply(awaitEvent(t, events))
	assert.Equal(t, model.PSBTAnalyze, s.PSBTResult.Action)
	assert.Equal(t, "cHNidP8B-updated", s.PSBT)
}

func TestPSBTActionValidation(t *testing.T) {
	t.Parallel()

	s, _ := newTestState(&fakeBackend{})

	err := s.RunPSBTAction(context.Background(), model.PSBTDecode, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no PSBT loaded")

	s.PSBT = "cHNidP8B"
	err = s.RunPSBTAction(context.Background(), model.PSBTWalletProcess, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a wallet")
}

func TestNotificationRingEviction(t *testing.T) {
	t.Parallel()

	s, _ := newTestState(&fakeBackend{})
	for i := 0; i < notificationRing+5; i++ {
		s.Apply(model.NotificationReceived{Entry: model.NotificationEntry{
			Topic: model.TopicHashTx,
			Hash:  fmt.Sprintf("%064x", i),
		}})
	}

	require.Len(t, s.Notifications, notificationRing)
	assert.Equal(t, fmt.Sprintf("%064x", 5), s.Notifications[0].Hash)
	assert.Equal(t, fmt.Sprintf("%064x", notificationRing+4), s.Notifications[notificationRing-1].Hash)
}

func TestHeadlineFirstErrorWins(t *testing.T) {
	t.Parallel()

	s, _ := newTestState(&fakeBackend{})
	snap := model.PollSnapshot{
		Blockchain: model.Ok(&btcjson.GetBlockChainInfoResult{}),
		Network:    model.Fail[*btcjson.GetNetworkInfoResult]("network down"),
		Mempool:    model.Fail[*model.MempoolInfo]("mempool down"),
		Mining:     model.Ok(&btcjson.GetMiningInfoResult{}),
		Peers:      model.Ok([]model.Peer{}),
		NetTotals:  model.Ok(&btcjson.GetNetTotalsResult{}),
		ChainTips:  model.Ok([]model.ChainTip{}),
	}
	s.Apply(model.PollComplete{Snapshot: snap})

	assert.Equal(t, "network down", s.Headline)

	snap.Network = model.Ok(&btcjson.GetNetworkInfoResult{})
	snap.Mempool = model.Ok(&model.MempoolInfo{})
	s.Apply(model.PollComplete{Snapshot: snap})
	assert.Empty(t, s.Headline)
}

func TestPeerSnapshotReappliesQuery(t *testing.T) {
	t.Parallel()

	s, _ := newTestState(&fakeBackend{})
	require.NoError(t, s.ApplyCommand("where inbound == true"))

	peers := []model.Peer{
		model.NewPeerFromTree(map[string]any{"id": float64(1), "inbound": true}),
		model.NewPeerFromTree(map[string]any{"id": float64(2), "inbound": false}),
	}
	s.Apply(model.PollComplete{Snapshot: model.PollSnapshot{Peers: model.Ok(peers)}})

	assert.Equal(t, []int{0}, s.PeerView)
	assert.Equal(t, []string{"id", "inbound"}, s.KnownFields)

	// An invalid command leaves both the query and the view untouched.
	require.Error(t, s.ApplyCommand("where inbound ="))
	assert.Equal(t, []int{0}, s.PeerView)

	require.NoError(t, s.ApplyCommand("clear"))
	assert.Equal(t, []int{0, 1}, s.PeerView)
}
