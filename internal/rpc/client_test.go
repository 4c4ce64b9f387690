package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	c := New(Config{User: "user", Pass: "pass", CallTimeout: 5 * time.Second}, zap.NewNop())
	c.baseURL = "http://" + u.Host
	return c
}

func rpcResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	_ = json.NewEncoder(w).Encode(map[string]any{"result": json.RawMessage(raw), "error": nil, "id": "t"})
}

func TestCallEnvelopeAndAuth(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "pass", pass)

		var req struct {
			Jsonrpc string            `json:"jsonrpc"`
			Method  string            `json:"method"`
			Params  []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getblockcount", req.Method)
		require.Len(t, req.Params, 0)

		rpcResult(t, w, 901234)
	}))

	var count int64
	require.NoError(t, c.call(context.Background(), &count, "getblockcount"))
	assert.Equal(t, int64(901234), count)
}

func TestCallWalletRouting(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/hot", r.URL.Path)
		rpcResult(t, w, map[string]any{"balance": 1.5})
	}))

	raw, err := c.Call(context.Background(), "getbalances", nil, "hot")
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":1.5}`, string(raw))
}

func TestCallRPCErrorObject(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"result":null,"error":{"code":-5,"message":"Block not found"},"id":"t"}`))
	}))

	_, err := c.Call(context.Background(), "getblock", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Block not found")
}

func TestCallMalformedJSON(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))

	_, err := c.Call(context.Background(), "getblockcount", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestCookieCredentials(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cookie := filepath.Join(dir, ".cookie")
	require.NoError(t, os.WriteFile(cookie, []byte("__cookie__:s3cret\n"), 0o600))

	c := New(Config{Host: "127.0.0.1", Port: 8332, CookiePath: cookie}, zap.NewNop())
	user, pass, err := c.credentials()
	require.NoError(t, err)
	assert.Equal(t, "__cookie__", user)
	assert.Equal(t, "s3cret", pass)
}

func TestCookieCredentialsMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cookie := filepath.Join(dir, ".cookie")
	require.NoError(t, os.WriteFile(cookie, []byte("nocolon"), 0o600))

	c := New(Config{CookiePath: cookie}, zap.NewNop())
	_, _, err := c.credentials()
	assert.ErrorContains(t, err, "malformed cookie")
}

func TestParseParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "empty", input: "   ", want: nil},
		{name: "single string", input: `"abc"`, want: []string{`"abc"`}},
		{name: "mixed", input: `"abc", 2, true`, want: []string{`"abc"`, "2", "true"}},
		{name: "nested array", input: `["height","time"]`, want: []string{`["height","time"]`}},
		{name: "invalid", input: `{"unclosed"`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			params, err := ParseParams(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, params, len(tt.want))
			for i, want := range tt.want {
				assert.JSONEq(t, want, string(params[i]))
			}
		})
	}
}

func TestDefaultPort(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint16(8332), DefaultPort("mainnet"))
	assert.Equal(t, uint16(18332), DefaultPort("testnet"))
	assert.Equal(t, uint16(48332), DefaultPort("testnet4"))
	assert.Equal(t, uint16(38332), DefaultPort("signet"))
	assert.Equal(t, uint16(18443), DefaultPort("regtest"))
}
