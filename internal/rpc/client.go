// Package rpc implements the JSON-RPC gateway to a Bitcoin Core node.
//
// Calls POST the btcjson request envelope over HTTP. Every call carries a
// connect timeout (dialer) and an overall timeout (context deadline) so a
// hung transport cannot wedge a poll cycle while independent calls proceed.
// Wallet-scoped methods are routed to the node's /wallet/<name> endpoint.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"go.uber.org/zap"

	"github.com/willcl-ark/bitcoin-tui/internal/metrics"
)

const (
	defaultConnectTimeout = 5 * time.Second
	defaultCallTimeout    = 30 * time.Second
)

// Config describes how to reach the node. User/Pass take precedence over the
// cookie file; an empty CookiePath falls back to the conventional location
// for the network.
type Config struct {
	Host           string
	Port           uint16
	User           string
	Pass           string
	CookiePath     string
	ConnectTimeout time.Duration
	CallTimeout    time.Duration
}

// Client is a Bitcoin Core JSON-RPC client. Safe for concurrent use.
type Client struct {
	baseURL     string
	user        string
	pass        string
	cookiePath  string
	callTimeout time.Duration
	httpClient  *http.Client
	logger      *zap.Logger
}

// New constructs a Client from cfg.
func New(cfg Config, logger *zap.Logger) *Client {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}

	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        8,
		MaxIdleConnsPerHost: 8,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		baseURL:     fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		user:        cfg.User,
		pass:        cfg.Pass,
		cookiePath:  cfg.CookiePath,
		callTimeout: callTimeout,
		httpClient:  &http.Client{Transport: transport},
		logger:      logger.Named("rpc"),
	}
}

// Call issues a raw JSON-RPC call, optionally against a wallet endpoint, and
// returns the undecoded result.
func (c *Client) Call(ctx context.Context, method string, params []json.RawMessage, wallet string) (json.RawMessage, error) {
	started := time.Now()
	res, err := c.post(ctx, method, params, wallet)
	metrics.ObserveRPC(method, err, started)
	return res, err
}

func (c *Client) post(ctx context.Context, method string, params []json.RawMessage, wallet string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	user, pass, err := c.credentials()
	if err != nil {
		return nil, err
	}

	reqBody, err := json.Marshal(btcjson.Request{
		Jsonrpc: btcjson.RpcVersion1,
		ID:      method,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	url := c.baseURL
	if wallet != "" {
		url += "/wallet/" + wallet
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	httpReq.SetBasicAuth(user, pass)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("RPC connection failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	var resp btcjson.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("RPC error (%s): %s", httpResp.Status, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("invalid JSON from node: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("RPC error: %s", resp.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("RPC error (%s)", httpResp.Status)
	}
	return resp.Result, nil
}

func (c *Client) credentials() (user, pass string, err error) {
	if c.user != "" {
		return c.user, c.pass, nil
	}
	// The node rewrites its cookie on restart, so read it per call rather
	// than caching at startup.
	contents, err := os.ReadFile(c.cookiePath)
	if err != nil {
		return "", "", fmt.Errorf("read cookie file %s: %w", c.cookiePath, err)
	}
	cookie := strings.TrimSpace(string(contents))
	user, pass, ok := strings.Cut(cookie, ":")
	if !ok {
		return "", "", fmt.Errorf("malformed cookie file %s", c.cookiePath)
	}
	return user, pass, nil
}

func (c *Client) call(ctx context.Context, out any, method string, args ...any) error {
	params, err := marshalParams(args...)
	if err != nil {
		return err
	}
	raw, err := c.Call(ctx, method, params, "")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s result: %w", method, err)
	}
	return nil
}

func marshalParams(args ...any) ([]json.RawMessage, error) {
	params := make([]json.RawMessage, 0, len(args))
	for _, arg := range args {
		raw, err := json.Marshal(arg)
		if err != nil {
			return nil, fmt.Errorf("marshal parameter: %w", err)
		}
		params = append(params, raw)
	}
	return params, nil
}

// ParseParams converts user-typed argument text into JSON-RPC parameters by
// wrapping it in a JSON array. Empty input yields no parameters.
func ParseParams(input string) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}
	var params []json.RawMessage
	if err := json.Unmarshal([]byte("["+trimmed+"]"), &params); err != nil {
		return nil, fmt.Errorf("invalid args: %w", err)
	}
	return params, nil
}

// DefaultPort returns the conventional RPC port for a network name.
func DefaultPort(network string) uint16 {
	switch network {
	case "testnet", "testnet3":
		return 18332
	case "testnet4":
		return 48332
	case "signet":
		return 38332
	case "regtest":
		return 18443
	default:
		return 8332
	}
}

// DefaultCookiePath returns the conventional cookie location for a network;
// mainnet uses the data directory root.
func DefaultCookiePath(network string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".bitcoin")
	switch network {
	case "testnet", "testnet3":
		dir = filepath.Join(dir, "testnet3")
	case "testnet4", "signet", "regtest":
		dir = filepath.Join(dir, network)
	}
	return filepath.Join(dir, ".cookie")
}

// ErrEmptyResult reports a null result where a value was required.
var ErrEmptyResult = errors.New("empty result")
