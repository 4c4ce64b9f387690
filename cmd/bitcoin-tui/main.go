package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/willcl-ark/bitcoin-tui/internal/model"
	"github.com/willcl-ark/bitcoin-tui/internal/notify"
	"github.com/willcl-ark/bitcoin-tui/internal/poller"
	"github.com/willcl-ark/bitcoin-tui/internal/rpc"
	"github.com/willcl-ark/bitcoin-tui/internal/state"
)

var config struct {
	Host        string        `long:"rpc-host" env:"BITCOIN_TUI_RPC_HOST" description:"node RPC host" default:"127.0.0.1"`
	Port        uint16        `long:"rpc-port" env:"BITCOIN_TUI_RPC_PORT" description:"node RPC port, defaults per network"`
	RPCUser     string        `long:"rpc-user" env:"BITCOIN_TUI_RPC_USER" description:"RPC username"`
	RPCPassword string        `long:"rpc-password" env:"BITCOIN_TUI_RPC_PASSWORD" description:"RPC password"`
	CookieFile  string        `long:"rpc-cookie-file" env:"BITCOIN_TUI_RPC_COOKIE_FILE" description:"RPC cookie file, defaults per network"`
	Testnet     bool          `long:"testnet" description:"connect to testnet3"`
	Testnet4    bool          `long:"testnet4" description:"connect to testnet4"`
	Signet      bool          `long:"signet" description:"connect to signet"`
	Regtest     bool          `long:"regtest" description:"connect to regtest"`
	Interval    time.Duration `long:"poll-interval" env:"BITCOIN_TUI_POLL_INTERVAL" description:"pause between poll cycles" default:"5s"`
	ZMQHost     string        `long:"zmq-host" env:"BITCOIN_TUI_ZMQ_HOST" description:"node ZMQ publisher host" default:"127.0.0.1"`
	ZMQPort     uint16        `long:"zmq-port" env:"BITCOIN_TUI_ZMQ_PORT" description:"node ZMQ publisher port" default:"28334"`
	MetricsAddr string        `long:"metrics-addr" env:"BITCOIN_TUI_METRICS_ADDR" description:"prometheus listen address" default:":9180"`
}

// eventBuffer sizes the task-to-state channel generously so background
// producers never stall the consumer's cadence.
const eventBuffer = 1024

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bitcoin-tui failed", zap.Error(err))
	}
}

func network() string {
	switch {
	case config.Testnet:
		return "testnet"
	case config.Testnet4:
		return "testnet4"
	case config.Signet:
		return "signet"
	case config.Regtest:
		return "regtest"
	default:
		return "mainnet"
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	net := network()
	port := config.Port
	if port == 0 {
		port = rpc.DefaultPort(net)
	}
	cookie := config.CookieFile
	if cookie == "" {
		cookie = rpc.DefaultCookiePath(net)
	}

	client := rpc.New(rpc.Config{
		Host:       config.Host,
		Port:       port,
		User:       config.RPCUser,
		Pass:       config.RPCPassword,
		CookiePath: cookie,
	}, logger)

	events := make(chan model.Event, eventBuffer)
	p := poller.New(client, events, logger, poller.WithInterval(config.Interval))
	ingester := notify.New(config.ZMQHost, config.ZMQPort, events, logger)
	st := state.New(client, events, logger)

	go serveMetrics(ctx, logger)
	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("poller stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := ingester.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("notification ingester stopped", zap.Error(err))
		}
	}()

	st.RefreshWallets(ctx)

	logger.Info("connected",
		zap.String("network", net),
		zap.String("rpc_host", config.Host),
		zap.Uint16("rpc_port", port),
	)

	var lastHeadline string
	var lastHeight uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			st.Apply(ev)
			if n, ok := ev.(model.NotificationReceived); ok && n.Entry.Topic == model.TopicHashBlock {
				logger.Info("block notification",
					zap.String("hash", n.Entry.Hash),
					zap.Uint64("recent_tx", sumBuckets(ingester.TxRate())),
				)
			}
			if st.Headline != lastHeadline {
				lastHeadline = st.Headline
				if lastHeadline != "" {
					logger.Warn("poll error", zap.String("message", lastHeadline))
				}
			}
			if n := len(st.RecentBlocks); n > 0 {
				if tip := st.RecentBlocks[n-1].Height; tip != lastHeight {
					lastHeight = tip
					logger.Info("new tip",
						zap.Uint64("height", tip),
						zap.String("pool", st.RecentBlocks[n-1].Pool),
					)
				}
			}
		}
	}
}

// sumBuckets totals a rate histogram over its retained window.
func sumBuckets(buckets []uint64) uint64 {
	var total uint64
	for _, n := range buckets {
		total += n
	}
	return total
}

func serveMetrics(ctx context.Context, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              config.MetricsAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()

	logger.Info("serving metrics", zap.String("addr", config.MetricsAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
