// Package notify ingests raw notifications from the node's ZMQ publisher and
// forwards the interesting ones as decoded events.
package notify

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/go-zeromq/zmq4"
	"go.uber.org/zap"

	"github.com/willcl-ark/bitcoin-tui/internal/metrics"
	"github.com/willcl-ark/bitcoin-tui/internal/model"
)

// Socket is the ingester's view of a ZMQ subscriber.
type Socket interface {
	Recv() (zmq4.Msg, error)
	Close() error
}

// Ingester subscribes to the node's ZMQ endpoint and forwards hashtx and
// hashblock notifications. The subscription is a wildcard; topic filtering
// happens here so the node config does not have to match ours.
type Ingester struct {
	endpoint string
	events   chan<- model.Event
	logger   *zap.Logger
	txRate   *RateHistogram

	dial func(ctx context.Context) (Socket, error)
}

// New constructs an Ingester for tcp://host:port.
func New(host string, port uint16, events chan<- model.Event, logger *zap.Logger) *Ingester {
	endpoint := fmt.Sprintf("tcp://%s:%d", host, port)
	i := &Ingester{
		endpoint: endpoint,
		events:   events,
		logger:   logger.Named("notify"),
		txRate:   NewRateHistogram(),
	}
	i.dial = i.dialZMQ
	return i
}

func (i *Ingester) dialZMQ(ctx context.Context) (Socket, error) {
	sub := zmq4.NewSub(ctx)
	if err := sub.Dial(i.endpoint); err != nil {
		sub.Close()
		return nil, fmt.Errorf("ZMQ dial %s: %w", i.endpoint, err)
	}
	if err := sub.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		sub.Close()
		return nil, fmt.Errorf("ZMQ subscribe: %w", err)
	}
	return sub, nil
}

// TxRate returns the recent hashtx arrival histogram, oldest bucket first.
func (i *Ingester) TxRate() []uint64 {
	return i.txRate.Snapshot()
}

// Run receives until ctx is canceled or the socket fails. A failure is
// reported once as a NotificationError event and ends the task; polling
// continues without notifications.
func (i *Ingester) Run(ctx context.Context) error {
	sock, err := i.dial(ctx)
	if err != nil {
		i.logger.Warn("ingester failed to start", zap.Error(err))
		i.emit(ctx, model.NotificationError{Message: err.Error()})
		return err
	}
	defer sock.Close()

	// Recv has no context form; closing the socket unblocks it.
	go func() {
		<-ctx.Done()
		sock.Close()
	}()

	i.logger.Info("listening for notifications", zap.String("endpoint", i.endpoint))

	for {
		msg, err := sock.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			i.logger.Warn("ZMQ receive failed", zap.Error(err))
			i.emit(ctx, model.NotificationError{Message: err.Error()})
			return err
		}
		i.handle(ctx, msg.Frames)
	}
}

// handle decodes one multipart message. Expected shape is [topic, payload,
// sequence]; anything shorter is dropped.
func (i *Ingester) handle(ctx context.Context, frames [][]byte) {
	if len(frames) < 2 {
		i.logger.Warn("short ZMQ message", zap.Int("frames", len(frames)))
		return
	}

	topic := strings.TrimRight(string(frames[0]), "\x00")
	switch topic {
	case model.TopicHashTx, model.TopicHashBlock:
	default:
		return
	}

	if topic == model.TopicHashTx {
		i.txRate.Record()
	}
	metrics.ObserveNotification(topic)

	i.emit(ctx, model.NotificationReceived{Entry: model.NotificationEntry{
		Topic: topic,
		Hash:  displayHash(frames[1]),
	}})
}

// displayHash renders a wire-order hash in conventional display order.
// Payloads that are not 32 bytes pass through as plain hex.
func displayHash(payload []byte) string {
	if len(payload) == chainhash.HashSize {
		if h, err := chainhash.NewHash(payload); err == nil {
			return h.String()
		}
	}
	return hex.EncodeToString(payload)
}

func (i *Ingester) emit(ctx context.Context, ev model.Event) {
	select {
	case i.events <- ev:
	case <-ctx.Done():
	}
}
