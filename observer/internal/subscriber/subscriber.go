package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/continuum-labs/continuum/observer/config"
	"github.com/continuum-labs/continuum/observer/internal/queue"
	"github.com/continuum-labs/continuum/observer/pkg/logger"
	"github.com/continuum-labs/continuum/x/sequencer/types"
)

var reconnects = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "continuum",
	Subsystem: "observer",
	Name:      "ws_reconnects_total",
	Help:      "Websocket reconnect attempts to the node",
})

// sequencerEvents lists the event types forwarded to the projector.
var sequencerEvents = map[string]struct{}{
	types.EventTypeSequencerInitialized: {},
	types.EventTypeSequencerPaused:      {},
	types.EventTypeSequencerUnpaused:    {},
	types.EventTypeRelayerAdded:         {},
	types.EventTypeRelayerRemoved:       {},
	types.EventTypeParamsUpdated:        {},
	types.EventTypePoolRegistered:       {},
	types.EventTypePoolStatusChanged:    {},
	types.EventTypeOrderSubmitted:       {},
	types.EventTypeOrderExecuted:        {},
	types.EventTypeOrderCancelled:       {},
	types.EventTypeOrderFailed:          {},
	types.EventTypeSwapExecuted:         {},
}

// rpcMessage is the subset of a CometBFT JSON-RPC event push the observer reads.
type rpcMessage struct {
	Result struct {
		Data struct {
			Type  string `json:"type"`
			Value struct {
				TxResult struct {
					Height string `json:"height"`
					Index  uint32 `json:"index"`
					Result struct {
						Code   uint32       `json:"code"`
						Events []abci.Event `json:"events"`
					} `json:"result"`
				} `json:"TxResult"`
			} `json:"value"`
		} `json:"data"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"`
	} `json:"error"`
}

const txEventType = "tendermint/event/Tx"

// Subscriber streams sequencer events from a node websocket.
type Subscriber struct {
	cfg    config.ChainConfig
	dialer websocket.Dialer
	out    chan queue.Batch
	log    *logger.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewSubscriber creates a new node subscriber
func NewSubscriber(cfg config.ChainConfig, log *logger.Logger) *Subscriber {
	return &Subscriber{
		cfg:    cfg,
		dialer: websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		out:    make(chan queue.Batch, cfg.EventBuffer),
		log:    log,
	}
}

// Batches returns the channel of decoded transactions. It is closed when Run
// returns.
func (s *Subscriber) Batches() <-chan queue.Batch {
	return s.out
}

// Run connects, subscribes and forwards batches until ctx is done or the
// reconnect budget is exhausted.
func (s *Subscriber) Run(ctx context.Context) error {
	defer close(s.out)

	if err := s.connect(ctx); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, s.closeConn)
	defer stop()
	defer s.closeConn()

	for {
		err := s.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		s.log.Error("Websocket read failed", "error", err)

		if err := s.reconnectWithRetry(ctx); err != nil {
			return err
		}
	}
}

// connect dials the node and sends the subscription request
func (s *Subscriber) connect(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.cfg.WSURL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial websocket: %w", err)
	}

	subscribeMsg := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "subscribe",
		"id":      1,
		"params": map[string]interface{}{
			"query": s.cfg.Query,
		},
	}
	if err := conn.WriteJSON(subscribeMsg); err != nil {
		conn.Close()
		return fmt.Errorf("failed to send subscribe message: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.log.Info("Subscribed to node events", "url", s.cfg.WSURL, "query", s.cfg.Query)
	return nil
}

func (s *Subscriber) closeConn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (s *Subscriber) currentConn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// listen reads messages until the connection fails
func (s *Subscriber) listen(ctx context.Context) error {
	conn := s.currentConn()
	if conn == nil {
		return errors.New("connection closed")
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		batch, err := decodeMessage(message)
		if err != nil {
			s.log.Warn("Failed to decode node message", "error", err)
			continue
		}
		if batch == nil {
			continue
		}

		select {
		case s.out <- *batch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// reconnectWithRetry redials with linear backoff. MaxReconnects <= 0 retries
// until ctx is done.
func (s *Subscriber) reconnectWithRetry(ctx context.Context) error {
	s.closeConn()

	for attempt := 1; s.cfg.MaxReconnects <= 0 || attempt <= s.cfg.MaxReconnects; attempt++ {
		reconnects.Inc()
		delay := time.Duration(attempt) * s.cfg.ReconnectDelay

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil
		}

		if err := s.connect(ctx); err != nil {
			s.log.Warn("Reconnect failed", "attempt", attempt, "error", err)
			continue
		}
		return nil
	}

	return fmt.Errorf("failed to reconnect after %d attempts", s.cfg.MaxReconnects)
}

// decodeMessage extracts sequencer events from a Tx event push. It returns
// nil for acknowledgements, other event kinds, failed transactions and
// transactions without sequencer events.
func decodeMessage(message []byte) (*queue.Batch, error) {
	var msg rpcMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if msg.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s %s", msg.Error.Code, msg.Error.Message, msg.Error.Data)
	}
	if msg.Result.Data.Type != txEventType {
		return nil, nil
	}

	tx := msg.Result.Data.Value.TxResult
	if tx.Result.Code != 0 {
		return nil, nil
	}

	height, err := strconv.ParseInt(tx.Height, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid height %q: %w", tx.Height, err)
	}

	batch := queue.Batch{Height: height, TxIndex: tx.Index}
	for _, ev := range tx.Result.Events {
		if _, ok := sequencerEvents[ev.Type]; !ok {
			continue
		}
		attrs := make(map[string]string, len(ev.Attributes))
		for _, attr := range ev.Attributes {
			attrs[attr.Key] = attr.Value
		}
		batch.Events = append(batch.Events, queue.Event{Type: ev.Type, Attributes: attrs})
	}

	if len(batch.Events) == 0 {
		return nil, nil
	}
	return &batch, nil
}
