package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/continuum-labs/continuum/observer/config"
	"github.com/continuum-labs/continuum/observer/internal/queue"
	"github.com/continuum-labs/continuum/observer/pkg/logger"
)

var (
	connectionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "continuum",
		Subsystem: "observer",
		Name:      "nats_connected",
		Help:      "1 while the NATS connection is up",
	})

	published = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "continuum",
			Subsystem: "observer",
			Name:      "nats_published_total",
			Help:      "Events published to NATS",
		},
		[]string{"type", "status"},
	)
)

// Publisher is the subset of *nats.Conn used for fan-out.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Message is the JSON payload published for each sequencer event.
type Message struct {
	Height     int64             `json:"height"`
	TxIndex    uint32            `json:"tx_index"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// Notifier publishes committed batches, one message per event, on
// "<prefix>.<event type>".
type Notifier struct {
	pub    Publisher
	conn   *nats.Conn
	prefix string
	log    *logger.Logger
}

// NewNotifier wraps an existing publisher.
func NewNotifier(pub Publisher, prefix string, log *logger.Logger) *Notifier {
	return &Notifier{pub: pub, prefix: prefix, log: log}
}

// Connect dials the configured NATS server.
func Connect(cfg config.NATSConfig, log *logger.Logger) (*Notifier, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("continuum-observer"),
		nats.Timeout(cfg.Timeout),
		nats.ReconnectWait(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("NATS disconnected", "error", err)
			connectionStatus.Set(0)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
			connectionStatus.Set(1)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	connectionStatus.Set(1)

	n := NewNotifier(conn, cfg.SubjectPrefix, log)
	n.conn = conn
	return n, nil
}

// Subject returns the subject an event type is published on.
func (n *Notifier) Subject(eventType string) string {
	return n.prefix + "." + eventType
}

// Notify implements queue.Notifier. Publishing stops at the first failure.
func (n *Notifier) Notify(ctx context.Context, batch queue.Batch) error {
	for _, ev := range batch.Events {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := json.Marshal(Message{
			Height:     batch.Height,
			TxIndex:    batch.TxIndex,
			Type:       ev.Type,
			Attributes: ev.Attributes,
		})
		if err != nil {
			return fmt.Errorf("encode %s: %w", ev.Type, err)
		}

		if err := n.pub.Publish(n.Subject(ev.Type), data); err != nil {
			published.WithLabelValues(ev.Type, "error").Inc()
			return fmt.Errorf("publish %s: %w", ev.Type, err)
		}
		published.WithLabelValues(ev.Type, "ok").Inc()
	}
	return nil
}

// Close drains the connection when the notifier owns one.
func (n *Notifier) Close() {
	if n.conn == nil {
		return
	}
	if err := n.conn.Drain(); err != nil {
		n.log.Warn("NATS drain failed", "error", err)
	}
	connectionStatus.Set(0)
}
