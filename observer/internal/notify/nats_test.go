package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/continuum-labs/continuum/observer/config"
	"github.com/continuum-labs/continuum/observer/internal/queue"
	"github.com/continuum-labs/continuum/observer/pkg/logger"
)

type sentMsg struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs   []sentMsg
	failOn string
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if subject == f.failOn {
		return errors.New("nats: connection closed")
	}
	f.msgs = append(f.msgs, sentMsg{subject: subject, data: data})
	return nil
}

func testLogger() *logger.Logger {
	return logger.New("notify", io.Discard, zerolog.Disabled)
}

func testBatch() queue.Batch {
	return queue.Batch{
		Height:  12,
		TxIndex: 2,
		Events: []queue.Event{
			{Type: "order_submitted", Attributes: map[string]string{"sequence": "4", "owner": "alice"}},
			{Type: "order_executed", Attributes: map[string]string{"sequence": "3", "amount_out": "99"}},
		},
	}
}

func TestNotifyPublishesEachEvent(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, "continuum.sequencer", testLogger())

	require.NoError(t, n.Notify(context.Background(), testBatch()))
	require.Len(t, pub.msgs, 2)
	require.Equal(t, "continuum.sequencer.order_submitted", pub.msgs[0].subject)
	require.Equal(t, "continuum.sequencer.order_executed", pub.msgs[1].subject)

	var msg Message
	require.NoError(t, json.Unmarshal(pub.msgs[1].data, &msg))
	require.EqualValues(t, 12, msg.Height)
	require.EqualValues(t, 2, msg.TxIndex)
	require.Equal(t, "order_executed", msg.Type)
	require.Equal(t, "99", msg.Attributes["amount_out"])
}

func TestNotifyStopsOnPublishError(t *testing.T) {
	pub := &fakePublisher{failOn: "continuum.sequencer.order_submitted"}
	n := NewNotifier(pub, "continuum.sequencer", testLogger())

	err := n.Notify(context.Background(), testBatch())
	require.ErrorContains(t, err, "publish order_submitted")
	require.Empty(t, pub.msgs)
}

func TestNotifyHonorsCancelledContext(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, "continuum.sequencer", testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, n.Notify(ctx, testBatch()), context.Canceled)
	require.Empty(t, pub.msgs)
}

func TestCloseWithoutConnection(t *testing.T) {
	n := NewNotifier(&fakePublisher{}, "p", testLogger())
	n.Close()
}

func TestConnectFailure(t *testing.T) {
	_, err := Connect(config.NATSConfig{URL: "nats://127.0.0.1:1", SubjectPrefix: "p", Timeout: 100 * time.Millisecond}, testLogger())
	require.Error(t, err)
}
