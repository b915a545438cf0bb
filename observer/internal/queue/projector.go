package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/continuum-labs/continuum/observer/internal/store"
	"github.com/continuum-labs/continuum/observer/pkg/logger"
	"github.com/continuum-labs/continuum/x/sequencer/types"
)

var (
	eventsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "continuum",
			Subsystem: "observer",
			Name:      "events_applied_total",
			Help:      "Sequencer events folded into the projection",
		},
		[]string{"type"},
	)

	eventsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "continuum",
			Subsystem: "observer",
			Name:      "events_skipped_total",
			Help:      "Sequencer events dropped because they could not be decoded",
		},
		[]string{"type"},
	)

	projectedHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "continuum",
		Subsystem: "observer",
		Name:      "projected_height",
		Help:      "Height of the last applied transaction",
	})
)

// Event is one ABCI event emitted by the sequencer module.
type Event struct {
	Type       string
	Attributes map[string]string
}

// Batch groups the events of a single committed transaction.
type Batch struct {
	Height  int64
	TxIndex uint32
	Events  []Event
}

// Notifier receives batches after they are committed to the store.
type Notifier interface {
	Notify(ctx context.Context, batch Batch) error
}

// Projector folds sequencer events into a Store. Batches at or before the
// stored cursor are ignored, so replaying a range is harmless.
type Projector struct {
	store    *store.Store
	log      *logger.Logger
	notifier Notifier
}

// NewProjector creates a projector writing to s.
func NewProjector(s *store.Store, log *logger.Logger) *Projector {
	return &Projector{store: s, log: log}
}

// WithNotifier sets a sink for committed batches. Notification failures are
// logged and never undo the projection.
func (p *Projector) WithNotifier(n Notifier) *Projector {
	p.notifier = n
	return p
}

// Apply folds one batch into the store atomically. It reports whether the
// batch advanced the cursor.
func (p *Projector) Apply(ctx context.Context, batch Batch) (bool, error) {
	applied := false
	err := p.store.Transaction(ctx, func(tx *store.Store) error {
		state, err := tx.State()
		if err != nil {
			return fmt.Errorf("load cursor: %w", err)
		}
		if seen(state, batch) {
			return nil
		}

		for _, ev := range batch.Events {
			if err := p.applyEvent(tx, &state, batch.Height, ev); err != nil {
				return fmt.Errorf("%s at height %d: %w", ev.Type, batch.Height, err)
			}
		}

		state.LastHeight = batch.Height
		state.LastTxIndex = batch.TxIndex
		if err := tx.SaveState(state); err != nil {
			return fmt.Errorf("save cursor: %w", err)
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if applied {
		projectedHeight.Set(float64(batch.Height))
		if p.notifier != nil {
			if err := p.notifier.Notify(ctx, batch); err != nil {
				p.log.Warn("Failed to publish batch", "height", batch.Height, "error", err)
			}
		}
	}
	return applied, nil
}

// Run applies batches from in until it is closed or ctx is done.
func (p *Projector) Run(ctx context.Context, in <-chan Batch) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-in:
			if !ok {
				return nil
			}
			if _, err := p.Apply(ctx, batch); err != nil {
				return err
			}
		}
	}
}

func seen(state store.SequencerRow, batch Batch) bool {
	if state.LastHeight == 0 {
		return false
	}
	if batch.Height != state.LastHeight {
		return batch.Height < state.LastHeight
	}
	return batch.TxIndex <= state.LastTxIndex
}

// errMalformed marks events that cannot be decoded. They are logged and
// skipped rather than stalling the projection.
var errMalformed = errors.New("malformed event")

func (p *Projector) applyEvent(tx *store.Store, state *store.SequencerRow, height int64, ev Event) error {
	err := p.dispatch(tx, state, height, ev)
	switch {
	case err == nil:
		eventsApplied.WithLabelValues(ev.Type).Inc()
		return nil
	case errors.Is(err, errMalformed):
		eventsSkipped.WithLabelValues(ev.Type).Inc()
		p.log.Warn("Skipping sequencer event", "type", ev.Type, "height", height, "error", err)
		return nil
	default:
		return err
	}
}

func (p *Projector) dispatch(tx *store.Store, state *store.SequencerRow, height int64, ev Event) error {
	attrs := ev.Attributes

	switch ev.Type {
	case types.EventTypeSequencerInitialized:
		state.Initialized = true
		state.Admin = attrs[types.AttributeKeyAdmin]
		return nil

	case types.EventTypeSequencerPaused:
		state.Paused = true
		return nil

	case types.EventTypeSequencerUnpaused:
		state.Paused = false
		return nil

	case types.EventTypeRelayerAdded:
		return tx.AddRelayer(attrs[types.AttributeKeyRelayer], height)

	case types.EventTypeRelayerRemoved:
		return tx.RemoveRelayer(attrs[types.AttributeKeyRelayer])

	case types.EventTypePoolRegistered:
		return tx.UpsertPool(&store.PoolRow{
			PoolID:             attrs[types.AttributeKeyPoolID],
			DelegatedAuthority: attrs[types.AttributeKeyDelegatedAuthority],
			Asset0:             attrs[types.AttributeKeyAsset0],
			Asset1:             attrs[types.AttributeKeyAsset1],
			Active:             true,
			RegisteredHeight:   height,
		})

	case types.EventTypePoolStatusChanged:
		active, err := strconv.ParseBool(attrs[types.AttributeKeyActive])
		if err != nil {
			return fmt.Errorf("%w: active: %v", errMalformed, err)
		}
		err = tx.SetPoolActive(attrs[types.AttributeKeyPoolID], active)
		if errors.Is(err, store.ErrNotFound) {
			return tx.UpsertPool(&store.PoolRow{PoolID: attrs[types.AttributeKeyPoolID], Active: active})
		}
		return err

	case types.EventTypeOrderSubmitted:
		return p.applySubmitted(tx, state, height, attrs)

	case types.EventTypeOrderExecuted:
		return p.applyFinalized(tx, height, attrs, types.OrderStatusExecuted)

	case types.EventTypeOrderCancelled:
		return p.applyFinalized(tx, height, attrs, types.OrderStatusCancelled)

	case types.EventTypeOrderFailed:
		return p.applyFinalized(tx, height, attrs, types.OrderStatusFailed)

	case types.EventTypeSwapExecuted:
		seq, err := parseUint(attrs, types.AttributeKeySequence)
		if err != nil {
			return err
		}
		state.ImmediateSwaps++
		if seq > state.LastSequence {
			state.LastSequence = seq
		}
		return nil

	default:
		return nil
	}
}

func (p *Projector) applySubmitted(tx *store.Store, state *store.SequencerRow, height int64, attrs map[string]string) error {
	seq, err := parseUint(attrs, types.AttributeKeySequence)
	if err != nil {
		return err
	}
	amountIn, err := parseUint(attrs, types.AttributeKeyAmountIn)
	if err != nil {
		return err
	}
	isBaseInput, err := strconv.ParseBool(attrs[types.AttributeKeyIsBaseInput])
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errMalformed, types.AttributeKeyIsBaseInput, err)
	}

	var minAmountOut uint64
	if _, ok := attrs[types.AttributeKeyMinAmountOut]; ok {
		if minAmountOut, err = parseUint(attrs, types.AttributeKeyMinAmountOut); err != nil {
			return err
		}
	}

	created, err := tx.InsertOrder(&store.OrderRow{
		Sequence:         seq,
		Owner:            attrs[types.AttributeKeyOwner],
		PoolID:           attrs[types.AttributeKeyPoolID],
		Status:           types.OrderStatusPending.String(),
		AmountIn:         amountIn,
		MinAmountOut:     minAmountOut,
		IsBaseInput:      isBaseInput,
		SourceAsset:      attrs[types.AttributeKeySourceAsset],
		DestinationAsset: attrs[types.AttributeKeyDestinationAsset],
		Persisted:        attrs[types.AttributeKeyMode] != types.SubmissionModeLite,
		SubmittedHeight:  height,
	})
	if err != nil {
		return err
	}
	if !created {
		p.log.Debug("Order already projected", "sequence", seq)
	}
	if seq > state.LastSequence {
		state.LastSequence = seq
	}
	return nil
}

func (p *Projector) applyFinalized(tx *store.Store, height int64, attrs map[string]string, status types.OrderStatus) error {
	seq, err := parseUint(attrs, types.AttributeKeySequence)
	if err != nil {
		return err
	}

	update := store.OrderRow{
		Sequence:        seq,
		Owner:           attrs[types.AttributeKeyOwner],
		Status:          status.String(),
		Executor:        attrs[types.AttributeKeyExecutor],
		Reason:          attrs[types.AttributeKeyReason],
		FinalizedHeight: height,
	}
	if status == types.OrderStatusExecuted {
		if update.AmountOut, err = parseUint(attrs, types.AttributeKeyAmountOut); err != nil {
			return err
		}
	}

	changed, err := tx.FinalizeOrder(update)
	if err != nil {
		return err
	}
	if !changed {
		p.log.Warn("Ignoring transition of finalized order", "sequence", seq, "status", update.Status)
	}
	return nil
}

func parseUint(attrs map[string]string, key string) (uint64, error) {
	v, err := strconv.ParseUint(attrs[key], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", errMalformed, key, err)
	}
	return v, nil
}
