package types

import (
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultMaxRelayers bounds the executor allow-list when Initialize is called without a capacity.
const DefaultMaxRelayers uint32 = 16

// SequencerState is the single global record of the module.
//
// CurrentSequence is the last sequence handed out; the next submission gets
// CurrentSequence+1. Version is bumped on every write and is what
// compare-and-swap updates are checked against.
type SequencerState struct {
	CurrentSequence uint64   `json:"current_sequence"`
	Admin           string   `json:"admin"`
	Paused          bool     `json:"paused"`
	Relayers        []string `json:"relayers"`
	MaxRelayers     uint32   `json:"max_relayers"`
	Version         uint64   `json:"version"`
}

// HasRelayer reports whether addr is on the executor allow-list.
func (s SequencerState) HasRelayer(addr string) bool {
	for _, r := range s.Relayers {
		if r == addr {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate without touching the loaded record.
func (s SequencerState) Clone() SequencerState {
	out := s
	out.Relayers = append([]string(nil), s.Relayers...)
	return out
}

// Validate performs stateless validation of the record.
func (s SequencerState) Validate() error {
	if _, err := sdk.AccAddressFromBech32(s.Admin); err != nil {
		return ErrInvalidAddress.Wrapf("admin: %v", err)
	}
	if s.MaxRelayers == 0 {
		return ErrInvalidState.Wrap("max relayers must be positive")
	}
	if uint32(len(s.Relayers)) > s.MaxRelayers {
		return ErrRelayerSetFull.Wrapf("%d relayers exceed capacity %d", len(s.Relayers), s.MaxRelayers)
	}
	seen := make(map[string]struct{}, len(s.Relayers))
	for _, r := range s.Relayers {
		if _, err := sdk.AccAddressFromBech32(r); err != nil {
			return ErrInvalidAddress.Wrapf("relayer %q: %v", r, err)
		}
		if _, dup := seen[r]; dup {
			return ErrRelayerExists.Wrapf("duplicate relayer %s", r)
		}
		seen[r] = struct{}{}
	}
	return nil
}

// PoolRegistration links an external AMM pool to the authority this module controls it with.
type PoolRegistration struct {
	PoolID             string    `json:"pool_id"`
	DelegatedAuthority string    `json:"delegated_authority"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
	Asset0             string    `json:"asset_0"`
	Asset1             string    `json:"asset_1"`
}

// HasAsset reports whether denom is one of the pool's two assets.
func (p PoolRegistration) HasAsset(denom string) bool {
	return denom != "" && (denom == p.Asset0 || denom == p.Asset1)
}

// OtherAsset returns the counterpart of denom within the pool.
func (p PoolRegistration) OtherAsset(denom string) (string, bool) {
	switch denom {
	case p.Asset0:
		return p.Asset1, p.Asset1 != ""
	case p.Asset1:
		return p.Asset0, p.Asset0 != ""
	default:
		return "", false
	}
}

// Validate checks the registration against the derivation scheme and asset rules.
func (p PoolRegistration) Validate() error {
	if err := ValidatePoolID(p.PoolID); err != nil {
		return err
	}
	if err := VerifyDelegatedAuthority(p.PoolID, p.DelegatedAuthority); err != nil {
		return err
	}
	return validateAssetPair(p.Asset0, p.Asset1)
}

// OrderStatus represents the lifecycle of a durable order.
//
//	Pending → Executed
//	Pending → Cancelled
//	Pending → Failed
//
// Terminal states never change.
type OrderStatus uint8

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusExecuted  OrderStatus = 1
	OrderStatusCancelled OrderStatus = 2
	OrderStatusFailed    OrderStatus = 3
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusExecuted:
		return "executed"
	case OrderStatusCancelled:
		return "cancelled"
	case OrderStatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s != OrderStatusPending
}

// Order is a durable swap order keyed by (Owner, Sequence).
type Order struct {
	Sequence         uint64      `json:"sequence"`
	Owner            string      `json:"owner"`
	PoolID           string      `json:"pool_id"`
	AmountIn         uint64      `json:"amount_in"`
	MinAmountOut     uint64      `json:"min_amount_out"`
	IsBaseInput      bool        `json:"is_base_input"`
	SourceAsset      string      `json:"source_asset"`
	DestinationAsset string      `json:"destination_asset"`
	Status           OrderStatus `json:"status"`
	SubmittedAt      time.Time   `json:"submitted_at"`
	FinalizedAt      *time.Time  `json:"finalized_at,omitempty"`
	AmountOut        uint64      `json:"amount_out"`
	Executor         string      `json:"executor,omitempty"`
}

// Validate performs stateless validation of a stored order.
func (o Order) Validate() error {
	if o.Sequence == 0 {
		return ErrInvalidSequence.Wrap("sequence must be positive")
	}
	if _, err := sdk.AccAddressFromBech32(o.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("owner: %v", err)
	}
	if err := ValidatePoolID(o.PoolID); err != nil {
		return err
	}
	if err := ValidateSwapAmounts(o.AmountIn, o.MinAmountOut, o.IsBaseInput); err != nil {
		return err
	}
	if err := validateAssetPair(o.SourceAsset, o.DestinationAsset); err != nil {
		return err
	}
	if o.Status > OrderStatusFailed {
		return ErrInvalidOrderStatus.Wrapf("unknown status %d", o.Status)
	}
	if o.Status.IsTerminal() != (o.FinalizedAt != nil) {
		return ErrInvalidState.Wrapf("order %d: finalized_at inconsistent with status %s", o.Sequence, o.Status)
	}
	return nil
}

// ValidateSwapAmounts checks the amounts of a swap request. A base-input swap
// may carry a zero minimum output, meaning no floor. For base-output swaps
// minAmountOut is the maximum input and must be positive.
func ValidateSwapAmounts(amountIn, minAmountOut uint64, isBaseInput bool) error {
	if amountIn == 0 {
		return ErrInvalidAmount.Wrap("amount in must be positive")
	}
	if !isBaseInput && minAmountOut == 0 {
		return ErrInvalidAmount.Wrap("max amount in must be positive for base-output swaps")
	}
	return nil
}

// ValidatePoolID checks an external pool identifier.
func ValidatePoolID(poolID string) error {
	if poolID == "" {
		return ErrInvalidPoolConfig.Wrap("pool id cannot be empty")
	}
	if len(poolID) > MaxPoolIDLength {
		return ErrInvalidPoolConfig.Wrapf("pool id longer than %d bytes", MaxPoolIDLength)
	}
	return nil
}

// MaxPoolIDLength caps external pool identifiers.
const MaxPoolIDLength = 128

func validateAssetPair(a, b string) error {
	if err := sdk.ValidateDenom(a); err != nil {
		return ErrInvalidPoolConfig.Wrapf("asset %q: %v", a, err)
	}
	if err := sdk.ValidateDenom(b); err != nil {
		return ErrInvalidPoolConfig.Wrapf("asset %q: %v", b, err)
	}
	if a == b {
		return ErrInvalidPoolConfig.Wrapf("assets must differ, both are %s", a)
	}
	return nil
}
