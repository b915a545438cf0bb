package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgInitialize creates the global sequencer record.
type MsgInitialize struct {
	Admin       string `json:"admin"`
	MaxRelayers uint32 `json:"max_relayers"`
}

// ValidateBasic performs stateless validation
func (msg *MsgInitialize) ValidateBasic() error {
	return validateAddress("admin", msg.Admin)
}

// MsgSetPause toggles the global emergency pause.
type MsgSetPause struct {
	Admin  string `json:"admin"`
	Paused bool   `json:"paused"`
}

// ValidateBasic performs stateless validation
func (msg *MsgSetPause) ValidateBasic() error {
	return validateAddress("admin", msg.Admin)
}

// MsgAddRelayer authorizes an executor.
type MsgAddRelayer struct {
	Admin   string `json:"admin"`
	Relayer string `json:"relayer"`
}

// ValidateBasic performs stateless validation
func (msg *MsgAddRelayer) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	return validateAddress("relayer", msg.Relayer)
}

// MsgRemoveRelayer revokes an executor.
type MsgRemoveRelayer struct {
	Admin   string `json:"admin"`
	Relayer string `json:"relayer"`
}

// ValidateBasic performs stateless validation
func (msg *MsgRemoveRelayer) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	return validateAddress("relayer", msg.Relayer)
}

// MsgUpdateParams replaces the module parameters.
type MsgUpdateParams struct {
	Admin  string `json:"admin"`
	Params Params `json:"params"`
}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateParams) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	return msg.Params.Validate()
}

// MsgRegisterPool creates a pool on the external engine under a delegated authority.
type MsgRegisterPool struct {
	Admin       string        `json:"admin"`
	PoolID      string        `json:"pool_id"`
	Asset0      string        `json:"asset_0"`
	Asset1      string        `json:"asset_1"`
	InitParams  InitParams    `json:"init_params"`
	PassThrough []AccountMeta `json:"pass_through"`
}

// ValidateBasic performs stateless validation
func (msg *MsgRegisterPool) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	if err := ValidatePoolID(msg.PoolID); err != nil {
		return err
	}
	if err := validateAssetPair(msg.Asset0, msg.Asset1); err != nil {
		return err
	}
	return validateAccountMetas(msg.PassThrough)
}

// MsgSetPoolActive activates or deactivates a registered pool.
type MsgSetPoolActive struct {
	Admin  string `json:"admin"`
	PoolID string `json:"pool_id"`
	Active bool   `json:"active"`
}

// ValidateBasic performs stateless validation
func (msg *MsgSetPoolActive) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	return ValidatePoolID(msg.PoolID)
}

// MsgSubmitOrder queues a durable order.
type MsgSubmitOrder struct {
	Owner        string `json:"owner"`
	PoolID       string `json:"pool_id"`
	AmountIn     uint64 `json:"amount_in"`
	MinAmountOut uint64 `json:"min_amount_out"`
	IsBaseInput  bool   `json:"is_base_input"`
	SourceAsset  string `json:"source_asset"`
}

// ValidateBasic performs stateless validation
func (msg *MsgSubmitOrder) ValidateBasic() error {
	return validateSubmission(msg.Owner, msg.PoolID, msg.AmountIn, msg.MinAmountOut, msg.IsBaseInput, msg.SourceAsset)
}

// MsgSubmitOrderLite advances the sequence and emits a notification without
// persisting the order.
type MsgSubmitOrderLite struct {
	Owner        string `json:"owner"`
	PoolID       string `json:"pool_id"`
	AmountIn     uint64 `json:"amount_in"`
	MinAmountOut uint64 `json:"min_amount_out"`
	IsBaseInput  bool   `json:"is_base_input"`
	SourceAsset  string `json:"source_asset"`
}

// ValidateBasic performs stateless validation
func (msg *MsgSubmitOrderLite) ValidateBasic() error {
	return validateSubmission(msg.Owner, msg.PoolID, msg.AmountIn, msg.MinAmountOut, msg.IsBaseInput, msg.SourceAsset)
}

// MsgExecuteOrder forwards the order at the head of a pool's queue to the
// engine. ExpectedSequence is the executor's view of that head.
type MsgExecuteOrder struct {
	Executor         string        `json:"executor"`
	PoolID           string        `json:"pool_id"`
	ExpectedSequence uint64        `json:"expected_sequence"`
	PassThrough      []AccountMeta `json:"pass_through"`
}

// ValidateBasic performs stateless validation
func (msg *MsgExecuteOrder) ValidateBasic() error {
	if err := validateAddress("executor", msg.Executor); err != nil {
		return err
	}
	if err := ValidatePoolID(msg.PoolID); err != nil {
		return err
	}
	if msg.ExpectedSequence == 0 {
		return ErrInvalidSequence.Wrap("expected sequence must be positive")
	}
	return validateAccountMetas(msg.PassThrough)
}

// MsgCancelOrder withdraws a pending order. Only the owner may send it.
type MsgCancelOrder struct {
	Owner    string `json:"owner"`
	Sequence uint64 `json:"sequence"`
}

// ValidateBasic performs stateless validation
func (msg *MsgCancelOrder) ValidateBasic() error {
	if err := validateAddress("owner", msg.Owner); err != nil {
		return err
	}
	if msg.Sequence == 0 {
		return ErrInvalidSequence.Wrap("sequence must be positive")
	}
	return nil
}

// MsgFailOrder lets an executor retire an order the engine will never accept.
type MsgFailOrder struct {
	Executor string `json:"executor"`
	Sequence uint64 `json:"sequence"`
	Reason   string `json:"reason"`
}

// MaxFailReasonLength caps the reason attached to a failed order.
const MaxFailReasonLength = 256

// ValidateBasic performs stateless validation
func (msg *MsgFailOrder) ValidateBasic() error {
	if err := validateAddress("executor", msg.Executor); err != nil {
		return err
	}
	if msg.Sequence == 0 {
		return ErrInvalidSequence.Wrap("sequence must be positive")
	}
	if len(msg.Reason) > MaxFailReasonLength {
		return ErrInvalidState.Wrapf("reason longer than %d bytes", MaxFailReasonLength)
	}
	return nil
}

// MsgSwapImmediate submits and executes in one step without persisting an order.
// PassThrough[0] and PassThrough[1] are the acting owner's source and
// destination references.
type MsgSwapImmediate struct {
	Relayer      string        `json:"relayer"`
	PoolID       string        `json:"pool_id"`
	AmountIn     uint64        `json:"amount_in"`
	MinAmountOut uint64        `json:"min_amount_out"`
	IsBaseInput  bool          `json:"is_base_input"`
	PassThrough  []AccountMeta `json:"pass_through"`
}

// ValidateBasic performs stateless validation
func (msg *MsgSwapImmediate) ValidateBasic() error {
	if err := validateAddress("relayer", msg.Relayer); err != nil {
		return err
	}
	if err := ValidatePoolID(msg.PoolID); err != nil {
		return err
	}
	if err := ValidateSwapAmounts(msg.AmountIn, msg.MinAmountOut, msg.IsBaseInput); err != nil {
		return err
	}
	if len(msg.PassThrough) < 2 {
		return ErrInvalidPassThrough.Wrap("owner source and destination references are required")
	}
	return validateAccountMetas(msg.PassThrough)
}

func validateSubmission(owner, poolID string, amountIn, minAmountOut uint64, isBaseInput bool, sourceAsset string) error {
	if err := validateAddress("owner", owner); err != nil {
		return err
	}
	if err := ValidatePoolID(poolID); err != nil {
		return err
	}
	if err := ValidateSwapAmounts(amountIn, minAmountOut, isBaseInput); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(sourceAsset); err != nil {
		return ErrInvalidPoolConfig.Wrapf("source asset: %v", err)
	}
	return nil
}

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return ErrInvalidAddress.Wrapf("invalid %s address: %v", field, err)
	}
	return nil
}

func validateAccountMetas(metas []AccountMeta) error {
	for i, m := range metas {
		if m.Address == "" {
			return ErrInvalidPassThrough.Wrapf("account %d has no address", i)
		}
		if m.Denom != "" {
			if err := sdk.ValidateDenom(m.Denom); err != nil {
				return ErrInvalidPassThrough.Wrapf("account %d: %v", i, err)
			}
		}
	}
	return nil
}
