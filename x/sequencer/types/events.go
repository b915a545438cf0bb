package types

// Event types for the sequencer module. Off-chain observers rebuild queue
// state from these, so names and attribute keys are part of the external
// interface.
const (
	EventTypeSequencerInitialized = "sequencer_initialized"
	EventTypeSequencerPaused      = "sequencer_paused"
	EventTypeSequencerUnpaused    = "sequencer_unpaused"
	EventTypeRelayerAdded         = "relayer_added"
	EventTypeRelayerRemoved       = "relayer_removed"
	EventTypeParamsUpdated        = "params_updated"

	EventTypePoolRegistered    = "pool_registered"
	EventTypePoolStatusChanged = "pool_status_changed"

	EventTypeOrderSubmitted = "order_submitted"
	EventTypeOrderExecuted  = "order_executed"
	EventTypeOrderCancelled = "order_cancelled"
	EventTypeOrderFailed    = "order_failed"
	EventTypeSwapExecuted   = "swap_executed"
)

// Event attribute keys
const (
	AttributeKeySequence           = "sequence"
	AttributeKeyOwner              = "owner"
	AttributeKeyPoolID             = "pool_id"
	AttributeKeyAmountIn           = "amount_in"
	AttributeKeyMinAmountOut       = "min_amount_out"
	AttributeKeyAmountOut          = "amount_out"
	AttributeKeyIsBaseInput        = "is_base_input"
	AttributeKeyExecutor           = "executor"
	AttributeKeyMode               = "mode"
	AttributeKeySourceAsset        = "source_asset"
	AttributeKeyDestinationAsset   = "destination_asset"
	AttributeKeyReason             = "reason"
	AttributeKeyDelegatedAuthority = "delegated_authority"
	AttributeKeyAsset0             = "asset_0"
	AttributeKeyAsset1             = "asset_1"
	AttributeKeyActive             = "active"
	AttributeKeyAdmin              = "admin"
	AttributeKeyRelayer            = "relayer"
	AttributeKeyTimestamp          = "timestamp"
)

// Submission modes carried by order_submitted
const (
	SubmissionModeDurable = "durable"
	SubmissionModeLite    = "lite"
)
