package types

// Default parameter values
const (
	DefaultEngine                 = "cp-swap"
	DefaultMaxPassThroughAccounts = uint32(16)
)

// Params defines the configurable parameters of the sequencer module.
type Params struct {
	// Engine identifies the external AMM engine forwarded calls are addressed to.
	Engine string `json:"engine"`
	// StrictPassThrough cross-checks caller-supplied pass-through references
	// against the pool registration before forwarding.
	StrictPassThrough bool `json:"strict_pass_through"`
	// EnforceSlippage checks the measured output against the order's bounds
	// instead of relying on the engine alone.
	EnforceSlippage bool `json:"enforce_slippage"`
	// MaxPassThroughAccounts caps the caller-supplied account list.
	MaxPassThroughAccounts uint32 `json:"max_pass_through_accounts"`
}

// DefaultParams returns default parameters for the sequencer module
func DefaultParams() Params {
	return Params{
		Engine:                 DefaultEngine,
		StrictPassThrough:      true,
		EnforceSlippage:        true,
		MaxPassThroughAccounts: DefaultMaxPassThroughAccounts,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.Engine == "" {
		return ErrInvalidParams.Wrap("engine cannot be empty")
	}
	if p.MaxPassThroughAccounts == 0 {
		return ErrInvalidParams.Wrap("max pass-through accounts must be positive")
	}
	return nil
}
