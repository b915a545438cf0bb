package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the balance reads the sequencer needs to measure realized output.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// AMMEngine is the external automated-market-maker the sequencer forwards calls to.
//
// Invoke must verify call.Authority against call.Accounts[0] by recomputing
// the derived address, and must leave no effect behind when it returns an error.
type AMMEngine interface {
	Invoke(ctx context.Context, call ForwardedCall) error
}
