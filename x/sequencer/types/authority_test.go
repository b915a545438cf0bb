package types

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

func TestDeriveDelegatedAuthority(t *testing.T) {
	a := DeriveDelegatedAuthority("atom-usdc")
	require.Len(t, a, DelegatedAuthorityLength)
	require.Equal(t, a, DeriveDelegatedAuthority("atom-usdc"))
	require.NotEqual(t, a, DeriveDelegatedAuthority("osmo-usdc"))

	// The proof recomputes the same identity.
	require.Equal(t, a, NewAuthorityProof("atom-usdc").Address())

	// A different salt yields a different identity.
	other := AuthorityProof{Salt: "other_salt", PoolID: "atom-usdc"}
	require.NotEqual(t, a, other.Address())
}

func TestVerifyDelegatedAuthority(t *testing.T) {
	a := DeriveDelegatedAuthority("atom-usdc")
	require.NoError(t, VerifyDelegatedAuthority("atom-usdc", a.String()))

	err := VerifyDelegatedAuthority("osmo-usdc", a.String())
	require.ErrorIs(t, err, ErrUnauthorized)

	err = VerifyDelegatedAuthority("atom-usdc", "garbage")
	require.ErrorIs(t, err, ErrInvalidAddress)

	err = VerifyDelegatedAuthority("atom-usdc", sdk.AccAddress(make([]byte, 20)).String())
	require.ErrorIs(t, err, ErrUnauthorized)
}
