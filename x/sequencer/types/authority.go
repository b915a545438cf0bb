package types

import (
	"bytes"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

// AuthoritySalt namespaces delegated pool authorities derived by this module.
const AuthoritySalt = "cp_pool_authority"

// DelegatedAuthorityLength is the byte length of a derived authority address.
const DelegatedAuthorityLength = 32

// AuthorityProof carries the derivation inputs of a delegated authority. The
// engine recomputes the address from it instead of checking a signature.
type AuthorityProof struct {
	Salt   string `json:"salt"`
	PoolID string `json:"pool_id"`
}

// NewAuthorityProof returns the proof for poolID under the module salt.
func NewAuthorityProof(poolID string) AuthorityProof {
	return AuthorityProof{Salt: AuthoritySalt, PoolID: poolID}
}

// Address recomputes the authority the proof stands for.
func (p AuthorityProof) Address() sdk.AccAddress {
	return deriveAuthority(p.Salt, p.PoolID)
}

// DeriveDelegatedAuthority returns the identity that controls poolID on the
// external engine. It is a pure function of (AuthoritySalt, poolID).
func DeriveDelegatedAuthority(poolID string) sdk.AccAddress {
	return deriveAuthority(AuthoritySalt, poolID)
}

func deriveAuthority(salt, poolID string) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, []byte(salt), []byte(poolID)))
}

// VerifyDelegatedAuthority checks that authority is the derived identity for poolID.
func VerifyDelegatedAuthority(poolID, authority string) error {
	addr, err := sdk.AccAddressFromBech32(authority)
	if err != nil {
		return ErrInvalidAddress.Wrapf("delegated authority: %v", err)
	}
	if !bytes.Equal(addr, DeriveDelegatedAuthority(poolID)) {
		return ErrUnauthorized.Wrapf("%s is not the delegated authority of pool %s", authority, poolID)
	}
	return nil
}
