package types

import (
	"encoding/binary"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Opcode selects an entry point of the external AMM engine.
type Opcode [8]byte

// Engine entry points. These byte strings are fixed by the engine and any
// deviation is rejected by it.
var (
	OpcodeInitializePool = Opcode{175, 175, 109, 31, 13, 152, 155, 237}
	OpcodeSwapBaseInput  = Opcode{143, 190, 90, 218, 196, 30, 51, 222}
	OpcodeSwapBaseOutput = Opcode{55, 217, 98, 86, 163, 74, 180, 173}
)

const (
	// SwapPayloadLength is opcode + two little-endian uint64 values.
	SwapPayloadLength = 8 + 8 + 8

	// InitializePayloadLength is opcode + three LE64 + authority type + option tag + authority.
	InitializePayloadLength = 8 + 3*8 + 1 + 1 + DelegatedAuthorityLength

	// authorityTypeCustom tells the engine the pool is controlled by a custom authority.
	authorityTypeCustom byte = 1
	optionSome          byte = 1
)

// AccountMeta is one entry of a forwarded call's account list. Denom is set
// when the entry references a balance of Address rather than the account itself.
type AccountMeta struct {
	Address    string `json:"address"`
	Denom      string `json:"denom,omitempty"`
	IsSigner   bool   `json:"is_signer,omitempty"`
	IsWritable bool   `json:"is_writable,omitempty"`
}

// NewAccountMeta returns a writable, non-signer reference.
func NewAccountMeta(addr, denom string) AccountMeta {
	return AccountMeta{Address: addr, Denom: denom, IsWritable: true}
}

// NewReadonlyAccountMeta returns a read-only, non-signer reference.
func NewReadonlyAccountMeta(addr, denom string) AccountMeta {
	return AccountMeta{Address: addr, Denom: denom}
}

// ForwardedCall is a call into the external engine issued under a delegated authority.
type ForwardedCall struct {
	Engine    string         `json:"engine"`
	Accounts  []AccountMeta  `json:"accounts"`
	Data      []byte         `json:"data"`
	Authority AuthorityProof `json:"authority"`
}

// Opcode returns the entry point selected by the payload.
func (c ForwardedCall) Opcode() (Opcode, bool) {
	var op Opcode
	if len(c.Data) < len(op) {
		return op, false
	}
	copy(op[:], c.Data[:len(op)])
	return op, true
}

// EncodeSwapPayload builds the swap payload.
//
// Base input:  OpcodeSwapBaseInput  ++ LE64(amountIn) ++ LE64(minAmountOut)
// Base output: OpcodeSwapBaseOutput ++ LE64(maxAmountIn) ++ LE64(amountOut)
//
// For base-output orders the stored amount_in is the exact output wanted and
// min_amount_out is the most the owner is willing to spend.
func EncodeSwapPayload(isBaseInput bool, amountIn, minAmountOut uint64) []byte {
	bz := make([]byte, 0, SwapPayloadLength)
	if isBaseInput {
		bz = append(bz, OpcodeSwapBaseInput[:]...)
		bz = binary.LittleEndian.AppendUint64(bz, amountIn)
		return binary.LittleEndian.AppendUint64(bz, minAmountOut)
	}
	bz = append(bz, OpcodeSwapBaseOutput[:]...)
	bz = binary.LittleEndian.AppendUint64(bz, minAmountOut)
	return binary.LittleEndian.AppendUint64(bz, amountIn)
}

// SwapInstruction is a decoded swap payload. Only the fields of the selected
// entry point are populated.
type SwapInstruction struct {
	IsBaseInput  bool
	AmountIn     uint64
	MinAmountOut uint64
	MaxAmountIn  uint64
	AmountOut    uint64
}

// DecodeSwapPayload parses a payload produced by EncodeSwapPayload.
func DecodeSwapPayload(bz []byte) (SwapInstruction, error) {
	if len(bz) != SwapPayloadLength {
		return SwapInstruction{}, fmt.Errorf("swap payload must be %d bytes, got %d", SwapPayloadLength, len(bz))
	}
	var op Opcode
	copy(op[:], bz[:8])
	first := binary.LittleEndian.Uint64(bz[8:16])
	second := binary.LittleEndian.Uint64(bz[16:24])

	switch op {
	case OpcodeSwapBaseInput:
		return SwapInstruction{IsBaseInput: true, AmountIn: first, MinAmountOut: second}, nil
	case OpcodeSwapBaseOutput:
		return SwapInstruction{MaxAmountIn: first, AmountOut: second}, nil
	default:
		return SwapInstruction{}, fmt.Errorf("unknown swap opcode %v", op)
	}
}

// InitParams are the pool-creation parameters forwarded to the engine.
type InitParams struct {
	InitAmount0 uint64 `json:"init_amount_0"`
	InitAmount1 uint64 `json:"init_amount_1"`
	OpenTime    uint64 `json:"open_time"`
}

// EncodeInitializePayload builds the pool-creation payload naming authority
// as the pool's custom controlling identity.
func EncodeInitializePayload(p InitParams, authority sdk.AccAddress) ([]byte, error) {
	if len(authority) != DelegatedAuthorityLength {
		return nil, ErrInvalidAddress.Wrapf("authority must be %d bytes, got %d", DelegatedAuthorityLength, len(authority))
	}
	bz := make([]byte, 0, InitializePayloadLength)
	bz = append(bz, OpcodeInitializePool[:]...)
	bz = binary.LittleEndian.AppendUint64(bz, p.InitAmount0)
	bz = binary.LittleEndian.AppendUint64(bz, p.InitAmount1)
	bz = binary.LittleEndian.AppendUint64(bz, p.OpenTime)
	bz = append(bz, authorityTypeCustom, optionSome)
	return append(bz, authority...), nil
}

// DecodeInitializePayload parses a payload produced by EncodeInitializePayload.
func DecodeInitializePayload(bz []byte) (InitParams, sdk.AccAddress, error) {
	if len(bz) != InitializePayloadLength {
		return InitParams{}, nil, fmt.Errorf("initialize payload must be %d bytes, got %d", InitializePayloadLength, len(bz))
	}
	var op Opcode
	copy(op[:], bz[:8])
	if op != OpcodeInitializePool {
		return InitParams{}, nil, fmt.Errorf("unknown initialize opcode %v", op)
	}
	p := InitParams{
		InitAmount0: binary.LittleEndian.Uint64(bz[8:16]),
		InitAmount1: binary.LittleEndian.Uint64(bz[16:24]),
		OpenTime:    binary.LittleEndian.Uint64(bz[24:32]),
	}
	if bz[32] != authorityTypeCustom || bz[33] != optionSome {
		return InitParams{}, nil, fmt.Errorf("pool must be created with a custom authority")
	}
	authority := sdk.AccAddress(append([]byte(nil), bz[34:]...))
	return p, authority, nil
}
