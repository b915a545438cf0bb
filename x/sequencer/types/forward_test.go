package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeSwapPayloadBaseInput(t *testing.T) {
	bz := EncodeSwapPayload(true, 1_000_000, 990_000)
	require.Equal(t, []byte{
		143, 190, 90, 218, 196, 30, 51, 222,
		0x40, 0x42, 0x0f, 0, 0, 0, 0, 0,
		0x30, 0x1b, 0x0f, 0, 0, 0, 0, 0,
	}, bz)
}

func TestEncodeSwapPayloadBaseOutput(t *testing.T) {
	// amount_in is the exact output, min_amount_out the maximum input.
	bz := EncodeSwapPayload(false, 500, 600)
	require.Equal(t, []byte{
		55, 217, 98, 86, 163, 74, 180, 173,
		0x58, 0x02, 0, 0, 0, 0, 0, 0,
		0xf4, 0x01, 0, 0, 0, 0, 0, 0,
	}, bz)
}

func TestSwapPayloadRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.Bool().Draw(rt, "base_input")
		amountIn := rapid.Uint64().Draw(rt, "amount_in")
		minOut := rapid.Uint64().Draw(rt, "min_amount_out")

		bz := EncodeSwapPayload(base, amountIn, minOut)
		require.Len(rt, bz, SwapPayloadLength)

		ix, err := DecodeSwapPayload(bz)
		require.NoError(rt, err)
		require.Equal(rt, base, ix.IsBaseInput)
		if base {
			require.Equal(rt, amountIn, ix.AmountIn)
			require.Equal(rt, minOut, ix.MinAmountOut)
		} else {
			require.Equal(rt, minOut, ix.MaxAmountIn)
			require.Equal(rt, amountIn, ix.AmountOut)
		}
	})
}

func TestDecodeSwapPayloadRejects(t *testing.T) {
	_, err := DecodeSwapPayload(make([]byte, SwapPayloadLength-1))
	require.Error(t, err)

	bz := EncodeSwapPayload(true, 1, 1)
	bz[0] ^= 0xff
	_, err = DecodeSwapPayload(bz)
	require.Error(t, err)
}

func TestEncodeInitializePayload(t *testing.T) {
	authority := DeriveDelegatedAuthority("atom-usdc")
	p := InitParams{InitAmount0: 1, InitAmount1: 2, OpenTime: 3}

	bz, err := EncodeInitializePayload(p, authority)
	require.NoError(t, err)
	require.Len(t, bz, InitializePayloadLength)

	require.Equal(t, OpcodeInitializePool[:], bz[:8])
	require.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, bz[8:16])
	require.Equal(t, []byte{2, 0, 0, 0, 0, 0, 0, 0}, bz[16:24])
	require.Equal(t, []byte{3, 0, 0, 0, 0, 0, 0, 0}, bz[24:32])
	require.Equal(t, []byte{1, 1}, bz[32:34])
	require.Equal(t, []byte(authority), bz[34:])

	decoded, decodedAuthority, err := DecodeInitializePayload(bz)
	require.NoError(t, err)
	require.Equal(t, p, decoded)
	require.Equal(t, authority, decodedAuthority)
}

func TestEncodeInitializePayloadRejectsShortAuthority(t *testing.T) {
	_, err := EncodeInitializePayload(InitParams{}, make([]byte, 20))
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestDecodeInitializePayloadRequiresCustomAuthority(t *testing.T) {
	bz, err := EncodeInitializePayload(InitParams{}, DeriveDelegatedAuthority("p"))
	require.NoError(t, err)
	bz[32] = 0
	_, _, err = DecodeInitializePayload(bz)
	require.Error(t, err)
}

func TestForwardedCallOpcode(t *testing.T) {
	op, ok := ForwardedCall{Data: EncodeSwapPayload(true, 1, 1)}.Opcode()
	require.True(t, ok)
	require.Equal(t, OpcodeSwapBaseInput, op)

	_, ok = ForwardedCall{Data: []byte{1, 2, 3}}.Opcode()
	require.False(t, ok)
}
