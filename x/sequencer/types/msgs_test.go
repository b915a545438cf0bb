package types

import (
	"strings"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
)

var (
	testOwner = sdk.AccAddress([]byte("owner_______________")).String()
	testAdmin = sdk.AccAddress([]byte("admin_______________")).String()
)

func TestMsgSubmitOrderValidateBasic(t *testing.T) {
	valid := MsgSubmitOrder{Owner: testOwner, PoolID: "p", AmountIn: 10, MinAmountOut: 1, IsBaseInput: true, SourceAsset: "uatom"}

	tests := []struct {
		name   string
		mutate func(*MsgSubmitOrder)
		err    error
	}{
		{"valid", func(*MsgSubmitOrder) {}, nil},
		{"bad owner", func(m *MsgSubmitOrder) { m.Owner = "x" }, ErrInvalidAddress},
		{"empty pool", func(m *MsgSubmitOrder) { m.PoolID = "" }, ErrInvalidPoolConfig},
		{"long pool", func(m *MsgSubmitOrder) { m.PoolID = strings.Repeat("p", MaxPoolIDLength+1) }, ErrInvalidPoolConfig},
		{"zero in", func(m *MsgSubmitOrder) { m.AmountIn = 0 }, ErrInvalidAmount},
		{"zero min out base input", func(m *MsgSubmitOrder) { m.MinAmountOut = 0 }, nil},
		{"zero max in base output", func(m *MsgSubmitOrder) { m.MinAmountOut = 0; m.IsBaseInput = false }, ErrInvalidAmount},
		{"bad denom", func(m *MsgSubmitOrder) { m.SourceAsset = "1" }, ErrInvalidPoolConfig},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := valid
			tc.mutate(&msg)
			err := msg.ValidateBasic()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}

	lite := MsgSubmitOrderLite(valid)
	require.NoError(t, lite.ValidateBasic())
}

func TestMsgRegisterPoolValidateBasic(t *testing.T) {
	msg := MsgRegisterPool{Admin: testAdmin, PoolID: "p", Asset0: "uatom", Asset1: "uusdc"}
	require.NoError(t, msg.ValidateBasic())

	msg.Asset1 = "uatom"
	require.ErrorIs(t, msg.ValidateBasic(), ErrInvalidPoolConfig)

	msg.Asset1 = "uusdc"
	msg.PassThrough = []AccountMeta{{Denom: "uatom"}}
	require.ErrorIs(t, msg.ValidateBasic(), ErrInvalidPassThrough)
}

func TestMsgExecuteOrderValidateBasic(t *testing.T) {
	msg := MsgExecuteOrder{Executor: testOwner, PoolID: "p", ExpectedSequence: 1}
	require.NoError(t, msg.ValidateBasic())

	msg.ExpectedSequence = 0
	require.ErrorIs(t, msg.ValidateBasic(), ErrInvalidSequence)
}

func TestMsgFailOrderValidateBasic(t *testing.T) {
	msg := MsgFailOrder{Executor: testOwner, Sequence: 1, Reason: "x"}
	require.NoError(t, msg.ValidateBasic())

	msg.Reason = strings.Repeat("x", MaxFailReasonLength+1)
	require.Error(t, msg.ValidateBasic())
}

func TestMsgSwapImmediateValidateBasic(t *testing.T) {
	refs := []AccountMeta{NewAccountMeta(testOwner, "uatom"), NewAccountMeta(testOwner, "uusdc")}
	msg := MsgSwapImmediate{Relayer: testAdmin, PoolID: "p", AmountIn: 1, MinAmountOut: 1, IsBaseInput: true, PassThrough: refs}
	require.NoError(t, msg.ValidateBasic())

	msg.MinAmountOut = 0
	require.NoError(t, msg.ValidateBasic())
	msg.IsBaseInput = false
	require.ErrorIs(t, msg.ValidateBasic(), ErrInvalidAmount)
	msg.MinAmountOut, msg.IsBaseInput = 1, true

	msg.PassThrough = refs[:1]
	require.ErrorIs(t, msg.ValidateBasic(), ErrInvalidPassThrough)
}

func TestAdminMsgsValidateBasic(t *testing.T) {
	require.NoError(t, (&MsgInitialize{Admin: testAdmin}).ValidateBasic())
	require.ErrorIs(t, (&MsgInitialize{}).ValidateBasic(), ErrInvalidAddress)
	require.ErrorIs(t, (&MsgAddRelayer{Admin: testAdmin, Relayer: "x"}).ValidateBasic(), ErrInvalidAddress)
	require.ErrorIs(t, (&MsgUpdateParams{Admin: testAdmin}).ValidateBasic(), ErrInvalidParams)
	require.ErrorIs(t, (&MsgCancelOrder{Owner: testOwner}).ValidateBasic(), ErrInvalidSequence)
}
