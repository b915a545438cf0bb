package types

import (
	"context"
)

// MsgServer defines the message server interface
type MsgServer interface {
	Initialize(context.Context, *MsgInitialize) (*MsgInitializeResponse, error)
	SetPause(context.Context, *MsgSetPause) (*MsgSetPauseResponse, error)
	AddRelayer(context.Context, *MsgAddRelayer) (*MsgAddRelayerResponse, error)
	RemoveRelayer(context.Context, *MsgRemoveRelayer) (*MsgRemoveRelayerResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
	RegisterPool(context.Context, *MsgRegisterPool) (*MsgRegisterPoolResponse, error)
	SetPoolActive(context.Context, *MsgSetPoolActive) (*MsgSetPoolActiveResponse, error)
	SubmitOrder(context.Context, *MsgSubmitOrder) (*MsgSubmitOrderResponse, error)
	SubmitOrderLite(context.Context, *MsgSubmitOrderLite) (*MsgSubmitOrderLiteResponse, error)
	ExecuteOrder(context.Context, *MsgExecuteOrder) (*MsgExecuteOrderResponse, error)
	CancelOrder(context.Context, *MsgCancelOrder) (*MsgCancelOrderResponse, error)
	FailOrder(context.Context, *MsgFailOrder) (*MsgFailOrderResponse, error)
	SwapImmediate(context.Context, *MsgSwapImmediate) (*MsgSwapImmediateResponse, error)
}

// Response types

type MsgInitializeResponse struct{}

type MsgSetPauseResponse struct{}

type MsgAddRelayerResponse struct{}

type MsgRemoveRelayerResponse struct{}

type MsgUpdateParamsResponse struct{}

// MsgRegisterPoolResponse defines the response for RegisterPool
type MsgRegisterPoolResponse struct {
	DelegatedAuthority string `json:"delegated_authority"`
}

type MsgSetPoolActiveResponse struct{}

// MsgSubmitOrderResponse defines the response for SubmitOrder
type MsgSubmitOrderResponse struct {
	Sequence uint64 `json:"sequence"`
}

// MsgSubmitOrderLiteResponse defines the response for SubmitOrderLite
type MsgSubmitOrderLiteResponse struct {
	Sequence uint64 `json:"sequence"`
}

// MsgExecuteOrderResponse defines the response for ExecuteOrder
type MsgExecuteOrderResponse struct {
	AmountOut uint64 `json:"amount_out"`
}

type MsgCancelOrderResponse struct{}

type MsgFailOrderResponse struct{}

// MsgSwapImmediateResponse defines the response for SwapImmediate
type MsgSwapImmediateResponse struct {
	Sequence  uint64 `json:"sequence"`
	AmountOut uint64 `json:"amount_out"`
}
