package types

import (
	"cosmossdk.io/errors"
)

// Sequencer module sentinel errors
var (
	ErrInvalidSequence       = errors.Register(ModuleName, 2, "invalid sequence number")
	ErrInvalidOrderStatus    = errors.Register(ModuleName, 3, "invalid order status")
	ErrOrderNotFound         = errors.Register(ModuleName, 4, "order not found")
	ErrUnauthorized          = errors.Register(ModuleName, 5, "unauthorized")
	ErrPoolNotRegistered     = errors.Register(ModuleName, 6, "pool not registered")
	ErrPoolAlreadyRegistered = errors.Register(ModuleName, 7, "pool already registered")
	ErrEmergencyPause        = errors.Register(ModuleName, 8, "emergency pause is active")
	ErrInvalidPoolConfig     = errors.Register(ModuleName, 9, "invalid pool configuration")
	ErrSlippageExceeded      = errors.Register(ModuleName, 10, "slippage tolerance exceeded")
	ErrAlreadyInitialized    = errors.Register(ModuleName, 11, "sequencer already initialized")
	ErrNotInitialized        = errors.Register(ModuleName, 12, "sequencer not initialized")
	ErrRelayerExists         = errors.Register(ModuleName, 13, "relayer already authorized")
	ErrRelayerSetFull        = errors.Register(ModuleName, 14, "relayer set is full")
	ErrStateConflict         = errors.Register(ModuleName, 15, "sequencer state modified concurrently")
	ErrForwardedCallFailed   = errors.Register(ModuleName, 16, "forwarded call failed")
	ErrInvalidPassThrough    = errors.Register(ModuleName, 17, "invalid pass-through account")
	ErrInvalidAmount         = errors.Register(ModuleName, 18, "invalid amount")
	ErrInvalidAddress        = errors.Register(ModuleName, 19, "invalid address")
	ErrInvalidParams         = errors.Register(ModuleName, 20, "invalid params")
	ErrInvalidState          = errors.Register(ModuleName, 21, "invalid state")
)
