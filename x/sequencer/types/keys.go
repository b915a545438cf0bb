package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "sequencer"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Store key prefixes
var (
	// SequencerStateKey holds the single global sequencer record
	SequencerStateKey = []byte{0x01}

	// PoolRegistrationKeyPrefix is the prefix for pool registrations (key: poolID)
	PoolRegistrationKeyPrefix = []byte{0x02}

	// OrderKeyPrefix is the prefix for durable orders.
	// Key format: 0x03 || len(owner) || owner || sequence
	OrderKeyPrefix = []byte{0x03}

	// OrderBySequenceKeyPrefix indexes orders by sequence; value is the owner address.
	// Key format: 0x04 || sequence
	OrderBySequenceKeyPrefix = []byte{0x04}

	// PendingOrderKeyPrefix indexes pending orders in global FIFO order.
	// Key format: 0x05 || sequence
	PendingOrderKeyPrefix = []byte{0x05}

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x06}

	// PoolQueueKeyPrefix indexes pending orders per pool; the first key under
	// a pool is the head of that pool's queue.
	// Key format: 0x07 || len(poolID) || poolID || sequence
	PoolQueueKeyPrefix = []byte{0x07}

	// PendingCountKey holds the number of entries in the pending index
	PendingCountKey = []byte{0x08}
)

// PoolRegistrationKey returns the store key for a pool registration
func PoolRegistrationKey(poolID string) []byte {
	return append(append([]byte{}, PoolRegistrationKeyPrefix...), []byte(poolID)...)
}

// OrderKey returns the store key for an order identified by (owner, sequence)
func OrderKey(owner sdk.AccAddress, sequence uint64) []byte {
	key := append([]byte{}, OrderKeyPrefix...)
	key = append(key, byte(len(owner)))
	key = append(key, owner.Bytes()...)
	return append(key, sdk.Uint64ToBigEndian(sequence)...)
}

// OrdersByOwnerPrefix returns the prefix covering every order of an owner
func OrdersByOwnerPrefix(owner sdk.AccAddress) []byte {
	key := append([]byte{}, OrderKeyPrefix...)
	key = append(key, byte(len(owner)))
	return append(key, owner.Bytes()...)
}

// OrderBySequenceKey returns the index key mapping a sequence to its owner
func OrderBySequenceKey(sequence uint64) []byte {
	return append(append([]byte{}, OrderBySequenceKeyPrefix...), sdk.Uint64ToBigEndian(sequence)...)
}

// PendingOrderKey returns the FIFO index key for a pending order
func PendingOrderKey(sequence uint64) []byte {
	return append(append([]byte{}, PendingOrderKeyPrefix...), sdk.Uint64ToBigEndian(sequence)...)
}

// PoolQueuePrefix returns the prefix covering a pool's pending orders
func PoolQueuePrefix(poolID string) []byte {
	key := append([]byte{}, PoolQueueKeyPrefix...)
	key = append(key, byte(len(poolID)))
	return append(key, []byte(poolID)...)
}

// PoolQueueKey returns the per-pool FIFO index key for a pending order
func PoolQueueKey(poolID string, sequence uint64) []byte {
	return append(PoolQueuePrefix(poolID), sdk.Uint64ToBigEndian(sequence)...)
}
