package store

import "time"

// OrderRow is the projected view of one submitted order. Lite submissions
// are recorded with Persisted=false since the chain keeps no record of them.
type OrderRow struct {
	Sequence         uint64 `gorm:"primaryKey;autoIncrement:false"`
	Owner            string `gorm:"index:idx_orders_owner;size:128"`
	PoolID           string `gorm:"index:idx_orders_pool_status;size:64"`
	Status           string `gorm:"index:idx_orders_pool_status;size:16"`
	AmountIn         uint64
	MinAmountOut     uint64
	AmountOut        uint64
	IsBaseInput      bool
	SourceAsset      string `gorm:"size:128"`
	DestinationAsset string `gorm:"size:128"`
	Persisted        bool
	Executor         string `gorm:"size:128"`
	Reason           string
	SubmittedHeight  int64
	FinalizedHeight  int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName overrides the gorm default
func (OrderRow) TableName() string { return "sequencer_orders" }

// PoolRow mirrors a registered pool.
type PoolRow struct {
	PoolID             string `gorm:"primaryKey;size:64"`
	DelegatedAuthority string `gorm:"size:128"`
	Asset0             string `gorm:"size:128"`
	Asset1             string `gorm:"size:128"`
	Active             bool
	RegisteredHeight   int64
	UpdatedAt          time.Time
}

// TableName overrides the gorm default
func (PoolRow) TableName() string { return "sequencer_pools" }

// RelayerRow is one authorized relayer. ID follows insertion order, which is
// the order of the on-chain allow-list.
type RelayerRow struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Address     string `gorm:"uniqueIndex;size:128;not null"`
	AddedHeight int64  `gorm:"index"`
}

// TableName overrides the gorm default
func (RelayerRow) TableName() string { return "sequencer_relayers" }

// SequencerRow holds singleton state plus the projection cursor.
type SequencerRow struct {
	ID             uint `gorm:"primaryKey"`
	Admin          string
	Initialized    bool
	Paused         bool
	LastSequence   uint64
	ImmediateSwaps uint64
	LastHeight     int64
	LastTxIndex    uint32
	UpdatedAt      time.Time
}

// TableName overrides the gorm default
func (SequencerRow) TableName() string { return "sequencer_state" }

const sequencerRowID = 1

func allModels() []interface{} {
	return []interface{}{&OrderRow{}, &PoolRow{}, &RelayerRow{}, &SequencerRow{}}
}
