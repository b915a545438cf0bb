package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/continuum-labs/continuum/observer/config"
	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store persists the projected sequencer view.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		if cfg.Path != ":memory:" && !strings.HasPrefix(cfg.Path, "file:") {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create DB directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Path)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	// sqlite allows a single writer
	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction runs fn against a transactional Store. Any error rolls back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// ======================================================================================
// Orders
// ======================================================================================

// InsertOrder records a submission. An existing row for the same sequence is
// left untouched and false is returned.
func (s *Store) InsertOrder(row *OrderRow) (bool, error) {
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FinalizeOrder moves a pending order to status. Orders already terminal are
// not modified. When no row exists (the observer started after the
// submission) a row is created from update.
func (s *Store) FinalizeOrder(update OrderRow) (bool, error) {
	res := s.db.Model(&OrderRow{}).
		Where("sequence = ? AND status = ?", update.Sequence, types.OrderStatusPending.String()).
		Updates(map[string]interface{}{
			"status":           update.Status,
			"amount_out":       update.AmountOut,
			"executor":         update.Executor,
			"reason":           update.Reason,
			"finalized_height": update.FinalizedHeight,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	update.Persisted = true
	return s.InsertOrder(&update)
}

// GetOrder loads the order with the given owner and sequence.
func (s *Store) GetOrder(owner string, sequence uint64) (*OrderRow, error) {
	var row OrderRow
	err := s.db.Where("owner = ? AND sequence = ?", owner, sequence).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// PendingOrders lists durable pending orders in sequence order. An empty
// poolID matches every pool.
func (s *Store) PendingOrders(poolID string, limit int) ([]OrderRow, error) {
	q := s.db.Where("status = ? AND persisted = ?", types.OrderStatusPending.String(), true)
	if poolID != "" {
		q = q.Where("pool_id = ?", poolID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []OrderRow
	if err := q.Order("sequence ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountOrdersByStatus returns the number of orders per status.
func (s *Store) CountOrdersByStatus() (map[string]int64, error) {
	var results []struct {
		Status string
		Count  int64
	}
	err := s.db.Model(&OrderRow{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// ======================================================================================
// Pools
// ======================================================================================

// UpsertPool creates or replaces a pool row.
func (s *Store) UpsertPool(row *PoolRow) error {
	return s.db.Save(row).Error
}

// SetPoolActive flips a pool's active flag.
func (s *Store) SetPoolActive(poolID string, active bool) error {
	res := s.db.Model(&PoolRow{}).Where("pool_id = ?", poolID).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPool loads a single pool.
func (s *Store) GetPool(poolID string) (*PoolRow, error) {
	var row PoolRow
	err := s.db.Where("pool_id = ?", poolID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Pools lists all pools ordered by id.
func (s *Store) Pools() ([]PoolRow, error) {
	var rows []PoolRow
	if err := s.db.Order("pool_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ======================================================================================
// Relayers
// ======================================================================================

// AddRelayer records an authorized relayer.
func (s *Store) AddRelayer(address string, height int64) error {
	return s.db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "address"}}, DoNothing: true}).
		Create(&RelayerRow{Address: address, AddedHeight: height}).Error
}

// RemoveRelayer deletes a relayer if present.
func (s *Store) RemoveRelayer(address string) error {
	return s.db.Where("address = ?", address).Delete(&RelayerRow{}).Error
}

// Relayers lists relayer addresses in the order they were added.
func (s *Store) Relayers() ([]string, error) {
	var addrs []string
	if err := s.db.Model(&RelayerRow{}).Order("added_height ASC, id ASC").Pluck("address", &addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

// ======================================================================================
// Sequencer state
// ======================================================================================

// State returns the singleton row, or a zero row before anything was applied.
func (s *Store) State() (SequencerRow, error) {
	var row SequencerRow
	err := s.db.Where("id = ?", sequencerRowID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SequencerRow{ID: sequencerRowID}, nil
	}
	return row, err
}

// SaveState writes the singleton row.
func (s *Store) SaveState(row SequencerRow) error {
	row.ID = sequencerRowID
	row.UpdatedAt = time.Now().UTC()
	return s.db.Save(&row).Error
}
