package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/continuum-labs/continuum/observer/internal/store"
)

// OrderView is the JSON shape of a projected order
type OrderView struct {
	Sequence         uint64 `json:"sequence"`
	Owner            string `json:"owner"`
	PoolID           string `json:"pool_id"`
	Status           string `json:"status"`
	AmountIn         uint64 `json:"amount_in"`
	MinAmountOut     uint64 `json:"min_amount_out"`
	AmountOut        uint64 `json:"amount_out"`
	IsBaseInput      bool   `json:"is_base_input"`
	SourceAsset      string `json:"source_asset"`
	DestinationAsset string `json:"destination_asset"`
	Persisted        bool   `json:"persisted"`
	Executor         string `json:"executor,omitempty"`
	Reason           string `json:"reason,omitempty"`
	SubmittedHeight  int64  `json:"submitted_height"`
	FinalizedHeight  int64  `json:"finalized_height,omitempty"`
}

// PoolView is the JSON shape of a projected pool
type PoolView struct {
	PoolID             string `json:"pool_id"`
	DelegatedAuthority string `json:"delegated_authority"`
	Asset0             string `json:"asset_0"`
	Asset1             string `json:"asset_1"`
	Active             bool   `json:"active"`
	RegisteredHeight   int64  `json:"registered_height"`
}

// StateView summarizes the sequencer singleton and projection progress
type StateView struct {
	Admin          string           `json:"admin"`
	Initialized    bool             `json:"initialized"`
	Paused         bool             `json:"paused"`
	LastSequence   uint64           `json:"last_sequence"`
	ImmediateSwaps uint64           `json:"immediate_swaps"`
	Relayers       []string         `json:"relayers"`
	OrderCounts    map[string]int64 `json:"order_counts"`
	Height         int64            `json:"height"`
	TxIndex        uint32           `json:"tx_index"`
}

func orderView(row store.OrderRow) OrderView {
	return OrderView{
		Sequence:         row.Sequence,
		Owner:            row.Owner,
		PoolID:           row.PoolID,
		Status:           row.Status,
		AmountIn:         row.AmountIn,
		MinAmountOut:     row.MinAmountOut,
		AmountOut:        row.AmountOut,
		IsBaseInput:      row.IsBaseInput,
		SourceAsset:      row.SourceAsset,
		DestinationAsset: row.DestinationAsset,
		Persisted:        row.Persisted,
		Executor:         row.Executor,
		Reason:           row.Reason,
		SubmittedHeight:  row.SubmittedHeight,
		FinalizedHeight:  row.FinalizedHeight,
	}
}

func poolView(row store.PoolRow) PoolView {
	return PoolView{
		PoolID:             row.PoolID,
		DelegatedAuthority: row.DelegatedAuthority,
		Asset0:             row.Asset0,
		Asset1:             row.Asset1,
		Active:             row.Active,
		RegisteredHeight:   row.RegisteredHeight,
	}
}

func (s *Server) internalError(c *gin.Context, msg string, err error) {
	s.log.Error(msg, "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": msg})
}

// handleHealth reports liveness plus store connectivity
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	state, err := s.store.State()
	if err != nil {
		s.internalError(c, "failed to load state", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"height":    state.LastHeight,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetState(c *gin.Context) {
	state, err := s.store.State()
	if err != nil {
		s.internalError(c, "failed to load state", err)
		return
	}
	relayers, err := s.store.Relayers()
	if err != nil {
		s.internalError(c, "failed to load relayers", err)
		return
	}
	counts, err := s.store.CountOrdersByStatus()
	if err != nil {
		s.internalError(c, "failed to count orders", err)
		return
	}

	c.JSON(http.StatusOK, StateView{
		Admin:          state.Admin,
		Initialized:    state.Initialized,
		Paused:         state.Paused,
		LastSequence:   state.LastSequence,
		ImmediateSwaps: state.ImmediateSwaps,
		Relayers:       relayers,
		OrderCounts:    counts,
		Height:         state.LastHeight,
		TxIndex:        state.LastTxIndex,
	})
}

func (s *Server) handleGetPools(c *gin.Context) {
	rows, err := s.store.Pools()
	if err != nil {
		s.internalError(c, "failed to load pools", err)
		return
	}

	pools := make([]PoolView, 0, len(rows))
	for _, row := range rows {
		pools = append(pools, poolView(row))
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

func (s *Server) handleGetPool(c *gin.Context) {
	row, err := s.store.GetPool(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "pool_not_found"})
		return
	}
	if err != nil {
		s.internalError(c, "failed to load pool", err)
		return
	}
	c.JSON(http.StatusOK, poolView(*row))
}

// handleGetQueue lists pending durable orders in execution order
func (s *Server) handleGetQueue(c *gin.Context) {
	limit := s.config.PendingLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_limit"})
			return
		}
		if n < limit {
			limit = n
		}
	}

	rows, err := s.store.PendingOrders(c.Query("pool_id"), limit)
	if err != nil {
		s.internalError(c, "failed to load pending orders", err)
		return
	}

	orders := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, orderView(row))
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	seq, err := strconv.ParseUint(c.Param("sequence"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_sequence"})
		return
	}

	row, err := s.store.GetOrder(c.Param("owner"), seq)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
		return
	}
	if err != nil {
		s.internalError(c, "failed to load order", err)
		return
	}
	c.JSON(http.StatusOK, orderView(*row))
}
