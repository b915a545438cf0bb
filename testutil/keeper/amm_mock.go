package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// MockAMM is a constant-product engine backed by its own KV store, so a
// rolled-back cache context also reverts whatever the engine did. It serves
// as both the sequencer's AMMEngine and its BankKeeper.
type MockAMM struct {
	storeKey storetypes.StoreKey
	engine   string

	// FailNext makes the next Invoke return this error.
	FailNext error
	// IgnoreLimits skips the engine-side min-out / max-in checks so keeper
	// side slippage enforcement can be observed.
	IgnoreLimits bool
	// Calls records every call the engine accepted for inspection, including
	// calls whose surrounding transaction was later rolled back.
	Calls []types.ForwardedCall
}

var (
	_ types.AMMEngine  = (*MockAMM)(nil)
	_ types.BankKeeper = (*MockAMM)(nil)
)

// MockPool is the engine's view of a pool.
type MockPool struct {
	Asset0    string   `json:"asset_0"`
	Asset1    string   `json:"asset_1"`
	Reserve0  math.Int `json:"reserve_0"`
	Reserve1  math.Int `json:"reserve_1"`
	Authority string   `json:"authority"`
	OpenTime  uint64   `json:"open_time"`
}

func NewMockAMM(key storetypes.StoreKey, engine string) *MockAMM {
	return &MockAMM{storeKey: key, engine: engine}
}

func balanceKey(addr, denom string) []byte {
	return []byte("b/" + addr + "/" + denom)
}

func poolKey(poolID string) []byte {
	return []byte("p/" + poolID)
}

func (m *MockAMM) store(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(m.storeKey)
}

func (m *MockAMM) balance(ctx context.Context, addr, denom string) math.Int {
	bz := m.store(ctx).Get(balanceKey(addr, denom))
	if bz == nil {
		return math.ZeroInt()
	}
	amt, ok := math.NewIntFromString(string(bz))
	if !ok {
		panic(fmt.Sprintf("corrupt balance for %s/%s", addr, denom))
	}
	return amt
}

func (m *MockAMM) setBalance(ctx context.Context, addr, denom string, amt math.Int) {
	m.store(ctx).Set(balanceKey(addr, denom), []byte(amt.String()))
}

// GetBalance implements types.BankKeeper.
func (m *MockAMM) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, m.balance(ctx, addr.String(), denom))
}

// Fund credits amount of denom to addr.
func (m *MockAMM) Fund(ctx context.Context, addr sdk.AccAddress, denom string, amount uint64) {
	m.setBalance(ctx, addr.String(), denom, m.balance(ctx, addr.String(), denom).Add(math.NewIntFromUint64(amount)))
}

// Pool returns the engine-side pool, if any.
func (m *MockAMM) Pool(ctx context.Context, poolID string) (MockPool, bool) {
	bz := m.store(ctx).Get(poolKey(poolID))
	if bz == nil {
		return MockPool{}, false
	}
	var p MockPool
	if err := json.Unmarshal(bz, &p); err != nil {
		panic(err)
	}
	return p, true
}

func (m *MockAMM) setPool(ctx context.Context, poolID string, p MockPool) {
	bz, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	m.store(ctx).Set(poolKey(poolID), bz)
}

// Invoke implements types.AMMEngine.
func (m *MockAMM) Invoke(ctx context.Context, call types.ForwardedCall) error {
	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return err
	}
	if call.Engine != m.engine {
		return fmt.Errorf("call addressed to engine %q", call.Engine)
	}
	if len(call.Accounts) == 0 {
		return errors.New("no accounts")
	}
	authority := call.Authority.Address().String()
	if first := call.Accounts[0]; first.Address != authority || !first.IsSigner {
		return errors.New("first account must be the signing pool authority")
	}
	for _, a := range call.Accounts[1:] {
		if a.IsSigner {
			return fmt.Errorf("unexpected signer %s", a.Address)
		}
	}

	op, ok := call.Opcode()
	if !ok {
		return errors.New("missing opcode")
	}
	var err error
	switch op {
	case types.OpcodeInitializePool:
		err = m.initialize(ctx, call)
	case types.OpcodeSwapBaseInput, types.OpcodeSwapBaseOutput:
		err = m.swap(ctx, call)
	default:
		err = fmt.Errorf("unknown opcode %x", op)
	}
	if err != nil {
		return err
	}
	m.Calls = append(m.Calls, call)
	return nil
}

func (m *MockAMM) initialize(ctx context.Context, call types.ForwardedCall) error {
	params, authority, err := types.DecodeInitializePayload(call.Data)
	if err != nil {
		return err
	}
	if !authority.Equals(call.Authority.Address()) {
		return errors.New("payload authority does not match proof")
	}
	poolID := call.Authority.PoolID
	if _, exists := m.Pool(ctx, poolID); exists {
		return fmt.Errorf("pool %s already exists", poolID)
	}

	var assets []string
	for _, a := range call.Accounts[1:] {
		if a.Denom != "" && (len(assets) == 0 || assets[0] != a.Denom) {
			assets = append(assets, a.Denom)
		}
		if len(assets) == 2 {
			break
		}
	}
	if len(assets) != 2 {
		return errors.New("initialize needs two asset references")
	}
	if params.InitAmount0 == 0 || params.InitAmount1 == 0 {
		return errors.New("initial liquidity must be positive")
	}

	m.setPool(ctx, poolID, MockPool{
		Asset0:    assets[0],
		Asset1:    assets[1],
		Reserve0:  math.NewIntFromUint64(params.InitAmount0),
		Reserve1:  math.NewIntFromUint64(params.InitAmount1),
		Authority: authority.String(),
		OpenTime:  params.OpenTime,
	})
	return nil
}

func (m *MockAMM) swap(ctx context.Context, call types.ForwardedCall) error {
	ix, err := types.DecodeSwapPayload(call.Data)
	if err != nil {
		return err
	}
	if len(call.Accounts) < 3 {
		return errors.New("swap needs owner source and destination")
	}
	pool, ok := m.Pool(ctx, call.Authority.PoolID)
	if !ok {
		return fmt.Errorf("pool %s does not exist", call.Authority.PoolID)
	}
	if pool.Authority != call.Authority.Address().String() {
		return errors.New("pool authority mismatch")
	}

	src, dst := call.Accounts[1], call.Accounts[2]
	if src.Address != dst.Address {
		return errors.New("source and destination owners differ")
	}
	var reserveIn, reserveOut math.Int
	switch {
	case src.Denom == pool.Asset0 && dst.Denom == pool.Asset1:
		reserveIn, reserveOut = pool.Reserve0, pool.Reserve1
	case src.Denom == pool.Asset1 && dst.Denom == pool.Asset0:
		reserveIn, reserveOut = pool.Reserve1, pool.Reserve0
	default:
		return fmt.Errorf("%s/%s is not this pool's pair", src.Denom, dst.Denom)
	}

	var in, out math.Int
	if ix.IsBaseInput {
		in = math.NewIntFromUint64(ix.AmountIn)
		out = reserveOut.Mul(in).Quo(reserveIn.Add(in))
		if !m.IgnoreLimits && out.LT(math.NewIntFromUint64(ix.MinAmountOut)) {
			return fmt.Errorf("output %s below minimum %d", out, ix.MinAmountOut)
		}
	} else {
		out = math.NewIntFromUint64(ix.AmountOut)
		if out.GTE(reserveOut) {
			return errors.New("insufficient liquidity")
		}
		num := reserveIn.Mul(out)
		den := reserveOut.Sub(out)
		in = num.Add(den).SubRaw(1).Quo(den)
		if !m.IgnoreLimits && in.GT(math.NewIntFromUint64(ix.MaxAmountIn)) {
			return fmt.Errorf("input %s above maximum %d", in, ix.MaxAmountIn)
		}
	}
	if out.IsZero() {
		return errors.New("zero output")
	}

	have := m.balance(ctx, src.Address, src.Denom)
	if have.LT(in) {
		return fmt.Errorf("insufficient %s: have %s, need %s", src.Denom, have, in)
	}
	m.setBalance(ctx, src.Address, src.Denom, have.Sub(in))
	m.setBalance(ctx, dst.Address, dst.Denom, m.balance(ctx, dst.Address, dst.Denom).Add(out))

	if src.Denom == pool.Asset0 {
		pool.Reserve0, pool.Reserve1 = pool.Reserve0.Add(in), pool.Reserve1.Sub(out)
	} else {
		pool.Reserve1, pool.Reserve0 = pool.Reserve1.Add(in), pool.Reserve0.Sub(out)
	}
	m.setPool(ctx, call.Authority.PoolID, pool)
	return nil
}
