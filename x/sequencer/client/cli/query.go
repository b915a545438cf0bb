package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/continuum-labs/continuum/x/sequencer/types"
)

// GetQueryCmd returns the cli query commands for the sequencer module
func GetQueryCmd() *cobra.Command {
	sequencerQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the sequencer module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	sequencerQueryCmd.AddCommand(
		GetCmdQueryParams(),
		GetCmdQueryState(),
		GetCmdQueryPool(),
		GetCmdQueryOrder(),
	)

	return sequencerQueryCmd
}

// queryRaw reads a single module store entry at the client's height.
func queryRaw(clientCtx client.Context, key []byte) ([]byte, error) {
	bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
	if err != nil {
		return nil, err
	}
	return bz, nil
}

// GetCmdQueryParams returns the command to query module parameters
func GetCmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the current sequencer module parameters",
		Long: `Query the engine identifier and pass-through limits of the sequencer module.

Example:
  $ continuumd query sequencer params`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			bz, err := queryRaw(clientCtx, types.ParamsKey)
			if err != nil {
				return err
			}
			if bz == nil {
				bz, err = json.Marshal(types.DefaultParams())
				if err != nil {
					return err
				}
			}

			return clientCtx.PrintRaw(bz)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryState returns the command to query the global sequencer record
func GetCmdQueryState() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Query the global sequencer record",
		Long: `Query the current sequence, admin, pause flag and relayer allow-list.

Example:
  $ continuumd query sequencer state`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			bz, err := queryRaw(clientCtx, types.SequencerStateKey)
			if err != nil {
				return err
			}
			if bz == nil {
				return types.ErrNotInitialized
			}

			return clientCtx.PrintRaw(bz)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryPool returns the command to query a pool registration
func GetCmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a registered pool",
		Long: `Query the registration of a pool including its delegated authority.

Example:
  $ continuumd query sequencer pool atom-usdc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			if err := types.ValidatePoolID(args[0]); err != nil {
				return err
			}
			bz, err := queryRaw(clientCtx, types.PoolRegistrationKey(args[0]))
			if err != nil {
				return err
			}
			if bz == nil {
				return types.ErrPoolNotRegistered.Wrapf("pool %s", args[0])
			}

			return clientCtx.PrintRaw(bz)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryOrder returns the command to query a durable order by sequence
func GetCmdQueryOrder() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order [sequence]",
		Short: "Query a durable order by its sequence number",
		Long: `Query a durable order. Orders submitted in lite mode are not stored
and cannot be queried.

Example:
  $ continuumd query sequencer order 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			seq, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid sequence: %w", err)
			}

			owner, err := queryRaw(clientCtx, types.OrderBySequenceKey(seq))
			if err != nil {
				return err
			}
			if owner == nil {
				return types.ErrOrderNotFound.Wrapf("order %d", seq)
			}
			bz, err := queryRaw(clientCtx, types.OrderKey(sdk.AccAddress(owner), seq))
			if err != nil {
				return err
			}
			if bz == nil {
				return types.ErrOrderNotFound.Wrapf("order %d", seq)
			}

			return clientCtx.PrintRaw(bz)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
