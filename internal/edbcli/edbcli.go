// Package edbcli implements the edb command-line surface (spec §1, §10.5).
// It is grounded directly on specopscli.go: the same cobra.Command-per-verb
// structure, flags bound to local variables rather than a parsed struct,
// fmt.Printf for CLI-facing output.
package edbcli

import (
	"context"
	"fmt"
	"math/big"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/spf13/cobra"

	"github.com/arr4n/edb/archive"
	"github.com/arr4n/edb/breakpoint"
	"github.com/arr4n/edb/eval"
	"github.com/arr4n/edb/internal/edbconfig"
	"github.com/arr4n/edb/internal/replayui"
	"github.com/arr4n/edb/rpcfacade"
	"github.com/arr4n/edb/snapshot"
)

// Run parses command-line arguments and flags and executes the requested
// edb command. For usage, invoke the binary without any arguments.
func Run() error {
	cfg := edbconfig.Default()
	var blockNumber int64
	var txIndex uint
	var browse bool

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Fork archival state and re-execute one transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.BlockNumber = big.NewInt(blockNumber)
			cfg.TxIndex = txIndex
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runReplay(cmd.Context(), cfg, browse)
		},
	}
	replayCmd.Flags().StringVar(&cfg.RPCEndpoint, "rpc", "", "Archival node JSON-RPC endpoint")
	replayCmd.Flags().Int64Var(&blockNumber, "block", 0, "Block number containing the target transaction")
	replayCmd.Flags().UintVar(&txIndex, "tx-index", 0, "Index of the target transaction within the block")
	replayCmd.Flags().StringVar(&cfg.ListenAddr, "listen", "", "Serve the RPC facade on this address instead of printing a summary")
	replayCmd.Flags().BoolVar(&browse, "browse", false, "Open an interactive terminal browser over the replayed snapshots instead of printing a summary")
	replayCmd.MarkFlagRequired("rpc")

	cmd := &cobra.Command{
		Short: "edb: a time-travel debugger for Ethereum smart contracts",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	cmd.AddCommand(replayCmd)
	return cmd.Execute()
}

func runReplay(ctx context.Context, cfg edbconfig.Config, browse bool) error {
	src, err := archive.NewRPCSource(ctx, cfg.RPCEndpoint)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", cfg.RPCEndpoint, err)
	}

	chainCfg := params.MainnetChainConfig
	if cfg.ChainID.Cmp(params.MainnetChainConfig.ChainID) != 0 {
		chainCfg = &params.ChainConfig{ChainID: cfg.ChainID}
	}

	gethlog.Info("starting replay", "block", cfg.BlockNumber, "txIndex", cfg.TxIndex)

	// Bytecode instrumentation (packages step/annotation/rewrite) happens
	// upstream of Replay; a bare replay without it runs in opcode-fallback
	// mode, matching spec §4.7's degraded path.
	result, err := snapshot.Replay(ctx, src, noopStateProvider{}, chainCfg, snapshot.Target{
		BlockNumber: cfg.BlockNumber,
		TxIndex:     cfg.TxIndex,
	}, nil)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	fmt.Printf("captured %d snapshots across %d frames\n", len(result.Snapshots), len(result.Frames))

	if browse {
		return replayui.Run(result)
	}
	if cfg.ListenAddr == "" {
		return nil
	}
	return serveRPC(cfg.ListenAddr, result)
}

// noopStateProvider rejects every request; the CLI's replay command is
// meant to be run against an archive.ChainStateProvider wired to a synced
// local node once one is configured.
type noopStateProvider struct{}

func (noopStateProvider) StateAt(context.Context, *big.Int) (*state.StateDB, error) {
	return nil, fmt.Errorf("edbcli: no local archive node configured; wire an archive.ChainStateProvider")
}

func serveRPC(addr string, result *snapshot.Result) error {
	store := newResultStore(result)

	// No storage-layout artifact travels with a bare CLI replay, so named
	// state-variable lookups report UnresolvedIdentifier; msg/tx/block
	// resolution and opcode/condition breakpoints work against the real
	// replayed trace regardless (eval.SnapshotHandlers doc comment).
	var target common.Address
	if len(result.Trace) > 0 {
		target = result.Trace[0].Target
	}
	evaluator := eval.New(eval.NewSnapshotHandlers(result, target, nil))
	bpEngine := breakpoint.New(newBreakpointSource(result, evaluator))

	svc := rpcfacade.New(store, evaluator, bpEngine)
	srv := rpc.NewServer()
	if err := rpcfacade.Register(srv, svc); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	gethlog.Info("rpc facade listening", "addr", addr)
	return http.Serve(ln, srv)
}
