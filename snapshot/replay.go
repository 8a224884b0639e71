package snapshot

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"

	"github.com/arr4n/edb/archive"
)

// StateProvider hands the replay driver a StateDB already rolled forward to
// immediately before the block containing the target transaction (spec
// §4.7: "fork a forking EVM at one block before the target transaction").
// How that StateDB is produced - a local full node's BlockChain.StateAt, a
// snapshot held by an archive service, or an in-memory trie seeded some
// other way - is deliberately out of Replay's scope; Replay only forks
// *within* the target block by re-applying the transactions that precede
// the target (SPEC_FULL.md §4.7, Open Question decision OQ-3).
type StateProvider interface {
	StateAt(ctx context.Context, parentBlock *big.Int) (*state.StateDB, error)
}

// Target identifies the single transaction C7 replays.
type Target struct {
	BlockNumber *big.Int
	TxIndex     uint
}

// Result is the materialized output of one replay: the snapshot sequence,
// the call trace, and the derived frame/call-tree views, all linked and
// ready for package breakpoint / package eval to navigate.
type Result struct {
	Snapshots []Snapshot
	Trace     []TraceEntry
	Frames    []frameView
	Tree      *CallNode

	// BlockNumber/BlockTime are the target transaction's block context,
	// carried alongside the snapshot sequence so package eval's
	// block.number/block.timestamp resolution doesn't need a second
	// archive.Source round trip.
	BlockNumber *big.Int
	BlockTime   uint64
}

// Replay executes tgt against archival state and returns its fully linked
// Snapshot sequence (spec §4.7, "Procedure"). code is the instrumented
// (or, on opcode-fallback, original) runtime bytecode for the transaction's
// target/code address; callers are responsible for producing it via
// package rewrite before invoking Replay.
func Replay(ctx context.Context, src archive.Source, sp StateProvider, chainCfg *params.ChainConfig, tgt Target, code []byte) (*Result, error) {
	parent := new(big.Int).Sub(tgt.BlockNumber, big.NewInt(1))
	statedb, err := sp.StateAt(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("archive state at block %s: %w", parent, err)
	}

	header, err := src.HeaderByNumber(ctx, tgt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("header at block %s: %w", tgt.BlockNumber, err)
	}
	block, err := src.BlockByNumber(ctx, tgt.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", tgt.BlockNumber, err)
	}
	txs := block.Transactions()
	if int(tgt.TxIndex) >= len(txs) {
		return nil, fmt.Errorf("tx index %d out of range for block %s (%d txs)", tgt.TxIndex, tgt.BlockNumber, len(txs))
	}

	blockCtx := core.NewEVMBlockContext(header, nil, &header.Coinbase)
	signer := types.MakeSigner(chainCfg, header.Number, header.Time)

	// Re-apply every transaction preceding the target so its preconditions
	// (nonces, balances, storage) reflect the real block (spec §4.7 step 2).
	for i := uint(0); i < tgt.TxIndex; i++ {
		if err := applyPlain(chainCfg, blockCtx, statedb, signer, txs[i]); err != nil {
			return nil, fmt.Errorf("re-applying tx %d: %w", i, err)
		}
	}

	target := txs[tgt.TxIndex]
	msg, err := core.TransactionToMessage(target, signer, header.BaseFee)
	if err != nil {
		return nil, fmt.Errorf("tx %d to message: %w", tgt.TxIndex, err)
	}

	// Splice the instrumented bytecode in for the call's code address so
	// execution runs through the BeforeStepHook/VariableUpdateHook calls
	// package rewrite inserted (spec §4.7 step 3). No instrumented code
	// means instrumentation never produced a recompilable artifact for this
	// target (e.g. InstrumentedCompileFailed upstream in package rewrite),
	// so Replay falls back to opcode granularity instead of silently
	// executing the original bytecode with no hooks at all (spec §1/§4.7).
	opcodeFallback := len(code) == 0
	if msg.To != nil && !opcodeFallback {
		statedb.SetCode(*msg.To, code)
	}

	var collector *Collector
	if opcodeFallback {
		collector = NewOpcodeCollector()
	} else {
		collector = NewCollector()
	}
	txCtx := core.NewEVMTxContext(msg)
	evm := vm.NewEVM(blockCtx, statedb, chainCfg, vm.Config{Tracer: collector})
	evm.SetTxContext(txCtx)

	gp := new(core.GasPool).AddGas(target.Gas())
	if _, err := core.ApplyMessage(evm, msg, gp); err != nil {
		return nil, fmt.Errorf("replaying target tx: %w", err)
	}

	snaps := collector.Snapshots()
	frames := collector.Frames()
	Link(snaps, frames)

	return &Result{
		Snapshots:   snaps,
		Trace:       collector.Trace(),
		Frames:      frames,
		Tree:        CallTree(frames),
		BlockNumber: new(big.Int).Set(header.Number),
		BlockTime:   header.Time,
	}, nil
}

// applyPlain re-executes a preceding transaction with no tracer attached;
// only its resulting state mutation matters, not its own snapshot trail.
func applyPlain(chainCfg *params.ChainConfig, blockCtx vm.BlockContext, statedb *state.StateDB, signer types.Signer, tx *types.Transaction) error {
	msg, err := core.TransactionToMessage(tx, signer, blockCtx.BaseFee)
	if err != nil {
		return err
	}
	evm := vm.NewEVM(blockCtx, statedb, chainCfg, vm.Config{})
	evm.SetTxContext(core.NewEVMTxContext(msg))
	gp := new(core.GasPool).AddGas(tx.Gas())
	_, err = core.ApplyMessage(evm, msg, gp)
	return err
}
