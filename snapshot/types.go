// Package snapshot implements the Snapshot/Replay Core (C7): it re-executes
// an instrumented transaction against archival state, recognizing the
// hook calls the rewriter (package rewrite) spliced in as step boundaries,
// and materializes an ordered, navigable snapshot sequence with a call tree
// (spec §4.7).
//
// The execution driver is grounded on the teacher's evmdebug.Debugger: a
// vm.EVMLogger embedded in a small state machine, except that here the
// machine observes CaptureEnter/CaptureState rather than blocking on every
// opcode, since a snapshot is taken only at hook boundaries, not at every
// instruction (fallback opcode-granularity mode aside, see Collector).
package snapshot

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/holiman/uint256"

	"github.com/arr4n/edb/ids"
)

// FrameID identifies one call frame (the top-level call, or one CALL/
// STATICCALL/DELEGATECALL/CREATE/CREATE2 beneath it) within a single
// transaction's execution.
type FrameID int

// CallType enumerates the ways one frame can invoke another (spec §3
// Trace).
type CallType int

const (
	Call CallType = iota
	StaticCall
	DelegateCall
	Create
	Create2
)

// TraceEntry is one call-frame record (spec §3 Trace). Parent/child
// relationships are derived from Depth and creation order, not stored
// explicitly, mirroring the EVM's own call-stack discipline.
type TraceEntry struct {
	ID       int
	Caller   common.Address
	Target   common.Address
	CodeAddr common.Address
	Type     CallType
	Value    *big.Int
	Input    []byte
	Output   []byte
	Depth    int
	GasUsed  uint64
	Error    error
}

// StateView is a logical, read-only handle onto EVM state as of one
// snapshot (spec §3). It wraps a *state.StateDB obtained via Copy(), which
// is go-ethereum's own copy-on-write clone (the journal and trie nodes are
// shared until mutated), the cheapest cloning primitive available at this
// layer of the stack.
type StateView struct {
	db *state.StateDB
}

// Balance returns addr's wei balance in this view.
func (v StateView) Balance(addr common.Address) *uint256.Int { return v.db.GetBalance(addr) }

// Nonce returns addr's nonce in this view.
func (v StateView) Nonce(addr common.Address) uint64 { return v.db.GetNonce(addr) }

// Code returns addr's deployed bytecode in this view.
func (v StateView) Code(addr common.Address) []byte { return v.db.GetCode(addr) }

// CodeHash returns the hash of addr's deployed bytecode in this view.
func (v StateView) CodeHash(addr common.Address) common.Hash { return v.db.GetCodeHash(addr) }

// CodeSize returns the size, in bytes, of addr's deployed bytecode.
func (v StateView) CodeSize(addr common.Address) int { return v.db.GetCodeSize(addr) }

// StorageAt returns the value of addr's storage slot.
func (v StateView) StorageAt(addr common.Address, slot common.Hash) common.Hash {
	return v.db.GetState(addr, slot)
}

// Snapshot is a point-in-time record captured at a hook boundary (spec §3).
type Snapshot struct {
	ID           int
	USID         ids.USID
	FrameID      FrameID
	TraceEntryID int
	PreState     StateView
	Depth        int

	// NextID/PrevID link same-frame snapshots in execution order; -1 if
	// there is none (spec §4.7: "nearest later/earlier snapshot belonging
	// to the same frame").
	NextID int
	PrevID int

	// NextCallID/PrevCallID link to the nearest later/earlier snapshot
	// whose frame is a direct child call of this snapshot's frame (spec
	// §4.7: "next-call"/"prev-call" navigation).
	NextCallID int
	PrevCallID int

	// PC is set only for snapshots recorded in opcode-fallback mode (spec
	// §4.7/§1: "falls back to opcode granularity and still produces
	// snapshots", mirroring step.Step.PC), i.e. when Replay was given no
	// instrumented bytecode to splice in. Nil for ordinary,
	// source-instrumented snapshots, which are keyed by USID instead.
	PC *uint64
}
