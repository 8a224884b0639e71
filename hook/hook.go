// Package hook defines the magic addresses and calldata layouts shared
// between the instrumenter (package rewrite) that emits hook calls and the
// Hook Interpreter (C8) that recognizes them during replay (spec §4.5,
// §4.9, §4.11 "Magic addresses").
package hook

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// HookTriggerAddress is the fixed destination of BeforeStepHook staticcalls.
// Its calldata is abi.encode(uint64 usid, uint64 function_calls).
var HookTriggerAddress = common.HexToAddress("0x00000000000000000000000000000000455442")

// VariableUpdateAddress is the fixed destination used by VariableUpdateHook
// expressions, which force evaluation of the tracked variable without
// committing state.
var VariableUpdateAddress = common.HexToAddress("0x00000000000000000000000000004544425530")

// Call is a decoded hook invocation recognized by the Hook Interpreter.
type Call struct {
	Kind          Kind
	USID          uint64 // valid for KindBeforeStep
	FunctionCalls uint64 // valid for KindBeforeStep
}

// Kind distinguishes which magic address a Call targeted.
type Kind int

const (
	KindBeforeStep Kind = iota
	KindVariableUpdate
)

// IsHookAddress reports whether addr is one of the two reserved magic
// addresses, letting the replay core's tracer (package snapshot) cheaply
// skip everything else without an ABI decode attempt.
func IsHookAddress(addr common.Address) bool {
	return addr == HookTriggerAddress || addr == VariableUpdateAddress
}

// DecodeBeforeStep decodes the abi.encode(uint64 usid, uint64 function_calls)
// calldata of a BeforeStepHook staticcall. Each uint64 occupies the low 8
// bytes of its own 32-byte ABI word, so decoding is a slice of the last 8
// bytes of each word rather than a full ABI unpack.
func DecodeBeforeStep(calldata []byte) (usid, functionCalls uint64, ok bool) {
	if len(calldata) != 64 {
		return 0, 0, false
	}
	usid = binary.BigEndian.Uint64(calldata[24:32])
	functionCalls = binary.BigEndian.Uint64(calldata[56:64])
	return usid, functionCalls, true
}
