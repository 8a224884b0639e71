// Package step implements the Step Partitioner (C2), mapping a pruned AST
// (package astwalk) onto the canonical, ordered list of debugger-observable
// Steps described in spec §3 and §4.2, and the Scope & Variable Tracker
// (C3)'s hook attachment, which happens in lock-step with partitioning (spec
// §4.3: hooks are appended "if a step is currently being built").
package step

import (
	"github.com/arr4n/edb/ids"
	"github.com/arr4n/edb/scope"
	"github.com/arr4n/edb/srcrange"
)

// Variant identifies which of the spec §3 Step shapes a Step is.
type Variant int

const (
	VariantStatement Variant = iota
	VariantStatements
	VariantIfCondition
	VariantWhileLoopCondition
	VariantForLoopHeader
	VariantTryCall
	VariantFunctionEntry
	VariantModifierEntry
	// VariantOpcode is the fallback-mode step (spec §4.7): one per visited
	// opcode offset, used only when source-level instrumentation fails to
	// recompile.
	VariantOpcode
)

// HookKind identifies which kind of Hook a Step carries.
type HookKind int

const (
	HookBeforeStep HookKind = iota
	HookVariableInScope
	HookVariableOutOfScope
	HookVariableUpdate
)

// Hook is one pre- or post-step event, as defined in spec §3.
type Hook struct {
	Kind HookKind
	USID ids.USID // valid for HookBeforeStep
	UVID ids.UVID // valid for the Variable* kinds
}

// Step is one unit of debugger advancement (spec §3).
type Step struct {
	USID    ids.USID
	Variant Variant
	Range   srcrange.Range

	// FunctionCalls is the count of function calls syntactically contained
	// in the step, used by the hook renderer (spec §4.5) to size the
	// `function_calls` argument of BeforeStepHook.
	FunctionCalls int

	// StatementRefs is left nil by Partition; Analysis keeps no flattened
	// statement list for it to index, so a Step does not lead back to its
	// originating AST node(s).
	StatementRefs []int

	PC *uint64 // valid for VariantOpcode only

	PreHooks  []Hook
	PostHooks []Hook
}

// Analysis is the product of C2+C3 for one source file: the ordered Step
// list plus the scope tree built alongside it.
type Analysis struct {
	Steps   []Step
	Scopes  *scope.Tracker
	Globals scope.ID
}

// ByUSID returns the step with the given USID, or (Step{}, false) if no step
// has it. It scans Steps linearly.
func (a *Analysis) ByUSID(usid ids.USID) (Step, bool) {
	for _, s := range a.Steps {
		if s.USID == usid {
			return s, true
		}
	}
	return Step{}, false
}
