package step

import (
	"fmt"

	"github.com/arr4n/edb/astwalk"
	"github.com/arr4n/edb/edberrors"
	"github.com/arr4n/edb/ids"
	"github.com/arr4n/edb/scope"
	"github.com/arr4n/edb/srcrange"
)

// coalescible is the set of statement kinds that Partition may merge into a
// single Statements step when they appear as an uninterrupted run (spec
// design note 9(a), resolved in SPEC_FULL.md §13): straight-line statements
// with no declaration among them, since a declaration needs its own step
// boundary for VariableInScope timing to be meaningful to a human stepping
// through code.
func coalescible(n astwalk.Node) bool {
	switch n.Kind() {
	case astwalk.KindBreak, astwalk.KindContinue, astwalk.KindEmit,
		astwalk.KindReturn, astwalk.KindRevert, astwalk.KindExpressionStatement,
		astwalk.KindInlineAssembly:
		return true
	default:
		return false
	}
}

// partitioner accumulates Steps and drives the scope.Tracker in lock-step, as
// spec §4.3 requires ("if a step is currently being built").
type partitioner struct {
	steps   []Step
	tracker *scope.Tracker
	src     string
}

// Partition runs C2 (step partitioning) and C3 (scope/variable tracking)
// together over a pruned SourceUnit, returning the per-file Analysis.
func Partition(unit *astwalk.SourceUnit, src string) (*Analysis, error) {
	p := &partitioner{tracker: scope.NewTracker(), src: src}

	globals := p.tracker.Push(unit.Range())
	for _, c := range unit.Contracts {
		if err := p.contract(c); err != nil {
			return nil, err
		}
	}
	uvids, err := p.tracker.Pop(unit.Range())
	if err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}
	p.appendOutOfScope(uvids)

	return &Analysis{Steps: p.steps, Scopes: p.tracker, Globals: globals}, nil
}

func (p *partitioner) contract(c *astwalk.ContractDefinition) error {
	p.tracker.Push(c.Range())
	for _, v := range c.StateVariables {
		if _, err := p.tracker.Declare(v, true); err != nil {
			return fmt.Errorf("step: state variable %q: %w", v.Name, err)
		}
	}
	for _, f := range c.Functions {
		if err := p.function(f, false); err != nil {
			return err
		}
	}
	for _, m := range c.Modifiers {
		if err := p.function(modifierAsFunction(m), true); err != nil {
			return err
		}
	}
	uvids, err := p.tracker.Pop(c.Range())
	if err != nil {
		return err
	}
	p.appendOutOfScope(uvids)
	return nil
}

// modifierAsFunction adapts a ModifierDefinition to the shape function()
// needs, since entry-step emission is identical for both (spec §4.2:
// "Function/Modifier entries").
func modifierAsFunction(m *astwalk.ModifierDefinition) *astwalk.FunctionDefinition {
	return &astwalk.FunctionDefinition{Base: m.Base, Name: m.Name, Body: m.Body}
}

func (p *partitioner) function(f *astwalk.FunctionDefinition, isModifier bool) error {
	if f.Body == nil {
		return nil // no body, no FunctionEntry/ModifierEntry step (spec §4.2)
	}

	p.tracker.Push(f.Body.Range())

	variant := VariantFunctionEntry
	if isModifier {
		variant = VariantModifierEntry
	}
	p.emit(variant, f.Body.Range())

	if err := p.statements(f.Body.Statements); err != nil {
		return err
	}

	uvids, err := p.tracker.Pop(f.Body.Range())
	if err != nil {
		return err
	}
	p.appendOutOfScope(uvids)
	return nil
}

// statements walks a block's direct statement list, coalescing eligible runs
// into Statements steps and recursing into control structures.
func (p *partitioner) statements(stmts []astwalk.Node) error {
	i := 0
	for i < len(stmts) {
		n := stmts[i]

		if coalescible(n) {
			j := i
			for j < len(stmts) && coalescible(stmts[j]) {
				j++
			}
			if err := p.emitStatementRun(stmts[i:j]); err != nil {
				return err
			}
			i = j
			continue
		}

		if err := p.statement(n); err != nil {
			return err
		}
		i++
	}
	return nil
}

// emitStatementRun emits one Statement step for a lone statement, or one
// Statements step for a run of 2+.
func (p *partitioner) emitStatementRun(run []astwalk.Node) error {
	if len(run) == 0 {
		return nil
	}
	first, last := run[0].Range(), run[len(run)-1].Range()
	expanded, err := last.ExpandToSemicolon(p.src)
	if err != nil {
		return fmt.Errorf("step: %w", edberrors.Wrap(edberrors.StepPartition, last.String(), err))
	}
	full := srcrange.Range{
		Start:    first.Start,
		Length:   expanded.End() - first.Start,
		SourceID: first.SourceID,
	}

	variant := VariantStatement
	if len(run) > 1 {
		variant = VariantStatements
	}
	p.emit(variant, full)
	return nil
}

// statement dispatches on n's concrete kind per the exhaustive rules in
// spec §4.2. It handles the declaration/control-flow kinds not covered by
// emitStatementRun.
func (p *partitioner) statement(n astwalk.Node) error {
	switch v := n.(type) {
	case *astwalk.Block:
		p.tracker.Push(v.Range())
		if err := p.statements(v.Statements); err != nil {
			return err
		}
		uvids, err := p.tracker.Pop(v.Range())
		if err != nil {
			return err
		}
		p.appendOutOfScope(uvids)
		return nil

	case *astwalk.UncheckedBlock:
		p.tracker.Push(v.Range())
		if err := p.statements(v.Statements); err != nil {
			return err
		}
		uvids, err := p.tracker.Pop(v.Range())
		if err != nil {
			return err
		}
		p.appendOutOfScope(uvids)
		return nil

	case *astwalk.PlaceholderStatement:
		return nil // no step emitted

	case *astwalk.VariableDeclarationStmt:
		expanded, err := n.Range().ExpandToSemicolon(p.src)
		if err != nil {
			return fmt.Errorf("step: %w", edberrors.Wrap(edberrors.StepPartition, n.Range().String(), err))
		}
		idx := p.emit(VariantStatement, expanded)
		for _, d := range v.Declarations {
			uvid, err := p.tracker.Declare(d, false)
			if err != nil {
				return fmt.Errorf("step: %w", err)
			}
			p.steps[idx].PostHooks = append(p.steps[idx].PostHooks, Hook{Kind: HookVariableInScope, UVID: uvid})
		}
		return nil

	case *astwalk.If:
		bodyRange := v.True.Range()
		hdr, err := srcrange.LeftDifference(v.Range(), bodyRange)
		if err != nil {
			return fmt.Errorf("step: %w", edberrors.Wrap(edberrors.StepPartition, v.Range().String(), err))
		}
		p.emit(VariantIfCondition, hdr)
		if err := p.statement(v.True); err != nil {
			return err
		}
		if v.False != nil {
			return p.statement(v.False)
		}
		return nil

	case *astwalk.For:
		hdr, err := srcrange.LeftDifference(v.Range(), v.Body.Range())
		if err != nil {
			return fmt.Errorf("step: %w", edberrors.Wrap(edberrors.StepPartition, v.Range().String(), err))
		}
		p.emit(VariantForLoopHeader, hdr)
		// The init declaration, if any, is registered in scope (a single-step
		// walker that collects declarations but emits no new steps, spec
		// §4.2) without building a new step for it.
		if decl, ok := v.Init.(*astwalk.VariableDeclarationStmt); ok {
			for _, d := range decl.Declarations {
				if _, err := p.tracker.Declare(d, false); err != nil {
					return fmt.Errorf("step: %w", err)
				}
			}
		}
		return p.statement(v.Body)

	case *astwalk.While:
		hdr, err := srcrange.LeftDifference(v.Range(), v.Body.Range())
		if err != nil {
			return fmt.Errorf("step: %w", edberrors.Wrap(edberrors.StepPartition, v.Range().String(), err))
		}
		p.emit(VariantWhileLoopCondition, hdr)
		return p.statement(v.Body)

	case *astwalk.DoWhile:
		hdr, err := srcrange.RightDifference(v.Range(), v.Body.Range())
		if err != nil {
			return fmt.Errorf("step: %w", edberrors.Wrap(edberrors.StepPartition, v.Range().String(), err))
		}
		// Body executes before the condition is (first) evaluated, so walk it
		// first, then emit the header step covering the trailing `while(...)`.
		if err := p.statement(v.Body); err != nil {
			return err
		}
		p.emit(VariantWhileLoopCondition, hdr)
		return nil

	case *astwalk.Try:
		firstClauseRange := v.Clauses[0].Body.Range()
		hdr, err := srcrange.LeftDifference(v.Range(), firstClauseRange)
		if err != nil {
			return fmt.Errorf("step: %w", edberrors.Wrap(edberrors.StepPartition, v.Range().String(), err))
		}
		p.emit(VariantTryCall, hdr)
		for _, cl := range v.Clauses {
			if err := p.statement(cl.Body); err != nil {
				return err
			}
		}
		return nil

	default:
		// Break/Continue/Emit/Return/Revert/ExpressionStatement/InlineAssembly
		// reach here only as the bare (unbraced) body of an if/for/while;
		// inside a block, statements() routes them to emitStatementRun
		// directly. Any other kind is one this switch doesn't recognise.
		if coalescible(n) {
			return p.emitStatementRun([]astwalk.Node{n})
		}
		return fmt.Errorf("step: %w: unhandled statement kind %T", edberrors.StepPartition, n)
	}
}

// appendOutOfScope attaches a VariableOutOfScope hook for each uvid to the
// current or most recently completed step (spec §4.3: scope exit "append[s]
// a VariableOutOfScope hook to the current or most recently completed
// step"). Partitioning never leaves a step half-built across this call, so
// "current" and "most recently completed" are the same step: the last one
// emitted. A no-op if no step has been emitted yet.
func (p *partitioner) appendOutOfScope(uvids []ids.UVID) {
	if len(p.steps) == 0 {
		return
	}
	last := &p.steps[len(p.steps)-1]
	for _, uvid := range uvids {
		last.PostHooks = append(last.PostHooks, Hook{Kind: HookVariableOutOfScope, UVID: uvid})
	}
}

// emit appends a new Step of the given variant/range, assigns it a USID, and
// returns its index in p.steps.
func (p *partitioner) emit(variant Variant, r srcrange.Range) int {
	calls := countFunctionCalls(p.src, r)
	s := Step{
		USID:          ids.NextUSID(),
		Variant:       variant,
		Range:         r,
		FunctionCalls: calls,
	}
	s.PreHooks = append(s.PreHooks, Hook{Kind: HookBeforeStep, USID: s.USID})
	for _, uvid := range detectVariableUpdates(r.Slice(p.src), p.tracker, p.tracker.Current()) {
		s.PostHooks = append(s.PostHooks, Hook{Kind: HookVariableUpdate, UVID: uvid})
	}
	p.steps = append(p.steps, s)
	return len(p.steps) - 1
}

// countFunctionCalls is a heuristic count of syntactic call sites in r's
// source text: identifier characters immediately followed by `(`. It is
// intentionally not a parser (this is not a static analyzer, spec §1); it
// only needs to be an upper bound usable for sizing the
// BeforeStepHook.function_calls argument (spec §4.5).
func countFunctionCalls(src string, r srcrange.Range) int {
	text := r.Slice(src)
	count := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '(' || i == 0 {
			continue
		}
		c := text[i-1]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			count++
		}
	}
	return count
}
