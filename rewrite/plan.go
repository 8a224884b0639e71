package rewrite

import (
	"fmt"
	"strings"

	"github.com/arr4n/edb/annotation"
	"github.com/arr4n/edb/astwalk"
	"github.com/arr4n/edb/step"
)

// Build assembles the full Plan for one source file: visibility/mutability
// rewrites for ann's private members, single-statement body wrapping for
// every bare if/for/while body in the unit, and a BeforeStepHook insertion
// for every step in an.Steps (spec §4.5).
func Build(unit *astwalk.SourceUnit, an *step.Analysis, ann map[string]annotation.Contract, src string) (*Plan, error) {
	var sourceID uint32
	if len(an.Steps) > 0 {
		sourceID = an.Steps[0].Range.SourceID
	} else {
		sourceID = unit.Range().SourceID
	}
	p := NewPlan(sourceID)

	for _, c := range unit.Contracts {
		a, ok := ann[c.Name]
		if !ok {
			continue
		}
		for _, v := range a.PrivateStateVariables {
			if err := addVisibilityRewrite(p, src, v.Range().Start, v.Range().End(), v.Visibility, v.Name); err != nil {
				return nil, fmt.Errorf("rewrite: state variable %q: %w", v.Name, err)
			}
		}
		for _, f := range a.PrivateFunctions {
			if err := addFunctionVisibilityRewrite(p, src, f); err != nil {
				return nil, fmt.Errorf("rewrite: function %q: %w", f.Name, err)
			}
		}
		for _, f := range a.ImmutableFunctions {
			if err := addMutabilityRemoval(p, src, f); err != nil {
				return nil, fmt.Errorf("rewrite: function %q: %w", f.Name, err)
			}
		}
		for _, f := range c.Functions {
			if err := wrapBareBodies(p, src, f.Body); err != nil {
				return nil, err
			}
		}
		for _, m := range c.Modifiers {
			if err := wrapBareBodies(p, src, m.Body); err != nil {
				return nil, err
			}
		}
	}

	for _, s := range an.Steps {
		loc := s.Range.Start
		if s.Variant == step.VariantFunctionEntry || s.Variant == step.VariantModifierEntry {
			loc = s.Range.Start + 1 // just after the body's opening brace
		}
		if err := p.Add(Modification{
			Kind:     Instrument,
			Loc:      loc,
			Text:     beforeStepHookText(uint64(s.USID), s.FunctionCalls),
			Priority: PriorityHook,
		}); err != nil {
			return nil, err
		}

		for _, hook := range s.PostHooks {
			if hook.Kind != step.HookVariableUpdate {
				continue
			}
			v := an.Scopes.Variable(hook.UVID)
			if v == nil {
				continue
			}
			if err := p.Add(Modification{
				Kind:     Instrument,
				Loc:      s.Range.End(),
				Text:     variableUpdateHookText(uint64(hook.UVID), v.Name),
				Priority: PriorityHook,
			}); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

// findWholeWord returns the absolute offset of the first whole-word
// occurrence of word within src[from:to], or -1 if absent.
func findWholeWord(src string, from, to int, word string) int {
	if word == "" {
		return -1
	}
	search := src[from:to]
	start := 0
	for {
		i := strings.Index(search[start:], word)
		if i < 0 {
			return -1
		}
		abs := start + i
		before := abs == 0 || !isIdentByte(search[abs-1])
		afterIdx := abs + len(word)
		after := afterIdx >= len(search) || !isIdentByte(search[afterIdx])
		if before && after {
			return from + abs
		}
		start = abs + 1
	}
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// addVisibilityRewrite removes an existing visibility keyword (if any) from
// [from,to) and inserts "public " immediately before name's first
// occurrence, per spec §4.5 family 1.
func addVisibilityRewrite(p *Plan, src string, from, to uint32, visibility, name string) error {
	if visibility != "" && visibility != "public" {
		if off := findWholeWord(src, int(from), int(to), visibility); off >= 0 {
			if err := p.Add(Modification{Kind: Remove, Loc: uint32(off), Length: uint32(len(visibility)), Priority: PriorityHighest}); err != nil {
				return err
			}
		}
	}
	nameOff := findWholeWord(src, int(from), int(to), name)
	if nameOff < 0 {
		return fmt.Errorf("name %q not found in declaration text", name)
	}
	return p.Add(Modification{Kind: Instrument, Loc: uint32(nameOff), Text: "public ", Priority: PriorityHighest})
}

// addFunctionVisibilityRewrite removes f's visibility keyword and inserts
// "public" just after the parameter list's closing parenthesis, approximated
// here as the first ')' in f's range after its name (spec §4.5 family 1).
func addFunctionVisibilityRewrite(p *Plan, src string, f *astwalk.FunctionDefinition) error {
	from, to := int(f.Range().Start), int(f.Range().End())
	if f.Visibility != "" && f.Visibility != "public" {
		if off := findWholeWord(src, from, to, f.Visibility); off >= 0 {
			if err := p.Add(Modification{Kind: Remove, Loc: uint32(off), Length: uint32(len(f.Visibility)), Priority: PriorityHighest}); err != nil {
				return err
			}
		}
	}
	closeParen := strings.IndexByte(src[from:to], ')')
	if closeParen < 0 {
		return fmt.Errorf("no parameter list found")
	}
	loc := uint32(from + closeParen + 1)
	return p.Add(Modification{Kind: Instrument, Loc: loc, Text: " public", Priority: PriorityHighest})
}

// addMutabilityRemoval strips a `view`/`pure` token from f's declaration
// (spec §4.5 family 1), widening the function to non-view mutability so the
// hook calls spliced into its body are accepted by the compiler.
func addMutabilityRemoval(p *Plan, src string, f *astwalk.FunctionDefinition) error {
	if f.Mutability != "view" && f.Mutability != "pure" {
		return nil
	}
	from, to := int(f.Range().Start), int(f.Range().End())
	off := findWholeWord(src, from, to, f.Mutability)
	if off < 0 {
		return nil
	}
	return p.Add(Modification{Kind: Remove, Loc: uint32(off), Length: uint32(len(f.Mutability)), Priority: PriorityHighest})
}

// wrapBareBodies walks n looking for If/For/While nodes whose body is not
// already a Block/UncheckedBlock, wrapping it in braces (spec §4.5 family
// 2).
func wrapBareBodies(p *Plan, src string, n astwalk.Node) error {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *astwalk.Block:
		for _, s := range v.Statements {
			if err := wrapBareBodies(p, src, s); err != nil {
				return err
			}
		}
	case *astwalk.UncheckedBlock:
		for _, s := range v.Statements {
			if err := wrapBareBodies(p, src, s); err != nil {
				return err
			}
		}
	case *astwalk.If:
		if err := wrapIfBranch(p, src, v.True); err != nil {
			return err
		}
		if v.False != nil {
			if err := wrapIfBranch(p, src, v.False); err != nil {
				return err
			}
		}
	case *astwalk.For:
		if err := wrapBareBody(p, src, v.Body); err != nil {
			return err
		}
		if err := wrapBareBodies(p, src, v.Body); err != nil {
			return err
		}
	case *astwalk.While:
		if err := wrapBareBody(p, src, v.Body); err != nil {
			return err
		}
		if err := wrapBareBodies(p, src, v.Body); err != nil {
			return err
		}
	case *astwalk.DoWhile:
		if err := wrapBareBodies(p, src, v.Body); err != nil {
			return err
		}
	case *astwalk.Try:
		for _, cl := range v.Clauses {
			if err := wrapBareBodies(p, src, cl.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func wrapIfBranch(p *Plan, src string, branch astwalk.Node) error {
	if elseIf, ok := branch.(*astwalk.If); ok {
		return wrapBareBodies(p, src, elseIf)
	}
	if err := wrapBareBody(p, src, branch); err != nil {
		return err
	}
	return wrapBareBodies(p, src, branch)
}

// isBlock reports whether n is already brace-delimited.
func isBlock(n astwalk.Node) bool {
	switch n.(type) {
	case *astwalk.Block, *astwalk.UncheckedBlock:
		return true
	default:
		return false
	}
}

func wrapBareBody(p *Plan, src string, body astwalk.Node) error {
	if body == nil || isBlock(body) {
		return nil
	}
	r := body.Range()
	if err := p.Add(Modification{Kind: Instrument, Loc: r.Start, Text: "{ ", Priority: PriorityHighest}); err != nil {
		return err
	}
	expanded, err := r.ExpandToSemicolon(src)
	if err != nil {
		return fmt.Errorf("wrapBareBody: %w", err)
	}
	return p.Add(Modification{Kind: Instrument, Loc: expanded.End(), Text: " }", Priority: PriorityLowest})
}
