// Package annotation implements the Annotation Analyzer (C4): a read-only
// pass over a pruned SourceUnit that decides, per contract, which state
// variables and functions are candidates for the instrumentation rewriter
// (C5) and the view-method synthesizer (C6) to touch (spec §4.4).
//
// It never mutates the AST; rewrite.Plan consumes its output alongside
// step.Analysis.
package annotation

import "github.com/arr4n/edb/astwalk"

// Contract is the annotation result for one ContractDefinition: the subset
// of its members that downstream passes may act on.
type Contract struct {
	// PrivateStateVariables are declared "private" or "internal" (the
	// default visibility when unspecified) and have no existing public
	// accessor, so view synthesis (C6) may generate one (spec §4.6).
	PrivateStateVariables []*astwalk.VariableDeclaration

	// PrivateFunctions are declared "private" or "internal" (or declare no
	// visibility); the rewriter (C5) removes their visibility keyword and
	// makes them public (spec §4.5 family 1).
	PrivateFunctions []*astwalk.FunctionDefinition

	// ImmutableFunctions are declared "view" or "pure"; the rewriter must
	// not insert state-mutating hook calls into them unless it first widens
	// their mutability (spec §4.4/§4.5), so they are flagged separately.
	ImmutableFunctions []*astwalk.FunctionDefinition
}

// isPrivateVisibility reports whether vis names a non-externally-visible
// member. Solidity's declared-visibility default for state variables is
// "internal" when the field is empty.
func isPrivateVisibility(vis string) bool {
	switch vis {
	case "private", "internal", "":
		return true
	default:
		return false
	}
}

// Analyze computes the annotation Contract for c.
func Analyze(c *astwalk.ContractDefinition) Contract {
	var out Contract
	for _, v := range c.StateVariables {
		if isPrivateVisibility(v.Visibility) {
			out.PrivateStateVariables = append(out.PrivateStateVariables, v)
		}
	}
	for _, f := range c.Functions {
		if isPrivateVisibility(f.Visibility) {
			out.PrivateFunctions = append(out.PrivateFunctions, f)
		}
		switch f.Mutability {
		case "view", "pure":
			out.ImmutableFunctions = append(out.ImmutableFunctions, f)
		}
	}
	return out
}

// AnalyzeUnit runs Analyze over every contract in u, keyed by contract name.
func AnalyzeUnit(u *astwalk.SourceUnit) map[string]Contract {
	out := make(map[string]Contract, len(u.Contracts))
	for _, c := range u.Contracts {
		out[c.Name] = Analyze(c)
	}
	return out
}
