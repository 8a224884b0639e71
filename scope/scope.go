// Package scope builds the nested variable-scope tree described in spec §3
// (VariableScope) and §4.3 (the Scope & Variable Tracker, C3): a tree of
// scopes, one per SourceUnit/ContractDefinition/FunctionDefinition/
// ModifierDefinition/Block/UncheckedBlock/ForStatement, each owning the
// variables declared directly within it.
package scope

import (
	"fmt"

	"github.com/arr4n/edb/astwalk"
	"github.com/arr4n/edb/ids"
	"github.com/arr4n/edb/srcrange"
)

// ID identifies a Scope within one Tracker session. Scopes are held in an
// arena (Tracker.scopes) and addressed by ID rather than via parent/child
// pointers, which sidesteps the parent↔child cyclic-reference concern raised
// in design note 9: an arena with integer handles has no cycles to reason
// about, only indices.
type ID int

// Variable is a declared name bound in exactly one Scope (spec §3).
type Variable struct {
	UVID            ids.UVID
	Name            string
	IsStateVariable bool
	Type            astwalk.TypeName
	Owner           ID
	Decl            *astwalk.VariableDeclaration
}

// Scope is one node of the nested scope tree. Parent is -1 for the root.
type Scope struct {
	ID       ID
	Range    srcrange.Range
	Declared []ids.UVID
	Parent   ID
	Children []ID
}

// Tracker builds the scope tree for one SourceAnalysis session and assigns
// UVIDs. It is not safe for concurrent use by multiple goroutines (each
// source file gets its own Tracker; see internal/analysispool for the
// per-file parallelism this enables, spec §5).
type Tracker struct {
	scopes    []Scope
	vars      map[ids.UVID]*Variable
	openStack []ID // scopes currently "open" (visited but not yet post-visited)
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{vars: make(map[ids.UVID]*Variable)}
}

// Scope returns the scope with the given ID.
func (t *Tracker) Scope(id ID) *Scope { return &t.scopes[id] }

// Variable returns the variable with the given UVID, or nil if unknown.
func (t *Tracker) Variable(uvid ids.UVID) *Variable { return t.vars[uvid] }

// Root returns the outermost (SourceUnit) scope's ID, valid only after the
// SourceUnit's range has been passed to the first Push.
func (t *Tracker) Root() ID { return 0 }

// Current returns the innermost currently-open scope, or -1 if none is open.
func (t *Tracker) Current() ID {
	if len(t.openStack) == 0 {
		return -1
	}
	return t.openStack[len(t.openStack)-1]
}

// Push opens a new scope with the given range, nested under the current
// scope (spec §4.3: "Scope is pushed on entering" the listed node kinds).
// The new scope becomes Current().
func (t *Tracker) Push(r srcrange.Range) ID {
	id := ID(len(t.scopes))
	parent := t.Current()
	t.scopes = append(t.scopes, Scope{ID: id, Range: r, Parent: parent})
	if parent >= 0 {
		t.scopes[parent].Children = append(t.scopes[parent].Children, id)
	}
	t.openStack = append(t.openStack, id)
	return id
}

// Pop closes the current scope, asserting that its range matches the
// supplied range (spec §4.3: "Popped symmetrically on post_visit, asserting
// range equality to detect traversal bugs"). It returns the UVIDs declared
// directly in the closed scope, for use in a VariableOutOfScope hook.
func (t *Tracker) Pop(r srcrange.Range) ([]ids.UVID, error) {
	if len(t.openStack) == 0 {
		return nil, fmt.Errorf("scope: Pop() with no open scope")
	}
	id := t.openStack[len(t.openStack)-1]
	t.openStack = t.openStack[:len(t.openStack)-1]

	if got := t.scopes[id].Range; got != r {
		return nil, fmt.Errorf("scope: Pop() range mismatch: pushed %v, popped %v", got, r)
	}
	return t.scopes[id].Declared, nil
}

// Declare allocates a UVID for decl and inserts it into the innermost open
// scope (spec §4.3). It returns the new UVID.
func (t *Tracker) Declare(decl *astwalk.VariableDeclaration, isState bool) (ids.UVID, error) {
	cur := t.Current()
	if cur < 0 {
		return 0, fmt.Errorf("scope: Declare(%q) with no open scope", decl.Name)
	}
	uvid := ids.NextUVID()
	v := &Variable{
		UVID:            uvid,
		Name:            decl.Name,
		IsStateVariable: isState,
		Type:            decl.Type,
		Owner:           cur,
		Decl:            decl,
	}
	t.vars[uvid] = v
	t.scopes[cur].Declared = append(t.scopes[cur].Declared, uvid)
	return uvid, nil
}

// Visible returns every UVID visible from scope id: its own declarations
// plus those of every ancestor (spec §3: "recursive visibility is
// parent∪self"), innermost first.
func (t *Tracker) Visible(id ID) []ids.UVID {
	var out []ids.UVID
	for id >= 0 {
		out = append(out, t.scopes[id].Declared...)
		id = t.scopes[id].Parent
	}
	return out
}

// Resolve looks up name starting from scope id and walking up through
// ancestors, returning the innermost matching Variable (normal lexical
// shadowing rules).
func (t *Tracker) Resolve(id ID, name string) (*Variable, bool) {
	for id >= 0 {
		for _, uvid := range t.scopes[id].Declared {
			if v := t.vars[uvid]; v.Name == name {
				return v, true
			}
		}
		id = t.scopes[id].Parent
	}
	return nil, false
}
