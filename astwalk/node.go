// Package astwalk normalizes the AST emitted by the external Solidity
// compiler driver into a typed, source-range-annotated tree and provides the
// visitor discipline (spec §4.1) that every later analysis pass (C2-C4) rides
// on. It is deliberately modelled on the standard library's ast.Walk: a
// single dispatch point over a closed set of concrete node types, rather than
// one interface method per node kind, because Go has no sum types and a
// switch on a Kind is the idiomatic substitute (the compiler AST input is
// JSON and is decoded into these types by Convert).
package astwalk

import "github.com/arr4n/edb/srcrange"

// Kind enumerates the node shapes this package understands. Compiler AST
// nodes with no debugger relevance (NatSpec, using-for directives, pragma
// statements) are dropped during Convert and never appear as a Kind.
type Kind int

const (
	KindSourceUnit Kind = iota
	KindContractDefinition
	KindFunctionDefinition
	KindModifierDefinition
	KindEventDefinition
	KindStructDefinition
	KindEnumDefinition
	KindUserDefinedValueType
	KindBlock
	KindUncheckedBlock
	KindIf
	KindFor
	KindWhile
	KindDoWhile
	KindTry
	KindBreak
	KindContinue
	KindEmit
	KindReturn
	KindRevert
	KindExpressionStatement
	KindInlineAssembly
	KindVariableDeclarationStatement
	KindVariableDeclaration
	KindPlaceholderStatement
	KindExpression
)

//go:generate stringer -type=Kind

// A Node is one element of the pruned AST. Concrete types below all embed
// Base and satisfy Node by construction.
type Node interface {
	Kind() Kind
	Range() srcrange.Range
	Children() []Node
	// Pruning is not a Node method: the package-level Prune drops a
	// ContractDefinition's EventDefinitions (and optionally its type
	// definitions) in place.
}

// Base is embedded by every concrete node type, supplying Kind and Range.
type Base struct {
	K Kind
	R srcrange.Range
}

// Kind implements Node.
func (b Base) Kind() Kind { return b.K }

// Range implements Node.
func (b Base) Range() srcrange.Range { return b.R }

// SourceUnit is the root of one file's AST.
type SourceUnit struct {
	Base
	Contracts []*ContractDefinition
}

func (u *SourceUnit) Children() []Node {
	out := make([]Node, len(u.Contracts))
	for i, c := range u.Contracts {
		out[i] = c
	}
	return out
}

// ContractDefinition groups functions, modifiers and state variables.
type ContractDefinition struct {
	Base
	Name           string
	Functions      []*FunctionDefinition
	Modifiers      []*ModifierDefinition
	StateVariables []*VariableDeclaration
	// Events, structs, enums and user-defined value types are retained only
	// when a later pass needs type information (spec §4.1: "unless type info
	// is needed"); Convert keeps them but Prune drops Events by default.
	Events                 []*EventDefinition
	Structs                []*StructDefinition
	Enums                  []*EnumDefinition
	UserDefinedValueTypes  []*UserDefinedValueType
}

func (c *ContractDefinition) Children() []Node {
	var out []Node
	for _, f := range c.Functions {
		out = append(out, f)
	}
	for _, m := range c.Modifiers {
		out = append(out, m)
	}
	for _, v := range c.StateVariables {
		out = append(out, v)
	}
	return out
}

// FunctionDefinition is a contract function; Body is nil for declarations
// without an implementation (interface/abstract functions), in which case no
// FunctionEntry step is emitted (spec §4.2).
type FunctionDefinition struct {
	Base
	Name       string
	Visibility string // "public", "external", "internal", "private"
	Mutability string // "", "view", "pure", "payable"
	Body       *Block
}

func (f *FunctionDefinition) Children() []Node {
	if f.Body == nil {
		return nil
	}
	return []Node{f.Body}
}

// ModifierDefinition is a Solidity modifier.
type ModifierDefinition struct {
	Base
	Name string
	Body *Block
}

func (m *ModifierDefinition) Children() []Node {
	if m.Body == nil {
		return nil
	}
	return []Node{m.Body}
}

// EventDefinition, StructDefinition, EnumDefinition and UserDefinedValueType
// are thin leaves kept only for type resolution; they are pruned from the
// step-relevant walk by default (spec §4.1).
type (
	EventDefinition struct {
		Base
		Name string
	}
	StructDefinition struct {
		Base
		Name string
	}
	EnumDefinition struct {
		Base
		Name string
	}
	UserDefinedValueType struct {
		Base
		Name string
	}
)

func (*EventDefinition) Children() []Node      { return nil }
func (*StructDefinition) Children() []Node     { return nil }
func (*EnumDefinition) Children() []Node       { return nil }
func (*UserDefinedValueType) Children() []Node { return nil }

// Block is `{ ... }`; UncheckedBlock is `unchecked { ... }`. Both push a
// scope (spec §4.3) but neither emits a step of its own (spec §4.2).
type Block struct {
	Base
	Statements []Node
}

func (b *Block) Children() []Node { return b.Statements }

// UncheckedBlock behaves like Block for step/scope purposes.
type UncheckedBlock struct {
	Base
	Statements []Node
}

func (b *UncheckedBlock) Children() []Node { return b.Statements }

// If is an `if`/`else` statement.
type If struct {
	Base
	Condition Node // an Expression
	True      Node // a Block or, for a bare statement, the statement itself
	False     Node // nil, a Block, or another *If (else-if chain)
}

func (i *If) Children() []Node {
	out := []Node{i.True}
	if i.False != nil {
		out = append(out, i.False)
	}
	return out
}

// For is a `for (init; cond; post) body` statement. Init/Cond/Post may each
// be nil.
type For struct {
	Base
	Init Node
	Cond Node
	Post Node
	Body Node
}

func (f *For) Children() []Node { return []Node{f.Body} }

// While is a `while (cond) body` statement.
type While struct {
	Base
	Cond Node
	Body Node
}

func (w *While) Children() []Node { return []Node{w.Body} }

// DoWhile is a `do body while (cond);` statement.
type DoWhile struct {
	Base
	Cond Node
	Body Node
}

func (d *DoWhile) Children() []Node { return []Node{d.Body} }

// TryClause is one `try`/`catch` arm.
type TryClause struct {
	Body Node // a Block
}

// Try is a `try externalCall() returns (...) { } catch { } ...` statement.
type Try struct {
	Base
	ExternalCall Node
	Clauses      []TryClause
}

func (t *Try) Children() []Node {
	out := make([]Node, len(t.Clauses))
	for i, c := range t.Clauses {
		out[i] = c.Body
	}
	return out
}

// Leaf statement kinds, with no children relevant to further step
// partitioning (their sub-expressions are not independently steppable).
// Partition gives each its own Statement step (spec §4.2), except that a run
// of consecutive Break/ContinueStmt/Emit/Return/Revert/ExpressionStatement/
// InlineAssembly nodes becomes one Statements step and PlaceholderStatement
// gets no step.
type (
	Break                    struct{ Base }
	ContinueStmt             struct{ Base }
	Emit                     struct{ Base }
	Return                   struct{ Base }
	Revert                   struct{ Base }
	ExpressionStatement      struct{ Base }
	InlineAssembly           struct{ Base }
	PlaceholderStatement     struct{ Base } // modifier's `_;`
	VariableDeclarationStmt  struct {
		Base
		Declarations []*VariableDeclaration
	}
)

func (Break) Children() []Node               { return nil }
func (ContinueStmt) Children() []Node        { return nil }
func (Emit) Children() []Node                { return nil }
func (Return) Children() []Node              { return nil }
func (Revert) Children() []Node              { return nil }
func (ExpressionStatement) Children() []Node { return nil }
func (InlineAssembly) Children() []Node      { return nil }
func (PlaceholderStatement) Children() []Node { return nil }
func (v *VariableDeclarationStmt) Children() []Node {
	out := make([]Node, len(v.Declarations))
	for i, d := range v.Declarations {
		out[i] = d
	}
	return out
}

// VariableDeclaration is a local, state, or parameter declaration. TypeName
// carries enough of the elementary+mapping+array type algebra for the view
// synthesizer (C6) and expression evaluator (C10) to reason about it without
// re-parsing source text.
type VariableDeclaration struct {
	Base
	Name       string
	Visibility string // state variables only; "" for locals/params
	Constant   bool
	Type       TypeName
}

func (*VariableDeclaration) Children() []Node { return nil }

// TypeName models the elementary+mapping+array type algebra referenced by
// spec §4.6 and §4.10. UserDefined is true for struct/enum/contract types,
// which view-method synthesis must skip (spec §4.6: "no user-defined types").
type TypeName struct {
	Elementary string    // e.g. "uint256", "address", "bool", "string", "bytes32"
	Mapping    *MappingType
	Array      *ArrayType
	UserDefined bool
	Name        string // set iff UserDefined
}

// MappingType is `mapping(Key => Value)`.
type MappingType struct {
	Key   TypeName
	Value TypeName
}

// ArrayType is `T[]` (Fixed == nil) or `T[N]` (Fixed != nil).
type ArrayType struct {
	Element TypeName
	Fixed   *uint64
}

// IsMemoryType reports whether values of t are reference types requiring a
// `memory` data-location annotation when returned from a synthesized view
// accessor (spec §4.6).
func (t TypeName) IsMemoryType() bool {
	if t.Array != nil {
		return true
	}
	switch t.Elementary {
	case "string", "bytes":
		return true
	}
	return false
}

// Expression is an opaque expression subtree; the step partitioner only
// needs its Range, and the evaluator (C10) re-parses expression text
// independently (spec §4.10), so no further structure is modelled here.
type Expression struct {
	Base
	Text string // verbatim source text, used by TryCall/IfCondition hosts
}

func (Expression) Children() []Node { return nil }
