package step

import (
	"testing"

	"github.com/arr4n/edb/astwalk"
	"github.com/arr4n/edb/ids"
	"github.com/arr4n/edb/srcrange"
)

func rng(start, end int) srcrange.Range {
	return srcrange.Range{Start: uint32(start), Length: uint32(end - start), SourceID: 0}
}

func base(k astwalk.Kind, start, end int) astwalk.Base {
	return astwalk.Base{K: k, R: rng(start, end)}
}

// TestPartitionThreeStatements matches spec §8 scenario 1: a function body of
// two declarations followed by an assignment gets one FunctionEntry step
// and one Statement step per declaration (no coalescing, since declarations
// are never coalesced) plus one for the trailing assignment.
func TestPartitionThreeStatements(t *testing.T) {
	ids.ResetForTesting()

	const src = `{ uint256 a=1; uint256 b=2; v=a+b; }`
	// Offsets within src.
	bodyRange := rng(0, len(src))
	aDecl := &astwalk.VariableDeclarationStmt{
		Base:         base(astwalk.KindVariableDeclarationStatement, 2, 13),
		Declarations: []*astwalk.VariableDeclaration{{Base: base(astwalk.KindVariableDeclaration, 2, 11), Name: "a"}},
	}
	bDecl := &astwalk.VariableDeclarationStmt{
		Base:         base(astwalk.KindVariableDeclarationStatement, 15, 26),
		Declarations: []*astwalk.VariableDeclaration{{Base: base(astwalk.KindVariableDeclaration, 15, 24), Name: "b"}},
	}
	assign := &astwalk.ExpressionStatement{Base: base(astwalk.KindExpressionStatement, 28, 33)}

	body := &astwalk.Block{Base: astwalk.Base{K: astwalk.KindBlock, R: bodyRange}, Statements: []astwalk.Node{aDecl, bDecl, assign}}
	fn := &astwalk.FunctionDefinition{Base: base(astwalk.KindFunctionDefinition, 0, len(src)), Name: "f", Body: body}
	unit := &astwalk.SourceUnit{
		Base: astwalk.Base{K: astwalk.KindSourceUnit, R: rng(0, len(src))},
		Contracts: []*astwalk.ContractDefinition{{
			Base:      base(astwalk.KindContractDefinition, 0, len(src)),
			Name:      "C",
			Functions: []*astwalk.FunctionDefinition{fn},
		}},
	}

	a, err := Partition(unit, src)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if got, want := len(a.Steps), 4; got != want {
		t.Fatalf("len(Steps) = %d; want %d: %+v", got, want, a.Steps)
	}
	wantVariants := []Variant{VariantFunctionEntry, VariantStatement, VariantStatement, VariantStatement}
	for i, w := range wantVariants {
		if got := a.Steps[i].Variant; got != w {
			t.Errorf("Steps[%d].Variant = %v; want %v", i, got, w)
		}
	}

	// Scope 0 is the SourceUnit, scope 1 is the contract, scope 2 is the
	// function body: the only scope that declares a and b.
	funcScope := a.Scopes.Scope(2)
	if got, want := len(funcScope.Declared), 2; got != want {
		t.Errorf("len(scope 2 Declared) = %d; want %d (a, b)", got, want)
	}
}

// TestPartitionDoWhileBreakContinue matches spec §8 scenario 2's shape: a
// do-while loop with an if/break and an if/continue ahead of a trailing
// assignment. It asserts the per-variant breakdown rather than a literal
// total step count, since the scenario text alone underdetermines the exact
// total (see design note resolving this in DESIGN.md).
func TestPartitionDoWhileBreakContinue(t *testing.T) {
	ids.ResetForTesting()

	const src = "function f() public { uint256 i = 0; do { if (i == 5) { break; } if (i == 3) { continue; } i = i + 1; } while (i < 10); }"

	decl := &astwalk.VariableDeclarationStmt{
		Base:         base(astwalk.KindVariableDeclarationStatement, 22, 35),
		Declarations: []*astwalk.VariableDeclaration{{Base: base(astwalk.KindVariableDeclaration, 22, 33), Name: "i"}},
	}

	breakBlock := &astwalk.Block{
		Base:       base(astwalk.KindBlock, 54, 64),
		Statements: []astwalk.Node{&astwalk.Break{Base: base(astwalk.KindBreak, 56, 61)}},
	}
	if1 := &astwalk.If{
		Base: base(astwalk.KindIf, 42, 64),
		True: breakBlock,
	}

	continueBlock := &astwalk.Block{
		Base:       base(astwalk.KindBlock, 77, 90),
		Statements: []astwalk.Node{&astwalk.ContinueStmt{Base: base(astwalk.KindContinue, 79, 87)}},
	}
	if2 := &astwalk.If{
		Base: base(astwalk.KindIf, 65, 90),
		True: continueBlock,
	}

	incr := &astwalk.ExpressionStatement{Base: base(astwalk.KindExpressionStatement, 91, 100)}

	doBody := &astwalk.Block{
		Base:       base(astwalk.KindBlock, 40, 103),
		Statements: []astwalk.Node{if1, if2, incr},
	}
	doWhile := &astwalk.DoWhile{
		Base: base(astwalk.KindDoWhile, 37, 119),
		Body: doBody,
	}

	fnBody := &astwalk.Block{
		Base:       base(astwalk.KindBlock, 20, 121),
		Statements: []astwalk.Node{decl, doWhile},
	}
	fn := &astwalk.FunctionDefinition{Base: base(astwalk.KindFunctionDefinition, 0, len(src)), Name: "f", Body: fnBody}
	unit := &astwalk.SourceUnit{
		Base: astwalk.Base{K: astwalk.KindSourceUnit, R: rng(0, len(src))},
		Contracts: []*astwalk.ContractDefinition{{
			Base:      base(astwalk.KindContractDefinition, 0, len(src)),
			Name:      "C",
			Functions: []*astwalk.FunctionDefinition{fn},
		}},
	}

	a, err := Partition(unit, src)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}

	counts := map[Variant]int{}
	for _, s := range a.Steps {
		counts[s.Variant]++
	}
	want := map[Variant]int{
		VariantFunctionEntry:      1,
		VariantStatement:          4, // decl, break, continue, i = i + 1
		VariantIfCondition:        2,
		VariantWhileLoopCondition: 1,
	}
	for variant, n := range want {
		if counts[variant] != n {
			t.Errorf("count[%v] = %d; want %d (all steps: %+v)", variant, counts[variant], n, a.Steps)
		}
	}
	if got, want := len(a.Steps), 8; got != want {
		t.Errorf("len(Steps) = %d; want %d", got, want)
	}
}
