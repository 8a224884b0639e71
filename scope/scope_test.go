package scope

import (
	"testing"

	"github.com/arr4n/edb/astwalk"
	"github.com/arr4n/edb/ids"
	"github.com/arr4n/edb/srcrange"
)

func TestPushDeclarePop(t *testing.T) {
	ids.ResetForTesting()
	tr := NewTracker()

	fileScope := srcrange.Range{Start: 0, Length: 100, SourceID: 1}
	fnScope := srcrange.Range{Start: 10, Length: 50, SourceID: 1}

	tr.Push(fileScope)
	tr.Push(fnScope)

	aDecl := &astwalk.VariableDeclaration{Name: "a"}
	bDecl := &astwalk.VariableDeclaration{Name: "b"}

	if _, err := tr.Declare(aDecl, false); err != nil {
		t.Fatalf("Declare(a): %v", err)
	}
	if _, err := tr.Declare(bDecl, false); err != nil {
		t.Fatalf("Declare(b): %v", err)
	}

	declared, err := tr.Pop(fnScope)
	if err != nil {
		t.Fatalf("Pop(fnScope): %v", err)
	}
	if len(declared) != 2 {
		t.Fatalf("Pop() returned %d UVIDs; want 2", len(declared))
	}

	if _, err := tr.Pop(fileScope); err != nil {
		t.Fatalf("Pop(fileScope): %v", err)
	}
}

func TestPopRangeMismatchIsError(t *testing.T) {
	ids.ResetForTesting()
	tr := NewTracker()
	tr.Push(srcrange.Range{Start: 0, Length: 10, SourceID: 1})
	if _, err := tr.Pop(srcrange.Range{Start: 0, Length: 20, SourceID: 1}); err == nil {
		t.Error("Pop() with mismatched range; want error")
	}
}

func TestResolveShadowing(t *testing.T) {
	ids.ResetForTesting()
	tr := NewTracker()

	outer := tr.Push(srcrange.Range{Start: 0, Length: 100, SourceID: 1})
	_, _ = outer, 0
	outerX, err := tr.Declare(&astwalk.VariableDeclaration{Name: "x"}, false)
	if err != nil {
		t.Fatal(err)
	}

	inner := tr.Push(srcrange.Range{Start: 10, Length: 50, SourceID: 1})
	innerX, err := tr.Declare(&astwalk.VariableDeclaration{Name: "x"}, false)
	if err != nil {
		t.Fatal(err)
	}

	v, ok := tr.Resolve(inner, "x")
	if !ok {
		t.Fatal("Resolve(inner, x) not found")
	}
	if v.UVID != innerX {
		t.Errorf("Resolve(inner, x) = %d; want the shadowing inner declaration %d (outer was %d)", v.UVID, innerX, outerX)
	}
}
