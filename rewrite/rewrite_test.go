package rewrite

import "testing"

func TestApplyRightToLeft(t *testing.T) {
	const src = "abcdef"
	p := NewPlan(0)
	if err := p.Add(Modification{Kind: Instrument, Loc: 2, Text: "XX", Priority: PriorityPlain}); err != nil {
		t.Fatal(err)
	}
	if err := p.Add(Modification{Kind: Remove, Loc: 4, Length: 2, Text: "", Priority: PriorityPlain}); err != nil {
		t.Fatal(err)
	}
	got, err := Apply(src, p)
	if err != nil {
		t.Fatal(err)
	}
	if want := "abXXcd"; got != want {
		t.Errorf("Apply() = %q; want %q", got, want)
	}
}

func TestApplyPriorityOrderingAtSameLoc(t *testing.T) {
	const src = "ab"
	p := NewPlan(0)
	if err := p.Add(Modification{Kind: Instrument, Loc: 1, Text: "LOW", Priority: PriorityLowest}); err != nil {
		t.Fatal(err)
	}
	if err := p.Add(Modification{Kind: Instrument, Loc: 1, Text: "HIGH", Priority: PriorityHighest}); err != nil {
		t.Fatal(err)
	}
	got, err := Apply(src, p)
	if err != nil {
		t.Fatal(err)
	}
	if want := "aHIGHLOWb"; got != want {
		t.Errorf("Apply() = %q; want %q", got, want)
	}
}

func TestAddOverlappingRemovesRejected(t *testing.T) {
	p := NewPlan(0)
	if err := p.Add(Modification{Kind: Remove, Loc: 0, Length: 5}); err != nil {
		t.Fatal(err)
	}
	if err := p.Add(Modification{Kind: Remove, Loc: 3, Length: 5}); err == nil {
		t.Error("Add() with overlapping Remove; want error")
	}
}
