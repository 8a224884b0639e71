package annotation

import (
	"testing"

	"github.com/arr4n/edb/astwalk"
)

func TestAnalyzeClassifiesMembers(t *testing.T) {
	c := &astwalk.ContractDefinition{
		Name: "C",
		StateVariables: []*astwalk.VariableDeclaration{
			{Name: "a", Visibility: "private"},
			{Name: "b", Visibility: "public"},
			{Name: "c", Visibility: ""},
		},
		Functions: []*astwalk.FunctionDefinition{
			{Name: "f", Visibility: "public", Mutability: "view"},
			{Name: "g", Visibility: "internal"},
			{Name: "h", Visibility: "public", Mutability: "payable"},
		},
	}

	got := Analyze(c)
	if len(got.PrivateStateVariables) != 2 {
		t.Errorf("PrivateStateVariables = %d; want 2 (a, c)", len(got.PrivateStateVariables))
	}
	if len(got.PrivateFunctions) != 1 || got.PrivateFunctions[0].Name != "g" {
		t.Errorf("PrivateFunctions = %v; want [g]", got.PrivateFunctions)
	}
	if len(got.ImmutableFunctions) != 1 || got.ImmutableFunctions[0].Name != "f" {
		t.Errorf("ImmutableFunctions = %v; want [f]", got.ImmutableFunctions)
	}
}
