package viewsynth

import (
	"strings"
	"testing"

	"github.com/arr4n/edb/astwalk"
)

// TestSynthesizeMappingOfArray matches spec §8 scenario 3: a private
// `mapping(address => uint256[]) balances` state variable.
func TestSynthesizeMappingOfArray(t *testing.T) {
	v := &astwalk.VariableDeclaration{
		Name: "balances",
		Type: astwalk.TypeName{
			Mapping: &astwalk.MappingType{
				Key:   astwalk.TypeName{Elementary: "address"},
				Value: astwalk.TypeName{Array: &astwalk.ArrayType{Element: astwalk.TypeName{Elementary: "uint256"}}},
			},
		},
	}

	m, ok := Synthesize(v, 7)
	if !ok {
		t.Fatal("Synthesize() = false; want true")
	}
	if want := "balances_edb_state_var_7"; m.Name != want {
		t.Errorf("Name = %q; want %q", m.Name, want)
	}
	for _, want := range []string{"address key", "uint256 index", "returns (uint256)", "balances[key][index]"} {
		if !strings.Contains(m.Text, want) {
			t.Errorf("Text = %q; missing %q", m.Text, want)
		}
	}
}

func TestSynthesizeSkipsConstantAndUserDefined(t *testing.T) {
	if _, ok := Synthesize(&astwalk.VariableDeclaration{Name: "c", Constant: true, Type: astwalk.TypeName{Elementary: "uint256"}}, 1); ok {
		t.Error("Synthesize(constant) = true; want false")
	}
	if _, ok := Synthesize(&astwalk.VariableDeclaration{Name: "s", Type: astwalk.TypeName{UserDefined: true, Name: "Foo"}}, 2); ok {
		t.Error("Synthesize(user-defined) = true; want false")
	}
}

func TestSynthesizeMemoryReturnForStringArray(t *testing.T) {
	v := &astwalk.VariableDeclaration{
		Name: "names",
		Type: astwalk.TypeName{Array: &astwalk.ArrayType{Element: astwalk.TypeName{Elementary: "string"}}},
	}
	m, ok := Synthesize(v, 3)
	if !ok {
		t.Fatal("Synthesize() = false; want true")
	}
	if !strings.Contains(m.Text, "returns (string memory)") {
		t.Errorf("Text = %q; want memory return", m.Text)
	}
}
