package eval

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// mockHandlers resolves a fixed variable table, used the way spec §4.10(c)
// describes: "a deterministic mock (tests)".
type mockHandlers struct {
	StubHandlers
	vars map[string]SolValue
}

func (m mockHandlers) GetVariable(name string, _ int) (SolValue, error) {
	v, ok := m.vars[name]
	if !ok {
		return m.StubHandlers.GetVariable(name, 0)
	}
	return v, nil
}

func TestEvalArithmeticSaturates(t *testing.T) {
	e := New(mockHandlers{vars: map[string]SolValue{}})
	v, err := e.Eval("uint8(250) + uint8(10)", 0)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Kind != KindUint || v.Int.Cmp(big.NewInt(255)) != 0 {
		t.Fatalf("want saturated 255, got %v", v.Int)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	e := New(mockHandlers{vars: map[string]SolValue{}})
	_, err := e.Eval("uint256(1) / uint256(0)", 0)
	if err == nil {
		t.Fatal("want DivisionByZero, got nil")
	}
}

func TestEvalTernaryAndComparison(t *testing.T) {
	e := New(mockHandlers{vars: map[string]SolValue{
		"balance": Uint(big.NewInt(100), 256),
	}})
	v, err := e.Eval("balance > uint256(50) ? uint256(1) : uint256(0)", 0)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Int.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("want 1, got %v", v.Int)
	}
}

func TestEvalAddressCastLowerBits(t *testing.T) {
	e := New(mockHandlers{vars: map[string]SolValue{}})
	v, err := e.Eval("address(uint256(1))", 0)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	want := common.BigToAddress(big.NewInt(1))
	if v.Addr != want {
		t.Fatalf("want %v, got %v", want, v.Addr)
	}
}

func TestEvalArrayLiteralAndIndexBuiltinLength(t *testing.T) {
	e := New(mockHandlers{vars: map[string]SolValue{}})
	v, err := e.Eval("[uint256(1), uint256(2), uint256(3)].length", 0)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Int.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("want length 3, got %v", v.Int)
	}
}

func TestEvalUnresolvedIdentifierErrors(t *testing.T) {
	e := New(mockHandlers{vars: map[string]SolValue{}})
	if _, err := e.Eval("doesNotExist", 0); err == nil {
		t.Fatal("want error for unresolved identifier")
	}
}
