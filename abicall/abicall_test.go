package abicall

import (
	"strings"
	"testing"
)

func TestSplitTopLevelRespectsNesting(t *testing.T) {
	parts, err := splitTopLevel(`uint256(1), (2, 3), "a,b"`)
	if err != nil {
		t.Fatalf("splitTopLevel: %v", err)
	}
	want := []string{"uint256(1)", "(2, 3)", `"a,b"`}
	if len(parts) != len(want) {
		t.Fatalf("got %v, want %v", parts, want)
	}
	for i := range want {
		if strings.TrimSpace(parts[i]) != want[i] {
			t.Fatalf("part %d: got %q, want %q", i, parts[i], want[i])
		}
	}
}

func TestParseCallExtractsNameAndArgs(t *testing.T) {
	c, err := parseCall(`transfer(0xabc, uint256(100))`)
	if err != nil {
		t.Fatalf("parseCall: %v", err)
	}
	if c.name != "transfer" || len(c.args) != 2 {
		t.Fatalf("got %+v", c)
	}
}

func TestCastCompatibilityRejectsMismatch(t *testing.T) {
	if isUintTypeName("int256") {
		t.Fatal("int256 should not be a uint type name")
	}
	if !isUintTypeName("uint8") || !isUintTypeName("uint") {
		t.Fatal("uint8/uint should be uint type names")
	}
	if !isBytesNTypeName("bytes32") || isBytesNTypeName("bytes") {
		t.Fatal("bytes32 should be bytesN, bare bytes should not")
	}
}
