package breakpoint

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

type fakeSource struct {
	files []string
	addrs []common.Address
	paths []string
	lines []int
}

func (f fakeSource) Count() int                            { return len(f.addrs) }
func (f fakeSource) BytecodeAddress(i int) common.Address   { return f.addrs[i] }
func (f fakeSource) PC(int) (uint64, bool)                  { return 0, false }
func (f fakeSource) KnownFiles() []string                   { return f.files }
func (f fakeSource) EvalCondition(string, int) (bool, error) { return true, nil }
func (f fakeSource) SourceLocation(i int) (string, int, bool) {
	return f.paths[i], f.lines[i], true
}

func TestAddSourceBreakpointAmbiguousFile(t *testing.T) {
	src := fakeSource{files: []string{"a/Foo.sol", "b/Foo.sol"}}
	e := New(src)
	_, err := e.Add(&Location{Kind: LocationSource, FilePath: "Foo.sol", Line: 10}, "")
	if err == nil {
		t.Fatal("want BreakpointAmbiguous error")
	}
}

func TestSourceBreakpointHitsMatchingLines(t *testing.T) {
	addr := common.HexToAddress("0x1")
	src := fakeSource{
		files: []string{"contracts/Foo.sol"},
		addrs: []common.Address{addr, addr, addr},
		paths: []string{"contracts/Foo.sol", "contracts/Foo.sol", "contracts/Foo.sol"},
		lines: []int{9, 10, 11},
	}
	e := New(src)
	bp, err := e.Add(&Location{Kind: LocationSource, BytecodeAddress: addr, FilePath: "Foo.sol", Line: 10}, "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	hits, err := e.Hits(bp)
	if err != nil {
		t.Fatalf("Hits: %v", err)
	}
	if len(hits) != 1 || hits[0] != 1 {
		t.Fatalf("want [1], got %v", hits)
	}
}

func TestDisabledBreakpointHasNoHits(t *testing.T) {
	addr := common.HexToAddress("0x1")
	src := fakeSource{
		files: []string{"Foo.sol"},
		addrs: []common.Address{addr},
		paths: []string{"Foo.sol"},
		lines: []int{5},
	}
	e := New(src)
	bp, err := e.Add(&Location{Kind: LocationSource, BytecodeAddress: addr, FilePath: "Foo.sol", Line: 5}, "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	e.Disable(bp.ID)
	hits, err := e.Hits(bp)
	if err != nil {
		t.Fatalf("Hits: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("want no hits for disabled breakpoint, got %v", hits)
	}
}
