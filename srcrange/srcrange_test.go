package srcrange

import "testing"

func TestExpandToSemicolon(t *testing.T) {
	src := `uint256 a=1; uint256 b=2;`
	r := Range{Start: 0, Length: 10, SourceID: 1} // "uint256 a=" (before the closing digit+;)

	got, err := r.ExpandToSemicolon(src)
	if err != nil {
		t.Fatalf("ExpandToSemicolon: %v", err)
	}
	if want := "uint256 a=1;"; got.Slice(src) != want {
		t.Errorf("ExpandToSemicolon().Slice() = %q; want %q", got.Slice(src), want)
	}
}

func TestExpandToSemicolonMissing(t *testing.T) {
	src := "uint256 a=1"
	r := Range{Start: 0, Length: 11, SourceID: 1}
	if _, err := r.ExpandToSemicolon(src); err == nil {
		t.Error("ExpandToSemicolon() with no ';' in source; want error")
	}
}

func TestLeftRightDifference(t *testing.T) {
	whole := Range{Start: 0, Length: 30, SourceID: 7}
	body := Range{Start: 20, Length: 10, SourceID: 7}

	left, err := LeftDifference(whole, body)
	if err != nil {
		t.Fatalf("LeftDifference: %v", err)
	}
	if want := (Range{Start: 0, Length: 20, SourceID: 7}); left != want {
		t.Errorf("LeftDifference() = %v; want %v", left, want)
	}

	right, err := RightDifference(whole, body)
	if err != nil {
		t.Fatalf("RightDifference: %v", err)
	}
	if want := (Range{Start: 30, Length: 0, SourceID: 7}); right != want {
		t.Errorf("RightDifference() = %v; want %v", right, want)
	}
}

func TestDifferenceMismatchedSourceID(t *testing.T) {
	a := Range{SourceID: 1, Start: 0, Length: 10}
	b := Range{SourceID: 2, Start: 0, Length: 5}
	if _, err := LeftDifference(a, b); err == nil {
		t.Error("LeftDifference() with mismatched source ids; want error")
	}
	if _, err := RightDifference(a, b); err == nil {
		t.Error("RightDifference() with mismatched source ids; want error")
	}
}

func TestOverlaps(t *testing.T) {
	a := Range{SourceID: 1, Start: 0, Length: 10}
	adjacent := Range{SourceID: 1, Start: 10, Length: 5}
	overlapping := Range{SourceID: 1, Start: 5, Length: 5}

	if Overlaps(a, adjacent) {
		t.Error("Overlaps(a, adjacent) = true; want false")
	}
	if !Overlaps(a, overlapping) {
		t.Error("Overlaps(a, overlapping) = false; want true")
	}
}
