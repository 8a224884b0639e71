// Package srcrange implements SourceRange, the half-open byte span used by
// every analysis artifact to refer back into the original source text, and
// the range arithmetic (expand-to-semicolon, left/right difference) needed by
// the step partitioner (spec §4.2).
package srcrange

import (
	"fmt"
	"strings"
)

// A Range is a half-open span `[Start, Start+Length)` of bytes within the
// source file identified by SourceID. Two Ranges are only ever compared or
// combined if they share a SourceID; doing otherwise is a programming error
// (see LeftDifference).
type Range struct {
	Start    uint32
	Length   uint32
	SourceID uint32
}

// End returns r.Start + r.Length.
func (r Range) End() uint32 { return r.Start + r.Length }

// Contains reports whether r2 falls entirely within r, requiring identical
// SourceIDs.
func (r Range) Contains(r2 Range) bool {
	return r.SourceID == r2.SourceID && r.Start <= r2.Start && r2.End() <= r.End()
}

// String renders the range as "sourceID:[start,end)", useful in error
// messages and test failures.
func (r Range) String() string {
	return fmt.Sprintf("%d:[%d,%d)", r.SourceID, r.Start, r.End())
}

// Slice returns the substring of src (the full backing text of r.SourceID)
// spanned by r. It panics if r falls outside src, which would indicate
// corrupt analysis state.
func (r Range) Slice(src string) string {
	return src[r.Start:r.End()]
}

// ExpandToSemicolon scans src forward from r.End() for the next top-level
// `;` and returns a new Range whose Length is extended to include it
// (spec §4.2: statement steps are "expanded to include [the] terminating `;`
// by scanning the backing source forward"). It does not attempt to skip
// semicolons nested in strings or comments because, by construction, it is
// only ever called immediately after a statement's syntactic end, where the
// next `;` in the token stream is always the statement terminator.
func (r Range) ExpandToSemicolon(src string) (Range, error) {
	rest := src[r.End():]
	i := strings.IndexByte(rest, ';')
	if i < 0 {
		return Range{}, fmt.Errorf("srcrange: no terminating ';' found after %v", r)
	}
	return Range{
		Start:    r.Start,
		Length:   r.Length + uint32(i) + 1,
		SourceID: r.SourceID,
	}, nil
}

// LeftDifference returns the portion of a that strictly precedes b: i.e.
// `[a.Start, b.Start)`. It is used to compute the range of an `if`/`for`
// header: the header is the left-difference of the whole statement and its
// body (spec §4.2).
//
// a and b MUST share a SourceID and b MUST be contained in, or adjacent to
// the tail of, a; otherwise it is a programming error and an error is
// returned rather than silently producing a nonsensical range (spec §4.2:
// "mismatched [source] ids is a programming error").
func LeftDifference(a, b Range) (Range, error) {
	if a.SourceID != b.SourceID {
		return Range{}, fmt.Errorf("srcrange: LeftDifference(%v, %v): mismatched source ids", a, b)
	}
	if b.Start < a.Start || b.Start > a.End() {
		return Range{}, fmt.Errorf("srcrange: LeftDifference(%v, %v): b not within or after a", a, b)
	}
	return Range{
		Start:    a.Start,
		Length:   b.Start - a.Start,
		SourceID: a.SourceID,
	}, nil
}

// RightDifference returns the portion of a that strictly follows b: i.e.
// `[b.End(), a.End())`. It is used, for example, to compute the range of a
// `while(...)` header when b is the loop body (spec §4.2).
func RightDifference(a, b Range) (Range, error) {
	if a.SourceID != b.SourceID {
		return Range{}, fmt.Errorf("srcrange: RightDifference(%v, %v): mismatched source ids", a, b)
	}
	if b.End() < a.Start || b.End() > a.End() {
		return Range{}, fmt.Errorf("srcrange: RightDifference(%v, %v): b not within a", a, b)
	}
	return Range{
		Start:    b.End(),
		Length:   a.End() - b.End(),
		SourceID: a.SourceID,
	}, nil
}

// Overlaps reports whether a and b (same SourceID) share any byte. Adjacent,
// non-overlapping ranges (a.End() == b.Start) return false.
func Overlaps(a, b Range) bool {
	if a.SourceID != b.SourceID {
		return false
	}
	return a.Start < b.End() && b.Start < a.End()
}
