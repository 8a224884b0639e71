// Package rewrite implements the Source Rewriter (C5): it takes the Step
// Partitioner's output (package step) together with the Annotation
// Analyzer's output (package annotation) and produces an instrumented copy
// of the original source, splicing in hook calls and visibility/mutability
// changes without disturbing any byte offset the analysis already computed
// (spec §4.5).
//
// The splicing discipline is the same one the teacher's bytecode assembler
// uses for lazily-resolved jump destinations (compile.go's splice type): a
// list of edits anchored to offsets into an immutable backing buffer, merged
// in one pass. Here the buffer is source text rather than bytecode, and
// edits are applied right-to-left so that an earlier edit's byte offset is
// never invalidated by a later one.
package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arr4n/edb/edberrors"
	"github.com/arr4n/edb/srcrange"
)

// Priority bands for modifications located at the same offset, all within
// [0,255] (spec §4.5 / SPEC_FULL.md §12). Higher-priority text comes first
// in the output: a body wrap's opening brace (PriorityHighest) precedes a
// hook call (PriorityHook) at the same point, and its closing brace
// (PriorityLowest) follows everything else inserted there.
const (
	PriorityHighest = 255
	PriorityHook    = 200
	PriorityPlain   = 100
	PriorityLowest  = 0
)

// Kind distinguishes the two shapes of edit a Modification can make.
type Kind int

const (
	// Instrument inserts Text at Loc without consuming any existing bytes.
	Instrument Kind = iota
	// Remove deletes the span [Loc, Loc+Length) and inserts Text (possibly
	// empty) in its place, e.g. to rewrite `private` to `public`.
	Remove
)

// Modification is one edit to the original source, anchored at a byte
// offset. Two Modifications may share a Loc; Priority (higher first) then
// breaks the tie deterministically.
type Modification struct {
	Kind     Kind
	Loc      uint32
	Length   uint32 // only meaningful for Remove
	Text     string
	Priority int
}

// Plan accumulates Modifications for one source file, keyed by Loc so that
// InstrumentationOverlap can be detected before Apply ever runs.
type Plan struct {
	SourceID uint32
	mods     map[uint32][]Modification
}

// NewPlan returns an empty Plan for the given source file.
func NewPlan(sourceID uint32) *Plan {
	return &Plan{SourceID: sourceID, mods: make(map[uint32][]Modification)}
}

// Add inserts m into the plan. Two Remove modifications whose spans overlap
// (as opposed to sharing a single point Loc) are rejected with
// InstrumentationOverlap, since there is no well-defined order to apply them
// in (spec §4.5).
func (p *Plan) Add(m Modification) error {
	if m.Kind == Remove {
		for _, existing := range p.all() {
			if existing.Kind != Remove {
				continue
			}
			a := srcrange.Range{Start: m.Loc, Length: maxU32(m.Length, 1), SourceID: p.SourceID}
			b := srcrange.Range{Start: existing.Loc, Length: maxU32(existing.Length, 1), SourceID: p.SourceID}
			if a != b && srcrange.Overlaps(a, b) {
				return fmt.Errorf("rewrite: %w: Remove at %d overlaps Remove at %d", edberrors.InstrumentationOverlap, m.Loc, existing.Loc)
			}
		}
	}
	p.mods[m.Loc] = append(p.mods[m.Loc], m)
	return nil
}

func (p *Plan) all() []Modification {
	var out []Modification
	for _, ms := range p.mods {
		out = append(out, ms...)
	}
	return out
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// Apply produces the instrumented source by splicing every Modification
// into src, right-to-left so earlier offsets stay valid throughout (spec
// §4.5: "applied back-to-front"). Instrument modifications sharing a Loc are
// merged into one insertion in Priority order, highest first, placed ahead
// of the replacement text of any Remove at that Loc.
func Apply(src string, p *Plan) (string, error) {
	locs := make([]uint32, 0, len(p.mods))
	for loc := range p.mods {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i] > locs[j] })

	var b strings.Builder
	b.Grow(len(src))
	b.WriteString(src)
	out := b.String()

	for _, loc := range locs {
		ms := p.mods[loc]
		sort.SliceStable(ms, func(i, j int) bool { return ms[i].Priority > ms[j].Priority })

		var ins strings.Builder
		for _, m := range ms {
			switch m.Kind {
			case Instrument:
				ins.WriteString(m.Text)
			case Remove:
				end := loc + m.Length
				if int(end) > len(out) {
					return "", fmt.Errorf("rewrite: %w: remove [%d,%d) beyond source length %d", edberrors.InstrumentationOverlap, loc, end, len(out))
				}
				out = out[:loc] + m.Text + out[end:]
			}
		}
		if ins.Len() > 0 {
			if int(loc) > len(out) {
				return "", fmt.Errorf("rewrite: %w: insert at %d beyond source length %d", edberrors.InstrumentationOverlap, loc, len(out))
			}
			out = out[:loc] + ins.String() + out[loc:]
		}
	}
	return out, nil
}
