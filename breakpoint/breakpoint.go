// Package breakpoint implements the Breakpoint Engine (C9): matching
// location/condition breakpoints against the recorded snapshot sequence
// (spec §4.9). It is grounded on the teacher's tags.go registry pattern
// (a small validated table keyed by a user-facing identifier) generalized
// from opcode tags to breakpoint lifecycle state.
package breakpoint

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arr4n/edb/edberrors"
)

// State is a breakpoint's lifecycle state (spec §4.9).
type State int

const (
	Active State = iota
	Disabled
	Invalid
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Disabled:
		return "disabled"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// LocationKind distinguishes the two BreakpointLocation variants (spec §3).
type LocationKind int

const (
	LocationOpcode LocationKind = iota
	LocationSource
)

// Location is the place a breakpoint is anchored, one of Opcode{address,
// pc} or Source{address, file_path, line_number} (spec §3).
type Location struct {
	Kind LocationKind

	BytecodeAddress common.Address

	PC uint64 // LocationOpcode

	FilePath string // LocationSource
	Line     int    // LocationSource
}

// Breakpoint is one registered breakpoint (spec §3: "at least one of
// loc/condition must be present").
type Breakpoint struct {
	ID        int
	Loc       *Location
	Condition string
	State     State
	Invalid   string // human-readable reason, set when State == Invalid
}

// SnapshotSource is the read-only view of the replayed snapshot sequence
// the engine matches against. It is the seam between this package and
// package snapshot/package eval, so the matching logic here never imports
// replay internals directly (spec §5: "all readers share immutable
// references").
type SnapshotSource interface {
	Count() int
	BytecodeAddress(snapshotID int) common.Address
	SourceLocation(snapshotID int) (filePath string, line int, ok bool)
	PC(snapshotID int) (pc uint64, ok bool)
	EvalCondition(condition string, snapshotID int) (bool, error)
	KnownFiles() []string
}

// Engine holds the registered breakpoints and matches them against a
// SnapshotSource (spec §4.9).
type Engine struct {
	src         SnapshotSource
	breakpoints []*Breakpoint
	nextID      int
}

// New returns an Engine matching against src.
func New(src SnapshotSource) *Engine {
	return &Engine{src: src}
}

// Add validates and registers a breakpoint, returning it with State set
// (spec §4.9: "Adding a breakpoint validates its location; failure
// produces Invalid and an error message; it is not persisted").
func (e *Engine) Add(loc *Location, condition string) (*Breakpoint, error) {
	if loc == nil && condition == "" {
		return nil, fmt.Errorf("breakpoint: at least one of loc/condition must be present")
	}
	bp := &Breakpoint{ID: e.nextID, Loc: loc, Condition: condition, State: Active}

	if loc != nil && loc.Kind == LocationSource {
		if err := e.resolveSourceAmbiguity(loc); err != nil {
			bp.State = Invalid
			bp.Invalid = err.Error()
			return bp, err
		}
	}

	e.nextID++
	e.breakpoints = append(e.breakpoints, bp)
	return bp, nil
}

// resolveSourceAmbiguity rejects a Source location whose file_path suffix
// matches more than one known file (spec §4.9, §8 scenario 7).
func (e *Engine) resolveSourceAmbiguity(loc *Location) error {
	var matches []string
	for _, f := range e.src.KnownFiles() {
		if strings.HasSuffix(f, loc.FilePath) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 0:
		return edberrors.New(edberrors.BreakpointInvalidLoc, loc.FilePath)
	case 1:
		loc.FilePath = matches[0]
		return nil
	default:
		return edberrors.New(edberrors.BreakpointAmbiguous, loc.FilePath)
	}
}

// Disable/Enable/Remove toggle a previously added breakpoint's lifecycle
// state by id.
func (e *Engine) Disable(id int) { e.setState(id, Disabled) }
func (e *Engine) Enable(id int)  { e.setState(id, Active) }

func (e *Engine) setState(id int, s State) {
	for _, bp := range e.breakpoints {
		if bp.ID == id && bp.State != Invalid {
			bp.State = s
			return
		}
	}
}

// Remove deletes a breakpoint by id.
func (e *Engine) Remove(id int) {
	for i, bp := range e.breakpoints {
		if bp.ID == id {
			e.breakpoints = append(e.breakpoints[:i], e.breakpoints[i+1:]...)
			return
		}
	}
}

// List returns every registered breakpoint.
func (e *Engine) List() []*Breakpoint { return e.breakpoints }

// Hits returns every snapshot id matching bp (spec §4.9 contract:
// "hits(breakpoint) -> Vec<snapshot_id>").
func (e *Engine) Hits(bp *Breakpoint) ([]int, error) {
	if bp.State != Active {
		return nil, nil
	}
	var hits []int
	for i := 0; i < e.src.Count(); i++ {
		ok, err := e.matches(bp, i)
		if err != nil {
			return nil, err
		}
		if ok {
			hits = append(hits, i)
		}
	}
	return hits, nil
}

func (e *Engine) matches(bp *Breakpoint, snapshotID int) (bool, error) {
	if bp.Loc != nil {
		ok, err := e.matchLocation(bp.Loc, snapshotID)
		if err != nil || !ok {
			return false, err
		}
	}
	if bp.Condition != "" {
		return e.src.EvalCondition(bp.Condition, snapshotID)
	}
	return true, nil
}

func (e *Engine) matchLocation(loc *Location, snapshotID int) (bool, error) {
	switch loc.Kind {
	case LocationOpcode:
		addr := e.src.BytecodeAddress(snapshotID)
		pc, ok := e.src.PC(snapshotID)
		return ok && addr == loc.BytecodeAddress && pc == loc.PC, nil
	case LocationSource:
		addr := e.src.BytecodeAddress(snapshotID)
		if addr != loc.BytecodeAddress {
			return false, nil
		}
		path, line, ok := e.src.SourceLocation(snapshotID)
		if !ok {
			return false, nil
		}
		return strings.HasSuffix(path, loc.FilePath) && line == loc.Line, nil
	default:
		return false, nil
	}
}
