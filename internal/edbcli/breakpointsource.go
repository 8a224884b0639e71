package edbcli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arr4n/edb/breakpoint"
	"github.com/arr4n/edb/eval"
	"github.com/arr4n/edb/snapshot"
)

// breakpointSource adapts one snapshot.Result (plus the Evaluator already
// wired up for the same replay) into breakpoint.SnapshotSource. Like
// resultStore, it only exposes what a bare Replay call actually produced:
// source-level location needs the per-USID source-position map package
// step/package annotation would have produced alongside instrumentation,
// which a bare replay (opcode-fallback, no source file at hand) doesn't
// have, so SourceLocation/KnownFiles honestly report "not found" rather
// than fabricate a path. Opcode-location and condition breakpoints, which
// don't need that map, work fully.
type breakpointSource struct {
	result *snapshot.Result
	eval   *eval.Evaluator
}

func newBreakpointSource(result *snapshot.Result, evaluator *eval.Evaluator) *breakpointSource {
	return &breakpointSource{result: result, eval: evaluator}
}

func (s *breakpointSource) Count() int { return len(s.result.Snapshots) }

func (s *breakpointSource) BytecodeAddress(snapshotID int) common.Address {
	if snapshotID < 0 || snapshotID >= len(s.result.Snapshots) {
		return common.Address{}
	}
	snap := s.result.Snapshots[snapshotID]
	if snap.TraceEntryID < 0 || snap.TraceEntryID >= len(s.result.Trace) {
		return common.Address{}
	}
	return s.result.Trace[snap.TraceEntryID].CodeAddr
}

// SourceLocation always reports not-found: a bare CLI replay carries no
// USID-to-source-position map (that lives in package step's Analysis,
// produced upstream of Replay by the instrumentation pipeline, not by
// Replay itself).
func (s *breakpointSource) SourceLocation(int) (string, int, bool) { return "", 0, false }

func (s *breakpointSource) PC(snapshotID int) (uint64, bool) {
	if snapshotID < 0 || snapshotID >= len(s.result.Snapshots) {
		return 0, false
	}
	pc := s.result.Snapshots[snapshotID].PC
	if pc == nil {
		return 0, false
	}
	return *pc, true
}

// EvalCondition evaluates condition via the shared Evaluator and requires a
// boolean result, matching spec §4.9's condition-breakpoint contract.
func (s *breakpointSource) EvalCondition(condition string, snapshotID int) (bool, error) {
	v, err := s.eval.Eval(condition, snapshotID)
	if err != nil {
		return false, err
	}
	if v.Kind != eval.KindBool {
		return false, fmt.Errorf("breakpoint condition %q: want bool, got %v", condition, v.Kind)
	}
	return v.Bool, nil
}

// KnownFiles is empty for the same reason SourceLocation always misses: no
// source file inventory survives into a bare snapshot.Result.
func (s *breakpointSource) KnownFiles() []string { return nil }

var _ breakpoint.SnapshotSource = (*breakpointSource)(nil)
