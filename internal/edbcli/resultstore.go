package edbcli

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arr4n/edb/rpcfacade"
	"github.com/arr4n/edb/snapshot"
)

// resultStore adapts one snapshot.Result into rpcfacade.Store. It only
// exposes what a bare Replay call actually produced (trace, snapshots,
// frames, call-tree navigation); ABI/source-level methods need the
// analysis artifacts (package annotation, package rewrite) that a fuller
// deployment would keep alongside the replay, so they report "not found"
// here rather than fabricate data.
type resultStore struct {
	result *snapshot.Result
}

func newResultStore(result *snapshot.Result) *resultStore { return &resultStore{result: result} }

func (s *resultStore) Trace() []rpcfacade.TraceEntryInfo {
	out := make([]rpcfacade.TraceEntryInfo, len(s.result.Trace))
	for i, t := range s.result.Trace {
		errMsg := ""
		if t.Error != nil {
			errMsg = t.Error.Error()
		}
		out[i] = rpcfacade.TraceEntryInfo{
			ID: t.ID, Caller: t.Caller, Target: t.Target, CodeAddr: t.CodeAddr,
			CallType: int(t.Type), Input: t.Input, Output: t.Output,
			Depth: t.Depth, GasUsed: t.GasUsed, Error: errMsg,
		}
	}
	return out
}

func (s *resultStore) SnapshotCount() int { return len(s.result.Snapshots) }

func (s *resultStore) SnapshotInfo(id int) (rpcfacade.SnapshotInfo, bool) {
	if id < 0 || id >= len(s.result.Snapshots) {
		return rpcfacade.SnapshotInfo{}, false
	}
	snap := s.result.Snapshots[id]
	return rpcfacade.SnapshotInfo{
		ID: snap.ID, USID: uint64(snap.USID), FrameID: int(snap.FrameID),
		TraceEntryID: snap.TraceEntryID, Depth: snap.Depth,
		NextID: snap.NextID, PrevID: snap.PrevID,
	}, true
}

func (s *resultStore) CodeAtSnapshot(int) (rpcfacade.Code, bool)              { return rpcfacade.Code{}, false }
func (s *resultStore) CodeByAddress(common.Address) (rpcfacade.Code, bool)    { return rpcfacade.Code{}, false }
func (s *resultStore) ConstructorArgs(common.Address) ([]byte, bool)          { return nil, false }
func (s *resultStore) ContractABI(common.Address, bool) (string, bool)       { return "", false }
func (s *resultStore) CallableABI(common.Address) []rpcfacade.CallableAbiInfo { return nil }

func (s *resultStore) NextCall(id int) (int, bool) {
	if id < 0 || id >= len(s.result.Snapshots) {
		return 0, false
	}
	return s.result.Snapshots[id].NextCallID, true
}

func (s *resultStore) PrevCall(id int) (int, bool) {
	if id < 0 || id >= len(s.result.Snapshots) {
		return 0, false
	}
	return s.result.Snapshots[id].PrevCallID, true
}

func (s *resultStore) StorageAt(id int, slot *big.Int) (*big.Int, bool) {
	if id < 0 || id >= len(s.result.Snapshots) {
		return nil, false
	}
	snap := s.result.Snapshots[id]
	addr := s.result.Trace[snap.TraceEntryID].Target
	val := snap.PreState.StorageAt(addr, common.BigToHash(slot))
	return val.Big(), true
}

func (s *resultStore) StorageDiff(int) (map[string][2]*big.Int, bool) { return nil, false }

var _ rpcfacade.Store = (*resultStore)(nil)
