package snapshot

// Link computes NextID/PrevID and NextCallID/PrevCallID for every snapshot
// in snaps, in place (spec §4.7). snaps MUST already be in execution order
// (Collector.Snapshots() guarantees this) and frames MUST be the frame
// table the snapshots were recorded against.
func Link(snaps []Snapshot, frames []frameView) {
	lastByFrame := map[FrameID]int{}
	for i := range snaps {
		s := &snaps[i]
		if prev, ok := lastByFrame[s.FrameID]; ok {
			s.PrevID = snaps[prev].ID
			snaps[prev].NextID = s.ID
		}
		lastByFrame[s.FrameID] = i
	}

	for i := range snaps {
		s := &snaps[i]
		fr := frames[s.FrameID]
		isDirectChild := func(other FrameID) bool { return frames[other].Parent == fr.ID }

		for j := i + 1; j < len(snaps); j++ {
			if isDirectChild(snaps[j].FrameID) {
				s.NextCallID = snaps[j].ID
				break
			}
		}
		for j := i - 1; j >= 0; j-- {
			if isDirectChild(snaps[j].FrameID) {
				s.PrevCallID = snaps[j].ID
				break
			}
		}
	}
}
