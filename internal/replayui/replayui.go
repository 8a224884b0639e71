// Package replayui is a terminal browser over an already-replayed snapshot
// sequence (spec §4.7's Result, navigated via NextID/PrevID/NextCallID/
// PrevCallID). It is grounded directly on the teacher's evmdebug.termDBG:
// the same tview.List + tview.TextView layout and tcell input capture,
// adapted from live single-stepping of one call frame to post-hoc
// navigation of a fully materialized, multi-frame snapshot sequence.
package replayui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/arr4n/edb/snapshot"
)

// Run starts the interactive browser over result. It blocks until the user
// quits (q or Ctrl-C).
func Run(result *snapshot.Result) error {
	b := &browser{result: result}
	b.initComponents()
	b.initApp()
	b.populateSnapshots()
	if len(result.Snapshots) > 0 {
		b.showSnapshot(0)
	}
	return b.app.Run()
}

type browser struct {
	result *snapshot.Result
	app    *tview.Application

	snapshots *tview.List
	trace     *tview.TextView
	help      *tview.TextView

	current int
}

func (b *browser) styleBox(box *tview.Box, title string) *tview.Box {
	return box.SetBorder(true).SetTitle(title).SetTitleAlign(tview.AlignLeft)
}

func (b *browser) initComponents() {
	b.snapshots = tview.NewList().ShowSecondaryText(false)
	b.styleBox(b.snapshots.Box, "Snapshots")

	b.trace = tview.NewTextView().SetDynamicColors(true)
	b.styleBox(b.trace.Box, "Frame / Trace")

	b.help = tview.NewTextView()
	b.help.SetText("n: next  p: prev  N: next-call  P: prev-call  q: quit")
	b.styleBox(b.help.Box, "Keys")
}

func (b *browser) initApp() {
	b.app = tview.NewApplication().SetRoot(b.createLayout(), true)
	b.app.SetInputCapture(b.inputCapture)
}

func (b *browser) createLayout() tview.Primitive {
	middle := tview.NewFlex().
		AddItem(b.snapshots, 40, 0, true).
		AddItem(b.trace, 0, 1, false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(middle, 0, 1, true).
		AddItem(b.help, 3, 0, false)
	b.styleBox(root.Box, "edb — time-travel debugger").SetTitleAlign(tview.AlignCenter)
	return root
}

func (b *browser) populateSnapshots() {
	for _, s := range b.result.Snapshots {
		b.snapshots.AddItem(fmt.Sprintf("#%d  usid=%d  frame=%d  depth=%d", s.ID, uint64(s.USID), s.FrameID, s.Depth), "", 0, nil)
	}
}

func (b *browser) showSnapshot(id int) {
	if id < 0 || id >= len(b.result.Snapshots) {
		return
	}
	b.current = id
	snap := b.result.Snapshots[id]
	trace := b.result.Trace[snap.TraceEntryID]
	b.snapshots.SetCurrentItem(id)
	b.trace.SetText(fmt.Sprintf(
		"[yellow]snapshot[white] #%d\nusid: %d\nframe: %d\ndepth: %d\n\n"+
			"[yellow]trace[white]\ncaller: %s\ntarget: %s\ncode: %s\ntype: %d\ngas used: %d\n\n"+
			"[yellow]navigation[white]\nnext: %d  prev: %d\nnext-call: %d  prev-call: %d",
		snap.ID, uint64(snap.USID), snap.FrameID, snap.Depth,
		trace.Caller, trace.Target, trace.CodeAddr, trace.Type, trace.GasUsed,
		snap.NextID, snap.PrevID, snap.NextCallID, snap.PrevCallID,
	))
}

func (b *browser) inputCapture(event *tcell.EventKey) *tcell.EventKey {
	snap := b.result.Snapshots[b.current]
	switch event.Rune() {
	case 'q':
		b.app.Stop()
		return nil
	case 'n':
		if snap.NextID >= 0 {
			b.showSnapshot(snap.NextID)
		}
		return nil
	case 'p':
		if snap.PrevID >= 0 {
			b.showSnapshot(snap.PrevID)
		}
		return nil
	case 'N':
		if snap.NextCallID >= 0 {
			b.showSnapshot(snap.NextCallID)
		}
		return nil
	case 'P':
		if snap.PrevCallID >= 0 {
			b.showSnapshot(snap.PrevCallID)
		}
		return nil
	}
	return event
}
