package eval

import "github.com/arr4n/edb/edberrors"

// Handlers is the strategy set the evaluator composes over (spec §4.10),
// one method per concept so the evaluator can be instantiated against live
// EVM state, a diagnostics stub, or a deterministic test mock without
// changing parsing or built-in resolution.
type Handlers interface {
	GetVariable(name string, snapshotID int) (SolValue, error)
	AccessMember(base SolValue, name string, snapshotID int) (SolValue, error)
	Index(root SolValue, indices []SolValue, snapshotID int) (SolValue, error)
	Call(name string, args []SolValue, callee *SolValue, snapshotID int) (SolValue, error)
	MsgSender(snapshotID int) (SolValue, error)
	MsgValue(snapshotID int) (SolValue, error)
	TxOrigin(snapshotID int) (SolValue, error)
	BlockNumber(snapshotID int) (SolValue, error)
	BlockTimestamp(snapshotID int) (SolValue, error)
}

// StubHandlers always errors, matching spec §4.10(b): "an always-erroring
// stub (diagnostics)". Embedding it gives a mock partial coverage for free.
type StubHandlers struct{}

func (StubHandlers) GetVariable(name string, _ int) (SolValue, error) {
	return SolValue{}, edberrors.New(edberrors.NoHandlerConfigured, name)
}
func (StubHandlers) AccessMember(_ SolValue, name string, _ int) (SolValue, error) {
	return SolValue{}, edberrors.New(edberrors.NoHandlerConfigured, name)
}
func (StubHandlers) Index(_ SolValue, _ []SolValue, _ int) (SolValue, error) {
	return SolValue{}, edberrors.New(edberrors.NoHandlerConfigured, "index")
}
func (StubHandlers) Call(name string, _ []SolValue, _ *SolValue, _ int) (SolValue, error) {
	return SolValue{}, edberrors.New(edberrors.NoHandlerConfigured, name)
}
func (StubHandlers) MsgSender(int) (SolValue, error) {
	return SolValue{}, edberrors.New(edberrors.NoHandlerConfigured, "msg.sender")
}
func (StubHandlers) MsgValue(int) (SolValue, error) {
	return SolValue{}, edberrors.New(edberrors.NoHandlerConfigured, "msg.value")
}
func (StubHandlers) TxOrigin(int) (SolValue, error) {
	return SolValue{}, edberrors.New(edberrors.NoHandlerConfigured, "tx.origin")
}
func (StubHandlers) BlockNumber(int) (SolValue, error) {
	return SolValue{}, edberrors.New(edberrors.NoHandlerConfigured, "block.number")
}
func (StubHandlers) BlockTimestamp(int) (SolValue, error) {
	return SolValue{}, edberrors.New(edberrors.NoHandlerConfigured, "block.timestamp")
}

var _ Handlers = StubHandlers{}
