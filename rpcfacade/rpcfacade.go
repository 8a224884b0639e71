// Package rpcfacade implements the RPC Facade (C12): a stateless,
// read-only JSON-RPC 2.0 surface over the snapshot store (spec §4.12, §6).
// It is grounded on the teacher's use of github.com/ethereum/go-ethereum/rpc
// for wire serving, generalized from specopscli.go's one-shot client dial
// to a long-lived server registering a service by reflection (go-ethereum's
// rpc.Server lower-cases the first letter of each exported method and
// prefixes it with the namespace, so Service.GetTrace becomes
// "edb_getTrace").
package rpcfacade

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/arr4n/edb/breakpoint"
	"github.com/arr4n/edb/edberrors"
	"github.com/arr4n/edb/eval"
)

// Namespace is the JSON-RPC method prefix registered for Service (spec §6).
const Namespace = "edb"

// SnapshotInfo is the result of edb_getSnapshotInfo (spec §6).
type SnapshotInfo struct {
	ID           int            `json:"id"`
	USID         uint64         `json:"usid"`
	FrameID      int            `json:"frame_id"`
	TraceEntryID int            `json:"trace_entry_id"`
	Depth        int            `json:"depth"`
	NextID       int            `json:"next_id"`
	PrevID       int            `json:"prev_id"`
}

// TraceEntryInfo is one element of edb_getTrace's result (spec §6, §3 Trace).
type TraceEntryInfo struct {
	ID       int            `json:"id"`
	Caller   common.Address `json:"caller"`
	Target   common.Address `json:"target"`
	CodeAddr common.Address `json:"code_address"`
	CallType int            `json:"call_type"`
	Input    []byte         `json:"input"`
	Output   []byte         `json:"output"`
	Depth    int            `json:"depth"`
	GasUsed  uint64         `json:"gas_used"`
	Error    string         `json:"error,omitempty"`
}

// Code is the result of edb_getCode/edb_getCodeByAddress: either the
// original source text (instrumented-mode) or raw opcodes
// (opcode-fallback mode, spec §4.7).
type Code struct {
	IsOpcode bool   `json:"is_opcode"`
	Source   string `json:"source,omitempty"`
	FilePath string `json:"file_path,omitempty"`
	Opcodes  []byte `json:"opcodes,omitempty"`
}

// CallableAbiInfo is one element of edb_getCallableABI's result.
type CallableAbiInfo struct {
	Name       string `json:"name"`
	Signature  string `json:"signature"`
	StateMutability string `json:"state_mutability"`
}

// Store is the read-only backing data the facade serves over RPC (spec
// §5: "the snapshot store is written once by C7 and then immutable; all
// readers share immutable references").
type Store interface {
	Trace() []TraceEntryInfo
	SnapshotCount() int
	SnapshotInfo(id int) (SnapshotInfo, bool)
	CodeAtSnapshot(id int) (Code, bool)
	CodeByAddress(addr common.Address) (Code, bool)
	ConstructorArgs(addr common.Address) ([]byte, bool)
	ContractABI(addr common.Address, recompiled bool) (string, bool)
	CallableABI(addr common.Address) []CallableAbiInfo
	NextCall(id int) (int, bool)
	PrevCall(id int) (int, bool)
	StorageAt(id int, slot *big.Int) (*big.Int, bool)
	StorageDiff(id int) (map[string][2]*big.Int, bool)
}

// Service is the reflection-registered RPC object (spec §4.12).
type Service struct {
	store       Store
	evaluator   *eval.Evaluator
	breakpoints *breakpoint.Engine
}

// New returns a Service ready to be registered on an *rpc.Server under
// Namespace.
func New(store Store, evaluator *eval.Evaluator, breakpoints *breakpoint.Engine) *Service {
	return &Service{store: store, evaluator: evaluator, breakpoints: breakpoints}
}

// Register attaches the service to srv under Namespace.
func Register(srv *rpc.Server, svc *Service) error {
	return srv.RegisterName(Namespace, svc)
}

func (s *Service) GetTrace(_ context.Context) ([]TraceEntryInfo, error) {
	return s.store.Trace(), nil
}

func (s *Service) GetSnapshotCount(_ context.Context) (int, error) {
	return s.store.SnapshotCount(), nil
}

func (s *Service) GetSnapshotInfo(_ context.Context, snapshotID int) (*SnapshotInfo, error) {
	info, ok := s.store.SnapshotInfo(snapshotID)
	if !ok {
		return nil, snapshotOutOfRange(snapshotID)
	}
	return &info, nil
}

func (s *Service) GetCode(_ context.Context, snapshotID int) (*Code, error) {
	c, ok := s.store.CodeAtSnapshot(snapshotID)
	if !ok {
		return nil, snapshotOutOfRange(snapshotID)
	}
	return &c, nil
}

func (s *Service) GetCodeByAddress(_ context.Context, addr common.Address) (*Code, error) {
	c, ok := s.store.CodeByAddress(addr)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Service) GetConstructorArgs(_ context.Context, addr common.Address) ([]byte, error) {
	args, _ := s.store.ConstructorArgs(addr)
	return args, nil
}

func (s *Service) GetContractABI(_ context.Context, addr common.Address, recompiled bool) (*string, error) {
	abiJSON, ok := s.store.ContractABI(addr, recompiled)
	if !ok {
		return nil, nil
	}
	return &abiJSON, nil
}

func (s *Service) GetCallableABI(_ context.Context, addr common.Address) ([]CallableAbiInfo, error) {
	return s.store.CallableABI(addr), nil
}

func (s *Service) GetNextCall(_ context.Context, snapshotID int) (int, error) {
	id, ok := s.store.NextCall(snapshotID)
	if !ok {
		return 0, snapshotOutOfRange(snapshotID)
	}
	return id, nil
}

func (s *Service) GetPrevCall(_ context.Context, snapshotID int) (int, error) {
	id, ok := s.store.PrevCall(snapshotID)
	if !ok {
		return 0, snapshotOutOfRange(snapshotID)
	}
	return id, nil
}

func (s *Service) GetStorage(_ context.Context, snapshotID int, slot *big.Int) (*big.Int, error) {
	v, ok := s.store.StorageAt(snapshotID, slot)
	if !ok {
		return nil, snapshotOutOfRange(snapshotID)
	}
	return v, nil
}

func (s *Service) GetStorageDiff(_ context.Context, snapshotID int) (map[string][2]*big.Int, error) {
	diff, ok := s.store.StorageDiff(snapshotID)
	if !ok {
		return nil, snapshotOutOfRange(snapshotID)
	}
	return diff, nil
}

// evalResult mirrors spec §6's `Result<SolValue, string>`: success and
// failure are both reported in-band rather than as a JSON-RPC error, since
// an evaluation failure is domain data, not a transport fault.
type evalResult struct {
	Value *eval.SolValue `json:"value,omitempty"`
	Error string         `json:"error,omitempty"`
}

func (s *Service) EvalOnSnapshot(_ context.Context, snapshotID int, expr string) (evalResult, error) {
	v, err := s.evaluator.Eval(expr, snapshotID)
	if err != nil {
		return evalResult{Error: err.Error()}, nil
	}
	return evalResult{Value: &v}, nil
}

func (s *Service) GetBreakpointHits(_ context.Context, bp *breakpoint.Breakpoint) ([]int, error) {
	return s.breakpoints.Hits(bp)
}

// rpcError implements go-ethereum/rpc's Error interface (ErrorCode() int)
// so the transport reports it with a domain-specific numeric code rather
// than a generic internal error (spec §7: "Error responses follow JSON-RPC
// 2.0 with a domain-specific numeric code").
type rpcError struct {
	code int
	msg  string
}

func (e *rpcError) Error() string  { return e.msg }
func (e *rpcError) ErrorCode() int { return e.code }

func snapshotOutOfRange(id int) error {
	return &rpcError{code: -32001, msg: edberrors.New(edberrors.SnapshotOutOfRange, "").Error()}
}
