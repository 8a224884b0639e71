package eval

import (
	"math/big"
	"strings"

	"github.com/arr4n/edb/edberrors"
)

// Evaluator evaluates Solidity-syntax expressions at a snapshot, composing
// the handler strategy set with parsing and built-in resolution (spec
// §4.10).
type Evaluator struct {
	Handlers Handlers
}

// New returns an Evaluator backed by the given strategy set.
func New(h Handlers) *Evaluator { return &Evaluator{Handlers: h} }

// Eval parses and evaluates expr against the given snapshot.
func (e *Evaluator) Eval(expr string, snapshotID int) (SolValue, error) {
	ast, err := parseExpr(expr)
	if err != nil {
		return SolValue{}, edberrors.Wrap(edberrors.UnresolvedIdentifier, expr, err)
	}
	return e.eval(ast, snapshotID)
}

func (e *Evaluator) eval(n expr, snapshotID int) (SolValue, error) {
	switch x := n.(type) {
	case litBool:
		return Bool(x.v), nil
	case litString:
		return String(x.v), nil
	case litNumber:
		return e.evalNumberLit(x)
	case ident:
		return e.evalIdent(x, snapshotID)
	case unaryExpr:
		v, err := e.eval(x.x, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		return evalUnary(x.op, v)
	case binaryExpr:
		xv, err := e.eval(x.x, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		yv, err := e.eval(x.y, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		return evalBinary(x.op, xv, yv)
	case ternaryExpr:
		c, err := e.eval(x.cond, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		if c.Kind != KindBool {
			return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "ternary condition")
		}
		if c.Bool {
			return e.eval(x.then, snapshotID)
		}
		return e.eval(x.els, snapshotID)
	case memberAccess:
		return e.evalMember(x, snapshotID)
	case indexExpr:
		return e.evalIndex(x, snapshotID)
	case sliceExpr:
		return e.evalSlice(x, snapshotID)
	case callExpr:
		return e.evalCall(x, snapshotID)
	case arrayLit:
		elems := make([]SolValue, len(x.elems))
		for i, el := range x.elems {
			v, err := e.eval(el, snapshotID)
			if err != nil {
				return SolValue{}, err
			}
			elems[i] = v
		}
		return Array(elems), nil
	case tupleExpr:
		elems := make([]SolValue, len(x.elems))
		for i, el := range x.elems {
			v, err := e.eval(el, snapshotID)
			if err != nil {
				return SolValue{}, err
			}
			elems[i] = v
		}
		return Tuple(elems), nil
	default:
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "unsupported expression")
	}
}

func (e *Evaluator) evalNumberLit(n litNumber) (SolValue, error) {
	v := new(big.Int)
	if n.hex {
		if _, ok := v.SetString(strings.TrimPrefix(strings.TrimPrefix(n.text, "0x"), "0X"), 16); !ok {
			return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, n.text)
		}
	} else if _, ok := v.SetString(n.text, 10); !ok {
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, n.text)
	}
	return Uint(v, 256), nil
}

func (e *Evaluator) evalIdent(n ident, snapshotID int) (SolValue, error) {
	switch n.name {
	case "msg":
		return SolValue{Kind: KindCustomStruct, StructName: "msg"}, nil
	case "tx":
		return SolValue{Kind: KindCustomStruct, StructName: "tx"}, nil
	case "block":
		return SolValue{Kind: KindCustomStruct, StructName: "block"}, nil
	}
	return e.Handlers.GetVariable(n.name, snapshotID)
}

func (e *Evaluator) evalMember(n memberAccess, snapshotID int) (SolValue, error) {
	if base, ok := n.base.(ident); ok {
		switch base.name {
		case "msg":
			switch n.name {
			case "sender":
				return e.Handlers.MsgSender(snapshotID)
			case "value":
				return e.Handlers.MsgValue(snapshotID)
			}
		case "tx":
			if n.name == "origin" {
				return e.Handlers.TxOrigin(snapshotID)
			}
		case "block":
			switch n.name {
			case "number":
				return e.Handlers.BlockNumber(snapshotID)
			case "timestamp":
				return e.Handlers.BlockTimestamp(snapshotID)
			}
		}
	}
	baseVal, err := e.eval(n.base, snapshotID)
	if err != nil {
		return SolValue{}, err
	}
	if v, ok, err := resolveBuiltin(baseVal, n.name, nil); ok {
		return v, err
	}
	return e.Handlers.AccessMember(baseVal, n.name, snapshotID)
}

func (e *Evaluator) evalIndex(n indexExpr, snapshotID int) (SolValue, error) {
	root, err := e.eval(n.root, snapshotID)
	if err != nil {
		return SolValue{}, err
	}
	indices := make([]SolValue, len(n.indices))
	for i, idx := range n.indices {
		v, err := e.eval(idx, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		indices[i] = v
	}
	if len(indices) == 1 && (root.Kind == KindArray || root.Kind == KindFixedArray) {
		i := int(indices[0].Int.Int64())
		if i < 0 || i >= len(root.Elems) {
			return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "index out of range")
		}
		return root.Elems[i], nil
	}
	return e.Handlers.Index(root, indices, snapshotID)
}

func (e *Evaluator) evalSlice(n sliceExpr, snapshotID int) (SolValue, error) {
	root, err := e.eval(n.root, snapshotID)
	if err != nil {
		return SolValue{}, err
	}
	length := len(root.Bytes)
	if root.Kind == KindArray {
		length = len(root.Elems)
	}
	start, end := 0, length
	if n.start != nil {
		v, err := e.eval(n.start, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		start = int(v.Int.Int64())
	}
	if n.end != nil {
		v, err := e.eval(n.end, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		end = int(v.Int.Int64())
	}
	startV := Uint(big.NewInt(int64(start)), 256)
	endV := Uint(big.NewInt(int64(end)), 256)
	return builtinSlice(root, []SolValue{startV, endV})
}

func (e *Evaluator) evalCall(n callExpr, snapshotID int) (SolValue, error) {
	switch callee := n.callee.(type) {
	case ident:
		if isCastName(callee.name) {
			if len(n.args) != 1 {
				return SolValue{}, edberrors.New(edberrors.IncompatibleCast, callee.name)
			}
			arg, err := e.eval(n.args[0], snapshotID)
			if err != nil {
				return SolValue{}, err
			}
			return castTo(callee.name, arg)
		}
		args, err := e.evalArgs(n.args, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		if v, ok, err := resolveBuiltin(SolValue{}, callee.name, args); ok {
			return v, err
		}
		return e.Handlers.Call(callee.name, args, nil, snapshotID)
	case memberAccess:
		base, err := e.eval(callee.base, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		args, err := e.evalArgs(n.args, snapshotID)
		if err != nil {
			return SolValue{}, err
		}
		if v, ok, err := resolveBuiltin(base, callee.name, args); ok {
			return v, err
		}
		return e.Handlers.Call(callee.name, args, &base, snapshotID)
	default:
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "call target")
	}
}

func (e *Evaluator) evalArgs(argExprs []expr, snapshotID int) ([]SolValue, error) {
	args := make([]SolValue, len(argExprs))
	for i, a := range argExprs {
		v, err := e.eval(a, snapshotID)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}
