package eval

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arr4n/edb/edberrors"
)

// resolveBuiltin implements the closed set of pseudo-methods and properties
// that run before a MemberAccess/Call falls through to Handlers (spec
// §4.10: "Built-in resolution runs before handlers"). ok is false when name
// is not a recognized built-in, signalling the caller to defer to Handlers.
func resolveBuiltin(base SolValue, name string, args []SolValue) (SolValue, bool, error) {
	switch name {
	case "length":
		v, err := builtinLength(base)
		return v, true, err
	case "isZero":
		v, err := builtinIsZero(base)
		return v, true, err
	case "abs":
		v, err := builtinAbs(base)
		return v, true, err
	case "isEmpty":
		v, err := builtinLength(base)
		if err != nil {
			return SolValue{}, true, err
		}
		return Bool(v.Int.Sign() == 0), true, nil
	case "push":
		v, err := builtinPush(base, args)
		return v, true, err
	case "pop":
		v, err := builtinPop(base)
		return v, true, err
	case "concat":
		v, err := builtinConcat(base, args)
		return v, true, err
	case "slice":
		v, err := builtinSlice(base, args)
		return v, true, err
	case "min":
		v, err := builtinMinMax(base, args, true)
		return v, true, err
	case "max":
		v, err := builtinMinMax(base, args, false)
		return v, true, err
	default:
		return SolValue{}, false, nil
	}
}

func builtinLength(v SolValue) (SolValue, error) {
	switch v.Kind {
	case KindString:
		return Uint(big.NewInt(int64(len(v.Str))), 256), nil
	case KindBytes, KindFixedBytes:
		return Uint(big.NewInt(int64(len(v.Bytes))), 256), nil
	case KindArray, KindFixedArray, KindTuple:
		return Uint(big.NewInt(int64(len(v.Elems))), 256), nil
	default:
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "length on "+v.Kind.String())
	}
}

func builtinIsZero(v SolValue) (SolValue, error) {
	switch v.Kind {
	case KindUint, KindInt:
		return Bool(v.Int.Sign() == 0), nil
	case KindAddress:
		return Bool(v.Addr == common.Address{}), nil
	default:
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "isZero on "+v.Kind.String())
	}
}

func builtinAbs(v SolValue) (SolValue, error) {
	if v.Kind != KindInt {
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "abs on "+v.Kind.String())
	}
	return Int(new(big.Int).Abs(v.Int), v.Bits), nil
}

func builtinPush(base SolValue, args []SolValue) (SolValue, error) {
	if base.Kind != KindArray || len(args) != 1 {
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "push")
	}
	elems := append(append([]SolValue(nil), base.Elems...), args[0])
	return Array(elems), nil
}

func builtinPop(base SolValue) (SolValue, error) {
	if base.Kind != KindArray || len(base.Elems) == 0 {
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "pop")
	}
	return Array(append([]SolValue(nil), base.Elems[:len(base.Elems)-1]...)), nil
}

func builtinConcat(base SolValue, args []SolValue) (SolValue, error) {
	switch base.Kind {
	case KindString:
		s := base.Str
		for _, a := range args {
			if a.Kind != KindString {
				return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "concat")
			}
			s += a.Str
		}
		return String(s), nil
	case KindBytes:
		b := append([]byte(nil), base.Bytes...)
		for _, a := range args {
			if a.Kind != KindBytes {
				return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "concat")
			}
			b = append(b, a.Bytes...)
		}
		return BytesVal(b), nil
	case KindArray:
		elems := append([]SolValue(nil), base.Elems...)
		for _, a := range args {
			if a.Kind != KindArray {
				return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "concat")
			}
			elems = append(elems, a.Elems...)
		}
		return Array(elems), nil
	default:
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "concat on "+base.Kind.String())
	}
}

func builtinSlice(base SolValue, args []SolValue) (SolValue, error) {
	if len(args) != 2 || args[0].Kind != KindUint || args[1].Kind != KindUint {
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "slice")
	}
	start, end := int(args[0].Int.Int64()), int(args[1].Int.Int64())
	switch base.Kind {
	case KindBytes:
		if start < 0 || end > len(base.Bytes) || start > end {
			return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "slice out of range")
		}
		return BytesVal(base.Bytes[start:end]), nil
	case KindArray:
		if start < 0 || end > len(base.Elems) || start > end {
			return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "slice out of range")
		}
		return Array(append([]SolValue(nil), base.Elems[start:end]...)), nil
	default:
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "slice on "+base.Kind.String())
	}
}

func builtinMinMax(base SolValue, args []SolValue, wantMin bool) (SolValue, error) {
	if len(args) != 1 {
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "min/max arity")
	}
	other := args[0]
	if base.Kind != other.Kind || (base.Kind != KindUint && base.Kind != KindInt) {
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "min/max")
	}
	cmp := base.Int.Cmp(other.Int)
	pick := base
	if (wantMin && cmp > 0) || (!wantMin && cmp < 0) {
		pick = other
	}
	return pick, nil
}
