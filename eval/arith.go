package eval

import (
	"math/big"

	"github.com/arr4n/edb/edberrors"
)

// evalBinary implements spec §4.10's arithmetic/bitwise/comparison/logical
// semantics. Uint/Int arithmetic saturates rather than wrapping or
// panicking, matching the spec's explicit "saturating add/sub/mul/pow".
func evalBinary(op string, x, y SolValue) (SolValue, error) {
	switch op {
	case "&&", "||":
		return evalLogical(op, x, y)
	case "==", "!=":
		return evalEquality(op, x, y)
	}
	if x.Kind == KindUint && y.Kind == KindUint {
		return evalUintOp(op, x, y)
	}
	if x.Kind == KindInt && y.Kind == KindInt {
		return evalIntOp(op, x, y)
	}
	if isOrdering(op) && (x.Kind == KindBool || x.Kind == KindAddress || x.Kind == KindString) {
		return SolValue{}, typeMismatch(op, x, y)
	}
	return SolValue{}, typeMismatch(op, x, y)
}

func isOrdering(op string) bool {
	switch op {
	case "<", "<=", ">", ">=":
		return true
	}
	return false
}

func evalLogical(op string, x, y SolValue) (SolValue, error) {
	if x.Kind != KindBool {
		return SolValue{}, typeMismatch(op, x, y)
	}
	if op == "&&" && !x.Bool {
		return Bool(false), nil
	}
	if op == "||" && x.Bool {
		return Bool(true), nil
	}
	if y.Kind != KindBool {
		return SolValue{}, typeMismatch(op, x, y)
	}
	return Bool(y.Bool), nil
}

func evalEquality(op string, x, y SolValue) (SolValue, error) {
	eq, err := valuesEqual(x, y)
	if err != nil {
		return SolValue{}, err
	}
	if op == "!=" {
		eq = !eq
	}
	return Bool(eq), nil
}

func valuesEqual(x, y SolValue) (bool, error) {
	if x.Kind != y.Kind {
		return false, typeMismatch("==", x, y)
	}
	switch x.Kind {
	case KindBool:
		return x.Bool == y.Bool, nil
	case KindUint, KindInt:
		return x.Int.Cmp(y.Int) == 0, nil
	case KindAddress:
		return x.Addr == y.Addr, nil
	case KindString:
		return x.Str == y.Str, nil
	case KindBytes, KindFixedBytes:
		return string(x.Bytes) == string(y.Bytes), nil
	default:
		return false, edberrors.New(edberrors.InvalidTypeForOp, "eq on "+x.Kind.String())
	}
}

func maxBits(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func evalUintOp(op string, x, y SolValue) (SolValue, error) {
	bits := maxBits(x.Bits, y.Bits)
	mask := uint256Mask(bits)
	clamp := func(v *big.Int) *big.Int {
		if v.Sign() < 0 {
			return big.NewInt(0)
		}
		if v.Cmp(mask) > 0 {
			return new(big.Int).Set(mask)
		}
		return v
	}
	switch op {
	case "+":
		return Uint(clamp(new(big.Int).Add(x.Int, y.Int)), bits), nil
	case "-":
		return Uint(clamp(new(big.Int).Sub(x.Int, y.Int)), bits), nil
	case "*":
		return Uint(clamp(new(big.Int).Mul(x.Int, y.Int)), bits), nil
	case "**":
		return Uint(clamp(new(big.Int).Exp(x.Int, y.Int, nil)), bits), nil
	case "/":
		if y.Int.Sign() == 0 {
			return SolValue{}, edberrors.New(edberrors.DivisionByZero, "")
		}
		return Uint(new(big.Int).Div(x.Int, y.Int), bits), nil
	case "%":
		if y.Int.Sign() == 0 {
			return SolValue{}, edberrors.New(edberrors.ModuloByZero, "")
		}
		return Uint(new(big.Int).Mod(x.Int, y.Int), bits), nil
	case "&":
		return Uint(new(big.Int).And(x.Int, y.Int), bits), nil
	case "|":
		return Uint(new(big.Int).Or(x.Int, y.Int), bits), nil
	case "^":
		return Uint(new(big.Int).Xor(x.Int, y.Int), bits), nil
	case "<<":
		return Uint(clamp(new(big.Int).Lsh(x.Int, uint(y.Int.Int64()))), bits), nil
	case ">>":
		return Uint(new(big.Int).Rsh(x.Int, uint(y.Int.Int64())), bits), nil
	case "<", "<=", ">", ">=":
		return Bool(compare(op, x.Int.Cmp(y.Int))), nil
	default:
		return SolValue{}, typeMismatch(op, x, y)
	}
}

func evalIntOp(op string, x, y SolValue) (SolValue, error) {
	bits := maxBits(x.Bits, y.Bits)
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	maxV := new(big.Int).Sub(half, big.NewInt(1))
	minV := new(big.Int).Neg(half)
	clamp := func(v *big.Int) *big.Int {
		if v.Cmp(maxV) > 0 {
			return new(big.Int).Set(maxV)
		}
		if v.Cmp(minV) < 0 {
			return new(big.Int).Set(minV)
		}
		return v
	}
	switch op {
	case "+":
		return Int(clamp(new(big.Int).Add(x.Int, y.Int)), bits), nil
	case "-":
		return Int(clamp(new(big.Int).Sub(x.Int, y.Int)), bits), nil
	case "*":
		return Int(clamp(new(big.Int).Mul(x.Int, y.Int)), bits), nil
	case "**":
		// Power is computed via unsigned promotion on two's-complement
		// bytes, then reinterpreted as signed (spec §4.10).
		ux := asUint256(x.Int)
		uy := asUint256(y.Int)
		result := new(big.Int).Exp(ux.ToBig(), uy.ToBig(), new(big.Int).Lsh(big.NewInt(1), 256))
		signed := toSigned(result, 256)
		return Int(clamp(signed), bits), nil
	case "/":
		if y.Int.Sign() == 0 {
			return SolValue{}, edberrors.New(edberrors.DivisionByZero, "")
		}
		return Int(new(big.Int).Quo(x.Int, y.Int), bits), nil
	case "%":
		if y.Int.Sign() == 0 {
			return SolValue{}, edberrors.New(edberrors.ModuloByZero, "")
		}
		return Int(new(big.Int).Rem(x.Int, y.Int), bits), nil
	case "<", "<=", ">", ">=":
		return Bool(compare(op, x.Int.Cmp(y.Int))), nil
	default:
		return SolValue{}, typeMismatch(op, x, y)
	}
}

func compare(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

// toSigned reinterprets an unsigned bits-wide big.Int as two's-complement
// signed.
func toSigned(v *big.Int, bits int) *big.Int {
	half := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	mod := new(big.Int).Mod(v, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	if mod.Cmp(half) >= 0 {
		return new(big.Int).Sub(mod, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	}
	return mod
}

func evalUnary(op string, x SolValue) (SolValue, error) {
	switch op {
	case "!":
		if x.Kind != KindBool {
			return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "! on "+x.Kind.String())
		}
		return Bool(!x.Bool), nil
	case "-":
		if x.Kind != KindInt {
			return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "unary - on "+x.Kind.String())
		}
		return Int(new(big.Int).Neg(x.Int), x.Bits), nil
	case "~":
		if x.Kind != KindUint {
			return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, "~ on "+x.Kind.String())
		}
		return Uint(new(big.Int).Xor(x.Int, uint256Mask(x.Bits)), x.Bits), nil
	default:
		return SolValue{}, edberrors.New(edberrors.InvalidTypeForOp, op)
	}
}
