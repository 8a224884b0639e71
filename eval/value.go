// Package eval implements the Expression Evaluator (C10): a Solidity-syntax
// expression parser and a compositional evaluator over a strategy set of
// handlers, so the same evaluator runs against live EVM state, an
// always-erroring stub, or a deterministic mock (spec §4.10). It is
// grounded on the teacher's stack/ package for the tagged-value shape (a
// small kind-tagged struct rather than an interface hierarchy, matching how
// stack.Values are represented) and on go-ethereum's accounts/abi for the
// Solidity type vocabulary.
package eval

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/arr4n/edb/edberrors"
)

// Kind tags the variant of a SolValue, one case per spec §4.10's serialized
// discriminated union.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindUint
	KindFixedBytes
	KindAddress
	KindFunction
	KindBytes
	KindString
	KindArray
	KindFixedArray
	KindTuple
	KindCustomStruct
)

// SolValue is the tagged union every evaluation produces and every handler
// consumes (spec §4.10, "Return format").
type SolValue struct {
	Kind Kind

	Bool    bool
	Int     *big.Int // KindInt, KindUint
	Bits    int       // bit width for KindInt/KindUint, byte size*8 for KindFixedBytes
	Bytes   []byte    // KindFixedBytes, KindBytes
	Str     string    // KindString
	Addr    common.Address
	Elems   []SolValue // KindArray, KindFixedArray, KindTuple, KindCustomStruct (Elems aligned with PropNames)

	// CustomStruct metadata (spec §4.10 SolValue serialization).
	StructName string
	PropNames  []string
}

// Uint, Int and the constructors below build a SolValue of each kind
// produced by Solidity literals and casts; bits records the declared width.
func Uint(v *big.Int, bits int) SolValue { return SolValue{Kind: KindUint, Int: new(big.Int).Set(v), Bits: bits} }
func Int(v *big.Int, bits int) SolValue  { return SolValue{Kind: KindInt, Int: new(big.Int).Set(v), Bits: bits} }
func Bool(v bool) SolValue               { return SolValue{Kind: KindBool, Bool: v} }
func Address(a common.Address) SolValue  { return SolValue{Kind: KindAddress, Addr: a} }
func String(s string) SolValue           { return SolValue{Kind: KindString, Str: s} }
func BytesVal(b []byte) SolValue         { return SolValue{Kind: KindBytes, Bytes: append([]byte(nil), b...)} }
func FixedBytes(b []byte, bits int) SolValue {
	return SolValue{Kind: KindFixedBytes, Bytes: append([]byte(nil), b...), Bits: bits}
}
func Array(elems []SolValue) SolValue      { return SolValue{Kind: KindArray, Elems: elems} }
func FixedArray(elems []SolValue) SolValue { return SolValue{Kind: KindFixedArray, Elems: elems} }
func Tuple(elems []SolValue) SolValue      { return SolValue{Kind: KindTuple, Elems: elems} }

// uint256Mask returns 2^bits - 1, used to wrap Uint values back into range
// after arithmetic.
func uint256Mask(bits int) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
}

// asUint256 converts v.Int (assumed non-negative, <= 256 bits) to a
// *uint256.Int for address truncation and bit-width-specific casts.
func asUint256(v *big.Int) *uint256.Int {
	u := new(uint256.Int)
	u.SetFromBig(new(big.Int).And(v, uint256Mask(256)))
	return u
}

func typeMismatch(op string, a, b SolValue) error {
	return edberrors.New(edberrors.InvalidTypeForOp, fmt.Sprintf("%s on %v and %v", op, a.Kind, b.Kind))
}

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFixedBytes:
		return "fixedbytes"
	case KindAddress:
		return "address"
	case KindFunction:
		return "function"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindFixedArray:
		return "fixedarray"
	case KindTuple:
		return "tuple"
	case KindCustomStruct:
		return "customstruct"
	default:
		return "unknown"
	}
}
