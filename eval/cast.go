package eval

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"

	"github.com/arr4n/edb/edberrors"
)

// castTypeNames are the type-cast call forms recognized ahead of ordinary
// function calls (spec §4.10 "Type casting").
var castTypeNames = map[string]bool{
	"bool": true, "address": true, "bytes": true, "string": true,
}

// isCastName reports whether name is a recognized Solidity type-cast
// keyword: bool/address/bytes/string, or uintN/intN/bytesN.
func isCastName(name string) bool {
	if castTypeNames[name] {
		return true
	}
	if _, ok := parseUintName(name); ok {
		return true
	}
	if _, ok := parseIntName(name); ok {
		return true
	}
	_, ok := parseBytesNName(name)
	return ok
}

func parseUintName(name string) (int, bool) {
	if name == "uint" {
		return 256, true
	}
	if strings.HasPrefix(name, "uint") {
		if n, err := strconv.Atoi(name[4:]); err == nil {
			return n, true
		}
	}
	return 0, false
}

func parseIntName(name string) (int, bool) {
	if name == "int" {
		return 256, true
	}
	if strings.HasPrefix(name, "int") {
		if n, err := strconv.Atoi(name[3:]); err == nil {
			return n, true
		}
	}
	return 0, false
}

func parseBytesNName(name string) (int, bool) {
	if strings.HasPrefix(name, "bytes") && name != "bytes" {
		if n, err := strconv.Atoi(name[5:]); err == nil {
			return n, true
		}
	}
	return 0, false
}

// castTo applies Solidity's truncation/extension rules for <type>(x) casts
// (spec §4.10 "Type casting").
func castTo(name string, v SolValue) (SolValue, error) {
	if bits, ok := parseUintName(name); ok {
		return castToUint(v, bits)
	}
	if bits, ok := parseIntName(name); ok {
		return castToInt(v, bits)
	}
	if size, ok := parseBytesNName(name); ok {
		return castToFixedBytes(v, size)
	}
	switch name {
	case "bool":
		return castToBool(v)
	case "address":
		return castToAddress(v)
	case "bytes":
		return castToBytes(v)
	case "string":
		return castToString(v)
	}
	return SolValue{}, edberrors.New(edberrors.IncompatibleCast, name)
}

func castToUint(v SolValue, bits int) (SolValue, error) {
	switch v.Kind {
	case KindUint, KindInt:
		u := asUint256(v.Int)
		masked := new(big.Int).And(u.ToBig(), uint256Mask(bits))
		return Uint(masked, bits), nil
	case KindAddress:
		return Uint(new(big.Int).SetBytes(v.Addr.Bytes()), bits), nil
	case KindBool:
		if v.Bool {
			return Uint(big.NewInt(1), bits), nil
		}
		return Uint(big.NewInt(0), bits), nil
	default:
		return SolValue{}, edberrors.New(edberrors.IncompatibleCast, "uint"+strconv.Itoa(bits)+" from "+v.Kind.String())
	}
}

func castToInt(v SolValue, bits int) (SolValue, error) {
	switch v.Kind {
	case KindUint, KindInt:
		masked := new(big.Int).And(v.Int, uint256Mask(bits))
		return Int(toSigned(masked, bits), bits), nil
	default:
		return SolValue{}, edberrors.New(edberrors.IncompatibleCast, "int"+strconv.Itoa(bits)+" from "+v.Kind.String())
	}
}

func castToAddress(v SolValue) (SolValue, error) {
	switch v.Kind {
	case KindUint, KindInt:
		// uint->address takes the lower 160 bits (spec §4.10).
		masked := new(big.Int).And(v.Int, uint256Mask(160))
		b := masked.FillBytes(make([]byte, 20))
		return Address(common.BytesToAddress(b)), nil
	case KindAddress:
		return v, nil
	default:
		return SolValue{}, edberrors.New(edberrors.IncompatibleCast, "address from "+v.Kind.String())
	}
}

func castToBool(v SolValue) (SolValue, error) {
	switch v.Kind {
	case KindBool:
		return v, nil
	default:
		return SolValue{}, edberrors.New(edberrors.IncompatibleCast, "bool from "+v.Kind.String())
	}
}

func castToFixedBytes(v SolValue, size int) (SolValue, error) {
	switch v.Kind {
	case KindFixedBytes, KindBytes:
		b := make([]byte, size)
		copy(b, v.Bytes)
		return FixedBytes(b, size*8), nil
	default:
		return SolValue{}, edberrors.New(edberrors.IncompatibleCast, "bytesN from "+v.Kind.String())
	}
}

func castToBytes(v SolValue) (SolValue, error) {
	switch v.Kind {
	case KindBytes, KindFixedBytes:
		return BytesVal(v.Bytes), nil
	case KindString:
		return BytesVal([]byte(v.Str)), nil
	default:
		return SolValue{}, edberrors.New(edberrors.IncompatibleCast, "bytes from "+v.Kind.String())
	}
}

func castToString(v SolValue) (SolValue, error) {
	switch v.Kind {
	case KindBytes, KindFixedBytes:
		if !utf8.Valid(v.Bytes) {
			return SolValue{}, edberrors.New(edberrors.InvalidUTF8, string(v.Bytes))
		}
		return String(string(v.Bytes)), nil
	case KindString:
		return v, nil
	default:
		return SolValue{}, edberrors.New(edberrors.IncompatibleCast, "string from "+v.Kind.String())
	}
}
