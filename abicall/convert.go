package abicall

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/arr4n/edb/edberrors"
)

// castPrefix splits a "<type>(value)" token into its cast name and inner
// value, or reports ok=false if tok is not a cast form.
func castPrefix(tok string) (name, inner string, ok bool) {
	tok = strings.TrimSpace(tok)
	open := strings.IndexByte(tok, '(')
	if open <= 0 || !strings.HasSuffix(tok, ")") {
		return "", "", false
	}
	name = strings.TrimSpace(tok[:open])
	for _, r := range name {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return "", "", false
		}
	}
	return name, tok[open+1 : len(tok)-1], true
}

func normalizeTypeName(name string) string {
	if name == "uint" {
		return "uint256"
	}
	if name == "int" {
		return "int256"
	}
	return name
}

func isUintTypeName(name string) bool {
	if name == "uint" {
		return true
	}
	return strings.HasPrefix(name, "uint") && isAllDigits(name[4:])
}

func isIntTypeName(name string) bool {
	if name == "int" {
		return true
	}
	return strings.HasPrefix(name, "int") && !strings.HasPrefix(name, "uint") && isAllDigits(name[3:])
}

func isBytesNTypeName(name string) bool {
	return strings.HasPrefix(name, "bytes") && name != "bytes" && isAllDigits(name[5:])
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// castCompatible implements spec §4.11's compatibility rules: identical
// normalized types; any uint width to any uint width; any int width to any
// int width; any bytesN to any bytesM.
func castCompatible(castName string, target abi.Type) bool {
	switch target.T {
	case abi.UintTy:
		return isUintTypeName(castName)
	case abi.IntTy:
		return isIntTypeName(castName)
	case abi.FixedBytesTy:
		return isBytesNTypeName(castName)
	default:
		return normalizeTypeName(castName) == normalizeTypeName(target.String())
	}
}

// convertArg converts one raw argument token into the Go value
// abi.Arguments.Pack expects for t, honoring an optional "<type>(value)"
// cast prefix (spec §4.11).
func convertArg(tok string, t abi.Type) (interface{}, error) {
	tok = strings.TrimSpace(tok)
	if name, inner, ok := castPrefix(tok); ok && (isUintTypeName(name) || isIntTypeName(name) || isBytesNTypeName(name) || name == "address" || name == "bool" || name == "string" || name == "bytes") {
		if !castCompatible(name, t) {
			return nil, edberrors.New(edberrors.IncompatibleCast, tok)
		}
		tok = inner
	}

	switch t.T {
	case abi.UintTy, abi.IntTy:
		return convertNumeric(tok, t)
	case abi.BoolTy:
		return strconv.ParseBool(strings.TrimSpace(tok))
	case abi.AddressTy:
		return common.HexToAddress(strings.TrimSpace(tok)), nil
	case abi.StringTy:
		return unquote(tok), nil
	case abi.BytesTy:
		return common.FromHex(strings.TrimSpace(tok)), nil
	case abi.FixedBytesTy:
		b := common.FromHex(strings.TrimSpace(tok))
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return convertSequence(tok, t)
	case abi.TupleTy:
		return convertTuple(tok, t)
	default:
		return nil, fmt.Errorf("abicall: unsupported ABI type %v", t)
	}
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func convertNumeric(tok string, t abi.Type) (interface{}, error) {
	v := new(big.Int)
	tok = strings.TrimSpace(tok)
	base := 10
	neg := false
	if strings.HasPrefix(tok, "-") {
		neg = true
		tok = tok[1:]
	}
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		base = 16
		tok = tok[2:]
	}
	if _, ok := v.SetString(tok, base); !ok {
		return nil, fmt.Errorf("abicall: invalid numeric literal %q", tok)
	}
	if neg {
		v.Neg(v)
	}
	bits := t.Size
	if t.T == abi.UintTy {
		switch {
		case bits <= 8:
			return uint8(v.Uint64()), nil
		case bits <= 16:
			return uint16(v.Uint64()), nil
		case bits <= 32:
			return uint32(v.Uint64()), nil
		case bits <= 64:
			return v.Uint64(), nil
		default:
			return v, nil
		}
	}
	switch {
	case bits <= 8:
		return int8(v.Int64()), nil
	case bits <= 16:
		return int16(v.Int64()), nil
	case bits <= 32:
		return int32(v.Int64()), nil
	case bits <= 64:
		return v.Int64(), nil
	default:
		return v, nil
	}
}

func convertSequence(tok string, t abi.Type) (interface{}, error) {
	tok = strings.TrimSpace(tok)
	if !strings.HasPrefix(tok, "[") || !strings.HasSuffix(tok, "]") {
		return nil, fmt.Errorf("abicall: expected array literal, got %q", tok)
	}
	members, err := splitTopLevel(tok[1 : len(tok)-1])
	if err != nil {
		return nil, err
	}
	if len(members) == 1 && members[0] == "" {
		members = nil
	}
	elemType := *t.Elem
	slice := reflect.MakeSlice(reflect.SliceOf(elemType.GetType()), len(members), len(members))
	for i, m := range members {
		v, err := convertArg(m, elemType)
		if err != nil {
			return nil, err
		}
		slice.Index(i).Set(reflect.ValueOf(v))
	}
	if t.T == abi.ArrayTy {
		arr := reflect.New(reflect.ArrayOf(t.Size, elemType.GetType())).Elem()
		reflect.Copy(arr, slice)
		return arr.Interface(), nil
	}
	return slice.Interface(), nil
}

// convertTuple converts either a positional "(v1, v2)" or named
// "{field1: v1, field2: v2}" tuple literal (spec §4.11), matching named
// fields by declaration order and discarding the field identifiers.
func convertTuple(tok string, t abi.Type) (interface{}, error) {
	tok = strings.TrimSpace(tok)
	var members []string
	var err error
	switch {
	case isNamedForm(tok):
		raw, e := splitTopLevel(tok[1 : len(tok)-1])
		if e != nil {
			return nil, e
		}
		members, err = stripNamedFieldNames(raw)
	case isPositionalTuple(tok):
		members, err = splitTopLevel(tok[1 : len(tok)-1])
	default:
		return nil, fmt.Errorf("abicall: expected tuple literal, got %q", tok)
	}
	if err != nil {
		return nil, err
	}
	if len(members) != len(t.TupleElems) {
		return nil, fmt.Errorf("abicall: tuple %q has %d fields, want %d", tok, len(members), len(t.TupleElems))
	}
	out := reflect.New(t.TupleType).Elem()
	for i, m := range members {
		v, err := convertArg(m, *t.TupleElems[i])
		if err != nil {
			return nil, err
		}
		out.Field(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}
