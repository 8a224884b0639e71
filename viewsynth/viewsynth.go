// Package viewsynth implements the View-Method Synthesizer (C6): it emits a
// `public view` accessor for every private state variable whose type is
// fully expressible in the elementary+mapping+array algebra, so the
// Hook Interpreter / RPC facade can read it back through a normal `eth_call`
// rather than a storage-slot computation (spec §4.6).
package viewsynth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arr4n/edb/astwalk"
)

// Method is one synthesized accessor: Name plus the Solidity source text of
// its full declaration, ready for insertion by package rewrite.
type Method struct {
	UVID uint64
	Name string
	Text string
}

// expressible reports whether t contains no user-defined or function type at
// any depth (spec §4.6: "no user-defined types, no function types").
func expressible(t astwalk.TypeName) bool {
	if t.UserDefined {
		return false
	}
	if t.Mapping != nil {
		return expressible(t.Mapping.Key) && expressible(t.Mapping.Value)
	}
	if t.Array != nil {
		return expressible(t.Array.Element)
	}
	return t.Elementary != ""
}

// Synthesize produces a Method for v, or (Method{}, false) if v is constant
// or contains a non-expressible leaf type (spec §4.6: emission is skipped in
// both cases).
func Synthesize(v *astwalk.VariableDeclaration, uvid uint64) (Method, bool) {
	if v.Constant || !expressible(v.Type) {
		return Method{}, false
	}

	var params []string
	var indexExprs []string
	mappingDepth, arrayDepth := 0, 0
	t := v.Type
descend:
	for {
		switch {
		case t.Mapping != nil:
			name := "key"
			if mappingDepth > 0 {
				name = "key" + strconv.Itoa(mappingDepth)
			}
			mappingDepth++
			params = append(params, solType(t.Mapping.Key)+" "+name)
			indexExprs = append(indexExprs, "["+name+"]")
			t = t.Mapping.Value
		case t.Array != nil:
			name := "index"
			if arrayDepth > 0 {
				name = "index" + strconv.Itoa(arrayDepth)
			}
			arrayDepth++
			params = append(params, "uint256 "+name)
			indexExprs = append(indexExprs, "["+name+"]")
			t = t.Array.Element
		default:
			break descend
		}
	}
	returnType := solType(t)
	if t.IsMemoryType() {
		returnType += " memory"
	}

	name := fmt.Sprintf("%s_edb_state_var_%d", v.Name, uvid)
	text := fmt.Sprintf(
		"\nfunction %s(%s) public view returns (%s) {\n    return %s%s;\n}\n",
		name, strings.Join(params, ", "), returnType, v.Name, strings.Join(indexExprs, ""),
	)
	return Method{UVID: uvid, Name: name, Text: text}, true
}

// solType renders t's innermost leaf as Solidity source. It is only ever
// called on a non-Mapping, non-Array TypeName (Synthesize descends through
// both before calling it), so UserDefined is already excluded by
// expressible.
func solType(t astwalk.TypeName) string {
	return t.Elementary
}
