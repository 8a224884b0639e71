// Package abicall implements the ABI Encoder for Call Strings (C11): given a
// map of overloads and a human-typed call string such as
// "transfer(0xabc…, uint256(100))", it produces calldata selecting the
// matching overload (spec §4.11). It is grounded on go-ethereum's
// accounts/abi for the type system and Arguments.Pack, generalized with a
// tokenizer/parser the teacher's stack has no equivalent of since its own
// CLI takes raw hex, not human call strings.
package abicall

import (
	"fmt"
	"strings"
)

// splitTopLevel splits s on top-level commas, respecting nesting across
// ()/[]/{} and quoted strings with backslash escapes (spec §4.11,
// "Tokenizer").
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth := 0
	var cur strings.Builder
	inString := false
	var quote rune
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inString:
			cur.WriteRune(r)
			if r == '\\' && i+1 < len(runes) {
				i++
				cur.WriteRune(runes[i])
				continue
			}
			if r == quote {
				inString = false
			}
		case r == '"' || r == '\'':
			inString = true
			quote = r
			cur.WriteRune(r)
		case r == '(' || r == '[' || r == '{':
			depth++
			cur.WriteRune(r)
		case r == ')' || r == ']' || r == '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("abicall: unbalanced brackets in %q", s)
			}
			cur.WriteRune(r)
		case r == ',' && depth == 0:
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if inString {
		return nil, fmt.Errorf("abicall: unterminated string in %q", s)
	}
	if depth != 0 {
		return nil, fmt.Errorf("abicall: unbalanced brackets in %q", s)
	}
	if trimmed := strings.TrimSpace(cur.String()); trimmed != "" || len(parts) > 0 {
		parts = append(parts, trimmed)
	}
	return parts, nil
}

// parsedCall is a call string split into its function name and raw,
// unparsed argument tokens (each still possibly a nested call/tuple/struct
// literal).
type parsedCall struct {
	name string
	args []string
}

// parseCall splits "name(arg1, arg2, ...)" into name and top-level argument
// tokens.
func parseCall(callStr string) (parsedCall, error) {
	callStr = strings.TrimSpace(callStr)
	open := strings.IndexByte(callStr, '(')
	if open < 0 || !strings.HasSuffix(callStr, ")") {
		return parsedCall{}, fmt.Errorf("abicall: %q is not a call expression", callStr)
	}
	name := strings.TrimSpace(callStr[:open])
	if name == "" {
		return parsedCall{}, fmt.Errorf("abicall: missing function name in %q", callStr)
	}
	inner := callStr[open+1 : len(callStr)-1]
	args, err := splitTopLevel(inner)
	if err != nil {
		return parsedCall{}, err
	}
	if len(args) == 1 && args[0] == "" {
		args = nil
	}
	return parsedCall{name: name, args: args}, nil
}

// isNamedForm reports whether tok is a "{field1: v1, field2: v2}" struct
// literal (spec §4.11: "Named form matches by declaration order; field
// identifiers are consumed and discarded").
func isNamedForm(tok string) bool {
	tok = strings.TrimSpace(tok)
	return strings.HasPrefix(tok, "{") && strings.HasSuffix(tok, "}")
}

// isPositionalTuple reports whether tok is a "(v1, v2)" tuple literal.
func isPositionalTuple(tok string) bool {
	tok = strings.TrimSpace(tok)
	return strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")")
}

// stripNamedFieldNames discards "field:" prefixes from a named-form tuple's
// top-level members, in declaration order, returning bare value tokens.
func stripNamedFieldNames(members []string) ([]string, error) {
	out := make([]string, len(members))
	for i, m := range members {
		colon := strings.IndexByte(m, ':')
		if colon < 0 {
			return nil, fmt.Errorf("abicall: named field %q missing ':'", m)
		}
		out[i] = strings.TrimSpace(m[colon+1:])
	}
	return out, nil
}
