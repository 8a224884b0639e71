package step

import (
	"github.com/arr4n/edb/ids"
	"github.com/arr4n/edb/scope"
)

// compoundAssignOps are Solidity's compound assignment operators, longest
// first where a prefix relationship exists (none here, but kept ordered for
// clarity).
var compoundAssignOps = []string{"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>="}

// detectVariableUpdates heuristically scans text for assignment and
// increment/decrement operators applied to an identifier that resolves to a
// variable visible from scopeID, returning the deduplicated UVIDs found, in
// first-seen order. Like countFunctionCalls, this is a lexical heuristic, not
// a parser (spec §1): it only has to decide which already-declared base
// variables a step plainly reassigns, for VariableUpdateHook wiring (spec
// §3/§4.5). Indexed and member accesses (`a[i] = ...`, `s.field += ...`) are
// attributed to their base identifier, per spec §3's "composite access...
// derives a view over a base with preserved ownership."
func detectVariableUpdates(text string, tracker *scope.Tracker, scopeID scope.ID) []ids.UVID {
	seen := make(map[ids.UVID]bool)
	var out []ids.UVID
	add := func(name string) {
		v, ok := tracker.Resolve(scopeID, name)
		if !ok || seen[v.UVID] {
			return
		}
		seen[v.UVID] = true
		out = append(out, v.UVID)
	}

	n := len(text)
	for i := 0; i < n; {
		c := text[i]
		if !isIdentStart(c) {
			i++
			continue
		}
		start := i
		for i < n && isIdentByte(text[i]) {
			i++
		}
		name := text[start:i]
		j := skipAccessors(text, i)
		if _, ok := matchAssignOp(text[j:]); ok {
			add(name)
		} else if j+1 < n && (text[j:j+2] == "++" || text[j:j+2] == "--") {
			add(name)
		}
	}
	return out
}

// skipAccessors advances past whitespace and any chain of index (`[...]`,
// bracket-nesting aware) and member (`.name`) accessors starting at i,
// returning the resulting index.
func skipAccessors(text string, i int) int {
	n := len(text)
	for {
		for i < n && isSpaceByte(text[i]) {
			i++
		}
		switch {
		case i < n && text[i] == '[':
			depth := 0
			for i < n {
				switch text[i] {
				case '[':
					depth++
				case ']':
					depth--
					if depth == 0 {
						i++
						return skipAccessors(text, i)
					}
				}
				i++
			}
			return i
		case i < n && text[i] == '.':
			i++
			for i < n && isSpaceByte(text[i]) {
				i++
			}
			for i < n && isIdentByte(text[i]) {
				i++
			}
		default:
			return i
		}
	}
}

// matchAssignOp reports whether s begins with an assignment operator
// (compound, or bare `=` not part of `==`).
func matchAssignOp(s string) (string, bool) {
	for _, op := range compoundAssignOps {
		if len(s) >= len(op) && s[:len(op)] == op {
			return op, true
		}
	}
	if len(s) >= 1 && s[0] == '=' && !(len(s) >= 2 && s[1] == '=') {
		return "=", true
	}
	return "", false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
