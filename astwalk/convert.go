package astwalk

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/arr4n/edb/edberrors"
	"github.com/arr4n/edb/srcrange"
)

// RawNode is the shape emitted by the external compiler driver's
// `--ast-compact-json`-equivalent output: a generic, recursively-typed AST
// node keyed by `nodeType`, with Solidity's conventional `"start:length:file"`
// `src` triplet. Convert decodes a tree of these into the typed Node model in
// node.go; anything Convert doesn't recognise outside function bodies
// (NatSpec, pragma, import, using-for, event/error parameter lists we don't
// need) is silently dropped, which is the pruning step proper (spec §4.1).
// An unrecognised statement nodeType inside a body is an ASTConversion error.
type RawNode struct {
	NodeType string          `json:"nodeType"`
	Src      string          `json:"src"`
	Name     string          `json:"name,omitempty"`
	Body     *RawNode        `json:"body,omitempty"`
	Nodes    []RawNode       `json:"nodes,omitempty"`
	Members  []RawNode       `json:"members,omitempty"`
	Statements []RawNode     `json:"statements,omitempty"`

	// Function/modifier metadata.
	Visibility       string `json:"visibility,omitempty"`
	StateMutability  string `json:"stateMutability,omitempty"`

	// Variable declaration metadata.
	Constant  bool     `json:"constant,omitempty"`
	TypeName  *RawType `json:"typeName,omitempty"`

	// Statement substructure; present only on the relevant nodeTypes.
	Condition  *RawNode `json:"condition,omitempty"`
	TrueBody   *RawNode `json:"trueBody,omitempty"`
	FalseBody  *RawNode `json:"falseBody,omitempty"`
	InitExpr   *RawNode `json:"initializationExpression,omitempty"`
	LoopExpr   *RawNode `json:"loopExpression,omitempty"`
	Declarations []RawNode `json:"declarations,omitempty"`
	ExternalCall *RawNode `json:"externalCall,omitempty"`
	Clauses    []RawNode  `json:"clauses,omitempty"`
}

// RawType mirrors Solidity's typeName AST node, recursively, for the subset
// of the type algebra spec §4.6 cares about.
type RawType struct {
	NodeType    string   `json:"nodeType"` // "ElementaryTypeName", "Mapping", "ArrayTypeName", "UserDefinedTypeName"
	Name        string   `json:"name,omitempty"`
	KeyType     *RawType `json:"keyType,omitempty"`
	ValueType   *RawType `json:"valueType,omitempty"`
	BaseType    *RawType `json:"baseType,omitempty"`
	Length      *uint64  `json:"length,omitempty"`
}

// ParseSolcSrc parses Solidity's canonical "start:length:fileIndex" triplet.
func ParseSolcSrc(src string) (srcrange.Range, error) {
	parts := strings.Split(src, ":")
	if len(parts) != 3 {
		return srcrange.Range{}, fmt.Errorf("astwalk: malformed src %q", src)
	}
	start, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return srcrange.Range{}, fmt.Errorf("astwalk: src %q: %w", src, err)
	}
	length, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return srcrange.Range{}, fmt.Errorf("astwalk: src %q: %w", src, err)
	}
	file, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return srcrange.Range{}, fmt.Errorf("astwalk: src %q: %w", src, err)
	}
	return srcrange.Range{Start: uint32(start), Length: uint32(length), SourceID: uint32(file)}, nil
}

// Convert decodes raw JSON produced by the compiler driver into a
// *SourceUnit. text is the original source, used only to populate
// Expression.Text verbatim (spec §1: "consume its AST and bytecode
// outputs").
func Convert(rawJSON []byte, text string) (*SourceUnit, error) {
	var raw RawNode
	if err := json.Unmarshal(rawJSON, &raw); err != nil {
		return nil, fmt.Errorf("astwalk: %w", edberrors.MissingAST)
	}
	if raw.NodeType != "SourceUnit" {
		return nil, fmt.Errorf("astwalk: %w: root nodeType %q, want SourceUnit", edberrors.ASTConversion, raw.NodeType)
	}

	u := &SourceUnit{Base: Base{K: KindSourceUnit}}
	rng, err := ParseSolcSrc(raw.Src)
	if err != nil {
		return nil, fmt.Errorf("astwalk: %w: %v", edberrors.ASTConversion, err)
	}
	u.R = rng

	for _, n := range raw.Nodes {
		if n.NodeType != "ContractDefinition" {
			continue // pragma/import/using-for: irrelevant to step analysis
		}
		c, err := convertContract(n, text)
		if err != nil {
			return nil, err
		}
		u.Contracts = append(u.Contracts, c)
	}
	return u, nil
}

func convertContract(n RawNode, text string) (*ContractDefinition, error) {
	rng, err := ParseSolcSrc(n.Src)
	if err != nil {
		return nil, fmt.Errorf("astwalk: %w: %v", edberrors.ASTConversion, err)
	}
	c := &ContractDefinition{Base: Base{K: KindContractDefinition, R: rng}, Name: n.Name}

	for _, m := range n.Nodes {
		switch m.NodeType {
		case "FunctionDefinition":
			f, err := convertFunction(m, text)
			if err != nil {
				return nil, err
			}
			c.Functions = append(c.Functions, f)
		case "ModifierDefinition":
			mod, err := convertModifier(m, text)
			if err != nil {
				return nil, err
			}
			c.Modifiers = append(c.Modifiers, mod)
		case "VariableDeclaration":
			v, err := convertVarDecl(m)
			if err != nil {
				return nil, err
			}
			c.StateVariables = append(c.StateVariables, v)
		case "EventDefinition":
			rng, err := ParseSolcSrc(m.Src)
			if err != nil {
				return nil, err
			}
			c.Events = append(c.Events, &EventDefinition{Base: Base{K: KindEventDefinition, R: rng}, Name: m.Name})
		case "StructDefinition":
			rng, err := ParseSolcSrc(m.Src)
			if err != nil {
				return nil, err
			}
			c.Structs = append(c.Structs, &StructDefinition{Base: Base{K: KindStructDefinition, R: rng}, Name: m.Name})
		case "EnumDefinition":
			rng, err := ParseSolcSrc(m.Src)
			if err != nil {
				return nil, err
			}
			c.Enums = append(c.Enums, &EnumDefinition{Base: Base{K: KindEnumDefinition, R: rng}, Name: m.Name})
		case "UserDefinedValueTypeDefinition":
			rng, err := ParseSolcSrc(m.Src)
			if err != nil {
				return nil, err
			}
			c.UserDefinedValueTypes = append(c.UserDefinedValueTypes, &UserDefinedValueType{Base: Base{K: KindUserDefinedValueType, R: rng}, Name: m.Name})
		default:
			// NatSpec and other irrelevant subtrees: dropped.
		}
	}
	return c, nil
}

func convertFunction(n RawNode, text string) (*FunctionDefinition, error) {
	rng, err := ParseSolcSrc(n.Src)
	if err != nil {
		return nil, err
	}
	f := &FunctionDefinition{
		Base:       Base{K: KindFunctionDefinition, R: rng},
		Name:       n.Name,
		Visibility: n.Visibility,
		Mutability: n.StateMutability,
	}
	if n.Body != nil {
		b, err := convertStatement(*n.Body, text)
		if err != nil {
			return nil, err
		}
		block, ok := b.(*Block)
		if !ok {
			return nil, fmt.Errorf("astwalk: %w: function body is %T, want *Block", edberrors.ASTConversion, b)
		}
		f.Body = block
	}
	return f, nil
}

func convertModifier(n RawNode, text string) (*ModifierDefinition, error) {
	rng, err := ParseSolcSrc(n.Src)
	if err != nil {
		return nil, err
	}
	m := &ModifierDefinition{Base: Base{K: KindModifierDefinition, R: rng}, Name: n.Name}
	if n.Body != nil {
		b, err := convertStatement(*n.Body, text)
		if err != nil {
			return nil, err
		}
		block, ok := b.(*Block)
		if !ok {
			return nil, fmt.Errorf("astwalk: %w: modifier body is %T, want *Block", edberrors.ASTConversion, b)
		}
		m.Body = block
	}
	return m, nil
}

func convertVarDecl(n RawNode) (*VariableDeclaration, error) {
	rng, err := ParseSolcSrc(n.Src)
	if err != nil {
		return nil, err
	}
	v := &VariableDeclaration{
		Base:       Base{K: KindVariableDeclaration, R: rng},
		Name:       n.Name,
		Visibility: n.Visibility,
		Constant:   n.Constant,
	}
	if n.TypeName != nil {
		v.Type = convertType(*n.TypeName)
	}
	return v, nil
}

func convertType(t RawType) TypeName {
	switch t.NodeType {
	case "Mapping":
		var key, val TypeName
		if t.KeyType != nil {
			key = convertType(*t.KeyType)
		}
		if t.ValueType != nil {
			val = convertType(*t.ValueType)
		}
		return TypeName{Mapping: &MappingType{Key: key, Value: val}}
	case "ArrayTypeName":
		var elem TypeName
		if t.BaseType != nil {
			elem = convertType(*t.BaseType)
		}
		return TypeName{Array: &ArrayType{Element: elem, Fixed: t.Length}}
	case "UserDefinedTypeName":
		return TypeName{UserDefined: true, Name: t.Name}
	default: // "ElementaryTypeName" and anything else we treat as elementary
		return TypeName{Elementary: t.Name}
	}
}

// convertStatement dispatches on NodeType to build the statement-level Node
// tree (Block and its descendants); VariableDeclaration, expressions and
// types go through their dedicated converters above.
func convertStatement(n RawNode, text string) (Node, error) {
	rng, err := ParseSolcSrc(n.Src)
	if err != nil {
		return nil, fmt.Errorf("astwalk: %w: %v", edberrors.ASTConversion, err)
	}
	base := Base{R: rng}

	switch n.NodeType {
	case "Block":
		base.K = KindBlock
		b := &Block{Base: base}
		for _, s := range n.Statements {
			child, err := convertStatement(s, text)
			if err != nil {
				return nil, err
			}
			b.Statements = append(b.Statements, child)
		}
		return b, nil

	case "UncheckedBlock":
		base.K = KindUncheckedBlock
		b := &UncheckedBlock{Base: base}
		for _, s := range n.Statements {
			child, err := convertStatement(s, text)
			if err != nil {
				return nil, err
			}
			b.Statements = append(b.Statements, child)
		}
		return b, nil

	case "IfStatement":
		base.K = KindIf
		i := &If{Base: base}
		if n.Condition != nil {
			i.Condition = exprNode(*n.Condition, rng, text)
		}
		if n.TrueBody != nil {
			t, err := convertStatement(*n.TrueBody, text)
			if err != nil {
				return nil, err
			}
			i.True = t
		}
		if n.FalseBody != nil {
			f, err := convertStatement(*n.FalseBody, text)
			if err != nil {
				return nil, err
			}
			i.False = f
		}
		return i, nil

	case "ForStatement":
		base.K = KindFor
		f := &For{Base: base}
		if n.InitExpr != nil {
			init, err := convertStatement(*n.InitExpr, text)
			if err != nil {
				return nil, err
			}
			f.Init = init
		}
		if n.Condition != nil {
			f.Cond = exprNode(*n.Condition, rng, text)
		}
		if n.LoopExpr != nil {
			post, err := convertStatement(*n.LoopExpr, text)
			if err != nil {
				return nil, err
			}
			f.Post = post
		}
		if n.Body != nil {
			body, err := convertStatement(*n.Body, text)
			if err != nil {
				return nil, err
			}
			f.Body = body
		}
		return f, nil

	case "WhileStatement":
		base.K = KindWhile
		w := &While{Base: base}
		if n.Condition != nil {
			w.Cond = exprNode(*n.Condition, rng, text)
		}
		if n.Body != nil {
			body, err := convertStatement(*n.Body, text)
			if err != nil {
				return nil, err
			}
			w.Body = body
		}
		return w, nil

	case "DoWhileStatement":
		base.K = KindDoWhile
		d := &DoWhile{Base: base}
		if n.Condition != nil {
			d.Cond = exprNode(*n.Condition, rng, text)
		}
		if n.Body != nil {
			body, err := convertStatement(*n.Body, text)
			if err != nil {
				return nil, err
			}
			d.Body = body
		}
		return d, nil

	case "TryStatement":
		base.K = KindTry
		tr := &Try{Base: base}
		if n.ExternalCall != nil {
			tr.ExternalCall = exprNode(*n.ExternalCall, rng, text)
		}
		for _, cl := range n.Clauses {
			if cl.Body == nil {
				continue
			}
			body, err := convertStatement(*cl.Body, text)
			if err != nil {
				return nil, err
			}
			tr.Clauses = append(tr.Clauses, TryClause{Body: body})
		}
		return tr, nil

	case "Break":
		base.K = KindBreak
		return &Break{base}, nil
	case "Continue":
		base.K = KindContinue
		return &ContinueStmt{base}, nil
	case "EmitStatement":
		base.K = KindEmit
		return &Emit{base}, nil
	case "Return":
		base.K = KindReturn
		return &Return{base}, nil
	case "RevertStatement":
		base.K = KindRevert
		return &Revert{base}, nil
	case "ExpressionStatement":
		base.K = KindExpressionStatement
		return &ExpressionStatement{base}, nil
	case "InlineAssembly":
		base.K = KindInlineAssembly
		return &InlineAssembly{base}, nil
	case "PlaceholderStatement":
		base.K = KindPlaceholderStatement
		return &PlaceholderStatement{base}, nil
	case "VariableDeclarationStatement":
		base.K = KindVariableDeclarationStatement
		v := &VariableDeclarationStmt{Base: base}
		for _, d := range n.Declarations {
			decl, err := convertVarDecl(d)
			if err != nil {
				return nil, err
			}
			v.Declarations = append(v.Declarations, decl)
		}
		return v, nil

	default:
		return nil, fmt.Errorf("astwalk: %w: unrecognised statement nodeType %q", edberrors.ASTConversion, n.NodeType)
	}
}

func exprNode(n RawNode, fallback srcrange.Range, text string) Node {
	rng, err := ParseSolcSrc(n.Src)
	if err != nil {
		rng = fallback
	}
	return &Expression{Base: Base{K: KindExpression, R: rng}, Text: rng.Slice(text)}
}
