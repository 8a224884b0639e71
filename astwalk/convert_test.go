package astwalk

import "testing"

// threeStatementsAST is the hand-built AST for:
//
//	contract C { uint256 public v; function f() public { uint256 a=1; uint256 b=2; v=a+b; } }
//
// matching spec §8 scenario 1. Byte offsets correspond to that source text.
const threeStatementsSrc = `contract C { uint256 public v; function f() public { uint256 a=1; uint256 b=2; v=a+b; } }`

func threeStatementsRaw() []byte {
	return []byte(`{
		"nodeType": "SourceUnit",
		"src": "0:89:0",
		"nodes": [{
			"nodeType": "ContractDefinition",
			"name": "C",
			"src": "0:89:0",
			"nodes": [
				{
					"nodeType": "VariableDeclaration",
					"name": "v",
					"visibility": "public",
					"src": "13:16:0",
					"typeName": {"nodeType": "ElementaryTypeName", "name": "uint256"}
				},
				{
					"nodeType": "FunctionDefinition",
					"name": "f",
					"visibility": "public",
					"src": "31:56:0",
					"body": {
						"nodeType": "Block",
						"src": "51:36:0",
						"statements": [
							{
								"nodeType": "VariableDeclarationStatement",
								"src": "53:11:0",
								"declarations": [{"nodeType":"VariableDeclaration","name":"a","src":"53:9:0","typeName":{"nodeType":"ElementaryTypeName","name":"uint256"}}]
							},
							{
								"nodeType": "VariableDeclarationStatement",
								"src": "66:11:0",
								"declarations": [{"nodeType":"VariableDeclaration","name":"b","src":"66:9:0","typeName":{"nodeType":"ElementaryTypeName","name":"uint256"}}]
							},
							{
								"nodeType": "ExpressionStatement",
								"src": "79:5:0"
							}
						]
					}
				}
			]
		}]
	}`)
}

func TestConvertThreeStatements(t *testing.T) {
	u, err := Convert(threeStatementsRaw(), threeStatementsSrc)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(u.Contracts) != 1 {
		t.Fatalf("len(Contracts) = %d; want 1", len(u.Contracts))
	}
	c := u.Contracts[0]
	if len(c.Functions) != 1 {
		t.Fatalf("len(Functions) = %d; want 1", len(c.Functions))
	}
	f := c.Functions[0]
	if f.Body == nil {
		t.Fatal("function body is nil")
	}
	if got, want := len(f.Body.Statements), 3; got != want {
		t.Fatalf("len(Body.Statements) = %d; want %d", got, want)
	}
	if got, want := f.Body.Statements[0].Kind(), KindVariableDeclarationStatement; got != want {
		t.Errorf("Statements[0].Kind() = %v; want %v", got, want)
	}
	if got, want := f.Body.Statements[2].Kind(), KindExpressionStatement; got != want {
		t.Errorf("Statements[2].Kind() = %v; want %v", got, want)
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	u, err := Convert(threeStatementsRaw(), threeStatementsSrc)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	var kinds []Kind
	v := FuncVisitor{
		Visit: func(n Node) (Action, error) {
			kinds = append(kinds, n.Kind())
			return Continue, nil
		},
	}
	if err := Walk(v, u); err != nil {
		t.Fatalf("Walk: %v", err)
	}

	// SourceUnit, ContractDefinition, FunctionDefinition, Block, 3 statements,
	// the 2 VariableDeclarations (a, b) under the declaration statements, and
	// VariableDeclaration(v).
	if got, want := len(kinds), 10; got != want {
		t.Errorf("visited %d nodes (%v); want %d", got, kinds, want)
	}
}

func TestPruneIdempotent(t *testing.T) {
	u, err := Convert(threeStatementsRaw(), threeStatementsSrc)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	Prune(u, false)
	rangeBefore := u.Contracts[0].Functions[0].Body.Statements[0].Range()
	Prune(u, false)
	rangeAfter := u.Contracts[0].Functions[0].Body.Statements[0].Range()
	if rangeBefore != rangeAfter {
		t.Errorf("Prune() is not idempotent: %v != %v", rangeBefore, rangeAfter)
	}
}
