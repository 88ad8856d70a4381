package ast

import (
	"testing"

	"github.com/ldpl-lang/ldplc/internal/compiler/types"
)

func TestArithExprString(t *testing.T) {
	add := &ArithExpr{Op: "+", Left: &NumberLiteral{Value: "1"}, Right: &NumberLiteral{Value: "2"}}
	if got := add.String(); got != "(1 + 2)" {
		t.Errorf("String() = %q, want %q", got, "(1 + 2)")
	}

	neg := &ArithExpr{Op: "neg", Left: &NumberLiteral{Value: "3"}}
	if got := neg.String(); got != "(-3)" {
		t.Errorf("String() = %q, want %q", got, "(-3)")
	}
}

func TestArithExprResultTypeIsAlwaysNumber(t *testing.T) {
	a := &ArithExpr{Op: "+", Left: &NumberLiteral{Value: "1"}, Right: &NumberLiteral{Value: "2"}}
	if a.ResultType() != types.Number {
		t.Errorf("ArithExpr.ResultType() = %v, want Number", a.ResultType())
	}
}

func TestTestExprStringLeafAndCombination(t *testing.T) {
	leaf := &TestExpr{CompareOp: ">", Left: &Identifier{Name: "x"}, Right: &NumberLiteral{Value: "0"}}
	if got := leaf.String(); got != "(x > 0)" {
		t.Errorf("String() = %q, want %q", got, "(x > 0)")
	}

	combo := &TestExpr{LogicalOp: "AND", LHS: leaf, RHS: leaf}
	if got := combo.String(); got != "((x > 0) AND (x > 0))" {
		t.Errorf("String() = %q, want %q", got, "((x > 0) AND (x > 0))")
	}
}

func TestLookupStringChainsIndices(t *testing.T) {
	l := &Lookup{
		Base:    &Identifier{Name: "m"},
		Indices: []Expression{&TextLiteral{Value: "key"}, &NumberLiteral{Value: "1"}},
	}
	if got := l.String(); got != `m:"key":1` {
		t.Errorf("String() = %q, want %q", got, `m:"key":1`)
	}
}

func TestIdentifierResultTypeReflectsAnnotation(t *testing.T) {
	id := &Identifier{Name: "x", Type: types.TextList}
	if id.ResultType() != types.TextList {
		t.Errorf("ResultType() = %v, want TextList", id.ResultType())
	}
}

func TestLinefeedLiteralString(t *testing.T) {
	lf := &LinefeedLiteral{CRLF: false}
	if got := lf.String(); got != "LF" {
		t.Errorf("String() = %q, want %q", got, "LF")
	}
	crlf := &LinefeedLiteral{CRLF: true}
	if got := crlf.String(); got != "CRLF" {
		t.Errorf("String() = %q, want %q", got, "CRLF")
	}
}

func TestProgramStringIncludesAllSections(t *testing.T) {
	prog := &Program{
		Globals: []*DataDecl{{Name: "g", Type: types.Number}},
		Subs:    []*SubDecl{{Name: "HELPER", Body: []Statement{&ReturnStatement{}}}},
		Main:    &SubDecl{Name: "PROCEDURE", Body: []Statement{&ExitStatement{}}},
	}
	got := prog.String()
	if got == "" {
		t.Fatal("expected non-empty program string")
	}
}

func TestExitStatementString(t *testing.T) {
	e := &ExitStatement{}
	if e.String() != "EXIT" {
		t.Errorf("String() = %q, want EXIT", e.String())
	}
}

func TestPushAndDeleteLastStrings(t *testing.T) {
	push := &PushStatement{Value: &NumberLiteral{Value: "1"}, Target: &Identifier{Name: "lst"}}
	if got := push.String(); got != "PUSH 1 TO lst" {
		t.Errorf("String() = %q", got)
	}
	del := &DeleteLastStatement{Target: &Identifier{Name: "lst"}}
	if got := del.String(); got != "DELETE LAST ELEMENT OF lst" {
		t.Errorf("String() = %q", got)
	}
}
