package parser

import (
	"strings"
	"testing"

	"github.com/ldpl-lang/ldplc/internal/compiler/ast"
)

func parse(t *testing.T, src string) (*ast.Program, []string) {
	t.Helper()
	p := NewParser(src, 0, "test.ldpl", nil)
	prog, diags := p.ParseProgram()
	strs := make([]string, len(diags))
	for i, d := range diags {
		strs[i] = d.String()
	}
	return prog, strs
}

func TestParseMinimalProgram(t *testing.T) {
	src := "DATA:\nmessage IS TEXT\n\nPROCEDURE:\nSTORE \"hi\" IN message\nDISPLAY message\n"
	prog, diags := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(prog.Globals) != 4 { // 3 predeclared + message
		t.Fatalf("expected 4 globals (3 predeclared + message), got %d: %+v", len(prog.Globals), prog.Globals)
	}
	if len(prog.Main.Body) != 2 {
		t.Fatalf("expected 2 main statements, got %d", len(prog.Main.Body))
	}
	if _, ok := prog.Main.Body[0].(*ast.StoreStatement); !ok {
		t.Errorf("expected first statement to be STORE, got %T", prog.Main.Body[0])
	}
	if _, ok := prog.Main.Body[1].(*ast.DisplayStatement); !ok {
		t.Errorf("expected second statement to be DISPLAY, got %T", prog.Main.Body[1])
	}
}

func TestParseUndeclaredVariableIsNameError(t *testing.T) {
	src := "PROCEDURE:\nDISPLAY nope\n"
	_, diags := parse(t, src)
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic for an undeclared identifier")
	}
}

func TestParseDuplicateGlobalDeclIsError(t *testing.T) {
	src := "DATA:\nx IS NUMBER\nx IS TEXT\n\nPROCEDURE:\nDISPLAY x\n"
	_, diags := parse(t, src)
	found := false
	for _, d := range diags {
		if d != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a diagnostic for redeclaring x")
	}
}

func TestParseSubWithParametersAndCall(t *testing.T) {
	src := "PROCEDURE:\nCALL GREET WITH \"world\"\n" +
		"SUB GREET\nPARAMETERS:\nname IS TEXT\nPROCEDURE:\nDISPLAY name\nEND SUB\n"
	prog, diags := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(prog.Subs) != 1 {
		t.Fatalf("expected 1 sub, got %d", len(prog.Subs))
	}
	if prog.Subs[0].Name != "GREET" {
		t.Errorf("sub name = %q, want GREET", prog.Subs[0].Name)
	}
	if len(prog.Subs[0].Params) != 1 || prog.Subs[0].Params[0].Name != "name" {
		t.Errorf("unexpected params: %+v", prog.Subs[0].Params)
	}
}

func TestParseIfStatement(t *testing.T) {
	src := "DATA:\nx IS NUMBER\n\nPROCEDURE:\nIF x IS GREATER THAN 0 THEN\nDISPLAY \"positive\"\nEND IF\n"
	prog, diags := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(prog.Main.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Main.Body))
	}
	ifs, ok := prog.Main.Body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", prog.Main.Body[0])
	}
	if len(ifs.Branches) != 1 || ifs.Branches[0].Cond.CompareOp != ">" {
		t.Errorf("unexpected branches: %+v", ifs.Branches)
	}
}

func TestParseForLoop(t *testing.T) {
	src := "DATA:\ni IS NUMBER\n\nPROCEDURE:\nFOR i FROM 1 TO 10 STEP 1 DO\nDISPLAY i\nREPEAT\n"
	prog, diags := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fs, ok := prog.Main.Body[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected ForStatement, got %T", prog.Main.Body[0])
	}
	if fs.Var.Name != "i" {
		t.Errorf("loop var = %q, want i", fs.Var.Name)
	}
}

func TestParseNestedCollectionRejected(t *testing.T) {
	src := "DATA:\nx IS NUMBER LIST OF LISTS\n\nPROCEDURE:\nDISPLAY x\n"
	_, diags := parse(t, src)
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic rejecting a nested collection type")
	}
}

func TestParsePredeclaredGlobalsAlwaysPresent(t *testing.T) {
	src := "PROCEDURE:\nDISPLAY ARGV\n"
	_, diags := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("expected ARGV to resolve without diagnostics, got %v", diags)
	}
}

func hasShapeDiag(diags []string, substr string) bool {
	for _, d := range diags {
		if strings.Contains(d, "Shape Error") && strings.Contains(d, substr) {
			return true
		}
	}
	return false
}

func TestParseBreakOutsideLoopIsShapeError(t *testing.T) {
	_, diags := parse(t, "PROCEDURE:\nBREAK\n")
	if !hasShapeDiag(diags, "outside a loop") {
		t.Fatalf("expected a Shape diagnostic for BREAK outside a loop, got %v", diags)
	}
}

func TestParseContinueOutsideLoopIsShapeError(t *testing.T) {
	_, diags := parse(t, "PROCEDURE:\nCONTINUE\n")
	if !hasShapeDiag(diags, "outside a loop") {
		t.Fatalf("expected a Shape diagnostic for CONTINUE outside a loop, got %v", diags)
	}
}

func TestParseBreakInsideLoopIsAccepted(t *testing.T) {
	src := "DATA:\nx IS NUMBER\n\nPROCEDURE:\nWHILE x IS GREATER THAN 0 DO\nBREAK\nREPEAT\n"
	_, diags := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics for BREAK inside WHILE: %v", diags)
	}
}

func TestParseContinueInsideForLoopIsAccepted(t *testing.T) {
	src := "DATA:\ni IS NUMBER\n\nPROCEDURE:\nFOR i FROM 1 TO 10 DO\nCONTINUE\nREPEAT\n"
	_, diags := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics for CONTINUE inside FOR: %v", diags)
	}
}

func TestParseBreakAfterLoopExitsIsShapeError(t *testing.T) {
	src := "DATA:\nx IS NUMBER\n\nPROCEDURE:\nWHILE x IS GREATER THAN 0 DO\nBREAK\nREPEAT\nBREAK\n"
	_, diags := parse(t, src)
	if !hasShapeDiag(diags, "outside a loop") {
		t.Fatalf("expected a Shape diagnostic for the BREAK after the loop ends, got %v", diags)
	}
}

func TestParseDuplicateLabelIsShapeError(t *testing.T) {
	src := "PROCEDURE:\nLABEL start\nDISPLAY \"hi\"\nLABEL start\n"
	_, diags := parse(t, src)
	if !hasShapeDiag(diags, "duplicate label") {
		t.Fatalf("expected a Shape diagnostic for a duplicate label, got %v", diags)
	}
}

func TestParseSameLabelInDifferentSubsIsAccepted(t *testing.T) {
	src := "PROCEDURE:\nLABEL start\n\nSUB routine\nLABEL start\nEND SUB\n"
	_, diags := parse(t, src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics for the same label name in different subs: %v", diags)
	}
}

func TestValidateTemplatesRejectsDuplicateSignature(t *testing.T) {
	src := "PROCEDURE:\nCREATE STATEMENT \"greet $\" EXECUTING routine\nCREATE STATEMENT \"greet $\" EXECUTING routine\n\nSUB routine\nPARAMETERS:\nname IS TEXT\nEND SUB\n"
	_, diags := parse(t, src)
	found := false
	for _, d := range diags {
		if strings.Contains(d, "Statement Error") && strings.Contains(d, "duplicates") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a diagnostic rejecting the duplicate template signature, got %v", diags)
	}
}

func TestValidateTemplatesRejectsBuiltinShadow(t *testing.T) {
	src := "PROCEDURE:\nCREATE STATEMENT \"DISPLAY\" EXECUTING routine\n\nSUB routine\nEND SUB\n"
	_, diags := parse(t, src)
	found := false
	for _, d := range diags {
		if strings.Contains(d, "Statement Error") && strings.Contains(d, "can never be reached") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a diagnostic rejecting the built-in-shadowing template, got %v", diags)
	}
}
