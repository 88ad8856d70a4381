package emitter

import (
	"strings"
	"testing"

	"github.com/ldpl-lang/ldplc/internal/compiler/ast"
	"github.com/ldpl-lang/ldplc/internal/compiler/types"
)

func numLit(v string) *ast.NumberLiteral { return &ast.NumberLiteral{Value: v} }
func textLit(v string) *ast.TextLiteral  { return &ast.TextLiteral{Value: v} }
func ident(name string, k types.Kind) *ast.Identifier {
	return &ast.Identifier{Name: name, Mangled: "LPVAR_" + strings.ToUpper(name), Type: k}
}

func minimalProgram(main []ast.Statement) *ast.Program {
	return &ast.Program{
		Globals: []*ast.DataDecl{
			{Name: "ARGV", Type: types.TextList, Mangled: "LPVAR_ARGV"},
			{Name: "ERRORTEXT", Type: types.Text, Mangled: "LPVAR_ERRORTEXT"},
			{Name: "ERRORCODE", Type: types.Number, Mangled: "LPVAR_ERRORCODE"},
		},
		Main: &ast.SubDecl{Name: "PROCEDURE", Body: main},
	}
}

func TestEmitStoreCoercesNumberToText(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.StoreStatement{Value: numLit("42"), Target: ident("x", types.Text)},
	})
	out, errs := New(prog).Emit()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.Contains(out, "LPVAR_X = to_ldpl_string(42);") {
		t.Errorf("expected coerced STORE assignment, got:\n%s", out)
	}
}

func TestEmitStoreNoCoercionSameType(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.StoreStatement{Value: numLit("1"), Target: ident("x", types.Number)},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "LPVAR_X = 1;") {
		t.Errorf("expected plain assignment without coercion wrapper, got:\n%s", out)
	}
}

func TestEmitDisplayCoercesNumberToText(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.DisplayStatement{Values: []ast.Expression{ident("x", types.Number)}},
	})
	out, errs := New(prog).Emit()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.Contains(out, "std::cout << to_ldpl_string(LPVAR_X);") {
		t.Errorf("expected DISPLAY to coerce a NUMBER value through to_ldpl_string, got:\n%s", out)
	}
}

func TestEmitDisplayTextValueIsNotWrapped(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.DisplayStatement{Values: []ast.Expression{textLit("hi")}},
	})
	out, errs := New(prog).Emit()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !strings.Contains(out, `std::cout << ldpl_text("hi");`) {
		t.Errorf("expected a TEXT value to pass through unwrapped, got:\n%s", out)
	}
}

func TestEmitArithFullyParenthesized(t *testing.T) {
	add := &ast.ArithExpr{Op: "+", Left: numLit("1"), Right: numLit("2")}
	prog := minimalProgram([]ast.Statement{
		&ast.SolveStatement{Target: ident("x", types.Number), Expr: add},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "LPVAR_X = (1 + 2);") {
		t.Errorf("expected parenthesized arithmetic, got:\n%s", out)
	}
}

func TestEmitArithPowerUsesStdPow(t *testing.T) {
	pow := &ast.ArithExpr{Op: "^", Left: numLit("2"), Right: numLit("3")}
	prog := minimalProgram([]ast.Statement{
		&ast.SolveStatement{Target: ident("x", types.Number), Expr: pow},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "std::pow(2, 3)") {
		t.Errorf("expected std::pow call, got:\n%s", out)
	}
}

func TestEmitArithNegation(t *testing.T) {
	neg := &ast.ArithExpr{Op: "neg", Left: numLit("5")}
	prog := minimalProgram([]ast.Statement{
		&ast.SolveStatement{Target: ident("x", types.Number), Expr: neg},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "(-(5))") {
		t.Errorf("expected negation wrapper, got:\n%s", out)
	}
}

func TestEmitTestExprTextComparisonUsesStrCmp(t *testing.T) {
	cond := &ast.TestExpr{CompareOp: "=", Left: textLit("a"), Right: textLit("b")}
	prog := minimalProgram([]ast.Statement{
		&ast.IfStatement{Branches: []ast.ConditionalBranch{{Cond: cond, Body: nil}}},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "str_cmp(") {
		t.Errorf("expected TEXT equality to route through str_cmp, got:\n%s", out)
	}
}

func TestEmitTestExprNumberEqualityUsesNumEqual(t *testing.T) {
	cond := &ast.TestExpr{CompareOp: "=", Left: numLit("1"), Right: numLit("1")}
	prog := minimalProgram([]ast.Statement{
		&ast.IfStatement{Branches: []ast.ConditionalBranch{{Cond: cond, Body: nil}}},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "num_equal(1, 1)") {
		t.Errorf("expected NUMBER equality to route through num_equal, got:\n%s", out)
	}
}

func TestEmitTestExprNumberOrderingIsDirect(t *testing.T) {
	cond := &ast.TestExpr{CompareOp: ">", Left: numLit("1"), Right: numLit("0")}
	prog := minimalProgram([]ast.Statement{
		&ast.IfStatement{Branches: []ast.ConditionalBranch{{Cond: cond, Body: nil}}},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "(1 > 0)") {
		t.Errorf("expected direct relational operator, got:\n%s", out)
	}
}

func TestEmitLogicalAndOr(t *testing.T) {
	leaf := &ast.TestExpr{CompareOp: ">", Left: numLit("1"), Right: numLit("0")}
	combo := &ast.TestExpr{LogicalOp: "AND", LHS: leaf, RHS: leaf}
	prog := minimalProgram([]ast.Statement{
		&ast.WhileStatement{Cond: combo, Body: nil},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "&&") {
		t.Errorf("expected && for AND combination, got:\n%s", out)
	}
}

func TestEmitForLoopSignAware(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.ForStatement{
			Var:  ident("i", types.Number),
			From: numLit("1"), To: numLit("3"), Step: numLit("1"),
			Body: []ast.Statement{&ast.DisplayStatement{Values: []ast.Expression{ident("i", types.Number)}}},
		},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "ldpl_for_step > 0") || !strings.Contains(out, "ldpl_for_step < 0") {
		t.Errorf("expected sign-aware loop condition, got:\n%s", out)
	}
	if !strings.Contains(out, "LPVAR_I += ldpl_for_step;") {
		t.Errorf("expected step increment, got:\n%s", out)
	}
}

func TestEmitLookupNesting(t *testing.T) {
	lookup := &ast.Lookup{
		Base:    ident("m", types.TextMap),
		Indices: []ast.Expression{textLit("key")},
		Type:    types.Text,
	}
	prog := minimalProgram([]ast.Statement{
		&ast.StoreStatement{Value: textLit("v"), Target: lookup},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, `LPVAR_M[ldpl_text("key")] = ldpl_text("v");`) {
		t.Errorf("expected nested lookup assignment, got:\n%s", out)
	}
}

func TestEmitExitUsesErrorCode(t *testing.T) {
	prog := minimalProgram([]ast.Statement{&ast.ExitStatement{}})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "std::exit(static_cast<int>(LPVAR_ERRORCODE));") {
		t.Errorf("expected EXIT to propagate ERRORCODE, got:\n%s", out)
	}
}

func TestEmitMainWrapsBodyInTryCatch(t *testing.T) {
	prog := minimalProgram([]ast.Statement{&ast.ReturnStatement{}})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "int main(int argc, char** argv) {") {
		t.Error("expected a synthesized main()")
	}
	if !strings.Contains(out, "} catch (const ldpl_error& e) {") {
		t.Error("expected the main body wrapped in a try/catch for ldpl_error")
	}
	if !strings.Contains(out, "return 0;") {
		t.Error("expected a final return 0")
	}
}

func TestEmitSubParamPassingConvention(t *testing.T) {
	prog := &ast.Program{
		Subs: []*ast.SubDecl{
			{
				Name:    "GREET",
				Mangled: "ldpl_GREET",
				Params: []*ast.DataDecl{
					{Name: "count", Type: types.Number, Mangled: "LPVAR_COUNT"},
					{Name: "name", Type: types.Text, Mangled: "LPVAR_NAME"},
				},
				Body: nil,
			},
		},
		Main: &ast.SubDecl{Name: "PROCEDURE"},
	}
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "ldpl_number LPVAR_COUNT") {
		t.Errorf("expected NUMBER param passed by value, got:\n%s", out)
	}
	if !strings.Contains(out, "ldpl_text& LPVAR_NAME") {
		t.Errorf("expected TEXT param passed by reference, got:\n%s", out)
	}
}

func TestEmitExternalSubForwardDeclaresUnmangled(t *testing.T) {
	prog := &ast.Program{
		Subs: []*ast.SubDecl{
			{Name: "RAW_HELPER", Mangled: "ldpl_RAW_HELPER", IsExternal: true},
		},
		Main: &ast.SubDecl{Name: "PROCEDURE"},
	}
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "extern void RAW_HELPER();") {
		t.Errorf("expected unmangled extern forward decl, got:\n%s", out)
	}
	if strings.Contains(out, "void ldpl_RAW_HELPER(") {
		t.Errorf("external sub body must not be defined in this unit, got:\n%s", out)
	}
}

func TestEmitGlobalsDefaultLiterals(t *testing.T) {
	prog := minimalProgram(nil)
	out, _ := New(prog).Emit()
	if !strings.Contains(out, `ldpl_text LPVAR_ERRORTEXT = ldpl_text("");`) {
		t.Errorf("expected TEXT global default-initialized to empty string, got:\n%s", out)
	}
	if !strings.Contains(out, "ldpl_number LPVAR_ERRORCODE = 0;") {
		t.Errorf("expected NUMBER global default-initialized to 0, got:\n%s", out)
	}
}

func TestCheckLiteralCharAtOutOfRange(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.GetCharAtStatement{
			Source: textLit("hi"),
			Index:  numLit("5"),
			Target: ident("c", types.Text),
		},
	})
	_, errs := New(prog).Emit()
	if len(errs) == 0 {
		t.Fatal("expected an out-of-range diagnostic for a literal GET CHARACTER AT")
	}
}

func TestCheckLiteralCharAtInRangeNoError(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.GetCharAtStatement{
			Source: textLit("hi"),
			Index:  numLit("0"),
			Target: ident("c", types.Text),
		},
	})
	_, errs := New(prog).Emit()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors for an in-range literal index: %v", errs)
	}
}

func TestCheckLiteralSubstringOutOfRange(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.SubstringStatement{
			Source: textLit("hi"),
			Start:  numLit("10"),
			Length: numLit("1"),
			Target: ident("s", types.Text),
		},
	})
	_, errs := New(prog).Emit()
	if len(errs) == 0 {
		t.Fatal("expected an out-of-range diagnostic for a literal SUBSTRING OF start")
	}
}

func TestEmitPushCoercesToElementType(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.PushStatement{Value: numLit("1"), Target: ident("lst", types.TextList)},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "LPVAR_LST.inner_collection.push_back(to_ldpl_string(1));") {
		t.Errorf("expected pushed NUMBER coerced to TEXT list element, got:\n%s", out)
	}
}

func TestEmitClearMapAlsoClearsIndex(t *testing.T) {
	prog := minimalProgram([]ast.Statement{
		&ast.ClearStatement{Target: ident("m", types.TextMap)},
	})
	out, _ := New(prog).Emit()
	if !strings.Contains(out, "LPVAR_M.inner_collection.clear(); LPVAR_M.index_.clear();") {
		t.Errorf("expected map CLEAR to also clear the index_ side table, got:\n%s", out)
	}
}

