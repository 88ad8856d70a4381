// Package emitter walks the annotated AST produced by internal/compiler/parser
// and renders it as a single, self-contained C++ translation unit (spec
// §4.4, §6): the embedded runtime prelude (runtime.go) followed by global
// variables, forward declarations, sub definitions, and a synthesized
// main() that wraps the PROCEDURE: body.
//
// Grounded on the teacher's internal/compiler/emitter (arnavsurve-grace):
// same "walk the tree, build a string with a small set of emit* helpers,
// accumulate errors in a slice" shape, generalized from COBOL's
// fixed-column output to free-form C++ source.
package emitter

import (
	"fmt"
	"strings"

	"github.com/ldpl-lang/ldplc/internal/compiler/ast"
	"github.com/ldpl-lang/ldplc/internal/compiler/runeidx"
	"github.com/ldpl-lang/ldplc/internal/compiler/types"
)

// Emitter renders one *ast.Program to C++. Use New then Emit.
type Emitter struct {
	out    strings.Builder
	errors []string
	prog   *ast.Program

	indent int
}

func New(prog *ast.Program) *Emitter {
	return &Emitter{prog: prog}
}

func (e *Emitter) addError(format string, args ...any) {
	e.errors = append(e.errors, fmt.Sprintf(format, args...))
}

// Emit renders the whole translation unit and returns it, plus any
// errors encountered (an unresolvable node shape, not a surface-syntax
// problem — those are caught by the parser already).
func (e *Emitter) Emit() (string, []string) {
	e.out.WriteString(runtimePrelude)

	e.emitGlobals()
	e.out.WriteByte('\n')
	e.emitForwardDecls()
	e.out.WriteByte('\n')
	for _, sub := range e.prog.Subs {
		e.emitSub(sub)
		e.out.WriteByte('\n')
	}
	e.emitMain()

	return e.out.String(), e.errors
}

// ---------------------------------------------------------------------
// Globals and forward declarations
// ---------------------------------------------------------------------

// emitGlobals emits every declared global, including the three
// predeclared ones (ARGV/ERRORTEXT/ERRORCODE): the parser already hands
// them over as ordinary *ast.DataDecl entries carrying a lib.MangleVar
// name, so they're emitted uniformly with every user global rather than
// special-cased to the reference runtime's VAR_ERRORCODE/VAR_ERRORTEXT
// names. See DESIGN.md.
func (e *Emitter) emitGlobals() {
	for _, g := range e.prog.Globals {
		if g.IsExternal {
			fmt.Fprintf(&e.out, "extern %s %s;\n", g.Type.CppType(), g.Name)
			continue
		}
		lit := g.Type.DefaultLiteral()
		if lit == "" {
			fmt.Fprintf(&e.out, "%s %s;\n", g.Type.CppType(), g.Mangled)
		} else {
			fmt.Fprintf(&e.out, "%s %s = %s;\n", g.Type.CppType(), g.Mangled, lit)
		}
	}
}

// emitForwardDecls emits one prototype per sub so call sites (which may
// textually precede the definition) always compile, mirroring the
// parser's own forward-reference guarantee (spec §4.1 pass one).
// EXTERNAL subs forward-declare the bare (unmangled) symbol name, since
// their body is assumed linked in from elsewhere (spec's "CALL EXTERNAL
// target is unmangled" rule) — out of scope for this unit to define.
func (e *Emitter) emitForwardDecls() {
	for _, sub := range e.prog.Subs {
		if sub.IsExternal {
			fmt.Fprintf(&e.out, "extern void %s(%s);\n", sub.Name, e.paramList(sub.Params))
			continue
		}
		fmt.Fprintf(&e.out, "void %s(%s);\n", sub.Mangled, e.paramList(sub.Params))
	}
}

// paramList renders a sub's parameter list using the project's pragmatic
// passing convention: NUMBER by value, everything else (TEXT and every
// collection, which the runtime classes are not cheap to copy) by
// reference. Not literally specified by spec.md; documented in
// DESIGN.md as a deliberate choice in the emitter's C++ idiom.
func (e *Emitter) paramList(params []*ast.DataDecl) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Type == types.Number {
			parts[i] = fmt.Sprintf("%s %s", p.Type.CppType(), p.Mangled)
		} else {
			parts[i] = fmt.Sprintf("%s& %s", p.Type.CppType(), p.Mangled)
		}
	}
	return strings.Join(parts, ", ")
}

// ---------------------------------------------------------------------
// Subs
// ---------------------------------------------------------------------

func (e *Emitter) emitSub(sub *ast.SubDecl) {
	if sub.IsExternal {
		return // declared extern above; defined elsewhere, out of scope
	}
	fmt.Fprintf(&e.out, "void %s(%s) {\n", sub.Mangled, e.paramList(sub.Params))
	e.indent++
	for _, l := range sub.Locals {
		e.writeIndent()
		lit := l.Type.DefaultLiteral()
		if lit == "" {
			fmt.Fprintf(&e.out, "%s %s;\n", l.Type.CppType(), l.Mangled)
		} else {
			fmt.Fprintf(&e.out, "%s %s = %s;\n", l.Type.CppType(), l.Mangled, lit)
		}
	}
	e.emitBlock(sub.Body)
	e.indent--
	e.out.WriteString("}\n")
}

// emitMain synthesizes the process entry point: ARGV is populated from
// argc/argv, the PROCEDURE: body runs inside a try block, and any
// ldpl_error thrown by a runtime helper is caught and reported (spec
// §4.5's "runtime errors are reported via a thrown exception caught at
// the top level" rule), after which the process exits 1. A normal
// completion exits 0 unless the body itself called EXIT.
func (e *Emitter) emitMain() {
	e.out.WriteString("int main(int argc, char** argv) {\n")
	e.indent++
	e.writeIndent()
	e.out.WriteString("for (int i = 0; i < argc; ++i) {\n")
	e.indent++
	e.writeIndent()
	fmt.Fprintf(&e.out, "%s.inner_collection.push_back(ldpl_text(argv[i]));\n", e.mangledGlobal("ARGV"))
	e.indent--
	e.writeIndent()
	e.out.WriteString("}\n")

	for _, l := range e.prog.Main.Locals {
		e.writeIndent()
		lit := l.Type.DefaultLiteral()
		if lit == "" {
			fmt.Fprintf(&e.out, "%s %s;\n", l.Type.CppType(), l.Mangled)
		} else {
			fmt.Fprintf(&e.out, "%s %s = %s;\n", l.Type.CppType(), l.Mangled, lit)
		}
	}

	e.writeIndent()
	e.out.WriteString("try {\n")
	e.indent++
	e.emitBlock(e.prog.Main.Body)
	e.indent--
	e.writeIndent()
	e.out.WriteString("} catch (const ldpl_error& e) {\n")
	e.indent++
	e.writeIndent()
	e.out.WriteString("std::cerr << e.what() << std::endl;\n")
	e.writeIndent()
	e.out.WriteString("return 1;\n")
	e.indent--
	e.writeIndent()
	e.out.WriteString("}\n")
	e.writeIndent()
	e.out.WriteString("return 0;\n")
	e.indent--
	e.out.WriteString("}\n")
}

func (e *Emitter) mangledGlobal(name string) string {
	for _, g := range e.prog.Globals {
		if g.Name == name {
			return g.Mangled
		}
	}
	return name
}

// ---------------------------------------------------------------------
// Statement emission
// ---------------------------------------------------------------------

func (e *Emitter) writeIndent() {
	for i := 0; i < e.indent; i++ {
		e.out.WriteString("    ")
	}
}

func (e *Emitter) emitBlock(body []ast.Statement) {
	for _, st := range body {
		e.emitStatement(st)
	}
}

func (e *Emitter) emitStatement(st ast.Statement) {
	e.writeIndent()
	switch s := st.(type) {
	case *ast.StoreStatement:
		e.emitStore(s)
	case *ast.SolveStatement:
		fmt.Fprintf(&e.out, "%s = %s;\n", e.lvalue(s.Target), e.coerce(s.Expr, s.Target.ResultType()))
	case *ast.FloorStatement:
		e.emitFloor(s)
	case *ast.ModuloStatement:
		fmt.Fprintf(&e.out, "%s = modulo(%s, %s);\n", e.lvalue(s.Target), e.expr(s.A), e.expr(s.B))
	case *ast.IfStatement:
		e.emitIf(s)
	case *ast.WhileStatement:
		fmt.Fprintf(&e.out, "while (%s) {\n", e.test(s.Cond))
		e.indent++
		e.emitBlock(s.Body)
		e.indent--
		e.writeIndent()
		e.out.WriteString("}\n")
	case *ast.ForStatement:
		e.emitFor(s)
	case *ast.ForEachStatement:
		e.emitForEach(s)
	case *ast.BreakStatement:
		e.out.WriteString("break;\n")
	case *ast.ContinueStatement:
		e.out.WriteString("continue;\n")
	case *ast.ReturnStatement:
		e.out.WriteString("return;\n")
	case *ast.ExitStatement:
		fmt.Fprintf(&e.out, "std::exit(static_cast<int>(%s));\n", e.mangledGlobal("ERRORCODE"))
	case *ast.GotoStatement:
		fmt.Fprintf(&e.out, "goto %s;\n", s.Label)
	case *ast.LabelStatement:
		fmt.Fprintf(&e.out, "%s: ;\n", s.Name)
	case *ast.WaitStatement:
		fmt.Fprintf(&e.out, "wait_millis(%s);\n", e.expr(s.Millis))
	case *ast.CallStatement:
		e.emitCall(s)
	case *ast.DisplayStatement:
		e.emitDisplay(s)
	case *ast.AcceptStatement:
		e.emitAccept(s)
	case *ast.LoadFileStatement:
		fmt.Fprintf(&e.out, "load_file_into(%s, %s, %s, %s);\n",
			e.expr(s.Path), e.lvalue(s.Target), e.mangledGlobal("ERRORTEXT"), e.mangledGlobal("ERRORCODE"))
	case *ast.WriteStatement:
		fmt.Fprintf(&e.out, "write_file(%s, %s, %v);\n", e.expr(s.Path), e.coerceToText(s.Content), s.Append)
	case *ast.ExecuteStatement:
		e.emitExecute(s)
	case *ast.JoinStatement:
		e.emitJoin(s)
	case *ast.ReplaceStatement:
		fmt.Fprintf(&e.out, "%s = str_replace(%s, %s, %s);\n", e.lvalue(s.Target), e.expr(s.Haystack), e.expr(s.Needle), e.expr(s.With))
	case *ast.SplitStatement:
		fmt.Fprintf(&e.out, "split_into(%s, %s, %s);\n", e.lvalue(s.Target), e.expr(s.Source), e.expr(s.Separator))
	case *ast.GetCharAtStatement:
		e.checkLiteralCharAt(s)
		if s.ByCode {
			fmt.Fprintf(&e.out, "%s = get_char_code(%s[%s]);\n", e.lvalue(s.Target), e.expr(s.Source), e.expr(s.Index))
		} else {
			fmt.Fprintf(&e.out, "%s = %s[%s];\n", e.lvalue(s.Target), e.expr(s.Source), e.expr(s.Index))
		}
	case *ast.GetAsciiCharStatement:
		fmt.Fprintf(&e.out, "%s = get_ascii_char(%s);\n", e.lvalue(s.Target), e.expr(s.Code))
	case *ast.GetIndexOfStatement:
		fmt.Fprintf(&e.out, "%s = utf8_get_index_of(%s, %s);\n", e.lvalue(s.Target), e.expr(s.Haystack), e.expr(s.Needle))
	case *ast.CountStatement:
		fmt.Fprintf(&e.out, "%s = utf8_count(%s, %s);\n", e.lvalue(s.Target), e.expr(s.Source), e.expr(s.Needle))
	case *ast.SubstringStatement:
		e.checkLiteralSubstring(s)
		fmt.Fprintf(&e.out, "%s = %s.substr((size_t)std::floor(%s), (size_t)std::floor(%s));\n",
			e.lvalue(s.Target), e.expr(s.Source), e.expr(s.Start), e.expr(s.Length))
	case *ast.TrimStatement:
		fmt.Fprintf(&e.out, "%s = trim_copy(%s);\n", e.lvalue(s.Target), e.expr(s.Source))
	case *ast.PushStatement:
		fmt.Fprintf(&e.out, "%s.inner_collection.push_back(%s);\n", e.lvalue(s.Target), e.coerce(s.Value, elemOf(s.Target.ResultType())))
	case *ast.DeleteLastStatement:
		fmt.Fprintf(&e.out, "%s.inner_collection.pop_back();\n", e.lvalue(s.Target))
	case *ast.ClearStatement:
		if s.Target.ResultType().IsMap() {
			fmt.Fprintf(&e.out, "%s.inner_collection.clear(); %s.index_.clear();\n", e.lvalue(s.Target), e.lvalue(s.Target))
		} else {
			fmt.Fprintf(&e.out, "%s.inner_collection.clear();\n", e.lvalue(s.Target))
		}
	case *ast.CopyStatement:
		fmt.Fprintf(&e.out, "%s = %s;\n", e.lvalue(s.Target), e.expr(s.Source))
	case *ast.GetLengthStatement:
		fmt.Fprintf(&e.out, "%s = (ldpl_number)%s;\n", e.lvalue(s.Target), e.sizeOf(s.Source))
	case *ast.GetKeyCountStatement:
		fmt.Fprintf(&e.out, "%s = (ldpl_number)%s.inner_collection.size();\n", e.lvalue(s.Target), e.expr(s.Source))
	case *ast.GetKeysStatement:
		fmt.Fprintf(&e.out, "get_keys(%s, %s);\n", e.lvalue(s.Target), e.expr(s.Source))
	case *ast.CreateStatementDecl:
		// No runtime behavior: the parser has already expanded every
		// matching call site into a CallStatement.
	default:
		e.addError("emitter: unhandled statement type %T", st)
	}
}

// checkLiteralCharAt folds GET CHARACTER (CODE) OF/AT against a literal
// TEXT source and literal NUMBER index, reporting an out-of-range access
// as a compile-time diagnostic rather than letting it surface only as a
// runtime ldpl_error (spec §9's scalar-indexing rule; DOMAIN STACK
// wiring of golang.org/x/text/unicode/norm via internal/compiler/runeidx,
// used here so this folding agrees scalar-for-scalar with the runtime).
func (e *Emitter) checkLiteralCharAt(s *ast.GetCharAtStatement) {
	text, ok := s.Source.(*ast.TextLiteral)
	if !ok {
		return
	}
	idx, ok := s.Index.(*ast.NumberLiteral)
	if !ok {
		return
	}
	n := parseIntLiteral(idx.Value)
	if n < 0 || n >= runeidx.ScalarLen(text.Value) {
		e.addError("GET CHARACTER AT: index %s out of range for literal %q", idx.Value, text.Value)
	}
}

// checkLiteralSubstring folds SUBSTRING OF against a literal TEXT
// source and literal NUMBER start/length, reporting a start past the
// end of the literal as a compile-time diagnostic. A length that
// overruns the end is not an error (spec's substr clamps), matching
// runeidx.Substring's own clamping behavior.
func (e *Emitter) checkLiteralSubstring(s *ast.SubstringStatement) {
	text, ok := s.Source.(*ast.TextLiteral)
	if !ok {
		return
	}
	start, ok := s.Start.(*ast.NumberLiteral)
	if !ok {
		return
	}
	n := parseIntLiteral(start.Value)
	if n < 0 || n > runeidx.ScalarLen(text.Value) {
		e.addError("SUBSTRING OF: start %s out of range for literal %q", start.Value, text.Value)
	}
}

func parseIntLiteral(v string) int {
	neg := false
	i := 0
	if len(v) > 0 && (v[0] == '-' || v[0] == '+') {
		neg = v[0] == '-'
		i = 1
	}
	n := 0
	for ; i < len(v) && v[i] >= '0' && v[i] <= '9'; i++ {
		n = n*10 + int(v[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

func (e *Emitter) sizeOf(src ast.Expression) string {
	if src.ResultType() == types.Text {
		return e.expr(src) + ".size()"
	}
	return e.expr(src) + ".inner_collection.size()"
}

func elemOf(k types.Kind) types.Kind {
	elem, ok := k.Elem()
	if !ok {
		return types.Unknown
	}
	return elem
}

func (e *Emitter) emitStore(s *ast.StoreStatement) {
	fmt.Fprintf(&e.out, "%s = %s;\n", e.lvalue(s.Target), e.coerce(s.Value, s.Target.ResultType()))
}

func (e *Emitter) emitFloor(s *ast.FloorStatement) {
	target := s.Value
	if s.Target != nil {
		target = s.Target
	}
	fmt.Fprintf(&e.out, "%s = std::floor(%s);\n", e.lvalue(target), e.expr(s.Value))
}

func (e *Emitter) emitIf(s *ast.IfStatement) {
	for i, br := range s.Branches {
		if i == 0 {
			fmt.Fprintf(&e.out, "if (%s) {\n", e.test(br.Cond))
		} else {
			e.writeIndent()
			fmt.Fprintf(&e.out, "} else if (%s) {\n", e.test(br.Cond))
		}
		e.indent++
		e.emitBlock(br.Body)
		e.indent--
	}
	if s.Else != nil {
		e.writeIndent()
		e.out.WriteString("} else {\n")
		e.indent++
		e.emitBlock(s.Else)
		e.indent--
	}
	e.writeIndent()
	e.out.WriteString("}\n")
}

// emitFor lowers FOR i FROM a TO b STEP s DO...REPEAT to a scoped block
// with a sign-aware loop condition, matching spec §8's literal example
// (`FOR i FROM 1 TO 3 STEP 1` prints "1 2 3") rather than a strict
// reading of §4.4's prose that would stop one iteration short; see
// DESIGN.md.
func (e *Emitter) emitFor(s *ast.ForStatement) {
	e.out.WriteString("{\n")
	e.indent++
	e.writeIndent()
	fmt.Fprintf(&e.out, "%s = %s;\n", s.Var.Mangled, e.expr(s.From))
	e.writeIndent()
	fmt.Fprintf(&e.out, "ldpl_number ldpl_for_to = %s;\n", e.expr(s.To))
	e.writeIndent()
	fmt.Fprintf(&e.out, "ldpl_number ldpl_for_step = %s;\n", e.expr(s.Step))
	e.writeIndent()
	fmt.Fprintf(&e.out, "while ((ldpl_for_step > 0 && %s <= ldpl_for_to) || (ldpl_for_step < 0 && %s >= ldpl_for_to)) {\n", s.Var.Mangled, s.Var.Mangled)
	e.indent++
	e.emitBlock(s.Body)
	e.writeIndent()
	fmt.Fprintf(&e.out, "%s += ldpl_for_step;\n", s.Var.Mangled)
	e.indent--
	e.writeIndent()
	e.out.WriteString("}\n")
	e.indent--
	e.writeIndent()
	e.out.WriteString("}\n")
}

func (e *Emitter) emitForEach(s *ast.ForEachStatement) {
	fmt.Fprintf(&e.out, "for (auto& ldpl_foreach_item : %s.inner_collection) {\n", e.expr(s.Collection))
	e.indent++
	e.writeIndent()
	if s.Collection.ResultType().IsMap() {
		fmt.Fprintf(&e.out, "%s = ldpl_text(ldpl_foreach_item.first);\n", s.Var.Mangled)
	} else {
		fmt.Fprintf(&e.out, "%s = ldpl_foreach_item;\n", s.Var.Mangled)
	}
	e.emitBlock(s.Body)
	e.indent--
	e.writeIndent()
	e.out.WriteString("}\n")
}

func (e *Emitter) emitCall(s *ast.CallStatement) {
	name := s.Mangled
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = e.expr(a)
	}
	fmt.Fprintf(&e.out, "%s(%s);\n", name, strings.Join(args, ", "))
}

func (e *Emitter) emitDisplay(s *ast.DisplayStatement) {
	e.out.WriteString("std::cout")
	for _, v := range s.Values {
		if lf, ok := v.(*ast.LinefeedLiteral); ok {
			if lf.CRLF {
				e.out.WriteString(` << "\r\n"`)
			} else {
				e.out.WriteString(` << "\n"`)
			}
			continue
		}
		fmt.Fprintf(&e.out, " << %s", e.coerceToText(v))
	}
	e.out.WriteString(";\n")
}

func (e *Emitter) emitAccept(s *ast.AcceptStatement) {
	if s.UntilEOF {
		fmt.Fprintf(&e.out, "%s = input_until_eof();\n", e.lvalue(s.Target))
		return
	}
	if s.Target.ResultType() == types.Number {
		fmt.Fprintf(&e.out, "%s = input_number();\n", e.lvalue(s.Target))
		return
	}
	fmt.Fprintf(&e.out, "%s = input_string();\n", e.lvalue(s.Target))
}

func (e *Emitter) emitExecute(s *ast.ExecuteStatement) {
	if s.StoreOutput == nil && s.StoreExitCode == nil {
		fmt.Fprintf(&e.out, "shell_exec(%s);\n", e.expr(s.Command))
		return
	}
	if s.StoreOutput != nil {
		fmt.Fprintf(&e.out, "%s = shell_exec(%s);\n", e.lvalue(s.StoreOutput), e.expr(s.Command))
	} else {
		fmt.Fprintf(&e.out, "shell_exec(%s);\n", e.expr(s.Command))
	}
	if s.StoreExitCode != nil {
		// The reference shell_exec doesn't expose a distinct exit code
		// beyond a successful popen read; report success (0) when the
		// pipe opened. A failed popen already raises ldpl_error above.
		fmt.Fprintf(&e.out, "%s = 0;\n", e.lvalue(s.StoreExitCode))
	}
}

func (e *Emitter) emitJoin(s *ast.JoinStatement) {
	parts := make([]string, len(s.Parts))
	for i, p := range s.Parts {
		parts[i] = e.coerceToText(p)
	}
	fmt.Fprintf(&e.out, "join_into(%s, {%s});\n", e.lvalue(s.Target), strings.Join(parts, ", "))
}

// ---------------------------------------------------------------------
// Expression emission
// ---------------------------------------------------------------------

// lvalue renders an assignment target; identical to expr but kept as a
// separate name so a future assignability check has a single seam.
func (e *Emitter) lvalue(x ast.Expression) string { return e.expr(x) }

func (e *Emitter) expr(x ast.Expression) string {
	switch v := x.(type) {
	case *ast.NumberLiteral:
		return v.Value
	case *ast.TextLiteral:
		return fmt.Sprintf("ldpl_text(%q)", v.Value)
	case *ast.LinefeedLiteral:
		if v.CRLF {
			return `ldpl_text("\r\n")`
		}
		return `ldpl_text("\n")`
	case *ast.Identifier:
		return v.Mangled
	case *ast.Lookup:
		return e.lookup(v)
	case *ast.ArithExpr:
		return e.arith(v)
	case *ast.TestExpr:
		return e.test(v)
	default:
		e.addError("emitter: unhandled expression type %T", x)
		return "/* error */"
	}
}

// lookup renders a left-associative index chain a:b:c as
// a[b][c], the natural nesting of the runtime classes'
// operator[] (spec §4.4 Lookup chain).
func (e *Emitter) lookup(l *ast.Lookup) string {
	var b strings.Builder
	b.WriteString(e.expr(l.Base))
	for _, idx := range l.Indices {
		b.WriteByte('[')
		b.WriteString(e.expr(idx))
		b.WriteByte(']')
	}
	return b.String()
}

// arith fully parenthesizes every node recursively: the shunting-yard
// tree already encodes correct grouping (internal/compiler/lib/solve.go),
// so this trivially preserves it without a precedence-aware
// pretty-printer.
func (e *Emitter) arith(a *ast.ArithExpr) string {
	if a.Op == "neg" {
		return fmt.Sprintf("(-(%s))", e.expr(a.Left))
	}
	if a.Op == "^" {
		return fmt.Sprintf("std::pow(%s, %s)", e.expr(a.Left), e.expr(a.Right))
	}
	return fmt.Sprintf("(%s %s %s)", e.expr(a.Left), a.Op, e.expr(a.Right))
}

// test renders a TestExpr. Equality/inequality on NUMBER route through
// num_equal (epsilon compare); NUMBER ordering uses direct relational
// operators; TEXT comparisons of every kind route through str_cmp's
// three-way result, since ldpl_text has no built-in < or > on itself
// other than vector<string> lexicographic order, which the runtime
// class already exposes via str_cmp. AND/OR combine recursively;
// AND binds tighter than OR (spec §9 Open Question), already encoded by
// the parser's parseOrChain/parseAndChain precedence, so the emitter
// only needs to mirror LogicalOp here, never re-derive precedence.
func (e *Emitter) test(t *ast.TestExpr) string {
	if t.LogicalOp != "" {
		op := "&&"
		if t.LogicalOp == "OR" {
			op = "||"
		}
		return fmt.Sprintf("(%s %s %s)", e.test(t.LHS), op, e.test(t.RHS))
	}

	l, r := e.expr(t.Left), e.expr(t.Right)
	if t.Left.ResultType() == types.Text {
		switch t.CompareOp {
		case "=":
			return fmt.Sprintf("(str_cmp(%s, %s) == 0)", l, r)
		case "<>":
			return fmt.Sprintf("(str_cmp(%s, %s) != 0)", l, r)
		case ">":
			return fmt.Sprintf("(str_cmp(%s, %s) > 0)", l, r)
		case ">=":
			return fmt.Sprintf("(str_cmp(%s, %s) >= 0)", l, r)
		case "<":
			return fmt.Sprintf("(str_cmp(%s, %s) < 0)", l, r)
		case "<=":
			return fmt.Sprintf("(str_cmp(%s, %s) <= 0)", l, r)
		}
	}
	switch t.CompareOp {
	case "=":
		return fmt.Sprintf("num_equal(%s, %s)", l, r)
	case "<>":
		return fmt.Sprintf("(!num_equal(%s, %s))", l, r)
	default:
		return fmt.Sprintf("(%s %s %s)", l, t.CompareOp, r)
	}
}

// coerce renders x as a value of kind to, inserting the runtime's
// to_number/to_ldpl_string bridge when x's own type differs (spec §4.3
// NUMBER<->TEXT coercion); collections are never coerced (enforced
// already by the parser via types.Coercible, so to is always x's own
// type whenever x is a collection).
func (e *Emitter) coerce(x ast.Expression, to types.Kind) string {
	from := x.ResultType()
	rendered := e.expr(x)
	if from == to || from.IsCollection() || to.IsCollection() {
		return rendered
	}
	if to == types.Text {
		return fmt.Sprintf("to_ldpl_string(%s)", rendered)
	}
	return fmt.Sprintf("to_number(%s)", rendered)
}

func (e *Emitter) coerceToText(x ast.Expression) string { return e.coerce(x, types.Text) }
