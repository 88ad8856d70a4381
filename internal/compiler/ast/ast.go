// Package ast defines the annotated syntax tree the parser builds and the
// emitter walks: one node kind per grammar rule named in spec §6, each
// carrying enough semantic annotation (resolved type, mangled name) that
// the emitter never needs to re-resolve anything.
package ast

import (
	"fmt"
	"strings"

	"github.com/ldpl-lang/ldplc/internal/compiler/token"
	"github.com/ldpl-lang/ldplc/internal/compiler/types"
)

// Node is implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement is implemented by every statement node.
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by every value-expression node (spec §3
// "Value expression"): literals, variable references, and lookups, plus
// the arithmetic and test-expression trees built over them.
type Expression interface {
	Node
	expressionNode()
	// ResultType is the LDPL type this expression evaluates to, filled in
	// during semantic analysis (parser pass 2).
	ResultType() types.Kind
}

// Program is the root node: a translation unit after INCLUDE splicing,
// holding every global declaration and sub definition in source order,
// plus the synthetic top-level PROCEDURE: sub.
type Program struct {
	Globals []*DataDecl
	Subs    []*SubDecl
	Main    *SubDecl // the top-level PROCEDURE: body, modeled as a parameterless sub
}

func (p *Program) TokenLiteral() string { return "PROGRAM" }
func (p *Program) String() string {
	var b strings.Builder
	for _, g := range p.Globals {
		b.WriteString(g.String())
		b.WriteByte('\n')
	}
	for _, s := range p.Subs {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	if p.Main != nil {
		b.WriteString(p.Main.String())
	}
	return b.String()
}

// DataDecl is one `name IS type` (or `name IS type EXTERNAL`) declaration
// in a DATA:/LOCAL DATA: block.
type DataDecl struct {
	Tok        token.Token
	Name       string
	Type       types.Kind
	IsExternal bool
	Mangled    string
}

func (d *DataDecl) TokenLiteral() string { return d.Tok.Literal }
func (d *DataDecl) String() string {
	return fmt.Sprintf("%s IS %s", d.Name, d.Type)
}

// SubDecl is a sub-procedure definition, or (for Program.Main) the
// synthetic parameterless sub holding the top-level PROCEDURE: body.
type SubDecl struct {
	Tok        token.Token
	Name       string
	Mangled    string
	Params     []*DataDecl
	Locals     []*DataDecl
	Body       []Statement
	IsExternal bool
}

func (s *SubDecl) TokenLiteral() string { return s.Tok.Literal }
func (s *SubDecl) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SUB %s(", s.Name)
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") {\n")
	for _, st := range s.Body {
		b.WriteString("  " + st.String() + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

type NumberLiteral struct {
	Tok   token.Token
	Value string // normalized textual form, e.g. "0" for "-000.0"
}

func (n *NumberLiteral) expressionNode()        {}
func (n *NumberLiteral) TokenLiteral() string   { return n.Tok.Literal }
func (n *NumberLiteral) String() string         { return n.Value }
func (n *NumberLiteral) ResultType() types.Kind { return types.Number }

type TextLiteral struct {
	Tok   token.Token
	Value string // decoded value (escapes already resolved by the lexer)
}

func (t *TextLiteral) expressionNode()        {}
func (t *TextLiteral) TokenLiteral() string   { return t.Tok.Literal }
func (t *TextLiteral) String() string         { return fmt.Sprintf("%q", t.Value) }
func (t *TextLiteral) ResultType() types.Kind { return types.Text }

// LinefeedLiteral is the keyword LF or CRLF used where a TEXT value is
// expected (spec GLOSSARY).
type LinefeedLiteral struct {
	Tok  token.Token
	CRLF bool
}

func (l *LinefeedLiteral) expressionNode()      {}
func (l *LinefeedLiteral) TokenLiteral() string { return l.Tok.Literal }
func (l *LinefeedLiteral) String() string {
	if l.CRLF {
		return "CRLF"
	}
	return "LF"
}
func (l *LinefeedLiteral) ResultType() types.Kind { return types.Text }

// Identifier is a bare variable reference, resolved to a declaration
// during semantic analysis.
type Identifier struct {
	Tok     token.Token
	Name    string // as written
	Type    types.Kind
	Mangled string
	// External is true for CALL EXTERNAL targets and EXTERNAL variables,
	// whose C++ symbol is the bare (unmangled) name.
	External bool
}

func (i *Identifier) expressionNode()        {}
func (i *Identifier) TokenLiteral() string   { return i.Tok.Literal }
func (i *Identifier) String() string         { return i.Name }
func (i *Identifier) ResultType() types.Kind { return i.Type }

// Lookup is a collection index chain: `base:idx1:idx2…`, one Indices
// entry per level of Base indexed. The parser reads each index as a full
// value, so an identifier index followed by more `:` segments takes them
// as its own chain: `a:b:1` indexes `a` by `b:1`, whatever `b`'s type,
// and is a type error when `b` is not a collection.
type Lookup struct {
	Tok     token.Token
	Base    Expression
	Indices []Expression
	Type    types.Kind // the element type yielded by the full chain
}

func (l *Lookup) expressionNode()        {}
func (l *Lookup) TokenLiteral() string   { return l.Tok.Literal }
func (l *Lookup) ResultType() types.Kind { return l.Type }
func (l *Lookup) String() string {
	var b strings.Builder
	b.WriteString(l.Base.String())
	for _, idx := range l.Indices {
		b.WriteByte(':')
		b.WriteString(idx.String())
	}
	return b.String()
}

// ArithExpr is the tree SOLVE's shunting-yard pass produces (spec §4.4).
// Op is one of "+", "-", "*", "/", "^", or "neg" (unary minus).
type ArithExpr struct {
	Tok         token.Token
	Op          string
	Left, Right Expression // Right is nil when Op == "neg"
}

func (a *ArithExpr) expressionNode()        {}
func (a *ArithExpr) TokenLiteral() string   { return a.Tok.Literal }
func (a *ArithExpr) ResultType() types.Kind { return types.Number }
func (a *ArithExpr) String() string {
	if a.Op == "neg" {
		return "(-" + a.Left.String() + ")"
	}
	return "(" + a.Left.String() + " " + a.Op + " " + a.Right.String() + ")"
}

// TestExpr is an IF/WHILE condition: either a Comparison leaf or an
// AND/OR combination of two TestExprs (spec §4.1).
type TestExpr struct {
	Tok token.Token
	// Leaf form:
	CompareOp   string // "=", "<>", ">", ">=", "<", "<="; empty for AND/OR nodes
	Left, Right Expression
	// Combination form:
	LogicalOp string // "AND" or "OR"; empty for leaf nodes
	LHS, RHS  *TestExpr
}

func (t *TestExpr) expressionNode()        {}
func (t *TestExpr) TokenLiteral() string   { return t.Tok.Literal }
func (t *TestExpr) ResultType() types.Kind { return types.Number } // boolean-as-number, unused by emitter
func (t *TestExpr) String() string {
	if t.LogicalOp != "" {
		return "(" + t.LHS.String() + " " + t.LogicalOp + " " + t.RHS.String() + ")"
	}
	return "(" + t.Left.String() + " " + t.CompareOp + " " + t.Right.String() + ")"
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

type StoreStatement struct {
	Tok    token.Token
	Value  Expression
	Target Expression // Identifier or Lookup
}

func (s *StoreStatement) statementNode()       {}
func (s *StoreStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *StoreStatement) String() string {
	return fmt.Sprintf("STORE %s IN %s", s.Value, s.Target)
}

type SolveStatement struct {
	Tok    token.Token
	Target Expression
	Expr   Expression // an ArithExpr tree, or a bare literal/identifier
}

func (s *SolveStatement) statementNode()       {}
func (s *SolveStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *SolveStatement) String() string {
	return fmt.Sprintf("IN %s SOLVE %s", s.Target, s.Expr)
}

type FloorStatement struct {
	Tok    token.Token
	Value  Expression
	Target Expression // nil means in-place
}

func (s *FloorStatement) statementNode()       {}
func (s *FloorStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *FloorStatement) String() string       { return fmt.Sprintf("FLOOR %s", s.Value) }

type ModuloStatement struct {
	Tok    token.Token
	A, B   Expression
	Target Expression
}

func (s *ModuloStatement) statementNode()       {}
func (s *ModuloStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *ModuloStatement) String() string {
	return fmt.Sprintf("MODULO %s BY %s IN %s", s.A, s.B, s.Target)
}

// ConditionalBranch is one `IF`/`ELSE IF` arm.
type ConditionalBranch struct {
	Cond *TestExpr
	Body []Statement
}

type IfStatement struct {
	Tok      token.Token
	Branches []ConditionalBranch
	Else     []Statement // nil when there is no ELSE
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *IfStatement) String() string {
	return "IF " + s.Branches[0].Cond.String() + " THEN ... END IF"
}

type WhileStatement struct {
	Tok  token.Token
	Cond *TestExpr
	Body []Statement
}

func (s *WhileStatement) statementNode()       {}
func (s *WhileStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *WhileStatement) String() string       { return "WHILE " + s.Cond.String() + " DO ... REPEAT" }

type ForStatement struct {
	Tok            token.Token
	Var            *Identifier
	From, To, Step Expression
	Body           []Statement
}

func (s *ForStatement) statementNode()       {}
func (s *ForStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *ForStatement) String() string {
	return fmt.Sprintf("FOR %s FROM %s TO %s STEP %s DO ... REPEAT", s.Var, s.From, s.To, s.Step)
}

type ForEachStatement struct {
	Tok        token.Token
	Var        *Identifier
	Collection Expression
	Body       []Statement
}

func (s *ForEachStatement) statementNode()       {}
func (s *ForEachStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *ForEachStatement) String() string {
	return fmt.Sprintf("FOR EACH %s IN %s DO ... REPEAT", s.Var, s.Collection)
}

type BreakStatement struct{ Tok token.Token }

func (s *BreakStatement) statementNode()       {}
func (s *BreakStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *BreakStatement) String() string       { return "BREAK" }

type ContinueStatement struct{ Tok token.Token }

func (s *ContinueStatement) statementNode()       {}
func (s *ContinueStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *ContinueStatement) String() string       { return "CONTINUE" }

type ReturnStatement struct{ Tok token.Token }

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *ReturnStatement) String() string       { return "RETURN" }

// ExitStatement lowers to exit(ERRORCODE), not exit(0): spec §6 states
// EXIT propagates ERRORCODE as the process exit code, which diverges from
// original_source/'s reference compiler (it hardcodes exit(0)); this
// follows the spec. See DESIGN.md.
type ExitStatement struct{ Tok token.Token }

func (s *ExitStatement) statementNode()       {}
func (s *ExitStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *ExitStatement) String() string       { return "EXIT" }

type GotoStatement struct {
	Tok   token.Token
	Label string
}

func (s *GotoStatement) statementNode()       {}
func (s *GotoStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *GotoStatement) String() string       { return "GOTO " + s.Label }

type LabelStatement struct {
	Tok  token.Token
	Name string
}

func (s *LabelStatement) statementNode()       {}
func (s *LabelStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *LabelStatement) String() string       { return "LABEL " + s.Name }

type WaitStatement struct {
	Tok    token.Token
	Millis Expression
}

func (s *WaitStatement) statementNode()       {}
func (s *WaitStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *WaitStatement) String() string       { return fmt.Sprintf("WAIT %s MILLISECONDS", s.Millis) }

type CallStatement struct {
	Tok      token.Token
	Sub      string
	Mangled  string
	Args     []Expression
	External bool
}

func (s *CallStatement) statementNode()       {}
func (s *CallStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *CallStatement) String() string       { return "CALL " + s.Sub }

type DisplayStatement struct {
	Tok    token.Token
	Values []Expression
}

func (s *DisplayStatement) statementNode()       {}
func (s *DisplayStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *DisplayStatement) String() string       { return "DISPLAY ..." }

type AcceptStatement struct {
	Tok      token.Token
	Target   Expression
	UntilEOF bool
}

func (s *AcceptStatement) statementNode()       {}
func (s *AcceptStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *AcceptStatement) String() string       { return "ACCEPT " + s.Target.String() }

type LoadFileStatement struct {
	Tok    token.Token
	Path   Expression
	Target Expression
}

func (s *LoadFileStatement) statementNode()       {}
func (s *LoadFileStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *LoadFileStatement) String() string       { return "LOAD FILE " + s.Path.String() }

type WriteStatement struct {
	Tok     token.Token
	Content Expression
	Path    Expression
	Append  bool
}

func (s *WriteStatement) statementNode()       {}
func (s *WriteStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *WriteStatement) String() string {
	if s.Append {
		return "APPEND " + s.Content.String() + " TO FILE " + s.Path.String()
	}
	return "WRITE " + s.Content.String() + " TO FILE " + s.Path.String()
}

type ExecuteStatement struct {
	Tok           token.Token
	Command       Expression
	StoreOutput   Expression // nil if absent
	StoreExitCode Expression // nil if absent
}

func (s *ExecuteStatement) statementNode()       {}
func (s *ExecuteStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *ExecuteStatement) String() string       { return "EXECUTE " + s.Command.String() }

// JoinStatement covers both the legacy two-operand `JOIN a AND b IN t` and
// the variadic `IN t JOIN a b c…` forms (original_source/ supplements).
type JoinStatement struct {
	Tok    token.Token
	Parts  []Expression
	Target Expression
}

func (s *JoinStatement) statementNode()       {}
func (s *JoinStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *JoinStatement) String() string       { return "JOIN ... IN " + s.Target.String() }

type ReplaceStatement struct {
	Tok                    token.Token
	Needle, Haystack, With Expression
	Target                 Expression
}

func (s *ReplaceStatement) statementNode()       {}
func (s *ReplaceStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *ReplaceStatement) String() string       { return "REPLACE ... IN " + s.Target.String() }

type SplitStatement struct {
	Tok       token.Token
	Source    Expression
	Separator Expression
	Target    Expression // a LIST variable
}

func (s *SplitStatement) statementNode()       {}
func (s *SplitStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *SplitStatement) String() string       { return "SPLIT " + s.Source.String() }

type GetCharAtStatement struct {
	Tok           token.Token
	Source, Index Expression
	Target        Expression
	ByCode        bool // GET CHARACTER CODE OF ... AT ... vs GET CHARACTER AT
}

func (s *GetCharAtStatement) statementNode()       {}
func (s *GetCharAtStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *GetCharAtStatement) String() string       { return "GET CHARACTER AT ..." }

type GetAsciiCharStatement struct {
	Tok    token.Token
	Code   Expression
	Target Expression
}

func (s *GetAsciiCharStatement) statementNode()       {}
func (s *GetAsciiCharStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *GetAsciiCharStatement) String() string       { return "GET ASCII CHARACTER ..." }

type GetIndexOfStatement struct {
	Tok              token.Token
	Needle, Haystack Expression
	Target           Expression
}

func (s *GetIndexOfStatement) statementNode()       {}
func (s *GetIndexOfStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *GetIndexOfStatement) String() string       { return "GET INDEX OF ..." }

type CountStatement struct {
	Tok            token.Token
	Source, Needle Expression
	Target         Expression
}

func (s *CountStatement) statementNode()       {}
func (s *CountStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *CountStatement) String() string       { return "COUNT ..." }

type SubstringStatement struct {
	Tok                   token.Token
	Source, Start, Length Expression
	Target                Expression
}

func (s *SubstringStatement) statementNode()       {}
func (s *SubstringStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *SubstringStatement) String() string       { return "SUBSTRING ..." }

type TrimStatement struct {
	Tok    token.Token
	Source Expression
	Target Expression
}

func (s *TrimStatement) statementNode()       {}
func (s *TrimStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *TrimStatement) String() string       { return "TRIM ..." }

type PushStatement struct {
	Tok    token.Token
	Value  Expression
	Target Expression // a LIST variable
}

func (s *PushStatement) statementNode()       {}
func (s *PushStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *PushStatement) String() string {
	return "PUSH " + s.Value.String() + " TO " + s.Target.String()
}

type DeleteLastStatement struct {
	Tok    token.Token
	Target Expression
}

func (s *DeleteLastStatement) statementNode()       {}
func (s *DeleteLastStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *DeleteLastStatement) String() string {
	return "DELETE LAST ELEMENT OF " + s.Target.String()
}

type ClearStatement struct {
	Tok    token.Token
	Target Expression
}

func (s *ClearStatement) statementNode()       {}
func (s *ClearStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *ClearStatement) String() string       { return "CLEAR " + s.Target.String() }

type CopyStatement struct {
	Tok    token.Token
	Source Expression
	Target Expression
}

func (s *CopyStatement) statementNode()       {}
func (s *CopyStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *CopyStatement) String() string {
	return "COPY " + s.Source.String() + " TO " + s.Target.String()
}

type GetLengthStatement struct {
	Tok    token.Token
	Source Expression
	Target Expression
}

func (s *GetLengthStatement) statementNode()       {}
func (s *GetLengthStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *GetLengthStatement) String() string       { return "GET LENGTH OF " + s.Source.String() }

type GetKeyCountStatement struct {
	Tok    token.Token
	Source Expression
	Target Expression
}

func (s *GetKeyCountStatement) statementNode()       {}
func (s *GetKeyCountStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *GetKeyCountStatement) String() string       { return "GET KEY COUNT OF " + s.Source.String() }

type GetKeysStatement struct {
	Tok    token.Token
	Source Expression
	Target Expression // a LIST of the map's key type
}

func (s *GetKeysStatement) statementNode()       {}
func (s *GetKeysStatement) TokenLiteral() string { return s.Tok.Literal }
func (s *GetKeysStatement) String() string       { return "GET KEYS OF " + s.Source.String() }

// CreateStatementDecl registers a user-defined statement template (spec
// §4.2); it carries no runtime behavior of its own — parsing expands
// every matching use-site directly into a CallStatement (spec §4.4).
type CreateStatementDecl struct {
	Tok     token.Token
	Pattern string
	Sub     string
}

func (s *CreateStatementDecl) statementNode()       {}
func (s *CreateStatementDecl) TokenLiteral() string { return s.Tok.Literal }
func (s *CreateStatementDecl) String() string       { return "CREATE STATEMENT " + s.Pattern }
