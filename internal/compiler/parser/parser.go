// Package parser implements the two-pass LDPL 4.4 recognizer described in
// spec §4.1/§4.3: pass one collects sub signatures so calls can forward-
// reference a sub defined later in the same unit; pass two walks the
// token stream built by internal/compiler/lexer, resolving identifiers
// against internal/compiler/scope as it goes and producing the annotated
// internal/compiler/ast tree the emitter consumes directly (no further
// resolution happens downstream).
//
// There is no separate CST stage: the parser builds the annotated AST in
// one top-to-bottom walk, resolving names and types as each node is
// built, the way a recursive-descent Pratt parser commonly does. A
// CREATE STATEMENT template (spec §4.2) only becomes visible to the
// match-fallback at the statement-dispatch layer once its declaration
// line has actually been parsed, matching the spec's "visible from the
// point of declaration forward" rule; its target sub is validated to
// exist only once the whole unit has been walked, since subs themselves
// are fully forward-visible (pass one).
package parser

import (
	"strings"

	"github.com/ldpl-lang/ldplc/internal/compiler/ast"
	"github.com/ldpl-lang/ldplc/internal/compiler/diag"
	"github.com/ldpl-lang/ldplc/internal/compiler/lexer"
	"github.com/ldpl-lang/ldplc/internal/compiler/lib"
	"github.com/ldpl-lang/ldplc/internal/compiler/preprocess"
	"github.com/ldpl-lang/ldplc/internal/compiler/scope"
	"github.com/ldpl-lang/ldplc/internal/compiler/symbols"
	"github.com/ldpl-lang/ldplc/internal/compiler/token"
	"github.com/ldpl-lang/ldplc/internal/compiler/types"
)

// Parser walks one already-spliced translation unit (see
// internal/compiler/preprocess) and produces its annotated AST.
type Parser struct {
	toks  []token.Token
	runes []rune
	pos   int

	rootFile string
	origins  []preprocess.Origin

	diags        diag.Bag
	suppressDiag bool

	global    *scope.Scope
	curScope  *scope.Scope
	subsSeen  map[string]bool // sub names fully defined in pass two, for duplicate detection
	templates []templateEntry

	loopDepth  int             // WHILE/FOR/FOR EACH nesting, for BREAK/CONTINUE validity (spec §3)
	subDepth   int             // sub nesting (main's PROCEDURE: body counts as one), for RETURN validity
	labelsSeen map[string]bool // labels declared in the sub/body currently being parsed
}

type templateEntry struct {
	Pattern []symbols.TemplateToken
	Sub     string
	Tok     token.Token
}

// NewParser tokenizes src (the combined, include-spliced unit text) and
// prepares a parser over it. origins lets diagnostics report the user's
// original file:line across an INCLUDE splice; pass nil for a unit with
// no includes.
func NewParser(src string, fileID int, rootFile string, origins []preprocess.Origin) *Parser {
	p := &Parser{
		toks:       lexer.Tokenize(src, fileID),
		runes:      []rune(src),
		rootFile:   rootFile,
		origins:    origins,
		subsSeen:   map[string]bool{},
		labelsSeen: map[string]bool{},
	}
	p.global = scope.NewScope(nil, "global")
	p.curScope = p.global
	return p
}

// ParseProgram runs both passes and returns the annotated program plus
// every diagnostic collected along the way (spec §7: accumulate, never
// bail on first).
func (p *Parser) ParseProgram() (*ast.Program, []diag.Diagnostic) {
	p.definePredeclaredGlobals()
	p.scanSubSignatures()

	p.skipHeaderSection()

	var globals []*ast.DataDecl
	globals = append(globals, p.predeclaredGlobalDecls()...)
	if p.isWord("DATA") && p.at(1).Type == token.TokenColon {
		p.advance()
		p.advance()
		p.skipNewlines()
		globals = append(globals, p.parseGlobalDeclBlock()...)
	}

	var subs []*ast.SubDecl
	var mainBody []ast.Statement
	if p.isWord("PROCEDURE") && p.at(1).Type == token.TokenColon {
		p.advance()
		p.advance()
		// The top-level PROCEDURE: body is a synthetic sub (spec §3's
		// "Sub-procedure... main program... modeled as a synthetic sub
		// with no parameters"), so it counts toward subDepth/labelsSeen
		// the same way a SUB's own body does.
		p.subDepth++
		p.labelsSeen = map[string]bool{}
		for {
			p.skipNewlines()
			if p.cur().Type == token.TokenEOF {
				break
			}
			if p.isWord("SUB") {
				subs = append(subs, p.parseSubDecl())
				continue
			}
			if st := p.parseStatement(); st != nil {
				mainBody = append(mainBody, st)
			}
		}
		p.subDepth--
	}

	p.validateTemplates()

	main := &ast.SubDecl{Name: "PROCEDURE", Mangled: "ldpl_main_body", Body: mainBody}
	return &ast.Program{Globals: globals, Subs: subs, Main: main}, p.diags.All()
}

func (p *Parser) definePredeclaredGlobals() {
	p.global.Symbols["ARGV"] = symbols.Info{Name: "ARGV", Kind: symbols.KindVariable, Type: types.TextList, Mangled: lib.MangleVar("ARGV")}
	p.global.Symbols["ERRORTEXT"] = symbols.Info{Name: "ERRORTEXT", Kind: symbols.KindVariable, Type: types.Text, Mangled: lib.MangleVar("ERRORTEXT")}
	p.global.Symbols["ERRORCODE"] = symbols.Info{Name: "ERRORCODE", Kind: symbols.KindVariable, Type: types.Number, Mangled: lib.MangleVar("ERRORCODE")}
}

func (p *Parser) predeclaredGlobalDecls() []*ast.DataDecl {
	mk := func(name string, k types.Kind) *ast.DataDecl {
		return &ast.DataDecl{Name: name, Type: k, Mangled: lib.MangleVar(name)}
	}
	return []*ast.DataDecl{
		mk("ARGV", types.TextList),
		mk("ERRORTEXT", types.Text),
		mk("ERRORCODE", types.Number),
	}
}

// skipHeaderSection consumes header_stmt* lines (spec §6): USING PACKAGE,
// EXTENSION, FLAG. INCLUDE has already been resolved by the preprocessor
// and never reaches the parser.
func (p *Parser) skipHeaderSection() {
	for {
		p.skipNewlines()
		switch {
		case p.matchWords("USING", "PACKAGE"):
			p.skipToLineEnd()
		case p.isWord("EXTENSION"), p.isWord("FLAG"):
			p.advance()
			p.skipToLineEnd()
		default:
			return
		}
	}
}

func (p *Parser) parseGlobalDeclBlock() []*ast.DataDecl {
	var out []*ast.DataDecl
	for {
		p.skipNewlines()
		if !p.looksLikeDecl() {
			break
		}
		d := p.parseOneDecl()
		info := symbols.Info{Name: d.Name, Kind: symbols.KindVariable, Type: d.Type, IsExternal: d.IsExternal, Mangled: d.Mangled}
		if err := p.global.Define(strings.ToUpper(d.Name), info); err != nil {
			p.errAt(d.Tok, diag.Name, "%s", err.Error())
		}
		out = append(out, d)
	}
	return out
}

// looksLikeDecl reports whether the parser is positioned at a `name IS
// type` declaration line, without consuming anything.
func (p *Parser) looksLikeDecl() bool {
	return p.cur().Type == token.TokenWord && p.at(1).Type == token.TokenWord && token.EqualFold(p.at(1).Literal, "IS")
}

func (p *Parser) parseOneDecl() *ast.DataDecl {
	tok := p.cur()
	name := tok.Literal
	p.advance() // name
	p.advance() // IS
	kind, _ := p.parseTypePhrase()
	external := false
	if p.isWord("EXTERNAL") {
		external = true
		p.advance()
	}
	p.skipToLineEnd()
	mangled := name
	if !external {
		mangled = lib.MangleVar(name)
	}
	return &ast.DataDecl{Tok: tok, Name: name, Type: kind, IsExternal: external, Mangled: mangled}
}

// parseTypePhrase consumes the words making up a type name (`NUMBER`,
// `TEXT LIST`, `NUMBER VECTOR`, …) up to EXTERNAL/newline/EOF. A trailing
// `OF` signals the deferred `LIST OF …`/`MAP OF …` nested-collection form
// (spec §9 Open Question), rejected with a diagnostic rather than
// accepted silently.
func (p *Parser) parseTypePhrase() (types.Kind, bool) {
	start := p.cur()
	var words []string
	for p.cur().Type == token.TokenWord && !token.EqualFold(p.cur().Literal, "EXTERNAL") {
		if token.EqualFold(p.cur().Literal, "OF") {
			p.errAt(p.cur(), diag.Type, "nested collection types (LIST OF / MAP OF) are not supported")
			p.skipToLineEnd()
			return types.Unknown, false
		}
		words = append(words, p.cur().Literal)
		p.advance()
	}
	kind, ok := types.FromName(strings.Join(words, " "))
	if !ok {
		p.errAt(start, diag.Type, "unknown type %q", strings.Join(words, " "))
		return types.Unknown, false
	}
	return kind, true
}

// ---------------------------------------------------------------------
// Token navigation
// ---------------------------------------------------------------------

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) at(off int) token.Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) isWord(w string) bool {
	return p.cur().Type == token.TokenWord && token.EqualFold(p.cur().Literal, w)
}

// matchWords reports whether the next len(words) tokens are, in order,
// WORD tokens equal (case-insensitively) to words; it consumes them only
// on a full match, leaving the cursor untouched otherwise.
func (p *Parser) matchWords(words ...string) bool {
	for i, w := range words {
		t := p.at(i)
		if t.Type != token.TokenWord || !token.EqualFold(t.Literal, w) {
			return false
		}
	}
	p.pos += len(words)
	if p.pos >= len(p.toks) {
		p.pos = len(p.toks) - 1
	}
	return true
}

func (p *Parser) skipNewlines() {
	for p.cur().Type == token.TokenNewline {
		p.advance()
	}
}

// syncPosToOffset repositions the token cursor to the first token at or
// after the given rune offset into the combined source, used after a
// STORE QUOTE block's raw-text capture (which bypasses tokenization
// entirely) to resume normal token-based parsing right after it.
func (p *Parser) syncPosToOffset(offset int) {
	for p.pos < len(p.toks)-1 && p.toks[p.pos].Offset < offset {
		p.pos++
	}
}

func (p *Parser) skipToLineEnd() {
	for p.cur().Type != token.TokenNewline && p.cur().Type != token.TokenEOF {
		p.advance()
	}
}

// maybeConsumeHeader consumes words followed by an optional colon
// (`PARAMETERS:`, `LOCAL DATA:`), reporting whether it matched.
func (p *Parser) maybeConsumeHeader(words ...string) bool {
	if !p.matchWords(words...) {
		return false
	}
	if p.cur().Type == token.TokenColon {
		p.advance()
	}
	p.skipNewlines()
	return true
}

// ---------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------

func (p *Parser) errAt(t token.Token, kind diag.Kind, format string, args ...any) {
	if p.suppressDiag {
		return
	}
	file, line := p.locate(t)
	p.diags.Add(kind, file, line, t.Column, format, args...)
}

func (p *Parser) errCur(kind diag.Kind, format string, args ...any) {
	p.errAt(p.cur(), kind, format, args...)
}

// locate translates a combined-buffer token position back to its
// originating file:line via the preprocessor's Origins map (spec §4.2),
// falling back to the root file when there is no splice information.
func (p *Parser) locate(t token.Token) (string, int) {
	if p.origins != nil && t.Line >= 1 && t.Line <= len(p.origins) {
		o := p.origins[t.Line-1]
		return o.File, o.Line
	}
	return p.rootFile, t.Line
}
