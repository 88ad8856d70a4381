package parser

import (
	"strings"

	"github.com/ldpl-lang/ldplc/internal/compiler/ast"
	"github.com/ldpl-lang/ldplc/internal/compiler/diag"
	"github.com/ldpl-lang/ldplc/internal/compiler/lib"
	"github.com/ldpl-lang/ldplc/internal/compiler/scope"
	"github.com/ldpl-lang/ldplc/internal/compiler/symbols"
	"github.com/ldpl-lang/ldplc/internal/compiler/token"
)

// parseDeclBlock consumes a run of `name IS type [EXTERNAL]` lines,
// stopping (without consuming) at the first line that isn't shaped like a
// declaration — which is how it naturally stops at `LOCAL DATA:`, `END
// SUB`, or the unit's first PROCEDURE:/statement line.
func (p *Parser) parseDeclBlock() []*ast.DataDecl {
	var out []*ast.DataDecl
	for {
		p.skipNewlines()
		if !p.looksLikeDecl() {
			return out
		}
		out = append(out, p.parseOneDecl())
	}
}

// parseSubDecl parses one `SUB name [EXTERNAL] … END SUB` definition,
// including its optional PARAMETERS: and LOCAL DATA: blocks, pushing a
// fresh scope (spec §4.3: globals, then per-sub parameters and locals)
// for the body.
func (p *Parser) parseSubDecl() *ast.SubDecl {
	tok := p.cur()
	p.advance() // SUB
	nameTok := p.cur()
	name := nameTok.Literal
	if nameTok.Type == token.TokenWord {
		p.advance()
	}
	external := false
	if p.isWord("EXTERNAL") {
		external = true
		p.advance()
	}
	p.skipToLineEnd()

	upper := strings.ToUpper(name)
	if p.subsSeen[upper] {
		p.errAt(nameTok, diag.Name, "sub %q is already declared", name)
	}
	p.subsSeen[upper] = true

	var params, locals []*ast.DataDecl
	p.skipNewlines()
	if p.maybeConsumeHeader("PARAMETERS") {
		params = p.parseDeclBlock()
	}
	p.skipNewlines()
	if p.maybeConsumeHeader("LOCAL", "DATA") {
		locals = p.parseDeclBlock()
	}
	p.skipNewlines()
	p.maybeConsumeHeader("PROCEDURE")

	subScope := scope.NewScope(p.global, name)
	for _, d := range params {
		subScope.Symbols[strings.ToUpper(d.Name)] = symbols.Info{Name: d.Name, Kind: symbols.KindVariable, Type: d.Type, Mangled: d.Mangled}
	}
	for _, d := range locals {
		if err := subScope.Define(strings.ToUpper(d.Name), symbols.Info{Name: d.Name, Kind: symbols.KindVariable, Type: d.Type, IsExternal: d.IsExternal, Mangled: d.Mangled}); err != nil {
			p.errAt(d.Tok, diag.Name, "%s", err.Error())
		}
	}
	p.curScope = subScope
	p.subDepth++
	savedLabels := p.labelsSeen
	p.labelsSeen = map[string]bool{}

	body, _ := p.parseBlock("END SUB", "END SUB-PROCEDURE")

	p.labelsSeen = savedLabels
	p.subDepth--
	p.curScope = p.global

	return &ast.SubDecl{
		Tok:        tok,
		Name:       name,
		Mangled:    lib.MangleSub(name),
		Params:     params,
		Locals:     locals,
		Body:       body,
		IsExternal: external,
	}
}

// parseBlock parses statements until one of terminators (each a
// space-separated phrase, e.g. "END SUB-PROCEDURE") matches at a
// statement boundary; it consumes the matched terminator and reports
// which one matched.
func (p *Parser) parseBlock(terminators ...string) ([]ast.Statement, string) {
	var stmts []ast.Statement
	for {
		p.skipNewlines()
		if p.cur().Type == token.TokenEOF {
			p.errCur(diag.Parse, "unexpected end of input, expected one of %v", terminators)
			return stmts, ""
		}
		for _, term := range terminators {
			if p.matchWords(strings.Fields(term)...) {
				return stmts, term
			}
		}
		if st := p.parseStatement(); st != nil {
			stmts = append(stmts, st)
		}
	}
}
