package parser

import (
	"strings"

	"github.com/ldpl-lang/ldplc/internal/compiler/diag"
	"github.com/ldpl-lang/ldplc/internal/compiler/lib"
	"github.com/ldpl-lang/ldplc/internal/compiler/symbols"
	"github.com/ldpl-lang/ldplc/internal/compiler/token"
)

// scanSubSignatures is pass one (spec §4.1/§4.3): a silent walk of the
// whole token stream that registers every SUB's name, external flag, and
// parameter types into the global scope before pass two parses a single
// statement. This is what lets a CALL appearing earlier in the unit than
// its SUB definition still be arity/type-checked correctly.
func (p *Parser) scanSubSignatures() {
	savedPos, savedScope := p.pos, p.curScope
	p.suppressDiag = true
	p.pos = 0

	for p.cur().Type != token.TokenEOF {
		if !p.isWord("SUB") {
			p.advance()
			continue
		}
		p.advance() // SUB
		nameTok := p.cur()
		if nameTok.Type != token.TokenWord {
			continue
		}
		name := nameTok.Literal
		p.advance()
		external := false
		if p.isWord("EXTERNAL") {
			external = true
			p.advance()
		}
		p.skipToLineEnd()
		p.skipNewlines()

		var params []symbols.Param
		if p.maybeConsumeHeader("PARAMETERS") {
			for _, d := range p.parseDeclBlock() {
				params = append(params, symbols.Param{Name: d.Name, Type: d.Type})
			}
		}

		upper := strings.ToUpper(name)
		p.global.Symbols[upper] = symbols.Info{
			Name: name, Kind: symbols.KindSub,
			Params: params, IsExternalSub: external,
			Mangled: lib.MangleSub(name),
		}

		p.skipToSubEnd()
	}

	p.pos, p.curScope = savedPos, savedScope
	p.suppressDiag = false
}

func (p *Parser) skipToSubEnd() {
	for p.cur().Type != token.TokenEOF {
		if p.matchWords("END", "SUB") || p.matchWords("END", "SUB-PROCEDURE") {
			return
		}
		p.advance()
	}
}

// builtinOpeners lists, as ordered word sequences, every surface form
// parseStatement's dispatch switch recognizes before ever trying a
// CREATE STATEMENT template fallback (spec §4.1's "built-ins first"
// rule). A zero-slot template pattern whose literal words exactly match
// one of these can never be reached: parseStatement always dispatches to
// the built-in case first, so the template would be permanently
// shadowed dead code.
var builtinOpeners = [][]string{
	{"STORE"}, {"IN"}, {"FLOOR"}, {"MODULO"}, {"IF"}, {"WHILE"}, {"FOR"},
	{"BREAK"}, {"CONTINUE"}, {"RETURN"}, {"EXIT"}, {"GOTO"}, {"LABEL"}, {"WAIT"},
	{"CALL", "EXTERNAL"}, {"CALL"}, {"DISPLAY"}, {"ACCEPT"}, {"LOAD", "FILE"},
	{"WRITE"}, {"APPEND"}, {"EXECUTE"}, {"JOIN"}, {"SPLIT"}, {"GET"}, {"COUNT"},
	{"SUBSTRING", "OF"}, {"TRIM"}, {"PUSH"}, {"DELETE", "LAST", "ELEMENT", "OF"},
	{"CLEAR"}, {"COPY"}, {"CREATE", "STATEMENT"},
}

// templateSignature renders a template's pattern as a comparable string:
// each slot collapses to "$", so two templates collide whenever they'd
// be indistinguishable to tryMatchTemplate (same literal-prefix + slot
// signature), regardless of what value expressions their slots would
// eventually bind.
func templateSignature(pattern []symbols.TemplateToken) string {
	parts := make([]string, len(pattern))
	for i, tt := range pattern {
		if tt.IsSlot {
			parts[i] = "$"
		} else {
			parts[i] = strings.ToUpper(tt.Literal)
		}
	}
	return strings.Join(parts, " ")
}

// shadowsBuiltin reports whether pattern has no slots and its literal
// words exactly match one of builtinOpeners.
func shadowsBuiltin(pattern []symbols.TemplateToken) bool {
	for _, tt := range pattern {
		if tt.IsSlot {
			return false
		}
	}
	for _, opener := range builtinOpeners {
		if len(opener) != len(pattern) {
			continue
		}
		match := true
		for i, w := range opener {
			if !token.EqualFold(pattern[i].Literal, w) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// validateTemplates rejects a CREATE STATEMENT template for any of the
// three reasons spec §4.2 calls out: its target sub never ends up
// defined anywhere in the unit, its pattern collides with an
// already-registered template's literal-prefix + slot signature (the two
// could never be told apart by tryMatchTemplate), or it has no slots and
// exactly matches a built-in statement's opening keywords (permanently
// shadowed, since built-ins are always tried first).
func (p *Parser) validateTemplates() {
	seenSignatures := map[string]token.Token{}
	for _, tmpl := range p.templates {
		info, ok := p.global.LookupCurrentScope(strings.ToUpper(tmpl.Sub))
		if !ok || info.Kind != symbols.KindSub {
			file, line := p.locate(tmpl.Tok)
			p.diags.Add(diag.UserStmt, file, line, tmpl.Tok.Column, "CREATE STATEMENT target sub %q is never defined", tmpl.Sub)
		}

		sig := templateSignature(tmpl.Pattern)
		if prevTok, dup := seenSignatures[sig]; dup {
			file, line := p.locate(tmpl.Tok)
			prevFile, prevLine := p.locate(prevTok)
			p.diags.Add(diag.UserStmt, file, line, tmpl.Tok.Column, "CREATE STATEMENT pattern duplicates the one declared at %s:%d", prevFile, prevLine)
		} else {
			seenSignatures[sig] = tmpl.Tok
		}

		if shadowsBuiltin(tmpl.Pattern) {
			file, line := p.locate(tmpl.Tok)
			p.diags.Add(diag.UserStmt, file, line, tmpl.Tok.Column, "CREATE STATEMENT pattern %q exactly matches a built-in statement and can never be reached", sig)
		}
	}
}
