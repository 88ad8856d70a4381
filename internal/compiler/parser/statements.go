package parser

import (
	"strings"

	"github.com/ldpl-lang/ldplc/internal/compiler/ast"
	"github.com/ldpl-lang/ldplc/internal/compiler/diag"
	"github.com/ldpl-lang/ldplc/internal/compiler/lexer"
	"github.com/ldpl-lang/ldplc/internal/compiler/lib"
	"github.com/ldpl-lang/ldplc/internal/compiler/symbols"
	"github.com/ldpl-lang/ldplc/internal/compiler/token"
	"github.com/ldpl-lang/ldplc/internal/compiler/types"
)

// parseStatement dispatches on the current word, trying every built-in
// surface form before falling back to a registered CREATE STATEMENT
// template (spec §4.1 "user statement ambiguity": built-ins first,
// longest match; template fallback only when nothing built-in matches).
// It returns nil (consuming to the next newline) for a line it cannot
// recognize at all, having already recorded a diagnostic.
func (p *Parser) parseStatement() ast.Statement {
	tok := p.cur()
	if tok.Type != token.TokenWord {
		p.errAt(tok, diag.Parse, "expected a statement, found %q", tok.Literal)
		p.skipToLineEnd()
		return nil
	}

	var st ast.Statement
	switch {
	case p.isWord("STORE"):
		st = p.parseStore()
	case p.isWord("IN"):
		st = p.parseInTargetStatement()
	case p.isWord("FLOOR"):
		st = p.parseFloor()
	case p.isWord("MODULO"):
		st = p.parseModulo()
	case p.isWord("IF"):
		st = p.parseIf()
	case p.isWord("WHILE"):
		st = p.parseWhile()
	case p.isWord("FOR"):
		st = p.parseFor()
	case p.isWord("BREAK"):
		p.advance()
		if p.loopDepth == 0 {
			p.errAt(tok, diag.Shape, "BREAK used outside a loop body")
		}
		st = &ast.BreakStatement{Tok: tok}
	case p.isWord("CONTINUE"):
		p.advance()
		if p.loopDepth == 0 {
			p.errAt(tok, diag.Shape, "CONTINUE used outside a loop body")
		}
		st = &ast.ContinueStatement{Tok: tok}
	case p.isWord("RETURN"):
		p.advance()
		if p.subDepth == 0 {
			p.errAt(tok, diag.Shape, "RETURN used outside a sub")
		}
		st = &ast.ReturnStatement{Tok: tok}
	case p.isWord("EXIT"):
		p.advance()
		st = &ast.ExitStatement{Tok: tok}
	case p.isWord("GOTO"):
		p.advance()
		label := p.cur().Literal
		p.advance()
		st = &ast.GotoStatement{Tok: tok, Label: label}
	case p.isWord("LABEL"):
		p.advance()
		name := p.cur().Literal
		p.advance()
		upper := strings.ToUpper(name)
		if p.labelsSeen[upper] {
			p.errAt(tok, diag.Shape, "duplicate label %q", name)
		}
		p.labelsSeen[upper] = true
		st = &ast.LabelStatement{Tok: tok, Name: name}
	case p.isWord("WAIT"):
		st = p.parseWait()
	case p.matchWords("CALL", "EXTERNAL"):
		st = p.parseCallTail(tok, true)
	case p.isWord("CALL"):
		p.advance()
		st = p.parseCallTail(tok, false)
	case p.isWord("DISPLAY"):
		st = p.parseDisplay()
	case p.isWord("ACCEPT"):
		st = p.parseAccept()
	case p.matchWords("LOAD", "FILE"):
		st = p.parseLoadFile(tok)
	case p.isWord("WRITE"):
		st = p.parseWriteOrAppend(tok, false)
	case p.isWord("APPEND"):
		st = p.parseWriteOrAppend(tok, true)
	case p.isWord("EXECUTE"):
		st = p.parseExecute()
	case p.isWord("JOIN"):
		st = p.parseLegacyJoin()
	case p.matchWords("SPLIT"):
		st = p.parseSplit(tok)
	case p.isWord("GET"):
		st = p.parseGet(tok)
	case p.isWord("COUNT"):
		st = p.parseCount(tok)
	case p.matchWords("SUBSTRING", "OF"):
		st = p.parseSubstring(tok)
	case p.isWord("TRIM"):
		st = p.parseTrim(tok)
	case p.isWord("PUSH"):
		st = p.parsePush(tok)
	case p.matchWords("DELETE", "LAST", "ELEMENT", "OF"):
		target := p.parseValue()
		st = &ast.DeleteLastStatement{Tok: tok, Target: target}
	case p.isWord("CLEAR"):
		p.advance()
		st = &ast.ClearStatement{Tok: tok, Target: p.parseValue()}
	case p.isWord("COPY"):
		st = p.parseCopy(tok)
	case p.matchWords("CREATE", "STATEMENT"):
		st = p.parseCreateStatement(tok)
	default:
		if tmplStmt, ok := p.tryMatchTemplate(); ok {
			st = tmplStmt
		} else {
			p.errAt(tok, diag.UserStmt, "unrecognized statement %q", tok.Literal)
			p.skipToLineEnd()
			return nil
		}
	}
	return st
}

// ---------------------------------------------------------------------
// STORE / SOLVE / FLOOR / MODULO
// ---------------------------------------------------------------------

func (p *Parser) parseStore() ast.Statement {
	tok := p.cur()
	p.advance() // STORE

	if p.isWord("QUOTE") && p.at(1).Type == token.TokenWord && token.EqualFold(p.at(1).Literal, "IN") {
		p.advance() // QUOTE
		p.advance() // IN
		target := p.parseValue()
		nlTok := p.cur()
		if nlTok.Type == token.TokenNewline {
			p.advance()
		}
		start := nlTok.Offset + 1
		if nlTok.Type != token.TokenNewline {
			start = nlTok.Offset
		}
		content, next, ok := lexer.ScanQuoteBlock(p.runes, start)
		if !ok {
			p.errAt(tok, diag.Lex, "unterminated STORE QUOTE block")
		}
		p.syncPosToOffset(next)
		return &ast.StoreStatement{Tok: tok, Value: &ast.TextLiteral{Tok: tok, Value: content}, Target: target}
	}

	value := p.parseValue()
	if !p.matchWords("IN") {
		p.errAt(p.cur(), diag.Parse, "expected IN, found %q", p.cur().Literal)
	}
	target := p.parseValue()
	return &ast.StoreStatement{Tok: tok, Value: value, Target: target}
}

// parseInTargetStatement handles every statement that opens with `IN
// <target> …`: SOLVE, the variadic JOIN, and REPLACE.
func (p *Parser) parseInTargetStatement() ast.Statement {
	tok := p.cur()
	p.advance() // IN
	target := p.parseValue()

	switch {
	case p.isWord("SOLVE"):
		p.advance()
		expr := p.parseSolveExpr()
		return &ast.SolveStatement{Tok: tok, Target: target, Expr: expr}
	case p.isWord("JOIN"):
		p.advance()
		var parts []ast.Expression
		for p.cur().Type != token.TokenNewline && p.cur().Type != token.TokenEOF {
			parts = append(parts, p.parseValue())
		}
		return &ast.JoinStatement{Tok: tok, Parts: parts, Target: target}
	case p.isWord("REPLACE"):
		p.advance()
		needle := p.parseValue()
		p.matchWords("WITH")
		with := p.parseValue()
		p.matchWords("IN")
		haystack := p.parseValue()
		return &ast.ReplaceStatement{Tok: tok, Needle: needle, With: with, Haystack: haystack, Target: target}
	default:
		p.errAt(p.cur(), diag.Parse, "expected SOLVE, JOIN, or REPLACE after IN <target>, found %q", p.cur().Literal)
		p.skipToLineEnd()
		return nil
	}
}

// parseSolveExpr builds the SOLVE arithmetic tree (spec §4.4/§9): a
// self-contained shunting-yard pass, isolated from the rest of the
// grammar, over the same WORD/NUMBER/STRING tokens the main parser
// already produces. Operator words need surrounding whitespace to lex
// apart from an adjoining number or identifier (e.g. `3 - 5`, not
// `3-5`) since `+-*/^` are themselves legal identifier characters per
// spec §4.1 — a known, documented limitation; see DESIGN.md.
func (p *Parser) parseSolveExpr() ast.Expression {
	tok := p.cur()
	var items []lib.SYItem
	for p.cur().Type != token.TokenNewline && p.cur().Type != token.TokenEOF {
		switch {
		case p.cur().Type == token.TokenLParen:
			items = append(items, lib.SYItem{Op: "("})
			p.advance()
		case p.cur().Type == token.TokenRParen:
			items = append(items, lib.SYItem{Op: ")"})
			p.advance()
		case p.cur().Type == token.TokenWord && isSolveOperator(p.cur().Literal):
			items = append(items, lib.SYItem{Op: p.cur().Literal})
			p.advance()
		default:
			items = append(items, lib.SYItem{Operand: p.parseValue()})
		}
	}
	expr, err := lib.BuildArithTree(tok, items)
	if err != nil {
		p.errAt(tok, diag.Parse, "%s", err.Error())
		return &ast.NumberLiteral{Tok: tok, Value: "0"}
	}
	return expr
}

func isSolveOperator(lit string) bool {
	return lit == "+" || lit == "-" || lit == "*" || lit == "/" || lit == "^"
}

func (p *Parser) parseFloor() ast.Statement {
	tok := p.cur()
	p.advance()
	value := p.parseValue()
	var target ast.Expression
	if p.matchWords("IN") {
		target = p.parseValue()
	}
	return &ast.FloorStatement{Tok: tok, Value: value, Target: target}
}

func (p *Parser) parseModulo() ast.Statement {
	tok := p.cur()
	p.advance()
	a := p.parseValue()
	if !p.matchWords("BY") {
		p.errAt(p.cur(), diag.Parse, "expected BY, found %q", p.cur().Literal)
	}
	b := p.parseValue()
	if !p.matchWords("IN") {
		p.errAt(p.cur(), diag.Parse, "expected IN, found %q", p.cur().Literal)
	}
	target := p.parseValue()
	return &ast.ModuloStatement{Tok: tok, A: a, B: b, Target: target}
}

// ---------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------

func (p *Parser) parseIf() ast.Statement {
	tok := p.cur()
	p.advance() // IF
	var branches []ast.ConditionalBranch
	cond := p.parseTest()
	p.matchWords("THEN")
	body, term := p.parseBlock("ELSE IF", "ELSE", "END IF")
	branches = append(branches, ast.ConditionalBranch{Cond: cond, Body: body})

	var elseBody []ast.Statement
	for term == "ELSE IF" {
		cond = p.parseTest()
		p.matchWords("THEN")
		var b []ast.Statement
		b, term = p.parseBlock("ELSE IF", "ELSE", "END IF")
		branches = append(branches, ast.ConditionalBranch{Cond: cond, Body: b})
	}
	if term == "ELSE" {
		elseBody, _ = p.parseBlock("END IF")
	}
	return &ast.IfStatement{Tok: tok, Branches: branches, Else: elseBody}
}

func (p *Parser) parseWhile() ast.Statement {
	tok := p.cur()
	p.advance()
	cond := p.parseTest()
	p.matchWords("DO")
	p.loopDepth++
	body, _ := p.parseBlock("REPEAT")
	p.loopDepth--
	return &ast.WhileStatement{Tok: tok, Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Statement {
	tok := p.cur()
	p.advance() // FOR
	if p.isWord("EACH") {
		p.advance()
		varTok := p.cur()
		p.advance()
		v := p.resolveIdentifier(varTok)
		p.matchWords("IN")
		coll := p.parseValue()
		p.matchWords("DO")
		p.loopDepth++
		body, _ := p.parseBlock("REPEAT")
		p.loopDepth--
		return &ast.ForEachStatement{Tok: tok, Var: v, Collection: coll, Body: body}
	}
	varTok := p.cur()
	p.advance()
	v := p.resolveIdentifier(varTok)
	p.matchWords("FROM")
	from := p.parseValue()
	p.matchWords("TO")
	to := p.parseValue()
	var step ast.Expression
	if p.matchWords("STEP") {
		step = p.parseValue()
	} else {
		step = &ast.NumberLiteral{Tok: tok, Value: "1"}
	}
	p.matchWords("DO")
	p.loopDepth++
	body, _ := p.parseBlock("REPEAT")
	p.loopDepth--
	return &ast.ForStatement{Tok: tok, Var: v, From: from, To: to, Step: step, Body: body}
}

func (p *Parser) parseWait() ast.Statement {
	tok := p.cur()
	p.advance()
	millis := p.parseValue()
	p.matchWords("MILLISECONDS")
	return &ast.WaitStatement{Tok: tok, Millis: millis}
}

// ---------------------------------------------------------------------
// CALL
// ---------------------------------------------------------------------

func (p *Parser) parseCallTail(tok token.Token, external bool) ast.Statement {
	nameTok := p.cur()
	name := nameTok.Literal
	if nameTok.Type == token.TokenWord {
		p.advance()
	}
	var args []ast.Expression
	if p.matchWords("WITH") {
		for p.cur().Type != token.TokenNewline && p.cur().Type != token.TokenEOF {
			args = append(args, p.parseValue())
		}
	}

	mangled := lib.MangleSub(name)
	symbolExternal := external
	if info, ok := p.global.LookupCurrentScope(strings.ToUpper(name)); ok && info.IsExternalSub {
		symbolExternal = true
	}
	if symbolExternal {
		mangled = name
	}
	if !external {
		p.checkCallSignature(nameTok, name, args)
	}

	return &ast.CallStatement{Tok: tok, Sub: name, Mangled: mangled, Args: args, External: symbolExternal}
}

func (p *Parser) checkCallSignature(nameTok token.Token, name string, args []ast.Expression) {
	info, ok := p.global.LookupCurrentScope(strings.ToUpper(name))
	if !ok || info.Kind != symbols.KindSub {
		p.errAt(nameTok, diag.Name, "call to undefined sub %q", name)
		return
	}
	if len(args) != len(info.Params) {
		p.errAt(nameTok, diag.Type, "sub %q expects %d argument(s), got %d", name, len(info.Params), len(args))
		return
	}
	for i, param := range info.Params {
		if !types.Coercible(args[i].ResultType(), param.Type) {
			p.errAt(nameTok, diag.Type, "argument %d to %q: cannot use %s where %s is expected", i+1, name, args[i].ResultType(), param.Type)
		}
	}
}

// ---------------------------------------------------------------------
// DISPLAY / ACCEPT / file I/O / EXECUTE
// ---------------------------------------------------------------------

func (p *Parser) parseDisplay() ast.Statement {
	tok := p.cur()
	p.advance()
	var values []ast.Expression
	for p.cur().Type != token.TokenNewline && p.cur().Type != token.TokenEOF {
		values = append(values, p.parseValue())
	}
	return &ast.DisplayStatement{Tok: tok, Values: values}
}

func (p *Parser) parseAccept() ast.Statement {
	tok := p.cur()
	p.advance()
	target := p.parseValue()
	untilEOF := p.matchWords("UNTIL", "EOF")
	return &ast.AcceptStatement{Tok: tok, Target: target, UntilEOF: untilEOF}
}

func (p *Parser) parseLoadFile(tok token.Token) ast.Statement {
	path := p.parseValue()
	p.matchWords("IN")
	target := p.parseValue()
	return &ast.LoadFileStatement{Tok: tok, Path: path, Target: target}
}

func (p *Parser) parseWriteOrAppend(tok token.Token, isAppend bool) ast.Statement {
	p.advance() // WRITE/APPEND
	content := p.parseValue()
	p.matchWords("TO", "FILE")
	path := p.parseValue()
	return &ast.WriteStatement{Tok: tok, Content: content, Path: path, Append: isAppend}
}

func (p *Parser) parseExecute() ast.Statement {
	tok := p.cur()
	p.advance()
	cmd := p.parseValue()
	var out, code ast.Expression
	for p.matchWords("AND", "STORE") {
		switch {
		case p.matchWords("OUTPUT"):
			p.matchWords("IN")
			out = p.parseValue()
		case p.matchWords("EXIT", "CODE"):
			p.matchWords("IN")
			code = p.parseValue()
		default:
			p.errAt(p.cur(), diag.Parse, "expected OUTPUT or EXIT CODE after AND STORE, found %q", p.cur().Literal)
		}
	}
	return &ast.ExecuteStatement{Tok: tok, Command: cmd, StoreOutput: out, StoreExitCode: code}
}

// ---------------------------------------------------------------------
// Text operations
// ---------------------------------------------------------------------

func (p *Parser) parseLegacyJoin() ast.Statement {
	tok := p.cur()
	p.advance() // JOIN
	a := p.parseValue()
	p.matchWords("AND")
	b := p.parseValue()
	p.matchWords("IN")
	target := p.parseValue()
	return &ast.JoinStatement{Tok: tok, Parts: []ast.Expression{a, b}, Target: target}
}

func (p *Parser) parseSplit(tok token.Token) ast.Statement {
	source := p.parseValue()
	p.matchWords("BY")
	sep := p.parseValue()
	p.matchWords("IN")
	target := p.parseValue()
	return &ast.SplitStatement{Tok: tok, Source: source, Separator: sep, Target: target}
}

func (p *Parser) parseGet(tok token.Token) ast.Statement {
	p.advance() // GET
	switch {
	case p.matchWords("LENGTH", "OF"):
		src := p.parseValue()
		p.matchWords("IN")
		return &ast.GetLengthStatement{Tok: tok, Source: src, Target: p.parseValue()}
	case p.matchWords("KEY", "COUNT", "OF"):
		src := p.parseValue()
		p.matchWords("IN")
		return &ast.GetKeyCountStatement{Tok: tok, Source: src, Target: p.parseValue()}
	case p.matchWords("KEYS", "OF"):
		src := p.parseValue()
		p.matchWords("IN")
		return &ast.GetKeysStatement{Tok: tok, Source: src, Target: p.parseValue()}
	case p.matchWords("CHARACTER", "CODE", "OF"):
		src := p.parseValue()
		p.matchWords("AT")
		idx := p.parseValue()
		p.matchWords("IN")
		return &ast.GetCharAtStatement{Tok: tok, Source: src, Index: idx, Target: p.parseValue(), ByCode: true}
	case p.matchWords("CHARACTER", "AT"):
		src := p.parseValue()
		idx := p.parseValue()
		p.matchWords("IN")
		return &ast.GetCharAtStatement{Tok: tok, Source: src, Index: idx, Target: p.parseValue()}
	case p.matchWords("ASCII", "CHARACTER"):
		code := p.parseValue()
		p.matchWords("IN")
		return &ast.GetAsciiCharStatement{Tok: tok, Code: code, Target: p.parseValue()}
	case p.matchWords("INDEX", "OF"):
		needle := p.parseValue()
		p.matchWords("IN")
		haystack := p.parseValue()
		p.matchWords("IN")
		return &ast.GetIndexOfStatement{Tok: tok, Needle: needle, Haystack: haystack, Target: p.parseValue()}
	default:
		p.errAt(p.cur(), diag.UserStmt, "unrecognized GET statement form, found %q", p.cur().Literal)
		p.skipToLineEnd()
		return nil
	}
}

func (p *Parser) parseCount(tok token.Token) ast.Statement {
	p.advance() // COUNT
	needle := p.parseValue()
	p.matchWords("IN")
	source := p.parseValue()
	p.matchWords("IN")
	return &ast.CountStatement{Tok: tok, Source: source, Needle: needle, Target: p.parseValue()}
}

func (p *Parser) parseSubstring(tok token.Token) ast.Statement {
	source := p.parseValue()
	p.matchWords("FROM")
	start := p.parseValue()
	p.matchWords("TO")
	length := p.parseValue()
	p.matchWords("IN")
	return &ast.SubstringStatement{Tok: tok, Source: source, Start: start, Length: length, Target: p.parseValue()}
}

func (p *Parser) parseTrim(tok token.Token) ast.Statement {
	p.advance() // TRIM
	source := p.parseValue()
	p.matchWords("IN")
	return &ast.TrimStatement{Tok: tok, Source: source, Target: p.parseValue()}
}

// ---------------------------------------------------------------------
// List/map operations
// ---------------------------------------------------------------------

func (p *Parser) parsePush(tok token.Token) ast.Statement {
	p.advance() // PUSH
	value := p.parseValue()
	p.matchWords("TO")
	return &ast.PushStatement{Tok: tok, Value: value, Target: p.parseValue()}
}

func (p *Parser) parseCopy(tok token.Token) ast.Statement {
	p.advance() // COPY
	source := p.parseValue()
	p.matchWords("TO")
	return &ast.CopyStatement{Tok: tok, Source: source, Target: p.parseValue()}
}

// ---------------------------------------------------------------------
// CREATE STATEMENT (spec §4.2)
// ---------------------------------------------------------------------

func (p *Parser) parseCreateStatement(tok token.Token) ast.Statement {
	patTok := p.cur()
	pattern := patTok.Literal
	if patTok.Type == token.TokenString {
		p.advance()
	} else {
		p.errAt(patTok, diag.Parse, "expected a quoted pattern after CREATE STATEMENT")
	}
	p.matchWords("EXECUTING")
	subTok := p.cur()
	sub := subTok.Literal
	if subTok.Type == token.TokenWord {
		p.advance()
	}

	p.templates = append(p.templates, templateEntry{
		Pattern: compileTemplatePattern(pattern),
		Sub:     sub,
		Tok:     tok,
	})
	return &ast.CreateStatementDecl{Tok: tok, Pattern: pattern, Sub: sub}
}

func compileTemplatePattern(pattern string) []symbols.TemplateToken {
	fields := strings.Fields(pattern)
	out := make([]symbols.TemplateToken, 0, len(fields))
	for _, f := range fields {
		if f == "$" {
			out = append(out, symbols.TemplateToken{IsSlot: true})
		} else {
			out = append(out, symbols.TemplateToken{Literal: f})
		}
	}
	return out
}

// tryMatchTemplate attempts every registered template, longest pattern
// first, against the token stream starting at the cursor; on a full
// match it consumes the matched tokens (reparsing each slot as a value
// expression) and returns the equivalent CALL (spec §4.2/§4.4).
func (p *Parser) tryMatchTemplate() (ast.Statement, bool) {
	tok := p.cur()
	ordered := make([]templateEntry, len(p.templates))
	copy(ordered, p.templates)
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			if len(ordered[j].Pattern) > len(ordered[i].Pattern) {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}

	for _, tmpl := range ordered {
		saved := p.pos
		var args []ast.Expression
		ok := true
		for _, tt := range tmpl.Pattern {
			if tt.IsSlot {
				if p.cur().Type == token.TokenNewline || p.cur().Type == token.TokenEOF {
					ok = false
					break
				}
				args = append(args, p.parseValue())
				continue
			}
			if !p.isWord(tt.Literal) {
				ok = false
				break
			}
			p.advance()
		}
		if ok {
			return &ast.CallStatement{Tok: tok, Sub: tmpl.Sub, Mangled: lib.MangleSub(tmpl.Sub), Args: args}, true
		}
		p.pos = saved
	}
	return nil, false
}
