package parser

import (
	"strings"

	"github.com/ldpl-lang/ldplc/internal/compiler/ast"
	"github.com/ldpl-lang/ldplc/internal/compiler/diag"
	"github.com/ldpl-lang/ldplc/internal/compiler/lib"
	"github.com/ldpl-lang/ldplc/internal/compiler/symbols"
	"github.com/ldpl-lang/ldplc/internal/compiler/token"
	"github.com/ldpl-lang/ldplc/internal/compiler/types"
)

// parseValue parses one value expression (spec §3: number/text/linefeed
// literal, variable reference, or a `base:idx…` lookup chain). This is
// the only expression form accepted outside SOLVE and test expressions —
// LDPL's general grammar never has infix arithmetic, only SOLVE does.
func (p *Parser) parseValue() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.TokenNumber:
		p.advance()
		return &ast.NumberLiteral{Tok: tok, Value: lib.NormalizeNumberLiteral(tok.Literal)}
	case token.TokenString:
		p.advance()
		return &ast.TextLiteral{Tok: tok, Value: tok.Literal}
	case token.TokenWord:
		if token.EqualFold(tok.Literal, "LF") {
			p.advance()
			return &ast.LinefeedLiteral{Tok: tok, CRLF: false}
		}
		if token.EqualFold(tok.Literal, "CRLF") {
			p.advance()
			return &ast.LinefeedLiteral{Tok: tok, CRLF: true}
		}
		return p.parseIdentifierOrLookup()
	default:
		p.errAt(tok, diag.Parse, "expected a value, found %q", tok.Literal)
		p.advance()
		return &ast.NumberLiteral{Tok: tok, Value: "0"}
	}
}

func (p *Parser) parseIdentifierOrLookup() ast.Expression {
	tok := p.cur()
	p.advance()
	base := p.resolveIdentifier(tok)
	if p.cur().Type != token.TokenColon {
		return base
	}
	var indices []ast.Expression
	elemType := base.Type
	for p.cur().Type == token.TokenColon {
		p.advance()
		idx := p.parseValue()
		indices = append(indices, idx)
		if et, isColl := elemType.Elem(); isColl {
			elemType = et
		} else {
			p.errAt(tok, diag.Type, "cannot index %q: not a collection at this point in the chain", tok.Literal)
		}
	}
	return &ast.Lookup{Tok: tok, Base: base, Indices: indices, Type: elemType}
}

func (p *Parser) resolveIdentifier(tok token.Token) *ast.Identifier {
	upper := strings.ToUpper(tok.Literal)
	info, ok := p.curScope.Lookup(upper)
	if !ok {
		p.errAt(tok, diag.Name, "undeclared identifier %q", tok.Literal)
		return &ast.Identifier{Tok: tok, Name: tok.Literal, Type: types.Unknown, Mangled: lib.MangleVar(tok.Literal)}
	}
	if info.Kind != symbols.KindVariable {
		p.errAt(tok, diag.Name, "%q is a sub or statement template, not a variable", tok.Literal)
	}
	return &ast.Identifier{Tok: tok, Name: tok.Literal, Type: info.Type, Mangled: info.Mangled, External: info.IsExternal}
}

// ---------------------------------------------------------------------
// Test expressions (IF/WHILE conditions, spec §4.1)
// ---------------------------------------------------------------------

// parseTest parses a left-associative AND/OR chain of comparisons, AND
// binding tighter than OR (spec §4.1, §9).
func (p *Parser) parseTest() *ast.TestExpr {
	return p.parseOrChain()
}

func (p *Parser) parseOrChain() *ast.TestExpr {
	left := p.parseAndChain()
	for p.isWord("OR") {
		tok := p.cur()
		p.advance()
		right := p.parseAndChain()
		left = &ast.TestExpr{Tok: tok, LogicalOp: "OR", LHS: left, RHS: right}
	}
	return left
}

func (p *Parser) parseAndChain() *ast.TestExpr {
	left := p.parseComparison()
	for p.isWord("AND") {
		tok := p.cur()
		p.advance()
		right := p.parseComparison()
		left = &ast.TestExpr{Tok: tok, LogicalOp: "AND", LHS: left, RHS: right}
	}
	return left
}

func (p *Parser) parseComparison() *ast.TestExpr {
	tok := p.cur()
	lhs := p.parseValue()
	if !p.matchWords("IS") {
		p.errAt(p.cur(), diag.Parse, "expected IS in comparison, found %q", p.cur().Literal)
		return &ast.TestExpr{Tok: tok, CompareOp: "=", Left: lhs, Right: lhs}
	}
	op := ""
	switch {
	case p.matchWords("EQUAL", "TO"):
		op = "="
	case p.matchWords("NOT", "EQUAL", "TO"):
		op = "<>"
	case p.matchWords("GREATER", "THAN"):
		op = ">"
		if p.matchWords("OR", "EQUAL", "TO") {
			op = ">="
		}
	case p.matchWords("LESS", "THAN"):
		op = "<"
		if p.matchWords("OR", "EQUAL", "TO") {
			op = "<="
		}
	default:
		p.errAt(p.cur(), diag.Parse, "expected a comparison after IS, found %q", p.cur().Literal)
		op = "="
	}
	rhs := p.parseValue()
	return &ast.TestExpr{Tok: tok, CompareOp: op, Left: lhs, Right: rhs}
}
