// Package lib holds small, stateless helpers shared by the parser and
// emitter: identifier mangling, number-literal normalization, and the
// SOLVE shunting-yard operator table.
package lib

import (
	"strconv"
	"strings"
)

// MangleVar maps an LDPL variable name to its C++ identifier using the
// `LPVAR_` prefix spec §4.4 specifies. This differs from
// original_source/src/compiler.rs's reference `mangle` function, which
// uses `VAR_`/`SUB_` prefixes and a generic `c<codepoint>_` escape for
// every non-alphanumeric rune; the spec's prefix and its `_P_`/`_C_`
// escapes for dot/colon are followed literally here, generalized in the
// same style for any other non-alphanumeric rune LDPL allows in
// identifiers, with literal underscores doubled so the escapes stay
// injective (spec §8 testable property #2) — see mangleBody and
// DESIGN.md.
func MangleVar(name string) string {
	return "LPVAR_" + mangleBody(name)
}

// MangleSub maps an LDPL sub name to its C++ function name: spec §4.4
// gives the exact rule `ldpl_<uppercased-name-with-dots→underscores>`.
func MangleSub(name string) string {
	upper := strings.ToUpper(name)
	return "ldpl_" + strings.ReplaceAll(upper, ".", "_")
}

// mangleBody implements the reversible escaping spec §4.4 describes:
// '.' -> "_P_", ':' -> "_C_", and (generalizing the same style) any
// other rune outside [A-Za-z0-9_] -> "_XHH_" with HH its lower-case hex
// codepoint. A literal '_' is doubled to "__" rather than passed through
// unescaped: every escape sequence above is itself delimited by single
// underscores, so a name's own underscores must be told apart from them
// or two distinct names can fold to the same output (e.g. "A.B" and the
// literal "A_P_B" both degenerate to "A_P_B" if '_' passes through
// as-is). Doubling literal underscores keeps the whole scheme a prefix
// code — no output of one rune can ever be a prefix of another's — which
// is what makes the mapping actually injective across the full
// identifier charset spec §4.1 allows (anything but
// `{ ':' '(' ')' '"' space tab CR LF }`), rather than merely documented
// as such. A leading digit gets an "_N_" marker rather than a bare "N"
// prefix, for the same reason: a bare prefix could collide with a name
// that genuinely starts with N.
func mangleBody(name string) string {
	upper := strings.ToUpper(name)
	runes := []rune(upper)

	var b strings.Builder
	if len(runes) > 0 && runes[0] >= '0' && runes[0] <= '9' {
		b.WriteString("_N_")
	}
	for _, r := range runes {
		switch {
		case r == '_':
			b.WriteString("__")
		case r == '.':
			b.WriteString("_P_")
		case r == ':':
			b.WriteString("_C_")
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			b.WriteString("_X" + strconv.FormatInt(int64(r), 16) + "_")
		}
	}
	return b.String()
}

// NormalizeNumberLiteral folds a lexed number literal's textual form the
// way the reference runtime would parse-then-format it (e.g. "-000.0"
// folds to "0", "+10" to "10"), per original_source/'s
// compiler.rs::compile_number and spec §4.1's note that a unary `+` is
// syntactically accepted but semantically identical to no sign.
func NormalizeNumberLiteral(lit string) string {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	if f == 0 {
		return "0"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}
