// Package scope implements the scope stack described in spec §4.3:
// global data, then per-sub parameters and locals. Lookup keys are
// expected to already be normalized (upper-cased) by the caller, since
// LDPL identifier comparison is case-insensitive (spec §4.1).
package scope

import (
	"fmt"

	"github.com/ldpl-lang/ldplc/internal/compiler/symbols"
)

type Scope struct {
	Symbols map[string]symbols.Info
	Outer   *Scope
	Name    string
}

func NewScope(outer *Scope, name string) *Scope {
	return &Scope{
		Symbols: make(map[string]symbols.Info),
		Outer:   outer,
		Name:    name,
	}
}

// Define adds a symbol to this scope only. Returns an error if name is
// already declared at this level (spec §3 invariant: no two declarations
// in the same scope share a case-insensitive name).
func (s *Scope) Define(name string, info symbols.Info) error {
	if _, exists := s.Symbols[name]; exists {
		return fmt.Errorf("%q is already declared in this scope", name)
	}
	s.Symbols[name] = info
	return nil
}

// Lookup searches this scope and, failing that, each outer scope in turn;
// the first (innermost) hit wins, implementing shadowing.
func (s *Scope) Lookup(name string) (*symbols.Info, bool) {
	for sc := s; sc != nil; sc = sc.Outer {
		if info, ok := sc.Symbols[name]; ok {
			cp := info
			return &cp, true
		}
	}
	return nil, false
}

// LookupCurrentScope checks only this scope level, ignoring outer scopes.
func (s *Scope) LookupCurrentScope(name string) (*symbols.Info, bool) {
	if info, ok := s.Symbols[name]; ok {
		cp := info
		return &cp, true
	}
	return nil, false
}
