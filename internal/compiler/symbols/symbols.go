// Package symbols describes what a resolved LDPL identifier refers to:
// a variable, a sub-procedure, or a user-defined statement template
// (spec §3).
package symbols

import "github.com/ldpl-lang/ldplc/internal/compiler/types"

type Kind int

const (
	KindVariable Kind = iota
	KindSub
	KindTemplate
)

// Param describes one sub parameter's name and declared type.
type Param struct {
	Name string
	Type types.Kind
}

// Info is the resolved meaning of one declared name. Which fields apply
// depends on Kind: variables use Type/IsExternal/Mangled; subs use
// Params/IsExternalSub/Mangled; templates use Pattern/TargetSub/SlotCount.
type Info struct {
	Name string
	Kind Kind

	// Variables
	Type       types.Kind
	IsExternal bool // EXTERNAL declaration: referenced by its bare name
	Mangled    string

	// Subs
	Params        []Param
	IsExternalSub bool

	// Templates (CREATE STATEMENT)
	Pattern   []TemplateToken
	TargetSub string
	SlotCount int
}

// TemplateToken is one element of a CREATE STATEMENT surface pattern: a
// literal keyword word, or an expression slot (the "$" sigil).
type TemplateToken struct {
	Literal string // empty when IsSlot
	IsSlot  bool
}
