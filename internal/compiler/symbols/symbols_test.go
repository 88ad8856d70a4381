package symbols

import (
	"testing"

	"github.com/ldpl-lang/ldplc/internal/compiler/types"
)

func TestInfoVariable(t *testing.T) {
	info := Info{
		Name:    "COUNTER",
		Kind:    KindVariable,
		Type:    types.Number,
		Mangled: "VAR_COUNTER",
	}
	if info.Kind != KindVariable || info.Type != types.Number {
		t.Errorf("unexpected variable Info: %+v", info)
	}
}

func TestInfoSubWithParams(t *testing.T) {
	info := Info{
		Name: "GREET",
		Kind: KindSub,
		Params: []Param{
			{Name: "NAME", Type: types.Text},
			{Name: "COUNT", Type: types.Number},
		},
	}
	if len(info.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(info.Params))
	}
	if info.Params[0].Type != types.Text || info.Params[1].Type != types.Number {
		t.Errorf("unexpected param types: %+v", info.Params)
	}
}

func TestTemplateTokenSlotAndLiteral(t *testing.T) {
	pattern := []TemplateToken{
		{Literal: "SAY"},
		{IsSlot: true},
		{Literal: "TWICE"},
	}
	if pattern[0].IsSlot || pattern[1].Literal != "" || !pattern[1].IsSlot {
		t.Errorf("unexpected pattern shape: %+v", pattern)
	}
}
