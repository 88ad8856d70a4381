package diag

import "testing"

func TestBagAddAndHasErrors(t *testing.T) {
	var b Bag
	if b.HasErrors() {
		t.Fatal("empty bag should have no errors")
	}
	b.Add(Type, "main.ldpl", 3, 5, "cannot assign %s to %s", "TEXT", "NUMBER LIST")
	if !b.HasErrors() {
		t.Fatal("expected HasErrors after Add")
	}
	all := b.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(all))
	}
	d := all[0]
	if d.Kind != Type || d.File != "main.ldpl" || d.Line != 3 || d.Column != 5 {
		t.Errorf("unexpected diagnostic fields: %+v", d)
	}
	if d.Message != "cannot assign TEXT to NUMBER LIST" {
		t.Errorf("message = %q", d.Message)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Kind: Parse, File: "a.ldpl", Line: 1, Column: 2, Message: "unexpected token"}
	want := "a.ldpl:1:2: Syntax Error: unexpected token"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBagStrings(t *testing.T) {
	var b Bag
	b.Add(Name, "a.ldpl", 1, 1, "undeclared identifier %q", "X")
	b.Add(Include, "a.ldpl", 2, 1, "file not found: %s", "missing.ldpl")

	strs := b.Strings()
	if len(strs) != 2 {
		t.Fatalf("expected 2 strings, got %d", len(strs))
	}
	if strs[0] != `a.ldpl:1:1: Name Error: undeclared identifier "X"` {
		t.Errorf("strs[0] = %q", strs[0])
	}
}
