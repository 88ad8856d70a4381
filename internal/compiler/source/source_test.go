package source

import "testing"

func TestSetAddAssignsMonotonicIDs(t *testing.T) {
	s := NewSet()
	u0 := s.Add("main.ldpl", "DISPLAY \"hi\"")
	u1 := s.Add("included.ldpl", "STORE 1 IN x")

	if u0.ID != 0 || u1.ID != 1 {
		t.Fatalf("expected IDs 0 and 1, got %d and %d", u0.ID, u1.ID)
	}
	if s.Get(0) != u0 || s.Get(1) != u1 {
		t.Error("Get did not return the units that were added")
	}
}

func TestSetGetOutOfRange(t *testing.T) {
	s := NewSet()
	s.Add("main.ldpl", "")

	if got := s.Get(-1); got != nil {
		t.Errorf("Get(-1) = %v, want nil", got)
	}
	if got := s.Get(5); got != nil {
		t.Errorf("Get(5) = %v, want nil", got)
	}
}

func TestSetPath(t *testing.T) {
	s := NewSet()
	s.Add("main.ldpl", "")

	if got := s.Path(0); got != "main.ldpl" {
		t.Errorf("Path(0) = %q, want %q", got, "main.ldpl")
	}
	if got := s.Path(99); got != "<unknown>" {
		t.Errorf("Path(99) = %q, want %q", got, "<unknown>")
	}
}
