package github

import "testing"

func TestTokenPoolEmpty(t *testing.T) {
	p := NewTokenPool(nil)
	if p.Current() != "" {
		t.Errorf("empty pool should have no current token, got %q", p.Current())
	}
	if p.Rotate() {
		t.Error("empty pool should not rotate")
	}
	if p.Rotations() != 0 {
		t.Error("rotation count should stay zero")
	}
}

func TestTokenPoolSingle(t *testing.T) {
	p := NewTokenPool([]string{"only"})
	if p.Current() != "only" {
		t.Errorf("Current() = %q, want %q", p.Current(), "only")
	}
	if p.Rotate() {
		t.Error("single-token pool should never rotate")
	}
	if p.Current() != "only" {
		t.Error("token should be unchanged after a failed rotation")
	}
}

func TestTokenPoolRotatesToDifferentToken(t *testing.T) {
	tokens := []string{"a", "b", "c"}
	p := NewTokenPool(tokens)

	valid := map[string]bool{"a": true, "b": true, "c": true}
	if !valid[p.Current()] {
		t.Fatalf("initial token %q not from the pool", p.Current())
	}

	// Rotation must always land on a different token.
	for i := 0; i < 20; i++ {
		before := p.Current()
		if !p.Rotate() {
			t.Fatal("multi-token pool should rotate")
		}
		after := p.Current()
		if after == before {
			t.Fatalf("rotation %d picked the same token %q", i, after)
		}
		if !valid[after] {
			t.Fatalf("rotation picked %q, not from the pool", after)
		}
	}
	if p.Rotations() != 20 {
		t.Errorf("Rotations() = %d, want 20", p.Rotations())
	}
}

func TestTokenPoolTwoTokensAlternates(t *testing.T) {
	p := NewTokenPool([]string{"a", "b"})
	first := p.Current()
	p.Rotate()
	second := p.Current()
	if first == second {
		t.Errorf("two-token pool must alternate, stayed on %q", first)
	}
	p.Rotate()
	if p.Current() != first {
		t.Errorf("rotating back should return to %q, got %q", first, p.Current())
	}
}
