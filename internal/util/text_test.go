package util

import "testing"

func TestContainsFold(t *testing.T) {
	cases := []struct {
		s, sub string
		want   bool
	}{
		{"Мастер и Маргарита", "МАРГ", true},
		{"The Hobbit", "hobbit", true},
		{"The Hobbit", "ring", false},
		{"Straße", "STRASSE", true},
		{"", "", true},
	}
	for _, c := range cases {
		if got := ContainsFold(c.s, c.sub); got != c.want {
			t.Errorf("ContainsFold(%q, %q) = %v, want %v", c.s, c.sub, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	s, cut := Truncate("Привет, мир", 6)
	if s != "Привет" || !cut {
		t.Errorf("unexpected truncation: %q %v", s, cut)
	}
	s, cut = Truncate("short", 200)
	if s != "short" || cut {
		t.Errorf("unexpected truncation: %q %v", s, cut)
	}
}
