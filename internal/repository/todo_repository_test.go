package repository

import "testing"

func TestIsValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"65a1f0c2e4b0a1b2c3d4e5f6", true},
		{"65A1F0C2E4B0A1B2C3D4E5F6", true},
		{"000000000000000000000000", true},
		{"", false},
		{"65a1f0c2e4b0a1b2c3d4e5f", false},
		{"65a1f0c2e4b0a1b2c3d4e5f60", false},
		{"65a1f0c2e4b0a1b2c3d4e5fg", false},
		{"not-an-object-id", false},
	}

	for _, tt := range tests {
		if got := IsValidID(tt.id); got != tt.want {
			t.Errorf("IsValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if !IsValidID(a) || !IsValidID(b) {
		t.Fatalf("NewID() produced malformed ids %q, %q", a, b)
	}
	if a == b {
		t.Errorf("NewID() returned the same id twice: %q", a)
	}
}
