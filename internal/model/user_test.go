package model

import "testing"

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"domain lower-cased", "test1@EXAMPLE.COM", "test1@example.com"},
		{"local part preserved", "Test2@example.com", "Test2@example.com"},
		{"mixed", "Test3@EXAMPLE.com", "Test3@example.com"},
		{"already normalized", "test4@example.com", "test4@example.com"},
		{"no at sign passes through", "not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEmail(tt.email); got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}
