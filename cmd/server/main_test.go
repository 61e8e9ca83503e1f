package main

import "testing"

func TestIsWeakSecret(t *testing.T) {
	cases := []struct {
		secret string
		weak   bool
	}{
		{secret: "short", weak: true},
		{secret: "user-change-me-in-production-0123456789", weak: true},
		{secret: "Zq8v1mN4kT7wR2xY5bC9dF3gH6jL0pS8", weak: false},
	}
	for _, tc := range cases {
		if got := isWeakSecret(tc.secret); got != tc.weak {
			t.Fatalf("isWeakSecret(%q) want %v got %v", tc.secret, tc.weak, got)
		}
	}
}
