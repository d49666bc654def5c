package delivery

import (
	"regexp"
	"testing"
)

func TestRandomHexToken(t *testing.T) {
	tok, err := randomHexToken(40)
	if err != nil {
		t.Fatalf("randomHexToken() error = %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{40}$`).MatchString(tok) {
		t.Fatalf("token = %q, want 40 hex chars", tok)
	}
	other, err := randomHexToken(40)
	if err != nil {
		t.Fatalf("randomHexToken() error = %v", err)
	}
	if tok == other {
		t.Fatalf("two tokens collided: %q", tok)
	}
}

func TestRandomHexTokenRejectsBadLengths(t *testing.T) {
	for _, n := range []int{0, -2, 7} {
		if _, err := randomHexToken(n); err == nil {
			t.Fatalf("randomHexToken(%d) error = nil, want error", n)
		}
	}
}
