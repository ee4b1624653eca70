package domain

import "testing"

func TestResolveIdentityAuthenticatedWins(t *testing.T) {
	ident, ok := ResolveIdentity(42, "sess-1")
	if !ok {
		t.Fatalf("expected identity to resolve")
	}
	if userID, ok := ident.UserID(); !ok || userID != 42 {
		t.Fatalf("expected user id 42, got %d (%v)", userID, ok)
	}
	if _, ok := ident.SessionID(); ok {
		t.Fatalf("authenticated identity should not expose a session id")
	}
}

func TestResolveIdentityAnonymous(t *testing.T) {
	ident, ok := ResolveIdentity(0, " sess-1 ")
	if !ok {
		t.Fatalf("expected identity to resolve")
	}
	if sessionID, ok := ident.SessionID(); !ok || sessionID != "sess-1" {
		t.Fatalf("expected trimmed session id, got %q (%v)", sessionID, ok)
	}
	if _, ok := ident.UserID(); ok {
		t.Fatalf("anonymous identity should not expose a user id")
	}
}

func TestResolveIdentityMissing(t *testing.T) {
	if _, ok := ResolveIdentity(0, ""); ok {
		t.Fatalf("expected no identity")
	}
	if _, ok := ResolveIdentity(0, "   "); ok {
		t.Fatalf("expected blank session header to count as missing")
	}
}
