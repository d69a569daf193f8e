package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestIssuer(t *testing.T, ttl time.Duration) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("unit-test-secret", ttl)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	return issuer
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)

	token, err := issuer.Issue(Identity{UID: "usr_01J8ZQ3V9GJ5X2M4T6R8W0YBCD", Email: "a@b.c", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	identity, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if identity.UID != "usr_01J8ZQ3V9GJ5X2M4T6R8W0YBCD" {
		t.Errorf("unexpected uid %q", identity.UID)
	}
	if identity.Email != "a@b.c" {
		t.Errorf("unexpected email %q", identity.Email)
	}
	if identity.Role != RoleAdmin {
		t.Errorf("unexpected role %q", identity.Role)
	}
}

func TestTokenIssuerDefaultsRole(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)

	token, err := issuer.Issue(Identity{UID: "usr_x"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	identity, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if identity.Role != RoleUser {
		t.Errorf("expected fallback role user, got %q", identity.Role)
	}
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := newTestIssuer(t, time.Minute)

	issued := time.Now().Add(-time.Hour)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue(Identity{UID: "usr_x"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuerVerifiesAgainstInjectedClock(t *testing.T) {
	issuer := newTestIssuer(t, time.Minute)

	token, err := issuer.Issue(Identity{UID: "usr_x"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := issuer.Verify(token); err != nil {
		t.Fatalf("Verify with a fresh token returned error: %v", err)
	}

	issuer.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired with an advanced clock, got %v", err)
	}
}

func TestTokenIssuerRejectsForeignSignature(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)
	other, err := NewTokenIssuer("different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}

	token, err := other.Issue(Identity{UID: "usr_x"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuerRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)
	for _, raw := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, err := issuer.Verify(raw); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify(%q) = %v, want ErrTokenInvalid", raw, err)
		}
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("  ", time.Hour); err == nil {
		t.Fatal("expected error for blank secret")
	}
}
