package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testManager() *Manager {
	m := NewManager("test-secret", time.Hour, time.Minute, zerolog.Nop())
	m.now = func() time.Time {
		return time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	}
	return m
}

// passwordFor computes the expected day password for the manager's fixed
// clock, offset by the current attempt count
func passwordFor(attempts int) string {
	base, _ := strconv.Atoi("031020250")
	return strconv.Itoa(base + attempts)
}

func TestLoginSuccess(t *testing.T) {
	m := testManager()

	token, expires, err := m.Login("ctbonifacio", passwordFor(0))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	wantExpiry := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	if !expires.Equal(wantExpiry) {
		t.Errorf("expires = %s, want %s", expires, wantExpiry)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Username != "ctbonifacio" || claims.Role != "admin" {
		t.Errorf("claims = %s/%s, want ctbonifacio/admin", claims.Username, claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	m := testManager()

	if _, _, err := m.Login("jtortega", "wrong"); err != ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
	// The failed attempt shifts the expected password
	if _, _, err := m.Login("jtortega", passwordFor(1)); err != nil {
		t.Errorf("login with shifted password failed: %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	m := testManager()
	if _, _, err := m.Login("intruder", passwordFor(0)); err != ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
}

func TestLoginLockout(t *testing.T) {
	m := testManager()

	var lastErr error
	for i := 0; i < 5; i++ {
		_, _, lastErr = m.Login("jtortega", "wrong")
	}
	if lastErr != ErrLocked {
		t.Fatalf("expected ErrLocked after 5 failures, got %v", lastErr)
	}

	// Still locked with the right password inside the window
	if _, _, err := m.Login("jtortega", passwordFor(0)); err != ErrLocked {
		t.Errorf("expected ErrLocked during lockout window, got %v", err)
	}

	// After the window the counter has reset and the base password works
	m.now = func() time.Time {
		return time.Date(2025, 3, 10, 14, 2, 0, 0, time.UTC)
	}
	if _, _, err := m.Login("jtortega", passwordFor(0)); err != nil {
		t.Errorf("login after lockout expiry failed: %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	m := testManager()

	token, _, err := m.Login("decajes", passwordFor(0))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	m.Logout(token)
	if _, err := m.Validate(token); err == nil {
		t.Error("expected revoked token to fail validation")
	}
}

func TestValidateGarbageToken(t *testing.T) {
	m := testManager()
	if _, err := m.Validate("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
