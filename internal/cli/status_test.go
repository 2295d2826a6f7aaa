package cli

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStatusNotLoggedIn(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("GARAGE_SERVER_URL", "http://localhost:9999")

	out, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "not configured") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusShortToken(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("GARAGE_TOKEN", "ab")
	t.Setenv("GARAGE_SERVER_URL", "http://127.0.0.1:1")

	// Should not panic with a short token, and an unreachable server is not an error
	out, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status with short token: %v", err)
	}
	if !strings.Contains(out, "cannot reach server") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusWithServer(t *testing.T) {
	url, token := testBackend(t)
	t.Setenv("GARAGE_SERVER_URL", url)
	t.Setenv("GARAGE_TOKEN", token)

	out, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "connected and authenticated") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Expires:") {
		t.Errorf("output = %q, want token expiry", out)
	}
}

func TestStatusWithInvalidToken(t *testing.T) {
	url, _ := testBackend(t)
	t.Setenv("GARAGE_SERVER_URL", url)
	t.Setenv("GARAGE_TOKEN", "not-a-real-token")

	out, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "invalid token") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusUnexpectedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("GARAGE_TOKEN", "tok-1234567890")
	t.Setenv("GARAGE_SERVER_URL", srv.URL)

	out, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "✗") {
		t.Errorf("output = %q", out)
	}
}
