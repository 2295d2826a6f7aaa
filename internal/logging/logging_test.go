package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observe swaps in an observed logger for the duration of the test.
func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })
	return logs
}

func TestSetupDevMode(t *testing.T) {
	prev := L()
	defer Set(prev)

	if err := Setup(true, ""); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !L().Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug enabled in dev mode")
	}
}

func TestSetupProdMode(t *testing.T) {
	prev := L()
	defer Set(prev)

	if err := Setup(false, ""); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if L().Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug disabled in prod mode")
	}
}

func TestSetupExplicitLevel(t *testing.T) {
	prev := L()
	defer Set(prev)

	if err := Setup(false, "warn"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if L().Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected info disabled at warn level")
	}
}

func TestSetupBadLevel(t *testing.T) {
	prev := L()
	defer Set(prev)

	if err := Setup(false, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestDefaultIsNop(t *testing.T) {
	prev := Set(nil)
	defer Set(prev)

	// Must not panic.
	L().Info("nothing")
}

func TestRequestLogger(t *testing.T) {
	logs := observe(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/vehicles/42", nil)
	rec := httptest.NewRecorder()
	RequestLogger(inner).ServeHTTP(rec, req)

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "GET" {
		t.Errorf("method = %v", fields["method"])
	}
	if fields["path"] != "/vehicles/42" {
		t.Errorf("path = %v", fields["path"])
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	observe(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("GET", "/models", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	RequestLogger(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestRequestLoggerSkipsHealth(t *testing.T) {
	logs := observe(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/health", nil)
	RequestLogger(inner).ServeHTTP(httptest.NewRecorder(), req)

	if logs.Len() > 0 {
		t.Error("expected no log for /health path")
	}
}

func TestRequestLoggerLevelByStatus(t *testing.T) {
	logs := observe(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest("GET", "/missing", nil)
	RequestLogger(inner).ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
	if entries[0].ContextMap()["status"] != int64(404) {
		t.Errorf("status = %v", entries[0].ContextMap()["status"])
	}
}
