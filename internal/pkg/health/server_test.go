package health

import (
	"net/http/httptest"
	"testing"
)

func TestHandlePing(t *testing.T) {
	rec := httptest.NewRecorder()
	handlePing(rec, httptest.NewRequest("GET", "/ping", nil))

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "pong\n" {
		t.Errorf("body = %q, want pong", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	handleHealth(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok\n" {
		t.Errorf("body = %q, want ok", rec.Body.String())
	}
}

func TestAddrFor(t *testing.T) {
	if got := AddrFor(8080); got != ":8080" {
		t.Errorf("AddrFor(8080) = %q, want :8080", got)
	}
}
