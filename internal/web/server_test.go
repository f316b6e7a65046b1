package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aisrx/internal/receiver"
)

func TestMessageRing_NewestFirst(t *testing.T) {
	r := NewMessageRing(3)
	for i := 1; i <= 5; i++ {
		r.Add(receiver.Message{MsgType: uint64(i)})
	}

	got := r.Snapshot(0)
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i, want := range []uint64{5, 4, 3} {
		if got[i].MsgType != want {
			t.Fatalf("message %d: expected type %d, got %d", i, want, got[i].MsgType)
		}
	}

	got = r.Snapshot(2)
	if len(got) != 2 || got[0].MsgType != 5 || got[1].MsgType != 4 {
		t.Fatalf("unexpected tail snapshot %v", got)
	}
}

func TestMessageRing_PartialFill(t *testing.T) {
	r := NewMessageRing(10)
	r.Add(receiver.Message{MsgType: 1})
	r.Add(receiver.Message{MsgType: 18})

	got := r.Snapshot(0)
	if len(got) != 2 || got[0].MsgType != 18 || got[1].MsgType != 1 {
		t.Fatalf("unexpected snapshot %v", got)
	}
}

func newTestHandler(t *testing.T) (http.Handler, *receiver.Service, *MessageRing) {
	t.Helper()
	svc := receiver.New(receiver.Config{Source: "stdin"}, 0, nil, nil)
	recent := NewMessageRing(10)
	return Handler(svc, recent), svc, recent
}

func TestHandler_Status(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Service != "aisrx" {
		t.Fatalf("unexpected service name %q", resp.Service)
	}
	if resp.Receiver.Source != "stdin" {
		t.Fatalf("unexpected source %q", resp.Receiver.Source)
	}
}

func TestHandler_Recent(t *testing.T) {
	h, _, recent := newTestHandler(t)
	for i := 1; i <= 4; i++ {
		recent.Add(receiver.Message{MsgType: uint64(i), Channel: "A"})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recent?tail=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp recentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].MsgType != 4 || resp.Messages[1].MsgType != 3 {
		t.Fatalf("unexpected order: %d then %d", resp.Messages[0].MsgType, resp.Messages[1].MsgType)
	}
}

func TestHandler_RecentBadTail(t *testing.T) {
	h, _, _ := newTestHandler(t)
	for _, tail := range []string{"0", "1001", "x"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recent?tail="+tail, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("tail=%s: expected 400, got %d", tail, rec.Code)
		}
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h, _, _ := newTestHandler(t)
	for _, path := range []string{"/api/status", "/api/recent"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", path, rec.Code)
		}
	}
}
