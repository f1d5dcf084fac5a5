package log

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestHTTPLogBufferWraps(t *testing.T) {
	b := NewHTTPLogBuffer(3)
	for i := 1; i <= 5; i++ {
		b.Add(HTTPLogEntry{Status: i})
	}
	got := b.Entries()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []int{3, 4, 5} {
		if got[i].Status != want {
			t.Errorf("entry %d status %d, expected %d", i, got[i].Status, want)
		}
	}
}

func TestHTTPLogBufferPartial(t *testing.T) {
	b := NewHTTPLogBuffer(4)
	b.Add(HTTPLogEntry{Path: "/a"})
	if got := b.Entries(); len(got) != 1 || got[0].Path != "/a" {
		t.Errorf("unexpected entries %+v", got)
	}
}

func TestAccessLog(t *testing.T) {
	buf := NewHTTPLogBuffer(10)
	h := AccessLog(zap.NewNop().Sugar(), buf, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kettle?x=1", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status %d passed through as %d", http.StatusTeapot, rec.Code)
	}
	entries := buf.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Method != http.MethodGet || e.Path != "/kettle" || e.Status != http.StatusTeapot || e.Size != 15 {
		t.Errorf("unexpected entry %+v", e)
	}
}
