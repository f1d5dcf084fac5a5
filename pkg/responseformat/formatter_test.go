package responseformat

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestWriteResponse(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
	}{
		{"default json", "/x", ContentTypeJSON},
		{"explicit json", "/x?format=json", ContentTypeJSON},
		{"unknown format falls back to json", "/x?format=xml", ContentTypeJSON},
		{"msgpack", "/x?format=msgpack", ContentTypeMsgPack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if err := NewFormatter().WriteResponse(rec, req, http.StatusOK, sample{"delhi", 212.5}); err != nil {
				t.Fatalf("WriteResponse: %v", err)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Fatalf("Content-Type = %q, expected %q", ct, tt.contentType)
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Errorf("missing CORS header")
			}

			var got map[string]any
			var err error
			if tt.contentType == ContentTypeMsgPack {
				err = msgpack.Unmarshal(rec.Body.Bytes(), &got)
			} else {
				err = json.Unmarshal(rec.Body.Bytes(), &got)
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got["name"] != "delhi" {
				t.Errorf("json tag not used as key: %v", got)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	NewFormatter().WriteError(rec, req, http.StatusBadRequest, errors.New("lat is required"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "lat is required" || body.Status != http.StatusBadRequest {
		t.Errorf("unexpected body %+v", body)
	}
}
