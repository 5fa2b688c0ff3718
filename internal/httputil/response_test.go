package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp["error"]
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		msg    string
	}{
		{"WriteJSONError", func(w http.ResponseWriter) { WriteJSONError(w, http.StatusConflict, "busy") }, http.StatusConflict, "busy"},
		{"MethodNotAllowed", MethodNotAllowed, http.StatusMethodNotAllowed, "method not allowed"},
		{"BadRequest", func(w http.ResponseWriter) { BadRequest(w, "bad input") }, http.StatusBadRequest, "bad input"},
		{"InternalServerError", func(w http.ResponseWriter) { InternalServerError(w, "boom") }, http.StatusInternalServerError, "boom"},
		{"NotFound", func(w http.ResponseWriter) { NotFound(w, "no run") }, http.StatusNotFound, "no run"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type = %s, want application/json", ct)
			}
			if got := decodeError(t, rec); got != tt.msg {
				t.Errorf("error = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestWriteJSONOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSONOK(rec, map[string]float64{"radius": 6})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp map[string]float64
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["radius"] != 6 {
		t.Errorf("radius = %v, want 6", resp["radius"])
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type body struct {
		Size int `json:"size"`
	}
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", `{"size": 3}`, false},
		{"unknown field", `{"size": 3, "extra": 1}`, true},
		{"trailing data", `{"size": 3} {}`, true},
		{"malformed", `{"size":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.in))
			var b body
			err := DecodeJSON(req, &b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && b.Size != 3 {
				t.Errorf("size = %d, want 3", b.Size)
			}
		})
	}
}
