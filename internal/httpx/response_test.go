package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusBadRequest, "invalid_input", map[string]string{"name": "required"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	want := `{"error":"invalid_input","details":{"name":"required"}}`
	if got := w.Body.String(); got != want {
		t.Fatalf("want %s got %s", want, got)
	}
}

func TestJSONNilPayload(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, nil)
	if w.Body.String() != "null" {
		t.Fatalf("expected null got %s", w.Body.String())
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"ok", `{"name":"Latte"}`, false},
		{"empty", ``, true},
		{"unknown field", `{"name":"Latte","price":1}`, true},
		{"trailing", `{"name":"a"}{"name":"b"}`, true},
		{"malformed", `{"name":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := Decode(r, &p)
			if tt.wantErr {
				if !errors.Is(err, ErrBadJSON) {
					t.Fatalf("expected ErrBadJSON got %v", err)
				}
				return
			}
			if err != nil || p.Name != "Latte" {
				t.Fatalf("decode: %v %+v", err, p)
			}
		})
	}
}
