package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	perr "kaucja/internal/platform/errors"
)

func TestRespondOKEnvelope(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/x", nil)

	RespondOK(w, r, map[string]int{"n": 7})

	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.StatusCode != 200 || env.Status != "OK" {
		t.Fatalf("envelope mismatch: %+v", env)
	}
	if env.Error != "" {
		t.Fatalf("unexpected error field: %q", env.Error)
	}
}

func TestRespondErrorMapsStatus(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/x", nil)

	RespondError(w, r, perr.NotFoundf("no such printer"))

	if w.Code != 404 {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("code = %v", env.Code)
	}
	if env.Error == "" {
		t.Fatalf("error message missing")
	}
}

func TestHandleErrorBody(t *testing.T) {
	t.Parallel()

	h := Handle(func(r *stdhttp.Request) Response {
		return Error(perr.InvalidArgf("bad window"))
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("POST", "/x", nil))

	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if env.Code != perr.ErrorCodeInvalidArgument {
		t.Fatalf("code = %v", env.Code)
	}
}
