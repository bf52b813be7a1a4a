package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestWrapAndCode(t *testing.T) {
	cause := stderrs.New("boom")
	err := Wrap(cause, ErrorCodeDecode, "bad record")

	if got := CodeOf(err); got != ErrorCodeDecode {
		t.Fatalf("CodeOf = %v", got)
	}
	if !stderrs.Is(err, cause) {
		t.Fatal("wrapped cause lost")
	}
	if Root(err) != cause {
		t.Fatalf("Root = %v", Root(err))
	}
	if err.Error() != "bad record: boom" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeValidation:      http.StatusBadRequest,
		ErrorCodeDecode:          http.StatusBadRequest,
		ErrorCodeDuplicateKey:    http.StatusConflict,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeProtocol:        http.StatusInternalServerError,
		ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	}
	for code, want := range cases {
		if got := HTTPStatusCode(code); got != want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", code, got, want)
		}
	}
}

func TestWireFrom(t *testing.T) {
	w := WireFrom(Newf(ErrorCodeValidation, "field %s is bad", "qty"))
	if w.Code != ErrorCodeValidation || w.Message != "field qty is bad" {
		t.Fatalf("WireFrom = %+v", w)
	}

	foreign := stderrs.New("plain")
	if w := WireFrom(foreign); w.Code != ErrorCodeUnknown || w.Message != "plain" {
		t.Fatalf("WireFrom foreign = %+v", w)
	}

	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("WireFrom(nil) = %+v", w)
	}
}

func TestWithField(t *testing.T) {
	err := New(ErrorCodeValidation, "invalid")
	withField := WithField(err, "pack_name")

	e, ok := As(withField)
	if !ok || e.Field() != "pack_name" {
		t.Fatalf("WithField: %+v", e)
	}
	// original untouched (copy-on-write)
	orig, _ := As(err)
	if orig.Field() != "" {
		t.Fatal("WithField mutated the original")
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeDB, "x") != nil {
		t.Fatal("WrapIf(nil) should be nil")
	}
	if CodeOf(WrapIf(stderrs.New("y"), ErrorCodeDB, "x")) != ErrorCodeDB {
		t.Fatal("WrapIf should wrap with code")
	}
}
