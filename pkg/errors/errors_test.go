package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeRemoteUnreachable, cause, "push blackout")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable via errors.Is")
	}
	if err.Code() != CodeRemoteUnreachable {
		t.Fatalf("expected code %s got %s", CodeRemoteUnreachable, err.Code())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CodeInvalidInterval, "start must precede end")
	wrapped := fmt.Errorf("checking availability: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeInvalidInterval {
		t.Fatalf("expected %s got %s", CodeInvalidInterval, typed.Code())
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestMetadataStatuses(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidInterval:   http.StatusBadRequest,
		CodeNotFound:          http.StatusNotFound,
		CodeConflict:          http.StatusConflict,
		CodeRateLimit:         http.StatusTooManyRequests,
		CodeProjection:        http.StatusBadGateway,
		CodeRemoteUnreachable: http.StatusServiceUnavailable,
	}
	for code, want := range cases {
		if got := MetadataFor(code).HTTPStatus; got != want {
			t.Fatalf("code %s: expected status %d got %d", code, want, got)
		}
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeProjection, errors.New("boom"), "project item")
	dump := Dump(err)
	if dump.Code != CodeProjection {
		t.Fatalf("expected code in dump, got %q", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected at least two chain entries, got %v", dump.Chain)
	}
}
