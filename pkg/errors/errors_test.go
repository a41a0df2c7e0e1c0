package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppErrorFormat(t *testing.T) {
	err := New(CodeEmptyQuery, "no valid identifiers in query")
	if got := err.Error(); got != "[RGT_001] no valid identifiers in query" {
		t.Errorf("unexpected format: %s", got)
	}

	withDetail := err.WithDetail("input had 3 blank rows")
	if !strings.Contains(withDetail.Error(), "3 blank rows") {
		t.Errorf("detail not rendered: %s", withDetail.Error())
	}
	// WithDetail must not mutate the original.
	if err.Detail != "" {
		t.Error("WithDetail mutated the receiver")
	}
}

func TestWrapPreservesChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeCatalogUnavailable, "failed to fetch grants")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if !IsCode(err, CodeCatalogUnavailable) {
		t.Error("IsCode failed on direct code")
	}

	// Another layer of wrapping with CodeUnknown keeps the original code.
	outer := Wrap(err, CodeUnknown, "lookup failed")
	if outer.Code != CodeCatalogUnavailable {
		t.Errorf("expected preserved code, got %s", outer.Code)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, CodeInternal, "should vanish") != nil {
		t.Error("Wrap(nil) must return nil")
	}
}

func TestGetCode(t *testing.T) {
	if GetCode(nil) != CodeOK {
		t.Error("nil error should map to CodeOK")
	}
	if GetCode(stderrors.New("plain")) != CodeUnknown {
		t.Error("plain error should map to CodeUnknown")
	}
	wrapped := fmt.Errorf("outer: %w", New(CodeMalformedGrant, "bad row"))
	if GetCode(wrapped) != CodeMalformedGrant {
		t.Error("GetCode should traverse std wrapping")
	}
}

func TestIsInvalidParam(t *testing.T) {
	for _, err := range []*AppError{
		New(CodeEmptyQuery, "empty"),
		New(CodeUnknownTerritory, "XX"),
		InvalidParam("bad as_of"),
	} {
		if !IsInvalidParam(err) {
			t.Errorf("expected %s to be caller-correctable", err.Code)
		}
	}
	if IsInvalidParam(New(CodeCatalogUnavailable, "down")) {
		t.Error("catalog failure is not a caller error")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeEmptyQuery:         http.StatusBadRequest,
		CodeCatalogUnavailable: http.StatusServiceUnavailable,
		CodeUnknownTerritory:   http.StatusBadRequest,
		CodeNotFound:           http.StatusNotFound,
		ErrorCode("BOGUS"):     http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Errorf("%s: expected %d, got %d", code, want, got)
		}
	}
}

func TestStackCaptured(t *testing.T) {
	err := New(CodeInternal, "boom")
	if !strings.Contains(err.Stack, "errors_test.go") {
		t.Error("stack should include the creation site")
	}
}
