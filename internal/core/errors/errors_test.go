package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "message only",
			err:  Newf(CodeNotFound, "check %q not found", "loop-should-be-for"),
			want: `[NOT_FOUND] check "loop-should-be-for" not found`,
		},
		{
			name: "with cause",
			err:  Wrap(errors.New("permission denied"), CodeIO, "read source"),
			want: "[IO_ERROR] read source: permission denied",
		},
		{
			name: "context sorted by key",
			err: AddContext(
				AddContext(New(CodeInternal, "check panicked"), CtxPath, "demo/A.java"),
				CtxCheck, "reassigned-parameter"),
			want: "[INTERNAL_ERROR] check panicked (check=reassigned-parameter path=demo/A.java)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCodes(t *testing.T) {
	if !IsCode(New(CodeValidationError, "unknown output format"), CodeValidationError) {
		t.Error("expected CodeValidationError")
	}
	if IsCode(New(CodeValidationError, "unknown output format"), CodeNotFound) {
		t.Error("expected codes to differ")
	}
	if !IsCode(Wrap(errors.New("boom"), CodeInternal, "link"), CodeInternal) {
		t.Error("expected the wrapping code")
	}
	wrapped := fmt.Errorf("lint run: %w", New(CodeNotSupported, "unsupported language"))
	if CodeOf(wrapped) != CodeNotSupported {
		t.Errorf("expected IsCode to see through fmt wrapping, got %q", CodeOf(wrapped))
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Error("expected empty code for a plain error")
	}
}

func TestAddContext(t *testing.T) {
	outer := fmt.Errorf("visibility: %w", New(CodeInternal, "no common ancestor"))
	err := AddContext(outer, CtxSymbol, "count")
	if err != outer {
		t.Error("expected the original chain to be returned")
	}
	var de *DomainError
	if !errors.As(err, &de) || de.Context[CtxSymbol] != "count" {
		t.Fatalf("expected symbol context, got %v", err)
	}

	cause := errors.New("disk full")
	plain := AddContext(cause, CtxPath, "out.sarif")
	if !IsCode(plain, CodeInternal) {
		t.Error("expected plain errors to be wrapped as internal")
	}
	if !errors.Is(plain, cause) {
		t.Error("expected the original error to stay in the chain")
	}
}

func TestLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := AddContext(Wrap(errors.New("EOF"), CodeIO, "read source"), CtxPath, "A.java")
	logger.Error("parse failed", "error", err)

	out := buf.String()
	for _, want := range []string{"error.code=IO_ERROR", `error.message="read source"`, "error.cause=EOF", "error.path=A.java"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}
