package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "只有消息",
			err:      Validation("Missing question"),
			expected: "Missing question",
		},
		{
			name:     "只有底层错误",
			err:      Decode(errors.New("cannot decode image: unknown format")),
			expected: "cannot decode image: unknown format",
		},
		{
			name:     "消息加底层错误",
			err:      Upstream("completion request failed", errors.New("connection refused")),
			expected: "completion request failed: connection refused",
		},
		{
			name:     "都为空",
			err:      &Error{Kind: KindUpstream},
			expected: "unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"校验错误", Validation("Missing question"), KindValidation},
		{"限流错误", RateLimit("Rate limit exceeded"), KindRateLimit},
		{"解码错误", Decode(errors.New("bad image")), KindDecode},
		{"上游错误", Upstream("timeout", nil), KindUpstream},
		{"配置错误", Config("missing API key"), KindConfig},
		{"包裹后的错误", fmt.Errorf("query failed: %w", Decode(errors.New("bad image"))), KindDecode},
		{"未分类错误按上游处理", errors.New("something broke"), KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindRateLimit, http.StatusTooManyRequests},
		{KindDecode, http.StatusInternalServerError},
		{KindUpstream, http.StatusInternalServerError},
		{KindConfig, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.kind); got != tt.expected {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.kind, got, tt.expected)
		}
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := Upstream("completion request failed", inner)
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}
