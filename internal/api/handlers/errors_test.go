package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/acme/call-analytics/pkg/errors"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperrors.Invalid("bad record"), http.StatusBadRequest},
		{apperrors.InvalidFilter("bad goal"), http.StatusBadRequest},
		{fmt.Errorf("archive: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{apperrors.ErrConflict, http.StatusConflict},
		{apperrors.ErrRateLimited, http.StatusTooManyRequests},
		{apperrors.ErrUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		var fe *fiber.Error
		if !errors.As(translateError(tc.err), &fe) || fe.Code != tc.code {
			t.Errorf("translateError(%v) = %v, want status %d", tc.err, translateError(tc.err), tc.code)
		}
	}

	plain := errors.New("boom")
	if got := translateError(plain); got != plain {
		t.Fatalf("unknown errors should pass through, got %v", got)
	}
	if translateError(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}
