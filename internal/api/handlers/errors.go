package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/acme/call-analytics/pkg/errors"
)

// statusBySentinel is checked in order; the first match wins.
var statusBySentinel = []struct {
	sentinel error
	status   int
}{
	{apperrors.ErrInvalidFilter, http.StatusBadRequest},
	{apperrors.ErrValidation, http.StatusBadRequest},
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrConflict, http.StatusConflict},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable},
}

// translateError maps service errors to fiber errors. Unknown errors pass
// through and surface as 500.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range statusBySentinel {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		if m.status == http.StatusNotFound {
			return fiber.NewError(m.status, "resource not found")
		}
		return fiber.NewError(m.status, err.Error())
	}
	return err
}
