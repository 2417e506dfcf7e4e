package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/acme/call-analytics/pkg/errors"
)

// rateLimited rejects requests once the shared token bucket is empty.
func rateLimited(limiter *rate.Limiter) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !limiter.Allow() {
			return translateError(apperrors.ErrRateLimited)
		}
		return ctx.Next()
	}
}
