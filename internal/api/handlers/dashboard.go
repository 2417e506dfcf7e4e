package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/acme/call-analytics/internal/service/dashboard"
	apperrors "github.com/acme/call-analytics/pkg/errors"
)

func parseQuery(ctx *fiber.Ctx) (dashboard.Query, error) {
	q := dashboard.Query{
		Period:   ctx.Query("period"),
		State:    ctx.Query("state"),
		Operator: ctx.Query("operator"),
		Region:   ctx.Query("region"),
	}
	if raw := ctx.Query("goal"); raw != "" {
		goal, err := strconv.ParseFloat(raw, 64)
		if err != nil || goal < 0 {
			return q, apperrors.InvalidFilter("goal must be a non-negative number")
		}
		q.Goal = &goal
	}
	return q, nil
}

func (h *HandlerSet) overview(ctx *fiber.Ctx) error {
	q, err := parseQuery(ctx)
	if err != nil {
		return translateError(err)
	}
	ov, err := h.dashboard.Overview(ctx.UserContext(), q)
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(ov)
}

func (h *HandlerSet) hourly(ctx *fiber.Ctx) error {
	q, err := parseQuery(ctx)
	if err != nil {
		return translateError(err)
	}
	buckets, err := h.dashboard.Hourly(ctx.UserContext(), q)
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(fiber.Map{"items": buckets})
}

func (h *HandlerSet) tabulations(ctx *fiber.Ctx) error {
	q, err := parseQuery(ctx)
	if err != nil {
		return translateError(err)
	}
	dist, err := h.dashboard.Tabulations(ctx.UserContext(), q)
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(fiber.Map{"items": dist})
}

func (h *HandlerSet) states(ctx *fiber.Ctx) error {
	q, err := parseQuery(ctx)
	if err != nil {
		return translateError(err)
	}
	byState, err := h.dashboard.States(ctx.UserContext(), q)
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(fiber.Map{"states": byState})
}

func (h *HandlerSet) status(ctx *fiber.Ctx) error {
	q, err := parseQuery(ctx)
	if err != nil {
		return translateError(err)
	}
	counts, err := h.dashboard.StatusDistribution(ctx.UserContext(), q)
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(counts)
}

func (h *HandlerSet) exhibition(ctx *fiber.Ctx) error {
	q, err := parseQuery(ctx)
	if err != nil {
		return translateError(err)
	}
	ex, err := h.dashboard.Exhibition(ctx.UserContext(), q)
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(ex)
}

func (h *HandlerSet) operators(ctx *fiber.Ctx) error {
	ops, err := h.dashboard.Operators(ctx.UserContext())
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(fiber.Map{"items": ops})
}

func (h *HandlerSet) stateCodes(ctx *fiber.Ctx) error {
	states, err := h.dashboard.StateCodes(ctx.UserContext())
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusOK).JSON(fiber.Map{"items": states})
}

func (h *HandlerSet) regions(ctx *fiber.Ctx) error {
	return ctx.Status(http.StatusOK).JSON(fiber.Map{"items": h.dashboard.Regions()})
}
