package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/acme/call-analytics/internal/domain"
	apperrors "github.com/acme/call-analytics/pkg/errors"
)

const (
	defaultArchivePageSize = 100
	maxArchivePageSize     = 1000
)

type archivePageResponse struct {
	Day      string              `json:"day"`
	Records  []domain.CallRecord `json:"records"`
	NextPage string              `json:"next_page,omitempty"`
}

func (h *HandlerSet) submitRecords(ctx *fiber.Ctx) error {
	var records []domain.CallRecord
	if err := ctx.BodyParser(&records); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body: expected a JSON array of call records")
	}

	receipt, err := h.ingest.Submit(ctx.UserContext(), records)
	if err != nil {
		return translateError(err)
	}
	return ctx.Status(http.StatusAccepted).JSON(receipt)
}

func (h *HandlerSet) archiveDay(ctx *fiber.Ctx) error {
	if h.archive == nil {
		return translateError(fmt.Errorf("%w: record archive is disabled", apperrors.ErrUnavailable))
	}

	day, err := time.Parse(time.DateOnly, ctx.Params("day"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "day must be formatted as YYYY-MM-DD")
	}

	limit := ctx.QueryInt("limit", defaultArchivePageSize)
	if limit <= 0 || limit > maxArchivePageSize {
		return fiber.NewError(http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxArchivePageSize))
	}

	state, err := decodePageToken(ctx.Query("page"))
	if err != nil {
		return translateError(err)
	}

	records, next, err := h.archive.ListDay(ctx.UserContext(), day, limit, state)
	if err != nil {
		return translateError(err)
	}

	return ctx.Status(http.StatusOK).JSON(archivePageResponse{
		Day:      day.Format(time.DateOnly),
		Records:  records,
		NextPage: encodePageToken(next),
	})
}

// encodePageToken renders a driver paging state as a URL-safe token.
func encodePageToken(state []byte) string {
	if len(state) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(state)
}

func decodePageToken(token string) ([]byte, error) {
	if token == "" {
		return nil, nil
	}
	state, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperrors.Invalid("malformed page token")
	}
	return state, nil
}
