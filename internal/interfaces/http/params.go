package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/campus-store/internal/application/dto"
	"github.com/jhoicas/campus-store/internal/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// pageParams lee limit/offset con los mismos topes que los casos de uso.
func pageParams(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", defaultLimit)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func page(limit, offset, total int) dto.PageResponse {
	return dto.PageResponse{Limit: limit, Offset: offset, Total: total}
}

// dateParam acepta RFC3339 o YYYY-MM-DD. endOfDay extiende una fecha sin hora al final del día.
func dateParam(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe ser RFC3339 o YYYY-MM-DD", domain.ErrInvalidInput, key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
