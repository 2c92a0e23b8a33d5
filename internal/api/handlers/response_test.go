package handlers

import (
	"errors"
	"fmt"
	"io"
	"kitchenlog/domain"
	"kitchenlog/internal/utils/storage"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{domain.ErrNoticeNotFound, fiber.StatusNotFound},
		{domain.ErrUnauthorizedRecipeAccess, fiber.StatusForbidden},
		{domain.ErrUnauthorizedLogAccess, fiber.StatusForbidden},
		{domain.ErrRecipeHasLogs, fiber.StatusConflict},
		{domain.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{domain.ErrTokenRevoked, fiber.StatusUnauthorized},
		{domain.ErrUsernameTaken, fiber.StatusBadRequest},
		{fmt.Errorf("%w: name", domain.ErrMissingField), fiber.StatusBadRequest},
		{fmt.Errorf("upload: %w", storage.ErrFileTypeNotAllowed), fiber.StatusBadRequest},
		{storage.ErrStorageDisabled, fiber.StatusServiceUnavailable},
		{errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorStatus(tc.err), tc.err.Error())
	}
}

func TestPageParams(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		page, limit := pageParams(c)
		return c.SendString(strconv.Itoa(page) + "," + strconv.Itoa(limit))
	})

	cases := map[string]string{
		"/":                   "1,20",
		"/?page=3&limit=5":    "3,5",
		"/?page=0&limit=-1":   "1,20",
		"/?page=x&limit=1000": "1,100",
	}
	for target, want := range cases {
		res, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		assert.Equal(t, want, string(body), target)
	}
}
