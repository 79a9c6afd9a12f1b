package routes

import (
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/trainboard/trainboard/pkg/referencedata"
	"github.com/trainboard/trainboard/pkg/traffic"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, traffic.ErrNotFound), errors.Is(err, referencedata.ErrUnknownAsset), errors.Is(err, fs.ErrNotExist):
		return fiber.StatusNotFound
	case errors.Is(err, traffic.ErrUpstreamUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("Request failed")
	}

	c.Status(status)
	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}
