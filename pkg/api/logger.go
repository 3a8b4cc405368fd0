package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// NewLogger logs every request after its handler runs, picking the log
// level from the response status. Handler errors are absorbed here so the
// error body written by the fiber error handler is the final word.
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		handlerErr := c.Next()

		status := c.Response().StatusCode()
		event := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error()
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		}

		message := "HTTP request"
		if handlerErr != nil {
			message = handlerErr.Error()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(started)).
			Str("ip", c.IP()).
			Msg(message)

		return nil
	}
}
