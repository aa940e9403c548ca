package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mostrador-api/pkg/logger"
)

const (
	localLogger       = "logger"
	localExposeErrors = "expose_errors"
	localRequestID    = "requestid"
)

// RequestLogger registra método, ruta, status, latencia y request id de cada request.
// Debe ir después del middleware requestid de Fiber.
func RequestLogger(log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		c.Locals(localLogger, log)

		err := c.Next()
		if err != nil {
			// El error handler todavía no escribió la respuesta.
			_ = writeError(c, err)
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("company_id", GetCompanyID(c)).
			Msg("request")
		return nil
	}
}

// ExposeErrors incluye el detalle de los errores internos en la respuesta. Solo fuera de producción.
func ExposeErrors() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localExposeErrors, true)
		return c.Next()
	}
}

func exposeErrors(c *fiber.Ctx) bool {
	v, _ := c.Locals(localExposeErrors).(bool)
	return v
}

func requestLogger(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(localLogger).(*logger.Logger); ok {
		return l
	}
	return logger.Nop()
}

func requestID(c *fiber.Ctx) string {
	s, _ := c.Locals(localRequestID).(string)
	return s
}
