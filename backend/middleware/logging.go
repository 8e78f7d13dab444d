package middleware

import (
	"log"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gofiber/fiber/v2"
)

// LoggingMiddleware logs one line per request. With colors the method and
// status are highlighted by class.
func LoggingMiddleware(logger *log.Logger, colors bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		method := c.Method()
		statusText := strconv.Itoa(status)
		if colors {
			method = methodColor(method).Sprint(method)
			statusText = statusColor(status).Sprint(statusText)
		}

		errText := "-"
		if err != nil {
			errText = err.Error()
		}
		logger.Printf("%s %s %s %s %s %q %s",
			c.IP(),
			method,
			c.OriginalURL(),
			statusText,
			time.Since(start),
			c.Get(fiber.HeaderUserAgent),
			errText,
		)

		return err
	}
}

func statusColor(status int) *color.Color {
	var c *color.Color
	switch {
	case status >= 500:
		c = color.New(color.FgRed)
	case status >= 400:
		c = color.New(color.FgYellow)
	case status >= 300:
		c = color.New(color.FgCyan)
	case status >= 200:
		c = color.New(color.FgGreen)
	default:
		c = color.New(color.FgWhite)
	}
	c.EnableColor()
	return c
}

func methodColor(method string) *color.Color {
	var c *color.Color
	switch method {
	case fiber.MethodGet:
		c = color.New(color.FgBlue)
	case fiber.MethodPost:
		c = color.New(color.FgYellow)
	case fiber.MethodPut:
		c = color.New(color.FgCyan)
	case fiber.MethodDelete:
		c = color.New(color.FgRed)
	case fiber.MethodPatch:
		c = color.New(color.FgGreen)
	default:
		c = color.New(color.FgWhite)
	}
	c.EnableColor()
	return c
}
