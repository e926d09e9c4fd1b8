package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"ldapsync/internal/http/middleware"
	"ldapsync/internal/logger"
	"ldapsync/internal/resolver"
	"ldapsync/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes the error envelope. code is a machine-readable constant
// such as INVALID_ID; message must be safe to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

// writeServiceError maps service and resolver sentinels onto the envelope.
// Anything unrecognised is logged and reported as an internal error.
func writeServiceError(c *fiber.Ctx, err error, resource string) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrGroupRequired), errors.Is(err, resolver.ErrGroupRequired):
		return writeError(c, fiber.StatusBadRequest, "GROUP_REQUIRED", "group is required")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", resource+" not found")
	case errors.Is(err, resolver.ErrGroupNotFound):
		return writeError(c, fiber.StatusNotFound, "GROUP_NOT_FOUND", "group not found in directory")
	case errors.Is(err, service.ErrEmptyResolution):
		return writeError(c, fiber.StatusConflict, "EMPTY_RESOLUTION", "directory group resolved to no users")
	case errors.Is(err, service.ErrReportsDisabled):
		return writeError(c, fiber.StatusNotImplemented, "REPORTS_DISABLED", "report archive is not configured")
	case errors.Is(err, context.DeadlineExceeded):
		return writeError(c, fiber.StatusGatewayTimeout, "TIMEOUT", "upstream timed out")
	default:
		logger.Ctx(c.UserContext()).Error().Err(err).Str("resource", resource).Msg("request failed")
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
