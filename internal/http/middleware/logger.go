package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"ldapsync/internal/logger"
)

// Logger attaches a request-scoped child of base to the request context and
// writes one access line per request once the handler chain returns.
//
// The child carries request_id (from RequestID) and, when a span is active,
// trace_id. Handlers and services reach it with logger.Ctx(c.UserContext()).
// 5xx responses log at error level, 4xx at warn, everything else at info.
func Logger(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		lc := base.With()
		if rid, ok := c.Locals(RequestIDLocalKey).(string); ok && rid != "" {
			lc = lc.Str("request_id", rid)
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			lc = lc.Str("trace_id", sc.TraceID().String())
		}
		reqLog := lc.Logger()
		c.SetUserContext(logger.WithLogger(c.UserContext(), &reqLog))

		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = reqLog.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = reqLog.Warn()
		default:
			ev = reqLog.Info()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Msg("request")

		return err
	}
}
