package observability

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alijeyrad/stgeorge_backend/pkg/reqctx"
)

const tracerName = "github.com/Alijeyrad/stgeorge_backend/pkg/observability"

const (
	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"
)

// FiberMiddleware opens a server span per request and records request count
// and latency. It sits ahead of the request-id and session middleware, so the
// route, request id and caller are attached once the handler chain returns.
func FiberMiddleware(serviceName string) fiber.Handler {
	tracer := otel.Tracer(tracerName)
	meter := otel.Meter(tracerName)

	requests, _ := meter.Int64Counter(
		"stgeorge_http_requests_total",
		metric.WithDescription("HTTP requests served, by route, status and caller role"),
		metric.WithUnit("{request}"),
	)
	latency, _ := meter.Float64Histogram(
		"stgeorge_http_request_duration_ms",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("ms"),
	)

	return func(c fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := tracer.Start(ctx, c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("service.name", serviceName),
				attribute.String("http.request.method", c.Method()),
				attribute.String("url.path", c.Path()),
				attribute.String("client.address", c.IP()),
				attribute.String("user_agent.original", c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		c.SetContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(headerTraceID, sc.TraceID().String())
		}

		start := time.Now()
		err := c.Next()
		took := float64(time.Since(start).Microseconds()) / 1000

		route := c.Route().Path
		status := statusOf(c, err)
		role := "anonymous"

		span.SetName(c.Method() + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		)
		if id := requestID(c); id != "" {
			span.SetAttributes(attribute.String("request.id", id))
		}
		if actor, ok := reqctx.ActorFromContext(c.Context()); ok {
			role = actor.Role
			span.SetAttributes(
				attribute.String("session.user_id", actor.UserID),
				attribute.String("session.role", actor.Role),
			)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
			if err != nil {
				span.RecordError(err)
			}
		case err != nil:
			// Handler errors below 500 are client faults; keep them on the span
			// without failing it.
			span.AddEvent("handler_error", trace.WithAttributes(attribute.String("error", err.Error())))
		}

		attrs := metric.WithAttributes(
			attribute.String("http.request.method", c.Method()),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
			attribute.String("session.role", role),
		)
		requests.Add(ctx, 1, attrs)
		latency.Record(ctx, took, attrs)

		return err
	}
}

// statusOf reports the status the client will see. An error returned up the
// chain is only turned into a response by the app's error handler, after
// this middleware has returned.
func statusOf(c fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// requestID prefers the id the request-id middleware stored on the context
// and falls back to the echoed response header.
func requestID(c fiber.Ctx) string {
	if id := reqctx.RequestIDFromContext(c.Context()); id != "" {
		return id
	}
	return string(c.Response().Header.Peek(headerRequestID))
}
