// Package logger provides slog handlers used across the service.
package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

const (
	// RequestIDAttr is the attribute key carrying the HTTP request id.
	RequestIDAttr = "request_id"
	// TraceIDAttr is the attribute key carrying the OpenTelemetry trace id.
	TraceIDAttr = "trace_id"
)

// ContextHandler decorates a slog.Handler with values pulled from the record context.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler wraps handler.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: handler}
}

// Handle adds the trace id and request id found in ctx before delegating.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		r.AddAttrs(slog.String(TraceIDAttr, span.SpanContext().TraceID().String()))
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		r.AddAttrs(slog.String(RequestIDAttr, reqID))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the wrapper when attributes are bound.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the wrapper when a group is opened.
func (h *ContextHandler) WithGroup(group string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(group)}
}
