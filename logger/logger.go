// Package logger wires request-scoped attributes into slog records.
package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const attrsKey contextKey = "logAttrs"

// CtxHandler implements [slog.Handler] and folds any attributes carried
// by the record's context into the record before delegating.
type CtxHandler struct {
	slog.Handler
}

// NewCtxHandler wraps base so that attributes attached with [Append] get
// logged automatically.
func NewCtxHandler(base slog.Handler) CtxHandler {
	return CtxHandler{Handler: base}
}

// Handle implements [slog.Handler].
func (h CtxHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		record.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, record)
}

// Append returns a context carrying the given attributes on top of any
// it already had. Records logged with the resulting context pick them
// up via [CtxHandler].
func Append(ctx context.Context, attrs ...slog.Attr) context.Context {
	existing, ok := ctx.Value(attrsKey).([]slog.Attr)
	if !ok {
		existing = []slog.Attr{}
	}

	existing = append(existing, attrs...)
	return context.WithValue(ctx, attrsKey, existing)
}
