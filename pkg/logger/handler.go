package logger

import (
	"context"
	"log/slog"
	"strings"
)

// ContextExtractor derives an attribute from the context of a log call.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

const redactedValue = "[REDACTED]"

// contextHandler adds extracted context attributes and masks secret-like keys
// before handing the record to next.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
	redact     map[string]struct{}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.mask(a))
		return true
	})
	for _, ex := range h.extractors {
		if a, ok := ex(ctx); ok {
			out.AddAttrs(h.mask(a))
		}
	}
	return h.next.Handle(ctx, out)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &contextHandler{next: h.next.WithAttrs(masked), extractors: h.extractors, redact: h.redact}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors, redact: h.redact}
}

// mask redacts a, descending into groups.
func (h *contextHandler) mask(a slog.Attr) slog.Attr {
	if len(h.redact) == 0 {
		return a
	}
	if _, ok := h.redact[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redactedValue)
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, g := range group {
			masked[i] = h.mask(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}
	return a
}
