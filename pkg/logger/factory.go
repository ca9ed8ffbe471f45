package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// DefaultRedactedKeys are attribute keys whose values never reach the output.
var DefaultRedactedKeys = []string{"secret", "password", "token", "sender_secret", "account_token"}

// Option configures New.
type Option func(*config)

type config struct {
	level      slog.Leveler
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	addSource  bool
	redact     map[string]struct{}
	extractors []ContextExtractor
}

// New builds a logger that redacts secret-like keys and adds attributes
// pulled from the context of each record. Defaults: JSON, INFO, stdout.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	WithRedactedKeys(DefaultRedactedKeys...)(cfg)
	for _, opt := range opts {
		opt(cfg)
	}

	hopts := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}
	var h slog.Handler = slog.NewJSONHandler(cfg.output, hopts)
	if cfg.format == FormatText {
		h = slog.NewTextHandler(cfg.output, hopts)
	}

	ch := &contextHandler{next: h, extractors: cfg.extractors, redact: cfg.redact}
	if len(cfg.attrs) > 0 {
		return slog.New(ch.WithAttrs(cfg.attrs))
	}
	return slog.New(ch)
}

// SetAsDefault installs l as the slog default logger.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// WithLevel sets the minimum level.
func WithLevel(l slog.Leveler) Option {
	return func(c *config) {
		if l != nil {
			c.level = l
		}
	}
}

// WithLevelName sets the level from a LOG_LEVEL style string
// (debug, info, warn, error). Empty or unknown names are ignored.
func WithLevelName(name string) Option {
	return func(c *config) {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.TrimSpace(name))); err == nil {
			c.level = l
		}
	}
}

// WithFormat sets the encoding and panics on anything but json or text.
func WithFormat(f Format) Option {
	if f != FormatJSON && f != FormatText {
		panic(fmt.Errorf("logger: invalid format %q", f))
	}
	return func(c *config) { c.format = f }
}

func WithTextFormatter() Option { return WithFormat(FormatText) }

func WithJSONFormatter() Option { return WithFormat(FormatJSON) }

// WithOutput sets the destination; nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithSource adds the caller's file:line to every record.
func WithSource() Option {
	return func(c *config) { c.addSource = true }
}

// WithAttr attaches static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithRedactedKeys adds attribute keys (case-insensitive) whose values are
// replaced with "[REDACTED]".
func WithRedactedKeys(keys ...string) Option {
	return func(c *config) {
		if c.redact == nil {
			c.redact = make(map[string]struct{}, len(keys))
		}
		for _, k := range keys {
			if k != "" {
				c.redact[strings.ToLower(k)] = struct{}{}
			}
		}
	}
}

// WithContextExtractors registers extractors run on every record; nils are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithContextValue logs ctx.Value(key) under name when present.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*config) {}
	}
	return WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
		if v := ctx.Value(key); v != nil {
			return slog.Any(name, v), true
		}
		return slog.Attr{}, false
	})
}
