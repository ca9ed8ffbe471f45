package logger

import "log/slog"

const (
	envDevelopment = "development"
	envStaging     = "staging"
	envProduction  = "production"
)

type preset struct {
	env    string
	level  slog.Level
	format Format
}

var presets = map[string]preset{
	envDevelopment: {envDevelopment, slog.LevelDebug, FormatText},
	envStaging:     {envStaging, slog.LevelInfo, FormatJSON},
	"stage":        {envStaging, slog.LevelInfo, FormatJSON},
	envProduction:  {envProduction, slog.LevelInfo, FormatJSON},
	"prod":         {envProduction, slog.LevelInfo, FormatJSON},
}

func (p preset) apply(service string) Option {
	return func(c *config) {
		if service == "" {
			return
		}
		c.level = p.level
		c.format = p.format
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("env", p.env))
	}
}

// WithDevelopment selects text output at DEBUG and tags records with service.
func WithDevelopment(service string) Option { return presets[envDevelopment].apply(service) }

// WithStaging selects JSON output at INFO.
func WithStaging(service string) Option { return presets[envStaging].apply(service) }

// WithProduction selects JSON output at INFO.
func WithProduction(service string) Option { return presets[envProduction].apply(service) }

// WithEnvironment picks a preset from an APP_ENV value; unknown values mean development.
func WithEnvironment(env, service string) Option {
	p, ok := presets[env]
	if !ok {
		p = presets[envDevelopment]
	}
	return p.apply(service)
}
