// Package logging builds the structured logger used across the service.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eugenenazirov/env-registry/internal/environment"
)

// Option customises logger construction.
type Option func(*options)

type options struct {
	fields []zap.Field
}

// WithEnvironment tags every log line with the active build-variant
// identifier so logs from different flavors are distinguishable.
func WithEnvironment(id environment.ID) Option {
	return func(o *options) {
		o.fields = append(o.fields, zap.String("environment", string(id)))
	}
}

// New creates a production-ready structured logger configured for JSON output.
func New(opts ...Option) (*zap.Logger, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.DisableStacktrace = false

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if len(o.fields) > 0 {
		logger = logger.With(o.fields...)
	}
	return logger, nil
}
