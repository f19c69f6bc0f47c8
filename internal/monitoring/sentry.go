// Package monitoring wraps Sentry error tracking behind a small handle
// that is safe to use when no DSN is configured.
package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"
)

type Config struct {
	DSN         string
	Environment string
	Release     string
}

// Sentry captures errors for the whole process. With an empty DSN every
// method is a no-op.
type Sentry struct {
	enabled bool
}

func NewSentry(cfg Config) (*Sentry, error) {
	if cfg.DSN == "" {
		return &Sentry{}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, err
	}
	return &Sentry{enabled: true}, nil
}

func (s *Sentry) CaptureException(err error) {
	if !s.enabled || err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Recover reports a panic and re-raises it so the server middleware can
// still turn it into a 500.
func (s *Sentry) Recover() {
	if !s.enabled {
		return
	}
	if r := recover(); r != nil {
		sentry.CurrentHub().Recover(r)
		sentry.Flush(2 * time.Second)
		panic(r)
	}
}

// Close flushes buffered events on shutdown.
func (s *Sentry) Close() {
	if !s.enabled {
		return
	}
	sentry.Flush(2 * time.Second)
}
