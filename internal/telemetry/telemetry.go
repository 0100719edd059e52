// Package telemetry wires optional Sentry error reporting.
package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"todocat/internal/config"
)

const flushTimeout = 2 * time.Second

// ErrDisabled is returned when no DSN is configured.
var ErrDisabled = errors.New("error reporting not configured (set " + config.EnvSentryDSN + ")")

// ErrNotSent is returned when the SDK dropped an event.
var ErrNotSent = errors.New("event was not sent")

// Init configures the Sentry SDK from cfg. The returned flush function must be
// called before exit; it is a no-op when reporting is disabled.
func Init(cfg *config.Config, release string) (flush func(), err error) {
	if !cfg.ErrorReporting() {
		return func() {}, nil
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     config.AppName + "@" + release,
		Debug:       cfg.Debug,
	})
	if err != nil {
		return func() {}, fmt.Errorf("failed to initialize error reporting: %w", err)
	}
	return func() { sentry.Flush(flushTimeout) }, nil
}

// Report sends err to Sentry if the SDK is initialized.
func Report(err error) {
	if err == nil || sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.CaptureException(err)
}

// CaptureTest sends a manual test event and returns its id.
func CaptureTest(source string) (string, error) {
	if sentry.CurrentHub().Client() == nil {
		return "", ErrDisabled
	}
	id := sentry.CaptureException(fmt.Errorf("test error from %s %s", config.AppName, source))
	if id == nil {
		return "", ErrNotSent
	}
	return string(*id), nil
}
