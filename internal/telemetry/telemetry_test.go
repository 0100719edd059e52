package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocat/internal/config"
)

func TestInit_DisabledWithoutDSN(t *testing.T) {
	flush, err := Init(&config.Config{}, "0.1.0")
	require.NoError(t, err)
	require.NotNil(t, flush)
	flush()
}

func TestInit_InvalidDSN(t *testing.T) {
	_, err := Init(&config.Config{SentryDSN: "not a dsn"}, "0.1.0")
	assert.ErrorContains(t, err, "failed to initialize error reporting")
}

func TestReport_NilError(t *testing.T) {
	assert.NotPanics(t, func() { Report(nil) })
}
