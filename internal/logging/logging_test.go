package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_LevelFollowsDebug(t *testing.T) {
	var buf bytes.Buffer

	log := New(&buf, false)
	log.Debug().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	log = New(&buf, true)
	log.Debug().Str("path", "/tasks/").Msg("request")
	assert.Contains(t, buf.String(), "request")
	assert.Contains(t, buf.String(), "path=/tasks/")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer

	log := NewJSON(&buf, false)
	log.Info().Int("status", 201).Msg("handled")
	out := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"status":201`)
}
