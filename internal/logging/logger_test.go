package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("request_id", "r-1").Logger()

	ctx := IntoContext(context.Background(), logger)
	log := FromContext(ctx, zerolog.Nop())
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"r-1"`)

	buf.Reset()
	fallback := zerolog.New(&buf)
	log = FromContext(context.Background(), fallback)
	log.Info().Msg("fallback")
	assert.Contains(t, buf.String(), "fallback")
}
