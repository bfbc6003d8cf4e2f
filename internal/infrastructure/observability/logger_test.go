package observability

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogLevel(t *testing.T) {
	t.Run("explicit level wins", func(t *testing.T) {
		assert.Equal(t, zerolog.WarnLevel, logLevel("warn", "development"))
		assert.Equal(t, zerolog.TraceLevel, logLevel("TRACE", "production"))
	})

	t.Run("development defaults to debug", func(t *testing.T) {
		assert.Equal(t, zerolog.DebugLevel, logLevel("", "development"))
	})

	t.Run("everything else defaults to info", func(t *testing.T) {
		assert.Equal(t, zerolog.InfoLevel, logLevel("", "production"))
		assert.Equal(t, zerolog.InfoLevel, logLevel("not-a-level", "staging"))
	})
}
