package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/mohammadpnp/field-productivity/internal/logger"
)

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	l, err := logger.New("warn", "json", "field-productivity")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	dev, err := logger.New("debug", "console", "")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	def, err := logger.New("bogus", "", "")
	require.NoError(t, err)
	assert.True(t, def.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, def.Core().Enabled(zapcore.DebugLevel))
}
