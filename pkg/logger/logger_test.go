package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaultsToInfo(t *testing.T) {
	log, err := New()
	require.NoError(t, err)
	defer func() { _ = log.Sync() }()

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewHonorsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	log, err := New()
	require.NoError(t, err)
	defer func() { _ = log.Sync() }()

	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewRejectsBogusLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "shouting")

	_, err := New()
	assert.Error(t, err)
}

func TestNamedNilBase(t *testing.T) {
	log := Named(nil, "svc.test")
	assert.NotNil(t, log)
}
