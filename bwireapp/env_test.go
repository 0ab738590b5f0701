package bwireapp_test

import (
	"os"
	"testing"
	"time"

	"github.com/advdv/bwire/bwireapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseEnvDefaults(t *testing.T) {
	t.Setenv("BW_SERVICE_NAME", "orders")

	env, err := bwireapp.ParseEnv[TestEnv]()()
	require.NoError(t, err)

	assert.Equal(t, ":8080", env.Addr)
	assert.Equal(t, "orders", env.ServiceName)
	assert.Equal(t, "/health", env.HealthPath)
	assert.Equal(t, zapcore.InfoLevel, env.LogLevel)
	assert.Equal(t, "stdout", env.OtelExporter)
	assert.True(t, env.ParseCookies)
	assert.Empty(t, env.StaticDir)
	assert.Equal(t, "/static", env.StaticPrefix)
	assert.Equal(t, int64(1<<20), env.MaxBodyBytes)
	assert.Zero(t, env.MaxConns)
	assert.Equal(t, 10*time.Second, env.ReadTimeout)
	assert.Equal(t, 30*time.Second, env.WriteTimeout)
	assert.Equal(t, "hello", env.Greeting)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("BW_SERVICE_NAME", "orders")
	t.Setenv("BW_LOG_LEVEL", "debug")
	t.Setenv("BW_PARSE_COOKIES", "false")
	t.Setenv("BW_READ_TIMEOUT", "250ms")
	t.Setenv("GREETING", "hi")

	env, err := bwireapp.ParseEnv[TestEnv]()()
	require.NoError(t, err)

	assert.Equal(t, zapcore.DebugLevel, env.LogLevel)
	assert.False(t, env.ParseCookies)
	assert.Equal(t, 250*time.Millisecond, env.ReadTimeout)
	assert.Equal(t, "hi", env.Greeting)
}

func TestParseEnvRequiresServiceName(t *testing.T) {
	t.Setenv("BW_SERVICE_NAME", "")
	require.NoError(t, os.Unsetenv("BW_SERVICE_NAME"))

	_, err := bwireapp.ParseEnv[TestEnv]()()
	require.ErrorContains(t, err, "failed to parse environment")
	require.ErrorContains(t, err, "BW_SERVICE_NAME")
}
