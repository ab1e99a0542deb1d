package logger

import (
	"testing"

	"go-pos-inventory/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		name      string
		appEnv    string
		cfg       config.LoggerConfig
		wantEnc   string
		wantLevel zapcore.Level
	}{
		{"development preset", "development", config.LoggerConfig{}, "console", zapcore.DebugLevel},
		{"production preset", "production", config.LoggerConfig{}, "json", zapcore.InfoLevel},
		{"json override in development", "development", config.LoggerConfig{Encoding: "json", Level: "warn"}, "json", zapcore.WarnLevel},
		{"console override in production", "production", config.LoggerConfig{Encoding: "console", Level: "error"}, "console", zapcore.ErrorLevel},
		{"unknown encoding keeps preset", "production", config.LoggerConfig{Encoding: "xml"}, "json", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zc, err := buildConfig(tt.appEnv, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnc, zc.Encoding)
			assert.Equal(t, tt.wantLevel, zc.Level.Level())
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	log, err := New("production", config.LoggerConfig{Level: "loud"})
	assert.Error(t, err)
	assert.Nil(t, log)
}

func TestNewAppliesCallerAndStacktraceFlags(t *testing.T) {
	zc, err := buildConfig("production", config.LoggerConfig{DisableCaller: true, DisableStacktrace: true})
	require.NoError(t, err)
	assert.True(t, zc.DisableCaller)
	assert.True(t, zc.DisableStacktrace)

	log, err := New("production", config.LoggerConfig{Encoding: "json"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
