package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-pos-inventory/internal/config"
)

// New builds the process logger from zap's development or production preset.
// LOGGER_* settings override the preset.
func New(appEnv string, cfg config.LoggerConfig) (*zap.Logger, error) {
	zc, err := buildConfig(appEnv, cfg)
	if err != nil {
		return nil, err
	}
	return zc.Build()
}

func buildConfig(appEnv string, cfg config.LoggerConfig) (zap.Config, error) {
	var zc zap.Config
	if appEnv == "development" {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if cfg.Encoding == "json" || cfg.Encoding == "console" {
		zc.Encoding = cfg.Encoding
		if cfg.Encoding == "json" {
			zc.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		}
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return zap.Config{}, err
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	zc.DisableCaller = cfg.DisableCaller
	zc.DisableStacktrace = cfg.DisableStacktrace

	return zc, nil
}
