package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter adapts zap.SugaredLogger to the common.Logger interface.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

func (z *ZapAdapter) Debug(msg string, kv ...interface{}) { z.sugar.Debugw(msg, kv...) }
func (z *ZapAdapter) Info(msg string, kv ...interface{})  { z.sugar.Infow(msg, kv...) }
func (z *ZapAdapter) Warn(msg string, kv ...interface{})  { z.sugar.Warnw(msg, kv...) }
func (z *ZapAdapter) Error(msg string, kv ...interface{}) { z.sugar.Errorw(msg, kv...) }

func (z *ZapAdapter) Sync() error { return z.sugar.Sync() }

func parseLogLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newLogger(level string) (*ZapAdapter, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLogLevel(level))
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &ZapAdapter{sugar: logger.Sugar().Named("namecycler")}, nil
}
