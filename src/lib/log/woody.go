package log

import (
	"fmt"

	"go.uber.org/zap"
)

var logger *zap.Logger

func init() {
	logger, _ = zap.NewProduction()
}

// Use replaces the package logger, e.g. with a development or no-op logger.
func Use(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// Verbose switches to a development logger so Debug output is emitted.
func Verbose() error {
	l, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	Use(l)
	return nil
}

func Printf(msg string, s ...any) {
	m := fmt.Sprintf(msg, s...)
	Info(m)
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

func Sync() {
	_ = logger.Sync()
}
