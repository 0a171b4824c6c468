package log

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Logger is the ctx-aware logger handed to repositories and usecases.
// Handlers keep the raw *otelzap.Logger.
type Logger interface {
	Info(ctx context.Context, message string, args ...interface{})
	Warn(ctx context.Context, message string, args ...interface{})
	Error(ctx context.Context, message string, args ...interface{})
}

type logger struct {
	zap *otelzap.Logger
}

var instance *otelzap.Logger

func SetupLogger() *otelzap.Logger {
	z, err := zap.NewProduction()
	if err != nil {
		z = zap.NewNop()
	}
	return otelzap.New(z)
}

func Init(l *otelzap.Logger) {
	instance = l
}

func GetLogger() Logger {
	if instance == nil {
		Init(SetupLogger())
	}
	return &logger{zap: instance}
}

func (l *logger) Info(ctx context.Context, message string, args ...interface{}) {
	l.zap.Ctx(ctx).Info(format(message, args...))
}

func (l *logger) Warn(ctx context.Context, message string, args ...interface{}) {
	l.zap.Ctx(ctx).Warn(format(message, args...))
}

func (l *logger) Error(ctx context.Context, message string, args ...interface{}) {
	l.zap.Ctx(ctx).Error(format(message, args...))
}

func format(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf("%s: %v", message, args)
}
