package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	base   = zap.NewNop()
	helper = base
	sugar  = base.Sugar()
)

// Init configures the process-wide logger. Production uses the JSON encoder,
// everything else gets the colored console encoder.
func Init(environment ...string) {
	env := "development"
	if len(environment) > 0 && environment[0] != "" {
		env = environment[0]
	}

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewExample()
	}
	Set(l)
}

// Set replaces the process-wide logger.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	helper = l.WithOptions(zap.AddCallerSkip(1))
	sugar = helper.Sugar()
}

// L returns the process-wide logger for components that keep their own reference.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	current().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	current().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	current().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	current().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	current().Fatal(msg, fields...)
}

func Infof(template string, args ...interface{}) {
	currentSugar().Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	currentSugar().Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	currentSugar().Errorf(template, args...)
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return helper
}

func currentSugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}
