package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop().Sugar()

// Init builds the global logger. Development gets a colored console encoder,
// every other environment logs JSON at info level.
func Init(env string) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}

	log = l.Sugar()
}

func Debug(msg string, keysAndValues ...any) {
	log.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	log.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	log.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	log.Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	log.Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered entries; call it before the process exits.
func Sync() {
	_ = log.Sync()
}

// Replace swaps the global logger, mostly for tests that capture entries.
func Replace(l *zap.Logger) {
	log = l.Sugar()
}
