package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// log stays a no-op logger until Initialize runs, so packages can log from
// tests without setup.
var log = zap.NewNop()

func Initialize(logLevel string) error {
	zLevel, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	config := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(zLevel),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			TimeKey:      "time",
			CallerKey:    "caller",
			EncodeLevel:  zapcore.LowercaseLevelEncoder,
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	built, err := config.Build()
	if err != nil {
		return err
	}
	log = built

	return nil
}

func Logger() *zap.Logger {
	return log
}

func Sync() error {
	return log.Sync()
}
