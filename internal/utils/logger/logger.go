package logger

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const LoggerKey = contextKey("logger")

var globalLogger *zap.SugaredLogger

// Init initializes the global logger based on configuration.
//
// Diagnostics always reach stderr so a user watching a conversion sees
// every skipped record; when the file sink is enabled they are duplicated
// into a rotating log at cfg.Path so skipped lines can be audited after
// the run.
func Init(cfg LoggingConfig) {
	writeSyncer := zapcore.AddSync(os.Stderr)

	if cfg.Enabled && cfg.Path != "" {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			globalLogger = zap.NewExample().Sugar()
			globalLogger.Warnf("Failed to create log directory: %v", err)
		} else {
			rotator := &lumberjack.Logger{
				Filename:   cfg.Path,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			}
			writeSyncer = zapcore.NewMultiWriteSyncer(writeSyncer, zapcore.AddSync(rotator))
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewCore(encoder, writeSyncer, parseLevel(cfg.Level))
	globalLogger = zap.New(core).Sugar()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Sync flushes any buffered log entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// Get returns the logger from context, falling back to the global logger.
func Get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerKey).(*zap.SugaredLogger); ok {
			return logger
		}
	}
	if globalLogger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewExample().Sugar()
		}
		return l.Sugar()
	}
	return globalLogger
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}
