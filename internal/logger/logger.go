package logger

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

// RequestIDKey is the context key under which the request ID middleware
// stores the current request's ID.
const RequestIDKey ctxKey = "request_id"

// Logger represents a structured logger
type Logger struct {
	*zap.SugaredLogger
	base        *zap.SugaredLogger
	serviceName string
}

// NewLogger creates a new logger instance for a specific service
func NewLogger(serviceName, env string) *Logger {
	if env == "" {
		env = "development"
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// JSON for production log aggregation, console otherwise
	var encoder zapcore.Encoder
	if env == "production" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	logLevel := zap.InfoLevel
	if env == "development" {
		logLevel = zap.DebugLevel
	}

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(os.Stdout),
		zap.NewAtomicLevelAt(logLevel),
	)

	return FromZap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), serviceName)
}

// FromZap wraps an existing zap logger.
func FromZap(zapLogger *zap.Logger, serviceName string) *Logger {
	base := zapLogger.Sugar()
	return &Logger{
		SugaredLogger: base.With("service", serviceName),
		base:          base,
		serviceName:   serviceName,
	}
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	base := zap.NewNop().Sugar()
	return &Logger{SugaredLogger: base, base: base, serviceName: "nop"}
}

// Named returns a logger for another service sharing the same core.
func (l *Logger) Named(serviceName string) *Logger {
	return &Logger{
		SugaredLogger: l.base.With("service", serviceName),
		base:          l.base,
		serviceName:   serviceName,
	}
}

// WithContext returns a logger with request context fields added
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return &Logger{
			SugaredLogger: l.With("request_id", requestID),
			base:          l.base,
			serviceName:   l.serviceName,
		}
	}
	return l
}

// WithUser returns a logger with the acting user's email added
func (l *Logger) WithUser(email string) *Logger {
	return &Logger{
		SugaredLogger: l.With("user_email", email),
		base:          l.base,
		serviceName:   l.serviceName,
	}
}

// Audit logs a high-importance audit event
func (l *Logger) Audit(msg string, keysAndValues ...interface{}) {
	l.With("audit", true, "timestamp", time.Now().UTC()).Infow(msg, keysAndValues...)
}

// Fatal logs a fatal-level message and then calls os.Exit(1)
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.Fatalw(msg, keysAndValues...)
}

// Error logs an error-level message
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Errorw(msg, keysAndValues...)
}

// Warn logs a warn-level message
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Warnw(msg, keysAndValues...)
}

// Info logs an info-level message
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Infow(msg, keysAndValues...)
}

// Debug logs a debug-level message
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Debugw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.SugaredLogger.Sync()
}
