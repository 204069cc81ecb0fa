package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StdoutDir makes InitLoggers write every category to stdout instead of files.
const StdoutDir = "-"

// Category loggers. They are no-op until InitLoggers runs so packages that
// log can be used from tests without any setup.
var (
	ErrorLogger    = zap.NewNop()
	AuditLogger    = zap.NewNop()
	RequestLogger  = zap.NewNop()
	SecurityLogger = zap.NewNop()
	SystemLogger   = zap.NewNop()
)

func encoderConfig() zapcore.EncoderConfig {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return encoderCfg
}

func newLogger(ws zapcore.WriteSyncer, level zapcore.Level, category string) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		ws,
		level,
	)
	return zap.New(core).With(zap.String("category", category))
}

func newFileLogger(dir, name string, level zapcore.Level) (*zap.Logger, error) {
	if dir == StdoutDir {
		return newLogger(zapcore.Lock(os.Stdout), level, name), nil
	}
	file, err := os.OpenFile(filepath.Join(dir, name+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return newLogger(zapcore.AddSync(file), level, name), nil
}

// InitLoggers opens one JSON log file per category inside dir, creating the
// directory when needed. Passing StdoutDir sends all categories to stdout.
func InitLoggers(dir string) error {
	if dir == "" {
		dir = "logs"
	}
	if dir != StdoutDir {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	targets := []struct {
		logger **zap.Logger
		name   string
		level  zapcore.Level
	}{
		{&ErrorLogger, "errors", zapcore.ErrorLevel},
		{&AuditLogger, "audit", zapcore.InfoLevel},
		{&RequestLogger, "request", zapcore.InfoLevel},
		{&SecurityLogger, "security", zapcore.InfoLevel},
		{&SystemLogger, "system", zapcore.InfoLevel},
	}
	for _, t := range targets {
		l, err := newFileLogger(dir, t.name, t.level)
		if err != nil {
			return err
		}
		*t.logger = l
	}
	return nil
}

func SyncLoggers() {
	_ = ErrorLogger.Sync()
	_ = AuditLogger.Sync()
	_ = RequestLogger.Sync()
	_ = SecurityLogger.Sync()
	_ = SystemLogger.Sync()
}
