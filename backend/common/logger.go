package common

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sysLogger     *zap.SugaredLogger
	sysLoggerOnce sync.Once
)

// SetupLogger builds the process-wide logger. Calling it is optional; the
// first log call falls back to a production logger.
func SetupLogger() {
	sysLoggerOnce.Do(func() {
		level := zapcore.InfoLevel
		if os.Getenv("GIN_MODE") == "debug" {
			level = zapcore.DebugLevel
		}
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableStacktrace = true
		logger, err := cfg.Build()
		if err != nil {
			logger = zap.NewNop()
		}
		sysLogger = logger.Sugar().Named("sys")
	})
}

func logger() *zap.SugaredLogger {
	SetupLogger()
	return sysLogger
}

func SysLog(s string) {
	logger().Info(s)
}

func SysError(s string) {
	logger().Error(s)
}

func SysDebug(s string) {
	logger().Debug(s)
}

func FatalLog(v ...any) {
	logger().Fatal(v...)
}

// SyncLog flushes buffered log entries; call it before exiting.
func SyncLog() {
	if sysLogger != nil {
		_ = sysLogger.Sync()
	}
}
