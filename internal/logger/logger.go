package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Names of the child loggers, one per component
const (
	ComponentAnalyze   = "analyze"
	ComponentSimulator = "simulator"
	ComponentSimulate  = "simulate"
	ComponentSize      = "size"
)

// value of the "app" field on every record
const appName = "mmcq"

var zapLogger *zap.Logger
var Log *zap.SugaredLogger

// InitLogger builds the process logger. Records go to stderr as JSON so that
// command results written to stdout stay machine readable.
func InitLogger() (*zap.SugaredLogger, error) {
	if zapLogger != nil {
		Log = zapLogger.Sugar()
		return Log, nil
	}
	zapLogger = NewLogger(zapcore.Lock(os.Stderr), GetZapLevelFromEnv())
	Log = zapLogger.Sugar()
	return Log, nil
}

// NewLogger builds a JSON logger writing records at or above level to ws.
func NewLogger(ws zapcore.WriteSyncer, level zapcore.LevelEnabler) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.LevelKey = "level"
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.NameKey = "component"

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), ws, level)
	return zap.New(core).With(zap.String("app", appName))
}

func GetZapLevelFromEnv() zapcore.Level {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel // fallback
	}
}

// Named returns the logger of a component, or a no-op logger before InitLogger.
func Named(component string) *zap.SugaredLogger {
	if Log == nil {
		return zap.NewNop().Sugar()
	}
	return Log.Named(component)
}

// SyncLogger ensures the logger is properly synced
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
