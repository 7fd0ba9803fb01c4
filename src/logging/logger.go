package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var baseLogger = newLogger(zapcore.Lock(zapcore.AddSync(os.Stderr)))

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = ""
	return cfg
}

func newLogger(ws zapcore.WriteSyncer) *zap.Logger {
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), ws, atomicLevel))
}

// Options configures the process-wide logger.
type Options struct {
	Level string
	// File enables an additional JSON log file rotated by size. Empty disables it.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Configure replaces the global logger. Call once at startup before any goroutines log.
func Configure(o Options) {
	SetLogLevel(o.Level)
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(zapcore.AddSync(os.Stderr)), atomicLevel),
	}
	if o.File != "" {
		maxSize := o.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		lj := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    maxSize,
			MaxBackups: o.MaxBackups,
		}
		fileCfg := encoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(lj), atomicLevel))
	}
	baseLogger = zap.New(zapcore.NewTee(cores...))
}

// Sync flushes buffered log entries.
func Sync() error { return baseLogger.Sync() }

// SetLogLevel parses and sets global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	atomicLevel.SetLevel(l.zapLevel())
}

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel {
	switch atomicLevel.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

func logf(l LogLevel, format string, args ...interface{}) {
	zl := l.zapLevel()
	if !atomicLevel.Enabled(zl) {
		return
	}
	// Without args the input is already a finished message; running it through Sprintf would
	// turn literal % characters into %!x(MISSING).
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if ce := baseLogger.Check(zl, msg); ce != nil {
		ce.Write()
	}
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs the elapsed time of a phase at debug level.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
