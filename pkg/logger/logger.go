package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level 日志级别
type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
	PanicLevel
	FatalLevel
)

// toZapLevel 映射到 zap 级别（跳过 DPanic）
func toZapLevel(l Level) zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case PanicLevel:
		return zapcore.PanicLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel 解析级别字符串（debug/info/warn/error/panic/fatal）
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "panic":
		return PanicLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger 日志接口，可通过 ReplaceDefault 替换为自定义实现
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Panic(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Panicf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})

	SetLevel(level Level)
	Sync() error
}

var std Logger = New(os.Stderr, InfoLevel, AddCaller())

// pkgStd 供包级函数使用，比 std 多跳过一层调用栈
var pkgStd = skipped(std)

func Default() Logger { return std }

func ReplaceDefault(l Logger) {
	std = l
	pkgStd = skipped(l)
}

func skipped(l Logger) Logger {
	if zl, ok := l.(*ZapLogger); ok {
		return zl.callerSkip(1)
	}
	return l
}

func SetLevel(level Level) { std.SetLevel(level) }

func Debug(msg string, fields ...Field) { pkgStd.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { pkgStd.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { pkgStd.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { pkgStd.Error(msg, fields...) }
func Panic(msg string, fields ...Field) { pkgStd.Panic(msg, fields...) }
func Fatal(msg string, fields ...Field) { pkgStd.Fatal(msg, fields...) }

func Debugf(format string, v ...interface{}) { pkgStd.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { pkgStd.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { pkgStd.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { pkgStd.Errorf(format, v...) }
func Panicf(format string, v ...interface{}) { pkgStd.Panicf(format, v...) }
func Fatalf(format string, v ...interface{}) { pkgStd.Fatalf(format, v...) }

func Sync() error { return std.Sync() }
