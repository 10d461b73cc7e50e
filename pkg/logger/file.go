package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// RotateBySize 按文件大小切割（lumberjack）
	RotateBySize = "size"
	// RotateByTime 按时间切割（file-rotatelogs）
	RotateByTime = "time"
)

// FileConfig 日志输出配置
type FileConfig struct {
	Level      string        `yaml:"level" json:"level" ini:"level" env:"LEVEL"`
	Output     string        `yaml:"output" json:"output" ini:"output" env:"OUTPUT"` // stdout、stderr 或文件路径
	Rotation   string        `yaml:"rotation" json:"rotation" ini:"rotation" env:"ROTATION"`
	MaxSize    int           `yaml:"max_size" json:"max_size" ini:"max_size" env:"MAX_SIZE"`          // MB，按大小切割
	MaxBackups int           `yaml:"max_backups" json:"max_backups" ini:"max_backups" env:"MAX_BACKUPS"`
	MaxAge     int           `yaml:"max_age" json:"max_age" ini:"max_age" env:"MAX_AGE"` // 天
	Compress   bool          `yaml:"compress" json:"compress" ini:"compress" env:"COMPRESS"`
	RotateTime time.Duration `yaml:"rotate_time" json:"rotate_time" ini:"rotate_time" env:"ROTATE_TIME"` // 按时间切割的周期
	Caller     bool          `yaml:"caller" json:"caller" ini:"caller" env:"CALLER"`
	Stacktrace string        `yaml:"stacktrace" json:"stacktrace" ini:"stacktrace" env:"STACKTRACE"` // 该级别及以上附带堆栈，空为关闭
}

// NewWriter 按配置创建日志输出
func NewWriter(cfg FileConfig) (io.Writer, error) {
	switch cfg.Output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	}

	switch cfg.Rotation {
	case "", RotateBySize:
		return &lumberjack.Logger{
			Filename:   cfg.Output,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}, nil
	case RotateByTime:
		rotateTime := cfg.RotateTime
		if rotateTime <= 0 {
			rotateTime = 24 * time.Hour
		}
		opts := []rotatelogs.Option{
			rotatelogs.WithLinkName(cfg.Output),
			rotatelogs.WithRotationTime(rotateTime),
		}
		// MaxAge 与 RotationCount 互斥
		if cfg.MaxAge > 0 {
			opts = append(opts, rotatelogs.WithMaxAge(time.Duration(cfg.MaxAge)*24*time.Hour))
		} else if cfg.MaxBackups > 0 {
			opts = append(opts, rotatelogs.WithRotationCount(uint(cfg.MaxBackups)))
		}
		w, err := rotatelogs.New(cfg.Output+".%Y%m%d%H%M", opts...)
		if err != nil {
			return nil, fmt.Errorf("create rotatelogs: %w", err)
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown rotation %q", cfg.Rotation)
	}
}

// NewFromConfig 按配置创建日志
func NewFromConfig(cfg FileConfig) (*ZapLogger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(cfg)
	if err != nil {
		return nil, err
	}

	var opts []Option
	if cfg.Caller {
		opts = append(opts, AddCaller())
	}
	if cfg.Stacktrace != "" {
		stackLevel, err := ParseLevel(cfg.Stacktrace)
		if err != nil {
			return nil, fmt.Errorf("stacktrace: %w", err)
		}
		opts = append(opts, AddStacktrace(stackLevel))
	}
	return New(w, level, opts...), nil
}
