// Package logger собирает zap-логгер: консоль для разработки, JSON для остальных
// окружений и, при необходимости, файл с ротацией через lumberjack.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Zap struct {
	*zap.Logger
}

type File struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type Option func(*options)

type options struct {
	file File
}

// WithFile дублирует записи в JSON-файл с ротацией.
func WithFile(f File) Option {
	return func(o *options) {
		o.file = f
	}
}

func New(env, level string, opts ...Option) (*Zap, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("неизвестный уровень логирования %q: %w", level, err)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder(env), zapcore.Lock(os.Stderr), lvl),
	}

	if o.file.Path != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   o.file.Path,
			MaxSize:    o.file.MaxSizeMB,
			MaxBackups: o.file.MaxBackups,
			MaxAge:     o.file.MaxAgeDays,
		})
		cores = append(cores, zapcore.NewCore(jsonEncoder(), writer, lvl))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	return &Zap{Logger: log}, nil
}

func consoleEncoder(env string) zapcore.Encoder {
	if env != "dev" {
		return jsonEncoder()
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return zapcore.NewConsoleEncoder(cfg)
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}
