// Package logger is the library's leveled logging facade, backed by zap.
// Without Setup it writes warnings and errors to stdout; Setup adds a
// rotating file target and adjusts the level.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Settings stores config for the logger
type Settings struct {
	Path       string `yaml:"path"`
	Name       string `yaml:"name"`
	Ext        string `yaml:"ext"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
}

var sugar = newStdoutLogger(zapcore.WarnLevel)

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func newStdoutLogger(level zapcore.Level) *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(os.Stdout),
		level,
	)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// Setup routes logging to stdout plus a rotating file described by settings
func Setup(settings *Settings) {
	level := zapcore.InfoLevel
	if settings.Level != "" {
		if parsed, err := zapcore.ParseLevel(settings.Level); err == nil {
			level = parsed
		}
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(settings.Path, settings.Name+"."+settings.Ext),
		MaxSize:    settings.MaxSizeMB,
		MaxBackups: settings.MaxBackups,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stdout), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(rotator), level),
	)
	sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// Debug logs a debug message
func Debug(args ...interface{}) {
	sugar.Debug(args...)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	sugar.Debugf(format, args...)
}

// Info logs an info message
func Info(args ...interface{}) {
	sugar.Info(args...)
}

// Infof logs a formatted info message
func Infof(format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

// Warn logs a warning message
func Warn(args ...interface{}) {
	sugar.Warn(args...)
}

// Error logs an error message
func Error(args ...interface{}) {
	sugar.Error(args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	sugar.Errorf(format, args...)
}

// Fatal logs an error message then stops the program
func Fatal(args ...interface{}) {
	sugar.Fatal(args...)
}
