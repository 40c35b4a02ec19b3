// Package logger provides the process-wide structured logger used by every
// component of the core. Rotation and dual console/file output mirror how
// the ambient logging stack is set up elsewhere in this codebase family;
// only the field vocabulary is specific to audio mastering.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. Defaults to a no-op logger so library
// code and tests that never call Initialize (only cmd/auralis-worker does)
// can still log through the package helpers without a nil-pointer panic.
var Log = zap.NewNop()

// SugaredLog is a sugared logger for printf-style call sites.
var SugaredLog = Log.Sugar()

// Initialize sets up the structured logger with file rotation.
// logLevel: "debug", "info", "warn", "error" (default: "info").
// logFile: path to log file (default: "auralis.log").
func Initialize(logLevel string, logFile string) error {
	if logFile == "" {
		logFile = "auralis.log"
	}
	if logLevel == "" {
		logLevel = "info"
	}

	level := parseLogLevel(logLevel)

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     7,
		Compress:   true,
	})

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	jsonEncoderConfig := zap.NewProductionEncoderConfig()
	jsonEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonEncoder := zapcore.NewJSONEncoder(jsonEncoderConfig)

	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)
	fileCore := zapcore.NewCore(jsonEncoder, fileWriter, level)
	core := zapcore.NewTee(consoleCore, fileCore)

	Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	SugaredLog = Log.Sugar()

	Log.Info("logger initialized", zap.String("level", logLevel), zap.String("file", logFile))
	return nil
}

// Close flushes the logger before shutdown.
func Close() error {
	return Log.Sync()
}

func parseLogLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// InfoWithFields logs an info message with structured fields.
func InfoWithFields(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// WarnWithFields logs a warning message with structured fields.
func WarnWithFields(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// ErrorWithFields logs an error message with structured fields.
func ErrorWithFields(msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Log.Error(msg, fields...)
}

// DebugWithFields logs a debug message with structured fields.
func DebugWithFields(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// FatalWithFields logs a fatal error and exits. Used for unrecoverable
// startup failures and programmer errors (errors.Fatal), never for
// audio-content issues.
func FatalWithFields(msg string, err error) {
	if err != nil {
		Log.Fatal(msg, zap.Error(err))
	} else {
		Log.Fatal(msg)
	}
}

// WithTrackID tags a log line with the originating track identity.
func WithTrackID(trackID string) zap.Field {
	return zap.String("track_id", trackID)
}

// WithCacheKey tags a log line with a fingerprint cache key.
func WithCacheKey(key string) zap.Field {
	return zap.String("cache_key", key)
}

// WithRecordingType tags a log line with a detected recording classification.
func WithRecordingType(recordingType string) zap.Field {
	return zap.String("recording_type", recordingType)
}

// WithWorkerID tags a log line with the extraction worker that emitted it.
func WithWorkerID(id int) zap.Field {
	return zap.Int("worker_id", id)
}

// WithStage tags a log line with the DSP pipeline stage name.
func WithStage(stage string) zap.Field {
	return zap.String("stage", stage)
}

// WithDuration tags a log line with an elapsed-time value.
func WithDuration(d interface{}) zap.Field {
	return zap.Any("duration", d)
}
