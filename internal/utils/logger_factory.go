package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	loggerTimeKeyConstant                = "time"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// LoggerFactory builds zap.Logger instances that write diagnostics to standard error.
type LoggerFactory struct {
	sinkProvider func() io.Writer
}

// NewLoggerFactory constructs a logger factory that writes to the process standard error stream.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{sinkProvider: func() io.Writer { return os.Stderr }}
}

// NewLoggerFactoryWithSink constructs a logger factory that writes to the provided sink.
func NewLoggerFactoryWithSink(sink io.Writer) *LoggerFactory {
	return &LoggerFactory{sinkProvider: func() io.Writer { return sink }}
}

// NormalizeLogLevel lowercases and trims a user-provided log level.
func NormalizeLogLevel(rawLevel string) LogLevel {
	return LogLevel(strings.ToLower(strings.TrimSpace(rawLevel)))
}

// NormalizeLogFormat lowercases and trims a user-provided log format.
func NormalizeLogFormat(rawFormat string) LogFormat {
	return LogFormat(strings.ToLower(strings.TrimSpace(rawFormat)))
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[NormalizeLogLevel(string(requestedLogLevel))]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.TimeKey = loggerTimeKeyConstant
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch NormalizeLogFormat(string(requestedLogFormat)) {
	case LogFormatStructured:
		encoder = zapcore.NewJSONEncoder(encoderConfiguration)
	case LogFormatConsole:
		encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	sink := io.Writer(os.Stderr)
	if factory != nil && factory.sinkProvider != nil {
		if providedSink := factory.sinkProvider(); providedSink != nil {
			sink = providedSink
		}
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(sink)), zap.NewAtomicLevelAt(zapLogLevel))
	return zap.New(core, zap.ErrorOutput(zapcore.Lock(zapcore.AddSync(sink)))), nil
}
