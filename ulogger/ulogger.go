package ulogger

import (
	"github.com/bsv-blockchain/walletrecovery/settings"
)

const (
	colorRed    = 31
	colorGreen  = 32
	colorYellow = 33
	colorBlue   = 34
)

type Logger interface {
	LogLevel() int
	SetLogLevel(level string)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	New(service string, options ...Option) Logger
	Duplicate(options ...Option) Logger
}

func New(service string, options ...Option) Logger {
	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	switch opts.loggerType {
	case "gocore":
		return NewGoCoreLogger(service, options...)
	default:
		return NewZeroLogger(service, options...)
	}
}

// InitLogger creates the logger for a command using the configured level and logger type.
func InitLogger(service string, tSettings *settings.Settings) Logger {
	return New(service,
		WithLevel(tSettings.LogLevel),
		WithLoggerType(tSettings.LoggerType),
	)
}
