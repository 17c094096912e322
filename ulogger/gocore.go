package ulogger

import (
	"strings"
	"sync/atomic"

	"github.com/ordishs/gocore"
	"github.com/rs/zerolog"
)

// GoCoreLogger writes in the gocore "| file:line | service | LEVEL |" format through the standard log package,
// for runs whose output is collected next to other gocore tools. The writer option does not apply.
//
// gocore keeps a single logger per service name with the level it was first created with, so the underlying
// logger is always created at DEBUG and the level is applied here.
type GoCoreLogger struct {
	logger  *gocore.Logger
	service string
	level   *atomic.Int32
}

func NewGoCoreLogger(service string, options ...Option) *GoCoreLogger {
	if service == "" {
		service = "walletrecovery"
	}

	opts := DefaultOptions()
	for _, o := range options {
		o(opts)
	}

	g := &GoCoreLogger{
		logger:  gocore.Log(service, gocore.DEBUG),
		service: service,
		level:   &atomic.Int32{},
	}

	g.SetLogLevel(opts.logLevel)

	return g
}

// New returns a logger for service at the level of g unless options set one.
func (g *GoCoreLogger) New(service string, options ...Option) Logger {
	return NewGoCoreLogger(service, append([]Option{WithLevel(levelName(g.LogLevel()))}, options...)...)
}

// Duplicate shares nothing with g, changing its level leaves g alone.
func (g *GoCoreLogger) Duplicate(options ...Option) Logger {
	return g.New(g.service, options...)
}

// SetLogLevel takes the same names as the zerolog logger, anything unknown means INFO.
func (g *GoCoreLogger) SetLogLevel(level string) {
	g.level.Store(int32(parseGoCoreLevel(level))) //nolint:gosec // levels are 0..5
}

func (g *GoCoreLogger) LogLevel() int {
	return int(g.level.Load())
}

func (g *GoCoreLogger) enabled(level int) bool {
	return int32(level) >= g.level.Load() //nolint:gosec // levels are 0..5
}

func (g *GoCoreLogger) Debugf(format string, args ...interface{}) {
	if g.enabled(int(gocore.DEBUG)) {
		g.logger.Debugf(format, args...)
	}
}

func (g *GoCoreLogger) Infof(format string, args ...interface{}) {
	if g.enabled(int(gocore.INFO)) {
		g.logger.Infof(format, args...)
	}
}

func (g *GoCoreLogger) Warnf(format string, args ...interface{}) {
	if g.enabled(int(gocore.WARN)) {
		g.logger.Warnf(format, args...)
	}
}

func (g *GoCoreLogger) Errorf(format string, args ...interface{}) {
	if g.enabled(int(gocore.ERROR)) {
		g.logger.Errorf(format, args...)
	}
}

// Fatalf always logs and exits.
func (g *GoCoreLogger) Fatalf(format string, args ...interface{}) {
	g.logger.Fatalf(format, args...)
}

// zerolog numbers debug through panic 0 to 5, the same as gocore.
func parseGoCoreLevel(level string) int {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l < zerolog.DebugLevel || l > zerolog.PanicLevel {
		return int(gocore.INFO)
	}

	return int(l)
}

func levelName(level int) string {
	return strings.ToUpper(zerolog.Level(level).String()) //nolint:gosec // levels are 0..5
}
