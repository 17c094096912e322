package ulogger_test

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/bsv-blockchain/walletrecovery/settings"
	"github.com/bsv-blockchain/walletrecovery/ulogger"
	"github.com/stretchr/testify/require"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level           string
		expectedOutputs map[string]bool
	}{
		{
			level: "DEBUG",
			expectedOutputs: map[string]bool{
				"DEBUG": true,
				"INFO":  true,
				"WARN":  true,
				"ERROR": true,
			},
		},
		{
			level: "INFO",
			expectedOutputs: map[string]bool{
				"DEBUG": false,
				"INFO":  true,
				"WARN":  true,
				"ERROR": true,
			},
		},
		{
			level: "WARN",
			expectedOutputs: map[string]bool{
				"DEBUG": false,
				"INFO":  false,
				"WARN":  true,
				"ERROR": true,
			},
		},
		{
			level: "ERROR",
			expectedOutputs: map[string]bool{
				"DEBUG": false,
				"INFO":  false,
				"WARN":  false,
				"ERROR": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer

			logger := ulogger.New("test-service", ulogger.WithLevel(tt.level), ulogger.WithWriter(&buf))

			logger.Debugf("DEBUG message")
			logger.Infof("INFO message")
			logger.Warnf("WARN message")
			logger.Errorf("ERROR message")

			output := buf.String()

			for level, expected := range tt.expectedOutputs {
				require.Equal(t, expected, strings.Contains(output, level+" message"), "level %s", level)
			}
		})
	}
}

func TestLoggerChildKeepsWriterAndLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.New("parent", ulogger.WithLevel("WARN"), ulogger.WithWriter(&buf))
	child := logger.New("child")

	child.Infof("hidden")
	child.Warnf("visible %d", 1)

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "visible 1")
	require.Contains(t, buf.String(), "child")
}

func TestInitLogger(t *testing.T) {
	tSettings := settings.NewSettings()
	tSettings.LogLevel = "ERROR"

	logger := ulogger.InitLogger("walletrecovery", tSettings)
	require.NotNil(t, logger)

	noop := logger.Duplicate()
	require.NotNil(t, noop)
}

func TestTestLoggerIsSilent(t *testing.T) {
	var logger ulogger.Logger = ulogger.TestLogger{}

	logger.Infof("nothing %s", "happens")
	require.Equal(t, 0, logger.LogLevel())
	require.NotNil(t, logger.New("x"))
}

func TestGoCoreLogger(t *testing.T) {
	var buf bytes.Buffer

	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	tests := []struct {
		name    string
		level   string
		want    int
		visible []string
		hidden  []string
	}{
		{name: "info", level: "INFO", want: 1, visible: []string{"info line", "warn line"}, hidden: []string{"debug line"}},
		{name: "debug", level: "debug", want: 0, visible: []string{"debug line", "info line"}},
		{name: "error", level: "ERROR", want: 3, visible: []string{"error line"}, hidden: []string{"info line", "warn line"}},
		{name: "unknown means info", level: "loud", want: 1, visible: []string{"info line"}, hidden: []string{"debug line"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()

			logger := ulogger.New("gocore-"+tt.name, ulogger.WithLoggerType("gocore"), ulogger.WithLevel(tt.level))
			require.IsType(t, &ulogger.GoCoreLogger{}, logger)
			require.Equal(t, tt.want, logger.LogLevel())

			logger.Debugf("debug line")
			logger.Infof("info line")
			logger.Warnf("warn line")
			logger.Errorf("error line")

			for _, s := range tt.visible {
				require.Contains(t, buf.String(), s)
			}

			for _, s := range tt.hidden {
				require.NotContains(t, buf.String(), s)
			}
		})
	}

	t.Run("set level after creation", func(t *testing.T) {
		buf.Reset()

		logger := ulogger.New("gocore-set", ulogger.WithLoggerType("gocore"), ulogger.WithLevel("ERROR"))
		logger.Infof("before")

		logger.SetLogLevel("DEBUG")
		logger.Debugf("after")

		require.NotContains(t, buf.String(), "before")
		require.Contains(t, buf.String(), "after")
		require.Contains(t, buf.String(), "gocore-set")
	})

	t.Run("children inherit the level", func(t *testing.T) {
		buf.Reset()

		parent := ulogger.New("gocore-parent", ulogger.WithLoggerType("gocore"), ulogger.WithLevel("WARN"))
		child := parent.New("gocore-child")
		dup := parent.Duplicate(ulogger.WithLevel("DEBUG"))

		require.Equal(t, 2, child.LogLevel())
		require.Equal(t, 0, dup.LogLevel())
		require.Equal(t, 2, parent.LogLevel())

		child.Infof("child info")
		require.NotContains(t, buf.String(), "child info")
	})
}
