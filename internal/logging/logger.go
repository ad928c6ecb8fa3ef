package logging

import (
	"io"
	"os"
	"strings"

	"github.com/2beens/weighttrend/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger: level, format, output and the optional
// Sentry hook. A failing Sentry init is logged, never fatal.
func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))
	logrus.SetOutput(logOutput(params.LogFileName, params.LogToStdout))

	if params.SentryEnabled {
		if err := setupSentry(params); err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			logrus.Infoln("sentry set up successfully")
		}
	}
}

func setupSentry(params LoggerSetupParams) error {
	if err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	}); err != nil {
		return err
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	return nil
}

// logOutput returns stdout when no log file is set, otherwise a rotated file,
// optionally mirrored to stdout.
func logOutput(logFileName string, alsoStdout bool) io.Writer {
	if logFileName == "" {
		return os.Stdout
	}
	if !strings.HasSuffix(logFileName, ".log") {
		logFileName += ".log"
	}

	rotated := &lumberjack.Logger{
		Filename:   logFileName,
		MaxSize:    50, // megabytes
		MaxBackups: 30,
		Compress:   true,
	}
	if alsoStdout {
		return pkg.NewMultiLogWriter(os.Stdout, rotated)
	}
	return rotated
}

// GetLevel parses a config log level. Unknown values fall back to trace.
func GetLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.TraceLevel
	}
	return lvl
}
