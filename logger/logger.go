package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Environment variables consulted when Init gets empty arguments.
const (
	EnvLevel  = "LOG_LEVEL"
	EnvFormat = "LOG_FORMAT"
)

// Init configures the standard logrus logger and returns it. Every package defaults to
// logrus.StandardLogger(), so this should run once at the start of main.
//
// Parameters:
//   - level: a logrus level name; empty reads LOG_LEVEL, unknown values fall back to info
//   - format: "json" for JSONFormatter, anything else for text; empty reads LOG_FORMAT
//
// Returns:
//   - *logrus.Logger: the configured standard logger
func Init(level, format string) *logrus.Logger {
	return configure(logrus.StandardLogger(), os.Stdout, level, format)
}

// New returns a separate logger configured like Init, writing to out.
func New(out io.Writer, level, format string) *logrus.Logger {
	return configure(logrus.New(), out, level, format)
}

func configure(log *logrus.Logger, out io.Writer, level, format string) *logrus.Logger {
	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if format == "" {
		format = os.Getenv(EnvFormat)
	}
	if strings.ToLower(format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	log.SetOutput(out)
	return log
}
