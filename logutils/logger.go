package logutils

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the logger used by every package of the server.
var Log = logrus.New()

// Fields is the type of logrus.Fields.
type Fields = logrus.Fields

//nolint:gochecknoinits // This is the only place where we should set up the logger.
func init() {
	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat:           "2006-01-02 15:04:05",
		ForceColors:               true,
		EnvironmentOverrideColors: true,
		FullTimestamp:             true,
	})
	Log.SetReportCaller(true)
}

// SetLevel changes the minimum level, e.g. "debug", "info", "warn", "error".
// An empty level keeps info.
func SetLevel(level string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	Log.SetLevel(lvl)
	return nil
}
