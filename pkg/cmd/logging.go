package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// setLogLevel applies the global verbosity flags before any castlink command
// runs. Trace wins over debug when both are set.
func setLogLevel(c *cli.Context) error {
	level := logrus.InfoLevel
	if c.IsSet("debug") {
		level = logrus.DebugLevel
	}
	if c.IsSet("trace") {
		level = logrus.TraceLevel
	}
	logrus.SetLevel(level)
	logrus.Infof("Castlink logging at %s level", level)
	return nil
}
