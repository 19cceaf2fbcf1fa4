package driver

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logger writing to out with the configured level and
// formatter. The config must have passed Validate.
func NewLogger(conf Config, out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(conf.LogLevel.String)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	switch conf.LogFormat.String {
	case LogFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	}
	logger.WithField("format", conf.LogFormat.String).Debug("logger configured")
	return logger, nil
}
