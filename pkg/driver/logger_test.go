package driver

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func TestNewLoggerJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	conf := NewConfig().Apply(Config{LogLevel: null.StringFrom("debug"), LogFormat: null.StringFrom(LogFormatJSON)})
	logger, err := NewLogger(conf, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "logger configured", entry["msg"])
	assert.Equal(t, "json", entry["format"])
}

func TestNewLoggerText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewLogger(NewConfig(), &buf)
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "debug output is filtered at info")

	logger.WithField("case", 1).Warn("hello")
	assert.Equal(t, "level=warning msg=hello case=1\n", buf.String())
}

func TestNewLoggerBadLevel(t *testing.T) {
	t.Parallel()

	_, err := NewLogger(NewConfig().Apply(Config{LogLevel: null.StringFrom("chatty")}), &bytes.Buffer{})
	assert.Error(t, err)
}
