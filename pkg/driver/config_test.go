package driver

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"metaobj/pkg/vm"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	conf := NewConfig()
	assert.Equal(t, "info", conf.LogLevel.String)
	assert.Equal(t, LogFormatText, conf.LogFormat.String)
	assert.Equal(t, int64(vm.DefaultMaxCallDepth), conf.MaxCallDepth.Int64)
	assert.False(t, conf.TraceTraps.Bool)
	assert.False(t, conf.LogLevel.Valid, "defaults are overridable")
	assert.NoError(t, conf.Validate())
}

func TestConfigApply(t *testing.T) {
	t.Parallel()

	base := NewConfig()
	got := base.Apply(Config{MaxCallDepth: null.IntFrom(10)})
	assert.Equal(t, int64(10), got.MaxCallDepth.Int64)
	assert.Equal(t, "info", got.LogLevel.String, "invalid fields are not copied")

	got = got.Apply(Config{MaxCallDepth: null.NewInt(5, false), TraceTraps: null.BoolFrom(true)})
	assert.Equal(t, int64(10), got.MaxCallDepth.Int64)
	assert.True(t, got.TraceTraps.Bool)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	conf := NewConfig().Apply(Config{
		LogLevel:     null.StringFrom("loud"),
		LogFormat:    null.StringFrom("xml"),
		MaxCallDepth: null.IntFrom(0),
	})
	err := conf.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, `invalid log level "loud"`)
	assert.ErrorContains(t, err, `invalid log format "xml", expected text or json`)
	assert.ErrorContains(t, err, "max call depth must be positive, got 0")
}

func TestReadConfigFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/metaobj.yaml", []byte("logLevel: debug\nmaxCallDepth: 200\n"), 0o644))

	conf, err := ReadConfigFile(fs, "/etc/metaobj.yaml")
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom("debug"), conf.LogLevel)
	assert.Equal(t, null.IntFrom(200), conf.MaxCallDepth)
	assert.False(t, conf.LogFormat.Valid)
	assert.False(t, conf.TraceTraps.Valid)

	conf, err = ReadConfigFile(fs, "/missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, Config{}, conf)

	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("maxCallDepth: [1"), 0o644))
	_, err = ReadConfigFile(fs, "/bad.yaml")
	assert.ErrorContains(t, err, "parsing config /bad.yaml")
}

func TestReadEnvConfig(t *testing.T) {
	t.Parallel()

	conf, err := ReadEnvConfig(map[string]string{
		"METAOBJ_LOG_FORMAT":  "json",
		"METAOBJ_TRACE_TRAPS": "true",
		"UNRELATED":           "x",
	})
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom("json"), conf.LogFormat)
	assert.Equal(t, null.BoolFrom(true), conf.TraceTraps)
	assert.False(t, conf.LogLevel.Valid)

	_, err = ReadEnvConfig(map[string]string{"METAOBJ_MAX_CALL_DEPTH": "deep"})
	assert.ErrorContains(t, err, "reading environment")
}

func TestGetConsolidatedConfig(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "conf.yaml", []byte("logLevel: warn\nlogFormat: json\nmaxCallDepth: 50\n"), 0o644))
	env := map[string]string{"METAOBJ_LOG_LEVEL": "debug", "METAOBJ_MAX_CALL_DEPTH": "40"}
	cli := Config{MaxCallDepth: null.IntFrom(30)}

	conf, err := GetConsolidatedConfig(fs, "conf.yaml", env, cli)
	require.NoError(t, err)
	assert.Equal(t, LogFormatJSON, conf.LogFormat.String, "file beats defaults")
	assert.Equal(t, "debug", conf.LogLevel.String, "environment beats file")
	assert.Equal(t, int64(30), conf.MaxCallDepth.Int64, "flags beat environment")
	assert.False(t, conf.TraceTraps.Bool)

	_, err = GetConsolidatedConfig(fs, "", nil, Config{LogFormat: null.StringFrom("yaml")})
	assert.ErrorContains(t, err, "invalid log format")
}
