package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"metaobj/pkg/conformance"
	"metaobj/pkg/driver"
)

func TestMain(m *testing.M) {
	// regexp2 match timeouts share a clock goroutine for the process lifetime
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/dlclark/regexp2.runClock"))
}

type testState struct {
	*globalState
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestState(args ...string) *testState {
	ts := &testState{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	ts.globalState = &globalState{
		ctx:    context.Background(),
		args:   args,
		env:    map[string]string{"NO_COLOR": ""},
		fs:     afero.NewMemMapFs(),
		stdout: ts.stdout,
		stderr: ts.stderr,
	}
	return ts
}

func TestList(t *testing.T) {
	t.Parallel()

	ts := newTestState("list", "--tags", "symbol")
	require.Equal(t, 0, ts.execute(), ts.stderr.String())

	lines := strings.Split(strings.TrimSpace(ts.stdout.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 2, line)
		assert.Contains(t, strings.Split(fields[1], ","), "symbol", line)
	}
	assert.Regexp(t, `(?m)^symbol/registry +symbol$`, ts.stdout.String())
}

func TestRunPasses(t *testing.T) {
	t.Parallel()

	ts := newTestState("run", "-f", "^reflect/", "-w", "2")
	require.Equal(t, 0, ts.execute(), ts.stderr.String())

	out := ts.stdout.String()
	assert.Contains(t, out, "PASS reflect/function-lengths\n")
	assert.NotContains(t, out, "FAIL")
	assert.Regexp(t, `\n\d+ scenarios, \d+ passed, 0 failed\n$`, out)
}

func TestRunFailures(t *testing.T) {
	t.Parallel()

	ts := newTestState()
	ts.noColor = true
	ts.config = driver.NewConfig()
	ts.logger = logrus.New()
	ts.logger.SetOutput(ts.stderr)
	ts.logger.SetLevel(logrus.WarnLevel)

	err := ts.runScenarios(context.Background(), []conformance.Scenario{
		{Name: "a/ok", Run: func(*conformance.Case) {}},
		{Name: "b/broken", Run: func(c *conformance.Case) {
			c.Errorf("first")
			c.Errorf("second")
		}},
	}, 1, false)
	require.EqualError(t, err, "1 of 2 scenarios failed")
	var ecerr HasExitCode
	require.True(t, errors.As(err, &ecerr))
	assert.Equal(t, exitFailed, ecerr.ExitCode())

	assert.Equal(t, "PASS a/ok\nFAIL b/broken\n     first\n     second\n\n2 scenarios, 1 passed, 1 failed\n", ts.stdout.String())
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		env    map[string]string
		code   int
		stderr string
	}{
		{"no match", []string{"run", "-f", "^nothing-here$"}, nil, exitNoScenarios, "no scenarios match the filter"},
		{"bad pattern", []string{"list", "-f", "("}, nil, exitInvalidConfig, "invalid scenario pattern"},
		{"unknown flag", []string{"run", "--bogus"}, nil, exitInvalidConfig, "unknown flag: --bogus"},
		{"bad env", []string{"list"}, map[string]string{"METAOBJ_LOG_FORMAT": "xml"}, exitInvalidConfig, `invalid log format "xml"`},
		{"bad depth flag", []string{"list", "--max-call-depth", "0"}, nil, exitInvalidConfig, "max call depth must be positive"},
		{"extra args", []string{"run", "stray"}, nil, exitGeneric, `unknown command "stray"`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestState(tc.args...)
			for k, v := range tc.env {
				ts.env[k] = v
			}
			assert.Equal(t, tc.code, ts.execute())
			assert.True(t, strings.HasPrefix(ts.stderr.String(), "error: "), ts.stderr.String())
			assert.Contains(t, ts.stderr.String(), tc.stderr)
		})
	}
}

func TestConfigLayers(t *testing.T) {
	t.Parallel()

	ts := newTestState("list", "--config", "/etc/metaobj.yaml", "--log-format", "json", "-t", "symbol")
	require.NoError(t, afero.WriteFile(ts.fs, "/etc/metaobj.yaml", []byte("logLevel: debug\nlogFormat: text\nmaxCallDepth: 64\n"), 0o644))
	ts.env["METAOBJ_TRACE_TRAPS"] = "true"
	require.Equal(t, 0, ts.execute(), ts.stderr.String())

	assert.Equal(t, "debug", ts.config.LogLevel.String)
	assert.Equal(t, driver.LogFormatJSON, ts.config.LogFormat.String)
	assert.EqualValues(t, 64, ts.config.MaxCallDepth.Int64)
	assert.True(t, ts.config.TraceTraps.Bool)
	assert.Contains(t, ts.stderr.String(), `"msg":"logger configured"`)
}

func TestWithExitCodeIfNone(t *testing.T) {
	t.Parallel()

	assert.NoError(t, withExitCodeIfNone(nil, exitFailed))

	base := errors.New("boom")
	err := withExitCodeIfNone(withExitCodeIfNone(base, exitNoScenarios), exitFailed)
	var ecerr HasExitCode
	require.True(t, errors.As(err, &ecerr))
	assert.Equal(t, exitNoScenarios, ecerr.ExitCode())
	assert.ErrorIs(t, err, base)
	assert.EqualError(t, err, "boom")
}

func TestBuildEnvMap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": ""}, buildEnvMap([]string{"A=1", "B=x=y", "C"}))
}
