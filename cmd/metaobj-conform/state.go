package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"metaobj/pkg/driver"
)

// globalState is everything a command touches outside its own flags.
type globalState struct {
	ctx    context.Context
	args   []string
	env    map[string]string
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	// set by the root command before any subcommand runs
	config  driver.Config
	logger  *logrus.Logger
	noColor bool
}

func (gs *globalState) execute() int {
	_, gs.noColor = gs.env["NO_COLOR"]
	root := newRootCommand(gs)
	root.SetArgs(gs.args)
	err := root.ExecuteContext(gs.ctx)
	if err == nil {
		return 0
	}

	code := exitGeneric
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		code = ecerr.ExitCode()
	}
	fmt.Fprintf(gs.stderr, "%s %v\n", gs.paint(color.FgRed, "error:"), err)
	return code
}

// paint colours s unless colour output is off or stdout is not a terminal.
func (gs *globalState) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if gs.noColor {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return env
}
