package main

import "errors"

// Exit codes.
const (
	exitGeneric       = 1
	exitFailed        = 1
	exitInvalidConfig = 2
	exitNoScenarios   = 3
)

// HasExitCode is an error that carries the code the process should exit with.
type HasExitCode interface {
	error
	ExitCode() int
}

// withExitCodeIfNone attaches code to err unless it already has one.
func withExitCodeIfNone(err error, code int) error {
	if err == nil {
		return nil
	}
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		return err
	}
	return withExitCode{err, code}
}

type withExitCode struct {
	error
	exitCode int
}

func (wh withExitCode) Unwrap() error {
	return wh.error
}

func (wh withExitCode) ExitCode() int {
	return wh.exitCode
}

var _ HasExitCode = withExitCode{}
